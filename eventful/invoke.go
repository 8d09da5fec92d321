package eventful

import (
	"context"
	"net/http"
	"strings"
)

// CallOption adjusts a single Invoke call.
type CallOption func(*callOptions)

type callOptions struct {
	method         string
	skipErrorCheck bool
	anonymous      bool
}

// WithHTTPMethod sends the call with the given HTTP method instead of GET
func WithHTTPMethod(method string) CallOption {
	return func(o *callOptions) {
		if method != "" {
			o.method = strings.ToUpper(method)
		}
	}
}

// SkipErrorCheck returns <error> documents as ordinary responses.
func SkipErrorCheck() CallOption {
	return func(o *callOptions) {
		o.skipErrorCheck = true
	}
}

// Anonymous sends the call without the session credential.
func Anonymous() CallOption {
	return func(o *callOptions) {
		o.anonymous = true
	}
}

// Invoke calls the remote method at path and returns the parsed response.
// The application key, and the session's user and user_key when logged in,
// are placed ahead of params on the wire. params is not modified.
func (c *Client) Invoke(ctx context.Context, path string, params *Params, opts ...CallOption) (*Node, error) {
	return c.do(ctx, c.newRequest(path, params, opts...))
}

func (c *Client) newRequest(path string, params *Params, opts ...CallOption) *Request {
	o := callOptions{method: http.MethodGet}
	for _, opt := range opts {
		opt(&o)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	wire := params.Clone()
	wire.Prepend("app_key", c.appKey)

	if !o.anonymous {
		if s := c.Session(); s.Authenticated() {
			wire.Prepend("user_key", s.UserKey)
			wire.Prepend("user", s.Username)
		}
	}

	return &Request{
		Path:           path,
		Params:         wire,
		Method:         o.method,
		SkipErrorCheck: o.skipErrorCheck,
		Anonymous:      o.anonymous,
	}
}
