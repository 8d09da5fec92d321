package eventful

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Request describes one remote call. It is built fresh for every call and
// not modified once built.
type Request struct {
	Path           string
	Params         *Params
	Method         string
	SkipErrorCheck bool
	Anonymous      bool
}

// URL renders the full request URL for the given endpoint base. Parameters
// always travel in the query string, for POST as well as GET.
func (r *Request) URL(base string) string {
	u := base + r.Path
	if q := r.Params.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

// do performs the HTTP exchange and parses the reply. The response body is
// closed on every return path.
func (c *Client) do(ctx context.Context, req *Request) (*Node, error) {
	logger := c.logger.With().
		Str("request_id", uuid.NewString()).
		Str("method", req.Method).
		Str("path", req.Path).
		Logger()

	logger.Debug().Str("query", req.Params.redacted()).Msg("Making Eventful API request")

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL(c.baseURL), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "text/xml, application/xml")
	httpReq.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// *url.Error prints the full query, credentials included
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = c.baseURL + req.Path + "?" + req.Params.redacted()
		}
		return nil, &TransportError{Op: req.Method, URL: c.baseURL + req.Path, Err: err}
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if c.debug != nil {
		fmt.Fprintf(c.debug, "--- %s %s (%d)\n", req.Method, req.Path, resp.StatusCode)
		body = io.TeeReader(resp.Body, c.debug)
	}

	doc, parseErr := Parse(body)
	if c.debug != nil {
		// the decoder may stop early on malformed input; dump the rest too
		if _, err := io.Copy(c.debug, resp.Body); err != nil {
			logger.Debug().Err(err).Msg("Failed to copy response remainder to debug writer")
		}
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Received Eventful API response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if parseErr == nil {
			if _, apiErr := CheckError(doc); apiErr != nil {
				return nil, apiErr
			}
		}
		return nil, &TransportError{Op: req.Method, URL: c.baseURL + req.Path, StatusCode: resp.StatusCode}
	}
	if parseErr != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, parseErr)
	}

	if req.SkipErrorCheck {
		return doc, nil
	}
	return CheckError(doc)
}
