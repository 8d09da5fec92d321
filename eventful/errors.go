package eventful

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid eventful configuration")
	// ErrNotFound indicates an expected element is missing from a response
	ErrNotFound = errors.New("element not found in response")
	// ErrMalformedResponse indicates the response body is not a usable XML document
	ErrMalformedResponse = errors.New("malformed response")
	// ErrMissingParameter indicates a required parameter was not supplied
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrUnknownParameter indicates a parameter the method does not accept
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrUnknownMethod indicates a method name absent from the method table
	ErrUnknownMethod = errors.New("unknown method")
	// ErrNoCredentials indicates login was attempted without a username or password
	ErrNoCredentials = errors.New("username and password are required")
)

// APIError is a fault reported by the server in an <error> document.
type APIError struct {
	Code        string
	Description string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("eventful API error: %s", e.Code)
	}
	return fmt.Sprintf("eventful API error: %s: %s", e.Code, e.Description)
}

// IsAuthentication checks if the server rejected the credentials
func (e *APIError) IsAuthentication() bool {
	return strings.Contains(strings.ToLower(e.Code), "authentication")
}

// IsNotFound checks if the server could not find the requested resource
func (e *APIError) IsNotFound() bool {
	return strings.Contains(strings.ToLower(e.Code), "not found")
}

// IsInvalidParameters checks if the server rejected the request parameters
func (e *APIError) IsInvalidParameters() bool {
	code := strings.ToLower(e.Code)
	return strings.Contains(code, "invalid-parameters") || strings.Contains(code, "missing parameter") ||
		strings.Contains(code, "invalid parameter")
}

// TransportError is a failure to complete the HTTP exchange, or a non-success
// reply that carries no XML error document.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("eventful transport error: %s %s: status %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("eventful transport error: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NotFoundError reports the path segment a response lookup failed on.
type NotFoundError struct {
	Path    []string
	Segment string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("element %q not found (path %s)", e.Segment, strings.Join(e.Path, "/"))
}

// Is makes errors.Is(err, ErrNotFound) hold for every NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsAPIError returns true if err is or wraps an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsTransportError returns true if err is or wraps a TransportError.
func IsTransportError(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}

// IsNotFound returns true if err is a response path lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// CheckError returns doc unchanged unless its document element is an
// <error>, in which case the fault is returned as an *APIError.
func CheckError(doc *Node) (*Node, error) {
	root := doc.Root()
	if root == nil || root.Name != "error" {
		return doc, nil
	}

	apiErr := &APIError{Code: root.Attr["string"]}
	if desc, err := root.Text("description"); err == nil {
		apiErr.Description = desc
	}
	return nil, apiErr
}
