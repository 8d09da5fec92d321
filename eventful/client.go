package eventful

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the REST endpoint base of the public API.
const DefaultBaseURL = "http://api.eventful.com/rest"

// DefaultTimeout bounds every HTTP exchange.
const DefaultTimeout = 30 * time.Second

const userAgent = "eventful-go"

// Client is an Eventful API client. It carries the application key and the
// login session, so every call is made in the context of one client value.
type Client struct {
	baseURL    string
	appKey     string
	timeout    time.Duration
	httpClient *http.Client
	debug      io.Writer
	logger     zerolog.Logger

	mu      sync.RWMutex
	session Session
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the REST endpoint base
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the HTTP client timeout. Ignored when WithHTTPClient is used.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithDebugWriter copies every raw response body to w before it is parsed.
func WithDebugWriter(w io.Writer) Option {
	return func(c *Client) {
		c.debug = w
	}
}

// WithSession starts the client with an existing session
func WithSession(s Session) Option {
	return func(c *Client) {
		c.session = s
	}
}

// NewClient creates a new Eventful client
func NewClient(appKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if appKey == "" {
		return nil, fmt.Errorf("%w: app key is required", ErrInvalidConfig)
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		appKey:  appKey,
		timeout: DefaultTimeout,
		logger:  logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.baseURL = strings.TrimRight(c.baseURL, "/")
	if c.baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}

	return c, nil
}

// BaseURL returns the endpoint base requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping verifies the endpoint answers and accepts the application key.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.Invoke(ctx, "/categories/list", nil, Anonymous()); err != nil {
		return fmt.Errorf("failed to reach Eventful: %w", err)
	}
	return nil
}
