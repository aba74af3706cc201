package wealth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/eshaffer321/wealth-go/internal/auth"
	"github.com/eshaffer321/wealth-go/internal/transport"
	internalTypes "github.com/eshaffer321/wealth-go/internal/types"
	"github.com/getsentry/sentry-go"
)

const (
	// DefaultBaseURL is the default wealth API base URL
	DefaultBaseURL = internalTypes.DefaultBaseURL

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = internalTypes.DefaultTimeout

	// UserAgent is the user agent string
	UserAgent = internalTypes.UserAgent
)

// Client is the main wealth API client
type Client struct {
	// Service interfaces
	Categories CategoryService
	Auth       AuthService

	// Internal fields
	baseURL    string
	httpClient *http.Client
	transport  Transport
	options    *ClientOptions
	session    *Session
	store      *auth.Store
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the default API base URL
	BaseURL string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout sets the HTTP client timeout
	Timeout time.Duration

	// Token provides direct authentication token
	Token string

	// SessionFile path for session persistence
	SessionFile string

	// Logger for debug logging
	Logger Logger

	// RetryConfig configures retry behavior
	RetryConfig *internalTypes.RetryConfig

	// RateLimiter for rate limiting
	RateLimiter RateLimiter

	// Hooks for observability and sign-in redirects
	Hooks *internalTypes.Hooks

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// RetryConfig configures retry behavior
type RetryConfig = internalTypes.RetryConfig

// Hooks provides lifecycle hooks for requests
type Hooks = internalTypes.Hooks

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RateLimiter interface for rate limiting
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// Transport handles HTTP/JSON communication
type Transport interface {
	Get(ctx context.Context, path string, params url.Values, result interface{}) error
	SetAuth(token string)
	SetSession(session *internalTypes.Session)
}

// NewClient creates a new wealth API client
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}

		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}

		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}

		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		// A broken DSN must not prevent the client from working
		if err := sentry.Init(sentryOpts); err != nil {
			if opts.Logger != nil {
				opts.Logger.Error("Failed to initialize Sentry", "error", err)
			}
		}
	}

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if _, err := url.ParseRequestURI(opts.BaseURL); err != nil {
		return nil, &ValidationError{Field: "BaseURL", Message: err.Error(), Value: opts.BaseURL}
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	if opts.Timeout > 0 {
		opts.HTTPClient.Timeout = opts.Timeout
	}

	var transportLogger internalTypes.Logger
	if opts.Logger != nil {
		transportLogger = opts.Logger
	}

	// Request, response and error hooks run in executeREST; the transport
	// only reports rejected tokens
	var transportHooks *internalTypes.Hooks
	if opts.Hooks != nil && opts.Hooks.OnUnauthorized != nil {
		transportHooks = &internalTypes.Hooks{OnUnauthorized: opts.Hooks.OnUnauthorized}
	}

	trans := transport.NewRESTTransport(&transport.Options{
		BaseURL:     opts.BaseURL,
		HTTPClient:  opts.HTTPClient,
		RetryConfig: opts.RetryConfig,
		Logger:      transportLogger,
		Hooks:       transportHooks,
	})

	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		transport:  trans,
		options:    opts,
		store:      auth.NewStore(transportLogger),
	}

	c.initServices()

	if opts.Token != "" {
		c.SetToken(opts.Token)
	} else if opts.SessionFile != "" {
		if err := c.Auth.LoadSession(opts.SessionFile); err != nil && opts.Logger != nil {
			opts.Logger.Warn("Failed to load session", "error", err)
		}
	}

	return c, nil
}

// NewClientWithToken creates a client with an auth token
func NewClientWithToken(token string) (*Client, error) {
	return NewClient(&ClientOptions{
		Token: token,
	})
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Categories = &categoryService{client: c}
	c.Auth = newAuthService(c)
}

// SetToken sets the authentication token
func (c *Client) SetToken(token string) {
	if c.Auth != nil {
		c.Auth.SetToken(token, time.Time{})
		return
	}
	c.transport.SetAuth(token)
	c.session = &Session{Token: token}
}

// GetSession returns the current session
func (c *Client) GetSession() *Session {
	return c.session
}

// NewDateRangeState creates the session's shared reporting window
func (c *Client) NewDateRangeState(scope Scope, anchor time.Time) (*DateRangeState, error) {
	return NewDateRangeState(scope, anchor)
}

// NewAggregator creates a category aggregator backed by this client
func (c *Client) NewAggregator(opts *AggregatorOptions) *CategoryAggregator {
	if opts == nil {
		opts = &AggregatorOptions{}
	}
	if opts.Logger == nil {
		opts.Logger = c.options.Logger
	}
	return NewCategoryAggregator(c.Categories, opts)
}

// executeREST runs a GET request through the transport
func (c *Client) executeREST(ctx context.Context, path string, params url.Values, result interface{}) error {
	if c.options.Hooks != nil && c.options.Hooks.OnRequest != nil {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		c.options.Hooks.OnRequest(ctx, req)
	}

	if c.options.RateLimiter != nil {
		if err := c.options.RateLimiter.Wait(ctx); err != nil {
			if hub := sentry.GetHubFromContext(ctx); hub != nil {
				hub.CaptureException(err)
			} else {
				sentry.CaptureException(err)
			}
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	start := time.Now()
	err := c.transport.Get(ctx, path, params, result)
	duration := time.Since(start)

	// Cancellation of superseded fetches is expected, not a failure worth reporting
	if err != nil && ctx.Err() == nil {
		hub := sentry.GetHubFromContext(ctx)
		if hub == nil {
			hub = sentry.CurrentHub()
		}
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("rest.path", path)
			scope.SetContext("rest", map[string]interface{}{
				"path":     path,
				"params":   params.Encode(),
				"duration": duration.String(),
			})
			hub.CaptureException(err)
		})
	}

	if c.options.Hooks != nil && c.options.Hooks.OnResponse != nil {
		resp := &http.Response{StatusCode: http.StatusOK}
		if err != nil {
			resp.StatusCode = http.StatusInternalServerError
		}
		c.options.Hooks.OnResponse(ctx, resp, duration)
	}

	if err != nil && c.options.Hooks != nil && c.options.Hooks.OnError != nil {
		c.options.Hooks.OnError(ctx, err)
	}

	return fromInternal(err)
}

// Close flushes any pending Sentry events and performs cleanup
func (c *Client) Close() {
	sentry.Flush(2 * time.Second)
}
