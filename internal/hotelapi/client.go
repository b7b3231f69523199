// Package hotelapi is the client for the hotel booking REST API: the shared
// request pipeline plus one service per server resource.
package hotelapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/cozyhotel-client/internal/credentials"
	"github.com/wolfman30/cozyhotel-client/internal/observability/metrics"
	"github.com/wolfman30/cozyhotel-client/pkg/logging"
)

const (
	DefaultBaseURL   = "https://cozyhotel.runasp.net/api"
	DefaultLoginPath = "login.html"
	DefaultHomePath  = "index.html"
	defaultTimeout   = 30 * time.Second
	maxLoggedBody    = 300
)

// CredentialStore is the slice of the credential store the client uses.
type CredentialStore interface {
	Token(ctx context.Context) (string, bool)
	Save(ctx context.Context, token string, profile *credentials.Profile) error
	Clear(ctx context.Context) error
}

// Navigator moves the user to another page (browser redirect, CLI hint,
// portal redirect response).
type Navigator interface {
	Redirect(ctx context.Context, target string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, target string)

func (f NavigatorFunc) Redirect(ctx context.Context, target string) { f(ctx, target) }

// Options configures a Client.
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Timeout     time.Duration
	Credentials CredentialStore
	Navigator   Navigator
	LoginPath   string
	HomePath    string
	Logger      *logging.Logger
	Metrics     *metrics.APIMetrics
	Tracer      trace.Tracer
}

// Client is the request pipeline. It resolves paths against the base URL,
// attaches the stored bearer token, normalizes failures into *Error and
// expires the session on 401/403.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialStore
	navigator  Navigator
	loginPath  string
	homePath   string
	logger     *logging.Logger
	metrics    *metrics.APIMetrics
	tracer     trace.Tracer

	Auth      *AuthService
	Rooms     *RoomService
	Bookings  *BookingService
	Payments  *PaymentService
	Dashboard *DashboardService
	Admin     *AdminService
	Chat      *ChatService
}

// New creates a Client with sane defaults.
func New(opts Options) *Client {
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	navigator := opts.Navigator
	if navigator == nil {
		navigator = NavigatorFunc(func(ctx context.Context, target string) {
			logger.Info("hotelapi: redirect requested", "target", target)
		})
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer("cozyhotel.internal.hotelapi")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		creds:      opts.Credentials,
		navigator:  navigator,
		loginPath:  firstNonEmpty(opts.LoginPath, DefaultLoginPath),
		homePath:   firstNonEmpty(opts.HomePath, DefaultHomePath),
		logger:     logger,
		metrics:    opts.Metrics,
		tracer:     tracer,
	}
	c.Auth = &AuthService{client: c}
	c.Rooms = &RoomService{client: c}
	c.Bookings = &BookingService{client: c}
	c.Payments = &PaymentService{client: c}
	c.Dashboard = &DashboardService{client: c}
	c.Admin = &AdminService{client: c}
	c.Chat = &ChatService{client: c}
	return c
}

// BaseURL returns the API origin all paths are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Call describes one request. Method defaults to GET. Header entries
// override the defaults on key collision.
type Call struct {
	Method string
	Path   string
	Body   any
	Header http.Header
}

// Result is a parsed response body. The zero Result is an empty success
// (204 or no content).
type Result struct {
	raw json.RawMessage
}

// Empty reports whether the response carried no content.
func (r Result) Empty() bool { return len(r.raw) == 0 }

// Raw returns the JSON body.
func (r Result) Raw() json.RawMessage { return r.raw }

// Decode unmarshals the body into v. An empty result leaves v untouched.
func (r Result) Decode(v any) error {
	if r.Empty() {
		return nil
	}
	if err := json.Unmarshal(r.raw, v); err != nil {
		return &Error{Kind: KindRequestFailed, Message: fmt.Sprintf("decode response: %v", err), Err: err}
	}
	return nil
}

// Request performs an authenticated call.
func (c *Client) Request(ctx context.Context, call Call) (Result, error) {
	return c.do(ctx, call, true)
}

// PublicRequest performs a call without the Authorization header. A 401/403
// is reported as an ordinary request failure and never expires the session.
func (c *Client) PublicRequest(ctx context.Context, call Call) (Result, error) {
	return c.do(ctx, call, false)
}

// Do performs an authenticated call and decodes the body into T.
func Do[T any](ctx context.Context, c *Client, call Call) (T, error) {
	var out T
	res, err := c.Request(ctx, call)
	if err != nil {
		return out, err
	}
	err = res.Decode(&out)
	return out, err
}

// PublicDo performs a public call and decodes the body into T.
func PublicDo[T any](ctx context.Context, c *Client, call Call) (T, error) {
	var out T
	res, err := c.PublicRequest(ctx, call)
	if err != nil {
		return out, err
	}
	err = res.Decode(&out)
	return out, err
}

func (c *Client) do(ctx context.Context, call Call, authenticated bool) (Result, error) {
	method := call.Method
	if method == "" {
		method = http.MethodGet
	}
	route := metrics.Route(call.Path)
	ctx, span := c.tracer.Start(ctx, "hotelapi.request")
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("hotelapi.route", route),
		attribute.Bool("hotelapi.authenticated", authenticated),
	)

	bodyReader, err := encodeBody(call.Body)
	if err != nil {
		return Result{}, &Error{Kind: KindRequestFailed, Message: err.Error(), Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+call.Path, bodyReader)
	if err != nil {
		return Result{}, &Error{Kind: KindRequestFailed, Message: fmt.Sprintf("build request: %v", err), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if authenticated && c.creds != nil {
		if token, ok := c.creds.Token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for key, values := range call.Header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	c.logger.Debug("hotelapi: request", "method", method, "path", call.Path, "authenticated", authenticated)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(method, call.Path, 0, time.Since(start).Seconds())
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		c.logger.Warn("hotelapi: request failed", "method", method, "path", call.Path, "error", err)
		return Result{}, &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	c.metrics.ObserveRequest(method, call.Path, resp.StatusCode, time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if err != nil {
		span.RecordError(err)
		return Result{}, &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: fmt.Sprintf("read response: %v", err), Err: err}
	}

	if authenticated && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		span.SetStatus(codes.Error, "authentication required")
		c.expireSession(ctx, resp.StatusCode, call.Path)
		return Result{}, &Error{Kind: KindAuthenticationRequired, Status: resp.StatusCode, Message: ErrAuthenticationRequired.Message}
	}

	body := normalizeBody(resp.Header.Get("Content-Type"), data)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := failureMessage(body, resp.StatusCode)
		span.SetStatus(codes.Error, msg)
		c.logger.Warn("hotelapi: non-2xx response",
			"method", method,
			"path", call.Path,
			"status", resp.StatusCode,
			"body", truncate(string(data), maxLoggedBody),
		)
		return Result{}, &Error{Kind: KindRequestFailed, Status: resp.StatusCode, Message: msg}
	}

	if resp.StatusCode == http.StatusNoContent || resp.ContentLength == 0 || len(bytes.TrimSpace(data)) == 0 {
		return Result{}, nil
	}
	return Result{raw: body}, nil
}

// expireSession clears the credential and sends the user to the login page.
// It runs even if ctx was cancelled after the response arrived.
func (c *Client) expireSession(ctx context.Context, status int, path string) {
	ctx = context.WithoutCancel(ctx)
	if c.creds != nil {
		if err := c.creds.Clear(ctx); err != nil {
			c.logger.Error("hotelapi: failed to clear credentials", "error", err)
		}
	}
	c.logger.Info("hotelapi: session expired", "status", status, "path", path)
	c.navigator.Redirect(ctx, c.loginPath)
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	case []byte:
		return bytes.NewReader(b), nil
	default:
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		return bytes.NewReader(payload), nil
	}
}

// normalizeBody returns the body as JSON. Non-JSON bodies (or JSON content
// types with unparseable bodies) are wrapped as {"message": text}.
func normalizeBody(contentType string, data []byte) json.RawMessage {
	if isJSONContentType(contentType) && json.Valid(data) {
		return json.RawMessage(data)
	}
	wrapped, _ := json.Marshal(map[string]string{"message": string(data)})
	return wrapped
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// failureMessage picks message, error, then title from the body, then a bare
// JSON string, then a generic status line.
func failureMessage(body json.RawMessage, status int) string {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, key := range []string{"message", "error", "title"} {
			if s, ok := fields[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	} else {
		var s string
		if err := json.Unmarshal(body, &s); err == nil && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return fmt.Sprintf("HTTP error %d", status)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
