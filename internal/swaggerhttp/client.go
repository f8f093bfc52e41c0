package swaggerhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tarrence/swagger-cli/internal/metrics"
	"github.com/tarrence/swagger-cli/internal/scheme"
	"github.com/tarrence/swagger-cli/swaggererrors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type ClientOptions struct {
	Timeout time.Duration
	// Trace logs request and response bodies at debug level.
	Trace bool
	// InsecureRetry allows one retry with certificate verification disabled
	// after a verification failure. Every such retry is logged at warn level.
	InsecureRetry bool
	UserAgent     string
	// Redact lists extra header names whose values never reach the logs.
	Redact []string

	// Limiter, when set, paces exchanges; Do waits for a token first.
	Limiter *rate.Limiter

	Logger  *zap.Logger
	Metrics *metrics.Collector
	// HTTPClient replaces the default hardened client. Its Timeout is
	// overridden by Timeout.
	HTTPClient *http.Client
}

// Client is the transport session shared by every call of one swagger
// client: a fixed timeout, a TLS posture and a set of default headers.
// Defaults are copied into each request, never referenced, so concurrent
// calls do not race on header state.
type Client struct {
	http     *http.Client
	insecure *http.Client
	defaults http.Header
	redact   map[string]bool
	opts     ClientOptions
	logger   *zap.Logger
}

// Request is one exchange. Route is the path template, used to label
// logs and metrics.
type Request struct {
	Method string
	URL    string
	Route  string
	Header http.Header
	Body   []byte
}

type Result struct {
	Status int
	// Reason is the status text without the numeric code.
	Reason  string
	Headers http.Header
	Body    []byte
	URL     string
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewCollector(nil, opts.Logger)
	}

	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{Transport: SecureTransport()}
	}
	hc := *base
	hc.Timeout = opts.Timeout

	var insecure *http.Client
	if opts.InsecureRetry {
		var err error
		if insecure, err = insecureClient(&hc); err != nil {
			return nil, err
		}
	}

	redact := map[string]bool{
		"authorization":       true,
		"proxy-authorization": true,
	}
	for _, name := range opts.Redact {
		redact[strings.ToLower(name)] = true
	}

	return &Client{
		http:     &hc,
		insecure: insecure,
		defaults: http.Header{},
		redact:   redact,
		opts:     opts,
		logger:   opts.Logger.With(zap.String("component", "transport")),
	}, nil
}

// SetDefault sets a header sent with every request unless the request
// overrides it. It is meant for setup before the first call.
func (c *Client) SetDefault(key, value string) {
	c.defaults.Set(key, value)
}

// Defaults returns a copy of the default headers.
func (c *Client) Defaults() http.Header {
	return c.defaults.Clone()
}

func (c *Client) Timeout() time.Duration {
	return c.opts.Timeout
}

func (c *Client) Do(ctx context.Context, r *Request) (*Result, error) {
	if r == nil {
		return nil, errors.New("nil request")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	method := strings.ToUpper(r.Method)
	logger := c.logger.With(
		zap.String("call_id", uuid.NewString()),
		zap.String("method", method),
		zap.String("route", r.Route),
	)

	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, &swaggererrors.TransportError{Method: method, URL: r.URL, Cause: err}
	}
	if !scheme.IsHTTP(u.Scheme) {
		return nil, &swaggererrors.TransportError{
			Method: method,
			URL:    r.URL,
			Cause:  fmt.Errorf("scheme %q selects a non-HTTP transport", u.Scheme),
		}
	}

	header := c.defaults.Clone()
	for k, vv := range r.Header {
		// Declared spellings like "api_key" are kept as-is, so a default
		// stored as "Api_key" has to go before the call's value lands.
		for dk := range header {
			if dk != k && strings.EqualFold(dk, k) {
				delete(header, dk)
			}
		}
		header[k] = append([]string(nil), vv...)
	}
	if c.opts.UserAgent != "" && header.Get("User-Agent") == "" {
		header.Set("User-Agent", c.opts.UserAgent)
	}

	c.logRequest(logger, r.URL, header, r.Body)

	if c.opts.Limiter != nil {
		if err := c.opts.Limiter.Wait(ctx); err != nil {
			return nil, &swaggererrors.TransportError{Method: method, URL: r.URL, Cause: fmt.Errorf("rate limit: %w", err)}
		}
	}

	start := time.Now()
	resp, err := c.send(ctx, c.http, method, r.URL, header, r.Body)
	if err != nil && IsCertificateError(err) && c.insecure != nil {
		logger.Warn("TLS certificate verification failed; retrying once with verification DISABLED",
			zap.String("url", r.URL),
			zap.Error(err),
		)
		c.opts.Metrics.RecordTLSDowngrade(u.Host)
		resp, err = c.send(ctx, c.insecure, method, r.URL, header, r.Body)
	}
	if err != nil {
		c.opts.Metrics.RecordTransportError(strings.ToLower(method), r.Route, time.Since(start))
		logger.Debug("exchange failed", zap.Error(err))
		return nil, &swaggererrors.TransportError{
			Method: method,
			URL:    r.URL,
			TLS:    IsCertificateError(err),
			Cause:  err,
		}
	}

	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	elapsed := time.Since(start)
	if readErr != nil {
		c.opts.Metrics.RecordTransportError(strings.ToLower(method), r.Route, elapsed)
		return nil, &swaggererrors.TransportError{Method: method, URL: r.URL, Cause: readErr}
	}
	c.opts.Metrics.RecordRequest(strings.ToLower(method), r.Route, resp.StatusCode, elapsed)
	c.logResponse(logger, resp, body, elapsed)

	return &Result{
		Status:  resp.StatusCode,
		Reason:  ReasonPhrase(resp),
		Headers: resp.Header.Clone(),
		Body:    body,
		URL:     resp.Request.URL.String(),
	}, nil
}

func (c *Client) send(ctx context.Context, hc *http.Client, method, target string, header http.Header, body []byte) (*http.Response, error) {
	var rdr io.Reader
	if len(body) > 0 {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, err
	}
	req.Header = header.Clone()
	return hc.Do(req)
}

// ReasonPhrase returns the status text the server sent, or the standard
// text for the code when the server sent none.
func ReasonPhrase(resp *http.Response) string {
	if resp == nil {
		return ""
	}
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

func (c *Client) redacted(header http.Header) []zap.Field {
	fields := make([]zap.Field, 0, len(header))
	for k, vv := range header {
		v := strings.Join(vv, ", ")
		if c.redact[strings.ToLower(k)] {
			v = "<redacted>"
		}
		fields = append(fields, zap.String("header."+k, v))
	}
	return fields
}

func (c *Client) logRequest(logger *zap.Logger, target string, header http.Header, body []byte) {
	if !logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	fields := append([]zap.Field{zap.String("url", target)}, c.redacted(header)...)
	if c.opts.Trace && len(body) > 0 {
		fields = append(fields, zap.ByteString("body", body))
	}
	logger.Debug("request", fields...)
}

func (c *Client) logResponse(logger *zap.Logger, resp *http.Response, body []byte, elapsed time.Duration) {
	if !logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	fields := []zap.Field{
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
		zap.Int("content_length", len(body)),
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		fields = append(fields, zap.String("content_type", ct))
	}
	if c.opts.Trace && len(body) > 0 {
		fields = append(fields, zap.ByteString("body", body))
	}
	logger.Debug("response", fields...)
}
