// Package swagger loads a Swagger 2.0 document and dispatches calls to the
// operations it declares.
//
//	client, err := swagger.Load(ctx, "https://petstore.swagger.io/v2/swagger.json")
//	if err != nil {
//	    return err
//	}
//	res, err := client.Get(ctx, "/pet/{petId}", swagger.Args{"petId": 2})
//
// A Client is safe for concurrent use. Every call builds its own headers,
// query and body; the document is never written after Load.
package swagger

import (
	"context"
	"net/http"

	"github.com/tarrence/swagger-cli/internal/metrics"
	"github.com/tarrence/swagger-cli/internal/negotiate"
	"github.com/tarrence/swagger-cli/internal/openapi"
	"github.com/tarrence/swagger-cli/internal/scheme"
	"github.com/tarrence/swagger-cli/internal/security"
	"github.com/tarrence/swagger-cli/internal/swaggerhttp"
	"github.com/tarrence/swagger-cli/swaggererrors"
	"go.uber.org/zap"
)

// Client dispatches calls against one loaded document.
type Client struct {
	doc        *openapi.Document
	source     string
	strategies map[string]security.Strategy
	reserved   []string
	transport  *swaggerhttp.Client
	logger     *zap.Logger
}

// Load fetches source (a file path or an http(s) URL) and returns a client
// for it. Any failure to read, fetch or parse the document is a
// *swaggererrors.SchemaLoadError.
func Load(ctx context.Context, source string, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	fetch := o.httpClient
	if fetch == nil {
		fetch = &http.Client{Transport: swaggerhttp.SecureTransport()}
	}
	fc := *fetch
	fc.Timeout = o.timeout

	doc, err := openapi.Load(ctx, &fc, source)
	if err != nil {
		return nil, err
	}
	return newClient(doc, source, o)
}

// New returns a client for an already parsed document. A document without
// schemes gets the defaults on a copy; doc itself is not modified.
func New(doc *openapi.Document, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if doc == nil {
		return nil, &swaggererrors.SchemaLoadError{Message: "nil document"}
	}
	if doc.Host == "" {
		return nil, &swaggererrors.SchemaLoadError{Message: "missing host"}
	}
	if doc.Paths == nil {
		return nil, &swaggererrors.SchemaLoadError{Message: "missing paths"}
	}
	if len(doc.Schemes) == 0 {
		d := *doc
		openapi.ApplyDefaultSchemes(&d, "")
		doc = &d
	}
	return newClient(doc, "", o)
}

func newClient(doc *openapi.Document, source string, o *options) (*Client, error) {
	strategies, err := security.Compile(doc.SecurityDefinitions)
	if err != nil {
		return nil, &swaggererrors.SchemaLoadError{Source: source, Message: "security definitions", Cause: err}
	}
	reserved := security.ReservedHeaders(strategies)

	transport, err := swaggerhttp.NewClient(swaggerhttp.ClientOptions{
		Timeout:       o.timeout,
		Trace:         o.trace,
		InsecureRetry: o.insecureRetry,
		UserAgent:     o.userAgent,
		Redact:        reserved,
		Logger:        o.logger,
		Metrics:       metrics.NewCollector(o.registerer, o.logger),
		HTTPClient:    o.httpClient,
		Limiter:       o.limiter,
	})
	if err != nil {
		return nil, err
	}

	for k, vv := range o.headers {
		for _, v := range vv {
			transport.SetDefault(k, v)
		}
	}
	for k, vv := range negotiate.Negotiate(doc.Consumes, doc.Produces, "") {
		transport.SetDefault(k, vv[0])
	}

	logger := o.logger.With(zap.String("component", "dispatcher"))
	logger.Debug("document loaded",
		zap.String("source", source),
		zap.String("swagger", doc.Swagger),
		zap.String("base_uri", doc.BaseURI()),
		zap.Strings("schemes", doc.Schemes),
		zap.Int("paths", len(doc.Paths)),
	)

	return &Client{
		doc:        doc,
		source:     source,
		strategies: strategies,
		reserved:   reserved,
		transport:  transport,
		logger:     logger,
	}, nil
}

// Document returns the parsed document. Callers must not modify it.
func (c *Client) Document() *openapi.Document { return c.doc }

// Version is the document's declared swagger version.
func (c *Client) Version() string { return c.doc.Swagger }

// Schemes returns the declared schemes, or the defaults when none were declared.
func (c *Client) Schemes() []string { return append([]string(nil), c.doc.Schemes...) }

// DefaultScheme is the scheme used by calls that do not request one.
func (c *Client) DefaultScheme() string {
	s, _ := scheme.Select(c.doc.Schemes, "")
	return s
}

// BaseURI is host + basePath, without a scheme.
func (c *Client) BaseURI() string { return c.doc.BaseURI() }

// ReservedHeaders lists the headers apiKey definitions send credentials in.
func (c *Client) ReservedHeaders() []string { return append([]string(nil), c.reserved...) }

// DefaultHeaders returns a copy of the headers sent with every call.
func (c *Client) DefaultHeaders() http.Header { return c.transport.Defaults() }
