package swagger

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tarrence/swagger-cli/internal/version"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds every exchange unless WithTimeout says otherwise.
const DefaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*options)

type options struct {
	timeout       time.Duration
	logger        *zap.Logger
	insecureRetry bool
	trace         bool
	registerer    prometheus.Registerer
	userAgent     string
	headers       http.Header
	httpClient    *http.Client
	limiter       *rate.Limiter
}

func defaultOptions() *options {
	return &options{
		timeout:   DefaultTimeout,
		logger:    zap.NewNop(),
		userAgent: version.UserAgent(),
		headers:   http.Header{},
	}
}

// WithTimeout sets the fixed timeout applied to the document fetch and to
// every exchange.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithInsecureRetry enables a single retry with certificate verification
// disabled after a verification failure. Each retry is logged at warn level.
func WithInsecureRetry(enabled bool) Option {
	return func(o *options) { o.insecureRetry = enabled }
}

// WithTrace logs request and response bodies at debug level.
func WithTrace(enabled bool) Option {
	return func(o *options) { o.trace = enabled }
}

// WithRegisterer registers the client metrics on reg instead of a private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// WithHeader adds a header sent with every call. Negotiated and security
// headers of a call take precedence.
func WithHeader(key, value string) Option {
	return func(o *options) { o.headers.Add(key, value) }
}

// WithHTTPClient replaces the hardened default client. Its Timeout is
// overridden by WithTimeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithRateLimit paces calls to perSecond with the given burst. Calls wait
// for their turn and give up when their context ends.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *options) {
		if perSecond <= 0 {
			o.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		o.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}
