package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/tarrence/swagger-cli/internal/cligen"
	"github.com/tarrence/swagger-cli/internal/config"
	"github.com/tarrence/swagger-cli/internal/openapi"
	"github.com/tarrence/swagger-cli/internal/output"
	"github.com/tarrence/swagger-cli/internal/version"
	"github.com/tarrence/swagger-cli/swagger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// embeddedSpec is used when neither --spec, the config file nor
// SWAGGER_SPEC names a document.
const embeddedSpec = "petstore"

type rootOptions struct {
	ConfigPath string

	Spec    string
	Timeout time.Duration

	Auth   string
	User   string
	Scheme string
	Format string

	InsecureRetry bool
	RateLimit     float64
	RateBurst     int
	Headers       []string
	MetricsFile   string

	Pretty   bool
	NoPretty bool

	Debug bool
	Trace bool

	Status     bool
	RespHeader bool
}

type appState struct {
	opts     rootOptions
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	printer  *output.Printer
	runtime  *cligen.Runtime
}

func (a *appState) initFromFlags(cmd *cobra.Command) error {
	if a.opts.Pretty && a.opts.NoPretty {
		return fmt.Errorf("cannot set both --pretty and --no-pretty")
	}

	cfg, err := config.NewLoader().WithConfigPath(a.opts.ConfigPath).Load()
	if err != nil {
		return err
	}
	a.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = zap.NewNop()
	if a.opts.Debug || a.opts.Trace {
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(cmd.ErrOrStderr()),
			zap.DebugLevel,
		)
		a.logger = zap.New(core, zap.Development())
	}
	a.registry = prometheus.NewRegistry()

	a.printer = output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.PrinterOptions{
		ForcePretty:  a.opts.Pretty,
		ForceCompact: a.opts.NoPretty,
		PrintStatus:  a.opts.Status,
		PrintHeaders: a.opts.RespHeader,
	})

	cred, err := cfg.Credential()
	if err != nil {
		return err
	}
	a.runtime = cligen.NewRuntime(a.printer, a.loadClient)
	a.runtime.Auth = cred
	a.runtime.Scheme = cfg.Scheme
	a.runtime.Format = cfg.Format
	return nil
}

// applyFlags lays explicitly set flags over the file and environment values.
func (a *appState) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("spec") {
		cfg.Spec = a.opts.Spec
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.opts.Timeout
	}
	if flags.Changed("auth") {
		cfg.Auth = a.opts.Auth
		cfg.User = ""
	}
	if flags.Changed("user") {
		cfg.User = a.opts.User
		cfg.Auth = ""
	}
	if flags.Changed("scheme") {
		cfg.Scheme = a.opts.Scheme
	}
	if flags.Changed("format") {
		cfg.Format = a.opts.Format
	}
	if flags.Changed("insecure-retry") {
		cfg.InsecureRetry = a.opts.InsecureRetry
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit = a.opts.RateLimit
	}
	if flags.Changed("rate-burst") {
		cfg.RateBurst = a.opts.RateBurst
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = a.opts.MetricsFile
	}
	for _, h := range a.opts.Headers {
		k, v, ok := strings.Cut(h, ":")
		if ok && strings.TrimSpace(k) != "" {
			cfg.Headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
}

func (a *appState) clientOptions() []swagger.Option {
	opts := []swagger.Option{
		swagger.WithTimeout(a.cfg.Timeout),
		swagger.WithLogger(a.logger),
		swagger.WithTrace(a.opts.Trace),
		swagger.WithInsecureRetry(a.cfg.InsecureRetry),
		swagger.WithRateLimit(a.cfg.RateLimit, a.cfg.RateBurst),
		swagger.WithRegisterer(a.registry),
		swagger.WithUserAgent(version.UserAgent()),
	}
	for k, v := range a.cfg.Headers {
		opts = append(opts, swagger.WithHeader(k, v))
	}
	return opts
}

func (a *appState) loadClient(ctx context.Context) (*swagger.Client, error) {
	var (
		client *swagger.Client
		err    error
	)
	if a.cfg.Spec == "" {
		doc, derr := openapi.EmbeddedSpec(embeddedSpec)
		if derr != nil {
			return nil, derr
		}
		client, err = swagger.New(doc, a.clientOptions()...)
	} else {
		client, err = swagger.Load(ctx, a.cfg.Spec, a.clientOptions()...)
	}
	if err != nil {
		return nil, err
	}
	a.printer.AddRedacted(client.ReservedHeaders()...)
	return client, nil
}

func (a *appState) writeMetrics() error {
	if a.cfg == nil || a.cfg.MetricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.cfg.MetricsFile, a.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func (a *appState) contextWithApp(ctx context.Context) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

type appKey struct{}

func appFrom(cmd *cobra.Command) (*appState, error) {
	v := cmd.Context().Value(appKey{})
	if v == nil {
		return nil, errors.New("internal error: app state missing from command context")
	}
	a, ok := v.(*appState)
	if !ok {
		return nil, errors.New("internal error: app state has wrong type")
	}
	return a, nil
}

func NewRootCmd() (*cobra.Command, error) {
	app := &appState{
		opts: rootOptions{
			Timeout: swagger.DefaultTimeout,
		},
	}

	root := &cobra.Command{
		Use:   "swagger-cli",
		Short: "Call any operation of a Swagger 2.0 API",
		Long: "Call any operation of a Swagger 2.0 API.\n\n" +
			"The document comes from --spec, the config file or SWAGGER_SPEC; without one\n" +
			"the embedded petstore document is used.\n\n" +
			"Authentication:\n" +
			"  export SWAGGER_AUTH=\"special-key\"     # apiKey definitions\n" +
			"  export SWAGGER_USER=\"name:password\"   # basic definitions\n\n" +
			"Examples:\n" +
			"  swagger-cli call get /pet/{petId} petId=2\n" +
			"  swagger-cli call post /pet --data @pet.json --auth special-key\n" +
			"  swagger-cli op find-pets-by-status status=available status=sold\n" +
			"  swagger-cli --spec ./swagger.yaml spec list\n",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.initFromFlags(cmd); err != nil {
				return err
			}
			ctx := app.contextWithApp(cmd.Context())
			ctx = cligen.WithRuntime(ctx, app.runtime)
			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.writeMetrics()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&app.opts.ConfigPath, "config", "", "YAML config file (or set "+config.ConfigPathEnv+")")
	pf.StringVar(&app.opts.Spec, "spec", "", "Swagger 2.0 document path or URL (or set SWAGGER_SPEC)")
	pf.DurationVar(&app.opts.Timeout, "timeout", app.opts.Timeout, "Timeout for the document fetch and every call")

	pf.StringVar(&app.opts.Auth, "auth", "", "apiKey credential (or set SWAGGER_AUTH)")
	pf.StringVar(&app.opts.User, "user", "", "basic auth credential as name:password (or set SWAGGER_USER)")
	pf.StringVar(&app.opts.Scheme, "scheme", "", "Scheme to call with; must be declared by the document")
	pf.StringVar(&app.opts.Format, "format", "", "Request media type picked from the operation's consumes")
	pf.BoolVar(&app.opts.InsecureRetry, "insecure-retry", false, "Retry once WITHOUT certificate verification after a TLS verification failure")
	pf.Float64Var(&app.opts.RateLimit, "rate-limit", 0, "Maximum calls per second (0 disables pacing)")
	pf.IntVar(&app.opts.RateBurst, "rate-burst", 1, "Calls allowed in a burst above --rate-limit")
	pf.StringArrayVar(&app.opts.Headers, "header", nil, "Extra request header 'Name: value' (repeatable)")
	pf.StringVar(&app.opts.MetricsFile, "metrics-file", "", "Write prometheus metrics in textfile format after the command")

	pf.BoolVar(&app.opts.Pretty, "pretty", false, "Force pretty-printed JSON output")
	pf.BoolVar(&app.opts.NoPretty, "no-pretty", false, "Force compact (non-pretty) output")

	pf.BoolVar(&app.opts.Debug, "debug", false, "Log request/response metadata to stderr (redacts credentials)")
	pf.BoolVar(&app.opts.Trace, "trace", false, "Log full request/response bodies to stderr (redacts credential headers)")
	pf.BoolVar(&app.opts.Status, "status", false, "Print HTTP status code to stderr")
	pf.BoolVar(&app.opts.RespHeader, "headers", false, "Print response headers to stderr (redacts auth-related headers)")

	root.SetVersionTemplate("{{.Version}}\n")
	root.Version = version.Version()

	root.AddCommand(newCallCmd())
	root.AddCommand(newOpCmd())
	root.AddCommand(newSpecCmd())
	root.AddCommand(newVersionCmd())

	return root, nil
}
