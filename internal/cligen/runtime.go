package cligen

import (
	"context"
	"errors"
	"sync"

	"github.com/spf13/cobra"
	"github.com/tarrence/swagger-cli/internal/output"
	"github.com/tarrence/swagger-cli/internal/security"
	"github.com/tarrence/swagger-cli/swagger"
	"github.com/tarrence/swagger-cli/swaggererrors"
)

// Runtime carries what every command needs: the printer, the per-call
// defaults from flags and config, and a lazily loaded client.
type Runtime struct {
	Auth   security.Credential
	Scheme string
	Format string

	Printer *output.Printer

	load   func(context.Context) (*swagger.Client, error)
	once   sync.Once
	client *swagger.Client
	err    error
}

// NewRuntime returns a runtime that calls load the first time a command
// needs the client.
func NewRuntime(printer *output.Printer, load func(context.Context) (*swagger.Client, error)) *Runtime {
	return &Runtime{Printer: printer, load: load}
}

func (rt *Runtime) Client(ctx context.Context) (*swagger.Client, error) {
	rt.once.Do(func() {
		if rt.load == nil {
			rt.err = errors.New("internal error: no document loader")
			return
		}
		rt.client, rt.err = rt.load(ctx)
	})
	return rt.client, rt.err
}

// Call invokes one operation with the runtime defaults filled in and prints
// the result. A non-2xx response prints status, reason and body to stderr
// and returns the *swaggererrors.ServerError.
func (rt *Runtime) Call(ctx context.Context, method, path string, args swagger.Args) error {
	client, err := rt.Client(ctx)
	if err != nil {
		return err
	}
	if args == nil {
		args = swagger.Args{}
	}
	if rt.Auth != nil {
		args[swagger.ArgAuth] = rt.Auth
	}
	if rt.Scheme != "" {
		args[swagger.ArgScheme] = rt.Scheme
	}
	if rt.Format != "" {
		args[swagger.ArgFormat] = rt.Format
	}

	res, err := client.Invoke(ctx, method, path, args)
	var srvErr *swaggererrors.ServerError
	if errors.As(err, &srvErr) && res != nil {
		_ = rt.Printer.PrintHTTPError(res.StatusCode, srvErr.Reason, res.Header, res.Body)
		return err
	}
	if err != nil {
		return err
	}
	return rt.Printer.PrintHTTP(res.StatusCode, res.Header, res.Body)
}

type runtimeKey struct{}

func WithRuntime(ctx context.Context, rt *Runtime) context.Context {
	return context.WithValue(ctx, runtimeKey{}, rt)
}

func RuntimeFrom(cmd *cobra.Command) (*Runtime, error) {
	v := cmd.Context().Value(runtimeKey{})
	if v == nil {
		return nil, errors.New("internal error: runtime missing from context")
	}
	rt, ok := v.(*Runtime)
	if !ok || rt == nil {
		return nil, errors.New("internal error: runtime has wrong type")
	}
	if rt.Printer == nil {
		return nil, errors.New("internal error: printer missing from runtime")
	}
	return rt, nil
}
