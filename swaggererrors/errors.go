// Package swaggererrors provides the error types returned by the swagger client.
//
// Every failure carries the data needed to build a precise message (names,
// codes, reasons) so callers never have to re-read the document or parse
// error strings. Use errors.As for the structured fields, or errors.Is with
// the sentinels for a quick category check:
//
//	res, err := client.Get(ctx, "/pet/{petId}", swagger.Args{"petId": 2})
//	if err != nil {
//	    var srvErr *swaggererrors.ServerError
//	    if errors.As(err, &srvErr) && srvErr.StatusCode == http.StatusNotFound {
//	        // pet does not exist
//	    }
//	}
package swaggererrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrSchemaLoad indicates the document could not be loaded.
	ErrSchemaLoad = errors.New("schema load error")

	// ErrInvalidPath indicates a path template absent from the document.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidOperation indicates an unsupported or undeclared HTTP verb.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrUnsupportedScheme indicates a scheme the document does not declare.
	ErrUnsupportedScheme = errors.New("unsupported scheme")

	// ErrInvalidSecurityScheme indicates a security requirement naming an undeclared definition.
	ErrInvalidSecurityScheme = errors.New("invalid security scheme")

	// ErrServer indicates the remote returned a non-2xx status.
	ErrServer = errors.New("server error")

	// ErrArgument indicates a call argument is missing or has the wrong type.
	ErrArgument = errors.New("invalid argument")

	// ErrTransport indicates the HTTP exchange itself failed.
	ErrTransport = errors.New("transport error")
)

// SchemaLoadError represents a failure to fetch, read or parse a document.
type SchemaLoadError struct {
	// Source is the file path or URL that was loaded
	Source string
	// Message describes what was wrong
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SchemaLoadError) Error() string {
	msg := "schema load error"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SchemaLoadError) Is(target error) bool {
	return target == ErrSchemaLoad
}

// InvalidPathError is returned when a call names a path template the document does not declare.
type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("got unexpected path %q", e.Path)
}

// Is reports whether target matches this error type.
func (e *InvalidPathError) Is(target error) bool {
	return target == ErrInvalidPath
}

// InvalidOperationError is returned when the verb is not supported by the
// client or not declared under the requested path.
type InvalidOperationError struct {
	// Method is the verb exactly as the caller passed it
	Method string
	// Path is the (valid) path template the verb was looked up under
	Path string
}

func (e *InvalidOperationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid operation %q", e.Method)
	}
	return fmt.Sprintf("invalid operation %q for path %q", e.Method, e.Path)
}

// Is reports whether target matches this error type.
func (e *InvalidOperationError) Is(target error) bool {
	return target == ErrInvalidOperation
}

// UnsupportedSchemeError is returned when the requested scheme is not declared.
type UnsupportedSchemeError struct {
	Scheme    string
	Supported []string
}

func (e *UnsupportedSchemeError) Error() string {
	return fmt.Sprintf("unsupported scheme %q (supported: %s)", e.Scheme, strings.Join(e.Supported, ", "))
}

// Is reports whether target matches this error type.
func (e *UnsupportedSchemeError) Is(target error) bool {
	return target == ErrUnsupportedScheme
}

// InvalidSecuritySchemeError is returned when an operation's security
// requirement references a name missing from securityDefinitions.
type InvalidSecuritySchemeError struct {
	Name string
}

func (e *InvalidSecuritySchemeError) Error() string {
	return fmt.Sprintf("security requirement references undeclared definition %q", e.Name)
}

// Is reports whether target matches this error type.
func (e *InvalidSecuritySchemeError) Is(target error) bool {
	return target == ErrInvalidSecurityScheme
}

// ServerError is returned when the exchange completed with a non-2xx status.
type ServerError struct {
	StatusCode int
	// Reason is the response description from the document when one is
	// declared for StatusCode, otherwise the transport's reason phrase
	Reason string
	// Body is the raw response payload, kept for diagnostics
	Body []byte
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%d %s", e.StatusCode, e.Reason)
}

// Is reports whether target matches this error type.
func (e *ServerError) Is(target error) bool {
	return target == ErrServer
}

// ArgumentError reports a call argument that is missing or unusable.
type ArgumentError struct {
	Name    string
	Message string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument %q: %s", e.Name, e.Message)
}

// Is reports whether target matches this error type.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrArgument
}

// TransportError wraps a failed HTTP exchange.
type TransportError struct {
	Method string
	URL    string
	// TLS is true when the exchange failed on certificate verification
	TLS   bool
	Cause error
}

func (e *TransportError) Error() string {
	msg := "transport error"
	if e.TLS {
		msg = "tls verification failed"
	}
	msg += fmt.Sprintf(": %s %s", strings.ToUpper(e.Method), e.URL)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// IsTLS reports whether the exchange failed on certificate verification.
func (e *TransportError) IsTLS() bool {
	return e.TLS
}
