package swaggererrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaLoadError(t *testing.T) {
	t.Run("message with all fields", func(t *testing.T) {
		err := &SchemaLoadError{Source: "petstore.json", Message: "missing swagger version", Cause: errors.New("boom")}
		assert.Equal(t, "schema load error in petstore.json: missing swagger version: boom", err.Error())
	})

	t.Run("minimal message", func(t *testing.T) {
		assert.Equal(t, "schema load error", (&SchemaLoadError{}).Error())
	})

	t.Run("unwrap and is", func(t *testing.T) {
		cause := errors.New("no such file")
		err := fmt.Errorf("load: %w", &SchemaLoadError{Cause: cause})
		assert.ErrorIs(t, err, ErrSchemaLoad)
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, ErrServer)
	})
}

func TestInvalidPathError(t *testing.T) {
	err := error(&InvalidPathError{Path: "/nope"})
	assert.Equal(t, `got unexpected path "/nope"`, err.Error())
	assert.ErrorIs(t, err, ErrInvalidPath)

	var target *InvalidPathError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &target)
	assert.Equal(t, "/nope", target.Path)
}

func TestInvalidOperationError(t *testing.T) {
	assert.Equal(t, `invalid operation "trace"`, (&InvalidOperationError{Method: "trace"}).Error())
	assert.Equal(t, `invalid operation "put" for path "/pet/{petId}"`,
		(&InvalidOperationError{Method: "put", Path: "/pet/{petId}"}).Error())
	assert.ErrorIs(t, &InvalidOperationError{}, ErrInvalidOperation)
}

func TestUnsupportedSchemeError(t *testing.T) {
	err := &UnsupportedSchemeError{Scheme: "ftp", Supported: []string{"http", "https"}}
	assert.Equal(t, `unsupported scheme "ftp" (supported: http, https)`, err.Error())
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

func TestInvalidSecuritySchemeError(t *testing.T) {
	err := &InvalidSecuritySchemeError{Name: "petstore_auth"}
	assert.Contains(t, err.Error(), `"petstore_auth"`)
	assert.ErrorIs(t, err, ErrInvalidSecurityScheme)
}

func TestServerError(t *testing.T) {
	err := &ServerError{StatusCode: 404, Reason: "Pet not found"}
	assert.Equal(t, "404 Pet not found", err.Error())
	assert.ErrorIs(t, err, ErrServer)
	assert.NotErrorIs(t, err, ErrTransport)
}

func TestArgumentError(t *testing.T) {
	err := &ArgumentError{Name: "petId", Message: "no value for path placeholder"}
	assert.Equal(t, `argument "petId": no value for path placeholder`, err.Error())
	assert.ErrorIs(t, err, ErrArgument)
}

func TestTransportError(t *testing.T) {
	cause := errors.New("x509: certificate signed by unknown authority")

	plain := &TransportError{Method: "get", URL: "https://example.com/v2/pet/1", Cause: errors.New("connection refused")}
	assert.Equal(t, "transport error: GET https://example.com/v2/pet/1: connection refused", plain.Error())
	assert.False(t, plain.IsTLS())

	tlsErr := &TransportError{Method: "get", URL: "https://example.com", TLS: true, Cause: cause}
	assert.True(t, tlsErr.IsTLS())
	assert.Contains(t, tlsErr.Error(), "tls verification failed")
	assert.ErrorIs(t, tlsErr, ErrTransport)
	assert.ErrorIs(t, tlsErr, cause)
}
