package cligen

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarrence/swagger-cli/internal/openapi"
	"github.com/tarrence/swagger-cli/internal/output"
	"github.com/tarrence/swagger-cli/internal/security"
	"github.com/tarrence/swagger-cli/swagger"
	"github.com/tarrence/swagger-cli/swaggererrors"
)

func TestKebabCase(t *testing.T) {
	tests := map[string]string{
		"getPetById":       "get-pet-by-id",
		"findPetsByStatus": "find-pets-by-status",
		"pet store":        "pet-store",
		"get /pet/{petId}": "get-pet-pet-id",
		"  ":               "",
		"v2Pets":           "v2-pets",
		"getAPIKey":        "get-api-key",
		"HTTPStatus":       "http-status",
		"user_login":       "user-login",
		"café":             "caf",
	}
	for in, want := range tests {
		assert.Equal(t, want, kebabCase(in), in)
	}
}

func TestBuildCatalogue(t *testing.T) {
	doc, err := openapi.EmbeddedSpec("petstore")
	require.NoError(t, err)

	c, err := BuildCatalogue(doc)
	require.NoError(t, err)

	entries := c.Entries()
	require.Len(t, entries, 18)
	assert.Equal(t, "pet/add-pet", entries[0].FullName())
	assert.Equal(t, "post", entries[0].Method)
	assert.Equal(t, "/pet", entries[0].Path)

	e, err := c.Lookup("get-pet-by-id")
	require.NoError(t, err)
	assert.Equal(t, "get", e.Method)
	assert.Equal(t, "/pet/{petId}", e.Path)

	e, err = c.Lookup("store/get-inventory")
	require.NoError(t, err)
	assert.Equal(t, "/store/inventory", e.Path)

	e, err = c.Lookup("loginUser")
	require.NoError(t, err)
	assert.Equal(t, "/user/login", e.Path)

	_, err = c.Lookup("user/get-inventory")
	assert.ErrorContains(t, err, "unknown operation")
	_, err = c.Lookup("fly")
	assert.ErrorContains(t, err, "unknown operation")
}

func TestBuildCatalogueDuplicatesAndAmbiguity(t *testing.T) {
	doc := &openapi.Document{Paths: map[string]openapi.PathItem{
		"/a": {Get: &openapi.Operation{OperationID: "list"}},
		"/b": {Get: &openapi.Operation{OperationID: "list"}},
	}}
	_, err := BuildCatalogue(doc)
	assert.ErrorContains(t, err, `duplicate command name "list" in group "misc"`)

	doc = &openapi.Document{Paths: map[string]openapi.PathItem{
		"/a": {Get: &openapi.Operation{OperationID: "list", Tags: []string{"cats"}}},
		"/b": {Get: &openapi.Operation{OperationID: "list", Tags: []string{"dogs"}}},
		"/c": {Post: &openapi.Operation{}},
	}}
	c, err := BuildCatalogue(doc)
	require.NoError(t, err)

	_, err = c.Lookup("list")
	assert.ErrorContains(t, err, "cats/list, dogs/list")

	e, err := c.Lookup("dogs/list")
	require.NoError(t, err)
	assert.Equal(t, "/b", e.Path)

	e, err = c.Lookup("post-c")
	require.NoError(t, err)
	assert.Equal(t, "misc", e.Group)
}

func TestParseArgs(t *testing.T) {
	args, err := ParseArgs([]string{"petId=2", "status=available", "status=sold", "status=pending", "q=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, swagger.Args{
		"petId":  "2",
		"status": []string{"available", "sold", "pending"},
		"q":      "a=b",
		"empty":  "",
	}, args)

	_, err = ParseArgs([]string{"petId"})
	assert.ErrorContains(t, err, "expected name=value")

	_, err = ParseArgs([]string{"=x"})
	assert.Error(t, err)

	_, err = ParseArgs([]string{"body={}"})
	assert.ErrorContains(t, err, "--data")

	_, err = ParseArgs([]string{"auth=k"})
	assert.ErrorContains(t, err, "--auth")
}

func TestReadDataArg(t *testing.T) {
	b, err := ReadDataArg(`{"id":1}`, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(b))

	b, err = ReadDataArg("-", strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", string(b))

	path := filepath.Join(t.TempDir(), "pet.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"rex"}`), 0o600))
	b, err = ReadDataArg("@"+path, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"rex"}`, string(b))

	_, err = ReadDataArg("@/does/not/exist", nil)
	assert.Error(t, err)
}

func testRuntime(t *testing.T, handler http.HandlerFunc) (*Runtime, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	doc, err := openapi.EmbeddedSpec("petstore")
	require.NoError(t, err)
	doc.Host = strings.TrimPrefix(srv.URL, "http://")

	var out, errBuf bytes.Buffer
	printer := output.NewPrinter(&out, &errBuf, output.PrinterOptions{ForceCompact: true})
	loads := 0
	rt := NewRuntime(printer, func(context.Context) (*swagger.Client, error) {
		loads++
		require.Equal(t, 1, loads, "client loaded more than once")
		return swagger.New(doc)
	})
	return rt, &out, &errBuf
}

func TestRuntimeCall(t *testing.T) {
	var gotKey string
	rt, out, _ := testRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api_key")
		_, _ = w.Write([]byte(`{"available":3}`))
	})
	rt.Auth = security.Token("special-key")

	require.NoError(t, rt.Call(context.Background(), "get", "/store/inventory", nil))
	assert.Equal(t, "special-key", gotKey)
	assert.Equal(t, "{\"available\":3}\n", out.String())

	// Second call reuses the loaded client.
	require.NoError(t, rt.Call(context.Background(), "get", "/store/inventory", swagger.Args{}))
}

func TestRuntimeCallServerError(t *testing.T) {
	rt, out, errBuf := testRuntime(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"Pet not found"}`, http.StatusNotFound)
	})

	err := rt.Call(context.Background(), "get", "/pet/{petId}", swagger.Args{"petId": "9"})
	require.ErrorIs(t, err, swaggererrors.ErrServer)
	assert.Empty(t, out.String())
	assert.True(t, strings.HasPrefix(errBuf.String(), "HTTP 404 Pet not found\n"))
}

func TestRuntimeLoadError(t *testing.T) {
	var out, errBuf bytes.Buffer
	printer := output.NewPrinter(&out, &errBuf, output.PrinterOptions{})
	rt := NewRuntime(printer, func(context.Context) (*swagger.Client, error) {
		return nil, errors.New("no document")
	})

	err := rt.Call(context.Background(), "get", "/pet", nil)
	assert.EqualError(t, err, "no document")
}
