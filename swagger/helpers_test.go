package swagger

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const petDoc = `{
  "swagger": "2.0",
  "info": {"title": "pets", "version": "1.0.0"},
  "host": "%HOST%",
  "basePath": "/v2",
  "schemes": ["http", "ws"],
  "consumes": ["application/json"],
  "produces": ["application/json"],
  "securityDefinitions": {
    "api_key": {"type": "apiKey", "name": "api_key", "in": "header"},
    "query_key": {"type": "apiKey", "name": "token", "in": "query"},
    "basic_auth": {"type": "basic"},
    "petstore_auth": {"type": "oauth2", "flow": "implicit", "authorizationUrl": "http://example.com/oauth"}
  },
  "paths": {
    "/pet": {
      "post": {
        "operationId": "addPet",
        "consumes": ["application/json", "application/xml"],
        "security": [{"petstore_auth": ["write:pets"]}, {"api_key": []}],
        "responses": {"405": {"description": "Invalid input"}}
      }
    },
    "/pet/{petId}": {
      "parameters": [{"name": "petId", "in": "path", "required": true, "type": "integer"}],
      "get": {
        "operationId": "getPetById",
        "responses": {"200": {"description": "successful operation"}, "404": {"description": "Pet not found"}, "500": {}}
      },
      "post": {
        "operationId": "updatePetWithForm",
        "consumes": ["application/x-www-form-urlencoded", "multipart/form-data"],
        "parameters": [
          {"name": "name", "in": "formData", "type": "string"},
          {"name": "status", "in": "formData", "type": "string"}
        ],
        "responses": {"405": {"description": "Invalid input"}}
      },
      "delete": {
        "operationId": "deletePet",
        "parameters": [{"name": "X-Request-Tag", "in": "header", "type": "string"}],
        "responses": {"400": {"description": "Invalid ID supplied"}}
      }
    },
    "/pet/findByStatus": {
      "get": {"operationId": "findPetsByStatus", "responses": {"200": {"description": "ok"}}}
    },
    "/store/order": {
      "get": {"operationId": "getOrder", "security": [{}, {"api_key": []}], "responses": {}}
    },
    "/store/inventory": {
      "get": {"operationId": "getInventory", "security": [{"api_key": []}], "responses": {}}
    },
    "/user/login": {
      "get": {"operationId": "loginUser", "security": [{"basic_auth": []}], "responses": {}}
    },
    "/search": {
      "get": {"operationId": "search", "security": [{"query_key": []}], "responses": {}}
    },
    "/broken": {
      "get": {"operationId": "broken", "security": [{"api_key": []}, {"nope": []}], "responses": {}}
    }
  }
}`

type captured struct {
	Method string
	Path   string
	Query  url.Values
	Raw    string
	Header http.Header
	Body   []byte
}

// petServer records every request and answers based on the path:
// /v2/pet/404 and /v2/pet/500 fail, findByStatus?status=missing is a bare
// 404, everything else echoes 200 with a small JSON body.
type petServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []captured
}

func newPetServer(t *testing.T) *petServer {
	t.Helper()
	ps := &petServer{}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		ps.mu.Lock()
		ps.requests = append(ps.requests, captured{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Raw:    r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		ps.mu.Unlock()

		switch {
		case r.URL.Path == "/v2/pet/404":
			http.Error(w, `{"message":"no such pet"}`, http.StatusNotFound)
			return
		case r.URL.Path == "/v2/pet/500":
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		case r.URL.Query().Get("status") == "missing":
			w.WriteHeader(http.StatusNotFound)
			return
		case r.URL.Path == "/v2/store/inventory" && r.URL.Query().Get("expect") != "":
			if r.Header.Get("api_key") != r.URL.Query().Get("expect") {
				http.Error(w, "credential mixed up", http.StatusBadRequest)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 2, "name": "doggie"})
	}))
	t.Cleanup(ps.Close)
	return ps
}

func (ps *petServer) host() string {
	return strings.TrimPrefix(ps.URL, "http://")
}

func (ps *petServer) last(t *testing.T) captured {
	t.Helper()
	ps.mu.Lock()
	defer ps.mu.Unlock()
	require.NotEmpty(t, ps.requests)
	return ps.requests[len(ps.requests)-1]
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swagger.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newPetClient(t *testing.T, ps *petServer, opts ...Option) *Client {
	t.Helper()
	path := writeDoc(t, strings.ReplaceAll(petDoc, "%HOST%", ps.host()))
	c, err := Load(context.Background(), path, opts...)
	require.NoError(t, err)
	return c
}
