package security

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarrence/swagger-cli/internal/openapi"
	"github.com/tarrence/swagger-cli/swaggererrors"
)

func testStrategies(t *testing.T) map[string]Strategy {
	t.Helper()
	strategies, err := Compile(map[string]openapi.SecurityDefinition{
		"api_key":       {Type: "apiKey", Name: "api_key", In: "header"},
		"query_key":     {Type: "apiKey", Name: "token", In: "query"},
		"basic_auth":    {Type: "basic"},
		"petstore_auth": {Type: "oauth2"},
	})
	require.NoError(t, err)
	return strategies
}

func TestCompile(t *testing.T) {
	strategies := testStrategies(t)
	assert.Equal(t, APIKey{Param: "api_key", Location: InHeader}, strategies["api_key"])
	assert.Equal(t, APIKey{Param: "token", Location: InQuery}, strategies["query_key"])
	assert.Equal(t, Basic{}, strategies["basic_auth"])
	assert.Equal(t, Unsupported{Type: "oauth2"}, strategies["petstore_auth"])

	_, err := Compile(map[string]openapi.SecurityDefinition{"k": {Type: "apiKey", In: "header"}})
	assert.ErrorContains(t, err, "requires name")

	_, err = Compile(map[string]openapi.SecurityDefinition{"k": {Type: "apiKey", Name: "k", In: "cookie"}})
	assert.ErrorContains(t, err, "header or query")
}

func TestReservedHeaders(t *testing.T) {
	assert.Equal(t, []string{"api_key"}, ReservedHeaders(testStrategies(t)))
}

func TestResolveAPIKeyHeader(t *testing.T) {
	reqs := []openapi.SecurityRequirement{{"api_key": {}}}
	plan, err := Resolve(reqs, testStrategies(t), Token("special-key"))
	require.NoError(t, err)

	assert.Equal(t, []string{"special-key"}, plan.Header["api_key"])
	assert.Empty(t, plan.Query)
	assert.Equal(t, []string{"api_key"}, plan.Applied)
}

func TestResolveAPIKeyQuery(t *testing.T) {
	reqs := []openapi.SecurityRequirement{{"query_key": {}}}
	plan, err := Resolve(reqs, testStrategies(t), Token("abc"))
	require.NoError(t, err)

	assert.Equal(t, "abc", plan.Query.Get("token"))
	assert.Empty(t, plan.Header)
}

func TestResolveBasic(t *testing.T) {
	reqs := []openapi.SecurityRequirement{{"basic_auth": {}}}
	plan, err := Resolve(reqs, testStrategies(t), UserPassword{Username: "alice", Password: "s3cret"})
	require.NoError(t, err)

	// base64("alice:s3cret")
	assert.Equal(t, "Basic YWxpY2U6czNjcmV0", plan.Header.Get("Authorization"))
}

func TestResolvePicksFirstSatisfiableRequirement(t *testing.T) {
	reqs := []openapi.SecurityRequirement{
		{"petstore_auth": {"write:pets"}},
		{"basic_auth": {}},
		{"api_key": {}},
	}
	plan, err := Resolve(reqs, testStrategies(t), Token("k"))
	require.NoError(t, err)
	assert.Equal(t, []string{"api_key"}, plan.Applied)
	assert.Equal(t, []string{"k"}, plan.Header["api_key"])
}

func TestResolveOptionalRequirementKeepsCredential(t *testing.T) {
	reqs := []openapi.SecurityRequirement{{}, {"api_key": {}}}

	plan, err := Resolve(reqs, testStrategies(t), Token("k"))
	require.NoError(t, err)
	assert.Equal(t, []string{"api_key"}, plan.Applied)
	assert.Equal(t, []string{"k"}, plan.Header["api_key"])

	// Nothing accepts a user/password pair, so the empty set applies.
	plan, err = Resolve(reqs, testStrategies(t), UserPassword{Username: "u"})
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestResolveAndWithinRequirement(t *testing.T) {
	reqs := []openapi.SecurityRequirement{{"api_key": {}, "query_key": {}}}
	plan, err := Resolve(reqs, testStrategies(t), Token("k"))
	require.NoError(t, err)
	assert.Equal(t, []string{"api_key", "query_key"}, plan.Applied)
	assert.Equal(t, []string{"k"}, plan.Header["api_key"])
	assert.Equal(t, "k", plan.Query.Get("token"))

	// A user/password pair cannot satisfy either apiKey, so nothing is sent.
	plan, err = Resolve(reqs, testStrategies(t), UserPassword{Username: "u"})
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestResolveUndeclaredName(t *testing.T) {
	reqs := []openapi.SecurityRequirement{{"api_key": {}}, {"missing": {}}}
	_, err := Resolve(reqs, testStrategies(t), Token("k"))

	var secErr *swaggererrors.InvalidSecuritySchemeError
	require.ErrorAs(t, err, &secErr)
	assert.Equal(t, "missing", secErr.Name)

	// Undeclared names are reported even without a credential.
	_, err = Resolve(reqs, testStrategies(t), nil)
	assert.ErrorIs(t, err, swaggererrors.ErrInvalidSecurityScheme)
}

func TestResolveWithoutRequirementsIgnoresCredential(t *testing.T) {
	plan, err := Resolve(nil, testStrategies(t), Token("ignored"))
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestResolveWithoutCredentialProceeds(t *testing.T) {
	plan, err := Resolve([]openapi.SecurityRequirement{{"api_key": {}}}, testStrategies(t), nil)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestPlanApply(t *testing.T) {
	plan, err := Resolve([]openapi.SecurityRequirement{{"api_key": {}}}, testStrategies(t), Token("k"))
	require.NoError(t, err)

	h := http.Header{"Accept": {"*/*"}}
	q := url.Values{"status": {"sold"}}
	plan.Apply(h, q)

	assert.Equal(t, []string{"k"}, h["api_key"])
	assert.Equal(t, "*/*", h.Get("Accept"))
	assert.Equal(t, "sold", q.Get("status"))
}

func TestFromValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Credential
		ok   bool
	}{
		{name: "nil", in: nil, want: nil, ok: true},
		{name: "string", in: "special-key", want: Token("special-key"), ok: true},
		{name: "token", in: Token("t"), want: Token("t"), ok: true},
		{name: "pair", in: [2]string{"u", "p"}, want: UserPassword{Username: "u", Password: "p"}, ok: true},
		{name: "struct", in: UserPassword{Username: "u"}, want: UserPassword{Username: "u"}, ok: true},
		{name: "pointer", in: &UserPassword{Username: "u"}, want: UserPassword{Username: "u"}, ok: true},
		{name: "int", in: 42, want: nil, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromValue(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
