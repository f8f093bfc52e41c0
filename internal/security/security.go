// Package security turns a document's securityDefinitions into strategies
// and resolves an operation's requirements into an attachment plan.
//
// Definitions are compiled once when the document is loaded. At call time
// the resolver only looks strategies up by name and asks each one to attach
// the caller's credential; it never branches on the definition type string.
package security

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/tarrence/swagger-cli/internal/openapi"
	"github.com/tarrence/swagger-cli/swaggererrors"
)

// Credential is a caller-supplied secret: a Token or a UserPassword.
type Credential interface {
	credential()
}

// Token is an API key value.
type Token string

func (Token) credential() {}

// UserPassword is a basic auth pair.
type UserPassword struct {
	Username string
	Password string
}

func (UserPassword) credential() {}

// FromValue converts a dynamically typed auth argument into a Credential.
// nil yields (nil, true): no credential is a valid choice.
func FromValue(v any) (Credential, bool) {
	switch c := v.(type) {
	case nil:
		return nil, true
	case string:
		return Token(c), true
	case Token:
		return c, true
	case UserPassword:
		return c, true
	case *UserPassword:
		if c == nil {
			return nil, true
		}
		return *c, true
	case [2]string:
		return UserPassword{Username: c[0], Password: c[1]}, true
	}
	return nil, false
}

// Location is where an apiKey travels.
type Location string

const (
	InHeader Location = "header"
	InQuery  Location = "query"
)

// Strategy attaches a credential for one named security definition.
type Strategy interface {
	// Attach writes cred into plan and reports false when cred is not
	// the kind this definition needs.
	Attach(plan *Plan, cred Credential) bool
}

// APIKey sends a Token in a named header or query parameter.
type APIKey struct {
	Param    string
	Location Location
}

func (s APIKey) Attach(plan *Plan, cred Credential) bool {
	tok, ok := cred.(Token)
	if !ok {
		return false
	}
	switch s.Location {
	case InHeader:
		// Keep the declared spelling on the wire; Set would canonicalize it.
		plan.Header[s.Param] = []string{string(tok)}
	case InQuery:
		plan.Query.Set(s.Param, string(tok))
	default:
		return false
	}
	return true
}

// Basic encodes a UserPassword into the Authorization header.
type Basic struct{}

func (Basic) Attach(plan *Plan, cred Credential) bool {
	up, ok := cred.(UserPassword)
	if !ok {
		return false
	}
	plan.Header.Set("Authorization", BasicAuthorization(up.Username, up.Password))
	return true
}

// Unsupported stands in for definition types the client cannot satisfy
// (oauth2 and anything unknown). It never attaches.
type Unsupported struct {
	Type string
}

func (Unsupported) Attach(*Plan, Credential) bool { return false }

// BasicAuthorization returns the Authorization value for a basic auth pair.
func BasicAuthorization(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// Compile builds one strategy per definition. An apiKey definition missing
// its name or with an in other than header/query makes the document unusable.
func Compile(defs map[string]openapi.SecurityDefinition) (map[string]Strategy, error) {
	out := make(map[string]Strategy, len(defs))
	for name, def := range defs {
		switch def.Type {
		case "apiKey":
			if def.Name == "" {
				return nil, fmt.Errorf("security definition %q: apiKey requires name", name)
			}
			loc := Location(def.In)
			if loc != InHeader && loc != InQuery {
				return nil, fmt.Errorf("security definition %q: apiKey in must be header or query, got %q", name, def.In)
			}
			out[name] = APIKey{Param: def.Name, Location: loc}
		case "basic":
			out[name] = Basic{}
		default:
			out[name] = Unsupported{Type: def.Type}
		}
	}
	return out, nil
}

// ReservedHeaders lists the header names apiKey strategies write to, sorted.
func ReservedHeaders(strategies map[string]Strategy) []string {
	var out []string
	for _, s := range strategies {
		if k, ok := s.(APIKey); ok && k.Location == InHeader {
			out = append(out, k.Param)
		}
	}
	sort.Strings(out)
	return out
}

// Plan is the set of headers and query parameters that carry a credential.
type Plan struct {
	Header http.Header
	Query  url.Values
	// Applied names the definitions of the requirement that was satisfied.
	Applied []string
}

func newPlan() *Plan {
	return &Plan{Header: http.Header{}, Query: url.Values{}}
}

// Empty reports whether the plan attaches nothing.
func (p *Plan) Empty() bool {
	return len(p.Header) == 0 && len(p.Query) == 0
}

// Apply writes the plan into a request's headers and query.
func (p *Plan) Apply(h http.Header, q url.Values) {
	for k, vv := range p.Header {
		h[k] = append([]string(nil), vv...)
	}
	for k, vv := range p.Query {
		q[k] = append([]string(nil), vv...)
	}
}

// Resolve picks how cred is attached for an operation with the given
// requirements. Every referenced name must be declared. The first
// requirement whose strategies all accept cred is applied; when none does,
// or cred is nil, or the operation has no requirements, the plan is empty
// and the request goes out unauthenticated.
func Resolve(requirements []openapi.SecurityRequirement, strategies map[string]Strategy, cred Credential) (*Plan, error) {
	if len(requirements) == 0 {
		return newPlan(), nil
	}
	sets := make([][]string, 0, len(requirements))
	for _, req := range requirements {
		names := make([]string, 0, len(req))
		for name := range req {
			if _, ok := strategies[name]; !ok {
				return nil, &swaggererrors.InvalidSecuritySchemeError{Name: name}
			}
			names = append(names, name)
		}
		sort.Strings(names)
		sets = append(sets, names)
	}
	if cred == nil {
		return newPlan(), nil
	}

	// An empty set makes auth optional; it only applies when no other set
	// accepts the credential, which is the unauthenticated fallback below.
	for _, names := range sets {
		if len(names) == 0 {
			continue
		}
		plan := newPlan()
		satisfied := true
		for _, name := range names {
			if !strategies[name].Attach(plan, cred) {
				satisfied = false
				break
			}
		}
		if satisfied {
			plan.Applied = names
			return plan, nil
		}
	}
	return newPlan(), nil
}
