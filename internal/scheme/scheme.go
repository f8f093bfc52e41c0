// Package scheme picks the transport label (http, https, ws, wss) of a call.
package scheme

import (
	"github.com/tarrence/swagger-cli/swaggererrors"
)

// Select resolves the scheme for one call. A requested scheme must be
// declared verbatim. Without a request the first declared scheme wins, which
// is also the only one when a single scheme is declared.
func Select(declared []string, requested string) (string, error) {
	if requested != "" {
		for _, s := range declared {
			if s == requested {
				return s, nil
			}
		}
		return "", &swaggererrors.UnsupportedSchemeError{
			Scheme:    requested,
			Supported: append([]string(nil), declared...),
		}
	}
	if len(declared) == 0 {
		return "", &swaggererrors.UnsupportedSchemeError{}
	}
	return declared[0], nil
}

// IsHTTP reports whether s can be exchanged over net/http. ws and wss are
// labels only; this client does not speak WebSocket framing.
func IsHTTP(s string) bool {
	return s == "http" || s == "https"
}
