// Package negotiate resolves the Content-Type and Accept headers of a call.
package negotiate

import "net/http"

const (
	// DefaultFormat is the media type assumed when the caller asks for none.
	DefaultFormat = "application/json"

	// AnyMediaType is sent as Accept whenever the operation declares produces.
	AnyMediaType = "*/*"
)

// Negotiate returns the headers for a request against an operation that
// consumes/produces the given media types. requested picks the Content-Type
// out of consumes; when it is empty DefaultFormat is used, and when it is not
// declared the first consumes entry wins. The result is a new header set.
func Negotiate(consumes, produces []string, requested string) http.Header {
	h := http.Header{}
	if requested == "" {
		requested = DefaultFormat
	}
	if len(consumes) > 0 {
		h.Set("Content-Type", consumes[Index(consumes, requested)])
	}
	if len(produces) > 0 {
		h.Set("Accept", AnyMediaType)
	}
	return h
}

// Index returns the position of requested in consumes, or 0 when absent.
func Index(consumes []string, requested string) int {
	for i, ct := range consumes {
		if ct == requested {
			return i
		}
	}
	return 0
}
