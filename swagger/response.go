package swagger

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/tarrence/swagger-cli/internal/openapi"
	"github.com/tarrence/swagger-cli/swaggererrors"
)

// Response is a completed exchange.
type Response struct {
	StatusCode int
	// Reason is the status text without the numeric code.
	Reason string
	Header http.Header
	Body   []byte
	URL    string
	Method string
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if len(r.Body) == 0 {
		return errors.New("empty response body")
	}
	return json.Unmarshal(r.Body, v)
}

// Classify maps a status code to success (nil) or a *swaggererrors.ServerError.
// The reason is the description declared for the exact code in responses,
// falling back to reason when the code is not declared or has no description.
func Classify(status int, responses map[string]openapi.Response, reason string) error {
	if status >= 200 && status < 300 {
		return nil
	}
	if declared, ok := responses[strconv.Itoa(status)]; ok && declared.Description != "" {
		reason = declared.Description
	}
	if reason == "" {
		reason = http.StatusText(status)
	}
	return &swaggererrors.ServerError{StatusCode: status, Reason: reason}
}
