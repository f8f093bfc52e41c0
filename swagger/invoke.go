package swagger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/tarrence/swagger-cli/internal/negotiate"
	"github.com/tarrence/swagger-cli/internal/openapi"
	"github.com/tarrence/swagger-cli/internal/scheme"
	"github.com/tarrence/swagger-cli/internal/security"
	"github.com/tarrence/swagger-cli/internal/swaggerhttp"
	"github.com/tarrence/swagger-cli/swaggererrors"
	"go.uber.org/zap"
)

// Reserved argument names. They are consumed by the dispatcher and never
// sent as path, query, header or form values.
const (
	ArgScheme = "scheme"
	ArgFormat = "format"
	ArgAuth   = "auth"
	ArgBody   = "body"
)

const (
	formURLEncoded = "application/x-www-form-urlencoded"
	multipartForm  = "multipart/form-data"
)

// Args are the named values of one call: path placeholders, query, header
// and formData parameters, plus the reserved names scheme, format, auth and
// body. Slice values produce repeated parameters.
type Args map[string]any

// Invoke calls the operation declared for method under pathTemplate.
//
// The path template must match a key of the document's paths exactly and
// method must be a supported verb declared under it. A non-2xx response is
// returned together with a *swaggererrors.ServerError.
func (c *Client) Invoke(ctx context.Context, method, pathTemplate string, args Args) (*Response, error) {
	item, ok := c.doc.Paths[pathTemplate]
	if !ok {
		return nil, &swaggererrors.InvalidPathError{Path: pathTemplate}
	}
	verb, supported := openapi.NormalizeVerb(method)
	var op *openapi.Operation
	if supported {
		op = item.Operation(verb)
	}
	if op == nil {
		return nil, &swaggererrors.InvalidOperationError{Method: method, Path: pathTemplate}
	}

	rest := make(Args, len(args))
	for k, v := range args {
		rest[k] = v
	}
	format, err := popString(rest, ArgFormat)
	if err != nil {
		return nil, err
	}
	requested, err := popString(rest, ArgScheme)
	if err != nil {
		return nil, err
	}
	authVal := rest[ArgAuth]
	delete(rest, ArgAuth)
	cred, ok := security.FromValue(authVal)
	if !ok {
		return nil, &swaggererrors.ArgumentError{
			Name:    ArgAuth,
			Message: fmt.Sprintf("must be a token or a user/password pair, got %T", authVal),
		}
	}
	bodyVal, hasBody := rest[ArgBody]
	delete(rest, ArgBody)

	header := negotiate.Negotiate(c.doc.ConsumesFor(op), c.doc.ProducesFor(op), format)
	sch, err := scheme.Select(c.doc.Schemes, requested)
	if err != nil {
		return nil, err
	}
	plan, err := security.Resolve(op.Security, c.strategies, cred)
	if err != nil {
		return nil, err
	}

	body, err := bodyBytes(bodyVal)
	if err != nil {
		return nil, err
	}
	hasBody = hasBody && bodyVal != nil

	path, err := expandPath(pathTemplate, rest)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	form := url.Values{}
	headerParams := paramNames(item.ParametersIn(op, "header"))
	formParams := paramNames(item.ParametersIn(op, "formData"))
	for _, name := range sortedKeys(rest) {
		values := argValues(rest[name])
		switch {
		case headerParams[name]:
			// Declared spelling, like apiKey headers.
			header[name] = append(header[name], values...)
		case formParams[name] && !hasBody:
			form[name] = append(form[name], values...)
		default:
			query[name] = append(query[name], values...)
		}
	}
	if len(form) > 0 {
		ct := header.Get("Content-Type")
		if body, ct, err = encodeForm(form, ct); err != nil {
			return nil, err
		}
		header.Set("Content-Type", ct)
	}

	plan.Apply(header, query)

	target := sch + "://" + c.doc.BaseURI() + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	logger := c.logger.With(
		zap.String("operation_id", op.OperationID),
		zap.String("method", verb),
		zap.String("path", pathTemplate),
	)
	if cred != nil && plan.Empty() {
		logger.Debug("credential not attached; no security requirement it satisfies")
	}
	logger.Debug("dispatch",
		zap.String("scheme", sch),
		zap.Strings("security", plan.Applied),
		zap.Int("query_params", len(query)),
	)

	res, err := c.transport.Do(ctx, &swaggerhttp.Request{
		Method: strings.ToUpper(verb),
		URL:    target,
		Route:  pathTemplate,
		Header: header,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	resp := &Response{
		StatusCode: res.Status,
		Reason:     res.Reason,
		Header:     res.Headers,
		Body:       res.Body,
		URL:        res.URL,
		Method:     strings.ToUpper(verb),
	}
	if err := Classify(res.Status, op.Responses, res.Reason); err != nil {
		var srvErr *swaggererrors.ServerError
		if errors.As(err, &srvErr) {
			srvErr.Body = res.Body
		}
		return resp, err
	}
	return resp, nil
}

func (c *Client) Get(ctx context.Context, pathTemplate string, args Args) (*Response, error) {
	return c.Invoke(ctx, http.MethodGet, pathTemplate, args)
}

func (c *Client) Put(ctx context.Context, pathTemplate string, args Args) (*Response, error) {
	return c.Invoke(ctx, http.MethodPut, pathTemplate, args)
}

func (c *Client) Post(ctx context.Context, pathTemplate string, args Args) (*Response, error) {
	return c.Invoke(ctx, http.MethodPost, pathTemplate, args)
}

func (c *Client) Delete(ctx context.Context, pathTemplate string, args Args) (*Response, error) {
	return c.Invoke(ctx, http.MethodDelete, pathTemplate, args)
}

func (c *Client) Patch(ctx context.Context, pathTemplate string, args Args) (*Response, error) {
	return c.Invoke(ctx, http.MethodPatch, pathTemplate, args)
}

func (c *Client) Head(ctx context.Context, pathTemplate string, args Args) (*Response, error) {
	return c.Invoke(ctx, http.MethodHead, pathTemplate, args)
}

func (c *Client) Options(ctx context.Context, pathTemplate string, args Args) (*Response, error) {
	return c.Invoke(ctx, http.MethodOptions, pathTemplate, args)
}

func popString(args Args, name string) (string, error) {
	v, ok := args[name]
	delete(args, name)
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &swaggererrors.ArgumentError{Name: name, Message: fmt.Sprintf("must be a string, got %T", v)}
	}
	return s, nil
}

func bodyBytes(v any) ([]byte, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(b), nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, &swaggererrors.ArgumentError{Name: ArgBody, Message: "read: " + err.Error()}
		}
		return data, nil
	}
	return nil, &swaggererrors.ArgumentError{
		Name:    ArgBody,
		Message: fmt.Sprintf("must be a string, []byte or io.Reader, got %T", v),
	}
}

// expandPath substitutes every {name} placeholder from args and removes
// the consumed names.
func expandPath(template string, args Args) (string, error) {
	path := template
	for _, name := range openapi.TemplateParams(template) {
		if !strings.Contains(path, "{"+name+"}") {
			continue
		}
		v, ok := args[name]
		if !ok || v == nil {
			return "", &swaggererrors.ArgumentError{Name: name, Message: "missing value for path parameter"}
		}
		delete(args, name)
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(strings.Join(argValues(v), ",")))
	}
	return path, nil
}

// argValues renders an argument as parameter values. Slices and arrays
// other than []byte yield one value per element.
func argValues(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return []string{x}
	case []string:
		return x
	case []byte:
		return []string{string(x)}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, fmt.Sprint(rv.Index(i).Interface()))
		}
		return out
	}
	return []string{fmt.Sprint(v)}
}

func paramNames(params []openapi.Parameter) map[string]bool {
	out := make(map[string]bool, len(params))
	for _, p := range params {
		out[p.Name] = true
	}
	return out
}

func sortedKeys(args Args) []string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// encodeForm serializes formData values. A negotiated multipart type gets a
// multipart body; anything else is sent URL-encoded.
func encodeForm(form url.Values, negotiated string) ([]byte, string, error) {
	if !strings.HasPrefix(negotiated, multipartForm) {
		return []byte(form.Encode()), formURLEncoded, nil
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range sortedFormKeys(form) {
		for _, v := range form[name] {
			if err := w.WriteField(name, v); err != nil {
				return nil, "", fmt.Errorf("encode form field %q: %w", name, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("encode form: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func sortedFormKeys(form url.Values) []string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
