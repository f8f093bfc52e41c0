package openapi

import (
	"sort"
	"strings"
)

// HTTP verbs the client can dispatch, as they appear in a path item.
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
)

// Verbs is the fixed set of supported verbs in path item field order.
var Verbs = []string{MethodGet, MethodPut, MethodPost, MethodDelete, MethodOptions, MethodHead, MethodPatch}

// NormalizeVerb lower-cases verb and reports whether it is supported.
func NormalizeVerb(verb string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(verb))
	for _, known := range Verbs {
		if v == known {
			return v, true
		}
	}
	return v, false
}

// Operation returns the operation declared for verb (lower-case), or nil.
func (pi *PathItem) Operation(verb string) *Operation {
	switch verb {
	case MethodGet:
		return pi.Get
	case MethodPut:
		return pi.Put
	case MethodPost:
		return pi.Post
	case MethodDelete:
		return pi.Delete
	case MethodOptions:
		return pi.Options
	case MethodHead:
		return pi.Head
	case MethodPatch:
		return pi.Patch
	}
	return nil
}

func (pi *PathItem) Operations() map[string]*Operation {
	out := map[string]*Operation{}
	for _, verb := range Verbs {
		if op := pi.Operation(verb); op != nil {
			out[verb] = op
		}
	}
	return out
}

// SortedPaths returns the path templates in lexical order.
func (d *Document) SortedPaths() []string {
	paths := make([]string, 0, len(d.Paths))
	for p := range d.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// BaseURI is host + basePath without a scheme. basePath defaults to empty.
func (d *Document) BaseURI() string {
	return d.Host + d.BasePath
}

// ConsumesFor returns the media types governing op's request body.
func (d *Document) ConsumesFor(op *Operation) []string {
	if op != nil && op.Consumes != nil {
		return op.Consumes
	}
	return d.Consumes
}

// ProducesFor returns the media types op declares it can answer with.
func (d *Document) ProducesFor(op *Operation) []string {
	if op != nil && op.Produces != nil {
		return op.Produces
	}
	return d.Produces
}

// ParametersIn returns the parameters declared at location in, merging the
// path item's shared parameters with op's own (op wins on name clashes).
func (pi *PathItem) ParametersIn(op *Operation, in string) []Parameter {
	var out []Parameter
	seen := map[string]bool{}
	if op != nil {
		for _, p := range op.Parameters {
			if p.In == in && p.Name != "" {
				out = append(out, p)
				seen[p.Name] = true
			}
		}
	}
	for _, p := range pi.Parameters {
		if p.In == in && p.Name != "" && !seen[p.Name] {
			out = append(out, p)
		}
	}
	return out
}

// TemplateParams returns the {name} placeholders of a path template in order.
func TemplateParams(path string) []string {
	var out []string
	for i := 0; i < len(path); i++ {
		if path[i] != '{' {
			continue
		}
		j := strings.IndexByte(path[i:], '}')
		if j <= 1 {
			continue
		}
		out = append(out, path[i+1:i+j])
		i = i + j
	}
	return out
}
