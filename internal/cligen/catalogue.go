package cligen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tarrence/swagger-cli/internal/openapi"
)

// Entry is one operation of the loaded document as the CLI names it.
type Entry struct {
	// Group is the kebab-cased first tag, or "misc".
	Group string
	Tag   string
	// Name is the kebab-cased operationId, or verb and path when the
	// operation has none.
	Name   string
	Method string
	Path   string
	Op     *openapi.Operation
}

func (e Entry) FullName() string {
	return e.Group + "/" + e.Name
}

// Catalogue indexes a document's operations by command name.
type Catalogue struct {
	entries []Entry
	byName  map[string][]int
}

// BuildCatalogue lists every operation of doc sorted by group and name.
// Two operations with the same name in one group are an error.
func BuildCatalogue(doc *openapi.Document) (*Catalogue, error) {
	var entries []Entry
	for _, p := range doc.SortedPaths() {
		item := doc.Paths[p]
		opsByMethod := item.Operations()
		methods := make([]string, 0, len(opsByMethod))
		for m := range opsByMethod {
			methods = append(methods, m)
		}
		sort.Strings(methods)

		for _, method := range methods {
			op := opsByMethod[method]

			tag := "misc"
			if len(op.Tags) > 0 && strings.TrimSpace(op.Tags[0]) != "" {
				tag = op.Tags[0]
			}
			group := kebabCase(tag)
			if group == "" {
				group = "misc"
			}
			name := kebabCase(op.OperationID)
			if name == "" {
				name = kebabCase(method + " " + p)
			}

			entries = append(entries, Entry{
				Group:  group,
				Tag:    tag,
				Name:   name,
				Method: method,
				Path:   p,
				Op:     op,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Group != entries[j].Group {
			return entries[i].Group < entries[j].Group
		}
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		if entries[i].Method != entries[j].Method {
			return entries[i].Method < entries[j].Method
		}
		return entries[i].Path < entries[j].Path
	})

	c := &Catalogue{entries: entries, byName: map[string][]int{}}
	seen := map[string]Entry{} // group/name -> entry
	for i, e := range entries {
		if prev, ok := seen[e.FullName()]; ok {
			return nil, fmt.Errorf("duplicate command name %q in group %q (%s %s conflicts with %s %s)",
				e.Name, e.Group, e.Method, e.Path, prev.Method, prev.Path)
		}
		seen[e.FullName()] = e
		c.byName[e.Name] = append(c.byName[e.Name], i)
	}
	return c, nil
}

func (c *Catalogue) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Lookup finds an operation by "group/name" or by name alone. A bare name
// shared by several groups is ambiguous.
func (c *Catalogue) Lookup(name string) (Entry, error) {
	name = strings.TrimSpace(name)
	if group, opName, ok := strings.Cut(name, "/"); ok {
		for _, i := range c.byName[opName] {
			if c.entries[i].Group == group {
				return c.entries[i], nil
			}
		}
		return Entry{}, fmt.Errorf("unknown operation %q", name)
	}

	idx := c.byName[name]
	switch len(idx) {
	case 0:
		// Accept the raw operationId too.
		if k := kebabCase(name); k != name && len(c.byName[k]) > 0 {
			return c.Lookup(k)
		}
		return Entry{}, fmt.Errorf("unknown operation %q (see 'spec list')", name)
	case 1:
		return c.entries[idx[0]], nil
	}
	candidates := make([]string, 0, len(idx))
	for _, i := range idx {
		candidates = append(candidates, c.entries[i].FullName())
	}
	return Entry{}, fmt.Errorf("operation %q is ambiguous: %s", name, strings.Join(candidates, ", "))
}
