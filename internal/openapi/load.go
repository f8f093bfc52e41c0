package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/tarrence/swagger-cli/specs"
	"github.com/tarrence/swagger-cli/swaggererrors"
	"gopkg.in/yaml.v3"
)

// DefaultSchemes applies when a document has no schemes field. The first
// entry is the default scheme for calls that do not request one.
var DefaultSchemes = []string{"http", "https", "ws", "wss"}

type SpecDoc struct {
	// Name is a stable identifier derived from the embedded filename (no extension).
	Name string
	// Filename is the embedded filename (basename).
	Filename string
	Spec     *Document
}

func LoadEmbeddedSpecs() ([]*SpecDoc, error) {
	entries, err := fs.Glob(specs.FS, "*.json")
	if err != nil {
		return nil, fmt.Errorf("list embedded specs: %w", err)
	}
	sort.Strings(entries)

	var out []*SpecDoc
	for _, filename := range entries {
		b, err := fs.ReadFile(specs.FS, filename)
		if err != nil {
			return nil, fmt.Errorf("read embedded spec %q: %w", filename, err)
		}
		doc, err := Parse(b, filename)
		if err != nil {
			return nil, err
		}
		if doc.Host == "" {
			return nil, loadErr(filename, "missing host", nil)
		}
		name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		out = append(out, &SpecDoc{
			Name:     name,
			Filename: filepath.Base(filename),
			Spec:     doc,
		})
	}
	return out, nil
}

// EmbeddedSpec returns the embedded document called name.
func EmbeddedSpec(name string) (*Document, error) {
	docs, err := LoadEmbeddedSpecs()
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if d.Name == name || d.Filename == name {
			return d.Spec, nil
		}
	}
	return nil, loadErr(name, "no embedded spec with this name", nil)
}

// IsURL reports whether source should be fetched over HTTP rather than read from disk.
func IsURL(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Load reads source (a file path or an http(s) URL) and parses it. For URL
// sources a document without host inherits the host it was served from.
func Load(ctx context.Context, httpClient *http.Client, source string) (*Document, error) {
	var (
		data   []byte
		srcURL *url.URL
		err    error
	)
	if IsURL(source) {
		srcURL, err = url.Parse(source)
		if err != nil {
			return nil, loadErr(source, "invalid URL", err)
		}
		data, err = fetchURL(ctx, httpClient, source)
	} else {
		data, err = os.ReadFile(source)
		if err != nil {
			err = loadErr(source, "read file", err)
		}
	}
	if err != nil {
		return nil, err
	}

	doc, err := decode(data, source)
	if err != nil {
		return nil, err
	}
	served := ""
	if srcURL != nil {
		served = strings.ToLower(srcURL.Scheme)
	}
	if doc.Host == "" {
		if srcURL == nil {
			return nil, loadErr(source, "missing host", nil)
		}
		doc.Host = srcURL.Host
	}
	ApplyDefaultSchemes(doc, served)
	return doc, nil
}

// ApplyDefaultSchemes fills an empty schemes field with DefaultSchemes,
// moving preferred (the scheme a URL source was served over) to the front.
// Declared schemes are never touched.
func ApplyDefaultSchemes(doc *Document, preferred string) {
	if len(doc.Schemes) > 0 {
		return
	}
	schemes := make([]string, 0, len(DefaultSchemes))
	if slices.Contains(DefaultSchemes, preferred) {
		schemes = append(schemes, preferred)
	}
	for _, s := range DefaultSchemes {
		if s != preferred {
			schemes = append(schemes, s)
		}
	}
	doc.Schemes = schemes
}

func fetchURL(ctx context.Context, httpClient *http.Client, source string) ([]byte, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, loadErr(source, "build request", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.8")
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, loadErr(source, "fetch", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, loadErr(source, "read body", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, loadErr(source, "fetch failed: "+resp.Status, nil)
	}
	return b, nil
}

// Parse decodes a JSON or YAML Swagger 2.0 payload and applies defaults.
// source only labels errors.
func Parse(data []byte, source string) (*Document, error) {
	doc, err := decode(data, source)
	if err != nil {
		return nil, err
	}
	ApplyDefaultSchemes(doc, "")
	return doc, nil
}

func decode(data []byte, source string) (*Document, error) {
	var doc Document
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, loadErr(source, "parse JSON", err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &doc); err != nil {
			return nil, loadErr(source, "parse YAML", err)
		}
	}

	v := strings.TrimSpace(doc.Swagger)
	if v == "" {
		return nil, loadErr(source, "missing swagger version", nil)
	}
	if major, _, _ := strings.Cut(v, "."); major != "2" {
		return nil, loadErr(source, fmt.Sprintf("unsupported swagger version %q", v), nil)
	}
	doc.Swagger = v
	if doc.Paths == nil {
		return nil, loadErr(source, "missing paths", nil)
	}
	return &doc, nil
}

func loadErr(source, msg string, cause error) error {
	return &swaggererrors.SchemaLoadError{Source: source, Message: msg, Cause: cause}
}
