package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"
)

type PrinterOptions struct {
	ForcePretty  bool
	ForceCompact bool

	PrintStatus  bool
	PrintHeaders bool

	// Redact lists extra response header names whose values are hidden,
	// typically the document's apiKey headers.
	Redact []string
}

type Printer struct {
	out io.Writer
	err io.Writer

	pretty bool

	printStatus  bool
	printHeaders bool

	redact map[string]bool
}

func NewPrinter(out io.Writer, err io.Writer, opts PrinterOptions) *Printer {
	pretty := false
	if opts.ForcePretty {
		pretty = true
	} else if opts.ForceCompact {
		pretty = false
	} else {
		// auto
		if f, ok := out.(*os.File); ok {
			pretty = term.IsTerminal(int(f.Fd()))
		}
	}

	redact := map[string]bool{
		"authorization":       true,
		"proxy-authorization": true,
		"set-cookie":          true,
	}
	for _, h := range opts.Redact {
		redact[strings.ToLower(h)] = true
	}

	return &Printer{
		out: out,
		err: err,

		pretty: pretty,

		printStatus:  opts.PrintStatus,
		printHeaders: opts.PrintHeaders,

		redact: redact,
	}
}

func (p *Printer) Out() io.Writer { return p.out }
func (p *Printer) Err() io.Writer { return p.err }

// AddRedacted hides more header names, e.g. once the document is loaded.
func (p *Printer) AddRedacted(names ...string) {
	for _, h := range names {
		p.redact[strings.ToLower(h)] = true
	}
}

func (p *Printer) PrintHTTP(status int, headers http.Header, body []byte) error {
	if p.printStatus {
		if _, err := fmt.Fprintf(p.err, "%d\n", status); err != nil {
			return err
		}
	}
	if p.printHeaders {
		if err := p.writeHeaders(headers); err != nil {
			return err
		}
	}

	return p.printBodyTo(p.out, body)
}

func (p *Printer) PrintBody(body []byte) error {
	return p.printBodyTo(p.out, body)
}

// PrintHTTPError writes a failed call to stderr. reason is the classified
// reason (the document's response description when declared).
func (p *Printer) PrintHTTPError(status int, reason string, headers http.Header, body []byte) error {
	// Always print a status line for non-2xx responses.
	if reason == "" {
		reason = http.StatusText(status)
	}
	line := fmt.Sprintf("HTTP %d", status)
	if reason != "" {
		line += " " + reason
	}
	if _, err := fmt.Fprintln(p.err, line); err != nil {
		return err
	}

	if p.printHeaders {
		if err := p.writeHeaders(headers); err != nil {
			return err
		}
	}
	return p.printBodyTo(p.err, body)
}

func (p *Printer) writeHeaders(headers http.Header) error {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		printVal := strings.Join(headers[k], ", ")
		if p.redact[strings.ToLower(k)] {
			printVal = "<redacted>"
		}
		if _, err := fmt.Fprintf(p.err, "%s: %s\n", k, printVal); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printBodyTo(w io.Writer, body []byte) error {
	if len(body) == 0 {
		return nil
	}

	out := body
	if p.pretty && json.Valid(body) {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err == nil {
			out = buf.Bytes()
		}
	}

	if _, err := w.Write(out); err != nil {
		return err
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		_, _ = w.Write([]byte("\n"))
	}
	return nil
}
