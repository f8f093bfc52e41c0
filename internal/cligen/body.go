package cligen

import (
	"io"
	"os"
	"strings"
)

// ReadDataArg resolves a --data value: "-" reads stdin, "@path" reads a
// file, anything else is the body itself.
func ReadDataArg(arg string, stdin io.Reader) ([]byte, error) {
	arg = strings.TrimSpace(arg)
	switch {
	case arg == "-":
		if stdin == nil {
			stdin = os.Stdin
		}
		return io.ReadAll(stdin)
	case strings.HasPrefix(arg, "@"):
		return os.ReadFile(strings.TrimPrefix(arg, "@"))
	default:
		return []byte(arg), nil
	}
}
