package cligen

import (
	"fmt"
	"strings"

	"github.com/tarrence/swagger-cli/swagger"
)

// ParseArgs turns name=value words into call arguments. A repeated name
// becomes a slice and is sent as repeated parameters. Reserved names
// (scheme, format, auth, body) are rejected: they have dedicated flags.
func ParseArgs(words []string) (swagger.Args, error) {
	args := swagger.Args{}
	for _, w := range words {
		name, value, ok := strings.Cut(w, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid argument %q (expected name=value)", w)
		}
		switch name {
		case swagger.ArgScheme, swagger.ArgFormat, swagger.ArgAuth, swagger.ArgBody:
			return nil, fmt.Errorf("argument %q is reserved; use --%s", name, flagFor(name))
		}

		switch prev := args[name].(type) {
		case nil:
			args[name] = value
		case string:
			args[name] = []string{prev, value}
		case []string:
			args[name] = append(prev, value)
		}
	}
	return args, nil
}

func flagFor(reserved string) string {
	if reserved == swagger.ArgBody {
		return "data"
	}
	return reserved
}
