package specs

import "embed"

// FS contains the Swagger 2.0 documents embedded into the binary. The CLI
// falls back to petstore.json when no --spec is given.
//
//go:embed *.json
var FS embed.FS
