package openapi

// Document is the Swagger 2.0 model the client needs to dispatch calls.
// Unknown fields are ignored. A Document is built once by Load and never
// written afterwards.
type Document struct {
	Swagger  string `json:"swagger" yaml:"swagger"`
	Info     Info   `json:"info" yaml:"info"`
	Host     string `json:"host,omitempty" yaml:"host,omitempty"`
	BasePath string `json:"basePath,omitempty" yaml:"basePath,omitempty"`

	// Schemes holds the declared transport labels, or DefaultSchemes when
	// the document omits the field.
	Schemes  []string `json:"schemes,omitempty" yaml:"schemes,omitempty"`
	Consumes []string `json:"consumes,omitempty" yaml:"consumes,omitempty"`
	Produces []string `json:"produces,omitempty" yaml:"produces,omitempty"`

	SecurityDefinitions map[string]SecurityDefinition `json:"securityDefinitions,omitempty" yaml:"securityDefinitions,omitempty"`
	Security            []SecurityRequirement         `json:"security,omitempty" yaml:"security,omitempty"`

	Tags []Tag `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Paths keys are exact templates such as "/pet/{petId}"; lookups are verbatim.
	Paths map[string]PathItem `json:"paths" yaml:"paths"`
}

type Info struct {
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

type Tag struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type PathItem struct {
	Get     *Operation `json:"get,omitempty" yaml:"get,omitempty"`
	Put     *Operation `json:"put,omitempty" yaml:"put,omitempty"`
	Post    *Operation `json:"post,omitempty" yaml:"post,omitempty"`
	Delete  *Operation `json:"delete,omitempty" yaml:"delete,omitempty"`
	Options *Operation `json:"options,omitempty" yaml:"options,omitempty"`
	Head    *Operation `json:"head,omitempty" yaml:"head,omitempty"`
	Patch   *Operation `json:"patch,omitempty" yaml:"patch,omitempty"`

	// Parameters apply to every operation under the path.
	Parameters []Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

type Operation struct {
	OperationID string   `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Summary     string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`

	// Consumes and Produces override the document defaults when non-nil.
	Consumes []string `json:"consumes,omitempty" yaml:"consumes,omitempty"`
	Produces []string `json:"produces,omitempty" yaml:"produces,omitempty"`

	Parameters []Parameter           `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Responses  map[string]Response   `json:"responses,omitempty" yaml:"responses,omitempty"`
	Security   []SecurityRequirement `json:"security,omitempty" yaml:"security,omitempty"`
}

type Parameter struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	In          string `json:"in,omitempty" yaml:"in,omitempty"` // path, query, header, formData, body
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
}

type Response struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// SecurityDefinition is one entry of securityDefinitions. Only apiKey and
// basic can carry a caller credential; other types are kept for listing.
type SecurityDefinition struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	In          string `json:"in,omitempty" yaml:"in,omitempty"`
}

// SecurityRequirement maps definition names to scopes. All names in one
// requirement apply together; a list of requirements is alternatives.
type SecurityRequirement map[string][]string
