package builtin

// NodeMetadata describes a node type.
type NodeMetadata struct {
	Type        string `json:"type" yaml:"type"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`

	// Inputs and Outputs are the default port names. Types with
	// configurable ports list the names used when a definition gives none.
	Inputs  []string `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`

	ConfigSchema map[string]any `json:"configSchema,omitempty" yaml:"configSchema,omitempty"`
	Examples     []Example      `json:"examples,omitempty" yaml:"examples,omitempty"`
	Since        string         `json:"since,omitempty" yaml:"since,omitempty"`
}

// Example shows how to use a node.
type Example struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Config      map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
	Input       map[string]any `json:"input,omitempty" yaml:"input,omitempty"`
	Output      map[string]any `json:"output,omitempty" yaml:"output,omitempty"`
}

// Node categories.
const (
	CategoryMath   = "math"
	CategoryCore   = "core"
	CategoryData   = "data"
	CategoryScript = "script"
)
