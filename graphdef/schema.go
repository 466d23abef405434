package graphdef

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/xeipuuv/gojsonschema"
)

// portsSchema accepts every shape understood by PortsMapping.
var portsSchema = map[string]any{
	"description": "Port mapping: a name, a list of names or a local-to-remote object",
	"oneOf": []any{
		map[string]any{"type": "string"},
		map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "string"}},
	},
}

var namesSchema = map[string]any{
	"type":        "array",
	"items":       map[string]any{"type": "string", "minLength": 1},
	"uniqueItems": true,
}

// Schema is the JSON schema of a graph definition document.
var Schema = map[string]any{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"$ref":    "#/definitions/graph",
	"definitions": map[string]any{
		"graph": map[string]any{
			"type":                 "object",
			"required":             []any{"name", "nodes"},
			"additionalProperties": false,
			"properties": map[string]any{
				"name":          map[string]any{"type": "string", "minLength": 1},
				"description":   map[string]any{"type": "string"},
				"version":       map[string]any{"type": "string"},
				"inputs":        namesSchema,
				"outputs":       namesSchema,
				"nodes":         map[string]any{"type": "array", "items": map[string]any{"$ref": "#/definitions/node"}},
				"links":         map[string]any{"type": "array", "items": map[string]any{"$ref": "#/definitions/link"}},
				"proxy_inputs":  map[string]any{"type": "array", "items": map[string]any{"$ref": "#/definitions/proxy"}},
				"proxy_outputs": map[string]any{"type": "array", "items": map[string]any{"$ref": "#/definitions/proxy"}},
				"values":        map[string]any{"type": "object"},
			},
		},
		"node": map[string]any{
			"type":                 "object",
			"required":             []any{"name", "type"},
			"additionalProperties": false,
			"properties": map[string]any{
				"name":        map[string]any{"type": "string", "minLength": 1},
				"type":        map[string]any{"type": "string", "minLength": 1},
				"description": map[string]any{"type": "string"},
				"inputs":      namesSchema,
				"outputs":     namesSchema,
				"config":      map[string]any{"type": "object"},
				"graph":       map[string]any{"$ref": "#/definitions/graph"},
			},
		},
		"link": map[string]any{
			"type":                 "object",
			"required":             []any{"from", "to"},
			"additionalProperties": false,
			"properties": map[string]any{
				"from":  map[string]any{"type": "string"},
				"to":    map[string]any{"type": "string"},
				"ports": portsSchema,
			},
		},
		"proxy": map[string]any{
			"type":                 "object",
			"required":             []any{"node"},
			"additionalProperties": false,
			"properties": map[string]any{
				"node":  map[string]any{"type": "string"},
				"ports": portsSchema,
			},
		},
	},
}

// ValidateSchema checks a parsed definition against Schema.
func (gd *GraphDefinition) ValidateSchema() error {
	return validate(gojsonschema.NewGoLoader(gd))
}

// ValidateDocument checks a raw YAML or JSON document against Schema. Unlike
// ValidateSchema it also reports unknown keys, which parsing drops.
func ValidateDocument(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: parse YAML: %w", ErrInvalidDefinition, err)
	}
	return validate(gojsonschema.NewGoLoader(doc))
}

func validate(document gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(Schema), document)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidDefinition, strings.Join(msgs, "; "))
	}
	return nil
}
