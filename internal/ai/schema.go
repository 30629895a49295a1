package ai

import "strings"

// Type is a primitive type of the structured-output contract.
type Type string

const (
	TypeObject  Type = "OBJECT"
	TypeString  Type = "STRING"
	TypeInteger Type = "INTEGER"
	TypeNumber  Type = "NUMBER"
	TypeBoolean Type = "BOOLEAN"
)

// Property is one named field of an object schema.
type Property struct {
	Name string
	Type Type
}

// Schema describes the JSON object a provider must answer with. Properties keep their
// declaration order so prompts and provider payloads list fields the same way every time.
type Schema struct {
	Type       Type
	Properties []Property
	Required   []string
}

// Lookup returns the declared type of name.
func (s *Schema) Lookup(name string) (Type, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Type, true
		}
	}
	return "", false
}

// OpenAPI renders the schema in the OpenAPI subset used by Gemini's responseSchema.
func (s *Schema) OpenAPI() map[string]any {
	props := make(map[string]any, len(s.Properties))
	order := make([]string, 0, len(s.Properties))
	for _, p := range s.Properties {
		props[p.Name] = map[string]any{"type": string(p.Type)}
		order = append(order, p.Name)
	}
	return map[string]any{
		"type":             string(s.Type),
		"properties":       props,
		"required":         s.Required,
		"propertyOrdering": order,
	}
}

// JSONSchema renders the schema as draft JSON Schema (lower-case type names).
func (s *Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Properties))
	for _, p := range s.Properties {
		props[p.Name] = map[string]any{"type": strings.ToLower(string(p.Type))}
	}
	return map[string]any{
		"type":                 strings.ToLower(string(s.Type)),
		"properties":           props,
		"required":             s.Required,
		"additionalProperties": false,
	}
}
