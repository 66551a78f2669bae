package tools

import (
	"fmt"

	"github.com/clinicaproativa/agenda/internal/domain/clinicerr"
)

// Property describes one named argument of a tool.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Schema is the JSON-schema-shaped contract of a tool's arguments. Only the
// subset the agent needs is supported: flat objects with string/integer
// properties, required lists, and rejection of unknown keys.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// ObjectSchema builds an object schema over the given properties. Property
// types are fixed at registration, so an unsupported one is a programming
// error and panics rather than leaking into request validation.
func ObjectSchema(properties map[string]Property, required ...string) *Schema {
	for name, prop := range properties {
		switch prop.Type {
		case "string", "integer":
		default:
			panic(fmt.Sprintf("unsupported schema type %q for property %q", prop.Type, name))
		}
	}
	return &Schema{Type: "object", Properties: properties, Required: required}
}

// Validate checks args against the schema. Violations come back as
// clinicerr.ValidationError so the handler maps them to a client error.
func (s *Schema) Validate(args map[string]interface{}) error {
	for _, name := range s.Required {
		if _, ok := args[name]; !ok {
			return clinicerr.Validationf("missing required argument '%s'", name)
		}
	}
	for name, value := range args {
		prop, ok := s.Properties[name]
		if !ok {
			return clinicerr.Validationf("unknown argument '%s'", name)
		}
		if value == nil {
			continue
		}
		if err := checkType(name, prop.Type, value); err != nil {
			return err
		}
	}
	return nil
}

func checkType(name, wantType string, value interface{}) error {
	switch wantType {
	case "string":
		if _, ok := value.(string); !ok {
			return clinicerr.Validationf("argument '%s' must be a string", name)
		}
	case "integer":
		// JSON numbers decode as float64; accept only whole values.
		f, ok := value.(float64)
		if !ok {
			if _, isInt := value.(int); isInt {
				return nil
			}
			return clinicerr.Validationf("argument '%s' must be an integer", name)
		}
		if f != float64(int(f)) {
			return clinicerr.Validationf("argument '%s' must be an integer", name)
		}
	}
	return nil
}
