package events

import (
	"embed"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/events.json
var schemaFS embed.FS

const catalogSchema = "events.json"

// compileSchemas compiles one validator per inbound event from the embedded
// catalog schema.
func compileSchemas() (map[Name]*jsonschema.Schema, error) {
	data, err := schemaFS.ReadFile("schemas/" + catalogSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded event schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(catalogSchema, strings.NewReader(string(data))); err != nil {
		return nil, fmt.Errorf("failed to add embedded event schema: %w", err)
	}

	compiled := make(map[Name]*jsonschema.Schema, len(catalog))
	byDef := make(map[string]*jsonschema.Schema)
	for name, s := range catalog {
		if schema, ok := byDef[s.def]; ok {
			compiled[name] = schema
			continue
		}
		url := s.def + ".json"
		wrapper := fmt.Sprintf(`{"$ref": "%s#/$defs/%s"}`, catalogSchema, s.def)
		if err := compiler.AddResource(url, strings.NewReader(wrapper)); err != nil {
			return nil, fmt.Errorf("failed to add schema for %s: %w", name, err)
		}
		schema, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema for %s: %w", name, err)
		}
		byDef[s.def] = schema
		compiled[name] = schema
	}
	return compiled, nil
}

// firstCause walks to the most specific validation failure.
func firstCause(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}
