package api

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// schemaReflector inlines all definitions; vendors reject $ref in tool schemas.
var schemaReflector = &jsonschema.Reflector{
	DoNotReference: true,
}

// NewToolSpec builds a ToolSpec whose Parameters schema is derived from the
// struct type T. Fields use the usual json and jsonschema tags:
//
//	type addArgs struct {
//	    A int `json:"a" jsonschema:"required,description=First operand"`
//	    B int `json:"b" jsonschema:"required"`
//	}
//
//	spec, err := api.NewToolSpec[addArgs]("add", "Add two integers")
func NewToolSpec[T any](name, description string) (ToolSpec, error) {
	var zero T
	schema := schemaReflector.Reflect(&zero)
	// The draft URI is noise for vendors and some reject unknown keywords.
	schema.Version = ""

	params, err := json.Marshal(schema)
	if err != nil {
		return ToolSpec{}, fmt.Errorf("generating schema for tool %q: %w", name, err)
	}

	return ToolSpec{
		Name:        name,
		Description: description,
		Parameters:  params,
	}, nil
}

// MustToolSpec is like NewToolSpec but panics on error. Useful for
// package-level tool definitions.
func MustToolSpec[T any](name, description string) ToolSpec {
	spec, err := NewToolSpec[T](name, description)
	if err != nil {
		panic(err)
	}
	return spec
}
