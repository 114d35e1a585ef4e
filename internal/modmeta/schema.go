package modmeta

import (
	"bytes"
	"embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/*.schema.json
var schemaFS embed.FS

var (
	compiledSchemas map[string]*jsonschema.Schema
	compileOnce     sync.Once
	compileErr      error
)

// schemaFiles maps JSON descriptor formats to their embedded schema.
var schemaFiles = map[string]string{
	FormatFabric: "fabric.schema.json",
	FormatQuilt:  "quilt.schema.json",
}

// getSchema compiles the embedded schemas once and returns the one for format.
func getSchema(format string) (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		for _, name := range schemaFiles {
			raw, err := schemaFS.ReadFile("schema/" + name)
			if err != nil {
				compileErr = fmt.Errorf("reading schema %s: %w", name, err)
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
			if err != nil {
				compileErr = fmt.Errorf("unmarshaling schema %s: %w", name, err)
				return
			}
			if err := c.AddResource(name, doc); err != nil {
				compileErr = fmt.Errorf("adding schema resource %s: %w", name, err)
				return
			}
		}

		compiled := make(map[string]*jsonschema.Schema, len(schemaFiles))
		for format, name := range schemaFiles {
			s, err := c.Compile(name)
			if err != nil {
				compileErr = fmt.Errorf("compiling schema %s: %w", name, err)
				return
			}
			compiled[format] = s
		}
		compiledSchemas = compiled
	})
	if compileErr != nil {
		return nil, compileErr
	}
	s, ok := compiledSchemas[format]
	if !ok {
		return nil, fmt.Errorf("no schema for format %q", format)
	}
	return s, nil
}

// validateJSON checks raw descriptor bytes against the schema for format.
func validateJSON(format string, data []byte) error {
	s, err := getSchema(format)
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return s.Validate(inst)
}
