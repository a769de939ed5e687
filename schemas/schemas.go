// Package schemas validates request bodies against the JSON schemas embedded under json/.
package schemas

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Name identifies a request schema. It matches the schema file name without ".json".
type Name string

const (
	Maximum Name = "maximum"
	Push    Name = "push"
)

const schemaDirectory = "json"

//go:embed json/*.json
var schemaFiles embed.FS

// Validator checks request bodies against a named schema.
type Validator interface {
	// Validate returns an error describing every schema violation in body, or nil if it conforms.
	Validate(name Name, body []byte) error
	// Schema returns the raw JSON schema registered under name.
	Schema(name Name) string
	// Names returns every registered schema name, sorted.
	Names() []Name
}

// NewValidator parses every embedded schema. It fails if any of them is not a valid JSON schema.
func NewValidator() (Validator, error) {
	entries, err := schemaFiles.ReadDir(schemaDirectory)
	if err != nil {
		return nil, fmt.Errorf("Failed to read directory %s: %v", schemaDirectory, err)
	}

	schemaContents := make(map[Name]string, len(entries))
	parsedSchemas := make(map[Name]*gojsonschema.Schema, len(entries))
	for _, entry := range entries {
		fileBytes, err := schemaFiles.ReadFile(path.Join(schemaDirectory, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("Failed to read file %s/%s: %v", schemaDirectory, entry.Name(), err)
		}

		loadedSchema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(fileBytes))
		if err != nil {
			return nil, fmt.Errorf("Failed to load json schema at %s/%s: %v", schemaDirectory, entry.Name(), err)
		}

		name := Name(strings.TrimSuffix(entry.Name(), ".json"))
		parsedSchemas[name] = loadedSchema
		schemaContents[name] = string(fileBytes)
	}

	return &requestValidator{
		schemaContents: schemaContents,
		parsedSchemas:  parsedSchemas,
	}, nil
}

type requestValidator struct {
	schemaContents map[Name]string
	parsedSchemas  map[Name]*gojsonschema.Schema
}

func (validator *requestValidator) Validate(name Name, body []byte) error {
	schema, ok := validator.parsedSchemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return err
	}
	if !result.Valid() {
		errBuilder := bytes.NewBuffer(make([]byte, 0, 300))
		for i, err := range result.Errors() {
			if i > 0 {
				errBuilder.WriteString("; ")
			}
			errBuilder.WriteString(err.String())
		}
		return errors.New(errBuilder.String())
	}
	return nil
}

func (validator *requestValidator) Schema(name Name) string {
	return validator.schemaContents[name]
}

func (validator *requestValidator) Names() []Name {
	names := make([]Name, 0, len(validator.schemaContents))
	for name := range validator.schemaContents {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
