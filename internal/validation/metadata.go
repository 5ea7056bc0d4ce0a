// Package validation checks specification documents beyond what the reader
// enforces structurally: the metadata contract via JSON schema, and content
// rules for documents assembled programmatically.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-specdoc/document"
)

var ErrSchemaInvalid = errors.New("specdoc: metadata schema invalid")

// ValidationIssue captures a single metadata validation failure.
type ValidationIssue struct {
	Location string
	Message  string
}

// metadataSchema is the front matter contract: the five required keys, each
// a string with at least one non-space character. Extra keys are allowed.
var metadataSchema = map[string]any{
	"$schema":              "https://json-schema.org/draft/2020-12/schema",
	"type":                 "object",
	"additionalProperties": true,
	"properties": map[string]any{
		"title":         requiredStringSchema(),
		"doc_type":      requiredStringSchema(),
		"date_modified": requiredStringSchema(),
		"version":       requiredStringSchema(),
		"pdf_filename":  requiredStringSchema(),
	},
	"required": []any{"title", "doc_type", "date_modified", "version", "pdf_filename"},
}

func requiredStringSchema() map[string]any {
	return map[string]any{
		"type":      "string",
		"minLength": 1,
		"pattern":   `\S`,
	}
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiledMetadataSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiledSchema, compileErr = compileSchema(metadataSchema)
	})
	if compileErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, compileErr)
	}
	return compiledSchema, nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("metadata.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("metadata.json")
}

// MetadataIssues validates the raw front matter mapping against the metadata
// schema and returns one issue per violation. A non-nil error signals the
// schema itself failed to compile, not a payload problem.
func MetadataIssues(raw map[string]string) ([]ValidationIssue, error) {
	schema, err := compiledMetadataSchema()
	if err != nil {
		return nil, err
	}

	payload := make(map[string]any, len(raw))
	for key, value := range raw {
		payload[key] = value
	}

	if err := schema.Validate(payload); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return collectValidationIssues(validationErr), nil
		}
		return []ValidationIssue{{Message: err.Error()}}, nil
	}
	return nil, nil
}

// FormatIssues renders issues the way they read in parse failures:
// "#/title: minLength: must be >= 1; #/version: ...".
func FormatIssues(issues []ValidationIssue) string {
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

// MetadataError folds issues into the reader's failure taxonomy. Line points
// at the front matter block when the caller knows it, zero otherwise.
func MetadataError(issues []ValidationIssue, line int) error {
	if len(issues) == 0 {
		return nil
	}
	return document.NewParseError(document.ErrMalformedMetadata, line, "", FormatIssues(issues))
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
