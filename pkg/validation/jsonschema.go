package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-formstate/pkg/model"
)

const payloadSchemaURL = "payload.schema.json"

// SchemaIssue represents a payload conformance problem with its location.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SchemaValidationResult captures the outcome of a payload check.
type SchemaValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// Err converts the issues into an error, or nil when the payload conforms.
func (r SchemaValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	parts := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if issue.Field != "" {
			parts = append(parts, issue.Field+": "+issue.Message)
			continue
		}
		parts = append(parts, issue.Message)
	}
	return fmt.Errorf("%w: %s", ErrPayloadSchema, strings.Join(parts, "; "))
}

// ErrPayloadSchema is returned when a submission payload does not match the
// shape declared by its form model.
var ErrPayloadSchema = errors.New("validation: payload does not match schema")

// PayloadSchema describes the submission payload of schema as a Draft 2020-12
// JSON Schema. Leaves that may be disabled or are optional accept null, and
// required text leaves must be non-empty. Patterns are left to the rule
// engine.
func PayloadSchema(schema *model.Schema) map[string]any {
	form := schema.Model()
	doc := objectSchema(form.Fields, false)
	doc["$schema"] = "https://json-schema.org/draft/2020-12/schema"
	if form.Title != "" {
		doc["title"] = form.Title
	}
	return doc
}

// objectSchema describes fields. inherited is set when an enclosing group
// carries a disable condition, so every descendant may be pruned.
func objectSchema(fields []model.Field, inherited bool) map[string]any {
	properties := make(map[string]any, len(fields))
	var required []string
	for _, field := range fields {
		properties[field.Name] = fieldSchema(field, inherited)
		if !field.IsGroup() && field.Rules.IsRequired() && !mayBeDisabled(field, inherited) {
			required = append(required, field.Name)
		}
	}
	out := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func mayBeDisabled(field model.Field, inherited bool) bool {
	return inherited || !field.Rules.Disabled.IsZero()
}

func fieldSchema(field model.Field, inherited bool) map[string]any {
	disabled := mayBeDisabled(field, inherited)
	switch {
	case field.Type == model.FieldTypeObject:
		return objectSchema(field.Nested, disabled)
	case field.IsTuple():
		prefix := make([]any, len(field.Nested))
		for i, child := range field.Nested {
			prefix[i] = fieldSchema(child, disabled)
		}
		return map[string]any{
			"type":        "array",
			"prefixItems": prefix,
			"items":       false,
		}
	case field.IsList():
		return map[string]any{
			"type":  "array",
			"items": fieldSchema(*field.Items, disabled),
		}
	}

	nullable := !field.Rules.IsRequired() || disabled
	base := "string"
	out := map[string]any{}
	switch {
	case field.Type == model.FieldTypeBoolean:
		base = "boolean"
	case field.Type == model.FieldTypeInteger:
		base = "integer"
	case field.Coercion() == model.CoerceNumber:
		base = "number"
	case field.Coercion() == model.CoerceDate:
		out["format"] = "date-time"
	}
	if nullable {
		out["type"] = []any{base, "null"}
	} else {
		out["type"] = base
	}

	rules := field.Rules
	switch base {
	case "number", "integer":
		if rules.Min != nil {
			out["minimum"] = rules.Min.Value
		}
		if rules.Max != nil {
			out["maximum"] = rules.Max.Value
		}
	case "string":
		if _, isDate := out["format"]; isDate {
			break
		}
		if rules.IsRequired() {
			minimum := 1
			if rules.MinLength != nil && rules.MinLength.Value > minimum {
				minimum = rules.MinLength.Value
			}
			out["minLength"] = minimum
		}
		if rules.MaxLength != nil {
			out["maxLength"] = rules.MaxLength.Value
		}
	}
	return out
}

// PayloadChecker validates submission payloads against the schema generated
// for a form model.
type PayloadChecker struct {
	compiled *jsonschema.Schema
	document map[string]any
}

// NewPayloadChecker compiles the payload schema of schema.
func NewPayloadChecker(schema *model.Schema) (*PayloadChecker, error) {
	document := PayloadSchema(schema)
	raw, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("payload schema: marshal: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(payloadSchemaURL, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("payload schema: add resource: %w", err)
	}
	compiled, err := compiler.Compile(payloadSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("payload schema: compile: %w", err)
	}
	return &PayloadChecker{compiled: compiled, document: document}, nil
}

// Document returns the generated JSON Schema.
func (c *PayloadChecker) Document() map[string]any {
	return c.document
}

// Check validates payload. Values are normalised through encoding/json first
// so time.Time leaves are checked in their wire form.
func (c *PayloadChecker) Check(payload map[string]any) SchemaValidationResult {
	result := SchemaValidationResult{Valid: true}

	raw, err := json.Marshal(payload)
	if err != nil {
		result.Valid = false
		result.Issues = []SchemaIssue{{Message: fmt.Sprintf("payload cannot be encoded: %v", err)}}
		return result
	}
	var wire any
	if err := json.Unmarshal(raw, &wire); err != nil {
		result.Valid = false
		result.Issues = []SchemaIssue{{Message: fmt.Sprintf("payload cannot be decoded: %v", err)}}
		return result
	}

	if err := c.compiled.Validate(wire); err != nil {
		result.Valid = false
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			collectIssues(verr, &result)
		} else {
			result.Issues = append(result.Issues, SchemaIssue{Message: err.Error()})
		}
	}
	return result
}

func collectIssues(err *jsonschema.ValidationError, result *SchemaValidationResult) {
	if len(err.Causes) == 0 {
		result.Issues = append(result.Issues, SchemaIssue{
			Path:    err.InstanceLocation,
			Field:   fieldPathFromPointer(err.InstanceLocation),
			Message: strings.TrimSpace(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectIssues(cause, result)
	}
}

func fieldPathFromPointer(pointer string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(pointer), "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, "/")
	for i, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		parts[i] = strings.ReplaceAll(part, "~0", "~")
	}
	return strings.Join(parts, ".")
}
