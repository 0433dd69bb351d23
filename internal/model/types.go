package model

import "strings"

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeDate    FieldType = "date"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

// Coercion selects how raw text input is converted before validation.
type Coercion string

const (
	// CoerceAuto derives the coercion from the field type.
	CoerceAuto   Coercion = ""
	CoerceNone   Coercion = "none"
	CoerceNumber Coercion = "number"
	CoerceDate   Coercion = "date"
)

// Required marks a field as mandatory. Message is reported when the value is
// empty after coercion.
type Required struct {
	Value   bool   `json:"value" yaml:"value"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Length bounds the length of a text value.
type Length struct {
	Value   int    `json:"value" yaml:"value"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Bound limits a numeric value (inclusive).
type Bound struct {
	Value   float64 `json:"value" yaml:"value"`
	Message string  `json:"message,omitempty" yaml:"message,omitempty"`
}

// Pattern constrains text values with a regular expression. Flags accepts
// "i" for case-insensitive matching; other letters are ignored.
type Pattern struct {
	Expr    string `json:"expr" yaml:"expr"`
	Flags   string `json:"flags,omitempty" yaml:"flags,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Source returns the expression with inline flags applied.
func (p Pattern) Source() string {
	if strings.ContainsAny(p.Flags, "iI") {
		return "(?i)" + p.Expr
	}
	return p.Expr
}

// ValidateFunc checks a coerced value. Returning nil passes; a non-nil error
// fails the field with err.Error() as its message. form holds the coerced
// values of every field.
type ValidateFunc func(value any, form map[string]any) error

// Validator is a named custom check. Validators run in declaration order and
// the first failure wins.
type Validator struct {
	Name   string            `json:"name" yaml:"name"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Func   ValidateFunc      `json:"-" yaml:"-"`
}

// Condition describes when a field is disabled. Static disables the field
// unconditionally; When holds a boolean expression over the other field
// values (for example `channel == ""`) that is re-evaluated whenever one of
// the fields it references changes.
type Condition struct {
	Static bool   `json:"static,omitempty" yaml:"static,omitempty"`
	When   string `json:"when,omitempty" yaml:"when,omitempty"`
}

// Always returns a condition that disables the field unconditionally.
func Always() Condition { return Condition{Static: true} }

// When returns a condition backed by a predicate expression.
func When(expr string) Condition { return Condition{When: strings.TrimSpace(expr)} }

// IsZero reports whether the condition never disables the field.
func (c Condition) IsZero() bool { return !c.Static && strings.TrimSpace(c.When) == "" }

// Rules is the per-field rule set.
type Rules struct {
	Required      *Required   `json:"required,omitempty" yaml:"required,omitempty"`
	MinLength     *Length     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength     *Length     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Min           *Bound      `json:"min,omitempty" yaml:"min,omitempty"`
	Max           *Bound      `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern       *Pattern    `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Validators    []Validator `json:"validators,omitempty" yaml:"validators,omitempty"`
	Disabled      Condition   `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Coerce        Coercion    `json:"coerce,omitempty" yaml:"coerce,omitempty"`
	CoerceMessage string      `json:"coerceMessage,omitempty" yaml:"coerceMessage,omitempty"`
	Sanitize      bool        `json:"sanitize,omitempty" yaml:"sanitize,omitempty"`
}

// IsRequired reports whether the required rule is active.
func (r Rules) IsRequired() bool {
	return r.Required != nil && r.Required.Value
}

// Field models an individual input or group inside a form.
//
// Object fields list their children in Nested. Array fields come in two
// shapes: fixed-size tuples list one child per position in Nested (named
// "0", "1", ...), while dynamic lists describe their element in Items and
// may declare MinItems, a UI contract that the data layer does not enforce.
type Field struct {
	Name        string            `json:"name" yaml:"name"`
	Type        FieldType         `json:"type" yaml:"type"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any               `json:"default,omitempty" yaml:"default,omitempty"`
	DefaultNow  bool              `json:"defaultNow,omitempty" yaml:"defaultNow,omitempty"`
	Nested      []Field           `json:"nested,omitempty" yaml:"nested,omitempty"`
	Items       *Field            `json:"items,omitempty" yaml:"items,omitempty"`
	MinItems    int               `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	Rules       Rules             `json:"rules,omitempty" yaml:"rules,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// IsGroup reports whether the field holds children rather than a value.
func (f Field) IsGroup() bool {
	return f.Type == FieldTypeObject || f.Type == FieldTypeArray
}

// IsList reports whether the field is a dynamically sized list.
func (f Field) IsList() bool {
	return f.Type == FieldTypeArray && f.Items != nil
}

// IsTuple reports whether the field is a fixed-size positional list.
func (f Field) IsTuple() bool {
	return f.Type == FieldTypeArray && f.Items == nil
}

// Coercion resolves the effective coercion for the field.
func (f Field) Coercion() Coercion {
	if f.Rules.Coerce != CoerceAuto {
		return f.Rules.Coerce
	}
	switch f.Type {
	case FieldTypeNumber, FieldTypeInteger:
		return CoerceNumber
	case FieldTypeDate:
		return CoerceDate
	default:
		return CoerceNone
	}
}

// FormModel is the top-level form definition.
type FormModel struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field           `json:"fields" yaml:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Leaf pairs a concrete value path with the field that governs it.
type Leaf struct {
	Path     string
	Template string
	Field    Field
}
