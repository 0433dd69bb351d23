package model

import internalmodel "github.com/goliatone/go-formstate/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeString  = internalmodel.FieldTypeString
	FieldTypeInteger = internalmodel.FieldTypeInteger
	FieldTypeNumber  = internalmodel.FieldTypeNumber
	FieldTypeBoolean = internalmodel.FieldTypeBoolean
	FieldTypeDate    = internalmodel.FieldTypeDate
	FieldTypeArray   = internalmodel.FieldTypeArray
	FieldTypeObject  = internalmodel.FieldTypeObject
)

// Coercion re-exports the internal Coercion enumeration.
type Coercion = internalmodel.Coercion

const (
	CoerceAuto   = internalmodel.CoerceAuto
	CoerceNone   = internalmodel.CoerceNone
	CoerceNumber = internalmodel.CoerceNumber
	CoerceDate   = internalmodel.CoerceDate
)

type Required = internalmodel.Required
type Length = internalmodel.Length
type Bound = internalmodel.Bound
type Pattern = internalmodel.Pattern
type ValidateFunc = internalmodel.ValidateFunc
type Validator = internalmodel.Validator
type Condition = internalmodel.Condition
type Rules = internalmodel.Rules
type Field = internalmodel.Field
type FormModel = internalmodel.FormModel
type Leaf = internalmodel.Leaf

// Always returns a condition that always disables the field.
func Always() Condition { return internalmodel.Always() }

// When returns a condition that disables the field while expr holds.
func When(expr string) Condition { return internalmodel.When(expr) }

// Require is shorthand for an active required rule with message.
func Require(message string) *Required {
	return &Required{Value: true, Message: message}
}
