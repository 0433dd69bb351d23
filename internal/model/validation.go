package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	errFormIDMissing    = errors.New("model builder: form id is required")
	errFormFieldsEmpty  = errors.New("model builder: form declares no fields")
	errFieldNameMissing = errors.New("field name is required")
)

// Validate checks form without building it.
func Validate(form FormModel) error {
	return validateForm(form)
}

func validateForm(form FormModel) error {
	if strings.TrimSpace(form.ID) == "" {
		return errFormIDMissing
	}
	if len(form.Fields) == 0 {
		return errFormFieldsEmpty
	}
	if err := validateHints(form.Metadata, fmt.Sprintf("form %q", form.ID)); err != nil {
		return fmt.Errorf("model builder: %w", err)
	}
	if err := validateFields(form.Fields, ""); err != nil {
		return fmt.Errorf("model builder: %w", err)
	}
	return nil
}

func validateFields(fields []Field, prefix string) error {
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return fmt.Errorf("%s: %w", displayPath(prefix), errFieldNameMissing)
		}
		if strings.ContainsAny(name, ".[]/ ") {
			return fmt.Errorf("field %q: name may not contain path separators", joinPath(prefix, name))
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("field %q: declared twice", joinPath(prefix, name))
		}
		seen[name] = struct{}{}
		if err := validateField(field, joinPath(prefix, name)); err != nil {
			return err
		}
	}
	return nil
}

func validateField(field Field, path string) error {
	if err := validateHints(field.Metadata, fmt.Sprintf("field %q", path)); err != nil {
		return err
	}
	switch field.Type {
	case FieldTypeString, FieldTypeInteger, FieldTypeNumber, FieldTypeBoolean, FieldTypeDate:
		if len(field.Nested) > 0 || field.Items != nil {
			return fmt.Errorf("field %q: %s fields cannot declare children", path, field.Type)
		}
	case FieldTypeObject:
		if field.Items != nil {
			return fmt.Errorf("field %q: object fields use nested, not items", path)
		}
		return validateFields(field.Nested, path)
	case FieldTypeArray:
		return validateArray(field, path)
	case "":
		return fmt.Errorf("field %q: type is required", path)
	default:
		return fmt.Errorf("field %q: unsupported type %q", path, field.Type)
	}
	return validateRules(field.Rules, path)
}

func validateArray(field Field, path string) error {
	switch {
	case field.Items != nil && len(field.Nested) > 0:
		return fmt.Errorf("field %q: array declares both items and fixed positions", path)
	case field.Items == nil && len(field.Nested) == 0:
		return fmt.Errorf("field %q: array schema requires items", path)
	case field.Items != nil:
		if field.MinItems < 0 {
			return fmt.Errorf("field %q: minItems must not be negative", path)
		}
		item := *field.Items
		item.Name = "items"
		return validateField(item, joinPath(path, "items"))
	}
	for idx, child := range field.Nested {
		if child.Name != strconv.Itoa(idx) {
			return fmt.Errorf("field %q: fixed position %d must be named %q, got %q", path, idx, strconv.Itoa(idx), child.Name)
		}
		if err := validateField(child, joinPath(path, child.Name)); err != nil {
			return err
		}
	}
	return nil
}

func validateRules(rules Rules, path string) error {
	switch rules.Coerce {
	case CoerceAuto, CoerceNone, CoerceNumber, CoerceDate:
	default:
		return fmt.Errorf("field %q: unsupported coercion %q", path, rules.Coerce)
	}
	if rules.Pattern != nil {
		if strings.TrimSpace(rules.Pattern.Expr) == "" {
			return fmt.Errorf("field %q: pattern expression is empty", path)
		}
		if _, err := regexp.Compile(rules.Pattern.Source()); err != nil {
			return fmt.Errorf("field %q: invalid pattern: %w", path, err)
		}
	}
	if rules.MinLength != nil && rules.MaxLength != nil && rules.MinLength.Value > rules.MaxLength.Value {
		return fmt.Errorf("field %q: minLength exceeds maxLength", path)
	}
	if rules.Min != nil && rules.Max != nil && rules.Min.Value > rules.Max.Value {
		return fmt.Errorf("field %q: min exceeds max", path)
	}
	names := make(map[string]struct{}, len(rules.Validators))
	for _, v := range rules.Validators {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return fmt.Errorf("field %q: validator name is required", path)
		}
		if _, dup := names[name]; dup {
			return fmt.Errorf("field %q: validator %q declared twice", path, name)
		}
		names[name] = struct{}{}
		if v.Func == nil {
			return fmt.Errorf("field %q: validator %q has no implementation", path, name)
		}
	}
	return nil
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func displayPath(prefix string) string {
	if prefix == "" {
		return "form"
	}
	return fmt.Sprintf("field %q", prefix)
}
