package model

import (
	"strconv"

	"github.com/goliatone/go-formstate/pkg/values"
)

// Options configures the behaviour of the Builder. Options are constructed by
// the public adapter in pkg/model and passed into New.
type Options struct {
	Labeler func(string) string
}

// Builder normalises a FormModel into a Schema: labels are filled in, list
// item definitions are named, and the definition is checked for structural
// problems before any state is created from it.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := Options{Labeler: DefaultLabeler}
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	return &Builder{opts: opts}
}

// Build validates form and returns its Schema.
func (b *Builder) Build(form FormModel) (*Schema, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}

	out := form
	out.Fields = b.normaliseFields(form.Fields)
	if len(form.Metadata) > 0 {
		out.Metadata = make(map[string]string, len(form.Metadata))
		for k, v := range form.Metadata {
			out.Metadata[k] = v
		}
	}
	return &Schema{form: out}, nil
}

func (b *Builder) normaliseFields(fields []Field) []Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]Field, len(fields))
	for i, field := range fields {
		out[i] = b.normaliseField(field, "")
	}
	return out
}

func (b *Builder) normaliseField(field Field, parentLabel string) Field {
	if field.Label == "" {
		if _, isIndex := values.AsIndex(field.Name); isIndex && parentLabel != "" {
			idx, _ := strconv.Atoi(field.Name)
			field.Label = parentLabel + " " + strconv.Itoa(idx+1)
		} else {
			field.Label = b.opts.Labeler(field.Name)
		}
	}
	if len(field.Nested) > 0 {
		nested := make([]Field, len(field.Nested))
		for i, child := range field.Nested {
			nested[i] = b.normaliseField(child, field.Label)
		}
		field.Nested = nested
	}
	if field.Items != nil {
		item := *field.Items
		item.Name = values.ItemsSegment
		if item.Label == "" {
			item.Label = field.Label
		}
		item = b.normaliseField(item, field.Label)
		field.Items = &item
	}
	if len(field.Rules.Validators) > 0 {
		field.Rules.Validators = append([]Validator(nil), field.Rules.Validators...)
	}
	return field
}

// Schema is a validated, normalised form definition.
type Schema struct {
	form FormModel
}

// Model returns the normalised form definition.
func (s *Schema) Model() FormModel {
	if s == nil {
		return FormModel{}
	}
	return s.form
}

// Lookup resolves a concrete or template path to the field that declares it.
// List indices may be spelled as numbers or as "items".
func (s *Schema) Lookup(path string) (Field, string, bool) {
	if s == nil {
		return Field{}, "", false
	}
	segments := values.ParsePath(path)
	if len(segments) == 0 {
		return Field{}, "", false
	}

	var (
		current  Field
		template []string
		level    = s.form.Fields
		pending  *Field
	)
	for _, segment := range segments {
		if pending != nil {
			parent := *pending
			pending = nil
			switch {
			case parent.IsList():
				if _, ok := values.AsIndex(segment); !ok && segment != values.ItemsSegment {
					return Field{}, "", false
				}
				current = *parent.Items
				template = append(template, values.ItemsSegment)
			case parent.IsTuple():
				child, ok := findField(parent.Nested, segment)
				if !ok {
					return Field{}, "", false
				}
				current = child
				template = append(template, child.Name)
			}
		} else {
			child, ok := findField(level, segment)
			if !ok {
				return Field{}, "", false
			}
			current = child
			template = append(template, child.Name)
		}

		switch {
		case current.Type == FieldTypeArray:
			next := current
			pending = &next
			level = nil
		case current.Type == FieldTypeObject:
			level = current.Nested
		default:
			level = nil
		}
	}
	return current, joinSegments(template), true
}

// Leaves enumerates the value leaves of the form for the list lengths found
// in root, in declaration order. With a nil root every list contributes its
// item template once, addressed by its template path.
func (s *Schema) Leaves(root map[string]any) []Leaf {
	if s == nil {
		return nil
	}
	var out []Leaf
	for _, field := range s.form.Fields {
		walkField(field, field.Name, field.Name, root, func(path, template string, f Field) {
			if !f.IsGroup() {
				out = append(out, Leaf{Path: path, Template: template, Field: f})
			}
		})
	}
	return out
}

// Lists returns the concrete paths of every dynamic list present in root.
func (s *Schema) Lists(root map[string]any) []Leaf {
	if s == nil {
		return nil
	}
	var out []Leaf
	for _, field := range s.form.Fields {
		walkField(field, field.Name, field.Name, root, func(path, template string, f Field) {
			if f.IsList() {
				out = append(out, Leaf{Path: path, Template: template, Field: f})
			}
		})
	}
	return out
}

func walkField(field Field, path, template string, root map[string]any, visit func(path, template string, f Field)) {
	visit(path, template, field)
	switch {
	case field.Type == FieldTypeObject, field.IsTuple():
		for _, child := range field.Nested {
			walkField(child, values.Join(path, child.Name), values.Join(template, child.Name), root, visit)
		}
	case field.IsList():
		itemTemplate := values.Join(template, values.ItemsSegment)
		if root == nil {
			walkField(*field.Items, itemTemplate, itemTemplate, nil, visit)
			return
		}
		list, err := values.List(root, path)
		if err != nil {
			return
		}
		for idx := range list {
			walkField(*field.Items, values.Index(path, idx), itemTemplate, root, visit)
		}
	}
}

func findField(fields []Field, name string) (Field, bool) {
	for _, field := range fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func joinSegments(segments []string) string {
	out := ""
	for _, segment := range segments {
		out = values.Join(out, segment)
	}
	return out
}
