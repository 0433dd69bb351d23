package model

// Decorator enriches a form definition before it is built, for example by
// attaching validator implementations to validators declared by name.
type Decorator interface {
	Decorate(*FormModel) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormModel) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(form *FormModel) error {
	return fn(form)
}

// Apply runs decorators in order, stopping at the first error.
func Apply(form *FormModel, decorators ...Decorator) error {
	for _, decorator := range decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(form); err != nil {
			return err
		}
	}
	return nil
}

// WalkFields visits every field definition depth-first, including list item
// definitions, passing the template path of each.
func WalkFields(form *FormModel, visit func(path string, field *Field) error) error {
	if form == nil {
		return nil
	}
	for i := range form.Fields {
		if err := walkDefinition(form.Fields[i].Name, &form.Fields[i], visit); err != nil {
			return err
		}
	}
	return nil
}

func walkDefinition(path string, field *Field, visit func(string, *Field) error) error {
	if err := visit(path, field); err != nil {
		return err
	}
	for i := range field.Nested {
		child := &field.Nested[i]
		if err := walkDefinition(path+"."+child.Name, child, visit); err != nil {
			return err
		}
	}
	if field.Items != nil {
		if err := walkDefinition(path+".items", field.Items, visit); err != nil {
			return err
		}
	}
	return nil
}
