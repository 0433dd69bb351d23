package model

import internalmodel "github.com/goliatone/go-formstate/internal/model"

// Schema is a validated, normalised form definition.
type Schema = internalmodel.Schema

// Builder validates form definitions and turns them into schemas.
type Builder interface {
	Build(form FormModel) (*Schema, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler func(string) string
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	internalOpts := internalmodel.Options{}
	if cfg.labeler != nil {
		internalOpts.Labeler = cfg.labeler
	}

	return internalmodel.New(internalOpts)
}

// Build validates form with the default builder.
func Build(form FormModel) (*Schema, error) {
	return NewBuilder().Build(form)
}

// Validate reports the first structural problem in form: missing ids, bad
// field types, misplaced children, invalid rules or unknown metadata keys.
func Validate(form FormModel) error {
	return internalmodel.Validate(form)
}

// DefaultLabeler converts a field name into a human-friendly label.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}
