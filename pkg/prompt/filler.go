// Package prompt fills a form from the terminal. It plays the part of a
// rendering layer: every answer goes through the form's OnChange and OnBlur
// callbacks, dynamic lists grow through Append and the result is submitted
// like any other client would.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/values"
)

// Filler walks a form field by field, asking for each enabled value.
type Filler struct {
	driver       Driver
	outputFormat OutputFormat
	maxAttempts  int
	theme        Theme
}

// New constructs a Filler with defaults (survey driver, JSON output).
func New(options ...Option) *Filler {
	r := &Filler{
		driver:       NewSurveyDriver(os.Stderr),
		outputFormat: OutputFormatJSON,
		maxAttempts:  DefaultMaxAttempts,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// ContentType reports the serialization format used by Render.
func (r *Filler) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Fill prompts for every field of f and submits it. Disabled fields are
// skipped, re-evaluated as earlier answers come in. Validation failures at
// submit time are printed and reported through the result.
func (r *Filler) Fill(ctx context.Context, f *form.Form) (form.Result, error) {
	if ctx == nil {
		return form.Result{}, errors.New("prompt: context is required")
	}
	if f == nil {
		return form.Result{}, errors.New("prompt: form is nil")
	}
	for _, field := range f.Schema().Model().Fields {
		if err := r.promptField(ctx, f, field, field.Name); err != nil {
			return form.Result{}, err
		}
	}
	onValid := func(ctx context.Context, _ map[string]any) error {
		if msg := f.Schema().Model().Hint(model.HintSuccessMessage); msg != "" {
			return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
		}
		return nil
	}
	return f.Submit(ctx, onValid, func(ctx context.Context, errs validation.Errors) {
		for _, path := range errs.Paths() {
			_ = r.driver.Info(ctx, r.theme.ErrorPrefix+errs[path].Error())
		}
	})
}

// Render fills f and serializes the accepted payload.
func (r *Filler) Render(ctx context.Context, f *form.Form) ([]byte, error) {
	result, err := r.Fill(ctx, f)
	if err != nil {
		return nil, err
	}
	if !result.Valid() {
		return nil, fmt.Errorf("prompt: form is invalid: %w", result.Errors.Err())
	}
	return Serialize(result.Payload, r.outputFormat)
}

func (r *Filler) promptField(ctx context.Context, f *form.Form, field model.Field, path string) error {
	switch {
	case field.Type == model.FieldTypeObject, field.IsTuple():
		for _, child := range field.Nested {
			if err := r.promptField(ctx, f, child, values.Join(path, child.Name)); err != nil {
				return err
			}
		}
		return nil
	case field.IsList():
		return r.promptList(ctx, f, field, path)
	case field.Type == model.FieldTypeBoolean:
		return r.promptBoolean(ctx, f, field, path)
	default:
		return r.promptText(ctx, f, field, path)
	}
}

func (r *Filler) promptText(ctx context.Context, f *form.Form, field model.Field, path string) error {
	label := displayLabel(field)
	if f.Disabled(path) {
		return r.skip(ctx, label)
	}
	for attempt := 1; ; attempt++ {
		current, _ := f.GetValue(path)
		input, err := r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: formatValue(current),
			Help:    helpText(field),
		})
		if err != nil {
			return err
		}
		if err := f.OnChange(path, input); err != nil {
			return err
		}
		ok, err := r.settle(ctx, f, label, path)
		if err != nil || ok {
			return err
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, path)
		}
	}
}

func (r *Filler) promptBoolean(ctx context.Context, f *form.Form, field model.Field, path string) error {
	label := displayLabel(field)
	if f.Disabled(path) {
		return r.skip(ctx, label)
	}
	current, _ := f.GetValue(path)
	def, _ := current.(bool)
	answer, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: def, Help: helpText(field)})
	if err != nil {
		return err
	}
	if err := f.OnChange(path, answer); err != nil {
		return err
	}
	_, err = r.settle(ctx, f, label, path)
	return err
}

// settle blurs and validates the field, printing its error if any.
func (r *Filler) settle(ctx context.Context, f *form.Form, label, path string) (bool, error) {
	if err := f.OnBlur(path); err != nil {
		return false, err
	}
	valid, err := f.Trigger(path)
	if err != nil || valid {
		return valid, err
	}
	msg := f.Errors().Message(path)
	_ = r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %s", r.theme.ErrorPrefix, label, msg))
	return false, nil
}

func (r *Filler) promptList(ctx context.Context, f *form.Form, field model.Field, path string) error {
	items, err := f.Fields(path)
	if err != nil {
		return err
	}
	count := len(items)
	for idx := 0; idx < count; idx++ {
		if err := r.promptField(ctx, f, *field.Items, values.Index(path, idx)); err != nil {
			return err
		}
	}
	for {
		more, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Add another %s?", repeaterLabel(field)),
			Default: false,
		})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		if err := f.Append(path, nil); err != nil {
			return err
		}
		if err := r.promptField(ctx, f, *field.Items, values.Index(path, count)); err != nil {
			return err
		}
		count++
	}
}

func (r *Filler) skip(ctx context.Context, label string) error {
	return r.driver.Info(ctx, fmt.Sprintf("%s%s is disabled, skipping", r.theme.InfoPrefix, label))
}

func displayLabel(field model.Field) string {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	if unit := field.Hint(model.HintUnit); unit != "" {
		label += " (" + unit + ")"
	}
	return label
}

func repeaterLabel(field model.Field) string {
	if label := field.Hint(model.HintRepeaterLabel); label != "" {
		return label
	}
	return displayLabel(field)
}

func helpText(field model.Field) string {
	if help := field.Hint(model.HintHelpText); help != "" {
		return help
	}
	return field.Description
}

func formatValue(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case time.Time:
		if typed.IsZero() {
			return ""
		}
		return typed.Format("2006-01-02")
	default:
		return fmt.Sprint(typed)
	}
}
