package form

import (
	"log/slog"
	"time"

	"github.com/goliatone/go-formstate/pkg/condition"
	"github.com/goliatone/go-formstate/pkg/defaults"
)

// Mode selects when field validation runs outside of submission.
type Mode string

const (
	// ModeOnSubmit validates only when the form is submitted.
	ModeOnSubmit Mode = "onSubmit"
	// ModeOnBlur validates a field when it loses focus.
	ModeOnBlur Mode = "onBlur"
	// ModeOnChange validates a field on every change.
	ModeOnChange Mode = "onChange"
	// ModeOnTouched validates on the first blur, then on every change.
	ModeOnTouched Mode = "onTouched"
	// ModeAll validates on both blur and change.
	ModeAll Mode = "all"
)

// Option configures a Form.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	mode          Mode
	reValidate    Mode
	source        defaults.Source
	values        map[string]any
	evaluator     condition.Evaluator
	extras        map[string]any
	payloadSchema bool
	now           func() time.Time
	keyFunc       func() string
}

func defaultOptions() options {
	return options{
		mode:       ModeOnSubmit,
		reValidate: ModeOnChange,
		now:        time.Now,
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMode sets the validation strategy before the first submission.
func WithMode(mode Mode) Option {
	return func(o *options) {
		if mode != "" {
			o.mode = mode
		}
	}
}

// WithReValidateMode sets the validation strategy after the first submission.
// ModeOnTouched is treated as ModeOnChange here since every field has been
// validated by then.
func WithReValidateMode(mode Mode) Option {
	return func(o *options) {
		if mode != "" {
			o.reValidate = mode
		}
	}
}

// WithDefaultsSource registers a source fetched once while the form is
// created. A failed fetch is logged and the static defaults are kept.
func WithDefaultsSource(src defaults.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// WithDefaultValues overlays values onto the defaults declared by the model.
func WithDefaultValues(values map[string]any) Option {
	return func(o *options) {
		o.values = values
	}
}

// WithEvaluator replaces the expr-based evaluator for disable conditions.
func WithEvaluator(evaluator condition.Evaluator) Option {
	return func(o *options) {
		o.evaluator = evaluator
	}
}

// WithExtras exposes additional context to disable conditions as `extras`.
func WithExtras(extras map[string]any) Option {
	return func(o *options) {
		o.extras = extras
	}
}

// WithPayloadSchemaCheck validates every successful payload against the JSON
// Schema generated from the model before the success handler runs.
func WithPayloadSchemaCheck(enabled bool) Option {
	return func(o *options) {
		o.payloadSchema = enabled
	}
}

// WithClock overrides the clock used for "today" defaults.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithKeyFunc overrides the generator of list item keys.
func WithKeyFunc(fn func() string) Option {
	return func(o *options) {
		o.keyFunc = fn
	}
}

// ParseMode maps a mode name to a Mode. Unknown names report false.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeOnSubmit, ModeOnBlur, ModeOnChange, ModeOnTouched, ModeAll:
		return Mode(s), true
	}
	return ModeOnSubmit, false
}
