package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-formstate/pkg/coerce"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/values"
)

var patternCache sync.Map // map[string]*regexp.Regexp

// Coerce converts raw into the value stored for field. Text values are
// sanitised first when the field asks for it. A failed conversion returns a
// KindCoercion error carrying the raw input.
func Coerce(path string, field model.Field, raw any) (any, *FieldError) {
	if field.Rules.Sanitize {
		raw = coerce.Sanitize(raw)
	}
	kind := field.Coercion()
	value, err := coerce.Apply(kind, raw)
	if err != nil {
		return raw, &FieldError{
			Path:    path,
			Kind:    KindCoercion,
			Message: coercionMessage(field, kind),
			Raw:     raw,
		}
	}
	return value, nil
}

// Evaluate coerces raw and runs the field's rules against the result. The
// returned value is the coerced one, or raw when coercion failed. Disabled
// handling is the caller's concern: disabled fields must not be evaluated.
func Evaluate(path string, field model.Field, raw any, form map[string]any) (any, *FieldError) {
	value, ferr := Coerce(path, field, raw)
	if ferr != nil {
		return value, ferr
	}
	return value, Check(path, field, value, form)
}

// Check runs the rule chain against an already coerced value. Evaluation stops
// at the first failure: required, then bounds and lengths, then pattern, then
// custom validators in declaration order. Empty values skip bounds, lengths
// and pattern; custom validators still see them.
func Check(path string, field model.Field, value any, form map[string]any) *FieldError {
	rules := field.Rules

	if values.IsEmpty(value) {
		if rules.IsRequired() {
			return &FieldError{Path: path, Kind: KindRequired, Message: requiredMessage(field)}
		}
	} else {
		if ferr := checkBounds(path, field, value); ferr != nil {
			return ferr
		}
		if ferr := checkLength(path, field, value); ferr != nil {
			return ferr
		}
		if ferr := checkPattern(path, field, value); ferr != nil {
			return ferr
		}
	}

	for _, v := range rules.Validators {
		if v.Func == nil {
			continue
		}
		if err := v.Func(value, form); err != nil {
			msg := err.Error()
			if msg == "" {
				msg = label(field) + " is invalid"
			}
			return &FieldError{Path: path, Kind: KindCustom, Message: msg, Validator: v.Name}
		}
	}
	return nil
}

func checkBounds(path string, field model.Field, value any) *FieldError {
	number, ok := value.(float64)
	if !ok {
		return nil
	}
	if lower := field.Rules.Min; lower != nil && number < lower.Value {
		return &FieldError{Path: path, Kind: KindRange, Message: orDefault(lower.Message,
			fmt.Sprintf("%s must be at least %s", label(field), formatNumber(lower.Value)))}
	}
	if upper := field.Rules.Max; upper != nil && number > upper.Value {
		return &FieldError{Path: path, Kind: KindRange, Message: orDefault(upper.Message,
			fmt.Sprintf("%s must be at most %s", label(field), formatNumber(upper.Value)))}
	}
	return nil
}

func checkLength(path string, field model.Field, value any) *FieldError {
	text, ok := value.(string)
	if !ok {
		return nil
	}
	count := utf8.RuneCountInString(text)
	if lower := field.Rules.MinLength; lower != nil && count < lower.Value {
		return &FieldError{Path: path, Kind: KindLength, Message: orDefault(lower.Message,
			fmt.Sprintf("%s must be at least %d characters", label(field), lower.Value))}
	}
	if upper := field.Rules.MaxLength; upper != nil && count > upper.Value {
		return &FieldError{Path: path, Kind: KindLength, Message: orDefault(upper.Message,
			fmt.Sprintf("%s must be at most %d characters", label(field), upper.Value))}
	}
	return nil
}

func checkPattern(path string, field model.Field, value any) *FieldError {
	pattern := field.Rules.Pattern
	if pattern == nil {
		return nil
	}
	text, ok := value.(string)
	if !ok {
		return nil
	}
	re, err := compilePattern(pattern.Source())
	if err != nil {
		return &FieldError{Path: path, Kind: KindPattern, Message: err.Error()}
	}
	if re.MatchString(text) {
		return nil
	}
	return &FieldError{Path: path, Kind: KindPattern, Message: orDefault(pattern.Message, label(field)+" is invalid")}
}

func compilePattern(source string) (*regexp.Regexp, error) {
	if cached, ok := patternCache.Load(source); ok {
		return cached.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", source, err)
	}
	patternCache.Store(source, re)
	return re, nil
}

func requiredMessage(field model.Field) string {
	if field.Rules.Required != nil && field.Rules.Required.Message != "" {
		return field.Rules.Required.Message
	}
	return label(field) + " is required"
}

func coercionMessage(field model.Field, kind model.Coercion) string {
	if field.Rules.CoerceMessage != "" {
		return field.Rules.CoerceMessage
	}
	switch kind {
	case model.CoerceDate:
		return label(field) + " must be a valid date"
	default:
		return label(field) + " must be a number"
	}
}

func label(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func orDefault(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// AsFieldError extracts the *FieldError wrapped in err, if any.
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
