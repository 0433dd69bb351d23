package coerce

import (
	"errors"
	"fmt"
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formstate/pkg/model"
)

var (
	// ErrNotNumber is returned when text cannot be read as a base-10 number.
	ErrNotNumber = errors.New("coerce: not a number")
	// ErrNotDate is returned when text cannot be read as a calendar date.
	ErrNotDate = errors.New("coerce: not a date")
)

// DateLayouts lists the accepted date spellings, tried in order. The first
// matches HTML date inputs.
var DateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// decimalPattern admits plain base-10 notation only: no hex, no NaN, no Inf.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var strictPolicy = bluemonday.StrictPolicy()

// Apply converts raw according to kind. Empty text becomes nil so required
// checks see it as missing. Values that already have the target type pass
// through unchanged.
func Apply(kind model.Coercion, raw any) (any, error) {
	switch kind {
	case model.CoerceNumber:
		return Number(raw)
	case model.CoerceDate:
		return Date(raw)
	default:
		return raw, nil
	}
}

// Number reads raw as a float64.
func Number(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %v", ErrNotNumber, v)
		}
		return v, nil
	case float32:
		return Number(float64(v))
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return nil, nil
		}
		if !decimalPattern.MatchString(text) {
			return nil, fmt.Errorf("%w: %q", ErrNotNumber, v)
		}
		out, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsInf(out, 0) {
			return nil, fmt.Errorf("%w: %q", ErrNotNumber, v)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported %T", ErrNotNumber, raw)
	}
}

// Date reads raw as a time.Time. Date-only input resolves to midnight UTC.
func Date(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case time.Time:
		if v.IsZero() {
			return nil, nil
		}
		return v, nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return Date(*v)
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return nil, nil
		}
		for _, layout := range DateLayouts {
			if parsed, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
				return parsed, nil
			}
		}
		return nil, fmt.Errorf("%w: %q", ErrNotDate, v)
	default:
		return nil, fmt.Errorf("%w: unsupported %T", ErrNotDate, raw)
	}
}

// Sanitize strips markup from text values and leaves other values alone.
func Sanitize(raw any) any {
	text, ok := raw.(string)
	if !ok || text == "" {
		return raw
	}
	return html.UnescapeString(strictPolicy.Sanitize(text))
}

// Today returns midnight UTC of now's calendar day.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
