package validation_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

func emailField() model.Field {
	return model.Field{
		Name:  "email",
		Type:  model.FieldTypeString,
		Label: "Email",
		Rules: model.Rules{
			Pattern: &model.Pattern{Expr: `\b[\w\.-]+@[\w\.-]+\.\w{2,4}\b`, Flags: "i", Message: "Invalid email format"},
			Validators: []model.Validator{
				{Name: "notAdmin", Func: func(value any, _ map[string]any) error {
					if value == "admin@example.com" {
						return errors.New("Enter a different email address")
					}
					return nil
				}},
				{Name: "notBlackListed", Func: func(value any, _ map[string]any) error {
					if s, _ := value.(string); strings.HasSuffix(s, "baddomain.com") {
						return errors.New("This domain is not supported")
					}
					return nil
				}},
			},
		},
	}
}

func TestCheck_RuleOrder(t *testing.T) {
	t.Parallel()

	field := emailField()
	cases := []struct {
		value     string
		kind      validation.Kind
		message   string
		validator string
	}{
		{value: "not-an-email", kind: validation.KindPattern, message: "Invalid email format"},
		{value: "admin@example.com", kind: validation.KindCustom, message: "Enter a different email address", validator: "notAdmin"},
		{value: "user@baddomain.com", kind: validation.KindCustom, message: "This domain is not supported", validator: "notBlackListed"},
		{value: "USER@EXAMPLE.COM"},
		{value: ""},
	}

	for _, tc := range cases {
		got := validation.Check("email", field, tc.value, nil)
		if tc.kind == "" {
			if got != nil {
				t.Errorf("Check(%q) unexpected error %v", tc.value, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("Check(%q) expected %s error", tc.value, tc.kind)
			continue
		}
		want := &validation.FieldError{Path: "email", Kind: tc.kind, Message: tc.message, Validator: tc.validator}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Check(%q) mismatch (-want +got):\n%s", tc.value, diff)
		}
	}
}

func TestCheck_RequiredBeforeEverythingElse(t *testing.T) {
	t.Parallel()

	called := false
	field := model.Field{
		Name: "username",
		Type: model.FieldTypeString,
		Rules: model.Rules{
			Required:  model.Require("Username is required"),
			MinLength: &model.Length{Value: 3},
			Validators: []model.Validator{{Name: "spy", Func: func(any, map[string]any) error {
				called = true
				return nil
			}}},
		},
	}

	got := validation.Check("username", field, "", nil)
	if got == nil || got.Kind != validation.KindRequired || got.Message != "Username is required" {
		t.Fatalf("unexpected error: %#v", got)
	}
	if called {
		t.Fatalf("validators must not run on a missing required value")
	}
	if !errors.Is(got, validation.ErrRequiredFieldMissing) {
		t.Fatalf("expected error to unwrap to ErrRequiredFieldMissing")
	}

	got = validation.Check("username", field, "ab", nil)
	if got == nil || got.Kind != validation.KindLength {
		t.Fatalf("expected length error, got %#v", got)
	}
	if got.Message != "username must be at least 3 characters" {
		t.Fatalf("unexpected default length message %q", got.Message)
	}
}

func TestCheck_BoundsOnNumbers(t *testing.T) {
	t.Parallel()

	field := model.Field{
		Name:  "age",
		Type:  model.FieldTypeNumber,
		Label: "Age",
		Rules: model.Rules{
			Min: &model.Bound{Value: 0},
			Max: &model.Bound{Value: 130, Message: "Too old"},
		},
	}
	if err := validation.Check("age", field, float64(-1), nil); err == nil || err.Message != "Age must be at least 0" {
		t.Fatalf("unexpected min error %#v", err)
	}
	if err := validation.Check("age", field, float64(131), nil); !errors.Is(err, validation.ErrOutOfRange) || err.Message != "Too old" {
		t.Fatalf("unexpected max error %#v", err)
	}
	if err := validation.Check("age", field, float64(40), nil); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestEvaluate_Coercion(t *testing.T) {
	t.Parallel()

	age := model.Field{Name: "age", Type: model.FieldTypeNumber, Label: "Age", Rules: model.Rules{Required: model.Require("Age is required")}}

	value, err := validation.Evaluate("age", age, "0x1A", nil)
	if err == nil || err.Kind != validation.KindCoercion {
		t.Fatalf("expected coercion failure, got %#v", err)
	}
	if value != "0x1A" || err.Raw != "0x1A" {
		t.Fatalf("expected raw text to be kept, got value=%v raw=%v", value, err.Raw)
	}
	if !errors.Is(err, validation.ErrCoercionFailed) {
		t.Fatalf("expected ErrCoercionFailed")
	}

	value, err = validation.Evaluate("age", age, "", nil)
	if value != nil || err == nil || err.Message != "Age is required" {
		t.Fatalf("empty text should coerce to nil and fail required: value=%v err=%#v", value, err)
	}

	value, err = validation.Evaluate("age", age, "42", nil)
	if err != nil || value != float64(42) {
		t.Fatalf("expected 42, got %v (%v)", value, err)
	}

	dob := model.Field{Name: "dob", Type: model.FieldTypeDate, Rules: model.Rules{CoerceMessage: "Bad date"}}
	value, err = validation.Evaluate("dob", dob, "2001-02-30", nil)
	if err == nil || err.Message != "Bad date" {
		t.Fatalf("expected custom coercion message, got %#v", err)
	}
	value, err = validation.Evaluate("dob", dob, "1990-05-17", nil)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !value.(time.Time).Equal(time.Date(1990, time.May, 17, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", value)
	}
}

func TestEvaluate_SanitizeBeforeRules(t *testing.T) {
	t.Parallel()

	field := model.Field{Name: "channel", Type: model.FieldTypeString, Rules: model.Rules{
		Required: model.Require("Channel is required"),
		Sanitize: true,
	}}
	value, err := validation.Evaluate("channel", field, "<em></em>", nil)
	if value != "" || err == nil || err.Kind != validation.KindRequired {
		t.Fatalf("markup-only input should be empty after sanitising: value=%q err=%#v", value, err)
	}
}

func TestCheck_ValidatorsSeeForm(t *testing.T) {
	t.Parallel()

	field := model.Field{Name: "confirm", Type: model.FieldTypeString, Rules: model.Rules{
		Validators: []model.Validator{{Name: "matches", Func: func(value any, form map[string]any) error {
			if value != form["password"] {
				return errors.New("Passwords differ")
			}
			return nil
		}}},
	}}
	form := map[string]any{"password": "s3cret"}
	if err := validation.Check("confirm", field, "s3cret", form); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := validation.Check("confirm", field, "other", form); err == nil || err.Validator != "matches" {
		t.Fatalf("expected matches failure, got %#v", err)
	}
}

func TestErrors_Aggregate(t *testing.T) {
	t.Parallel()

	errs := validation.Errors{
		"username": {Path: "username", Kind: validation.KindRequired, Message: "Username is required"},
		"age":      {Path: "age", Kind: validation.KindCoercion, Message: "Age must be a number"},
	}
	if diff := cmp.Diff([]string{"age", "username"}, errs.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	want := map[string]string{"username": "Username is required", "age": "Age must be a number"}
	if diff := cmp.Diff(want, errs.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}

	err := errs.Err()
	if err == nil {
		t.Fatalf("expected aggregate error")
	}
	if !errors.Is(err, validation.ErrRequiredFieldMissing) || !errors.Is(err, validation.ErrCoercionFailed) {
		t.Fatalf("aggregate should expose both sentinels: %v", err)
	}
	fe, ok := validation.AsFieldError(err)
	if !ok || fe.Path != "age" {
		t.Fatalf("expected first error in path order, got %#v", fe)
	}
	if errs.Message("missing") != "" {
		t.Fatalf("expected empty message for unknown path")
	}
	if (validation.Errors{}).Err() != nil {
		t.Fatalf("empty errors must aggregate to nil")
	}
}

func TestCheck_ValidatorsRunOnEmptyOptionalValues(t *testing.T) {
	t.Parallel()

	field := model.Field{Name: "nickname", Type: model.FieldTypeString, Rules: model.Rules{
		Pattern: &model.Pattern{Expr: `^[a-z]+$`, Message: "lowercase only"},
		Validators: []model.Validator{{Name: "present", Func: func(value any, _ map[string]any) error {
			if value == "" {
				return errors.New("Pick a nickname")
			}
			return nil
		}}},
	}}
	got := validation.Check("nickname", field, "", nil)
	if got == nil || got.Kind != validation.KindCustom || got.Message != "Pick a nickname" {
		t.Fatalf("expected validator failure without a pattern check, got %#v", got)
	}
}
