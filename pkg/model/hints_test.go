package model_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/model"
)

func TestHints(t *testing.T) {
	t.Parallel()

	form := model.FormModel{
		ID:       "signup",
		Metadata: map[string]string{model.HintSubmitLabel: " Register "},
		Fields: []model.Field{
			{Name: "age", Type: model.FieldTypeNumber, Metadata: map[string]string{
				model.HintUnit:     "years",
				model.HintHelpText: "Your age in whole years",
			}},
		},
	}
	schema, err := model.Build(form)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := schema.Model().Hint(model.HintSubmitLabel); got != "Register" {
		t.Fatalf("unexpected submit label %q", got)
	}
	age, _, _ := schema.Lookup("age")
	if got := age.Hint(model.HintUnit); got != "years" {
		t.Fatalf("unexpected unit %q", got)
	}
	if got := age.Hint(model.HintSection); got != "" {
		t.Fatalf("expected empty section, got %q", got)
	}

	want := []string{"helpText", "hideLabel", "repeaterLabel", "section", "submitLabel", "successMessage", "unit"}
	if diff := cmp.Diff(want, model.AllowedHintKeys()); diff != "" {
		t.Fatalf("hint keys mismatch (-want +got):\n%s", diff)
	}
}

func TestHints_RejectUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := model.Build(model.FormModel{
		ID: "signup",
		Fields: []model.Field{
			{Name: "social", Type: model.FieldTypeObject, Nested: []model.Field{
				{Name: "twitter", Type: model.FieldTypeString, Metadata: map[string]string{"widget": "select"}},
			}},
		},
	})
	if err == nil || !strings.Contains(err.Error(), `field "social.twitter": unknown metadata key "widget"`) {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}
