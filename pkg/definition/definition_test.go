package definition_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/definition"
	"github.com/goliatone/go-formstate/pkg/model"
)

const signupYAML = `
id: signup
title: Sign up
fields:
  - name: username
    type: string
    default: Raj
    rules:
      required: Username is required
  - name: email
    type: string
    rules:
      pattern:
        expr: '\b[\w\.-]+@[\w\.-]+\.\w{2,4}\b'
        flags: i
        message: Invalid email format
      validators:
        - name: notEqual
          params:
            value: admin@example.com
            message: Enter a different email address
        - name: notSuffix
          params:
            suffix: baddomain.com
            message: This domain is not supported
  - name: channel
    type: string
    rules:
      required:
        value: true
        message: Channel is required
  - name: social
    type: object
    nested:
      - name: twitter
        type: string
        rules:
          required: Enter twitter profile
          disabled: 'channel == ""'
  - name: legacy
    type: string
    rules:
      disabled: true
`

const contactJSON = `{
  "id": "contact",
  "fields": [
    {"name": "password", "type": "string"},
    {"name": "confirm", "type": "string", "rules": {
      "validators": [{"name": "matchesField", "params": {"field": "password", "message": "Passwords differ"}}]
    }}
  ]
}`

func TestLoadFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"forms/signup.yaml":  {Data: []byte(signupYAML)},
		"forms/contact.json": {Data: []byte(contactJSON)},
		"forms/README.md":    {Data: []byte("ignored")},
	}
	store, err := definition.LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if diff := cmp.Diff([]string{"contact", "signup"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if store.Source("signup") != "forms/signup.yaml" {
		t.Fatalf("unexpected source %q", store.Source("signup"))
	}

	form, ok := store.Form("signup")
	if !ok {
		t.Fatalf("signup missing")
	}
	username := form.Fields[0]
	if username.Default != "Raj" {
		t.Fatalf("default not parsed: %#v", username.Default)
	}
	if diff := cmp.Diff(&model.Required{Value: true, Message: "Username is required"}, username.Rules.Required); diff != "" {
		t.Fatalf("required shorthand mismatch (-want +got):\n%s", diff)
	}
	twitter := form.Fields[3].Nested[0]
	if twitter.Rules.Disabled != model.When(`channel == ""`) {
		t.Fatalf("disabled expression not parsed: %#v", twitter.Rules.Disabled)
	}
	if form.Fields[4].Rules.Disabled != model.Always() {
		t.Fatalf("static disabled not parsed: %#v", form.Fields[4].Rules.Disabled)
	}
	if form.Fields[1].Rules.Pattern.Flags != "i" {
		t.Fatalf("pattern flags not parsed: %#v", form.Fields[1].Rules.Pattern)
	}
}

func TestLoadFS_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		fsys fstest.MapFS
		want string
	}{
		"duplicate id": {
			fsys: fstest.MapFS{
				"a.yaml": {Data: []byte(signupYAML)},
				"b.yaml": {Data: []byte(signupYAML)},
			},
			want: `duplicate form "signup"`,
		},
		"empty file": {
			fsys: fstest.MapFS{"empty.yml": {Data: []byte("  \n")}},
			want: "is empty",
		},
		"missing id": {
			fsys: fstest.MapFS{"noid.yaml": {Data: []byte("fields:\n  - name: a\n    type: string\n")}},
			want: "declares no form id",
		},
		"no fields": {
			fsys: fstest.MapFS{"nofields.json": {Data: []byte(`{"id":"x"}`)}},
			want: "declares no fields",
		},
		"invalid syntax": {
			fsys: fstest.MapFS{"broken.yaml": {Data: []byte("id: [unterminated")}},
			want: "definition: parse broken.yaml",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := definition.LoadFS(tc.fsys)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestRegistry_DecorateResolvesValidators(t *testing.T) {
	t.Parallel()

	store, err := definition.LoadFS(fstest.MapFS{"signup.yaml": {Data: []byte(signupYAML)}})
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	schema, err := store.Build("signup", definition.NewRegistry())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	email, _, _ := schema.Lookup("email")
	messages := make([]string, 0, 3)
	for _, input := range []string{"admin@example.com", "user@baddomain.com", "user@gooddomain.com"} {
		var msg string
		for _, v := range email.Rules.Validators {
			if err := v.Func(input, nil); err != nil {
				msg = err.Error()
				break
			}
		}
		messages = append(messages, msg)
	}
	want := []string{"Enter a different email address", "This domain is not supported", ""}
	if diff := cmp.Diff(want, messages); diff != "" {
		t.Fatalf("validator results mismatch (-want +got):\n%s", diff)
	}

	stored, _ := store.Form("signup")
	if stored.Fields[1].Rules.Validators[0].Func != nil {
		t.Fatalf("building must not modify the stored definition")
	}
}

func TestRegistry_MatchesField(t *testing.T) {
	t.Parallel()

	store, err := definition.LoadFS(fstest.MapFS{"contact.json": {Data: []byte(contactJSON)}})
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	schema, err := store.Build("contact", definition.NewRegistry())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	confirm, _, _ := schema.Lookup("confirm")
	check := confirm.Rules.Validators[0].Func
	form := map[string]any{"password": "s3cret"}
	if err := check("s3cret", form); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := check("nope", form); err == nil || err.Error() != "Passwords differ" {
		t.Fatalf("expected mismatch error, got %v", err)
	}
}

func TestRegistry_UnknownAndCustom(t *testing.T) {
	t.Parallel()

	reg := definition.NewRegistry()
	form := model.FormModel{ID: "x", Fields: []model.Field{{
		Name: "email", Type: model.FieldTypeString,
		Rules: model.Rules{Validators: []model.Validator{{Name: "notAdmin"}}},
	}}}
	if _, err := definition.Build(form, reg); !errors.Is(err, definition.ErrUnknownValidator) {
		t.Fatalf("expected ErrUnknownValidator, got %v", err)
	}

	reg.RegisterFunc("notAdmin", func(value any, _ map[string]any) error {
		if value == "admin@example.com" {
			return errors.New("Enter a different email address")
		}
		return nil
	})
	if _, err := definition.Build(form, reg); err != nil {
		t.Fatalf("Build after registration: %v", err)
	}
	if diff := cmp.Diff([]string{"matchesField", "notAdmin", "notEqual", "notSuffix"}, reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	if _, err := reg.Resolve(definition.ValidatorNotSuffix, nil); err == nil {
		t.Fatalf("expected missing param error")
	}
}
