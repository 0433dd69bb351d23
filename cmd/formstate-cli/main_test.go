package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeValues(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write values: %v", err)
	}
	return path
}

func TestListCommand(t *testing.T) {
	out, err := run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if out != "youtube\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSchemaCommand(t *testing.T) {
	out, err := run(t, "schema")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode schema: %v", err)
	}
	if doc["type"] != "object" {
		t.Fatalf("unexpected schema type %#v", doc["type"])
	}
	props, _ := doc["properties"].(map[string]any)
	if _, ok := props["phNumbers"]; !ok {
		t.Fatalf("schema is missing phNumbers: %v", props)
	}
}

func TestDefaultsCommand(t *testing.T) {
	out, err := run(t, "defaults", "--output", "pretty")
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	for _, want := range []string{"username=Raj\n", "age=0\n", "channel=\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q is missing %q", out, want)
		}
	}
}

func TestValidateCommand_Valid(t *testing.T) {
	path := writeValues(t, `username: Bruce
email: bruce@wayne.com
channel: Wayne TV
social:
  twitter: bat
  instagram: ""
phoneNumber: ["1", "2"]
phNumbers:
  - number: "100"
age: 35
dob: "1980-02-19"
`)
	out, err := run(t, "validate", path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["username"] != "Bruce" || payload["age"] != float64(35) {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestValidateCommand_Invalid(t *testing.T) {
	path := writeValues(t, `{"channel": "", "age": "abc"}`)
	out, err := run(t, "validate", path)
	if !errors.Is(err, errInvalidValues) {
		t.Fatalf("expected errInvalidValues, got %v", err)
	}
	want := []string{
		"age: Age must be a number",
		"channel: Channel is required",
		"phoneNumber.0: Primary phone number is required",
		"phoneNumber.1: Secondary phone number is required",
	}
	if diff := cmp.Diff(want, strings.Split(strings.TrimSpace(out), "\n")); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownMode(t *testing.T) {
	if _, err := run(t, "defaults", "--mode", "sometimes"); err == nil {
		t.Fatalf("expected error for an unknown mode")
	}
}
