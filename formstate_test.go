package formstate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
)

const signupDefinition = `id: signup
fields:
  - name: email
    type: string
    rules:
      required: Email is required
      validators:
        - name: notAdmin
  - name: confirm
    type: string
    rules:
      validators:
        - name: matchesField
          params:
            field: email
            message: Emails differ
`

func TestCatalog_BuiltinsAndDefinitions(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "signup.yaml"), []byte(signupDefinition), 0o600); err != nil {
		t.Fatalf("write definition: %v", err)
	}

	catalog, err := NewCatalog(WithDefinitionsDir(dir))
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	if diff := cmp.Diff([]string{"signup", "youtube"}, catalog.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	ctx := context.Background()
	f, err := catalog.Open(ctx, "signup")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := f.SetValue("email", "admin@example.com", form.SetOptions{ShouldValidate: true}); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if got := f.Errors().Message("email"); got != "Enter a different email address" {
		t.Fatalf("unexpected email error %q", got)
	}

	if _, err := catalog.Open(ctx, "youtube"); err != nil {
		t.Fatalf("Open youtube: %v", err)
	}
	if _, err := catalog.Schema("missing"); err == nil {
		t.Fatalf("expected error for an unknown form")
	}
}

func TestCatalog_BadDefinitionsDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("fields: [\n"), 0o600); err != nil {
		t.Fatalf("write definition: %v", err)
	}
	if _, err := NewCatalog(WithDefinitionsDir(dir)); err == nil {
		t.Fatalf("expected error for a malformed definition")
	}
}

func TestNewYouTubeForm(t *testing.T) {
	f, err := NewYouTubeForm(context.Background())
	if err != nil {
		t.Fatalf("NewYouTubeForm: %v", err)
	}
	if got, _ := f.GetValue("username"); got != "Raj" {
		t.Fatalf("unexpected username %#v", got)
	}
}
