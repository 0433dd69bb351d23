package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return flags
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", newFlags(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formstate.yaml")
	content := []byte("form: signup\nlog-level: debug\noutput: pretty\ndefaults-timeout: 2s\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FORMSTATE_LOG_LEVEL", "warn")
	t.Setenv("FORMSTATE_DEFAULTS_URL", "http://localhost/users/1")

	cfg, err := Load(path, newFlags(t, "--output", "form"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.FormID = "signup"
	want.LogLevel = "warn"
	want.Output = "form"
	want.DefaultsURL = "http://localhost/users/1"
	want.DefaultsTimeout = 2 * time.Second
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatalf("expected error for a missing config file")
	}
	if _, err := Load("", newFlags(t, "--form", " ")); err == nil {
		t.Fatalf("expected error for an empty form id")
	}
}
