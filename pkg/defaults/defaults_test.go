package defaults_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/defaults"
	"github.com/goliatone/go-formstate/pkg/model"
)

var fixedNow = time.Date(2024, time.May, 4, 15, 30, 0, 0, time.UTC)

func defaultsSchema(t *testing.T) *model.Schema {
	t.Helper()
	schema, err := model.Build(model.FormModel{
		ID: "defaults",
		Fields: []model.Field{
			{Name: "username", Type: model.FieldTypeString, Default: "Raj"},
			{Name: "email", Type: model.FieldTypeString},
			{Name: "social", Type: model.FieldTypeObject, Nested: []model.Field{
				{Name: "twitter", Type: model.FieldTypeString},
				{Name: "instagram", Type: model.FieldTypeString},
			}},
			{Name: "phoneNumber", Type: model.FieldTypeArray, Nested: []model.Field{
				{Name: "0", Type: model.FieldTypeString},
				{Name: "1", Type: model.FieldTypeString},
			}},
			{Name: "phNumbers", Type: model.FieldTypeArray, MinItems: 1, Items: &model.Field{
				Type:   model.FieldTypeObject,
				Nested: []model.Field{{Name: "number", Type: model.FieldTypeString}},
			}},
			{Name: "age", Type: model.FieldTypeNumber, Default: 0},
			{Name: "dob", Type: model.FieldTypeDate, DefaultNow: true},
			{Name: "nickname", Type: model.FieldTypeNumber},
		},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return schema
}

func TestStatic(t *testing.T) {
	t.Parallel()

	got := defaults.Static(defaultsSchema(t), fixedNow)
	want := map[string]any{
		"username":    "Raj",
		"email":       "",
		"social":      map[string]any{"twitter": "", "instagram": ""},
		"phoneNumber": []any{"", ""},
		"phNumbers":   []any{map[string]any{"number": ""}},
		"age":         float64(0),
		"dob":         time.Date(2024, time.May, 4, 0, 0, 0, 0, time.UTC),
		"nickname":    nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("static defaults mismatch (-want +got):\n%s", diff)
	}

	item, ok := defaults.Item(defaultsSchema(t), "phNumbers", fixedNow)
	if !ok {
		t.Fatalf("expected list item default")
	}
	if diff := cmp.Diff(map[string]any{"number": ""}, item); diff != "" {
		t.Fatalf("item default mismatch (-want +got):\n%s", diff)
	}
	if _, ok := defaults.Item(defaultsSchema(t), "social", fixedNow); ok {
		t.Fatalf("groups have no item default")
	}
}

func TestStatic_DeclaredGroupDefaults(t *testing.T) {
	t.Parallel()

	schema, err := model.Build(model.FormModel{
		ID: "declared",
		Fields: []model.Field{
			{Name: "phoneNumber", Type: model.FieldTypeArray, Default: []any{"555"}, Nested: []model.Field{
				{Name: "0", Type: model.FieldTypeString},
				{Name: "1", Type: model.FieldTypeString},
			}},
			{Name: "tags", Type: model.FieldTypeArray, MinItems: 1, Default: []any{"a", "b"}, Items: &model.Field{Type: model.FieldTypeString}},
			{Name: "born", Type: model.FieldTypeDate, Default: "1990-01-02"},
		},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	got := defaults.Static(schema, fixedNow)
	want := map[string]any{
		"phoneNumber": []any{"555", ""},
		"tags":        []any{"a", "b"},
		"born":        time.Date(1990, time.January, 2, 0, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("declared defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := map[string]any{
		"username":  "Raj",
		"email":     "",
		"social":    map[string]any{"twitter": "", "instagram": "raj.ig"},
		"phNumbers": []any{map[string]any{"number": ""}},
	}
	remote := map[string]any{
		"email":     "Sincere@april.biz",
		"social":    map[string]any{"twitter": "@raj"},
		"phNumbers": []any{map[string]any{"number": "1"}, map[string]any{"number": "2"}},
	}
	got, err := defaults.Merge(base, remote)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	want := map[string]any{
		"username":  "Raj",
		"email":     "Sincere@april.biz",
		"social":    map[string]any{"twitter": "@raj", "instagram": "raj.ig"},
		"phNumbers": []any{map[string]any{"number": "1"}, map[string]any{"number": "2"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
	if base["email"] != "" {
		t.Fatalf("merge must not modify its inputs")
	}
}

func TestHTTPSource_Mapping(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Token") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"email":"Sincere@april.biz","address":{"city":"Gwenborough"}}`))
	}))
	defer server.Close()

	src := defaults.NewHTTPSource(server.URL,
		defaults.WithHTTPClient(server.Client()),
		defaults.WithHeader("X-Token", "secret"),
		defaults.WithMapping(map[string]string{
			"email":        "email",
			"social.city":  "address.city",
			"missingField": "does.not.exist",
		}),
		defaults.WithFixed(map[string]any{"username": "raj", "channel": ""}),
	)
	got, err := src.FetchDefaults(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := map[string]any{
		"username": "raj",
		"email":    "Sincere@april.biz",
		"channel":  "",
		"social":   map[string]any{"city": "Gwenborough"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mapped defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPSource_Failures(t *testing.T) {
	t.Parallel()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer failing.Close()

	if _, err := defaults.NewHTTPSource(failing.URL).FetchDefaults(context.Background()); err == nil || !strings.Contains(err.Error(), "unexpected status") {
		t.Fatalf("expected status error, got %v", err)
	}

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer garbage.Close()
	if _, err := defaults.NewHTTPSource(garbage.URL).FetchDefaults(context.Background()); err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("expected decode error, got %v", err)
	}

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()
	_, err := defaults.NewHTTPSource(slow.URL, defaults.WithTimeout(20*time.Millisecond)).FetchDefaults(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	if _, err := defaults.NewHTTPSource("").FetchDefaults(context.Background()); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestHTTPSource_MaxBytes(t *testing.T) {
	t.Parallel()

	body := `{"username":"` + strings.Repeat("x", 64) + `"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	_, err := defaults.NewHTTPSource(srv.URL, defaults.WithMaxBytes(32)).FetchDefaults(context.Background())
	if !errors.Is(err, defaults.ErrResponseTooLarge) {
		t.Fatalf("expected ErrResponseTooLarge, got %v", err)
	}

	got, err := defaults.NewHTTPSource(srv.URL, defaults.WithMaxBytes(int64(len(body)))).FetchDefaults(context.Background())
	if err != nil {
		t.Fatalf("FetchDefaults: %v", err)
	}
	if got["username"] != strings.Repeat("x", 64) {
		t.Fatalf("unexpected defaults %v", got)
	}
}

func TestSourceFuncAndValues(t *testing.T) {
	t.Parallel()

	fixed := defaults.Values{"channel": "codevolution"}
	got, err := fixed.FetchDefaults(context.Background())
	if err != nil || got["channel"] != "codevolution" {
		t.Fatalf("unexpected values source result %v, %v", got, err)
	}
	got["channel"] = "changed"
	if fixed["channel"] != "codevolution" {
		t.Fatalf("values source must return a copy")
	}

	var src defaults.Source = defaults.SourceFunc(func(context.Context) (map[string]any, error) {
		return nil, errors.New("offline")
	})
	if _, err := src.FetchDefaults(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
