package definition

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/model"
)

// Store holds form definitions keyed by form id.
type Store struct {
	forms   map[string]model.FormModel
	sources map[string]string
}

// LoadFS walks fsys and parses every JSON or YAML file as a form definition.
// A nil filesystem yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]model.FormModel), sources: make(map[string]string)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}
		form, err := Parse(data, path)
		if err != nil {
			return err
		}
		if previous, exists := store.sources[form.ID]; exists {
			return fmt.Errorf("definition: duplicate form %q (files %s and %s)", form.ID, previous, path)
		}
		store.forms[form.ID] = form
		store.sources[form.ID] = path
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// LoadFile parses a single definition file from disk.
func LoadFile(path string) (model.FormModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("definition: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes one form definition. JSON is tried first, then YAML; the
// shorthand `required: "message"` and `disabled: 'expr'` forms are YAML only.
func Parse(data []byte, source string) (model.FormModel, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return model.FormModel{}, fmt.Errorf("definition: file %s is empty", source)
	}

	var form model.FormModel
	jsonErr := json.Unmarshal(data, &form)
	if jsonErr != nil {
		form = model.FormModel{}
		if err := yaml.Unmarshal(data, &form); err != nil {
			return model.FormModel{}, fmt.Errorf("definition: parse %s: %w", source, err)
		}
	}

	form.ID = strings.TrimSpace(form.ID)
	if form.ID == "" {
		return model.FormModel{}, fmt.Errorf("definition: file %s declares no form id", source)
	}
	if len(form.Fields) == 0 {
		return model.FormModel{}, fmt.Errorf("definition: form %q (file %s) declares no fields", form.ID, source)
	}
	return form, nil
}

// Form returns a copy of the definition registered under id.
func (s *Store) Form(id string) (model.FormModel, bool) {
	if s == nil {
		return model.FormModel{}, false
	}
	form, ok := s.forms[id]
	return form, ok
}

// Build applies decorators to the form registered under id and returns its
// schema.
func (s *Store) Build(id string, decorators ...model.Decorator) (*model.Schema, error) {
	form, ok := s.Form(id)
	if !ok {
		return nil, fmt.Errorf("definition: form %q not found", id)
	}
	return Build(form, decorators...)
}

// Build applies decorators to form and returns its schema.
func Build(form model.FormModel, decorators ...model.Decorator) (*model.Schema, error) {
	form.Fields = cloneFields(form.Fields)
	if err := model.Apply(&form, decorators...); err != nil {
		return nil, fmt.Errorf("definition: decorate %q: %w", form.ID, err)
	}
	return model.Build(form)
}

// Source returns the file a form was loaded from.
func (s *Store) Source(id string) string {
	if s == nil {
		return ""
	}
	return s.sources[id]
}

// IDs lists the loaded form ids in order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// cloneFields copies the field tree so decorators never write into a stored
// definition.
func cloneFields(fields []model.Field) []model.Field {
	if fields == nil {
		return nil
	}
	out := make([]model.Field, len(fields))
	for idx, field := range fields {
		field.Nested = cloneFields(field.Nested)
		if field.Items != nil {
			item := cloneFields([]model.Field{*field.Items})[0]
			field.Items = &item
		}
		field.Rules.Validators = append([]model.Validator(nil), field.Rules.Validators...)
		out[idx] = field
	}
	return out
}
