package formstate

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/goliatone/go-formstate/pkg/definition"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/youtube"
)

// Form aliases form.Form for callers that only import the root package.
type Form = form.Form

// Option aliases form.Option.
type Option = form.Option

// Result aliases form.Result.
type Result = form.Result

// Catalog resolves form ids to schemas. Definitions loaded from disk take
// precedence over the built-in forms.
type Catalog struct {
	store    *definition.Store
	registry *definition.Registry
	builtins map[string]func() (*model.Schema, error)
}

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogConfig)

type catalogConfig struct {
	dir      string
	registry *definition.Registry
}

// WithDefinitionsDir loads every JSON or YAML definition under dir.
func WithDefinitionsDir(dir string) CatalogOption {
	return func(c *catalogConfig) {
		c.dir = dir
	}
}

// WithRegistry sets the validator registry used for loaded definitions. The
// YouTube registry is used when unset.
func WithRegistry(reg *definition.Registry) CatalogOption {
	return func(c *catalogConfig) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// NewCatalog builds a catalog holding the built-in forms plus any
// definitions found on disk.
func NewCatalog(options ...CatalogOption) (*Catalog, error) {
	cfg := catalogConfig{registry: youtube.Registry()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	var store *definition.Store
	var err error
	if cfg.dir != "" {
		store, err = definition.LoadFS(os.DirFS(cfg.dir))
	} else {
		store, err = definition.LoadFS(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("formstate: load definitions: %w", err)
	}

	return &Catalog{
		store:    store,
		registry: cfg.registry,
		builtins: map[string]func() (*model.Schema, error){
			youtube.FormID: youtube.Schema,
		},
	}, nil
}

// IDs lists every form id the catalog can resolve.
func (c *Catalog) IDs() []string {
	seen := make(map[string]struct{})
	for id := range c.builtins {
		seen[id] = struct{}{}
	}
	for _, id := range c.store.IDs() {
		seen[id] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Schema builds the schema for id.
func (c *Catalog) Schema(id string) (*model.Schema, error) {
	if _, ok := c.store.Form(id); ok {
		return c.store.Build(id, c.registry)
	}
	if build, ok := c.builtins[id]; ok {
		return build()
	}
	return nil, fmt.Errorf("formstate: unknown form %q", id)
}

// Open creates a live form for id.
func (c *Catalog) Open(ctx context.Context, id string, opts ...Option) (*Form, error) {
	schema, err := c.Schema(id)
	if err != nil {
		return nil, err
	}
	return form.New(ctx, schema, opts...)
}

// NewYouTubeForm creates the built-in YouTube registration form.
func NewYouTubeForm(ctx context.Context, opts ...Option) (*Form, error) {
	return youtube.New(ctx, opts...)
}
