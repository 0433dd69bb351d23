// Package youtube ships the YouTube channel registration form: its
// definition, the validators it references and a typed view of its payload.
package youtube

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/goliatone/go-formstate/pkg/definition"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/model"
)

const (
	// FormID is the id declared by the embedded definition.
	FormID = "youtube"

	ValidatorNotAdmin       = "notAdmin"
	ValidatorNotBlackListed = "notBlackListed"

	// AdminEmail is the address notAdmin rejects.
	AdminEmail = "admin@example.com"
	// BlockedDomain is the suffix notBlackListed rejects.
	BlockedDomain = "baddomain.com"
)

//go:embed youtube.yaml
var definitionYAML []byte

// Definition returns the raw embedded definition.
func Definition() []byte {
	return append([]byte(nil), definitionYAML...)
}

// Model parses the embedded definition. Validators are referenced by name
// only; Schema resolves them.
func Model() (model.FormModel, error) {
	return definition.Parse(definitionYAML, "youtube.yaml")
}

// Registry returns a validator registry holding the builtins plus notAdmin
// and notBlackListed.
func Registry() *definition.Registry {
	reg := definition.NewRegistry()
	reg.RegisterFunc(ValidatorNotAdmin, NotAdmin)
	reg.RegisterFunc(ValidatorNotBlackListed, NotBlackListed)
	return reg
}

// NotAdmin rejects the administrator address.
func NotAdmin(value any, _ map[string]any) error {
	if s, _ := value.(string); s == AdminEmail {
		return errors.New("Enter a different email address")
	}
	return nil
}

// NotBlackListed rejects addresses on the blocked domain.
func NotBlackListed(value any, _ map[string]any) error {
	if s, _ := value.(string); strings.HasSuffix(s, BlockedDomain) {
		return errors.New("This domain is not supported")
	}
	return nil
}

// Schema builds the form with its validators resolved.
func Schema() (*model.Schema, error) {
	m, err := Model()
	if err != nil {
		return nil, err
	}
	return definition.Build(m, Registry())
}

// New creates a live YouTube form.
func New(ctx context.Context, opts ...form.Option) (*form.Form, error) {
	schema, err := Schema()
	if err != nil {
		return nil, err
	}
	return form.New(ctx, schema, opts...)
}

// Social holds the social profile group.
type Social struct {
	Twitter   string `json:"twitter,omitempty" mapstructure:"twitter"`
	Instagram string `json:"instagram" mapstructure:"instagram"`
}

// PhoneNumber is one entry of the dynamic phone list.
type PhoneNumber struct {
	Number string `json:"number" mapstructure:"number"`
}

// Values is the typed form of a submitted payload.
type Values struct {
	Username    string        `json:"username" mapstructure:"username"`
	Email       string        `json:"email" mapstructure:"email"`
	Channel     string        `json:"channel" mapstructure:"channel"`
	Social      Social        `json:"social" mapstructure:"social"`
	PhoneNumber [2]string     `json:"phoneNumber" mapstructure:"phoneNumber"`
	PhNumbers   []PhoneNumber `json:"phNumbers" mapstructure:"phNumbers"`
	Age         float64       `json:"age" mapstructure:"age"`
	DOB         time.Time     `json:"dob" mapstructure:"dob"`
}

// Decode converts a payload into Values. Dates may be time.Time values or
// RFC 3339 strings.
func Decode(payload map[string]any) (Values, error) {
	var out Values
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &out,
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return Values{}, fmt.Errorf("youtube: %w", err)
	}
	if err := decoder.Decode(payload); err != nil {
		return Values{}, fmt.Errorf("youtube: decode payload: %w", err)
	}
	return out, nil
}
