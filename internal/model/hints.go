package model

import (
	"fmt"
	"sort"
	"strings"
)

// Presentation hints a definition may carry in its metadata map. Rendering
// layers read them; the state layer ignores them.
const (
	HintHelpText       = "helpText"
	HintHideLabel      = "hideLabel"
	HintRepeaterLabel  = "repeaterLabel"
	HintSection        = "section"
	HintSubmitLabel    = "submitLabel"
	HintSuccessMessage = "successMessage"
	HintUnit           = "unit"
)

var hintKeySet = map[string]struct{}{
	HintHelpText:       {},
	HintHideLabel:      {},
	HintRepeaterLabel:  {},
	HintSection:        {},
	HintSubmitLabel:    {},
	HintSuccessMessage: {},
	HintUnit:           {},
}

// AllowedHintKeys returns the recognised metadata keys in sorted order.
func AllowedHintKeys() []string {
	keys := make([]string, 0, len(hintKeySet))
	for key := range hintKeySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// IsAllowedHintKey reports whether key is a recognised metadata key.
func IsAllowedHintKey(key string) bool {
	_, ok := hintKeySet[key]
	return ok
}

// Hint returns the trimmed metadata value for key.
func (f Field) Hint(key string) string {
	return strings.TrimSpace(f.Metadata[key])
}

// Hint returns the trimmed form-level metadata value for key.
func (m FormModel) Hint(key string) string {
	return strings.TrimSpace(m.Metadata[key])
}

func validateHints(metadata map[string]string, owner string) error {
	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !IsAllowedHintKey(key) {
			return fmt.Errorf("%s: unknown metadata key %q", owner, key)
		}
	}
	return nil
}
