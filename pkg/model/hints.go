package model

import internalmodel "github.com/goliatone/go-formstate/internal/model"

// Metadata keys understood by rendering layers.
const (
	HintHelpText       = internalmodel.HintHelpText
	HintHideLabel      = internalmodel.HintHideLabel
	HintRepeaterLabel  = internalmodel.HintRepeaterLabel
	HintSection        = internalmodel.HintSection
	HintSubmitLabel    = internalmodel.HintSubmitLabel
	HintSuccessMessage = internalmodel.HintSuccessMessage
	HintUnit           = internalmodel.HintUnit
)

// AllowedHintKeys returns the recognised metadata keys in sorted order.
func AllowedHintKeys() []string {
	return internalmodel.AllowedHintKeys()
}

// IsAllowedHintKey reports whether key may appear in a metadata map.
func IsAllowedHintKey(key string) bool {
	return internalmodel.IsAllowedHintKey(key)
}
