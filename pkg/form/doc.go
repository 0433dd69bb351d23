// Package form implements the live state of a form built from a model
// schema: values and defaults, per-field errors, dirty, touched and disabled
// flags, dynamic list keys and the submission state machine
// (idle, validating, then submitted or failed, then idle again).
//
// A rendering layer drives a Form through OnChange, OnBlur, the list
// operations and Submit, and reads it back through FieldState, FormState,
// Fields and Subscribe:
//
//	f, err := form.New(ctx, schema, form.WithMode(form.ModeOnBlur))
//	if err != nil {
//		return err
//	}
//	_ = f.OnChange("channel", "Codevolution")
//	_ = f.Append("phNumbers", nil)
//	result, err := f.Submit(ctx, func(ctx context.Context, payload map[string]any) error {
//		return save(ctx, payload)
//	}, nil)
package form
