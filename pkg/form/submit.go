package form

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/values"
)

// SubmitHandler receives the coerced payload of a valid submission. A
// returned error marks the submission as unsuccessful.
type SubmitHandler func(ctx context.Context, payload map[string]any) error

// InvalidHandler receives the errors of a failed submission.
type InvalidHandler func(ctx context.Context, errs validation.Errors)

// Result describes the outcome of Submit.
type Result struct {
	Status  Status
	Payload map[string]any
	Errors  validation.Errors
}

// Valid reports whether validation passed.
func (r Result) Valid() bool {
	return r.Status == StatusSubmitted
}

// Submit validates every enabled field, replacing the current errors, and
// calls onValid with the payload or onInvalid with the errors. The payload is
// the coerced value tree without disabled fields: their keys are removed from
// groups and their positions in lists are set to nil. Either handler may be
// nil. The returned error is the success handler's error, a payload schema
// violation, or a context error; validation failures are reported through
// Result only.
func (f *Form) Submit(ctx context.Context, onValid SubmitHandler, onInvalid InvalidHandler) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Status: StatusIdle}, err
	}

	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return Result{Status: StatusValidating}, ErrSubmitInProgress
	}
	var p pending
	f.submitting = true
	f.successful = false
	f.submitCount++
	f.setStatus(&p, StatusValidating)

	f.refreshDisabled(nil)
	errs := make(validation.Errors)
	f.errors = errs
	for _, leaf := range f.schema.Leaves(f.values) {
		f.validateLeaf(leaf)
	}

	result := Result{Errors: f.errors.Clone()}
	var checkErr error
	if len(errs) == 0 {
		result.Payload = f.payload()
		if f.checker != nil {
			if check := f.checker.Check(result.Payload); !check.Valid {
				checkErr = check.Err()
			}
		}
	}
	if len(errs) == 0 && checkErr == nil {
		result.Status = StatusSubmitted
	} else {
		result.Status = StatusFailed
	}
	f.setStatus(&p, result.Status)
	submitCount := f.submitCount
	f.unlockAndNotify(&p)

	var handlerErr error
	switch {
	case checkErr != nil:
		f.logger.Error("payload does not match the form schema", "error", checkErr)
		handlerErr = checkErr
	case result.Status == StatusSubmitted:
		if onValid != nil {
			handlerErr = onValid(ctx, values.Clone(result.Payload))
		}
	default:
		f.logger.Info("submission rejected", "errors", len(result.Errors), "submit_count", submitCount)
		if onInvalid != nil {
			onInvalid(ctx, result.Errors.Clone())
		}
	}

	f.mu.Lock()
	p = pending{}
	f.submitting = false
	f.successful = result.Status == StatusSubmitted && handlerErr == nil
	f.setStatus(&p, StatusIdle)
	f.unlockAndNotify(&p)

	if handlerErr != nil && checkErr == nil {
		handlerErr = fmt.Errorf("form: submit handler: %w", handlerErr)
	}
	if handlerErr == nil && result.Status == StatusSubmitted {
		f.logger.Info("submission accepted", "submit_count", submitCount)
	}
	return result, handlerErr
}

func (f *Form) setStatus(p *pending, next Status) {
	if f.status == next {
		return
	}
	f.logger.Debug("status changed", "from", f.status, "to", next)
	f.status = next
	p.events = append(p.events, Event{Kind: EventStatus, Status: next})
}

// Payload returns the value tree a submission would send, without
// validating it.
func (f *Form) Payload() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payload()
}

func (f *Form) payload() map[string]any {
	out := values.Clone(f.values)
	paths := sortedKeys(f.disabled)
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	for _, path := range paths {
		prune(out, values.ParsePath(path))
	}
	return out
}

// prune removes the leaf at segments: map keys are deleted, list positions
// are nilled so sibling indices stay stable.
func prune(node any, segments []string) {
	if len(segments) == 0 {
		return
	}
	head, rest := segments[0], segments[1:]
	switch typed := node.(type) {
	case map[string]any:
		if len(rest) == 0 {
			delete(typed, head)
			return
		}
		prune(typed[head], rest)
	case []any:
		idx, ok := values.AsIndex(head)
		if !ok || idx >= len(typed) {
			return
		}
		if len(rest) == 0 {
			typed[idx] = nil
			return
		}
		prune(typed[idx], rest)
	}
}
