package localize

import (
	"context"
	"errors"
	"fmt"
)

// Backend is the external message-resolution engine this package
// orchestrates. It owns resource loading, placeable substitution, and
// plural/gender selection. Init receives the resolved path template with the
// locale placeholder still in place and the normalized locale chain, and
// returns the handles used for formatting. Load failures belong in the
// handle's error lists; an error return is for failures that preclude a
// handle entirely.
type Backend interface {
	Init(ctx context.Context, source string, chain Chain) (*Handle, error)
}

// BackendFunc adapters allow bare functions to act as a Backend.
type BackendFunc func(ctx context.Context, source string, chain Chain) (*Handle, error)

// Init implements Backend for BackendFunc
func (fn BackendFunc) Init(ctx context.Context, source string, chain Chain) (*Handle, error) {
	return fn(ctx, source, chain)
}

// Formatter resolves translations for message ids.
type Formatter interface {
	// FormatValue resolves a single id with the given variables.
	FormatValue(ctx context.Context, id string, vars Variables) (string, error)
	// FormatValues resolves a batch, returning exactly one entry per
	// request, in request order.
	FormatValues(ctx context.Context, msgs []Message) ([]string, error)
}

// Binder writes resolved translations into caller-supplied sinks.
type Binder interface {
	Bind(sink Sink, value string) error
}

// BinderFunc adapters allow bare functions to act as a Binder.
type BinderFunc func(sink Sink, value string) error

// Bind implements Binder for BinderFunc
func (fn BinderFunc) Bind(sink Sink, value string) error {
	return fn(sink, value)
}

// AssignBinder returns the default Binder, a direct pass-through to
// Sink.Assign.
func AssignBinder() Binder {
	return BinderFunc(func(sink Sink, value string) error {
		if sink == nil {
			return fmt.Errorf("%w: bind to nil sink", ErrUsage)
		}
		return sink.Assign(value)
	})
}

// Handle is the initialized surface a Backend hands back. Both Binder and
// Formatter must be present for the handle to be usable; a non-empty error
// list marks the initialization as failed regardless of the handles.
type Handle struct {
	Binder    Binder
	Formatter Formatter

	// BinderErrors and FormatterErrors collect resource problems reported
	// by the binding and value-formatting contexts respectively.
	BinderErrors    []error
	FormatterErrors []error
}

// validateHandle applies the acceptance rules for a freshly initialized
// handle: binder errors first, then formatter errors, then handle presence.
func validateHandle(handle *Handle) error {
	if handle == nil {
		return fmt.Errorf("%w: backend returned no handle", ErrInitialization)
	}
	if len(handle.BinderErrors) > 0 {
		return errors.Join(ErrInitialization, handle.BinderErrors[0])
	}
	if len(handle.FormatterErrors) > 0 {
		return errors.Join(ErrInitialization, handle.FormatterErrors[0])
	}
	if handle.Binder == nil || handle.Formatter == nil {
		return fmt.Errorf("%w: backend handle missing binder or formatter", ErrInitialization)
	}
	return nil
}
