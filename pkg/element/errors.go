package element

import (
	"errors"
	"fmt"
)

// ErrPanic is wrapped by errors recovered from a panicking render
// function, hook or handler.
var ErrPanic = errors.New("panic")

// ErrNoTarget is returned when a dispatch target cannot be found.
var ErrNoTarget = errors.New("element: no dispatch target")

// HookError reports a failed lifecycle hook or deferred task. The
// transition it belongs to still completes.
type HookError struct {
	Tag  string
	Hook string // "attach", "detach" or "defer"
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("<%s>: %s hook: %v", e.Tag, e.Hook, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

// RenderError reports a failed render. The instance keeps its previous
// output and bindings.
type RenderError struct {
	Tag   string
	Scope string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("<%s> %s: render: %v", e.Tag, e.Scope, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// HandlerError reports a failed event handler. Dispatch continues with the
// remaining handlers.
type HandlerError struct {
	Tag      string
	Event    string
	Selector string
	Err      error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("<%s>: %s handler on %q: %v", e.Tag, e.Event, e.Selector, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// protect runs fn and converts a panic into an error wrapping ErrPanic.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn()
}
