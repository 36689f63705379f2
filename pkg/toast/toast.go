package toast

import (
	"github.com/vango-dev/tagkit/pkg/attr"
	"github.com/vango-dev/tagkit/pkg/vdom"
)

// StateKey is the state key a notice is stored under.
// Components render it with Region.
const StateKey = "toast"

// Type represents the toast notification type.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Notice is the notification currently shown by a component.
type Notice struct {
	Level   Type
	Title   string
	Message string
}

// Setter is the part of a component's state that toasts write to.
// *attr.State satisfies it.
type Setter interface {
	Set(key string, value any) bool
}

// Show displays a toast notification inside the component that owns s.
// Writing the notice requests a render like any other state change;
// showing the same notice twice is a no-op.
func Show(s Setter, level Type, message string) {
	s.Set(StateKey, Notice{Level: level, Message: message})
}

// Success shows a success toast.
//
//	toast.Success(e.State(), "Changes saved!")
func Success(s Setter, message string) {
	Show(s, TypeSuccess, message)
}

// Error shows an error toast.
func Error(s Setter, message string) {
	Show(s, TypeError, message)
}

// Warning shows a warning toast.
//
//	toast.Warning(e.State(), "Volume is already at maximum")
func Warning(s Setter, message string) {
	Show(s, TypeWarning, message)
}

// Info shows an info toast.
func Info(s Setter, message string) {
	Show(s, TypeInfo, message)
}

// WithTitle shows a toast with a title and message.
//
//	toast.WithTitle(e.State(), toast.TypeSuccess, "Schedule", "Slot booked.")
func WithTitle(s Setter, level Type, title, message string) {
	s.Set(StateKey, Notice{Level: level, Title: title, Message: message})
}

// Dismiss removes the current notice.
func Dismiss(s Setter) {
	s.Set(StateKey, Notice{})
}

// Current returns the notice stored in r, if any.
func Current(r attr.Reader) (Notice, bool) {
	v, ok := r.Get(StateKey)
	if !ok {
		return Notice{}, false
	}
	n, ok := v.(Notice)
	if !ok || n.Message == "" {
		return Notice{}, false
	}
	return n, true
}

// Region renders the current notice as a live region, or nothing when no
// notice is shown. Errors are announced assertively.
func Region(r attr.Reader) *vdom.VNode {
	n, ok := Current(r)
	if !ok {
		return nil
	}
	live, role := "polite", "status"
	if n.Level == TypeError {
		live, role = "assertive", "alert"
	}
	return vdom.Div(
		vdom.Class("toast", "toast-"+string(n.Level)),
		vdom.Role(role),
		vdom.AriaLive(live),
		vdom.If(n.Title != "", vdom.Strong(vdom.Class("toast-title"), n.Title)),
		vdom.Span(vdom.Class("toast-message"), n.Message),
	)
}
