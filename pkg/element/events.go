package element

import (
	"fmt"
	"strconv"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/vango-dev/tagkit/pkg/attr"
	"github.com/vango-dev/tagkit/pkg/diag"
	"github.com/vango-dev/tagkit/pkg/render"
)

// Handler reacts to an event by mutating instance state.
type Handler func(e *Event) error

// Event is a dispatched user event.
type Event struct {
	Type string
	Data string

	// Target is the node the event was dispatched to; CurrentTarget is the
	// node whose binding is running.
	Target        *html.Node
	CurrentTarget *html.Node

	inst    *Instance
	stopped bool
}

// Instance returns the instance whose handler is running.
func (e *Event) Instance() *Instance { return e.inst }

// State returns the running instance's state.
func (e *Event) State() *attr.State { return e.inst.state }

// StopPropagation prevents the event from reaching ancestors of the
// current node. Remaining handlers on the current node still run.
func (e *Event) StopPropagation() { e.stopped = true }

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool { return e.stopped }

// Attr returns an attribute of the current node.
func (e *Event) Attr(name string) string {
	v, _ := getAttr(e.CurrentTarget, name)
	return v
}

// IntData parses Data as an integer.
func (e *Event) IntData() (int, error) {
	n, err := strconv.Atoi(e.Data)
	if err != nil {
		return 0, fmt.Errorf("event %s: data %q is not an integer", e.Type, e.Data)
	}
	return n, nil
}

type binding struct {
	inst *Instance
	spec *EventSpec
	node *html.Node
}

// unbind removes every handler bound by inst.
func (d *Document) unbind(inst *Instance) {
	for _, b := range inst.bindings {
		list := d.bound[b.node]
		kept := list[:0]
		for _, other := range list {
			if other.inst != inst {
				kept = append(kept, other)
			}
		}
		if len(kept) == 0 {
			delete(d.bound, b.node)
		} else {
			d.bound[b.node] = kept
		}
	}
	inst.bindings = nil
}

// rebind resolves the definition's selectors against the nodes stamped
// with the instance scope and binds fresh handlers.
func (d *Document) rebind(inst *Instance) {
	d.unbind(inst)
	scope := inst.scope.ID()
	for i := range inst.def.events {
		spec := &inst.def.events[i]
		for _, n := range cascadia.QueryAll(inst.host, spec.sel) {
			if v, _ := getAttr(n, render.ScopeAttr); v != scope {
				continue
			}
			b := &binding{inst: inst, spec: spec, node: n}
			inst.bindings = append(inst.bindings, b)
			d.bound[n] = append(d.bound[n], b)
		}
	}
}

// Dispatch delivers event to target and bubbles it up to the root. The
// dispatch is one unit of work: renders requested by handlers run when it
// completes.
func (d *Document) Dispatch(target *html.Node, event, data string) error {
	if target == nil || !d.contains(target) {
		return ErrNoTarget
	}
	d.Batch(func() {
		d.dispatch(target, event, data)
	})
	return nil
}

// DispatchSelector dispatches to the first node matching selector.
func (d *Document) DispatchSelector(selector, event, data string) error {
	target, err := d.QueryOne(selector)
	if err != nil {
		return err
	}
	return d.Dispatch(target, event, data)
}

func (d *Document) dispatch(target *html.Node, event, data string) {
	e := &Event{Type: event, Data: data, Target: target}
	for n := target; n != nil && !e.stopped; n = n.Parent {
		list := append([]*binding(nil), d.bound[n]...)
		for _, b := range list {
			if b.spec.Event != event || b.inst.phase != PhaseAttached {
				continue
			}
			e.CurrentTarget = n
			e.inst = b.inst
			if err := protect(func() error { return b.spec.Handler(e) }); err != nil {
				d.handlerFailed(b, err)
			}
		}
	}
}

func (d *Document) handlerFailed(b *binding, err error) {
	herr := &HandlerError{Tag: b.inst.def.tag, Event: b.spec.Event, Selector: b.spec.Selector, Err: err}
	d.report(diag.Diagnostic{
		Code:    diag.CodeHandlerFailed,
		Tag:     b.inst.def.tag,
		Problem: fmt.Sprintf("%s handler on %q failed: %v", b.spec.Event, b.spec.Selector, err),
		Example: b.inst.def.Usage(),
		Err:     herr,
	})
}
