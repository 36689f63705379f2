package element

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"

	"github.com/vango-dev/tagkit/pkg/attr"
	"github.com/vango-dev/tagkit/pkg/registry"
	"github.com/vango-dev/tagkit/pkg/vdom"
)

// RenderFunc projects instance state into a visual description. It must be
// deterministic: the same state always yields the same tree.
type RenderFunc func(state attr.Reader, ctx *RenderContext) (*vdom.VNode, error)

// Hook is a lifecycle callback.
type Hook func(inst *Instance) error

// EventSpec binds a handler to an event on the painted elements that match
// Selector.
type EventSpec struct {
	Selector string
	Event    string
	Handler  Handler

	sel cascadia.SelectorGroup
}

// Definition describes a component tag. It is immutable once Define
// returns it and is shared by every instance of the tag.
type Definition struct {
	tag      string
	schema   attr.Schema
	render   RenderFunc
	style    string
	events   []EventSpec
	onAttach Hook
	onDetach Hook
}

// DefineOption configures a Definition under construction.
type DefineOption func(*Definition)

// Attrs declares the attribute schema, in order.
func Attrs(specs ...attr.Spec) DefineOption {
	return func(d *Definition) {
		d.schema = append(d.schema, specs...)
	}
}

// Render sets the render function.
func Render(fn RenderFunc) DefineOption {
	return func(d *Definition) {
		d.render = fn
	}
}

// Style sets the component style sheet. It is scoped per instance.
func Style(css string) DefineOption {
	return func(d *Definition) {
		d.style = css
	}
}

// On binds handler to event on every painted element matching selector.
func On(selector, event string, handler Handler) DefineOption {
	return func(d *Definition) {
		d.events = append(d.events, EventSpec{Selector: selector, Event: event, Handler: handler})
	}
}

// OnAttach sets the hook run when an instance enters the attached phase.
func OnAttach(h Hook) DefineOption {
	return func(d *Definition) {
		d.onAttach = h
	}
}

// OnDetach sets the hook run when an instance is detached.
func OnDetach(h Hook) DefineOption {
	return func(d *Definition) {
		d.onDetach = h
	}
}

var tagPattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Define builds and validates a Definition. The tag is lowercased; it must
// start with a letter and contain only letters, digits and '-'. Every
// event selector is compiled here so a bad selector fails before
// registration.
func Define(tag string, opts ...DefineOption) (*Definition, error) {
	d := &Definition{tag: registry.Normalize(tag)}
	for _, opt := range opts {
		opt(d)
	}

	if !tagPattern.MatchString(d.tag) {
		return nil, fmt.Errorf("element: invalid tag name %q", tag)
	}
	if d.render == nil {
		return nil, fmt.Errorf("element: <%s> has no render function", d.tag)
	}
	if err := d.schema.Validate(); err != nil {
		return nil, fmt.Errorf("element: <%s>: %w", d.tag, err)
	}
	for i := range d.events {
		ev := &d.events[i]
		if ev.Handler == nil {
			return nil, fmt.Errorf("element: <%s>: %s handler for %q is nil", d.tag, ev.Event, ev.Selector)
		}
		if ev.Event == "" {
			return nil, fmt.Errorf("element: <%s>: empty event name for %q", d.tag, ev.Selector)
		}
		sel, err := cascadia.ParseGroup(ev.Selector)
		if err != nil {
			return nil, fmt.Errorf("element: <%s>: selector %q: %w", d.tag, ev.Selector, err)
		}
		ev.sel = sel
	}
	return d, nil
}

// MustDefine is like Define but panics on error.
func MustDefine(tag string, opts ...DefineOption) *Definition {
	d, err := Define(tag, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Tag returns the component tag name.
func (d *Definition) Tag() string { return d.tag }

// Schema returns the declared attributes.
func (d *Definition) Schema() attr.Schema { return d.schema }

// Style returns the unscoped style sheet.
func (d *Definition) Style() string { return d.style }

// Events returns the declared event bindings.
func (d *Definition) Events() []EventSpec {
	return append([]EventSpec(nil), d.events...)
}

// Usage returns example markup for the tag with its required attributes.
func (d *Definition) Usage() string {
	var b strings.Builder
	b.WriteString("<" + d.tag)
	for _, spec := range d.schema {
		if !spec.Required {
			continue
		}
		ex := spec.ExampleFor(d.tag)
		// ExampleFor yields "<tag name=...></tag>"; keep the attribute.
		ex = strings.TrimPrefix(ex, "<"+d.tag)
		ex = strings.TrimSuffix(ex, "></"+d.tag+">")
		b.WriteString(ex)
	}
	b.WriteString("></" + d.tag + ">")
	return b.String()
}

// Registry maps tag names to definitions.
type Registry = registry.Registry[*Definition]

// NewRegistry creates an empty definition registry.
func NewRegistry() *Registry {
	return registry.New[*Definition]()
}

// Register adds def to reg under its tag name. A second definition for the
// same tag fails with *registry.DuplicateTagError.
func Register(reg *Registry, def *Definition) error {
	return reg.Register(def.tag, def)
}

// RenderContext gives a render function read access to its instance.
type RenderContext struct {
	inst *Instance
}

// Tag returns the component tag.
func (c *RenderContext) Tag() string { return c.inst.def.tag }

// ScopeID returns the instance scope id.
func (c *RenderContext) ScopeID() string { return c.inst.ScopeID() }

// HasLightContent reports whether the host had child content to project.
func (c *RenderContext) HasLightContent() bool { return len(c.inst.light) > 0 }

// LightText returns the text of the host's original content.
func (c *RenderContext) LightText() string { return c.inst.LightText() }

// Context returns the instance context.
func (c *RenderContext) Context() context.Context { return c.inst.Context() }
