package element

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/tagkit/pkg/attr"
	"github.com/vango-dev/tagkit/pkg/render"
)

// Phase is an instance lifecycle phase.
type Phase uint8

const (
	PhaseUnattached Phase = iota
	PhaseAttached
	PhaseDetached
)

func (p Phase) String() string {
	switch p {
	case PhaseUnattached:
		return "unattached"
	case PhaseAttached:
		return "attached"
	case PhaseDetached:
		return "detached"
	default:
		return "unknown"
	}
}

// Instance is one occurrence of a component tag in a document. It owns
// its state, its visual scope while attached, and the handlers bound by
// its last render.
type Instance struct {
	doc   *Document
	def   *Definition
	host  *html.Node
	state *attr.State
	phase Phase

	scope    *render.Scope
	light    []*html.Node
	bindings []*binding
	pending  bool

	ctx    context.Context
	cancel context.CancelFunc

	renders int
}

func newInstance(doc *Document, def *Definition, host *html.Node) *Instance {
	inst := &Instance{
		doc:   doc,
		def:   def,
		host:  host,
		state: attr.NewState(),
		ctx:   context.Background(),
	}
	inst.state.OnChange(func(string) { inst.RequestRender() })
	return inst
}

// Definition returns the shared component definition.
func (i *Instance) Definition() *Definition { return i.def }

// Tag returns the component tag.
func (i *Instance) Tag() string { return i.def.tag }

// Host returns the markup node the instance is bound to.
func (i *Instance) Host() *html.Node { return i.host }

// Phase returns the current lifecycle phase.
func (i *Instance) Phase() Phase { return i.phase }

// State returns the mutable state record. Every effective write requests
// a render.
func (i *Instance) State() *attr.State { return i.state }

// Document returns the owning document.
func (i *Instance) Document() *Document { return i.doc }

// Pending reports whether a render is scheduled.
func (i *Instance) Pending() bool { return i.pending }

// Renders returns how many times the render function has run.
func (i *Instance) Renders() int { return i.renders }

// Bindings returns the number of handlers currently bound.
func (i *Instance) Bindings() int { return len(i.bindings) }

// ScopeID returns the visual scope id, or "" when not attached.
func (i *Instance) ScopeID() string {
	if i.scope == nil {
		return ""
	}
	return i.scope.ID()
}

// Output returns the last painted bytes of the scope.
func (i *Instance) Output() string {
	if i.scope == nil {
		return ""
	}
	return string(i.scope.Last())
}

// Context is cancelled when the instance is detached.
func (i *Instance) Context() context.Context { return i.ctx }

// Attribute returns a raw attribute of the host element.
func (i *Instance) Attribute(name string) (string, bool) {
	return getAttr(i.host, name)
}

// LightText returns the collapsed text of the host's original content.
func (i *Instance) LightText() string {
	var parts []string
	for _, n := range i.light {
		parts = append(parts, textOf(n))
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// RequestRender schedules a render for the next flush. Calls while a
// render is already pending are coalesced; calls on an instance that is
// not attached are ignored.
func (i *Instance) RequestRender() {
	if i.phase != PhaseAttached {
		return
	}
	if i.pending {
		i.doc.obs.RenderRequested(i.def.tag, true)
		return
	}
	i.pending = true
	i.doc.queue = append(i.doc.queue, i)
	i.doc.obs.RenderRequested(i.def.tag, false)
}

// Defer schedules fn to run at the start of the next flush pass, before
// that pass renders pending instances, so state changes made by fn land
// in the same render. The task is dropped if the instance is detached
// first; fn receives the instance context, which detaching cancels.
func (i *Instance) Defer(fn func(ctx context.Context) error) {
	if i.phase != PhaseAttached {
		return
	}
	i.doc.deferred = append(i.doc.deferred, deferredTask{inst: i, ctx: i.ctx, fn: fn})
}

type deferredTask struct {
	inst *Instance
	ctx  context.Context
	fn   func(ctx context.Context) error
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
		b.WriteByte(' ')
	}
	return b.String()
}
