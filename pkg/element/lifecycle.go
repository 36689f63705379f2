package element

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"golang.org/x/net/html"

	"github.com/vango-dev/tagkit/pkg/diag"
	"github.com/vango-dev/tagkit/pkg/render"
	"github.com/vango-dev/tagkit/pkg/vdom"
)

// sync brings instance phases in line with the tree: instances whose host
// left the document are detached, most recently attached first, and every
// registered tag in the document that is not attached is attached in
// document order.
func (d *Document) sync() {
	var gone []*Instance
	for _, inst := range d.attached {
		if !d.contains(inst.host) {
			gone = append(gone, inst)
		}
	}
	for i := len(gone) - 1; i >= 0; i-- {
		d.detach(gone[i])
	}
	d.attachWithin(d.root)
}

func (d *Document) attachWithin(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && d.reg.Has(c.Data) {
			inst := d.instances[c]
			if inst == nil {
				def, err := d.reg.Resolve(c.Data)
				if err != nil {
					continue
				}
				inst = newInstance(d, def, c)
				d.instances[c] = inst
			}
			if inst.phase != PhaseAttached {
				d.attach(inst)
			}
		}
		d.attachWithin(c)
	}
}

func (d *Document) attach(inst *Instance) {
	def := inst.def
	inst.phase = PhaseAttached
	inst.ctx, inst.cancel = context.WithCancel(d.ctx)
	inst.light = childNodes(inst.host)
	d.attached = append(d.attached, inst)

	if def.onAttach != nil {
		d.runHook(inst, "attach", def.onAttach)
	}

	values, warnings := def.schema.Bind(def.tag, rawAttrs(inst.host))
	inst.state.Merge(def.schema, values)
	for _, w := range warnings {
		d.reportCoercion(w)
	}

	d.serial[def.tag]++
	inst.scope = render.NewScope(def.tag, d.serial[def.tag], def.style, d.renderCfg)
	setAttr(inst.host, render.HostAttr, inst.scope.ID())

	d.log.Debug("instance attached", "tag", def.tag, "scope", inst.scope.ID())
	d.obs.Transition(def.tag, PhaseAttached)

	d.render(inst)
	inst.pending = false
}

func (d *Document) detach(inst *Instance) {
	def := inst.def
	scope := inst.ScopeID()

	inst.phase = PhaseDetached
	inst.pending = false
	inst.cancel()
	d.unbind(inst)
	d.releaseScope(inst)

	for i, a := range d.attached {
		if a == inst {
			d.attached = append(d.attached[:i], d.attached[i+1:]...)
			break
		}
	}

	d.log.Debug("instance detached", "tag", def.tag, "scope", scope)
	d.obs.Transition(def.tag, PhaseDetached)

	if def.onDetach != nil {
		d.runHook(inst, "detach", def.onDetach)
	}
}

// releaseScope removes painted output and puts the original light content
// back under the host.
func (d *Document) releaseScope(inst *Instance) {
	host := inst.host
	detachAll(inst.light)
	d.forget(removeChildren(host))
	for _, n := range inst.light {
		host.AppendChild(n)
	}
	removeAttr(host, render.HostAttr)
	inst.scope = nil
}

func (d *Document) runHook(inst *Instance, name string, hook Hook) {
	err := protect(func() error { return hook(inst) })
	if err == nil {
		return
	}
	herr := &HookError{Tag: inst.def.tag, Hook: name, Err: err}
	d.report(diag.Diagnostic{
		Code:    diag.CodeHookFailed,
		Tag:     inst.def.tag,
		Problem: fmt.Sprintf("%s hook failed: %v", name, err),
		Example: inst.def.Usage(),
		Err:     herr,
	})
}

// render runs one render pass: project state, repaint if the bytes
// changed, then rebind handlers. Output is committed only once painted.
// On failure the previous output and bindings stay in place.
func (d *Document) render(inst *Instance) {
	start := time.Now()
	inst.renders++

	var node *vdom.VNode
	err := protect(func() error {
		var err error
		node, err = inst.def.render(inst.state.Reader(), &RenderContext{inst: inst})
		return err
	})

	var out []byte
	if err == nil {
		out, err = inst.scope.Project(node)
	}

	result := RenderUnchanged
	if err == nil && inst.scope.Changed(out) {
		if err = d.paint(inst, out); err == nil {
			inst.scope.Commit(out)
		}
		result = RenderPainted
	}

	if err != nil {
		d.renderFailed(inst, err, start)
		return
	}

	d.rebind(inst)
	d.obs.Rendered(RenderInfo{
		Tag:      inst.def.tag,
		Scope:    inst.scope.ID(),
		Start:    start,
		Duration: time.Since(start),
		Result:   result,
		Bindings: len(inst.bindings),
	})
}

func (d *Document) renderFailed(inst *Instance, err error, start time.Time) {
	rerr := &RenderError{Tag: inst.def.tag, Scope: inst.scope.ID(), Err: err}
	d.report(diag.Diagnostic{
		Code:    diag.CodeRenderFailed,
		Tag:     inst.def.tag,
		Problem: fmt.Sprintf("render failed, keeping previous output: %v", err),
		Example: inst.def.Usage(),
		Err:     rerr,
	})
	d.obs.Rendered(RenderInfo{
		Tag:      inst.def.tag,
		Scope:    inst.scope.ID(),
		Start:    start,
		Duration: time.Since(start),
		Result:   RenderFailed,
		Bindings: len(inst.bindings),
	})
}

var parseFragment = html.ParseFragment

// paint replaces the host's children with out and projects the light
// content into the first slot placeholder.
func (d *Document) paint(inst *Instance, out []byte) error {
	nodes, err := parseFragment(bytes.NewReader(out), inst.host)
	if err != nil {
		return fmt.Errorf("parse output: %w", err)
	}

	detachAll(inst.light)
	d.forget(removeChildren(inst.host))
	for _, n := range nodes {
		inst.host.AppendChild(n)
	}

	for i, slot := range findSlots(inst.host, inst.scope.ID()) {
		if i == 0 {
			for _, n := range inst.light {
				slot.Parent.InsertBefore(n, slot)
			}
		}
		slot.Parent.RemoveChild(slot)
	}
	return nil
}

func findSlots(root *html.Node, scope string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == render.SlotTag {
				if v, _ := getAttr(c, render.ScopeAttr); v == scope {
					out = append(out, c)
					continue
				}
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

func childNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

// removeChildren detaches every child of n and returns them.
func removeChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		out = append(out, c)
		c = next
	}
	return out
}

// forget drops the instance records of hosts inside discarded painted
// output. Those nodes never return to the tree; sync still detaches any
// instance among them that is attached.
func (d *Document) forget(nodes []*html.Node) {
	for _, n := range nodes {
		delete(d.instances, n)
		d.forget(childNodes(n))
	}
}

func detachAll(nodes []*html.Node) {
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}
