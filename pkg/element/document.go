package element

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/vango-dev/tagkit/pkg/attr"
	"github.com/vango-dev/tagkit/pkg/diag"
	"github.com/vango-dev/tagkit/pkg/render"
)

// DefaultMaxFlushPasses bounds the render passes of one flush.
const DefaultMaxFlushPasses = 16

// Document is a live markup tree in which registered tags are upgraded to
// component instances. It is not safe for concurrent use.
type Document struct {
	reg  *Registry
	root *html.Node

	instances map[*html.Node]*Instance
	attached  []*Instance
	bound     map[*html.Node][]*binding
	serial    map[string]int

	queue    []*Instance
	deferred []deferredTask
	depth    int

	ctx       context.Context
	log       *slog.Logger
	diags     diag.Channel
	obs       Observer
	manual    bool
	maxPasses int
	renderCfg render.RendererConfig
}

// Option configures a Document.
type Option func(*Document)

// WithDiagnostics sets the diagnostic channel. The default logs through
// the document logger.
func WithDiagnostics(ch diag.Channel) Option {
	return func(d *Document) {
		d.diags = ch
	}
}

// WithLogger sets the logger for lifecycle and flush debug output.
func WithLogger(log *slog.Logger) Option {
	return func(d *Document) {
		d.log = log
	}
}

// WithObserver sets the telemetry observer.
func WithObserver(obs Observer) Option {
	return func(d *Document) {
		d.obs = obs
	}
}

// WithManualFlush stops units of work from flushing on completion; pending
// renders then wait for an explicit Flush.
func WithManualFlush() Option {
	return func(d *Document) {
		d.manual = true
	}
}

// WithMaxFlushPasses bounds the render passes of one flush.
func WithMaxFlushPasses(n int) Option {
	return func(d *Document) {
		if n > 0 {
			d.maxPasses = n
		}
	}
}

// WithRenderConfig configures scope projection.
func WithRenderConfig(cfg render.RendererConfig) Option {
	return func(d *Document) {
		d.renderCfg = cfg
	}
}

// WithContext sets the parent of every instance context.
func WithContext(ctx context.Context) Option {
	return func(d *Document) {
		d.ctx = ctx
	}
}

// NewDocument creates an empty document that upgrades tags found in reg.
func NewDocument(reg *Registry, opts ...Option) *Document {
	root, _ := html.Parse(strings.NewReader(""))
	d := &Document{
		reg:       reg,
		root:      root,
		instances: make(map[*html.Node]*Instance),
		bound:     make(map[*html.Node][]*binding),
		serial:    make(map[string]int),
		ctx:       context.Background(),
		maxPasses: DefaultMaxFlushPasses,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	if d.diags == nil {
		d.diags = diag.NewLogger(d.log)
	}
	if d.obs == nil {
		d.obs = NopObserver{}
	}
	return d
}

// Load replaces the document with markup read from r. Instances of the old
// tree are detached and forgotten; registered tags in the new tree are
// attached.
func (d *Document) Load(r io.Reader) error {
	root, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("element: parse markup: %w", err)
	}
	d.Batch(func() {
		d.root = root
		clear(d.instances)
	})
	return nil
}

// LoadString is Load for a string.
func (d *Document) LoadString(markup string) error {
	return d.Load(strings.NewReader(markup))
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Body returns the <body> element.
func (d *Document) Body() *html.Node {
	var find func(*html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.Data == "body" {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if b := find(c); b != nil {
				return b
			}
		}
		return nil
	}
	return find(d.root)
}

// Append moves child to the end of parent's children. A nil parent means
// the body.
func (d *Document) Append(parent, child *html.Node) error {
	return d.InsertBefore(parent, child, nil)
}

// InsertBefore moves child into parent before ref; a nil ref appends.
func (d *Document) InsertBefore(parent, child, ref *html.Node) error {
	if parent == nil {
		parent = d.Body()
	}
	if child == nil || parent == nil {
		return fmt.Errorf("element: insert: nil node")
	}
	if ref != nil && ref.Parent != parent {
		return fmt.Errorf("element: insert: reference node is not a child of <%s>", parent.Data)
	}
	for p := parent; p != nil; p = p.Parent {
		if p == child {
			return fmt.Errorf("element: insert: node would contain itself")
		}
	}
	d.Batch(func() {
		if child.Parent != nil {
			child.Parent.RemoveChild(child)
		}
		parent.InsertBefore(child, ref)
	})
	return nil
}

// AppendHTML parses markup in the context of parent and appends the
// resulting nodes. It returns the appended top-level nodes.
func (d *Document) AppendHTML(parent *html.Node, markup string) ([]*html.Node, error) {
	if parent == nil {
		parent = d.Body()
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		return nil, fmt.Errorf("element: parse fragment: %w", err)
	}
	d.Batch(func() {
		for _, n := range nodes {
			parent.AppendChild(n)
		}
	})
	return nodes, nil
}

// Remove takes node out of the tree. Instances inside it are detached but
// remembered, so inserting the same node again re-adopts them.
func (d *Document) Remove(node *html.Node) {
	if node == nil || node.Parent == nil {
		return
	}
	d.Batch(func() {
		node.Parent.RemoveChild(node)
	})
}

// SetAttribute sets an attribute on node. When node hosts an attached
// instance and the attribute is declared, only that attribute is
// re-coerced into state.
func (d *Document) SetAttribute(node *html.Node, name, value string) {
	name = strings.ToLower(name)
	d.Batch(func() {
		setAttr(node, name, value)
		d.rebindAttribute(node, name, value, true)
	})
}

// RemoveAttribute removes an attribute from node and re-coerces it as
// absent.
func (d *Document) RemoveAttribute(node *html.Node, name string) {
	name = strings.ToLower(name)
	d.Batch(func() {
		removeAttr(node, name)
		d.rebindAttribute(node, name, "", false)
	})
}

func (d *Document) rebindAttribute(node *html.Node, name, value string, present bool) {
	inst := d.instances[node]
	if inst == nil || inst.phase != PhaseAttached {
		return
	}
	spec, ok := inst.def.schema.Lookup(name)
	if !ok {
		return
	}
	v, w := attr.BindOne(inst.def.tag, spec, value, present)
	if w != nil {
		d.reportCoercion(w)
	}
	inst.state.Set(name, v)
}

// Query returns every node matching the CSS selector, in document order.
func (d *Document) Query(selector string) ([]*html.Node, error) {
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("element: selector %q: %w", selector, err)
	}
	return cascadia.QueryAll(d.root, sel), nil
}

// QueryOne returns the first node matching selector.
func (d *Document) QueryOne(selector string) (*html.Node, error) {
	nodes, err := d.Query(selector)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: nothing matches %q", ErrNoTarget, selector)
	}
	return nodes[0], nil
}

// Instance returns the instance hosted by node, in any phase.
func (d *Document) Instance(node *html.Node) *Instance {
	return d.instances[node]
}

// Instances returns the attached instances in document order.
func (d *Document) Instances() []*Instance {
	var out []*Instance
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if inst := d.instances[n]; inst != nil && inst.phase == PhaseAttached {
			out = append(out, inst)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
	return out
}

// BindingCount returns the number of handlers bound across the document.
func (d *Document) BindingCount() int {
	n := 0
	for _, list := range d.bound {
		n += len(list)
	}
	return n
}

// Render writes the whole document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// HTML returns the serialised document.
func (d *Document) HTML() string {
	var buf bytes.Buffer
	d.Render(&buf)
	return buf.String()
}

// BodyHTML returns the serialised children of <body>.
func (d *Document) BodyHTML() string {
	body := d.Body()
	if body == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		html.Render(&buf, c)
	}
	return buf.String()
}

func (d *Document) contains(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == d.root {
			return true
		}
	}
	return false
}

func (d *Document) report(dg diag.Diagnostic) {
	d.diags.Report(dg)
	d.obs.Diagnosed(dg)
}

func (d *Document) reportCoercion(w *attr.CoercionWarning) {
	code := diag.CodeInvalidAttribute
	if w.Missing {
		code = diag.CodeMissingAttribute
	}
	d.report(diag.Diagnostic{
		Code:    code,
		Tag:     w.Tag,
		Problem: w.Problem(),
		Example: w.Example,
		Attr:    w.Attr,
		Err:     w,
	})
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

func rawAttrs(n *html.Node) attr.Raw {
	raw := make(attr.Raw, len(n.Attr))
	for _, a := range n.Attr {
		if a.Namespace == "" {
			raw[a.Key] = a.Val
		}
	}
	return raw
}
