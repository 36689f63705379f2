package tktest

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/vango-dev/tagkit/pkg/diag"
	"github.com/vango-dev/tagkit/pkg/element"
)

// Harness drives one document under test.
type Harness struct {
	t    testing.TB
	reg  *element.Registry
	doc  *element.Document
	diag *diag.Recorder
}

// New registers defs in a fresh registry and loads markup.
func New(t testing.TB, markup string, defs ...*element.Definition) *Harness {
	t.Helper()
	reg := element.NewRegistry()
	for _, def := range defs {
		if err := element.Register(reg, def); err != nil {
			t.Fatalf("tktest: register %s: %v", def.Tag(), err)
		}
	}
	return FromRegistry(t, reg, markup)
}

// FromRegistry loads markup into a document backed by reg. Diagnostics go
// to the harness recorder; logs are discarded unless opts override them.
func FromRegistry(t testing.TB, reg *element.Registry, markup string, opts ...element.Option) *Harness {
	t.Helper()
	rec := diag.NewRecorder()
	base := []element.Option{
		element.WithDiagnostics(rec),
		element.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	doc := element.NewDocument(reg, append(base, opts...)...)
	if err := doc.LoadString(markup); err != nil {
		t.Fatalf("tktest: load markup: %v", err)
	}
	return &Harness{t: t, reg: reg, doc: doc, diag: rec}
}

// Document returns the document under test.
func (h *Harness) Document() *element.Document { return h.doc }

// Registry returns the registry the document resolves tags from.
func (h *Harness) Registry() *element.Registry { return h.reg }

// Diagnostics returns the recorder that collects reported diagnostics.
func (h *Harness) Diagnostics() *diag.Recorder { return h.diag }

// HTML returns the serialised body content.
func (h *Harness) HTML() string { return h.doc.BodyHTML() }

// Batch runs fn as one unit of work.
func (h *Harness) Batch(fn func()) { h.doc.Batch(fn) }

// Instances returns the attached instances of tag in document order.
func (h *Harness) Instances(tag string) []*element.Instance {
	var out []*element.Instance
	for _, inst := range h.doc.Instances() {
		if inst.Tag() == tag {
			out = append(out, inst)
		}
	}
	return out
}

// Instance returns the first attached instance of tag and fails the test
// when there is none.
func (h *Harness) Instance(tag string) *element.Instance {
	h.t.Helper()
	insts := h.Instances(tag)
	if len(insts) == 0 {
		h.t.Fatalf("no attached <%s> in:\n%s", tag, truncate(h.HTML(), 500))
	}
	return insts[0]
}

// Find returns the first node matching selector and fails the test when
// there is none.
func (h *Harness) Find(selector string) *html.Node {
	h.t.Helper()
	n, err := h.doc.QueryOne(selector)
	if err != nil {
		h.t.Fatalf("find %q: %v\n%s", selector, err, truncate(h.HTML(), 500))
	}
	return n
}

// Text returns the whitespace-normalised text of the first node matching
// selector.
func (h *Harness) Text(selector string) string {
	h.t.Helper()
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(h.Find(selector))
	return strings.Join(strings.Fields(b.String()), " ")
}

// Fire dispatches event with data to the first node matching selector.
func (h *Harness) Fire(selector, event, data string) {
	h.t.Helper()
	if err := h.doc.Dispatch(h.Find(selector), event, data); err != nil {
		h.t.Fatalf("dispatch %s on %q: %v", event, selector, err)
	}
}

// Click dispatches a click to the first node matching selector.
//
// Example:
//
//	h.Click("click-counter button.inc")
func (h *Harness) Click(selector string) {
	h.t.Helper()
	h.Fire(selector, "click", "")
}

// ExpectContains asserts that the document contains expected.
//
// Example:
//
//	h.ExpectContains("Profile unavailable")
func (h *Harness) ExpectContains(expected string) {
	h.t.Helper()
	out := h.HTML()
	if !strings.Contains(out, expected) {
		h.t.Errorf("expected document to contain %q, got:\n%s", expected, truncate(out, 500))
	}
}

// ExpectNotContains asserts that the document does not contain unexpected.
func (h *Harness) ExpectNotContains(unexpected string) {
	h.t.Helper()
	out := h.HTML()
	if strings.Contains(out, unexpected) {
		h.t.Errorf("expected document to NOT contain %q, got:\n%s", unexpected, truncate(out, 500))
	}
}

// ExpectElement asserts that at least one node matches selector.
//
// Example:
//
//	h.ExpectElement("user-profile .placeholder")
func (h *Harness) ExpectElement(selector string) {
	h.t.Helper()
	nodes, err := h.doc.Query(selector)
	if err != nil {
		h.t.Fatalf("query %q: %v", selector, err)
	}
	if len(nodes) == 0 {
		h.t.Errorf("expected an element matching %q, got:\n%s", selector, truncate(h.HTML(), 500))
	}
}

// ExpectAttribute asserts the value of an attribute on the first node
// matching selector.
//
// Example:
//
//	h.ExpectAttribute("button.toggle", "aria-pressed", "true")
func (h *Harness) ExpectAttribute(selector, name, value string) {
	h.t.Helper()
	n := h.Find(selector)
	for _, a := range n.Attr {
		if a.Key == name {
			if a.Val != value {
				h.t.Errorf("%s[%s] = %q, want %q", selector, name, a.Val, value)
			}
			return
		}
	}
	h.t.Errorf("%s has no attribute %s", selector, name)
}

// ExpectState asserts one state value of inst.
func (h *Harness) ExpectState(inst *element.Instance, key string, want any) {
	h.t.Helper()
	got, _ := inst.State().Get(key)
	if diff := cmp.Diff(want, got); diff != "" {
		h.t.Errorf("<%s> state %q mismatch (-want +got):\n%s", inst.Tag(), key, diff)
	}
}

// ExpectDiagnostics asserts the codes of every diagnostic reported so far,
// in order, then clears the recorder.
//
// Example:
//
//	h.ExpectDiagnostics(diag.CodeMissingAttribute)
func (h *Harness) ExpectDiagnostics(codes ...string) []diag.Diagnostic {
	h.t.Helper()
	got := h.diag.Drain()
	gotCodes := make([]string, 0, len(got))
	for _, d := range got {
		gotCodes = append(gotCodes, d.Code)
	}
	if codes == nil {
		codes = []string{}
	}
	if diff := cmp.Diff(codes, gotCodes); diff != "" {
		h.t.Errorf("diagnostic codes mismatch (-want +got):\n%s\nreported: %v", diff, got)
	}
	return got
}

// ExpectNoDiagnostics asserts that nothing has been reported.
func (h *Harness) ExpectNoDiagnostics() {
	h.t.Helper()
	h.ExpectDiagnostics()
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
