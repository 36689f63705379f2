package element

import (
	"io"
	"log/slog"
	"testing"

	"golang.org/x/net/html"

	"github.com/vango-dev/tagkit/pkg/attr"
	"github.com/vango-dev/tagkit/pkg/diag"
	"github.com/vango-dev/tagkit/pkg/render"
	"github.com/vango-dev/tagkit/pkg/vdom"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func counterDef() *Definition {
	return MustDefine("click-counter",
		Attrs(attr.Int("count", 0), attr.Int("step", 1)),
		Style(".count { font-weight: bold }"),
		Render(func(s attr.Reader, _ *RenderContext) (*vdom.VNode, error) {
			return vdom.Div(vdom.Class("wrap"),
				vdom.Span(vdom.Class("count"), vdom.Textf("%d", s.Int("count"))),
				vdom.Button(vdom.Class("inc"), "+"),
			), nil
		}),
		On("button.inc", "click", func(e *Event) error {
			e.State().Add("count", e.State().Int("step"))
			return nil
		}),
	)
}

type recordingObserver struct {
	NopObserver
	scheduled   int
	coalesced   int
	results     []RenderResult
	transitions []string
	flushes     []FlushInfo
	diagnosed   int
}

func (o *recordingObserver) RenderRequested(_ string, coalesced bool) {
	if coalesced {
		o.coalesced++
	} else {
		o.scheduled++
	}
}

func (o *recordingObserver) Rendered(info RenderInfo) {
	o.results = append(o.results, info.Result)
}

func (o *recordingObserver) Transition(tag string, phase Phase) {
	o.transitions = append(o.transitions, tag+":"+phase.String())
}

func (o *recordingObserver) Flushed(info FlushInfo) {
	o.flushes = append(o.flushes, info)
}

func (o *recordingObserver) Diagnosed(diag.Diagnostic) {
	o.diagnosed++
}

func newDoc(t *testing.T, markup string, defs []*Definition, opts ...Option) (*Document, *diag.Recorder) {
	t.Helper()
	reg := NewRegistry()
	for _, def := range defs {
		if err := Register(reg, def); err != nil {
			t.Fatalf("Register(%s): %v", def.Tag(), err)
		}
	}
	rec := diag.NewRecorder()
	opts = append([]Option{WithDiagnostics(rec), WithLogger(quiet)}, opts...)
	doc := NewDocument(reg, opts...)
	if err := doc.LoadString(markup); err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	return doc, rec
}

func only(t *testing.T, doc *Document) *Instance {
	t.Helper()
	insts := doc.Instances()
	if len(insts) != 1 {
		t.Fatalf("got %d instances, want 1", len(insts))
	}
	return insts[0]
}

// nodeIn returns the first node matching selector painted by inst.
func nodeIn(t *testing.T, doc *Document, inst *Instance, selector string) *html.Node {
	t.Helper()
	nodes, err := doc.Query(selector)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range nodes {
		if v, _ := getAttr(n, render.ScopeAttr); v == inst.ScopeID() {
			return n
		}
	}
	t.Fatalf("no %q in scope %s", selector, inst.ScopeID())
	return nil
}
