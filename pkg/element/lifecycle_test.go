package element

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/vango-dev/tagkit/pkg/attr"
	"github.com/vango-dev/tagkit/pkg/diag"
	"github.com/vango-dev/tagkit/pkg/vdom"
)

func TestAttachSeedsAndPaints(t *testing.T) {
	obs := &recordingObserver{}
	doc, rec := newDoc(t, `<main><click-counter count="4" step="2"></click-counter></main>`,
		[]*Definition{counterDef()}, WithObserver(obs))

	inst := only(t, doc)
	if inst.Phase() != PhaseAttached {
		t.Fatalf("Phase = %v", inst.Phase())
	}
	if inst.State().Int("count") != 4 || inst.State().Int("step") != 2 {
		t.Errorf("state = %v", inst.State().Snapshot())
	}
	if inst.Renders() != 1 || inst.Pending() {
		t.Errorf("renders=%d pending=%v after attach", inst.Renders(), inst.Pending())
	}
	if inst.ScopeID() != "click-counter-1" {
		t.Errorf("ScopeID = %q", inst.ScopeID())
	}
	if inst.Bindings() != 1 {
		t.Errorf("Bindings = %d, want 1", inst.Bindings())
	}
	if rec.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", rec.All())
	}

	html := doc.BodyHTML()
	for _, want := range []string{
		`<click-counter count="4" step="2" data-tk-host="click-counter-1">`,
		`<span class="count" data-tk-scope="click-counter-1">4</span>`,
		`.count[data-tk-scope="click-counter-1"] { font-weight: bold; }`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("document missing %q:\n%s", want, html)
		}
	}
	if len(obs.transitions) != 1 || obs.transitions[0] != "click-counter:attached" {
		t.Errorf("transitions = %v", obs.transitions)
	}
}

func TestSiblingScopesAreIsolated(t *testing.T) {
	doc, _ := newDoc(t, `<click-counter></click-counter><click-counter count="9"></click-counter>`,
		[]*Definition{counterDef()})

	insts := doc.Instances()
	if len(insts) != 2 {
		t.Fatalf("got %d instances", len(insts))
	}
	a, b := insts[0], insts[1]
	if a.ScopeID() == b.ScopeID() {
		t.Fatalf("instances share scope %s", a.ScopeID())
	}
	if strings.Contains(a.Output(), b.ScopeID()) || strings.Contains(b.Output(), a.ScopeID()) {
		t.Error("output of one instance references the other's scope")
	}

	if err := doc.Dispatch(nodeIn(t, doc, b, "button.inc"), "click", ""); err != nil {
		t.Fatal(err)
	}
	if a.State().Int("count") != 0 || b.State().Int("count") != 10 {
		t.Errorf("a=%d b=%d", a.State().Int("count"), b.State().Int("count"))
	}
	if a.Renders() != 1 || b.Renders() != 2 {
		t.Errorf("renders a=%d b=%d", a.Renders(), b.Renders())
	}
}

func TestDetachAndReadopt(t *testing.T) {
	var detached int
	def := MustDefine("x-note",
		Attrs(attr.String("title", "Untitled")),
		Render(func(s attr.Reader, _ *RenderContext) (*vdom.VNode, error) {
			return vdom.Section(vdom.H2(s.String("title")), vdom.Slot()), nil
		}),
		OnDetach(func(inst *Instance) error {
			detached++
			inst.State().Set("seen", true)
			return nil
		}),
	)
	obs := &recordingObserver{}
	doc, _ := newDoc(t, `<x-note title="A"><p class="light">hello</p></x-note>`, []*Definition{def}, WithObserver(obs))

	inst := only(t, doc)
	host := inst.Host()
	light, err := doc.QueryOne("p.light")
	if err != nil {
		t.Fatal(err)
	}
	if light.Parent == host {
		t.Fatal("light content should be projected into the section")
	}
	ctx := inst.Context()

	doc.Remove(host)
	if inst.Phase() != PhaseDetached || detached != 1 {
		t.Fatalf("phase=%v detached=%d", inst.Phase(), detached)
	}
	if ctx.Err() == nil {
		t.Error("instance context should be cancelled on detach")
	}
	if host.FirstChild != light || light.NextSibling != nil {
		t.Error("detach should restore the original light content only")
	}
	if _, ok := inst.Attribute("data-tk-host"); ok {
		t.Error("host stamp should be removed on detach")
	}
	if inst.Bindings() != 0 || inst.ScopeID() != "" {
		t.Error("detach should release bindings and scope")
	}
	if len(doc.Instances()) != 0 {
		t.Error("no instance should remain attached")
	}

	host.Attr = nil
	if err := doc.Append(nil, host); err != nil {
		t.Fatal(err)
	}
	if doc.Instance(host) != inst {
		t.Fatal("re-inserted host should re-adopt the same instance")
	}
	if inst.Phase() != PhaseAttached {
		t.Fatalf("phase = %v", inst.Phase())
	}
	if inst.ScopeID() != "x-note-2" {
		t.Errorf("re-adoption should get a fresh scope, got %q", inst.ScopeID())
	}
	if inst.State().String("title") != "Untitled" {
		t.Errorf("attributes should be re-seeded, title = %q", inst.State().String("title"))
	}
	if !inst.State().Bool("seen") {
		t.Error("derived state should survive re-adoption")
	}
	if light.Parent == host || !doc.contains(light) {
		t.Error("light content should be projected again")
	}

	want := []string{"x-note:attached", "x-note:detached", "x-note:attached"}
	if strings.Join(obs.transitions, ",") != strings.Join(want, ",") {
		t.Errorf("transitions = %v", obs.transitions)
	}
}

func TestHookFailuresAreContained(t *testing.T) {
	errBoom := errors.New("boom")
	def := MustDefine("x-fragile",
		Render(func(attr.Reader, *RenderContext) (*vdom.VNode, error) { return vdom.P("ok"), nil }),
		OnAttach(func(*Instance) error { return errBoom }),
		OnDetach(func(*Instance) error { panic("detach exploded") }),
	)
	doc, rec := newDoc(t, `<x-fragile></x-fragile>`, []*Definition{def})

	inst := only(t, doc)
	if !strings.Contains(inst.Output(), "<p") {
		t.Errorf("instance should still render after a failing hook: %q", inst.Output())
	}

	doc.Remove(inst.Host())
	if inst.Phase() != PhaseDetached {
		t.Fatal("detach must complete despite a panicking hook")
	}

	hooks := rec.WithCode(diag.CodeHookFailed)
	if len(hooks) != 2 {
		t.Fatalf("got %d hook diagnostics, want 2: %v", len(hooks), rec.All())
	}
	var herr *HookError
	if !errors.As(hooks[0].Err, &herr) || herr.Hook != "attach" || !errors.Is(herr, errBoom) {
		t.Errorf("attach diagnostic = %+v", hooks[0])
	}
	if !hooks[1].Matches(ErrPanic) {
		t.Errorf("detach diagnostic should wrap ErrPanic: %+v", hooks[1])
	}
	if hooks[0].Tag != "x-fragile" || hooks[0].Example == "" {
		t.Errorf("diagnostic shape = %+v", hooks[0])
	}
}

func TestRenderFailureKeepsStaleOutput(t *testing.T) {
	def := MustDefine("x-flaky",
		Attrs(attr.Bool("broken"), attr.String("label", "ok")),
		Render(func(s attr.Reader, _ *RenderContext) (*vdom.VNode, error) {
			if s.Bool("broken") {
				return nil, errors.New("cannot draw")
			}
			return vdom.Button(vdom.Class("b"), s.String("label")), nil
		}),
		On("button.b", "click", func(e *Event) error { return nil }),
	)
	doc, rec := newDoc(t, `<x-flaky id="a"></x-flaky><click-counter></click-counter>`, []*Definition{def, counterDef()})

	flaky := doc.Instances()[0]
	before := doc.BodyHTML()
	bindings := flaky.Bindings()

	doc.Batch(func() {
		doc.SetAttribute(flaky.Host(), "label", "changed")
		doc.SetAttribute(flaky.Host(), "broken", "")
	})

	if flaky.Renders() != 2 {
		t.Errorf("renders = %d, want 2", flaky.Renders())
	}
	fails := rec.WithCode(diag.CodeRenderFailed)
	if len(fails) != 1 {
		t.Fatalf("got %d render diagnostics, want 1", len(fails))
	}
	var rerr *RenderError
	if !errors.As(fails[0].Err, &rerr) || rerr.Scope != "x-flaky-1" {
		t.Errorf("diagnostic = %+v", fails[0])
	}
	after := doc.BodyHTML()
	if !strings.Contains(after, ">ok</button>") {
		t.Errorf("stale output should remain:\n%s", after)
	}
	if flaky.Bindings() != bindings {
		t.Error("bindings should be kept after a failed render")
	}
	if strings.Replace(before, `data-tk-host="x-flaky-1"`, `data-tk-host="x-flaky-1" label="changed" broken=""`, 1) != after {
		t.Errorf("only the host attributes should change:\nbefore %s\nafter  %s", before, after)
	}

	// Sibling is untouched and keeps working.
	if err := doc.DispatchSelector("click-counter button.inc", "click", ""); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(doc.BodyHTML(), `data-tk-scope="click-counter-1">1</span>`) {
		t.Error("sibling should still render")
	}
}

func TestRenderPanicIsContained(t *testing.T) {
	def := MustDefine("x-panic", Render(func(attr.Reader, *RenderContext) (*vdom.VNode, error) {
		panic("render exploded")
	}))
	doc, rec := newDoc(t, `<x-panic>fallback</x-panic>`, []*Definition{def})

	inst := only(t, doc)
	if inst.Phase() != PhaseAttached {
		t.Error("instance should stay attached")
	}
	if d := rec.WithCode(diag.CodeRenderFailed); len(d) != 1 || !d[0].Matches(ErrPanic) {
		t.Errorf("diagnostics = %v", rec.All())
	}
	if !strings.Contains(doc.BodyHTML(), ">fallback</x-panic>") {
		t.Errorf("host content should be left in place:\n%s", doc.BodyHTML())
	}
}

func TestFailedPaintIsRetried(t *testing.T) {
	obs := &recordingObserver{}
	doc, rec := newDoc(t, `<click-counter count="1"></click-counter>`, []*Definition{counterDef()}, WithObserver(obs))
	inst := only(t, doc)

	parseFragment = func(io.Reader, *html.Node) ([]*html.Node, error) {
		return nil, errors.New("broken output")
	}
	t.Cleanup(func() { parseFragment = html.ParseFragment })

	doc.Batch(func() { inst.State().Set("count", 7) })
	if len(rec.WithCode(diag.CodeRenderFailed)) != 1 {
		t.Fatalf("diagnostics = %v", rec.All())
	}
	if got := nodeIn(t, doc, inst, "span.count").FirstChild.Data; got != "1" {
		t.Errorf("count after failed paint = %q, want previous output", got)
	}

	parseFragment = html.ParseFragment
	obs.results = nil
	doc.Batch(inst.RequestRender)

	if len(obs.results) != 1 || obs.results[0] != RenderPainted {
		t.Errorf("results = %v, want a repaint of the same output", obs.results)
	}
	if got := nodeIn(t, doc, inst, "span.count").FirstChild.Data; got != "7" {
		t.Errorf("count = %q, want 7", got)
	}
}

func TestNestedInstances(t *testing.T) {
	item := MustDefine("x-item",
		Attrs(attr.String("name", "")),
		Render(func(s attr.Reader, _ *RenderContext) (*vdom.VNode, error) {
			return vdom.Li(s.String("name")), nil
		}),
	)
	list := MustDefine("x-list",
		Attrs(attr.Int("n", 2)),
		Render(func(s attr.Reader, _ *RenderContext) (*vdom.VNode, error) {
			return vdom.Ul(vdom.Repeat(s.Int("n"), func(i int) *vdom.VNode {
				return vdom.El("x-item", vdom.AttrOf("name", string(rune('a'+i))))
			})), nil
		}),
	)
	doc, _ := newDoc(t, `<x-list></x-list>`, []*Definition{list, item})

	if got := len(doc.Instances()); got != 3 {
		t.Fatalf("got %d instances, want 3", got)
	}
	items, _ := doc.Query("x-item")
	second := doc.Instance(items[1])

	doc.SetAttribute(doc.Instances()[0].Host(), "n", "1")

	if got := len(doc.Instances()); got != 2 {
		t.Errorf("got %d instances after shrinking, want 2", got)
	}
	if second.Phase() != PhaseDetached {
		t.Errorf("removed nested instance phase = %v", second.Phase())
	}
}

func TestRepaintForgetsDiscardedHosts(t *testing.T) {
	inner := MustDefine("inner-x",
		Render(func(attr.Reader, *RenderContext) (*vdom.VNode, error) {
			return vdom.Span("inner"), nil
		}),
	)
	outer := MustDefine("outer-x",
		Attrs(attr.Int("n", 0)),
		Render(func(s attr.Reader, _ *RenderContext) (*vdom.VNode, error) {
			return vdom.Div(vdom.Textf("%d", s.Int("n")), vdom.El("inner-x")), nil
		}),
	)
	doc, _ := newDoc(t, `<outer-x></outer-x>`, []*Definition{outer, inner})
	host := doc.Instances()[0].Host()

	for i := 1; i <= 100; i++ {
		doc.SetAttribute(host, "n", strconv.Itoa(i))
	}

	if got := len(doc.Instances()); got != 2 {
		t.Errorf("attached instances = %d, want 2", got)
	}
	if got := len(doc.instances); got != 2 {
		t.Errorf("instance records = %d after repeated repaints, want 2", got)
	}

	if err := doc.LoadString(`<p>plain</p>`); err != nil {
		t.Fatal(err)
	}
	if got := len(doc.instances); got != 0 {
		t.Errorf("instance records = %d after Load, want 0", got)
	}
}

func TestLoadReplacesDocument(t *testing.T) {
	doc, _ := newDoc(t, `<click-counter></click-counter>`, []*Definition{counterDef()})
	old := only(t, doc)

	if err := doc.LoadString(`<p>plain</p>`); err != nil {
		t.Fatal(err)
	}
	if old.Phase() != PhaseDetached {
		t.Error("instances of the previous tree should be detached")
	}
	if len(doc.Instances()) != 0 {
		t.Error("new tree has no components")
	}
}

func TestAppendHTMLAndInsertBefore(t *testing.T) {
	doc, _ := newDoc(t, `<p id="anchor">x</p>`, []*Definition{counterDef()})

	nodes, err := doc.AppendHTML(nil, `<click-counter count="1"></click-counter>`)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 || doc.Instance(nodes[0]) == nil {
		t.Fatal("appended tag should be upgraded")
	}

	anchor, _ := doc.QueryOne("#anchor")
	if err := doc.InsertBefore(doc.Body(), nodes[0], anchor); err != nil {
		t.Fatal(err)
	}
	if doc.Body().FirstChild != nodes[0] {
		t.Error("InsertBefore should move the host first")
	}
	if doc.Instance(nodes[0]).Phase() != PhaseAttached {
		t.Error("moving within the document keeps the instance attached")
	}

	if err := doc.InsertBefore(doc.Body(), nodes[0], nodes[0].FirstChild); err == nil {
		t.Error("reference outside parent should fail")
	}
	if err := doc.Append(nodes[0], doc.Body()); err == nil {
		t.Error("inserting an ancestor into its descendant should fail")
	}
}
