package tktest

import (
	"errors"
	"strings"
	"testing"

	"github.com/vango-dev/tagkit/pkg/attr"
	"github.com/vango-dev/tagkit/pkg/diag"
	"github.com/vango-dev/tagkit/pkg/element"
	"github.com/vango-dev/tagkit/pkg/vdom"
)

func likeButton() *element.Definition {
	return element.MustDefine("like-button",
		element.Attrs(attr.Int("likes", 0), attr.String("label", "Like")),
		element.Render(func(s attr.Reader, _ *element.RenderContext) (*vdom.VNode, error) {
			return vdom.Button(vdom.Class("like"), vdom.AriaPressed(s.Int("likes") > 0),
				vdom.Textf("%s (%d)", s.String("label"), s.Int("likes")),
			), nil
		}),
		element.On("button.like", "click", func(e *element.Event) error {
			if e.Data == "fail" {
				return errors.New("rate limited")
			}
			e.State().Add("likes", 1)
			return nil
		}),
	)
}

func TestHarnessDrivesDocument(t *testing.T) {
	h := New(t, `<like-button likes="2" label="Love"></like-button>`, likeButton())

	h.ExpectContains("Love (2)")
	h.ExpectElement("like-button button.like")
	h.ExpectAttribute("button.like", "aria-pressed", "true")

	h.Click("button.like")
	h.ExpectState(h.Instance("like-button"), "likes", 3)
	if got := h.Text("like-button"); got != "Love (3)" {
		t.Errorf("Text = %q", got)
	}
	h.ExpectNotContains("Love (2)")
	h.ExpectNoDiagnostics()
}

func TestHarnessBatchCoalesces(t *testing.T) {
	h := New(t, `<like-button></like-button>`, likeButton())
	inst := h.Instance("like-button")

	h.Batch(func() {
		h.Click("button.like")
		h.Click("button.like")
	})
	if inst.Renders() != 2 {
		t.Errorf("renders = %d, want initial + 1", inst.Renders())
	}
	h.ExpectState(inst, "likes", 2)
}

func TestHarnessDiagnostics(t *testing.T) {
	h := New(t, `<like-button likes="many"></like-button>`, likeButton())

	got := h.ExpectDiagnostics(diag.CodeInvalidAttribute)
	if len(got) != 1 || got[0].Attr != "likes" {
		t.Fatalf("diagnostics = %v", got)
	}
	h.ExpectNoDiagnostics()

	h.Fire("button.like", "click", "fail")
	h.ExpectDiagnostics(diag.CodeHandlerFailed)
}

func TestHarnessInstances(t *testing.T) {
	h := New(t, `<like-button></like-button><p>plain</p><like-button></like-button>`, likeButton())
	if n := len(h.Instances("like-button")); n != 2 {
		t.Errorf("instances = %d, want 2", n)
	}
	if h.Instances("user-profile") != nil {
		t.Error("unknown tag should have no instances")
	}
	if h.Document() == nil || h.Registry() == nil || h.Diagnostics() == nil {
		t.Error("accessors should not be nil")
	}
	if !h.Registry().Has("like-button") {
		t.Error("registry should hold like-button")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 3); got != "abc..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("ab", 3); got != "ab" {
		t.Errorf("truncate = %q", got)
	}
	if !strings.HasSuffix(truncate(strings.Repeat("x", 600), 500), "...") {
		t.Error("long output should be truncated")
	}
}
