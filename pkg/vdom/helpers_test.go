package vdom

import "testing"

func TestText(t *testing.T) {
	node := Text("Hello, World!")

	if node.Kind != KindText {
		t.Errorf("Kind = %v, want KindText", node.Kind)
	}
	if node.Text != "Hello, World!" {
		t.Errorf("Text = %v, want 'Hello, World!'", node.Text)
	}
}

func TestTextf(t *testing.T) {
	node := Textf("Count: %d", 42)

	if node.Text != "Count: 42" {
		t.Errorf("Text = %v, want 'Count: 42'", node.Text)
	}
}

func TestRaw(t *testing.T) {
	node := Raw("<strong>Bold</strong>")

	if node.Kind != KindRaw {
		t.Errorf("Kind = %v, want KindRaw", node.Kind)
	}
	if node.Text != "<strong>Bold</strong>" {
		t.Errorf("Text = %v", node.Text)
	}
}

func TestSlot(t *testing.T) {
	if Slot().Kind != KindSlot {
		t.Error("Slot should have KindSlot")
	}
}

func TestFragment(t *testing.T) {
	node := Fragment(Div(), nil, []*VNode{Span(), nil}, "tail")
	if node.Kind != KindFragment {
		t.Errorf("Kind = %v, want KindFragment", node.Kind)
	}
	if len(node.Children) != 3 {
		t.Errorf("Children len = %v, want 3", len(node.Children))
	}
}

func TestConditionals(t *testing.T) {
	a, b := Span(), P()

	if If(true, a) != a || If(false, a) != nil {
		t.Error("If")
	}
	if IfElse(true, a, b) != a || IfElse(false, a, b) != b {
		t.Error("IfElse")
	}

	called := false
	if When(false, func() *VNode { called = true; return a }) != nil || called {
		t.Error("When(false) must not call fn")
	}
	if When(true, func() *VNode { return a }) != a {
		t.Error("When(true)")
	}
}

func TestRange(t *testing.T) {
	items := []string{"mon", "", "wed"}
	nodes := Range(items, func(s string, i int) *VNode {
		if s == "" {
			return nil
		}
		return Li(Textf("%d:%s", i, s))
	})
	if len(nodes) != 2 {
		t.Fatalf("len = %d, want 2", len(nodes))
	}
	if nodes[1].Children[0].Text != "2:wed" {
		t.Errorf("second = %q", nodes[1].Children[0].Text)
	}
}

func TestRepeat(t *testing.T) {
	if Repeat(0, func(int) *VNode { return Br() }) != nil {
		t.Error("Repeat(0) should be nil")
	}
	if got := len(Repeat(4, func(int) *VNode { return Br() })); got != 4 {
		t.Errorf("Repeat(4) len = %d", got)
	}
}

func TestFragmentFlattens(t *testing.T) {
	inner := Fragment(Span(), "x")
	node := Fragment(Div(), inner, Class("ignored"))
	if len(node.Children) != 3 {
		t.Fatalf("Children len = %d, want 3", len(node.Children))
	}
	if node.Children[1].Tag != "span" || node.Children[2].Text != "x" {
		t.Errorf("children = %+v", node.Children)
	}

	// Fragments inside elements stay intact.
	el := Div(inner)
	if len(el.Children) != 1 || el.Children[0].Kind != KindFragment {
		t.Errorf("element children = %+v", el.Children)
	}
}
