package vdom

import "testing"

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindRaw, "Raw"},
		{KindSlot, "Slot"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAttrIsEmpty(t *testing.T) {
	if !(Attr{}).IsEmpty() {
		t.Error("zero Attr should be empty")
	}
	if (Attr{Key: "id"}).IsEmpty() {
		t.Error("keyed Attr should not be empty")
	}
}

func TestWalk(t *testing.T) {
	tree := Div(
		Span("a"),
		Ul(Li("b"), Li("c")),
	)

	var tags []string
	tree.Walk(func(n *VNode) bool {
		if n.Kind == KindElement {
			tags = append(tags, n.Tag)
		}
		return true
	})
	want := []string{"div", "span", "ul", "li", "li"}
	if len(tags) != len(want) {
		t.Fatalf("visited %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}

	var count int
	tree.Walk(func(n *VNode) bool {
		count++
		return n.Tag != "ul"
	})
	// div, span, text "a", ul
	if count != 4 {
		t.Errorf("pruned walk visited %d nodes, want 4", count)
	}

	var nilNode *VNode
	nilNode.Walk(func(*VNode) bool {
		t.Error("nil node should not be visited")
		return true
	})
}

func TestHasSlot(t *testing.T) {
	if Div(P("x")).HasSlot() {
		t.Error("tree without slot reported one")
	}
	if !Div(Section(Slot())).HasSlot() {
		t.Error("nested slot not found")
	}
}
