package vdom

import "fmt"

// Text creates an escaped text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

// Textf is Text with fmt.Sprintf formatting.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw inserts markup verbatim. Only pass trusted content.
func Raw(markup string) *VNode {
	return &VNode{Kind: KindRaw, Text: markup}
}

// Slot marks where the host element's original content is projected.
func Slot() *VNode {
	return &VNode{Kind: KindSlot}
}

// Fragment groups children without a wrapper element. Nested fragments
// are flattened into it; attribute arguments are ignored.
func Fragment(children ...any) *VNode {
	node := &VNode{Kind: KindFragment}
	for _, arg := range children {
		if _, isAttr := arg.(Attr); isAttr {
			continue
		}
		appendChild(node, arg)
	}
	return node
}

// appendChild adds a child argument to n. Strings become text nodes, nil
// values and nil nodes are skipped, and other types are ignored.
func appendChild(n *VNode, arg any) {
	switch v := arg.(type) {
	case string:
		n.Children = append(n.Children, Text(v))
	case *VNode:
		switch {
		case v == nil:
		case v.Kind == KindFragment && n.Kind == KindFragment:
			n.Children = append(n.Children, v.Children...)
		default:
			n.Children = append(n.Children, v)
		}
	case []*VNode:
		for _, c := range v {
			appendChild(n, c)
		}
	}
}

// If returns node when cond holds.
func If(cond bool, node *VNode) *VNode {
	if !cond {
		return nil
	}
	return node
}

// IfElse picks between two prebuilt nodes.
func IfElse(cond bool, then, otherwise *VNode) *VNode {
	if cond {
		return then
	}
	return otherwise
}

// When builds the node only when cond holds.
func When(cond bool, build func() *VNode) *VNode {
	if !cond {
		return nil
	}
	return build()
}

// Range maps items to nodes, dropping nil results.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	out := make([]*VNode, 0, len(items))
	for i := range items {
		if node := fn(items[i], i); node != nil {
			out = append(out, node)
		}
	}
	return out
}

// Repeat builds n nodes, dropping nil results. It returns nil for n <= 0.
func Repeat(n int, fn func(i int) *VNode) []*VNode {
	if n <= 0 {
		return nil
	}
	out := make([]*VNode, 0, n)
	for i := 0; i < n; i++ {
		if node := fn(i); node != nil {
			out = append(out, node)
		}
	}
	return out
}
