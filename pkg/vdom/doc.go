// Package vdom provides the visual description a component's render
// function returns.
//
// VNode is the building block: elements, text, fragments, raw markup and
// slots. Props holds element attributes. Trees are built with variadic
// factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H2(Text("Title")),
//	    P(Textf("%d plays", n)),
//	    Slot(),
//	)
//
// A VNode tree carries no behaviour. Event handlers are declared on the
// component definition and bound to the painted output by selector, so the
// same state always yields the same tree.
//
// Slot marks where the host element's original content is projected.
package vdom
