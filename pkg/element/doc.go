// Package element is the component runtime: definitions, instances, the
// lifecycle controller, event wiring and the render scheduler.
//
// A component is declared once with Define and registered by tag name:
//
//	counter := element.MustDefine("click-counter",
//	    element.Attrs(attr.Int("count", 0), attr.Int("step", 1)),
//	    element.Style(".count { font-weight: bold }"),
//	    element.Render(func(s attr.Reader, _ *element.RenderContext) (*vdom.VNode, error) {
//	        return vdom.Div(
//	            vdom.Span(vdom.Class("count"), vdom.Textf("%d", s.Int("count"))),
//	            vdom.Button(vdom.Class("inc"), vdom.Text("+")),
//	        ), nil
//	    }),
//	    element.On("button.inc", "click", func(e *element.Event) error {
//	        e.State().Add("count", e.State().Int("step"))
//	        return nil
//	    }),
//	)
//	reg := element.NewRegistry()
//	element.Register(reg, counter)
//
// A Document parses markup and upgrades every registered tag into an
// Instance:
//
//	doc := element.NewDocument(reg, element.WithDiagnostics(rec))
//	doc.LoadString(`<click-counter count="2"></click-counter>`)
//	doc.DispatchSelector("click-counter button.inc", "click", "")
//
// # Lifecycle
//
// Instances move Unattached → Attached → Detached, and back to Attached
// when the same host node is inserted again. Attaching runs OnAttach,
// seeds state from the host attributes, creates the visual scope, renders
// and binds handlers. Detaching cancels the pending render and the
// instance context, unbinds handlers, restores the host's original
// content and runs OnDetach. Hook failures are reported as diagnostics
// and never abort the transition.
//
// # Scheduling
//
// State writes never render directly. They mark the instance pending;
// further writes in the same unit of work are coalesced. Load, Append,
// InsertBefore, Remove, SetAttribute, RemoveAttribute, Dispatch and Batch
// are units of work; when the outermost one completes the document
// flushes. With WithManualFlush, Flush is called explicitly instead.
// Writes made outside any unit wait for the next flush.
//
// # Events
//
// Handlers are bound by selector to the nodes painted by the instance
// itself. Every render pass unbinds and rebinds them, so handlers never
// leak or fire twice. Dispatch bubbles from the target to the root.
package element
