// Package tktest provides helpers for testing components.
//
// A Harness owns a registry, a document and a diagnostic recorder. Load
// markup, drive events, then assert on the serialised document, on
// instance state and on the diagnostics that were reported.
//
//	func TestCounter(t *testing.T) {
//	    h := tktest.New(t, `<click-counter count="2"></click-counter>`, components.ClickCounter())
//
//	    h.Click("button.inc")
//	    h.ExpectState(h.Instance("click-counter"), "count", 3)
//	    h.ExpectContains(">3</span>")
//	    h.ExpectNoDiagnostics()
//	}
//
// Every event helper is one unit of work, so renders have already run when
// it returns. Use Batch to group several events into one unit:
//
//	h.Batch(func() {
//	    h.Click("button.inc")
//	    h.Click("button.inc")
//	})
//
// Assertion failures report the document HTML, truncated to keep logs
// readable.
package tktest
