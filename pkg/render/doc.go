// Package render serialises visual descriptions to HTML and owns the
// isolated visual scope of a component instance.
//
// To render a VNode tree to a string:
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// Output is deterministic: attributes are sorted, text and attribute
// values are escaped, void elements have no closing tag and boolean
// attributes render as bare names.
//
// # Scopes
//
// A Scope renders on behalf of one instance. Every element it writes is
// stamped with data-tk-scope="<tag>-<n>", and the component style sheet
// is rewritten by ScopeCSS so that its rules only match stamped elements:
//
//	.count { font-weight: bold }
//	→ .count[data-tk-scope="click-counter-1"] { font-weight: bold }
//
// Scope.Commit compares a projection with the previous paint so callers
// can skip repainting identical output.
//
// # Security
//
// All text content is escaped by default. Raw nodes are written verbatim
// and should only carry trusted content.
package render
