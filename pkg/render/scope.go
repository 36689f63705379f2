package render

import (
	"bytes"
	"fmt"

	"github.com/vango-dev/tagkit/pkg/vdom"
)

// Scope is the isolated visual scope of one component instance. It owns
// the scoped style sheet and remembers the last painted output so that a
// repaint with identical bytes can be skipped.
type Scope struct {
	id       string
	tag      string
	css      string
	renderer *Renderer
	last     []byte
	painted  bool
}

// NewScope creates a scope named "<tag>-<n>". The component style sheet is
// rewritten once so its rules only match elements stamped with the id.
func NewScope(tag string, n int, css string, config RendererConfig) *Scope {
	id := fmt.Sprintf("%s-%d", tag, n)
	r := NewRenderer(config)
	r.scope = id
	return &Scope{
		id:       id,
		tag:      tag,
		css:      ScopeCSS(css, id),
		renderer: r,
	}
}

// ID returns the scope id.
func (s *Scope) ID() string { return s.id }

// Tag returns the component tag that owns the scope.
func (s *Scope) Tag() string { return s.tag }

// CSS returns the scoped style sheet.
func (s *Scope) CSS() string { return s.css }

// Project renders node into the scope's output: the scoped <style> element
// followed by the stamped content. It does not change what Last returns.
func (s *Scope) Project(node *vdom.VNode) ([]byte, error) {
	var buf bytes.Buffer
	if s.css != "" {
		fmt.Fprintf(&buf, `<style %s="%s">%s</style>`, ScopeAttr, escapeAttr(s.id), escapeStyle(s.css))
	}
	if err := s.renderer.RenderToWriter(&buf, node); err != nil {
		return nil, fmt.Errorf("render: scope %s: %w", s.id, err)
	}
	return buf.Bytes(), nil
}

// Changed reports whether out differs from the last committed paint
// without recording it.
func (s *Scope) Changed(out []byte) bool {
	return !s.painted || !bytes.Equal(s.last, out)
}

// Commit records out as the current paint and reports whether it differs
// from the previous one. The first commit always reports a change.
func (s *Scope) Commit(out []byte) bool {
	if !s.Changed(out) {
		return false
	}
	s.last = append(s.last[:0], out...)
	s.painted = true
	return true
}

// Last returns the bytes of the most recent committed paint.
func (s *Scope) Last() []byte {
	return s.last
}

// Painted reports whether anything has been committed.
func (s *Scope) Painted() bool {
	return s.painted
}
