package render

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// groupingAtRules contain nested rules that are scoped recursively. Other
// block at-rules (@keyframes, @font-face, @page) pass through unscoped.
var groupingAtRules = map[string]bool{
	"media":     true,
	"supports":  true,
	"container": true,
	"layer":     true,
	"document":  true,
}

// ScopeCSS rewrites a style sheet so its rules only match elements stamped
// with scopeID. The last compound of every selector gains
// [data-tk-scope="id"]; ":host" and ":host(sel)" address the host element
// through [data-tk-host="id"]. Comments are dropped and the sheet is
// reprinted one rule per line. Malformed declarations are skipped.
func ScopeCSS(sheet, scopeID string) string {
	if strings.TrimSpace(sheet) == "" {
		return ""
	}
	s := &scoper{id: scopeID}
	s.run(css.NewParser(parse.NewInputString(sheet), false))
	return strings.TrimSpace(s.b.String())
}

// cssBlock is an open at-rule or ruleset while the sheet is reprinted.
type cssBlock struct {
	ruleset  bool
	grouping bool

	// raw collects the body of at-rules the parser does not understand,
	// as plain tokens.
	raw     *strings.Builder
	prelude string
}

type scoper struct {
	id    string
	b     strings.Builder
	stack []cssBlock
}

func (s *scoper) run(p *css.Parser) {
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.HasParseError() {
				continue
			}
			s.closeAll()
			return
		case css.CommentGrammar:
		case css.TokenGrammar:
			if top := s.top(); top != nil && top.raw != nil {
				top.raw.Write(data)
			}
		case css.AtRuleGrammar:
			s.b.WriteString(joinTokens(string(data), p.Values()))
			s.b.WriteString(";\n")
		case css.BeginAtRuleGrammar:
			s.beginAtRule(string(data), p.Values())
		case css.EndAtRuleGrammar:
			s.endAtRule()
		case css.BeginRulesetGrammar:
			sel := tokenText(p.Values())
			if s.scoped() {
				sel = scopeSelectorList(sel, s.id)
			}
			s.b.WriteString(sel)
			s.b.WriteString(" {")
			s.stack = append(s.stack, cssBlock{ruleset: true})
		case css.EndRulesetGrammar:
			s.b.WriteString(" }\n")
			s.pop()
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			s.declaration(string(data), strings.TrimSpace(tokenText(p.Values())))
		}
	}
}

// parsedAtRules are the block at-rules whose bodies the parser breaks into
// rules or declarations. Bodies of any other at-rule arrive as raw tokens.
var parsedAtRules = map[string]bool{
	"document":  true,
	"font-face": true,
	"keyframes": true,
	"layer":     true,
	"media":     true,
	"page":      true,
	"supports":  true,
}

func (s *scoper) beginAtRule(name string, prelude []css.Token) {
	head := joinTokens(name, prelude)
	rule := unprefixed(name)
	block := cssBlock{grouping: groupingAtRules[rule]}
	if parsedAtRules[rule] {
		s.b.WriteString(head)
		s.b.WriteString(" {\n")
	} else {
		block.raw = &strings.Builder{}
		block.prelude = head
	}
	s.stack = append(s.stack, block)
}

// unprefixed returns an at-rule name without "@" and without a vendor
// prefix such as "-webkit-".
func unprefixed(name string) string {
	name = strings.TrimPrefix(name, "@")
	if strings.HasPrefix(name, "-") {
		if i := strings.IndexByte(name[1:], '-'); i >= 0 {
			return name[i+2:]
		}
	}
	return name
}

func (s *scoper) endAtRule() {
	top := s.top()
	if top == nil {
		return
	}
	if top.raw != nil {
		body := top.raw.String()
		if top.grouping && s.scopedWithin(len(s.stack)-1) {
			body = ScopeCSS(body, s.id)
		}
		s.b.WriteString(top.prelude)
		s.b.WriteString(" {\n")
		if body = strings.TrimSpace(body); body != "" {
			s.b.WriteString(body)
			s.b.WriteByte('\n')
		}
	}
	s.b.WriteString("}\n")
	s.pop()
}

func (s *scoper) declaration(name, value string) {
	if top := s.top(); top != nil && top.ruleset {
		s.b.WriteString(" " + name + ": " + value + ";")
		return
	}
	s.b.WriteString(name + ": " + value + ";\n")
}

// closeAll terminates blocks left open by a truncated sheet.
func (s *scoper) closeAll() {
	for len(s.stack) > 0 {
		if s.top().ruleset {
			s.b.WriteString(" }\n")
			s.pop()
			continue
		}
		s.endAtRule()
	}
}

func (s *scoper) top() *cssBlock {
	if len(s.stack) == 0 {
		return nil
	}
	return &s.stack[len(s.stack)-1]
}

func (s *scoper) pop() {
	if len(s.stack) > 0 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// scoped reports whether a ruleset opened now gets stamped: only when every
// enclosing at-rule is a grouping rule.
func (s *scoper) scoped() bool {
	return s.scopedWithin(len(s.stack))
}

func (s *scoper) scopedWithin(n int) bool {
	for _, blk := range s.stack[:n] {
		if !blk.grouping {
			return false
		}
	}
	return true
}

func tokenText(tokens []css.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.TokenType == css.DelimToken && len(t.Data) == 1 && t.Data[0] == '!' && b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.Write(t.Data)
	}
	return b.String()
}

func joinTokens(name string, tokens []css.Token) string {
	if rest := strings.TrimSpace(tokenText(tokens)); rest != "" {
		return name + " " + rest
	}
	return name
}

func scopeSelectorList(list, id string) string {
	parts := splitTopLevel(list, ',')
	for i, sel := range parts {
		parts[i] = scopeSelector(strings.TrimSpace(sel), id)
	}
	return strings.Join(parts, ", ")
}

func scopeSelector(sel, id string) string {
	if sel == "" {
		return sel
	}
	if rest, ok := strings.CutPrefix(sel, ":host"); ok && (rest == "" || !isIdentByte(rest[0])) {
		head := `[` + HostAttr + `="` + id + `"]`
		if strings.HasPrefix(rest, "(") {
			if end := matchParen(rest, 0); end > 0 {
				head += strings.TrimSpace(rest[1:end])
				rest = rest[end+1:]
			}
		}
		k := indexCombinator(rest)
		if k < 0 {
			return head + rest
		}
		return head + rest[:k] + stampLastCompound(rest[k:], id)
	}
	return stampLastCompound(sel, id)
}

// stampLastCompound adds the scope attribute to the last compound selector,
// ahead of any pseudo-element.
func stampLastCompound(sel, id string) string {
	stamp := `[` + ScopeAttr + `="` + id + `"]`

	start := 0
	depth := 0
	var quote byte
	for i := 0; i < len(sel); i++ {
		c := sel[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case depth == 0 && (isCSSSpace(c) || c == '>' || c == '+' || c == '~'):
			start = i + 1
		}
	}

	head, last := sel[:start], sel[start:]
	if p := pseudoElementIndex(last); p >= 0 {
		return head + last[:p] + stamp + last[p:]
	}
	return head + last + stamp
}

var legacyPseudoElements = []string{":before", ":after", ":first-line", ":first-letter"}

func pseudoElementIndex(compound string) int {
	if i := strings.Index(compound, "::"); i >= 0 {
		return i
	}
	for _, p := range legacyPseudoElements {
		if i := strings.Index(compound, p); i >= 0 {
			return i
		}
	}
	return -1
}

// indexCombinator returns the index of the first top-level combinator.
func indexCombinator(sel string) int {
	depth := 0
	for i := 0; i < len(sel); i++ {
		switch c := sel[i]; {
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case depth == 0 && (isCSSSpace(c) || c == '>' || c == '+' || c == '~'):
			return i
		}
	}
	return -1
}

func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	last := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case depth == 0 && c == sep:
			parts = append(parts, s[last:i])
			last = i + 1
		}
	}
	return append(parts, s[last:])
}

func isCSSSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isIdentByte(c byte) bool {
	return c == '-' || c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
