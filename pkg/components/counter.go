package components

import (
	"github.com/vango-dev/tagkit/pkg/attr"
	"github.com/vango-dev/tagkit/pkg/element"
	. "github.com/vango-dev/tagkit/pkg/vdom"
)

// ClickCounter defines <click-counter count step label>.
func ClickCounter() *element.Definition {
	return element.MustDefine("click-counter",
		element.Attrs(
			attr.Int("count", 0),
			attr.Int("step", 1),
			attr.String("label", "Clicks"),
		),
		element.Style(`
:host { display: inline-block; }
.counter { display: inline-flex; align-items: center; gap: 0.5rem; }
.count { font-variant-numeric: tabular-nums; min-width: 2ch; text-align: right; }
`),
		element.Render(renderCounter),
		element.On("button.inc", "click", func(e *element.Event) error {
			e.State().Add("count", e.State().Int("step"))
			return nil
		}),
		element.On("button.reset", "click", resetCounter),
	)
}

func renderCounter(s attr.Reader, _ *element.RenderContext) (*VNode, error) {
	count := s.Int("count")
	return Div(Class("counter"),
		Span(Class("label"), s.String("label")),
		Span(Class("count"), AriaLive("polite"), Textf("%d", count)),
		Button(Class("inc"), Type("button"), AriaLabel("Increment"), Textf("+%d", s.Int("step"))),
		Button(Class("reset"), Type("button"), "Reset"),
	), nil
}

// resetCounter restores the count the host markup started with.
func resetCounter(e *element.Event) error {
	inst := e.Instance()
	spec, _ := inst.Definition().Schema().Lookup("count")
	raw, present := inst.Attribute("count")
	v, _ := attr.BindOne(inst.Tag(), spec, raw, present)
	e.State().Set("count", v)
	return nil
}
