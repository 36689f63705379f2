package components

import (
	"context"
	"fmt"

	"github.com/vango-dev/tagkit/pkg/attr"
	"github.com/vango-dev/tagkit/pkg/element"
	"github.com/vango-dev/tagkit/pkg/toast"
	. "github.com/vango-dev/tagkit/pkg/vdom"
)

const maxSlots = 24

var dayNames = map[string]string{
	"mon": "Monday",
	"tue": "Tuesday",
	"wed": "Wednesday",
	"thu": "Thursday",
	"fri": "Friday",
	"sat": "Saturday",
	"sun": "Sunday",
}

// SchedulePicker defines <schedule-picker day slots start-hour>. Choosing
// a slot selects it and announces the choice from a deferred task, which
// runs ahead of the render in the same flush, so one render shows both.
func SchedulePicker() *element.Definition {
	return element.MustDefine("schedule-picker",
		element.Attrs(
			attr.Enum("day", "mon", "mon", "tue", "wed", "thu", "fri", "sat", "sun"),
			attr.Int("slots", 4),
			attr.Int("start-hour", 9),
		),
		element.Style(`
.slots { list-style: none; padding: 0; display: flex; flex-wrap: wrap; gap: 0.25rem; }
.slot.selected { background: #2563eb; color: #fff; }
`),
		element.Render(renderSchedule),
		element.On("button.slot", "click", selectSlot),
		element.On("button.clear", "click", func(e *element.Event) error {
			e.State().Set("selected", "")
			toast.Dismiss(e.State())
			return nil
		}),
		element.OnDetach(func(inst *element.Instance) error {
			inst.State().Set("selected", "")
			toast.Dismiss(inst.State())
			return nil
		}),
	)
}

func slotLabel(start, i int) string {
	return fmt.Sprintf("%02d:00", ((start+i)%24+24)%24)
}

func renderSchedule(s attr.Reader, _ *element.RenderContext) (*VNode, error) {
	day := s.String("day")
	start := s.Int("start-hour")
	selected := s.String("selected")
	n := clamp(s.Int("slots"), 0, maxSlots)

	return Section(Class("schedule"), Data("day", day),
		H3(dayNames[day]),
		IfElse(n == 0,
			P(Class("empty"), "No slots available"),
			Ul(Class("slots"),
				Repeat(n, func(i int) *VNode {
					label := slotLabel(start, i)
					return Li(Button(Class("slot"), ClassIf(label == selected, "selected"),
						Type("button"), Data("slot", label), AriaPressed(label == selected),
						label,
					))
				}),
			),
		),
		If(selected != "", Button(Class("clear"), Type("button"), "Clear selection")),
		toast.Region(s),
	), nil
}

func selectSlot(e *element.Event) error {
	label := e.Attr("data-slot")
	if label == "" {
		return fmt.Errorf("slot button without data-slot")
	}
	s := e.State()
	s.Set("selected", label)

	day := dayNames[s.String("day")]
	e.Instance().Defer(func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		toast.Info(s, fmt.Sprintf("Selected %s on %s", label, day))
		return nil
	})
	return nil
}
