package components

import (
	"github.com/vango-dev/tagkit/pkg/attr"
	"github.com/vango-dev/tagkit/pkg/element"
	"github.com/vango-dev/tagkit/pkg/toast"
	. "github.com/vango-dev/tagkit/pkg/vdom"
)

const volumeStep = 10

// MusicPlayer defines <music-player src title autoplay volume>. Light
// content is shown as liner notes.
func MusicPlayer() *element.Definition {
	return element.MustDefine("music-player",
		element.Attrs(
			attr.String("src", "").Require().WithUsage(`<music-player src="/audio/blue-train.mp3" title="Blue Train"></music-player>`),
			attr.String("title", "Untitled"),
			attr.Bool("autoplay"),
			attr.Int("volume", 80),
		),
		element.Style(`
figure { margin: 0; display: grid; gap: 0.5rem; }
.controls { display: flex; gap: 0.25rem; align-items: center; }
.notes { font-size: 0.875rem; color: #555; }
`),
		element.OnAttach(func(inst *element.Instance) error {
			if _, ok := inst.Attribute("autoplay"); ok {
				inst.State().Set("playing", true)
			}
			return nil
		}),
		element.Render(renderPlayer),
		element.On("button.toggle", "click", func(e *element.Event) error {
			e.State().Toggle("playing")
			return nil
		}),
		element.On("button.vol-up", "click", func(e *element.Event) error {
			return changeVolume(e.State(), volumeStep)
		}),
		element.On("button.vol-down", "click", func(e *element.Event) error {
			return changeVolume(e.State(), -volumeStep)
		}),
	)
}

func changeVolume(s *attr.State, delta int) error {
	cur := clamp(s.Int("volume"), 0, 100)
	next := clamp(cur+delta, 0, 100)
	if next == cur {
		if delta > 0 {
			toast.Warning(s, "Volume is already at maximum")
		} else {
			toast.Warning(s, "Volume is already muted")
		}
		return nil
	}
	toast.Dismiss(s)
	s.Set("volume", next)
	return nil
}

func renderPlayer(s attr.Reader, ctx *element.RenderContext) (*VNode, error) {
	src := s.String("src")
	if src == "" {
		return Div(Class("player", "placeholder"), Role("status"), P("No track selected")), nil
	}

	playing := s.Bool("playing")
	volume := clamp(s.Int("volume"), 0, 100)
	return Figure(Class("player"), ClassIf(playing, "playing"),
		Figcaption(Strong(Class("title"), s.String("title"))),
		Audio(Src(src), Autoplay(playing), Data("volume", volume)),
		Div(Class("controls"),
			Button(Class("toggle"), Type("button"), AriaPressed(playing),
				IfElse(playing, Text("Pause"), Text("Play")),
			),
			Button(Class("vol-down"), Type("button"), AriaLabel("Volume down"), Disabled(volume == 0), "-"),
			Progress(Class("volume"), Max(100), Value(volume)),
			Button(Class("vol-up"), Type("button"), AriaLabel("Volume up"), Disabled(volume == 100), "+"),
		),
		toast.Region(s),
		When(ctx.HasLightContent(), func() *VNode {
			return Div(Class("notes"), Slot())
		}),
	), nil
}
