package components

import (
	"github.com/vango-dev/tagkit/pkg/attr"
	"github.com/vango-dev/tagkit/pkg/element"
	. "github.com/vango-dev/tagkit/pkg/vdom"
)

// UserProfile defines <user-profile user-id name role compact>. Without a
// user-id it renders a placeholder card.
func UserProfile() *element.Definition {
	return element.MustDefine("user-profile",
		element.Attrs(
			attr.String("user-id", "").Require().WithUsage(`<user-profile user-id="42" name="Ada Lovelace"></user-profile>`),
			attr.String("name", "Anonymous"),
			attr.Enum("role", "member", "member", "admin", "guest"),
			attr.Bool("compact"),
		),
		element.Style(`
.profile { border: 1px solid #ddd; border-radius: 8px; padding: 1rem; }
.profile.compact { padding: 0.25rem 0.5rem; }
.placeholder { color: #888; font-style: italic; }
.role { font-size: 0.75rem; text-transform: uppercase; }
.follow[aria-pressed="true"] { font-weight: bold; }
`),
		element.Render(renderProfile),
		element.On("button.follow", "click", func(e *element.Event) error {
			s := e.State()
			if s.Toggle("following") {
				s.Add("followers", 1)
			} else {
				s.Add("followers", -1)
			}
			return nil
		}),
	)
}

func renderProfile(s attr.Reader, ctx *element.RenderContext) (*VNode, error) {
	id := s.String("user-id")
	if id == "" {
		return Div(Class("profile", "placeholder"), Role("status"),
			P("Profile unavailable"),
			Small("Set the user-id attribute to show a profile."),
		), nil
	}

	compact := s.Bool("compact")
	following := s.Bool("following")
	return Article(Class("profile"), ClassIf(compact, "compact"), Data("user", id),
		Header(
			H3(Class("name"), s.String("name")),
			Span(Class("role"), s.String("role")),
		),
		When(!compact && ctx.HasLightContent(), func() *VNode {
			return P(Class("bio"), Slot())
		}),
		Footer(
			Span(Class("followers"), Textf("%d followers", s.Int("followers"))),
			Button(Class("follow"), Type("button"), AriaPressed(following),
				IfElse(following, Text("Following"), Text("Follow")),
			),
		),
	), nil
}
