package main

import (
	"regexp"

	tkerrors "github.com/vango-dev/tagkit/internal/errors"
)

// eventFlagPattern splits selector:event[=data]. The event name follows the
// last colon, so selectors may use pseudo-classes.
var eventFlagPattern = regexp.MustCompile(`^(.+):([a-zA-Z][a-zA-Z0-9_-]*)(?:=(.*))?$`)

type eventFlag struct {
	Selector string
	Event    string
	Data     string
}

func parseEventFlag(s string) (eventFlag, error) {
	m := eventFlagPattern.FindStringSubmatch(s)
	if m == nil {
		return eventFlag{}, tkerrors.New(tkerrors.CodeBadEventFlag).
			WithDetail("Cannot parse --event " + s).
			WithExample(`--event "click-counter button.inc:click"` + "\n" + `--event "input.name:change=Ada"`)
	}
	return eventFlag{Selector: m[1], Event: m[2], Data: m[3]}, nil
}
