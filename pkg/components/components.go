package components

import "github.com/vango-dev/tagkit/pkg/element"

// All returns a fresh definition of every built-in component, sorted by tag.
func All() []*element.Definition {
	return []*element.Definition{
		ClickCounter(),
		MusicPlayer(),
		SchedulePicker(),
		UserProfile(),
	}
}

// Register adds every built-in component to reg. It fails on the first tag
// that is already registered.
func Register(reg *element.Registry) error {
	for _, def := range All() {
		if err := element.Register(reg, def); err != nil {
			return err
		}
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
