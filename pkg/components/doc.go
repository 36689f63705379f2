// Package components contains ready-made component definitions:
//
//   - click-counter: a counter with increment and reset buttons
//   - user-profile: a profile card with a follow toggle
//   - music-player: an audio player with volume control and liner notes
//   - schedule-picker: a day of hourly slots to choose from
//
// Register adds all of them to a registry:
//
//	reg := element.NewRegistry()
//	if err := components.Register(reg); err != nil {
//	    return err
//	}
//	doc := element.NewDocument(reg)
//
// Each constructor returns a fresh *element.Definition, so a definition
// can also be registered on its own.
package components
