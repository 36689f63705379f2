// Package errors provides structured, actionable error messages for tagkit.
//
// Every error carries a code that maps to a short message, a longer
// explanation and a documentation URL. Component diagnostics additionally
// carry the tag they refer to and an example of correct markup:
//
//	err := errors.New(errors.CodeMissingAttribute).
//	    WithTag("user-profile").
//	    WithMessage(`missing required attribute "user-id"`).
//	    WithExample(`<user-profile user-id="42"></user-profile>`)
//
//	fmt.Println(err.FormatWarning())
//	// WARNING TK102: missing required attribute "user-id"
//	//
//	//   <user-profile>
//	//
//	//   The component needs this attribute to identify what it shows. ...
//	//
//	//   Example:
//	//     <user-profile user-id="42"></user-profile>
//
// # Error Codes
//
//   - TK100-TK119: component diagnostics (attributes, hooks, renders, events)
//   - TK120-TK139: configuration
//   - TK140-TK159: command line
//
// Formats: Format/FormatWarning for terminals, FormatCompact for single-line
// logs, FormatJSON for machine consumption.
package errors
