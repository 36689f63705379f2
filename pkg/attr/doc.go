// Package attr is the attribute binding engine.
//
// A component declares a Schema: an ordered list of attribute Specs, each
// with a name, a coercion Kind and a default. Binding turns the raw strings
// found on a markup element into typed values:
//
//	schema := attr.Schema{
//	    attr.Int("count", 0),
//	    attr.Enum("role", "member", "member", "admin", "guest"),
//	    attr.String("user-id", "").Require(),
//	    attr.Bool("compact"),
//	}
//	values, warnings := schema.Bind("user-profile", attr.Raw{"count": "x"})
//
// Coercion is pure and total. Invalid input never fails: the declared
// default is used and a *CoercionWarning names the attribute and shows an
// example of correct markup.
//
// State holds the resulting values plus derived keys for one instance;
// every effective write calls the change hook, which the element runtime
// uses to request a coalesced render.
package attr
