// Package registry provides the process-wide tag table.
//
// A Registry maps a component tag name to its definition. Registration is
// one-way: a name can be registered once, is never removed, and a second
// registration under the same name fails with *DuplicateTagError while the
// first entry stays resolvable.
//
//	reg := registry.New[*element.Definition]()
//	if err := reg.Register("click-counter", def); err != nil {
//	    // errors.Is(err, registry.ErrDuplicateTag)
//	}
//	def, err := reg.Resolve("click-counter")
//
// The registry is created explicitly and passed to whatever needs it; there
// is no package-level default instance.
package registry
