package attr

import (
	"errors"
	"fmt"
)

// Schema is the ordered list of attributes a component declares.
type Schema []Spec

// Raw holds the attribute strings present on a markup element. A key that
// is present with an empty value is still present.
type Raw map[string]string

// Values maps attribute names to coerced values.
type Values map[string]any

// Lookup returns the spec for name.
func (s Schema) Lookup(name string) (Spec, bool) {
	for _, spec := range s {
		if spec.Name == name {
			return spec, true
		}
	}
	return Spec{}, false
}

// Names returns the declared attribute names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, spec := range s {
		names[i] = spec.Name
	}
	return names
}

// Validate checks for duplicate or non-lowercase names and defaults that do
// not match their declared kind.
func (s Schema) Validate() error {
	seen := make(map[string]bool, len(s))
	for _, spec := range s {
		if err := spec.validate(); err != nil {
			return err
		}
		if seen[spec.Name] {
			return fmt.Errorf("attr: attribute %q declared twice", spec.Name)
		}
		seen[spec.Name] = true
	}
	return nil
}

// Bind coerces every declared attribute from raw. It is pure and total:
// every declared attribute gets a value, and each attribute that had to
// fall back to its default contributes exactly one warning.
func (s Schema) Bind(tag string, raw Raw) (Values, []*CoercionWarning) {
	values := make(Values, len(s))
	var warnings []*CoercionWarning

	for _, spec := range s {
		v, present := raw[spec.Name]
		value, w := BindOne(tag, spec, v, present)
		values[spec.Name] = value
		if w != nil {
			warnings = append(warnings, w)
		}
	}

	return values, warnings
}

// BindOne coerces a single attribute and wraps any failure in a warning.
func BindOne(tag string, spec Spec, raw string, present bool) (any, *CoercionWarning) {
	value, err := spec.Coerce(raw, present)
	if err == nil {
		return value, nil
	}
	return value, &CoercionWarning{
		Tag:     tag,
		Attr:    spec.Name,
		Raw:     raw,
		Missing: errors.Is(err, ErrMissing),
		Default: spec.Default,
		Example: spec.ExampleFor(tag),
		Err:     err,
	}
}

// CoercionWarning reports an attribute that could not be coerced and was
// replaced by its declared default. It is never fatal.
type CoercionWarning struct {
	Tag     string
	Attr    string
	Raw     string
	Missing bool
	Default any
	Example string
	Err     error
}

// Error implements the error interface.
func (w *CoercionWarning) Error() string {
	return fmt.Sprintf("<%s>: %s", w.Tag, w.Problem())
}

// Problem describes the failure without naming the tag.
func (w *CoercionWarning) Problem() string {
	if w.Missing {
		return fmt.Sprintf("missing required attribute %q, using default %#v", w.Attr, w.Default)
	}
	return fmt.Sprintf("invalid value %q for attribute %q, using default %#v", w.Raw, w.Attr, w.Default)
}

// Unwrap returns the underlying coercion error.
func (w *CoercionWarning) Unwrap() error {
	return w.Err
}
