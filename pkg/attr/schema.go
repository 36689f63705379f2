package attr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind selects the coercion rule applied to a raw attribute string.
type Kind uint8

const (
	KindString Kind = iota // passthrough
	KindInt                // whole number
	KindFloat              // decimal number
	KindBool               // presence test
	KindEnum               // one of a fixed set of options
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

var (
	// ErrMissing is wrapped by coercion errors for absent required attributes.
	ErrMissing = errors.New("attr: required attribute missing")

	// ErrInvalid is wrapped by coercion errors for values that fail to parse.
	ErrInvalid = errors.New("attr: invalid attribute value")
)

// Spec declares one attribute: its name, coercion rule and default.
type Spec struct {
	Name     string
	Kind     Kind
	Default  any
	Required bool

	// Options lists the accepted values for KindEnum.
	Options []string

	// Usage overrides the synthesized usage example shown in diagnostics.
	Usage string
}

// String declares a passthrough attribute.
func String(name, def string) Spec {
	return Spec{Name: name, Kind: KindString, Default: def}
}

// Int declares a whole-number attribute.
func Int(name string, def int) Spec {
	return Spec{Name: name, Kind: KindInt, Default: def}
}

// Float declares a decimal attribute.
func Float(name string, def float64) Spec {
	return Spec{Name: name, Kind: KindFloat, Default: def}
}

// Bool declares a presence attribute: present means true.
func Bool(name string) Spec {
	return Spec{Name: name, Kind: KindBool, Default: false}
}

// Enum declares an attribute restricted to options. def should be one of them.
func Enum(name, def string, options ...string) Spec {
	return Spec{Name: name, Kind: KindEnum, Default: def, Options: options}
}

// Require marks the attribute as required.
func (s Spec) Require() Spec {
	s.Required = true
	return s
}

// WithUsage sets the usage example shown when the attribute is misused.
func (s Spec) WithUsage(example string) Spec {
	s.Usage = example
	return s
}

// Coerce converts a raw attribute value. present reports whether the
// attribute exists on the element at all. The returned value is always
// usable: on error it is the declared default.
func (s Spec) Coerce(raw string, present bool) (any, error) {
	if s.Kind == KindBool {
		return present, nil
	}

	if !present {
		if s.Required {
			return s.Default, fmt.Errorf("%w: %q", ErrMissing, s.Name)
		}
		return s.Default, nil
	}

	value := strings.TrimSpace(raw)

	switch s.Kind {
	case KindString:
		if s.Required && value == "" {
			return s.Default, fmt.Errorf("%w: %q is empty", ErrMissing, s.Name)
		}
		return raw, nil

	case KindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return s.Default, fmt.Errorf("%w: %q must be a whole number, got %q", ErrInvalid, s.Name, raw)
		}
		return n, nil

	case KindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return s.Default, fmt.Errorf("%w: %q must be a number, got %q", ErrInvalid, s.Name, raw)
		}
		return f, nil

	case KindEnum:
		for _, opt := range s.Options {
			if strings.EqualFold(opt, value) {
				return opt, nil
			}
		}
		return s.Default, fmt.Errorf("%w: %q must be one of %s, got %q",
			ErrInvalid, s.Name, strings.Join(s.Options, "|"), raw)
	}

	return s.Default, fmt.Errorf("%w: %q has unknown kind %d", ErrInvalid, s.Name, s.Kind)
}

// ExampleFor returns markup showing correct use of the attribute on tag.
func (s Spec) ExampleFor(tag string) string {
	if s.Usage != "" {
		return s.Usage
	}
	if s.Kind == KindBool {
		return fmt.Sprintf("<%s %s></%s>", tag, s.Name, tag)
	}
	return fmt.Sprintf(`<%s %s="%s"></%s>`, tag, s.Name, s.sample(), tag)
}

func (s Spec) sample() string {
	switch s.Kind {
	case KindInt:
		if n, ok := s.Default.(int); ok && n != 0 {
			return strconv.Itoa(n)
		}
		return "1"
	case KindFloat:
		if f, ok := s.Default.(float64); ok && f != 0 {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return "0.5"
	case KindEnum:
		if len(s.Options) > 0 {
			return s.Options[0]
		}
	case KindString:
		if d, ok := s.Default.(string); ok && d != "" {
			return d
		}
	}
	return "value"
}

// validate checks the name and that the default matches the declared kind.
// Names must be lowercase because markup attribute keys are lowercased
// when parsed.
func (s Spec) validate() error {
	if s.Name == "" {
		return errors.New("attr: spec without a name")
	}
	if strings.ContainsAny(s.Name, " \t\n\f\r\"'/=>") {
		return fmt.Errorf("attr: invalid attribute name %q", s.Name)
	}
	if lower := strings.ToLower(s.Name); lower != s.Name {
		return fmt.Errorf("attr: attribute name %q must be lowercase, declare %q", s.Name, lower)
	}
	var ok bool
	switch s.Kind {
	case KindString:
		_, ok = s.Default.(string)
	case KindInt:
		_, ok = s.Default.(int)
	case KindFloat:
		_, ok = s.Default.(float64)
	case KindBool:
		_, ok = s.Default.(bool)
	case KindEnum:
		var def string
		def, ok = s.Default.(string)
		if ok && len(s.Options) == 0 {
			return fmt.Errorf("attr: enum %q has no options", s.Name)
		}
		if ok {
			found := false
			for _, opt := range s.Options {
				if opt == def {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("attr: enum %q default %q is not an option", s.Name, def)
			}
		}
	}
	if !ok {
		return fmt.Errorf("attr: %q default %v (%T) does not match kind %s", s.Name, s.Default, s.Default, s.Kind)
	}
	return nil
}
