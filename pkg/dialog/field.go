package dialog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Field names, used as keys in validation errors and non-interactive input
const (
	FieldGraph        = "graph"
	FieldStrategy     = "strategy"
	FieldFireSources  = "num_roots"
	FieldFirefighters = "num_ffs"
	FieldFrequency    = "ff_frequency"
)

// Validator checks the live text of a field
type Validator func(value string) error

// Required rejects empty values
func Required(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("is required")
	}
	return nil
}

// Integer rejects values that do not parse as a base-10 integer.
// Empty values pass; combine with Required.
func Integer(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	if _, err := strconv.Atoi(strings.TrimSpace(value)); err != nil {
		return errors.New("must be an integer")
	}
	return nil
}

// Min rejects integers below n. Non-integers pass; combine with Integer.
func Min(n int) Validator {
	return func(value string) error {
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil
		}
		if v < n {
			return fmt.Errorf("must be at least %d", n)
		}
		return nil
	}
}

// Field is a form control bound to the dialog: it holds the latest text
// the user entered and the result of validating it.
type Field struct {
	Name    string
	Label   string
	Default string

	value      string
	validators []Validator
	err        error
}

func newField(name, label, def string, validators ...Validator) *Field {
	f := &Field{
		Name:       name,
		Label:      label,
		Default:    def,
		validators: validators,
	}
	f.Set(def)
	return f
}

// Set replaces the field value and re-runs its validators
func (f *Field) Set(value string) {
	f.value = value
	f.err = nil
	for _, v := range f.validators {
		if err := v(value); err != nil {
			f.err = err
			return
		}
	}
}

// Value returns the current text of the field
func (f *Field) Value() string { return f.value }

// Int returns the value as an integer, or 0 when it does not parse
func (f *Field) Int() int {
	v, err := strconv.Atoi(strings.TrimSpace(f.value))
	if err != nil {
		return 0
	}
	return v
}

// Err returns the first validation failure, or nil
func (f *Field) Err() error { return f.err }

// Valid reports whether the current value passes all validators
func (f *Field) Valid() bool { return f.err == nil }
