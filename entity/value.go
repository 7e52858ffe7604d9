package entity

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Value wraps a field value and provides type conversion helpers.
type Value struct {
	Raw any
}

// String returns the value as a string.
func (v Value) String() string {
	if v.Raw == nil {
		return ""
	}
	return fmt.Sprintf("%v", v.Raw)
}

// Int returns the value as an int.
func (v Value) Int() (int, error) {
	i, ok := v.Raw.(int64)
	if !ok {
		return 0, errors.Errorf("value is not an int64: %T", v.Raw)
	}
	return int(i), nil
}

// Bool returns the value as a bool.
func (v Value) Bool() (bool, error) {
	b, ok := v.Raw.(bool)
	if !ok {
		return false, errors.Errorf("value is not a bool: %T", v.Raw)
	}
	return b, nil
}

// Time returns the value as a time.Time.
func (v Value) Time() (time.Time, error) {
	t, ok := v.Raw.(time.Time)
	if !ok {
		return time.Time{}, errors.Errorf("value is not a time.Time: %T", v.Raw)
	}
	return t, nil
}

// Row is a single grid row: an identifier plus values keyed by column field.
type Row struct {
	Id     string
	Values map[string]Value
}

// NewRow builds a row from raw field values.
func NewRow(id string, raw map[string]any) Row {
	values := make(map[string]Value, len(raw))
	for field, val := range raw {
		values[field] = Value{Raw: val}
	}
	return Row{Id: id, Values: values}
}

// Get returns the value for a field, zero Value when absent.
func (r Row) Get(field string) Value {
	return r.Values[field]
}

// Clone returns a deep-enough copy; Value wraps immutable scalars.
func (r Row) Clone() Row {
	values := make(map[string]Value, len(r.Values))
	for field, val := range r.Values {
		values[field] = val
	}
	return Row{Id: r.Id, Values: values}
}

// With returns a copy of the row with one field replaced.
func (r Row) With(field string, raw any) Row {
	out := r.Clone()
	out.Values[field] = Value{Raw: raw}
	return out
}
