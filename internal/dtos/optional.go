package dtos

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Optional tells an omitted JSON field apart from an explicit null.
// Set is false when the key was absent; Null is true when it was null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(b, &o.Value)
}

// Present reports a non-null value.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

// Ptr returns nil for null or absent, else a copy of the value.
func (o Optional[T]) Ptr() *T {
	if !o.Present() {
		return nil
	}
	v := o.Value
	return &v
}

// Some builds a present Optional; handy in tests and internal callers.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null builds an explicit-null Optional.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FlexTime accepts RFC3339 timestamps, naive ISO timestamps (read as UTC)
// and bare dates.
type FlexTime struct {
	time.Time
}

func (t *FlexTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("time must be a string: %w", err)
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t FlexTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time)
}

// ParseTime tries each accepted layout in turn.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
