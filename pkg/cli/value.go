package cli

import (
	"encoding"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Setter is implemented by custom flag value types, in the manner of
// flag.Value.
type Setter interface {
	Set(string) error
}

// ParseValue converts a raw payload into T. Supported: string, bool, every
// int/uint width, float32/64, time.Duration, []string (comma separated) and
// pointer receivers implementing Setter or encoding.TextUnmarshaler.
func ParseValue[T any](raw string) (T, error) {
	var out T
	var err error
	switch p := any(&out).(type) {
	case *string:
		*p = raw
	case *bool:
		*p, err = strconv.ParseBool(raw)
	case *int:
		var n int64
		n, err = strconv.ParseInt(raw, 0, strconv.IntSize)
		*p = int(n)
	case *int8:
		var n int64
		n, err = strconv.ParseInt(raw, 0, 8)
		*p = int8(n)
	case *int16:
		var n int64
		n, err = strconv.ParseInt(raw, 0, 16)
		*p = int16(n)
	case *int32:
		var n int64
		n, err = strconv.ParseInt(raw, 0, 32)
		*p = int32(n)
	case *int64:
		*p, err = strconv.ParseInt(raw, 0, 64)
	case *uint:
		var n uint64
		n, err = strconv.ParseUint(raw, 0, strconv.IntSize)
		*p = uint(n)
	case *uint8:
		var n uint64
		n, err = strconv.ParseUint(raw, 0, 8)
		*p = uint8(n)
	case *uint16:
		var n uint64
		n, err = strconv.ParseUint(raw, 0, 16)
		*p = uint16(n)
	case *uint32:
		var n uint64
		n, err = strconv.ParseUint(raw, 0, 32)
		*p = uint32(n)
	case *uint64:
		*p, err = strconv.ParseUint(raw, 0, 64)
	case *float32:
		var n float64
		n, err = strconv.ParseFloat(raw, 32)
		*p = float32(n)
	case *float64:
		*p, err = strconv.ParseFloat(raw, 64)
	case *time.Duration:
		*p, err = time.ParseDuration(raw)
	case *[]string:
		if raw != "" {
			*p = strings.Split(raw, ",")
		} else {
			*p = []string{}
		}
	case Setter:
		err = p.Set(raw)
	case encoding.TextUnmarshaler:
		err = p.UnmarshalText([]byte(raw))
	default:
		return out, fmt.Errorf("unsupported flag value type %T", out)
	}
	return out, err
}

func isBool[T any]() bool {
	var zero T
	_, ok := any(zero).(bool)
	return ok
}

// Typed binds a value type to a flag so handlers read it without restating
// the type at each call site.
type Typed[T any] struct {
	*Flag
}

// NewTyped creates a flag whose payload converts to T. Non-bool types take a
// value.
func NewTyped[T any](name string, opts ...FlagOption) Typed[T] {
	f := NewFlag(name, opts...)
	if !isBool[T]() {
		f.takesValue = true
	}
	return Typed[T]{Flag: f}
}

// Get returns the flag's typed value, or false when absent or unparsable.
func (t Typed[T]) Get(ctx *Context) (T, bool) {
	return Get[T](ctx, t.name)
}

// Value returns the flag's typed value or a classified error.
func (t Typed[T]) Value(ctx *Context) (T, error) {
	return Value[T](ctx, t.name)
}
