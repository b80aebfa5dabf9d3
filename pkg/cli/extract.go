package cli

import (
	"errors"
	"fmt"
)

// Extractor derives a typed value from a Context. Extraction never mutates
// the context.
type Extractor[T any] interface {
	Extract(ctx *Context) (T, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc[T any] func(ctx *Context) (T, error)

func (f ExtractorFunc[T]) Extract(ctx *Context) (T, error) { return f(ctx) }

// Args extracts a copy of the positional arguments.
func Args() Extractor[[]string] {
	return ExtractorFunc[[]string](func(ctx *Context) ([]string, error) {
		return append([]string{}, ctx.args...), nil
	})
}

// FlagValue extracts the named flag as T. An absent flag fails with
// KindMissingArgument; a bad payload with KindFlagValueParse.
func FlagValue[T any](name string) Extractor[T] {
	return ExtractorFunc[T](func(ctx *Context) (T, error) {
		return Value[T](ctx, name)
	})
}

// FlagOf extracts a typed flag.
func FlagOf[T any](f Typed[T]) Extractor[T] {
	return FlagValue[T](f.name)
}

// State extracts a copy of the shared state. The state may be stored as T
// or as *T; the latter is dereferenced, so T receives a shallow copy. Absent
// or mismatched state fails with KindValidation.
func State[T any]() Extractor[T] {
	return ExtractorFunc[T](func(ctx *Context) (T, error) {
		switch s := ctx.state.(type) {
		case T:
			return s, nil
		case *T:
			if s != nil {
				return *s, nil
			}
		}
		var zero T
		return zero, &Error{
			Kind:    KindValidation,
			Message: fmt.Sprintf("shared state not found or not of type %s", typeKey[T]()),
		}
	})
}

// Extension extracts a value a middleware stored with SetExtension. A missing
// value fails with KindMissingArgument.
func Extension[T any]() Extractor[T] {
	return ExtractorFunc[T](func(ctx *Context) (T, error) {
		v, ok := GetExtension[T](ctx)
		if !ok {
			return v, missingArgument("", fmt.Sprintf("extension of type %s not found", typeKey[T]()))
		}
		return v, nil
	})
}

// Optional turns the inner extractor's KindMissingArgument failure into a nil
// result. Every other failure propagates.
func Optional[T any](inner Extractor[T]) Extractor[*T] {
	return ExtractorFunc[*T](func(ctx *Context) (*T, error) {
		v, err := inner.Extract(ctx)
		if err != nil {
			if errors.Is(err, ErrMissingArgument) {
				return nil, nil
			}
			return nil, err
		}
		return &v, nil
	})
}
