package cli

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
)

// Context carries one dispatch's resolved flags, positionals, the borrowed
// shared state and values injected by middleware.
//
// The context does not own the shared state; it is only valid for the
// duration of the Run call that created it.
type Context struct {
	flags      Flags
	args       []string
	state      any
	extensions map[reflect.Type]any
	command    *Command
	logger     *slog.Logger
	out        io.Writer
}

// NewContext builds a context from already resolved flags and positionals.
// It is mostly useful in tests of handlers and middleware.
func NewContext(flags Flags, args []string) *Context {
	if flags == nil {
		flags = Flags{}
	}
	if args == nil {
		args = []string{}
	}
	return &Context{
		flags:      flags,
		args:       args,
		extensions: map[reflect.Type]any{},
		logger:     discardLogger(),
		out:        io.Discard,
	}
}

// WithState attaches shared state and returns the context.
func (c *Context) WithState(state any) *Context {
	c.state = state
	return c
}

// Flags returns the resolved flag map. Middleware may modify it in before
// hooks; the handler sees the result.
func (c *Context) Flags() Flags { return c.flags }

// Args returns the positional arguments.
func (c *Context) Args() []string { return c.args }

// SetArgs replaces the positional arguments.
func (c *Context) SetArgs(args []string) { c.args = args }

// IsPresent reports whether the flag was resolved from any source.
func (c *Context) IsPresent(name string) bool { return c.flags.Has(name) }

// ValueOf returns the raw payload of a value flag.
func (c *Context) ValueOf(name string) (string, bool) { return c.flags.Lookup(name) }

// State returns the shared state passed to RunWithState, or nil.
func (c *Context) State() any { return c.state }

// Command returns the node selected for execution. It is nil for contexts
// built with NewContext.
func (c *Context) Command() *Command { return c.command }

// Logger returns the application's logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// Out returns the writer the application prints to.
func (c *Context) Out() io.Writer { return c.out }

// derive copies flags and positionals into a new context sharing the same
// state, command, logger and writer but no extensions.
func (c *Context) derive() *Context {
	return &Context{
		flags:      c.flags.Clone(),
		args:       append([]string{}, c.args...),
		state:      c.state,
		extensions: map[reflect.Type]any{},
		command:    c.command,
		logger:     c.logger,
		out:        c.out,
	}
}

// Value returns the named flag converted to T. A boolean flag set without a
// payload reads as true.
func Value[T any](c *Context, name string) (T, error) {
	var zero T
	p, ok := c.flags[name]
	if !ok {
		return zero, missingArgument(name, fmt.Sprintf("argument '%s' not found", name))
	}
	if p == nil {
		if isBool[T]() {
			return ParseValue[T]("true")
		}
		return zero, &Error{
			Kind:    KindValidation,
			Flag:    name,
			Message: fmt.Sprintf("flag '%s' was used but provided no value", name),
		}
	}
	v, err := ParseValue[T](*p)
	if err != nil {
		return zero, &Error{
			Kind:    KindFlagValueParse,
			Flag:    name,
			Message: fmt.Sprintf("cannot parse '%s' for '%s'", *p, name),
			Err:     err,
		}
	}
	return v, nil
}

// Get is Value without the error: ok is false when the flag is absent or its
// payload does not convert to T.
func Get[T any](c *Context, name string) (T, bool) {
	v, err := Value[T](c, name)
	return v, err == nil
}

// SetExtension stores v keyed by its static type T, replacing any previous
// value of that type.
func SetExtension[T any](c *Context, v T) {
	c.extensions[typeKey[T]()] = v
}

// GetExtension returns the value of type T stored by SetExtension.
func GetExtension[T any](c *Context) (T, bool) {
	v, ok := c.extensions[typeKey[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
