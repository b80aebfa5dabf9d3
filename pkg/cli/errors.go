package cli

import (
	"errors"
	"fmt"
)

// Kind classifies a dispatch failure.
type Kind int

const (
	// KindExternal wraps an error produced by a handler or middleware.
	KindExternal Kind = iota
	// KindUnknownFlag is raised in strict mode for a token matching no flag.
	KindUnknownFlag
	// KindMissingArgument is raised when a required flag is absent after all
	// providers ran, or a value flag ran out of tokens.
	KindMissingArgument
	// KindValidation is raised when a validator rejects a payload or a value
	// is used in a way its flag does not allow.
	KindValidation
	// KindFlagValueParse is raised when a payload cannot be converted to the
	// requested type.
	KindFlagValueParse
)

func (k Kind) String() string {
	switch k {
	case KindUnknownFlag:
		return "unknown flag"
	case KindMissingArgument:
		return "missing argument"
	case KindValidation:
		return "validation"
	case KindFlagValueParse:
		return "flag value parse"
	default:
		return "external"
	}
}

// Sentinels for errors.Is. Each matches any *Error of the same Kind.
var (
	ErrUnknownFlag     = &Error{Kind: KindUnknownFlag}
	ErrMissingArgument = &Error{Kind: KindMissingArgument}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrFlagValueParse  = &Error{Kind: KindFlagValueParse}
)

// Error is the single error type returned by parsing and dispatch.
type Error struct {
	Kind       Kind
	Flag       string // flag name or raw token the error is about, if any
	Message    string
	Suggestion string // nearest known flag for KindUnknownFlag, if any
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Suggestion != "" {
		msg = fmt.Sprintf("%s (did you mean '--%s'?)", msg, e.Suggestion)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Flag == "" && t.Err == nil && t.Kind == e.Kind
}

// Wrap turns an arbitrary error into a KindExternal *Error. Errors that are
// already *Error are returned as is.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return err
	}
	return &Error{Kind: KindExternal, Message: "command failed", Err: err}
}

// Validationf builds a KindValidation error. Middleware uses it to reject an
// invocation.
func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func unknownFlag(token, suggestion string) *Error {
	return &Error{
		Kind:       KindUnknownFlag,
		Flag:       token,
		Message:    fmt.Sprintf("unknown flag '%s'", token),
		Suggestion: suggestion,
	}
}

func missingArgument(flag, message string) *Error {
	return &Error{Kind: KindMissingArgument, Flag: flag, Message: message}
}

// Exit codes returned by ExitCode.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
)

// ExitCode maps a Run result to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ce *Error
	if errors.As(err, &ce) && ce.Kind != KindExternal {
		return ExitUsageError
	}
	return ExitGeneralError
}
