package cli

import (
	"strings"
)

// Validator checks a flag's raw string payload. A non-nil error rejects the
// whole invocation.
type Validator func(value string) error

// Flag describes one command-line option. Flags are built once with NewFlag
// and never modified after registration.
type Flag struct {
	name         string
	short        rune
	long         string
	aliases      []string
	takesValue   bool
	defaultValue *string
	env          string
	validator    Validator
	required     bool
	help         string
	valueName    string
	heading      string
}

// FlagOption configures a Flag.
type FlagOption func(*Flag)

// NewFlag creates a boolean flag named name. Use TakesValue (or one of the
// options that imply it) for flags carrying a payload.
func NewFlag(name string, opts ...FlagOption) *Flag {
	f := &Flag{name: name}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Short sets the single-character form (-c).
func Short(c rune) FlagOption {
	return func(f *Flag) { f.short = c }
}

// Long overrides the long form; by default it equals the flag name.
func Long(long string) FlagOption {
	return func(f *Flag) { f.long = long }
}

// Aliases adds alternative long names.
func Aliases(aliases ...string) FlagOption {
	return func(f *Flag) { f.aliases = append(f.aliases, aliases...) }
}

// TakesValue marks the flag as carrying a string payload.
func TakesValue() FlagOption {
	return func(f *Flag) { f.takesValue = true }
}

// Default sets the value used when neither the command line nor any other
// provider supplies one.
func Default(value string) FlagOption {
	return func(f *Flag) {
		v := value
		f.defaultValue = &v
	}
}

// Env names the environment variable consulted when the flag is absent.
func Env(name string) FlagOption {
	return func(f *Flag) { f.env = name }
}

// Validate attaches a validator, run against value payloads only.
func Validate(v Validator) FlagOption {
	return func(f *Flag) { f.validator = v }
}

// Required makes absence after provider resolution an error.
func Required() FlagOption {
	return func(f *Flag) { f.required = true }
}

// Help sets the one-line description shown in help output.
func Help(text string) FlagOption {
	return func(f *Flag) { f.help = text }
}

// ValueName sets the placeholder shown in help (e.g. FILE). Implies TakesValue.
func ValueName(name string) FlagOption {
	return func(f *Flag) {
		f.valueName = name
		f.takesValue = true
	}
}

// Heading groups the flag under a named section in help output.
func Heading(heading string) FlagOption {
	return func(f *Flag) { f.heading = heading }
}

func (f *Flag) Name() string { return f.name }

// LongName returns the long form without leading dashes.
func (f *Flag) LongName() string {
	if f.long != "" {
		return f.long
	}
	return f.name
}

func (f *Flag) ShortName() (rune, bool) { return f.short, f.short != 0 }
func (f *Flag) AliasNames() []string   { return append([]string(nil), f.aliases...) }
func (f *Flag) TakesValue() bool       { return f.takesValue }
func (f *Flag) EnvVar() string         { return f.env }
func (f *Flag) IsRequired() bool       { return f.required }
func (f *Flag) HelpText() string       { return f.help }
func (f *Flag) HelpHeading() string    { return f.heading }

// DefaultValue returns the declared default, if any.
func (f *Flag) DefaultValue() (string, bool) {
	if f.defaultValue == nil {
		return "", false
	}
	return *f.defaultValue, true
}

// ValueName returns the help placeholder for value flags.
func (f *Flag) ValueName() string {
	if f.valueName != "" {
		return f.valueName
	}
	if f.takesValue {
		return strings.ToUpper(f.name)
	}
	return ""
}

// ValueHint classifies the value for completion generators.
type ValueHint int

const (
	HintNone ValueHint = iota
	HintFilePath
	HintDirPath
)

// ValueHint derives a completion hint from the value name.
func (f *Flag) ValueHint() ValueHint {
	if !f.takesValue || f.valueName == "" {
		return HintNone
	}
	vn := strings.ToUpper(f.valueName)
	switch {
	case strings.Contains(vn, "FILE"), strings.Contains(vn, "PATH"):
		return HintFilePath
	case strings.Contains(vn, "DIR"):
		return HintDirPath
	}
	return HintNone
}

// matchesLong reports whether name (no dashes) is the flag's long form or
// one of its aliases.
func (f *Flag) matchesLong(name string) bool {
	if name == f.LongName() {
		return true
	}
	for _, a := range f.aliases {
		if a == name {
			return true
		}
	}
	return false
}

// catalog indexes a node's flags for the tokenizer.
type catalog []*Flag

func (c catalog) byLong(name string) *Flag {
	for _, f := range c {
		if f.matchesLong(name) {
			return f
		}
	}
	return nil
}

func (c catalog) byShort(r rune) *Flag {
	if r == 0 {
		return nil
	}
	for _, f := range c {
		if f.short == r {
			return f
		}
	}
	return nil
}

func (c catalog) hasDigitShort() bool {
	for _, f := range c {
		if f.short >= '0' && f.short <= '9' {
			return true
		}
	}
	return false
}

// longNames lists every long form and alias, for suggestions.
func (c catalog) longNames() []string {
	var names []string
	for _, f := range c {
		names = append(names, f.LongName())
		names = append(names, f.aliases...)
	}
	return names
}
