package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// Flags maps a flag name to its raw payload. A nil payload records a boolean
// flag that was set; value flags always carry a string.
type Flags map[string]*string

func (f Flags) setBool(name string) { f[name] = nil }

func (f Flags) setValue(name, value string) {
	v := value
	f[name] = &v
}

// Has reports whether the flag was resolved from any source.
func (f Flags) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// Lookup returns the payload of a value flag. ok is false for absent flags
// and for boolean flags, which carry no payload.
func (f Flags) Lookup(name string) (value string, ok bool) {
	p, present := f[name]
	if !present || p == nil {
		return "", false
	}
	return *p, true
}

// Clone returns a deep copy.
func (f Flags) Clone() Flags {
	out := make(Flags, len(f))
	for k, v := range f {
		if v == nil {
			out[k] = nil
			continue
		}
		out.setValue(k, *v)
	}
	return out
}

// ParsedArguments is the result of tokenizing against one flag catalog.
type ParsedArguments struct {
	Flags       Flags
	Positionals []string

	// Rest holds the tokens left unscanned when Parser.StopAt accepted the
	// first positional; Rest[0] is that positional.
	Rest []string
}

// Parser tokenizes raw arguments against a flag catalog.
type Parser struct {
	Flags []*Flag

	// Strict turns unknown flag-like tokens into KindUnknownFlag errors;
	// otherwise they become positionals.
	Strict bool

	// Providers fill flags absent from the tokens; nil means
	// DefaultProviders().
	Providers []Provider

	// SkipChecks disables required-flag and validator enforcement, for callers
	// that enforce them later against a different scope.
	SkipChecks bool

	// StopAt is consulted for the first plain positional token. When it
	// returns true scanning stops and the remaining tokens are left in Rest.
	StopAt func(token string) bool
}

// Parse tokenizes tokens against flags with the default providers and full
// checks.
func Parse(tokens []string, flags []*Flag, strict bool) (*ParsedArguments, error) {
	p := &Parser{Flags: flags, Strict: strict}
	return p.Parse(tokens)
}

// Parse scans tokens, resolves providers, then enforces required flags and
// validators unless SkipChecks is set. tokens must not include the program
// name.
func (p *Parser) Parse(tokens []string) (*ParsedArguments, error) {
	cat := catalog(p.Flags)
	res := &ParsedArguments{Flags: Flags{}, Positionals: []string{}}
	// Names the command line set or cleared; providers never override them.
	seen := map[string]bool{}

	positional := func(i int) bool {
		tok := tokens[i]
		if len(res.Positionals) == 0 && p.StopAt != nil && p.StopAt(tok) {
			res.Rest = append([]string(nil), tokens[i:]...)
			return true
		}
		res.Positionals = append(res.Positionals, tok)
		return false
	}

scan:
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok == "--":
			res.Positionals = append(res.Positionals, tokens[i+1:]...)
			break scan

		case strings.HasPrefix(tok, "--"):
			name, value, hasValue := strings.Cut(tok[2:], "=")
			f := cat.byLong(name)
			if f == nil {
				if p.Strict {
					return nil, unknownFlag(tok, Suggest(name, cat.longNames()))
				}
				res.Positionals = append(res.Positionals, tok)
				continue
			}
			seen[f.name] = true
			if !f.takesValue {
				if !hasValue || truthy(value) {
					res.Flags.setBool(f.name)
				} else {
					delete(res.Flags, f.name)
				}
				continue
			}
			if !hasValue {
				if i+1 >= len(tokens) {
					return nil, missingArgument(f.name, fmt.Sprintf("flag '--%s' requires a value", f.LongName()))
				}
				i++
				value = tokens[i]
			}
			res.Flags.setValue(f.name, value)

		case len(tok) > 1 && tok[0] == '-':
			consumed, err := p.shortCluster(cat, tokens, i, res, seen)
			if err != nil {
				return nil, err
			}
			i += consumed

		default:
			if positional(i) {
				break scan
			}
		}
	}

	providers := p.Providers
	if providers == nil {
		providers = DefaultProviders()
	}
	resolve(cat, providers, res.Flags, seen)

	if !p.SkipChecks {
		if err := CheckFlags(p.Flags, res.Flags); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// clusterStep is one planned assignment from a short-flag cluster.
type clusterStep struct {
	name  string
	value *string
}

// shortCluster handles a token like -v, -abc, -nvalue or -n value. The whole
// cluster is planned before anything is applied; an unknown character
// anywhere discards the plan. It returns how many extra tokens were consumed.
func (p *Parser) shortCluster(cat catalog, tokens []string, i int, res *ParsedArguments, seen map[string]bool) (int, error) {
	tok := tokens[i]
	body := []rune(tok[1:])

	first := cat.byShort(body[0])
	if first == nil {
		if !cat.hasDigitShort() && isNegativeNumber(tok) {
			res.Positionals = append(res.Positionals, tok)
			return 0, nil
		}
		return 0, p.rejectCluster(tok, res)
	}

	// -v=false: an explicit value for a boolean short flag.
	if !first.takesValue && len(body) > 1 && body[1] == '=' {
		seen[first.name] = true
		if truthy(string(body[2:])) {
			res.Flags.setBool(first.name)
		} else {
			delete(res.Flags, first.name)
		}
		return 0, nil
	}

	var plan []clusterStep
	consumed := 0
	for j := 0; j < len(body); j++ {
		f := cat.byShort(body[j])
		if f == nil {
			return 0, p.rejectCluster(tok, res)
		}
		if !f.takesValue {
			plan = append(plan, clusterStep{name: f.name})
			continue
		}
		value := strings.TrimPrefix(string(body[j+1:]), "=")
		if j+1 == len(body) {
			if i+1 >= len(tokens) {
				return 0, missingArgument(f.name, fmt.Sprintf("flag '-%c' requires a value", f.short))
			}
			value = tokens[i+1]
			consumed = 1
		}
		plan = append(plan, clusterStep{name: f.name, value: &value})
		break
	}

	for _, step := range plan {
		seen[step.name] = true
		if step.value == nil {
			res.Flags.setBool(step.name)
		} else {
			res.Flags.setValue(step.name, *step.value)
		}
	}
	return consumed, nil
}

func (p *Parser) rejectCluster(tok string, res *ParsedArguments) error {
	if p.Strict {
		return unknownFlag(tok, "")
	}
	res.Positionals = append(res.Positionals, tok)
	return nil
}

func isNegativeNumber(tok string) bool {
	if len(tok) < 2 || (tok[1] != '.' && (tok[1] < '0' || tok[1] > '9')) {
		return false
	}
	_, err := strconv.ParseFloat(tok, 64)
	return err == nil
}

// CheckFlags runs validators against value payloads, then requires every
// required flag to be present.
func CheckFlags(flags []*Flag, parsed Flags) error {
	for _, f := range flags {
		if f.validator == nil {
			continue
		}
		v, ok := parsed.Lookup(f.name)
		if !ok {
			continue
		}
		if err := f.validator(v); err != nil {
			return &Error{
				Kind:    KindValidation,
				Flag:    f.name,
				Message: fmt.Sprintf("invalid value '%s' for '--%s'", v, f.LongName()),
				Err:     err,
			}
		}
	}
	for _, f := range flags {
		if f.required && !parsed.Has(f.name) {
			return missingArgument(f.name, fmt.Sprintf("required flag '--%s' is missing", f.LongName()))
		}
	}
	return nil
}
