package cli

import (
	"fmt"
	"strings"
)

// Command is one node of the command tree: its own flag scope, children and
// optional handler. Trees are built once before Run and never modified by
// parsing.
type Command struct {
	name        string
	description string
	aliases     []string
	flags       []*Flag
	subcommands []*Command
	handler     Handler
	middleware  []Middleware
	parent      *Command
}

// NewCommand creates an empty node.
func NewCommand(name string) *Command {
	return &Command{name: name}
}

// WithDescription sets the one-line summary shown in help.
func (c *Command) WithDescription(desc string) *Command {
	c.description = desc
	return c
}

// WithAliases adds alternative names. Names and aliases must be unique among
// siblings.
func (c *Command) WithAliases(aliases ...string) *Command {
	if c.parent != nil {
		for _, a := range aliases {
			c.parent.mustBeFree(a)
		}
	}
	c.aliases = append(c.aliases, aliases...)
	return c
}

// AddFlag registers flags in this node's scope. It panics on a duplicate
// name, since that is a programming error.
func (c *Command) AddFlag(flags ...*Flag) *Command {
	for _, f := range flags {
		for _, existing := range c.flags {
			if existing.name == f.name {
				panic(fmt.Sprintf("cli: duplicate flag %q on command %q", f.name, c.name))
			}
		}
		c.flags = append(c.flags, f)
	}
	return c
}

// AddCommand attaches children. It panics when a child's name or alias is
// already taken by a sibling.
func (c *Command) AddCommand(children ...*Command) *Command {
	for _, child := range children {
		c.mustBeFree(child.name)
		for _, a := range child.aliases {
			c.mustBeFree(a)
		}
		child.parent = c
		c.subcommands = append(c.subcommands, child)
	}
	return c
}

// Action sets the handler run when this node is selected.
func (c *Command) Action(h Handler) *Command {
	c.handler = h
	return c
}

// Use appends middleware that runs only when this node is selected, after
// the application's global middleware.
func (c *Command) Use(mws ...Middleware) *Command {
	c.middleware = append(c.middleware, mws...)
	return c
}

func (c *Command) mustBeFree(name string) {
	if c.findChild(name) != nil {
		panic(fmt.Sprintf("cli: command name %q already used under %q", name, c.name))
	}
}

func (c *Command) Name() string        { return c.name }
func (c *Command) Description() string { return c.description }
func (c *Command) Handler() Handler    { return c.handler }
func (c *Command) Parent() *Command    { return c.parent }

func (c *Command) Aliases() []string { return append([]string(nil), c.aliases...) }

// Flags returns the node's own flag catalog.
func (c *Command) Flags() []*Flag { return append([]*Flag(nil), c.flags...) }

// Subcommands returns the node's children in declaration order.
func (c *Command) Subcommands() []*Command { return append([]*Command(nil), c.subcommands...) }

// Path returns the names from the root down to this node.
func (c *Command) Path() []string {
	if c.parent == nil {
		return []string{c.name}
	}
	return append(c.parent.Path(), c.name)
}

// FullName is Path joined by spaces.
func (c *Command) FullName() string {
	return strings.Join(c.Path(), " ")
}

// Find returns the direct child named name (or aliased to it).
func (c *Command) Find(name string) *Command {
	return c.findChild(name)
}

// Walk visits c and every descendant depth first. Returning false from fn
// skips the node's children.
func (c *Command) Walk(fn func(*Command) bool) {
	if !fn(c) {
		return
	}
	for _, child := range c.subcommands {
		child.Walk(fn)
	}
}

func (c *Command) findChild(tok string) *Command {
	for _, child := range c.subcommands {
		if child.name == tok {
			return child
		}
		for _, a := range child.aliases {
			if a == tok {
				return child
			}
		}
	}
	return nil
}

func (c *Command) claimsShort(r rune) bool {
	return catalog(c.flags).byShort(r) != nil
}

func (c *Command) claimsLong(name string) bool {
	return catalog(c.flags).byLong(name) != nil
}
