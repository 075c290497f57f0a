package command

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/qrm/internal/config"
)

// Command is a registered bot command. The same value serves prefix
// invocations (?changelog 2.9.0) and slash invocations (/changelog).
type Command interface {
	Name() string
	Description() string
	Aliases() []string
	Category() config.Category
	Hidden() bool
	Run(inv *Invocation) error
}

// Optional capabilities a command may implement.

// UsageProvider describes the arguments, e.g. "[version=latest]".
type UsageProvider interface {
	Usage() string
}

// HelpProvider supplies long-form help; Description is used when absent.
type HelpProvider interface {
	Help() string
}

// SlashProvider - how this command should be registered with Discord.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// GroupProvider is implemented by commands that own subcommands.
type GroupProvider interface {
	Subcommands() []Command
}

// ParentProvider is implemented by subcommands.
type ParentProvider interface {
	Parent() Command
}

// Checker is the permission predicate of a command. An error means the
// check could not be evaluated; callers treat it as "not permitted".
type Checker interface {
	CanRun(ctx context.Context, c *Caller) (bool, error)
}

type parentSetter interface {
	setParent(Command)
}

// Sub is embedded by subcommands; the registry fills in the parent.
type Sub struct {
	parent Command
}

func (s *Sub) Parent() Command { return s.parent }

func (s *Sub) setParent(p Command) { s.parent = p }

// Usage returns the argument signature of cmd, or "".
func Usage(cmd Command) string {
	if u, ok := cmd.(UsageProvider); ok {
		return u.Usage()
	}
	return ""
}

// HelpText returns the long help of cmd, falling back to its description.
func HelpText(cmd Command) string {
	if h, ok := cmd.(HelpProvider); ok {
		if text := h.Help(); text != "" {
			return text
		}
	}
	return cmd.Description()
}

// Subcommands returns the children of a group, or nil.
func Subcommands(cmd Command) []Command {
	if g, ok := cmd.(GroupProvider); ok {
		return g.Subcommands()
	}
	return nil
}

// IsGroup reports whether cmd has subcommands.
func IsGroup(cmd Command) bool {
	return len(Subcommands(cmd)) > 0
}

// Parent returns the group cmd belongs to, or nil for top-level commands.
func Parent(cmd Command) Command {
	if p, ok := cmd.(ParentProvider); ok {
		return p.Parent()
	}
	return nil
}

// Parents returns the ancestors of cmd, nearest first.
func Parents(cmd Command) []Command {
	var chain []Command
	for p := Parent(cmd); p != nil; p = Parent(p) {
		chain = append(chain, p)
	}
	return chain
}

// QualifiedName is the space-separated path from the root, e.g. "cmds refresh".
func QualifiedName(cmd Command) string {
	parents := Parents(cmd)
	names := make([]string, 0, len(parents)+1)
	for i := len(parents) - 1; i >= 0; i-- {
		names = append(names, parents[i].Name())
	}
	return strings.Join(append(names, cmd.Name()), " ")
}

// FindSubcommand looks up a child of group by name or alias, ignoring case.
func FindSubcommand(group Command, name string) (Command, bool) {
	for _, sub := range Subcommands(group) {
		if matches(sub, name) {
			return sub, true
		}
	}
	return nil, false
}

// CanRun evaluates the permission predicate of cmd alone. Commands without a
// predicate may always run.
func CanRun(ctx context.Context, cmd Command, c *Caller) (bool, error) {
	if ch, ok := cmd.(Checker); ok {
		return ch.CanRun(ctx, c)
	}
	return true, nil
}

// CanRunChain evaluates cmd and then each of its ancestors, stopping at the
// first refusal.
func CanRunChain(ctx context.Context, cmd Command, c *Caller) (bool, error) {
	for _, x := range append([]Command{cmd}, Parents(cmd)...) {
		ok, err := CanRun(ctx, x, c)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// RunSubcommand dispatches a group invocation to the child named by its
// first argument.
func RunSubcommand(group Command, inv *Invocation) error {
	name := inv.Arg(0)
	if name == "" {
		return &UsageError{Command: group, Reason: "a subcommand is required"}
	}
	sub, ok := FindSubcommand(group, name)
	if !ok {
		return &UsageError{Command: group, Reason: "unknown subcommand `" + name + "`"}
	}
	return sub.Run(inv.Shift())
}

func matches(cmd Command, name string) bool {
	if strings.EqualFold(cmd.Name(), name) {
		return true
	}
	for _, a := range cmd.Aliases() {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}
