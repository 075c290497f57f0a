package command

import (
	"fmt"
	"strings"
)

// Registry stores top-level commands by name and alias. Commands are
// registered once at start-up; lookups afterwards need no locking.
type Registry struct {
	byName map[string]Command
	order  []Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Command)}
}

// Register adds commands and links every subcommand to its group. Names and
// aliases are case-insensitive and must be unique.
func (r *Registry) Register(cmds ...Command) error {
	for _, cmd := range cmds {
		keys := append([]string{cmd.Name()}, cmd.Aliases()...)
		for _, k := range keys {
			k = strings.ToLower(k)
			if existing, ok := r.byName[k]; ok {
				return fmt.Errorf("command %q: name %q already taken by %q", cmd.Name(), k, existing.Name())
			}
		}
		for _, k := range keys {
			r.byName[strings.ToLower(k)] = cmd
		}
		r.order = append(r.order, cmd)
		linkSubcommands(cmd)
	}
	return nil
}

// Get returns the command registered under name or alias.
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.byName[strings.ToLower(name)]
	return cmd, ok
}

// All returns every top-level command once, in registration order.
func (r *Registry) All() []Command {
	return append([]Command(nil), r.order...)
}

// Walk visits every command, subcommands right after their group.
func (r *Registry) Walk(fn func(Command)) {
	var visit func(Command)
	visit = func(cmd Command) {
		fn(cmd)
		for _, sub := range Subcommands(cmd) {
			visit(sub)
		}
	}
	for _, cmd := range r.order {
		visit(cmd)
	}
}

func linkSubcommands(group Command) {
	for _, sub := range Subcommands(group) {
		if ps, ok := sub.(parentSetter); ok {
			ps.setParent(group)
		}
		linkSubcommands(sub)
	}
}
