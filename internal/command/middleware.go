package command

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

type Middleware func(Command) Command

// ApplyMiddlewares wraps cmd in order; the last middleware is the outermost.
func ApplyMiddlewares(cmd Command, mws ...Middleware) Command {
	for _, mw := range mws {
		cmd = mw(cmd)
	}
	return cmd
}

// WithChecks attaches permission predicates to a command. They gate Run and
// are what the help system evaluates when deciding what a caller may see.
func WithChecks(checks ...Check) Middleware {
	return func(cmd Command) Command {
		w := &wrappedCommand{Command: cmd, checks: checks}
		w.wrap = func(inv *Invocation) error {
			ok, err := runChecks(inv.Context(), checks, inv.Caller)
			if !ok {
				return notPermitted(err)
			}
			return cmd.Run(inv)
		}
		return w
	}
}

// WithGuildOnly refuses the command outside servers (in DMs).
func WithGuildOnly() Middleware {
	return WithChecks(GuildOnly())
}

// WithOwnerOnly limits the command to the configured bot owners.
func WithOwnerOnly() Middleware {
	return WithChecks(OwnerOnly())
}

// WithCommandLogger logs every invocation with its outcome and duration.
func WithCommandLogger() Middleware {
	return func(cmd Command) Command {
		return &wrappedCommand{
			Command: cmd,
			wrap: func(inv *Invocation) error {
				start := time.Now()
				err := cmd.Run(inv)

				ev := log.Info()
				if err != nil {
					ev = log.Warn().Err(err)
				}
				if c := inv.Caller; c != nil {
					ev = ev.Str("guild", c.GuildID).Str("channel", c.ChannelID).Str("user", c.Username)
				}
				ev.Str("command", QualifiedName(cmd)).
					Bool("slash", inv.Slash()).
					Dur("took", time.Since(start)).
					Msg("Command invoked")
				return err
			},
		}
	}
}

func runChecks(ctx context.Context, checks []Check, c *Caller) (bool, error) {
	for _, check := range checks {
		ok, err := check(ctx, c)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// wrappedCommand decorates a command while still exposing the optional
// capabilities of the command it wraps.
type wrappedCommand struct {
	Command
	checks []Check
	wrap   func(inv *Invocation) error
}

func (w *wrappedCommand) Run(inv *Invocation) error {
	if w.wrap != nil {
		return w.wrap(inv)
	}
	return w.Command.Run(inv)
}

func (w *wrappedCommand) CanRun(ctx context.Context, c *Caller) (bool, error) {
	ok, err := runChecks(ctx, w.checks, c)
	if err != nil || !ok {
		return false, err
	}
	return CanRun(ctx, w.Command, c)
}

func (w *wrappedCommand) Usage() string { return Usage(w.Command) }

func (w *wrappedCommand) Help() string { return HelpText(w.Command) }

func (w *wrappedCommand) Subcommands() []Command { return Subcommands(w.Command) }

func (w *wrappedCommand) Parent() Command { return Parent(w.Command) }

func (w *wrappedCommand) setParent(p Command) {
	if ps, ok := w.Command.(parentSetter); ok {
		ps.setParent(p)
	}
}

func (w *wrappedCommand) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := w.Command.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}
