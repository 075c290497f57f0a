package command

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/qrm/internal/listing"
)

// Responder sends listings back to where an invocation came from. The
// Discord adapter provides it so commands never import the transport.
type Responder interface {
	Send(inv *Invocation, l *listing.Listing) error
	SendEphemeral(inv *Invocation, l *listing.Listing) error
}

var errNoResponder = errors.New("invocation has no responder")

// Invocation carries everything a command needs to run: who called it, the
// arguments and a way to answer.
type Invocation struct {
	Ctx    context.Context
	Caller *Caller

	// Name is the name or alias the command was invoked with.
	Name string
	// Args are the positional arguments; for slash commands the option
	// values in declaration order, subcommand names first.
	Args []string
	// Raw is the unsplit text after the command name (prefix invocations).
	Raw string

	Message     *discordgo.MessageCreate     // set for prefix invocations
	Interaction *discordgo.InteractionCreate // set for slash invocations

	Responder Responder
}

// Context returns the invocation context, never nil.
func (inv *Invocation) Context() context.Context {
	if inv.Ctx == nil {
		return context.Background()
	}
	return inv.Ctx
}

// Slash reports whether the invocation came from an application command.
func (inv *Invocation) Slash() bool {
	return inv.Interaction != nil
}

// Arg returns the i-th argument or "".
func (inv *Invocation) Arg(i int) string {
	if i < 0 || i >= len(inv.Args) {
		return ""
	}
	return inv.Args[i]
}

// RawAfter returns the raw text following the first n words, preserving its
// inner spacing. Slash invocations have no raw text, so the remaining
// arguments are joined instead.
func (inv *Invocation) RawAfter(n int) string {
	if inv.Raw == "" {
		if n >= len(inv.Args) {
			return ""
		}
		return strings.Join(inv.Args[n:], " ")
	}
	rest := strings.TrimSpace(inv.Raw)
	for range n {
		i := strings.IndexFunc(rest, isSpace)
		if i < 0 {
			return ""
		}
		rest = strings.TrimLeftFunc(rest[i:], isSpace)
	}
	return rest
}

// Shift returns a copy with the first argument consumed, for subcommand dispatch.
func (inv *Invocation) Shift() *Invocation {
	next := *inv
	if len(inv.Args) == 0 {
		return &next
	}
	next.Name = inv.Args[0]
	next.Args = inv.Args[1:]
	if inv.Raw != "" {
		next.Raw = inv.RawAfter(1)
	}
	return &next
}

// Reply sends l back to the caller.
func (inv *Invocation) Reply(l *listing.Listing) error {
	if inv.Responder == nil {
		return errNoResponder
	}
	return inv.Responder.Send(inv, l)
}

// ReplyEphemeral sends l so only the caller sees it, where the transport allows.
func (inv *Invocation) ReplyEphemeral(l *listing.Listing) error {
	if inv.Responder == nil {
		return errNoResponder
	}
	return inv.Responder.SendEphemeral(inv, l)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
