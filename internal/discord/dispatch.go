package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/listing"
)

const slashPrefix = "/"

// parsePrefixed splits a prefixed message into the prefix used, the command
// word and the raw text after it. The longest matching prefix wins so that
// "??" and "?" can coexist.
func parsePrefixed(content string, prefixes []string) (prefix, name, raw string, ok bool) {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(content, p) && len(p) > len(prefix) {
			prefix = p
		}
	}
	if prefix == "" {
		return "", "", "", false
	}

	rest := content[len(prefix):]
	end := strings.IndexFunc(rest, isSpace)
	if end < 0 {
		end = len(rest)
	}
	name = rest[:end]
	if name == "" {
		return "", "", "", false
	}
	return prefix, name, strings.TrimSpace(rest[end:]), true
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// onMessageCreate handles prefix commands.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if m.GuildID != "" && b.cfg.IsGuildBlacklisted(m.GuildID) {
		return
	}

	prefix, name, raw, ok := parsePrefixed(m.Content, b.cfg.Prefixes)
	if !ok {
		return
	}
	cmd, ok := b.reg.Get(name)
	if !ok {
		return
	}

	inv := &command.Invocation{
		Ctx:       b.ctx,
		Caller:    b.messageCaller(s, m, prefix),
		Name:      name,
		Args:      strings.Fields(raw),
		Raw:       raw,
		Message:   m,
		Responder: &responder{},
	}
	b.run(cmd, inv)
}

// onInteractionCreate handles slash commands.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.GuildID != "" && b.cfg.IsGuildBlacklisted(i.GuildID) {
		return
	}

	data := i.ApplicationCommandData()
	cmd, ok := b.reg.Get(data.Name)
	if !ok {
		log.Warn().Str("command", data.Name).Msg("Unknown slash command")
		return
	}

	inv := &command.Invocation{
		Ctx:         b.ctx,
		Caller:      b.interactionCaller(s, i),
		Name:        data.Name,
		Args:        slashArgs(data.Options),
		Interaction: i,
		Responder:   &responder{},
	}
	b.run(cmd, inv)
}

func (b *Bot) run(cmd command.Command, inv *command.Invocation) {
	err := cmd.Run(inv)
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	if serr := inv.ReplyEphemeral(errorListing(err, inv.Caller.Prefix)); serr != nil {
		log.Error().Err(serr).Str("command", command.QualifiedName(cmd)).Msg("Failed to report command error")
	}
}

// slashArgs flattens interaction options into positional arguments:
// subcommand names first, then option values in declaration order.
func slashArgs(opts []*discordgo.ApplicationCommandInteractionDataOption) []string {
	var args []string
	for _, o := range opts {
		switch o.Type {
		case discordgo.ApplicationCommandOptionSubCommand, discordgo.ApplicationCommandOptionSubCommandGroup:
			args = append(args, o.Name)
			args = append(args, slashArgs(o.Options)...)
		case discordgo.ApplicationCommandOptionString:
			args = append(args, strings.Fields(o.StringValue())...)
		default:
			args = append(args, fmt.Sprint(o.Value))
		}
	}
	return args
}

func (b *Bot) messageCaller(s *discordgo.Session, m *discordgo.MessageCreate, prefix string) *command.Caller {
	return &command.Caller{
		Session:   s,
		UserID:    m.Author.ID,
		Username:  m.Author.Username,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		Member:    m.Member,
		Prefix:    prefix,
		Prefixes:  b.cfg.Prefixes,
		Owners:    b.cfg.OwnerIDs,
	}
}

func (b *Bot) interactionCaller(s *discordgo.Session, i *discordgo.InteractionCreate) *command.Caller {
	c := &command.Caller{
		Session:   s,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		Member:    i.Member,
		Prefix:    slashPrefix,
		Prefixes:  b.cfg.Prefixes,
		Owners:    b.cfg.OwnerIDs,
	}
	user := i.User
	if i.Member != nil && i.Member.User != nil {
		user = i.Member.User
	}
	if user != nil {
		c.UserID, c.Username = user.ID, user.Username
	}
	return c
}

// errorListing turns a command error into what the caller is shown.
func errorListing(err error, prefix string) *listing.Listing {
	l := listing.New("")
	l.Colour = listing.ColourBad

	var (
		uerr *command.UsageError
		perr *command.MissingPermissionsError
	)
	switch {
	case errors.Is(err, command.ErrDisabled):
		l.Title = "Command disabled"
		l.Description = "This command is not available here."
	case errors.Is(err, command.ErrNotPermitted):
		l.Title = "Insufficient permissions"
		l.Description = "You are not allowed to use this command."
		if errors.As(err, &perr) {
			l.AddField("Required (any of)", command.DescribePermissions(perr.Perms...))
		}
	case errors.As(err, &uerr):
		l.Title = "Invalid usage"
		l.Description = uerr.Reason
		l.AddField("Usage", "`"+usage(uerr.Command, prefix)+"`")
	default:
		l.Title = "Error"
		l.Description = "Something went wrong while running the command."
	}
	return l
}

func usage(cmd command.Command, prefix string) string {
	return strings.TrimSpace(prefix + command.QualifiedName(cmd) + " " + command.Usage(cmd))
}
