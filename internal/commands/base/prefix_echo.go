package base

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/config"
	"github.com/keshon/qrm/internal/listing"
)

var (
	channelMention = regexp.MustCompile(`^<#(\d+)>$`)
	userMention    = regexp.MustCompile(`^<@!?(\d+)>$`)
	snowflake      = regexp.MustCompile(`^\d{15,21}$`)
)

type targetKind int

const (
	targetUnknown targetKind = iota
	targetChannel
	targetUser
	targetID   // channel or user, resolved against Discord
	targetName // channel name in the current server
)

// EchoCommand has no slash definition: it is only reachable with a prefix.
type EchoCommand struct{}

func (c *EchoCommand) Name() string              { return "echo" }
func (c *EchoCommand) Description() string       { return "Sends a message in a channel as qrm." }
func (c *EchoCommand) Aliases() []string         { return []string{"e"} }
func (c *EchoCommand) Category() config.Category { return config.CategoryAdmin }
func (c *EchoCommand) Hidden() bool              { return false }
func (c *EchoCommand) Usage() string             { return "<channel> <msg...>" }
func (c *EchoCommand) Help() string {
	return "Sends a message in a channel as qrm. Accepts channel/user IDs/mentions.\n" +
		"Channel names are current-guild only.\n" +
		"Does not work with the ID of the bot user."
}

func (c *EchoCommand) Run(inv *command.Invocation) error {
	target, msg := inv.Arg(0), inv.RawAfter(1)
	if target == "" || msg == "" {
		return &command.UsageError{Command: c, Reason: "a target and a message are required"}
	}
	if inv.Caller == nil || inv.Caller.Session == nil {
		return errNoSession
	}
	s := inv.Caller.Session

	channelID, err := c.resolve(s, inv.Caller.GuildID, target)
	if err != nil {
		return err
	}
	if _, err := s.ChannelMessageSend(channelID, msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	l := listing.New("Message sent")
	l.Description = "<#" + channelID + ">"
	l.Colour = listing.ColourGood
	return inv.ReplyEphemeral(l)
}

// resolve maps a target argument to the ID of the channel to post in;
// users get a DM channel.
func (c *EchoCommand) resolve(s *discordgo.Session, guildID, target string) (string, error) {
	kind, value := parseTarget(target)
	botID := ""
	if s.State != nil && s.State.User != nil {
		botID = s.State.User.ID
	}

	switch kind {
	case targetChannel:
		return value, nil
	case targetUser:
		return c.dm(s, botID, value)
	case targetID:
		if ch, err := s.Channel(value); err == nil {
			return ch.ID, nil
		}
		return c.dm(s, botID, value)
	case targetName:
		if guildID == "" {
			break
		}
		channels, err := s.GuildChannels(guildID)
		if err != nil {
			return "", fmt.Errorf("failed to list channels: %w", err)
		}
		for _, ch := range channels {
			if ch.Name == value {
				return ch.ID, nil
			}
		}
	}
	return "", &command.UsageError{Command: c, Reason: fmt.Sprintf("channel or user %q not found", target)}
}

func (c *EchoCommand) dm(s *discordgo.Session, botID, userID string) (string, error) {
	if userID == botID {
		return "", &command.UsageError{Command: c, Reason: "Can't send to the bot user!"}
	}
	ch, err := s.UserChannelCreate(userID)
	if err != nil {
		return "", fmt.Errorf("failed to open DM channel: %w", err)
	}
	return ch.ID, nil
}

// parseTarget classifies a channel/user argument and extracts its ID or name.
func parseTarget(target string) (targetKind, string) {
	if m := channelMention.FindStringSubmatch(target); m != nil {
		return targetChannel, m[1]
	}
	if m := userMention.FindStringSubmatch(target); m != nil {
		return targetUser, m[1]
	}
	if snowflake.MatchString(target) {
		return targetID, target
	}
	if name := strings.TrimPrefix(target, "#"); name != "" {
		return targetName, name
	}
	return targetUnknown, ""
}
