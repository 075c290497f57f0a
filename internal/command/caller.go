package command

import (
	"slices"

	"github.com/bwmarrin/discordgo"
)

// Caller is who invoked a command, and where. Permission predicates are
// evaluated against it. Session is nil outside Discord (CLI, tests).
type Caller struct {
	Session   *discordgo.Session
	UserID    string
	Username  string
	GuildID   string
	ChannelID string
	Member    *discordgo.Member

	// Prefix is the prefix the command was invoked with ("/" for slash commands).
	Prefix string
	// Prefixes lists every prefix the bot answers to.
	Prefixes []string
	// Owners are the configured bot owner IDs.
	Owners []string
}

// IsOwner reports whether the caller is a configured bot owner.
func (c *Caller) IsOwner() bool {
	return c != nil && c.UserID != "" && slices.Contains(c.Owners, c.UserID)
}

// Mention returns the Discord mention markup for the caller.
func (c *Caller) Mention() string {
	if c == nil || c.UserID == "" {
		return ""
	}
	return "<@" + c.UserID + ">"
}
