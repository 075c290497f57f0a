package base

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/config"
	"github.com/keshon/qrm/internal/listing"
	"github.com/keshon/qrm/internal/version"
)

type InviteCommand struct {
	deps *Deps
}

func (c *InviteCommand) Name() string              { return "invite" }
func (c *InviteCommand) Description() string       { return "Generates a link to invite the bot to a server." }
func (c *InviteCommand) Aliases() []string         { return nil }
func (c *InviteCommand) Category() config.Category { return config.CategoryInfo }
func (c *InviteCommand) Hidden() bool              { return false }

func (c *InviteCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *InviteCommand) Run(inv *command.Invocation) error {
	var s *discordgo.Session
	if inv.Caller != nil {
		s = inv.Caller.Session
	}
	link, err := c.deps.publicInvite(s)
	if err != nil {
		return err
	}

	l := listing.New("Invite " + version.AppName + " to Your Server!")
	l.Description = link
	return inv.Reply(l)
}
