package base

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/config"
	"github.com/keshon/qrm/internal/listing"
	"github.com/keshon/qrm/internal/version"
)

type IssueCommand struct{}

func (c *IssueCommand) Name() string { return "issue" }
func (c *IssueCommand) Description() string {
	return "Shows how to create a bug report or feature request about the bot."
}
func (c *IssueCommand) Aliases() []string         { return nil }
func (c *IssueCommand) Category() config.Category { return config.CategoryInfo }
func (c *IssueCommand) Hidden() bool              { return false }

func (c *IssueCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *IssueCommand) Run(inv *command.Invocation) error {
	l := listing.New("Found a bug? Have a feature request?")
	l.Description = version.IssueTracker
	return inv.Reply(l)
}
