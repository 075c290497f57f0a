package base

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/config"
	"github.com/keshon/qrm/internal/help"
)

type HelpCommand struct {
	help *help.Help
}

func (c *HelpCommand) Name() string              { return "help" }
func (c *HelpCommand) Description() string       { return "Shows help about qrm or a command" }
func (c *HelpCommand) Aliases() []string         { return []string{"h"} }
func (c *HelpCommand) Category() config.Category { return config.CategoryInfo }
func (c *HelpCommand) Hidden() bool              { return false }
func (c *HelpCommand) Usage() string             { return "[command]" }

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "command",
				Description: "Command (or group and subcommand) to describe",
				Required:    false,
			},
		},
	}
}

func (c *HelpCommand) Run(inv *command.Invocation) error {
	// "/help command:cmds refresh" arrives as a single argument
	path := strings.Fields(strings.Join(inv.Args, " "))

	l, err := c.help.Describe(inv.Context(), inv.Caller, path)
	if err != nil {
		return err
	}
	return inv.ReplyEphemeral(l)
}
