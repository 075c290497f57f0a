package base

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/config"
	"github.com/keshon/qrm/internal/listing"
)

var manageGuild int64 = discordgo.PermissionManageGuild

// CmdsCommand groups the command-maintenance subcommands.
type CmdsCommand struct {
	subs []command.Command
}

func newCmdsCommand(d *Deps) *CmdsCommand {
	return &CmdsCommand{
		subs: []command.Command{
			&CmdsListCommand{deps: d},
			command.ApplyMiddlewares(&CmdsRefreshCommand{deps: d}, command.WithOwnerOnly()),
		},
	}
}

func (c *CmdsCommand) Name() string                   { return "cmds" }
func (c *CmdsCommand) Description() string            { return "Inspect and maintain the bot's commands." }
func (c *CmdsCommand) Aliases() []string              { return nil }
func (c *CmdsCommand) Category() config.Category      { return config.CategoryAdmin }
func (c *CmdsCommand) Hidden() bool                   { return true }
func (c *CmdsCommand) Usage() string                  { return "<subcommand>" }
func (c *CmdsCommand) Subcommands() []command.Command { return c.subs }

func (c *CmdsCommand) Run(inv *command.Invocation) error {
	return command.RunSubcommand(c, inv)
}

func (c *CmdsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	def := &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &manageGuild,
	}
	for _, sub := range c.subs {
		def.Options = append(def.Options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        sub.Name(),
			Description: sub.Description(),
		})
	}
	return def
}

// CmdsListCommand lists every registered command, hidden ones included.
type CmdsListCommand struct {
	command.Sub
	deps *Deps
}

func (c *CmdsListCommand) Name() string              { return "list" }
func (c *CmdsListCommand) Description() string       { return "Lists every registered command, hidden ones included." }
func (c *CmdsListCommand) Aliases() []string         { return []string{"ls"} }
func (c *CmdsListCommand) Category() config.Category { return config.CategoryAdmin }
func (c *CmdsListCommand) Hidden() bool              { return false }

func (c *CmdsListCommand) Run(inv *command.Invocation) error {
	l := listing.New("Registered commands")
	l.Description = describeRegistry(c.deps.Registry)
	if jl, ok := c.deps.Refresher.(JobLister); ok {
		if jobs := jl.RunningJobs(); len(jobs) > 0 {
			l.AddField("Running jobs", "`"+strings.Join(jobs, "`, `")+"`")
		}
	}
	return inv.ReplyEphemeral(l)
}

func describeRegistry(reg *command.Registry) string {
	var sb strings.Builder
	reg.Walk(func(cmd command.Command) {
		fmt.Fprintf(&sb, "`%s` (%s)", command.QualifiedName(cmd), cmd.Category())
		if cmd.Hidden() {
			sb.WriteString(" *hidden*")
		}
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			sb.WriteString(" - " + strings.Join(aliases, ", "))
		}
		sb.WriteString("\n")
	})
	return sb.String()
}

// CmdsRefreshCommand re-registers this server's slash commands.
type CmdsRefreshCommand struct {
	command.Sub
	deps *Deps
}

func (c *CmdsRefreshCommand) Name() string              { return "refresh" }
func (c *CmdsRefreshCommand) Description() string       { return "Re-registers the slash commands of this server." }
func (c *CmdsRefreshCommand) Aliases() []string         { return nil }
func (c *CmdsRefreshCommand) Category() config.Category { return config.CategoryAdmin }
func (c *CmdsRefreshCommand) Hidden() bool              { return false }

func (c *CmdsRefreshCommand) Run(inv *command.Invocation) error {
	if c.deps.Refresher == nil {
		return errNoSession
	}
	if err := c.deps.Refresher.RefreshCommands(inv.Caller.GuildID); err != nil {
		return fmt.Errorf("failed to refresh commands: %w", err)
	}

	l := listing.New("Slash commands refreshed")
	l.Colour = listing.ColourGood
	return inv.ReplyEphemeral(l)
}
