// Package base is the bot's built-in command set: help, info, ping,
// changelog, issue, invite, echo and the cmds maintenance group.
package base

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/qrm/internal/changelog"
	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/config"
	"github.com/keshon/qrm/internal/help"
	"github.com/keshon/qrm/internal/version"
)

// Refresher re-registers the slash commands of a guild.
type Refresher interface {
	RefreshCommands(guildID string) error
}

// JobLister is implemented by refreshers that run registration in the
// background.
type JobLister interface {
	RunningJobs() []string
}

// Deps is what the base commands need from the rest of the bot.
type Deps struct {
	Config    *config.Config
	Registry  *command.Registry
	Changelog *changelog.Changelog
	// Refresher is nil when running without a Discord connection.
	Refresher Refresher
	// Commit is the short hash of the running build, if known.
	Commit string
}

var errNoSession = errors.New("not connected to Discord")

// Commands builds the base command set with its middlewares applied.
func Commands(d *Deps) []command.Command {
	h := help.New(version.AppName, d.Registry)
	inviteEnabled := command.Enabled(func() bool { return d.Config.InviteEnabled })

	return []command.Command{
		command.ApplyMiddlewares(&HelpCommand{help: h}, command.WithCommandLogger()),
		command.ApplyMiddlewares(&InfoCommand{deps: d}, command.WithCommandLogger()),
		command.ApplyMiddlewares(&PingCommand{}, command.WithCommandLogger()),
		command.ApplyMiddlewares(&ChangelogCommand{deps: d}, command.WithCommandLogger()),
		command.ApplyMiddlewares(&IssueCommand{}, command.WithCommandLogger()),
		command.ApplyMiddlewares(
			&InviteCommand{deps: d},
			command.WithChecks(inviteEnabled),
			command.WithCommandLogger(),
		),
		command.ApplyMiddlewares(
			&EchoCommand{},
			command.WithOwnerOnly(),
			command.WithCommandLogger(),
		),
		command.ApplyMiddlewares(
			newCmdsCommand(d),
			command.WithGuildOnly(),
			command.WithChecks(command.UserPermissions(discordgo.PermissionManageGuild)),
			command.WithCommandLogger(),
		),
	}
}

// Register adds the base commands to d.Registry.
func Register(d *Deps) error {
	if err := d.Registry.Register(Commands(d)...); err != nil {
		return fmt.Errorf("failed to register base commands: %w", err)
	}
	return nil
}

// inviteURL builds the OAuth2 link that adds the bot to a server.
func inviteURL(clientID string, perms int64) string {
	return fmt.Sprintf(
		"https://discordapp.com/oauth2/authorize?client_id=%s&scope=bot&permissions=%d",
		clientID, perms,
	)
}

// publicInvite returns the invite link when invites are enabled and the
// application is public.
func (d *Deps) publicInvite(s *discordgo.Session) (string, error) {
	if !d.Config.InviteEnabled {
		return "", command.ErrDisabled
	}
	if s == nil || s.State == nil || s.State.User == nil {
		return "", errNoSession
	}
	app, err := s.Application("@me")
	if err != nil {
		return "", fmt.Errorf("failed to fetch application info: %w", err)
	}
	if !app.BotPublic {
		return "", command.ErrDisabled
	}
	return inviteURL(s.State.User.ID, d.Config.InvitePermissions), nil
}
