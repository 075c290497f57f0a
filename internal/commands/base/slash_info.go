package base

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/config"
	"github.com/keshon/qrm/internal/listing"
	"github.com/keshon/qrm/internal/version"
)

type InfoCommand struct {
	deps *Deps
}

func (c *InfoCommand) Name() string              { return "info" }
func (c *InfoCommand) Description() string       { return "Shows info about qrm." }
func (c *InfoCommand) Aliases() []string         { return []string{"about"} }
func (c *InfoCommand) Category() config.Category { return config.CategoryInfo }
func (c *InfoCommand) Hidden() bool              { return false }

func (c *InfoCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *InfoCommand) Run(inv *command.Invocation) error {
	var s *discordgo.Session
	if inv.Caller != nil {
		s = inv.Caller.Session
	}

	l := c.listing(s)
	return inv.Reply(l)
}

func (c *InfoCommand) listing(s *discordgo.Session) *listing.Listing {
	l := listing.New("About " + version.AppName)
	l.Description = version.AppDescription
	l.AddInlineField("Authors", strings.Join(version.Authors, ", "))
	l.AddInlineField("License", version.License)
	l.AddInlineField("Version", versionLine(version.Release, c.deps.Commit))
	l.AddInlineField("Build", buildLine(version.BuildDate, version.GoVersion))
	l.AddField("Contributing", version.Contributing)
	if version.BotServer != "" {
		l.AddField("Official Server", version.BotServer)
	}
	if version.Donating != "" {
		l.AddField("Donate", version.Donating)
	}

	if c.deps.Config.InviteEnabled && s != nil {
		if invite, err := c.deps.publicInvite(s); err == nil {
			l.AddField("Invite "+version.AppName+" to Your Server", invite)
		} else {
			log.Debug().Err(err).Msg("Invite link omitted from info")
		}
	}

	if s != nil && s.State != nil && s.State.User != nil && s.State.User.Avatar != "" {
		l.Thumbnail = s.State.User.AvatarURL("")
	}
	return l
}

func buildLine(buildDate, goVersion string) string {
	date := "unknown"
	if buildDate != "" {
		if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
			date = t.Format("2006-01-02")
		} else {
			date = "invalid date"
		}
	}

	goVer := "unknown"
	if goVersion != "" {
		goVer = strings.TrimPrefix(goVersion, "go")
	}
	return fmt.Sprintf("%s (Go %s)", date, goVer)
}

func versionLine(release, commit string) string {
	if commit == "" {
		return "v" + release
	}
	return "v" + release + " (`" + commit + "`)"
}
