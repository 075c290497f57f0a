package base

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/qrm/internal/changelog"
	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/config"
	"github.com/keshon/qrm/internal/listing"
	"github.com/keshon/qrm/internal/version"
)

type ChangelogCommand struct {
	deps *Deps
}

func (c *ChangelogCommand) Name() string { return "changelog" }
func (c *ChangelogCommand) Description() string {
	return "Shows what has changed in a bot version. Defaults to the latest version."
}
func (c *ChangelogCommand) Aliases() []string         { return []string{"clog"} }
func (c *ChangelogCommand) Category() config.Category { return config.CategoryInfo }
func (c *ChangelogCommand) Hidden() bool              { return false }
func (c *ChangelogCommand) Usage() string             { return "[version=latest]" }

func (c *ChangelogCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "version",
				Description: "Version to show, e.g. 2.9.2, latest or unreleased",
				Required:    false,
			},
		},
	}
}

func (c *ChangelogCommand) Run(inv *command.Invocation) error {
	return inv.Reply(ChangelogListing(c.deps.Changelog, inv.Arg(0), version.Release))
}

// ChangelogListing renders the changelog page for a version token. An
// unknown version renders the list of valid versions instead.
func ChangelogListing(cl *changelog.Changelog, token, release string) *listing.Listing {
	l := listing.New(version.AppName + " Changelog")
	l.Description = "For a full listing, visit [GitHub](" + version.ChangelogURL + ")."

	entry, err := cl.Resolve(token, release)
	var nf *changelog.VersionNotFoundError
	if errors.As(err, &nf) {
		l.Title += ": Version Not Found"
		l.Description += "\n\n**Valid versions:** latest, unreleased"
		if len(nf.Valid) > 0 {
			l.Description += ", " + strings.Join(nf.Valid, ", ")
		}
		l.Colour = listing.ColourBad
		return l
	}

	l.Description += "\n\n**v" + entry.Version + "**"
	if entry.Date != "" {
		l.Description += " (" + entry.Date + ")"
		if t, err := time.Parse(time.DateOnly, entry.Date); err == nil {
			l.Timestamp = t
		}
	}
	l.Fields = changelog.Render(entry).Fields
	return l
}
