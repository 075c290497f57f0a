package discord

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/config"
	"github.com/keshon/qrm/internal/listing"
	"github.com/keshon/qrm/pkg/jobmgr"
)

func TestParsePrefixed(t *testing.T) {
	prefixes := []string{"?", "??", "qrm "}

	tests := []struct {
		content string
		prefix  string
		name    string
		raw     string
		ok      bool
	}{
		{"?help", "?", "help", "", true},
		{"?changelog  2.9.0 ", "?", "changelog", "2.9.0", true},
		{"??ping", "??", "ping", "", true},
		{"qrm echo #general hi  there", "qrm ", "echo", "#general hi  there", true},
		{"? help", "", "", "", false},
		{"?", "", "", "", false},
		{"hello ?help", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			prefix, name, raw, ok := parsePrefixed(tt.content, prefixes)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.raw, raw)
		})
	}
}

func TestSlashArgs(t *testing.T) {
	opts := []*discordgo.ApplicationCommandInteractionDataOption{
		{
			Name: "list",
			Type: discordgo.ApplicationCommandOptionSubCommand,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "filter", Type: discordgo.ApplicationCommandOptionString, Value: "cmds refresh"},
				{Name: "count", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(3)},
				{Name: "all", Type: discordgo.ApplicationCommandOptionBoolean, Value: true},
			},
		},
	}
	assert.Equal(t, []string{"list", "cmds", "refresh", "3", "true"}, slashArgs(opts))
	assert.Empty(t, slashArgs(nil))
}

type stub struct {
	name string
}

func (s *stub) Name() string                  { return s.name }
func (s *stub) Description() string           { return s.name }
func (s *stub) Aliases() []string             { return nil }
func (s *stub) Category() config.Category     { return config.CategoryInfo }
func (s *stub) Hidden() bool                  { return false }
func (s *stub) Usage() string                 { return "<channel> <msg...>" }
func (s *stub) Run(*command.Invocation) error { return nil }

func TestErrorListing(t *testing.T) {
	tests := []struct {
		err   error
		title string
	}{
		{command.ErrNotPermitted, "Insufficient permissions"},
		{errors.Join(command.ErrNotPermitted, errors.New("x")), "Insufficient permissions"},
		{command.ErrDisabled, "Command disabled"},
		{errors.New("boom"), "Error"},
	}
	for _, tt := range tests {
		l := errorListing(tt.err, "?")
		assert.Equal(t, tt.title, l.Title)
		assert.Equal(t, listing.ColourBad, l.Colour)
		assert.NotContains(t, l.Description, "boom", "internal errors are not shown")
	}

	l := errorListing(&command.MissingPermissionsError{Perms: []int64{discordgo.PermissionManageGuild}}, "?")
	assert.Equal(t, "Insufficient permissions", l.Title)
	require.Len(t, l.Fields, 1)
	assert.Equal(t, listing.Field{Name: "Required (any of)", Value: "`Manage Server`"}, l.Fields[0])
	assert.Empty(t, errorListing(command.ErrNotPermitted, "?").Fields)

	l = errorListing(&command.UsageError{Command: &stub{name: "echo"}, Reason: "a target is required"}, "?")
	assert.Equal(t, "Invalid usage", l.Title)
	assert.Equal(t, "a target is required", l.Description)
	require.Len(t, l.Fields, 1)
	assert.Equal(t, "`?echo <channel> <msg...>`", l.Fields[0].Value)
}

func TestDefinitions(t *testing.T) {
	reg := command.NewRegistry()
	require.NoError(t, reg.Register(
		&slashStub{stub: stub{name: "ping"}},
		&stub{name: "echo"},
		command.ApplyMiddlewares(&stub{name: "wrapped"}, command.WithOwnerOnly()),
	))

	defs := definitions(reg)
	require.Len(t, defs, 1, "prefix-only commands have no definition")
	assert.Equal(t, "ping", defs[0].Name)
	assert.Equal(t, discordgo.ChatApplicationCommand, defs[0].Type)
}

type slashStub struct {
	stub
}

func (s *slashStub) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: s.name, Description: "d"}
}

func TestHashCommand(t *testing.T) {
	a := &discordgo.ApplicationCommand{
		ID:          "1",
		Name:        "cmds",
		Description: "maintenance",
		Options: []*discordgo.ApplicationCommandOption{
			{Name: "refresh", Description: "r", Type: discordgo.ApplicationCommandOptionSubCommand},
			{Name: "list", Description: "l", Type: discordgo.ApplicationCommandOptionSubCommand},
		},
	}
	b := &discordgo.ApplicationCommand{
		ID:          "2",
		Version:     "99",
		Name:        "cmds",
		Description: "maintenance",
		Options:     []*discordgo.ApplicationCommandOption{a.Options[1], a.Options[0]},
	}
	assert.Equal(t, hashCommand(a), hashCommand(b), "IDs and option order do not matter")

	perms := int64(discordgo.PermissionManageGuild)
	b.DefaultMemberPermissions = &perms
	assert.NotEqual(t, hashCommand(a), hashCommand(b))

	b.DefaultMemberPermissions = nil
	b.Description = "changed"
	assert.NotEqual(t, hashCommand(a), hashCommand(b))
}

func TestHashCache(t *testing.T) {
	c := &hashCache{dir: filepath.Join(t.TempDir(), "commands")}

	hashes, err := c.load("1")
	require.NoError(t, err)
	assert.Empty(t, hashes)

	require.NoError(t, c.save("1", map[string]string{"ping": "abc"}))
	hashes, err = c.load("1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ping": "abc"}, hashes)

	require.NoError(t, c.drop("1"))
	require.NoError(t, c.drop("1"), "dropping twice is fine")
	hashes, err = c.load("1")
	require.NoError(t, err)
	assert.Empty(t, hashes)

	require.NoError(t, os.WriteFile(c.path("2"), []byte("{not json"), 0o644))
	hashes, err = c.load("2")
	assert.Error(t, err)
	assert.NotNil(t, hashes)
}

func TestStopJobsWaitsForRegistration(t *testing.T) {
	b := &Bot{jobs: jobmgr.New(), ctx: context.Background()}

	started := make(chan struct{})
	var saved atomic.Bool
	err := b.jobs.Start(b.ctx, registerJob("1"), func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		// the cache write that follows a cancelled sync
		time.Sleep(20 * time.Millisecond)
		saved.Store(true)
		return ctx.Err()
	})
	require.NoError(t, err)
	<-started

	b.stopJobs()
	assert.True(t, saved.Load(), "stopJobs returned before the job finished")
	assert.Empty(t, b.jobs.Running())
}
