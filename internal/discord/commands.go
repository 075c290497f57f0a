package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/pkg/retrylimit"
)

const registerTimeout = 2 * time.Minute

// registerCommands syncs the slash commands of a guild with Discord:
// deletes obsolete ones and creates or updates those whose definition
// changed since the cached hash. force ignores the cache.
func (b *Bot) registerCommands(ctx context.Context, guildID string, force bool) error {
	b.regMu.Lock()
	defer b.regMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, registerTimeout)
	defer cancel()

	appID, err := b.appID()
	if err != nil {
		return err
	}

	var remote []*discordgo.ApplicationCommand
	err = b.call(ctx, func() (err error) {
		remote, err = b.dg.ApplicationCommands(appID, guildID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list registered commands: %w", err)
	}

	hashes, err := b.cache.load(guildID)
	if err != nil {
		log.Warn().Err(err).Str("guild", guildID).Msg("Ignoring unreadable command cache")
	}
	if force {
		hashes = make(map[string]string)
	}

	local := definitions(b.reg)
	wanted := make(map[string]*discordgo.ApplicationCommand, len(local))
	for _, def := range local {
		wanted[def.Name] = def
	}

	registered := make(map[string]bool, len(remote))
	for _, rc := range remote {
		if _, ok := wanted[rc.Name]; ok {
			registered[rc.Name] = true
			continue
		}
		log.Info().Str("guild", guildID).Str("command", rc.Name).Msg("Deleting obsolete command")
		err := b.call(ctx, func() error {
			return b.dg.ApplicationCommandDelete(appID, guildID, rc.ID)
		})
		if err != nil {
			log.Error().Err(err).Str("guild", guildID).Str("command", rc.Name).Msg("Failed to delete command")
			continue
		}
		delete(hashes, rc.Name)
	}

	changed := 0
	for _, def := range local {
		h := hashCommand(def)
		if registered[def.Name] && hashes[def.Name] == h {
			continue
		}
		err := b.call(ctx, func() error {
			_, err := b.dg.ApplicationCommandCreate(appID, guildID, def)
			return err
		})
		if err != nil {
			log.Error().Err(err).Str("guild", guildID).Str("command", def.Name).Msg("Failed to register command")
			continue
		}
		hashes[def.Name] = h
		changed++
	}

	if changed > 0 {
		log.Info().Str("guild", guildID).Int("changed", changed).Msg("Registered slash commands")
	}
	return b.cache.save(guildID, hashes)
}

// RefreshCommands re-sends every slash definition of a guild, or removes
// them all when the guild is blacklisted.
func (b *Bot) RefreshCommands(guildID string) error {
	if guildID == "" {
		return fmt.Errorf("slash commands are registered per server")
	}
	b.jobs.Stop(registerJob(guildID))
	if b.cfg.IsGuildBlacklisted(guildID) {
		return b.removeAllCommands(guildID)
	}
	return b.registerCommands(b.ctx, guildID, true)
}

// RunningJobs lists the registration jobs still in flight.
func (b *Bot) RunningJobs() []string {
	return b.jobs.Running()
}

func (b *Bot) removeAllCommands(guildID string) error {
	b.regMu.Lock()
	defer b.regMu.Unlock()

	ctx, cancel := context.WithTimeout(b.ctx, registerTimeout)
	defer cancel()

	appID, err := b.appID()
	if err != nil {
		return err
	}
	var existing []*discordgo.ApplicationCommand
	err = b.call(ctx, func() (err error) {
		existing, err = b.dg.ApplicationCommands(appID, guildID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to list registered commands: %w", err)
	}
	for _, c := range existing {
		err := b.call(ctx, func() error {
			return b.dg.ApplicationCommandDelete(appID, guildID, c.ID)
		})
		if err != nil {
			log.Error().Err(err).Str("guild", guildID).Str("command", c.Name).Msg("Failed to delete command")
		}
	}
	return b.cache.drop(guildID)
}

// call runs one REST request through the shared limiter.
func (b *Bot) call(ctx context.Context, fn func() error) error {
	return retrylimit.Do(ctx, b.lim, retrylimit.Policy{}, fn)
}

// definitions collects the slash definitions of every top-level command.
// Prefix-only commands have none.
func definitions(reg *command.Registry) []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range reg.All() {
		sp, ok := c.(command.SlashProvider)
		if !ok {
			continue
		}
		def := sp.SlashDefinition()
		if def == nil {
			continue
		}
		if def.Type == 0 {
			def.Type = discordgo.ChatApplicationCommand
		}
		defs = append(defs, def)
	}
	return defs
}

// appID returns the bot's application ID, fetching it if State has none yet.
func (b *Bot) appID() (string, error) {
	if u := b.dg.State.User; u != nil && u.ID != "" {
		return u.ID, nil
	}
	u, err := b.dg.User("@me")
	if err != nil {
		return "", fmt.Errorf("failed to fetch bot user: %w", err)
	}
	return u.ID, nil
}
