package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/config"
	"github.com/keshon/qrm/pkg/jobmgr"
	"github.com/keshon/qrm/pkg/retrylimit"
)

// Bot is a Discord bot
type Bot struct {
	dg    *discordgo.Session
	cfg   *config.Config
	reg   *command.Registry
	cache *hashCache
	lim   *retrylimit.Limiter
	jobs  *jobmgr.Manager

	// regMu serialises slash registration, which rewrites the hash cache.
	regMu sync.Mutex
	ctx   context.Context
}

// New creates the bot and its Discord session. Nothing connects until Run.
func New(cfg *config.Config, reg *command.Registry) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &Bot{
		dg:    dg,
		cfg:   cfg,
		reg:   reg,
		cache: &hashCache{dir: cfg.CommandCacheDir},
		lim:   retrylimit.NewLimiter(5, 1, 20),
		jobs:  jobmgr.New(),
		ctx:   context.Background(),
	}, nil
}

// Session exposes the underlying session, e.g. for the commands' deps.
func (b *Bot) Session() *discordgo.Session {
	return b.dg
}

// Run opens the gateway connection and blocks until ctx is done. It returns
// only once every background job has stopped and the session is closed.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx

	b.configureIntents()
	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onGuildCreate)
	b.dg.AddHandler(b.onMessageCreate)
	b.dg.AddHandler(b.onInteractionCreate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received, cleaning up")
	b.stopJobs()
	return nil
}

// stopJobs cancels the running jobs and waits for them to return.
func (b *Bot) stopJobs() {
	b.jobs.StopAll()
	b.jobs.Wait()
}

// configureIntents asks for the events the bot handles; message content is
// needed for prefix commands.
func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
}

// onReady is called when the bot is ready
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	for _, g := range r.Guilds {
		if b.leaveIfBlacklisted(s, g.ID, g.Name) {
			continue
		}
		b.syncGuild(g.ID)
	}
	log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("Discord bot is running")
}

// onGuildCreate is called when the bot joins a guild and for every guild
// once the session becomes available.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil || g.Unavailable {
		return
	}
	log.Debug().Str("guild", g.ID).Str("name", g.Name).Msg("Guild available")
	if b.leaveIfBlacklisted(s, g.ID, g.Name) {
		return
	}
	b.syncGuild(g.ID)
}

func (b *Bot) leaveIfBlacklisted(s *discordgo.Session, guildID, name string) bool {
	if !b.cfg.IsGuildBlacklisted(guildID) {
		return false
	}
	log.Info().Str("guild", guildID).Str("name", name).Msg("Leaving blacklisted guild")
	if err := s.GuildLeave(guildID); err != nil {
		log.Error().Err(err).Str("guild", guildID).Msg("Failed to leave guild")
	}
	return true
}

func (b *Bot) syncGuild(guildID string) {
	if !b.cfg.InitSlashCommands {
		log.Debug().Str("guild", guildID).Msg("Slash command registration skipped")
		return
	}
	// ready and guild-create both fire for the same guild on start-up
	err := b.jobs.Start(b.ctx, registerJob(guildID), func(ctx context.Context) error {
		return b.registerCommands(ctx, guildID, false)
	})
	if errors.Is(err, jobmgr.ErrRunning) {
		log.Debug().Str("guild", guildID).Msg("Slash command registration already running")
	}
}

func registerJob(guildID string) string {
	return "register:" + guildID
}
