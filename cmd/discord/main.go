// cmd/discord/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/keshon/qrm/internal/changelog"
	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/commands/base"
	"github.com/keshon/qrm/internal/config"
	"github.com/keshon/qrm/internal/discord"
	"github.com/keshon/qrm/internal/logging"
	v "github.com/keshon/qrm/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logging.Setup(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}

	commit := v.Commit(".")
	log.Info().Str("release", v.Release).Str("commit", commit).Msgf("Starting %s bot", v.AppName)

	cl, err := changelog.Load(cfg.ChangelogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load changelog")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := command.NewRegistry()
	bot, err := discord.New(cfg, reg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Discord bot")
	}
	err = base.Register(&base.Deps{
		Config:    cfg,
		Registry:  reg,
		Changelog: cl,
		Refresher: bot,
		Commit:    commit,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register commands")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("Shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("Discord bot error")
		}
	}
	cancel()

	// Run returns only after its jobs have stopped and the session is closed
	for err := range errCh {
		log.Error().Err(err).Msg("Discord bot error")
	}
	log.Info().Msg("Discord bot exited cleanly")
}
