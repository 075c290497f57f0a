// /internal/config/config.go
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment (and an
// optional .env file) once at start-up.
type Config struct {
	DiscordToken          string   `env:"DISCORD_TOKEN"`
	Prefixes              []string `env:"COMMAND_PREFIXES" envDefault:"?" envSeparator:","`
	OwnerIDs              []string `env:"OWNER_IDS" envSeparator:","`
	DiscordGuildBlacklist []string `env:"DISCORD_GUILD_BLACKLIST" envSeparator:","`
	InitSlashCommands     bool     `env:"INIT_SLASH_COMMANDS" envDefault:"true"`

	ChangelogPath   string `env:"CHANGELOG_PATH" envDefault:"CHANGELOG.md"`
	CommandCacheDir string `env:"COMMAND_CACHE_DIR" envDefault:"data/commands"`

	InviteEnabled     bool  `env:"INVITE_ENABLED" envDefault:"false"`
	InvitePermissions int64 `env:"INVITE_PERMISSIONS" envDefault:"387136"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile   string `env:"LOG_FILE"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"true"`
}

// Load reads .env (if present) and the environment into a Config.
// A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.Prefixes = compact(cfg.Prefixes)
	cfg.OwnerIDs = compact(cfg.OwnerIDs)
	cfg.DiscordGuildBlacklist = compact(cfg.DiscordGuildBlacklist)
	if len(cfg.Prefixes) == 0 {
		cfg.Prefixes = []string{"?"}
	}
	return &cfg, nil
}

// Validate reports configuration that makes the Discord bot unable to start.
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is not set")
	}
	return nil
}

// IsGuildBlacklisted reports whether the bot should refuse to serve guildID.
func (c *Config) IsGuildBlacklisted(guildID string) bool {
	return slices.Contains(c.DiscordGuildBlacklist, guildID)
}

// compact drops empty entries left by stray separators ("?,,!").
func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
