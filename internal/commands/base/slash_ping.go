package base

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/config"
	"github.com/keshon/qrm/internal/listing"
)

// mentionChance is how often ping also pings the caller back.
const mentionChance = 0.05

type PingCommand struct{}

func (c *PingCommand) Name() string              { return "ping" }
func (c *PingCommand) Description() string       { return "Shows the current latency to the discord endpoint." }
func (c *PingCommand) Aliases() []string         { return nil }
func (c *PingCommand) Category() config.Category { return config.CategoryInfo }
func (c *PingCommand) Hidden() bool              { return false }

func (c *PingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *PingCommand) Run(inv *command.Invocation) error {
	var latency time.Duration
	if inv.Caller != nil && inv.Caller.Session != nil {
		latency = inv.Caller.Session.HeartbeatLatency()
	}

	l := pong(latency)
	if rand.Float64() < mentionChance {
		l.Content = inv.Caller.Mention()
	}
	return inv.Reply(l)
}

func pong(latency time.Duration) *listing.Listing {
	l := listing.New("🏓 **Pong!**")
	l.Description = fmt.Sprintf("Current ping is %.1f ms", float64(latency)/float64(time.Millisecond))
	return l
}
