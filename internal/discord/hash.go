package discord

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// commandShape is the part of a definition Discord cares about; IDs and
// versions assigned by Discord are left out so hashes stay stable.
type commandShape struct {
	Name        string                           `json:"name"`
	Description string                           `json:"description"`
	Type        discordgo.ApplicationCommandType `json:"type"`
	Permissions *int64                           `json:"permissions,omitempty"`
	Options     []optionShape                    `json:"options,omitempty"`
}

type optionShape struct {
	Name        string                                 `json:"name"`
	Description string                                 `json:"description"`
	Type        discordgo.ApplicationCommandOptionType `json:"type"`
	Required    bool                                   `json:"required"`
	Choices     []choiceShape                          `json:"choices,omitempty"`
	Options     []optionShape                          `json:"options,omitempty"`
}

type choiceShape struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// hashCommand returns a deterministic digest of a slash definition, used to
// skip re-sending definitions that have not changed.
func hashCommand(def *discordgo.ApplicationCommand) string {
	shape := commandShape{
		Name:        def.Name,
		Description: def.Description,
		Type:        def.Type,
		Permissions: def.DefaultMemberPermissions,
		Options:     shapeOptions(def.Options),
	}
	data, _ := json.Marshal(shape)
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// shapeOptions sorts options by name; their order does not change the command.
func shapeOptions(opts []*discordgo.ApplicationCommandOption) []optionShape {
	if len(opts) == 0 {
		return nil
	}
	out := make([]optionShape, 0, len(opts))
	for _, o := range opts {
		sh := optionShape{
			Name:        o.Name,
			Description: o.Description,
			Type:        o.Type,
			Required:    o.Required,
			Options:     shapeOptions(o.Options),
		}
		for _, c := range o.Choices {
			sh.Choices = append(sh.Choices, choiceShape{Name: c.Name, Value: c.Value})
		}
		out = append(out, sh)
	}
	slices.SortFunc(out, func(a, b optionShape) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
