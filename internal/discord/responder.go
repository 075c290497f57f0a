package discord

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/listing"
)

// responder answers one invocation. The first slash reply is the
// interaction response; later ones are followups.
type responder struct {
	responded bool
}

func (r *responder) Send(inv *command.Invocation, l *listing.Listing) error {
	return r.send(inv, l, false)
}

func (r *responder) SendEphemeral(inv *command.Invocation, l *listing.Listing) error {
	return r.send(inv, l, true)
}

func (r *responder) send(inv *command.Invocation, l *listing.Listing, ephemeral bool) error {
	if inv.Caller == nil || inv.Caller.Session == nil {
		return errors.New("no Discord session to respond with")
	}
	s := inv.Caller.Session
	embeds := []*discordgo.MessageEmbed{l.Embed()}

	if i := inv.Interaction; i != nil {
		var flags discordgo.MessageFlags
		if ephemeral {
			flags = discordgo.MessageFlagsEphemeral
		}
		if r.responded {
			_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
				Content: l.Content,
				Embeds:  embeds,
				Flags:   flags,
			})
			return wrapSend(err)
		}
		r.responded = true
		return wrapSend(s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: l.Content,
				Embeds:  embeds,
				Flags:   flags,
			},
		}))
	}

	// Prefix replies have no ephemeral form.
	msg := &discordgo.MessageSend{Content: l.Content, Embeds: embeds}
	if m := inv.Message; m != nil {
		msg.Reference = m.Reference()
		msg.AllowedMentions = &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
		}
	}
	_, err := s.ChannelMessageSendComplex(inv.Caller.ChannelID, msg)
	return wrapSend(err)
}

func wrapSend(err error) error {
	if err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}
	return nil
}
