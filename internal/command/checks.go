package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Check is a permission predicate evaluated against the caller.
type Check func(ctx context.Context, c *Caller) (bool, error)

var errNoSession = errors.New("no Discord session to check permissions against")

// OwnerOnly passes for configured bot owners.
func OwnerOnly() Check {
	return func(_ context.Context, c *Caller) (bool, error) {
		return c.IsOwner(), nil
	}
}

// GuildOnly passes when invoked inside a server.
func GuildOnly() Check {
	return func(_ context.Context, c *Caller) (bool, error) {
		return c != nil && c.GuildID != "", nil
	}
}

// Enabled fails with ErrDisabled when on reports false.
func Enabled(on func() bool) Check {
	return func(context.Context, *Caller) (bool, error) {
		if !on() {
			return false, ErrDisabled
		}
		return true, nil
	}
}

// UserPermissions passes when the caller holds ANY of perms in the channel.
// Owners and administrators always pass; DMs never do. A member who lacks
// them is refused with a *MissingPermissionsError.
func UserPermissions(perms ...int64) Check {
	return func(_ context.Context, c *Caller) (bool, error) {
		if c.IsOwner() {
			return true, nil
		}
		if c == nil || c.GuildID == "" {
			return false, nil
		}

		memberPerms, err := channelPermissions(c)
		if err != nil {
			return false, err
		}
		if memberPerms&discordgo.PermissionAdministrator != 0 {
			return true, nil
		}
		for _, p := range perms {
			if memberPerms&p != 0 {
				return true, nil
			}
		}
		return false, &MissingPermissionsError{Perms: perms}
	}
}

// channelPermissions prefers the permissions Discord resolved into the
// interaction member; message members carry none.
func channelPermissions(c *Caller) (int64, error) {
	if c.Member != nil && c.Member.Permissions != 0 {
		return c.Member.Permissions, nil
	}
	if c.Session == nil {
		return 0, errNoSession
	}
	perms, err := c.Session.UserChannelPermissions(c.UserID, c.ChannelID)
	if err != nil {
		return 0, fmt.Errorf("failed to get user permissions: %w", err)
	}
	return perms, nil
}

var PermissionNames = map[int64]string{
	discordgo.PermissionAdministrator:      "Administrator",
	discordgo.PermissionManageGuild:        "Manage Server",
	discordgo.PermissionManageChannels:     "Manage Channels",
	discordgo.PermissionManageMessages:     "Manage Messages",
	discordgo.PermissionManageRoles:        "Manage Roles",
	discordgo.PermissionManageWebhooks:     "Manage Webhooks",
	discordgo.PermissionSendMessages:       "Send Messages",
	discordgo.PermissionEmbedLinks:         "Embed Links",
	discordgo.PermissionAttachFiles:        "Attach Files",
	discordgo.PermissionAddReactions:       "Add Reactions",
	discordgo.PermissionViewChannel:        "View Channel",
	discordgo.PermissionReadMessageHistory: "Read Message History",
}

// DescribePermissions renders permission bits for a user-facing message.
func DescribePermissions(perms ...int64) string {
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		name := PermissionNames[p]
		if name == "" {
			name = fmt.Sprintf("0x%x", p)
		}
		names = append(names, name)
	}
	return "`" + strings.Join(names, "`, `") + "`"
}
