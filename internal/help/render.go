package help

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/listing"
)

// Signature is how a command is invoked: prefix, qualified name and
// arguments, followed by an aliases line when it has any.
func Signature(cmd command.Command, prefix string) string {
	sig := strings.TrimRight(prefix+command.QualifiedName(cmd)+" "+command.Usage(cmd), " ")
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		sig += "\n    *Aliases:* " + strings.Join(aliases, ", ")
	}
	return sig
}

// RenderOverview renders one field per non-empty bucket with the
// comma-joined command names.
func RenderOverview(appName string, buckets []Bucket, c *command.Caller) *listing.Listing {
	prefix := prefixOf(c)
	l := listing.New(appName + " Help")
	l.Description = fmt.Sprintf(
		"For command-specific help and usage, use `%shelp [command name]`. Many commands have shorter aliases.",
		prefix,
	)
	if c != nil && len(c.Prefixes) > 1 {
		l.Description += " All of the following prefixes work with the bot: `" +
			strings.Join(c.Prefixes, "`, `") + "`."
	}

	for _, b := range buckets {
		if len(b.Commands) == 0 {
			continue
		}
		names := make([]string, len(b.Commands))
		for i, cmd := range b.Commands {
			names[i] = cmd.Name()
		}
		l.AddField(b.Category.String(), strings.Join(names, ", "))
	}
	return l
}

// RenderCommandDetail renders the signature and help text of cmd. It fails
// with command.ErrNotPermitted when the caller may not run cmd or any group
// above it.
func RenderCommandDetail(ctx context.Context, cmd command.Command, c *command.Caller) (*listing.Listing, error) {
	if err := verify(ctx, cmd, c); err != nil {
		return nil, err
	}
	l := listing.New(Signature(cmd, prefixOf(c)))
	l.Description = command.HelpText(cmd)
	return l, nil
}

// RenderGroupDetail renders a group like RenderCommandDetail plus one field
// per subcommand the caller may see.
func RenderGroupDetail(ctx context.Context, group command.Command, c *command.Caller) (*listing.Listing, error) {
	if err := verify(ctx, group, c); err != nil {
		return nil, err
	}
	prefix := prefixOf(c)
	l := listing.New(Signature(group, prefix))
	l.Description = command.HelpText(group)

	for _, sub := range FilterVisible(ctx, command.Subcommands(group), c, false) {
		l.AddField(Signature(sub, prefix), command.HelpText(sub))
	}
	return l, nil
}

// ErrorListing is how help reports a lookup it could not satisfy.
func ErrorListing(appName, msg string) *listing.Listing {
	l := listing.New(appName + " Help Error")
	l.Description = msg
	l.Colour = listing.ColourBad
	return l
}

func verify(ctx context.Context, cmd command.Command, c *command.Caller) error {
	ok, err := command.CanRunChain(ctx, cmd, c)
	if ok {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", command.ErrNotPermitted, command.QualifiedName(cmd), err)
	}
	return fmt.Errorf("%w: %s", command.ErrNotPermitted, command.QualifiedName(cmd))
}

func prefixOf(c *command.Caller) string {
	if c == nil {
		return ""
	}
	return c.Prefix
}
