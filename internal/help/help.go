package help

import (
	"context"
	"errors"
	"fmt"

	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/listing"
)

// NotFoundError is a help lookup naming no known command.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

// Help renders help for the commands of a registry.
type Help struct {
	AppName  string
	Registry *command.Registry
}

// New returns a Help over reg.
func New(appName string, reg *command.Registry) *Help {
	return &Help{AppName: appName, Registry: reg}
}

// Overview lists every command the caller may see, by category.
func (h *Help) Overview(ctx context.Context, c *command.Caller) *listing.Listing {
	visible := FilterVisible(ctx, h.Registry.All(), c, false)
	return RenderOverview(h.AppName, Mapping(visible), c)
}

// Resolve finds the command named by the words of path, e.g. ["cmds", "refresh"].
func (h *Help) Resolve(path []string) (command.Command, error) {
	if len(path) == 0 {
		return nil, &NotFoundError{msg: "No command given."}
	}
	cmd, ok := h.Registry.Get(path[0])
	if !ok {
		return nil, &NotFoundError{msg: fmt.Sprintf("No command called %q found.", path[0])}
	}
	for _, name := range path[1:] {
		if !command.IsGroup(cmd) {
			return nil, &NotFoundError{msg: fmt.Sprintf("Command %q has no subcommands.", command.QualifiedName(cmd))}
		}
		sub, ok := command.FindSubcommand(cmd, name)
		if !ok {
			return nil, &NotFoundError{msg: fmt.Sprintf("Command %q has no subcommand named %s", command.QualifiedName(cmd), name)}
		}
		cmd = sub
	}
	return cmd, nil
}

// Describe renders help for the command named by path, or the overview when
// path is empty. Unknown names render as a help error listing; a command the
// caller may not run fails with command.ErrNotPermitted.
func (h *Help) Describe(ctx context.Context, c *command.Caller, path []string) (*listing.Listing, error) {
	if len(path) == 0 {
		return h.Overview(ctx, c), nil
	}

	cmd, err := h.Resolve(path)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return ErrorListing(h.AppName, nf.Error()), nil
	}
	if err != nil {
		return nil, err
	}

	if command.IsGroup(cmd) {
		return RenderGroupDetail(ctx, cmd, c)
	}
	return RenderCommandDetail(ctx, cmd, c)
}
