// Package help decides which commands a caller may see and renders the help
// listings: the category overview, a single command, and a command group.
package help

import (
	"cmp"
	"context"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/keshon/qrm/internal/command"
	"github.com/keshon/qrm/internal/config"
)

// Bucket is one category of the overview with its commands, sorted by name.
type Bucket struct {
	Category config.Category
	Commands []command.Command
}

// FilterVisible returns the commands of cmds the caller may run, hidden ones
// only when showHidden is set. Predicates run sequentially, once per command;
// a predicate that fails counts as a refusal and never aborts the listing.
// The result is ordered by category (declaration order, "Other" last) and
// by name inside each category.
func FilterVisible(ctx context.Context, cmds []command.Command, c *command.Caller, showHidden bool) []command.Command {
	seen := make(map[string]bool, len(cmds))
	visible := make([]command.Command, 0, len(cmds))

	for _, cmd := range cmds {
		key := command.QualifiedName(cmd)
		if seen[key] {
			continue
		}
		seen[key] = true

		if cmd.Hidden() && !showHidden {
			continue
		}
		ok, err := command.CanRun(ctx, cmd, c)
		if err != nil {
			log.Debug().Err(err).Str("command", key).Msg("Permission check failed, hiding command")
			continue
		}
		if ok {
			visible = append(visible, cmd)
		}
	}

	sortByCategory(visible)
	return visible
}

// Mapping groups commands into buckets: known categories in declaration
// order, then the single "Other" bucket. Empty buckets are omitted.
func Mapping(cmds []command.Command) []Bucket {
	byCat := make(map[config.Category][]command.Command)
	for _, cmd := range cmds {
		cat := normalize(cmd.Category())
		byCat[cat] = append(byCat[cat], cmd)
	}

	buckets := make([]Bucket, 0, len(byCat))
	for _, cat := range append(slices.Clone(config.Categories), config.CategoryOther) {
		if list := byCat[cat]; len(list) > 0 {
			sortByCategory(list)
			buckets = append(buckets, Bucket{Category: cat, Commands: list})
		}
	}
	return buckets
}

func sortByCategory(cmds []command.Command) {
	slices.SortStableFunc(cmds, func(a, b command.Command) int {
		ca, cb := normalize(a.Category()), normalize(b.Category())
		return cmp.Or(
			cmp.Compare(ca.Order(), cb.Order()),
			cmp.Compare(ca.String(), cb.String()),
			cmp.Compare(a.Name(), b.Name()),
		)
	})
}

func normalize(cat config.Category) config.Category {
	if cat.Known() {
		return cat
	}
	return config.CategoryOther
}
