package changelog

import (
	"errors"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrVersionNotFound is matched by every *VersionNotFoundError.
var ErrVersionNotFound = errors.New("version not found")

// VersionNotFoundError carries the versions a caller could have asked for.
type VersionNotFoundError struct {
	Requested string
	Valid     []string
}

func (e *VersionNotFoundError) Error() string {
	return "version " + e.Requested + " not found"
}

func (e *VersionNotFoundError) Is(target error) bool {
	return target == ErrVersionNotFound
}

// Resolve looks up a user-supplied version token. The token is case-folded;
// "latest" means release and "unreleased" the Unreleased section.
func (c *Changelog) Resolve(token, release string) (*Entry, error) {
	version := strings.ToLower(strings.TrimSpace(token))
	switch version {
	case "", "latest":
		version = release
	case "unreleased":
		version = Unreleased
	}

	if e, ok := c.Get(version); ok {
		return e, nil
	}
	return nil, &VersionNotFoundError{Requested: version, Valid: c.Released()}
}

// Released lists every version except Unreleased, newest first. Versions
// that are not semantic versions follow, in lexical order.
func (c *Changelog) Released() []string {
	type ver struct {
		raw string
		sv  *semver.Version
	}
	var vers []ver
	for _, e := range c.entries {
		if e.Version == Unreleased {
			continue
		}
		sv, _ := semver.NewVersion(e.Version)
		vers = append(vers, ver{raw: e.Version, sv: sv})
	}

	slices.SortStableFunc(vers, func(a, b ver) int {
		switch {
		case a.sv != nil && b.sv != nil:
			return b.sv.Compare(a.sv)
		case a.sv != nil:
			return -1
		case b.sv != nil:
			return 1
		default:
			return strings.Compare(a.raw, b.raw)
		}
	})

	out := make([]string, len(vers))
	for i, v := range vers {
		out[i] = v.raw
	}
	return out
}
