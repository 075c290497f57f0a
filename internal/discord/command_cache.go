package discord

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// hashCache remembers, per guild, the hash of every slash definition last
// sent to Discord. One JSON file per guild: {"name": "sha1"}.
type hashCache struct {
	dir string
}

func (c *hashCache) path(guildID string) string {
	return filepath.Join(c.dir, guildID+".json")
}

// load returns the cached hashes of a guild; a missing file is an empty cache.
func (c *hashCache) load(guildID string) (map[string]string, error) {
	hashes := make(map[string]string)
	data, err := os.ReadFile(c.path(guildID))
	if errors.Is(err, fs.ErrNotExist) {
		return hashes, nil
	}
	if err != nil {
		return hashes, fmt.Errorf("failed to read command cache: %w", err)
	}
	if err := json.Unmarshal(data, &hashes); err != nil {
		return make(map[string]string), fmt.Errorf("failed to decode command cache %s: %w", c.path(guildID), err)
	}
	if hashes == nil {
		hashes = make(map[string]string)
	}
	return hashes, nil
}

func (c *hashCache) save(guildID string, hashes map[string]string) error {
	path := c.path(guildID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create command cache dir: %w", err)
	}
	data, err := json.MarshalIndent(hashes, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write command cache: %w", err)
	}
	return nil
}

// drop forgets a guild so its next registration re-sends everything.
func (c *hashCache) drop(guildID string) error {
	err := os.Remove(c.path(guildID))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear command cache: %w", err)
	}
	return nil
}
