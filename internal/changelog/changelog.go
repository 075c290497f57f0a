// Package changelog parses the bot's CHANGELOG.md once at start-up and
// renders single versions from it.
package changelog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Unreleased is the pseudo-version collecting changes not yet released.
const Unreleased = "Unreleased"

var (
	versionHeading = regexp.MustCompile(`^##[^#]`)
	versionTitle   = regexp.MustCompile(`^\[(.+)\](?: - )?(\d{4}-\d{2}-\d{2})?`)
	sectionHeading = regexp.MustCompile(`^###[^#]`)
)

// Section is a "### Added"-style heading and its bullet lines.
type Section struct {
	Name  string
	Lines []string
}

// Entry is one version of the changelog.
type Entry struct {
	Version  string
	Date     string
	Sections []Section
}

// Section returns the lines under the named heading.
func (e *Entry) Section(name string) ([]string, bool) {
	for _, s := range e.Sections {
		if s.Name == name {
			return s.Lines, true
		}
	}
	return nil, false
}

// Changelog is the parsed file. It is never modified after parsing, so it
// can be shared freely between goroutines.
type Changelog struct {
	entries []*Entry
	index   map[string]int
}

// Load parses the changelog file at path.
func Load(path string) (*Changelog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open changelog: %w", err)
	}
	defer f.Close()

	cl, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cl, nil
}

// Parse reads a Keep-a-Changelog style document:
//
//	## [1.2.0] - 2023-01-01
//	### Added
//	- Thing A
//
// Lines that fit nowhere (text outside a version or section, headings
// without a bracketed version) are ignored.
func Parse(r io.Reader) (*Changelog, error) {
	cl := &Changelog{index: make(map[string]int)}

	var (
		entry   *Entry
		section = -1
	)

	// lines have no length limit
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if err != nil && line == "" {
			break
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		switch {
		case versionHeading.MatchString(line):
			m := versionTitle.FindStringSubmatch(strings.TrimSpace(strings.TrimLeft(line, "#")))
			if m == nil {
				continue
			}
			entry = cl.put(&Entry{Version: m[1], Date: m[2]})
			section = -1

		case sectionHeading.MatchString(line):
			if entry == nil {
				continue
			}
			section = entry.open(strings.TrimSpace(strings.TrimLeft(line, "#")))

		case entry != nil && section >= 0 && strings.HasPrefix(line, "-"):
			s := &entry.Sections[section]
			s.Lines = append(s.Lines, strings.TrimSpace(strings.TrimLeft(line, "-")))
		}
	}
	return cl, nil
}

// ParseString parses an in-memory changelog.
func ParseString(s string) *Changelog {
	cl, err := Parse(strings.NewReader(s))
	if err != nil {
		// unreachable: a strings.Reader never fails
		return &Changelog{index: make(map[string]int)}
	}
	return cl
}

// put stores e, replacing an earlier entry of the same version in place.
func (c *Changelog) put(e *Entry) *Entry {
	if i, ok := c.index[e.Version]; ok {
		c.entries[i] = e
		return e
	}
	c.index[e.Version] = len(c.entries)
	c.entries = append(c.entries, e)
	return e
}

// open starts (or restarts) the named section and returns its index.
func (e *Entry) open(name string) int {
	for i := range e.Sections {
		if e.Sections[i].Name == name {
			e.Sections[i].Lines = []string{}
			return i
		}
	}
	e.Sections = append(e.Sections, Section{Name: name, Lines: []string{}})
	return len(e.Sections) - 1
}

// Get returns the entry for an exact version string.
func (c *Changelog) Get(version string) (*Entry, bool) {
	i, ok := c.index[version]
	if !ok {
		return nil, false
	}
	return c.entries[i], true
}

// Versions returns every version in file order, Unreleased included.
func (c *Changelog) Versions() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Version
	}
	return out
}

// Len is the number of versions.
func (c *Changelog) Len() int {
	return len(c.entries)
}
