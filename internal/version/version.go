// Package version holds the static facts about the bot shown by the info,
// issue and changelog commands.
package version

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Release is the current release; it is the version "latest" resolves to in
// the changelog. Overridable at build time with
// -ldflags "-X github.com/keshon/qrm/internal/version.Release=..."
var Release = "2.9.2"

// BuildDate is set at build time (RFC 3339); empty in development builds.
var BuildDate = ""

// GoVersion is the toolchain the binary was built with.
var GoVersion = runtime.Version()

const (
	AppName        = "qrm"
	AppDescription = "A bot with various useful ham radio-related functions, written in Go.\n\nqrm is a MiaowWare project."
	License        = "Québec Free and Open-Source Licence – Strong Reciprocity (LiLiQ-R+), version 1.1"
	Contributing   = "Check out the [source on GitHub](https://github.com/miaowware/qrm2). Contributions are welcome!\n\n" +
		"All issues and requests related to resources (including maps, band charts, data) should be added in " +
		"[miaowware/qrm-resources](https://github.com/miaowware/qrm-resources)."
	IssueTracker = "Submit an issue on the [issue tracker](https://github.com/miaowware/qrm2/issues)!\n\n" +
		"All issues and requests related to resources (including maps, band charts, data) should be added in " +
		"[miaowware/qrm-resources](https://github.com/miaowware/qrm-resources/issues)."
	ChangelogURL = "https://github.com/JayToTheAy/qrm3/blob/master/CHANGELOG.md"
	BotServer    = "https://discord.gg/Ntbg3J4"
	Donating     = ""
)

var Authors = []string{"@classabbyamp", "@0x5c.io"}

// Commit returns the short hash of the running build, looked up in dir: a
// git_commit file (written by container builds) wins over a .git checkout.
// It returns "" when neither is available.
func Commit(dir string) string {
	if line := firstLine(filepath.Join(dir, "git_commit")); line != "" {
		return short(line)
	}

	head := firstLine(filepath.Join(dir, ".git", "HEAD"))
	ref, ok := strings.CutPrefix(head, "ref: ")
	if !ok {
		// detached HEAD holds the hash itself
		return short(head)
	}
	return short(firstLine(filepath.Join(dir, ".git", filepath.FromSlash(ref))))
}

func firstLine(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if sc.Scan() {
		return strings.TrimSpace(sc.Text())
	}
	return ""
}

func short(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
