package help

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/keshon/qrm/internal/command"
)

// DefaultReadmeTemplate is used when no README.md.tmpl is present.
const DefaultReadmeTemplate = `# {{.AppName}}

{{.Description}}

## Commands

{{.CommandSections}}`

// Catalog returns every non-hidden command without evaluating predicates,
// ordered like the help overview. It is the public command list, not what
// any particular caller may run.
func Catalog(cmds []command.Command) []Bucket {
	listed := make([]command.Command, 0, len(cmds))
	for _, cmd := range cmds {
		if !cmd.Hidden() {
			listed = append(listed, cmd)
		}
	}
	return Mapping(listed)
}

// CommandSections renders the buckets as markdown: a heading per category
// and one entry per command with its signature and description.
func CommandSections(buckets []Bucket, prefix string) string {
	var sb strings.Builder
	for _, b := range buckets {
		fmt.Fprintf(&sb, "### %s\n\n", b.Category)
		for _, cmd := range b.Commands {
			sig := strings.TrimRight(prefix+command.QualifiedName(cmd)+" "+command.Usage(cmd), " ")
			fmt.Fprintf(&sb, "* **`%s`**\n  %s\n", sig, cmd.Description())
			if aliases := cmd.Aliases(); len(aliases) > 0 {
				fmt.Fprintf(&sb, "  *Aliases:* %s\n", strings.Join(aliases, ", "))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// WriteReadme executes tmpl with the app name, description and command
// sections.
func WriteReadme(w io.Writer, tmpl, appName, description string, buckets []Bucket, prefix string) error {
	t, err := template.New("readme").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse readme template: %w", err)
	}
	data := map[string]any{
		"AppName":         appName,
		"Description":     description,
		"CommandSections": CommandSections(buckets, prefix),
	}
	if err := t.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render readme: %w", err)
	}
	return nil
}
