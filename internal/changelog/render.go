package changelog

import (
	"strings"

	"github.com/keshon/qrm/internal/listing"
)

// Render turns an entry into one field per section, in file order. The
// caller fills in the title and description.
func Render(e *Entry) *listing.Listing {
	l := listing.New("")
	for _, s := range e.Sections {
		var sb strings.Builder
		for _, line := range s.Lines {
			sb.WriteString("- " + line + "\n")
		}
		l.AddField("**"+s.Name+"**", sb.String())
	}
	return l
}
