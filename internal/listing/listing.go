// Package listing holds the display object command handlers build and the
// transports send: a title, a description and an ordered list of fields.
package listing

import (
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Embed colours.
const (
	ColourNeutral = 0x7289da
	ColourGood    = 0x43b581
	ColourBad     = 0xf04747
)

// Discord embed limits.
const (
	maxTitle       = 256
	maxDescription = 4096
	maxFields      = 25
	maxFieldName   = 256
	maxFieldValue  = 1024
	maxFooter      = 2048
)

// emptyValue stands in for empty field values, which Discord rejects.
const emptyValue = "\u200b"

type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Listing is built per request and discarded once sent.
type Listing struct {
	Title       string
	Description string
	Colour      int
	Fields      []Field

	// Content is plain message text sent alongside the embed (e.g. a mention).
	Content   string
	Footer    string
	Thumbnail string
	Timestamp time.Time
}

// New returns an empty listing with the neutral colour.
func New(title string) *Listing {
	return &Listing{Title: title, Colour: ColourNeutral}
}

// AddField appends a full-width field.
func (l *Listing) AddField(name, value string) *Listing {
	l.Fields = append(l.Fields, Field{Name: name, Value: value})
	return l
}

// AddInlineField appends a field that may share a row with its neighbours.
func (l *Listing) AddInlineField(name, value string) *Listing {
	l.Fields = append(l.Fields, Field{Name: name, Value: value, Inline: true})
	return l
}

// Embed converts the listing into a Discord embed, truncating to the API limits.
func (l *Listing) Embed() *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       truncate(l.Title, maxTitle),
		Description: truncate(l.Description, maxDescription),
		Color:       l.Colour,
	}
	if l.Footer != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: truncate(l.Footer, maxFooter)}
	}
	if l.Thumbnail != "" {
		e.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: l.Thumbnail}
	}
	if !l.Timestamp.IsZero() {
		e.Timestamp = l.Timestamp.Format(time.RFC3339)
	}

	for i, f := range l.Fields {
		if i == maxFields {
			break
		}
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{
			Name:   orEmpty(truncate(f.Name, maxFieldName)),
			Value:  orEmpty(truncate(f.Value, maxFieldValue)),
			Inline: f.Inline,
		})
	}
	return e
}

// Markdown renders the listing as plain markdown, for terminals and README files.
func (l *Listing) Markdown() string {
	var sb strings.Builder
	if l.Title != "" {
		heading(&sb, "# ", l.Title)
	}
	if l.Description != "" {
		sb.WriteString(l.Description + "\n\n")
	}
	for _, f := range l.Fields {
		heading(&sb, "## ", strings.Trim(f.Name, "*"))
		if f.Value != "" {
			sb.WriteString(strings.TrimRight(f.Value, "\n") + "\n\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// heading writes the first line of text as a heading; the lines after it
// (a signature's aliases line) follow as a paragraph.
func heading(sb *strings.Builder, marker, text string) {
	first, rest, _ := strings.Cut(text, "\n")
	sb.WriteString(marker + first + "\n\n")
	if rest = strings.TrimSpace(rest); rest != "" {
		sb.WriteString(rest + "\n\n")
	}
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return emptyValue
	}
	return s
}
