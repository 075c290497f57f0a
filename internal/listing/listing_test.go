package listing

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed(t *testing.T) {
	l := New("qrm Help").
		AddField("Information", "help, ping").
		AddInlineField("Version", "")
	l.Description = "desc"
	l.Footer = "footer"
	l.Thumbnail = "https://example.com/a.png"
	l.Timestamp = time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)

	e := l.Embed()

	assert.Equal(t, "qrm Help", e.Title)
	assert.Equal(t, "desc", e.Description)
	assert.Equal(t, ColourNeutral, e.Color)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "help, ping", e.Fields[0].Value)
	assert.False(t, e.Fields[0].Inline)
	assert.Equal(t, emptyValue, e.Fields[1].Value)
	assert.True(t, e.Fields[1].Inline)
	require.NotNil(t, e.Footer)
	assert.Equal(t, "footer", e.Footer.Text)
	require.NotNil(t, e.Thumbnail)
	assert.Equal(t, "2023-01-02T03:04:05Z", e.Timestamp)
}

func TestEmbedLimits(t *testing.T) {
	l := New(strings.Repeat("t", 300))
	l.Description = strings.Repeat("d", 5000)
	for range 30 {
		l.AddField("f", strings.Repeat("v", 2000))
	}

	e := l.Embed()

	assert.Len(t, []rune(e.Title), maxTitle)
	assert.True(t, strings.HasSuffix(e.Title, "…"))
	assert.Len(t, []rune(e.Description), maxDescription)
	assert.Len(t, e.Fields, maxFields)
	assert.Len(t, []rune(e.Fields[0].Value), maxFieldValue)
	assert.Nil(t, e.Footer)
	assert.Empty(t, e.Timestamp)
}

func TestMarkdown(t *testing.T) {
	l := New("qrm Changelog").AddField("**Added**", "- Thing A\n- Thing B\n").AddField("Empty", "")
	l.Description = "For a full listing, visit GitHub."

	want := "# qrm Changelog\n\n" +
		"For a full listing, visit GitHub.\n\n" +
		"## Added\n\n" +
		"- Thing A\n- Thing B\n\n" +
		"## Empty\n"
	assert.Equal(t, want, l.Markdown())
}

func TestMarkdownMultilineFieldName(t *testing.T) {
	l := New("?cmds\n    *Aliases:* c").AddField("?cmds list\n    *Aliases:* ls", "Lists every registered command.")

	want := "# ?cmds\n\n" +
		"*Aliases:* c\n\n" +
		"## ?cmds list\n\n" +
		"*Aliases:* ls\n\n" +
		"Lists every registered command.\n"
	assert.Equal(t, want, l.Markdown())
}
