package status

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/bwmarrin/discordgo"
)

const (
	pageTitle  = "Member List"
	emptyBody  = "No members to display."
	embedColor = 0x0099ff

	// maxDescription is Discord's limit on an embed description, in UTF-16 code units.
	maxDescription = 4096
)

// Page is one rendered page of a guild's member list.
type Page struct {
	Title  string
	Body   string
	Footer string
	Number int
	Total  int
}

// Embed converts the page into the embed written to the bound message.
func (p Page) Embed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       p.Title,
		Description: p.Body,
		Color:       embedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: p.Footer},
	}
}

// Render builds the current page for a guild from the store and cursor, then advances the
// cursor once so the next call shows the following page.
func Render(store *Store, cursor *Cursor, guildID string) Page {
	members := store.Snapshot(guildID)
	total := TotalPages(len(members))
	current := cursor.Current(guildID, total)

	start := (current - 1) * PageSize
	end := min(start+PageSize, len(members))

	lines := make([]string, 0, end-start)
	for _, m := range members[start:end] {
		lines = append(lines, m.StatusLine+" | "+m.DisplayName)
	}
	body := fitDescription(lines)
	if body == "" {
		body = emptyBody
	}

	cursor.Advance(guildID, total)

	return Page{
		Title:  pageTitle,
		Body:   body,
		Footer: fmt.Sprintf("Page %d/%d", current, total),
		Number: current,
		Total:  total,
	}
}

func textLen(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// fitDescription joins lines, dropping trailing ones behind a "... and N more" marker when the
// result would not fit in an embed description.
func fitDescription(lines []string) string {
	body := strings.Join(lines, "\n")
	if textLen(body) <= maxDescription {
		return body
	}

	var sb strings.Builder
	used := 0
	for i, line := range lines {
		marker := fmt.Sprintf("... and %d more", len(lines)-i)
		n := textLen(line) + 1
		if used+n+textLen(marker) > maxDescription {
			sb.WriteString(marker)
			break
		}
		sb.WriteString(line)
		sb.WriteString("\n")
		used += n
	}
	return sb.String()
}
