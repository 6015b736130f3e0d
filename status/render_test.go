package status

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Empty(t *testing.T) {
	store, cursor := NewStore(), NewCursor()

	page := Render(store, cursor, "g")
	assert.Equal(t, "Member List", page.Title)
	assert.Equal(t, "No members to display.", page.Body)
	assert.Equal(t, "Page 1/1", page.Footer)

	page = Render(store, cursor, "g")
	assert.Equal(t, "Page 1/1", page.Footer)
}

func TestRender_Rotation(t *testing.T) {
	store, cursor := NewStore(), NewCursor()
	for i := 0; i < 30; i++ {
		store.Upsert("g", fmt.Sprintf("m%02d", i), fmt.Sprintf("Member %02d", i), online())
	}

	first := Render(store, cursor, "g")
	lines := strings.Split(first.Body, "\n")
	require.Len(t, lines, 25)
	assert.Equal(t, "🟢 online | Member 00", lines[0])
	assert.Equal(t, "🟢 online | Member 24", lines[24])
	assert.Equal(t, "Page 1/2", first.Footer)

	second := Render(store, cursor, "g")
	lines = strings.Split(second.Body, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "🟢 online | Member 25", lines[0])
	assert.Equal(t, "🟢 online | Member 29", lines[4])
	assert.Equal(t, "Page 2/2", second.Footer)

	third := Render(store, cursor, "g")
	assert.Equal(t, first.Body, third.Body)
	assert.Equal(t, "Page 1/2", third.Footer)
}

func TestRender_ActivityLine(t *testing.T) {
	store, cursor := NewStore(), NewCursor()
	store.Upsert("g", "m", "Alice", online(&discordgo.Activity{Name: "Chess", Type: discordgo.ActivityTypeGame}))

	page := Render(store, cursor, "g")
	assert.Equal(t, "🟢 online | 🎮 Chess | Alice", page.Body)
}

func TestRender_ShrunkRoster(t *testing.T) {
	store, cursor := NewStore(), NewCursor()
	for i := 0; i < 30; i++ {
		store.Upsert("g", fmt.Sprintf("m%02d", i), fmt.Sprintf("Member %02d", i), online())
	}
	Render(store, cursor, "g") // cursor now on page 2

	for i := 25; i < 30; i++ {
		store.Remove("g", fmt.Sprintf("m%02d", i))
	}
	page := Render(store, cursor, "g")
	assert.Equal(t, "Page 1/1", page.Footer)
	assert.Len(t, strings.Split(page.Body, "\n"), 25)
}

func TestPage_Embed(t *testing.T) {
	embed := Page{Title: "Member List", Body: "body", Footer: "Page 1/1"}.Embed()
	assert.Equal(t, "Member List", embed.Title)
	assert.Equal(t, "body", embed.Description)
	assert.Equal(t, 0x0099ff, embed.Color)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "Page 1/1", embed.Footer.Text)
}

func TestRender_LongLinesFitTheEmbed(t *testing.T) {
	store, cursor := NewStore(), NewCursor()
	game := &discordgo.Activity{Type: discordgo.ActivityTypeGame, Name: strings.Repeat("g", 128)}
	for i := 0; i < PageSize; i++ {
		name := fmt.Sprintf("%02d%s", i, strings.Repeat("n", 30))
		store.Upsert("g", fmt.Sprintf("m%02d", i), name, online(game))
	}

	page := Render(store, cursor, "g")

	assert.LessOrEqual(t, textLen(page.Body), maxDescription)
	assert.Regexp(t, `\.\.\. and \d+ more$`, page.Body)
	assert.True(t, strings.HasPrefix(page.Body, "🟢 online | 🎮 ggg"))
	assert.Equal(t, "Page 1/1", page.Footer)
}
