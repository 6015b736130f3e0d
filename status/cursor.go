package status

// PageSize is the number of member lines shown on one page.
const PageSize = 25

// TotalPages returns ceil(count/PageSize), treating an empty roster as a single page.
func TotalPages(count int) int {
	if count <= 0 {
		return 1
	}
	return (count + PageSize - 1) / PageSize
}

// Cursor stores the current 1-based page per guild.
// It is not safe for concurrent use; the Controller serializes access.
type Cursor struct {
	pages map[string]int
}

// NewCursor creates a cursor with every guild on page 1.
func NewCursor() *Cursor {
	return &Cursor{pages: make(map[string]int)}
}

// Current returns the page to display. A stored page that no longer fits the roster
// reads as page 1.
func (c *Cursor) Current(guildID string, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	page, ok := c.pages[guildID]
	if !ok || page < 1 || page > totalPages {
		return 1
	}
	return page
}

// Advance moves the guild to the next page, wrapping from the last page back to 1.
func (c *Cursor) Advance(guildID string, totalPages int) {
	if totalPages <= 1 {
		c.pages[guildID] = 1
		return
	}
	c.pages[guildID] = c.Current(guildID, totalPages)%totalPages + 1
}

// Reset puts the guild back on page 1.
func (c *Cursor) Reset(guildID string) {
	c.pages[guildID] = 1
}

// Pages returns a copy of the stored pages for persistence.
func (c *Cursor) Pages() map[string]int {
	out := make(map[string]int, len(c.pages))
	for id, p := range c.pages {
		out[id] = p
	}
	return out
}

// Restore replaces the stored pages with persisted ones. Non-positive pages are dropped.
func (c *Cursor) Restore(pages map[string]int) {
	c.pages = make(map[string]int, len(pages))
	for id, p := range pages {
		if p >= 1 {
			c.pages[id] = p
		}
	}
}
