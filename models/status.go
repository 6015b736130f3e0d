package models

import "time"

// Availability is one of the four canonical presence states shown on the board.
type Availability string

const (
	AvailabilityOnline       Availability = "online"
	AvailabilityIdle         Availability = "idle"
	AvailabilityDoNotDisturb Availability = "dnd"
	AvailabilityOffline      Availability = "offline"
)

// ActivityKind is the kind of foreground activity the board displays.
type ActivityKind string

const (
	ActivityPlaying  ActivityKind = "playing"
	ActivityWatching ActivityKind = "watching"
)

// Activity is the single activity selected for display.
type Activity struct {
	Kind ActivityKind `json:"kind"`
	Name string       `json:"name"`
}

// MemberStatus is the status record kept for one member of one guild.
type MemberStatus struct {
	MemberID     string       `json:"member_id"`
	DisplayName  string       `json:"display_name"`
	Availability Availability `json:"availability"`
	Activity     *Activity    `json:"activity,omitempty"`
	StatusLine   string       `json:"status_line"` // glyphs + labels, e.g. "🟢 online | 🎮 Chess"
}

// GuildBinding ties a guild to the channel and message used for its status board.
type GuildBinding struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`
}

// BoardState is the persisted snapshot of bindings and page cursors.
// Only plain identifiers are stored; message handles are re-fetched on demand.
type BoardState struct {
	StatusChannels map[string]string `json:"status_channels"`
	StatusMessages map[string]string `json:"status_messages"`
	CurrentPages   map[string]int    `json:"current_pages"`
	LastUpdated    time.Time         `json:"last_updated"`
}

// NewBoardState returns an empty state with all tables allocated.
func NewBoardState() *BoardState {
	return &BoardState{
		StatusChannels: make(map[string]string),
		StatusMessages: make(map[string]string),
		CurrentPages:   make(map[string]int),
	}
}
