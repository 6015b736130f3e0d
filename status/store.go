package status

import (
	"slices"
	"sort"

	"status-board/models"

	"github.com/bwmarrin/discordgo"
)

// Presence is a raw presence as delivered by the gateway.
type Presence struct {
	Status     discordgo.Status
	Activities []*discordgo.Activity
}

var availabilityLabels = map[discordgo.Status]struct {
	state models.Availability
	label string
}{
	discordgo.StatusOnline:       {models.AvailabilityOnline, "🟢 online"},
	discordgo.StatusIdle:         {models.AvailabilityIdle, "🟡 idle"},
	discordgo.StatusDoNotDisturb: {models.AvailabilityDoNotDisturb, "🔴 dnd"},
	discordgo.StatusOffline:      {models.AvailabilityOffline, "⚫️ offline"},
	// Discord never shows other users as invisible, but the bot's own cache can.
	discordgo.StatusInvisible: {models.AvailabilityOffline, "⚫️ offline"},
}

var activityGlyphs = map[models.ActivityKind]string{
	models.ActivityPlaying:  "🎮",
	models.ActivityWatching: "📺",
}

type roster struct {
	order   []string
	records map[string]*models.MemberStatus
}

// Store maps guild -> member -> status record, preserving first-observation order per guild.
// It is not safe for concurrent use; the Controller serializes access.
type Store struct {
	guilds map[string]*roster
}

// NewStore creates an empty presence store.
func NewStore() *Store {
	return &Store{guilds: make(map[string]*roster)}
}

// Upsert records the member's presence. An unrecognized raw status leaves the store untouched
// and returns false.
func (s *Store) Upsert(guildID, memberID, displayName string, p Presence) bool {
	avail, ok := availabilityLabels[p.Status]
	if !ok {
		return false
	}

	record := &models.MemberStatus{
		MemberID:     memberID,
		DisplayName:  displayName,
		Availability: avail.state,
		StatusLine:   avail.label,
	}
	if activity := pickActivity(p.Activities); activity != nil {
		record.Activity = activity
		record.StatusLine += " | " + activityGlyphs[activity.Kind] + " " + activity.Name
	}

	r, ok := s.guilds[guildID]
	if !ok {
		r = &roster{records: make(map[string]*models.MemberStatus)}
		s.guilds[guildID] = r
	}
	if _, seen := r.records[memberID]; !seen {
		r.order = append(r.order, memberID)
	}
	r.records[memberID] = record
	return true
}

// pickActivity returns the first playing or watching activity, or nil.
func pickActivity(activities []*discordgo.Activity) *models.Activity {
	for _, a := range activities {
		if a == nil {
			continue
		}
		switch a.Type {
		case discordgo.ActivityTypeGame:
			return &models.Activity{Kind: models.ActivityPlaying, Name: a.Name}
		case discordgo.ActivityTypeWatching:
			return &models.Activity{Kind: models.ActivityWatching, Name: a.Name}
		}
	}
	return nil
}

// Remove deletes the member's record. Removing an unknown member is a no-op.
func (s *Store) Remove(guildID, memberID string) {
	r, ok := s.guilds[guildID]
	if !ok {
		return
	}
	if _, ok := r.records[memberID]; !ok {
		return
	}
	delete(r.records, memberID)
	if i := slices.Index(r.order, memberID); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	if len(r.order) == 0 {
		delete(s.guilds, guildID)
	}
}

// Get returns a copy of one member's record.
func (s *Store) Get(guildID, memberID string) (models.MemberStatus, bool) {
	r, ok := s.guilds[guildID]
	if !ok {
		return models.MemberStatus{}, false
	}
	rec, ok := r.records[memberID]
	if !ok {
		return models.MemberStatus{}, false
	}
	return *rec, true
}

// Snapshot returns copies of the guild's records in first-observation order.
func (s *Store) Snapshot(guildID string) []models.MemberStatus {
	r, ok := s.guilds[guildID]
	if !ok {
		return nil
	}
	out := make([]models.MemberStatus, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.records[id])
	}
	return out
}

// Count returns the number of tracked members in a guild.
func (s *Store) Count(guildID string) int {
	if r, ok := s.guilds[guildID]; ok {
		return len(r.order)
	}
	return 0
}

// Total returns the number of tracked members across all guilds.
func (s *Store) Total() int {
	n := 0
	for _, r := range s.guilds {
		n += len(r.order)
	}
	return n
}

// Guilds returns the IDs of guilds with at least one tracked member, sorted.
func (s *Store) Guilds() []string {
	ids := make([]string, 0, len(s.guilds))
	for id := range s.guilds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
