package status

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"status-board/models"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	placeholderContent = "Initializing member status updates..."
	cleanupLimit       = 100

	// Discord's bulk delete rejects the whole request if any message is older than 14 days.
	bulkDeleteMaxAge = 14*24*time.Hour - time.Hour
)

var (
	// ErrUnbound is returned when a guild has no status channel.
	ErrUnbound = errors.New("guild has no status channel")
	// ErrStaleBinding is returned when the bound channel or message can no longer be fetched.
	ErrStaleBinding = errors.New("status binding is stale")
	// ErrChannelNotFound is returned by Bind when the target channel cannot be fetched.
	ErrChannelNotFound = errors.New("channel not found")
)

// Platform is the subset of the chat platform the controller talks to.
type Platform interface {
	BotUserID() string
	Channel(ctx context.Context, channelID string) (*discordgo.Channel, error)
	RecentMessages(ctx context.Context, channelID string, limit int) ([]*discordgo.Message, error)
	DeleteMessages(ctx context.Context, channelID string, messageIDs []string) error
	SendMessage(ctx context.Context, channelID, content string) (*discordgo.Message, error)
	EditMessage(ctx context.Context, channelID, messageID string, embed *discordgo.MessageEmbed) error
	Message(ctx context.Context, channelID, messageID string) (*discordgo.Message, error)
}

// Persistence loads and saves bindings and page cursors.
type Persistence interface {
	Load() (*models.BoardState, error)
	Save(state *models.BoardState) error
}

// Reporter receives the outcome of every refresh attempt for a bound guild.
type Reporter interface {
	ReportRefresh(guildID string, err error)
}

// PresenceEvent is a presence change for one member of one guild.
type PresenceEvent struct {
	GuildID     string
	MemberID    string
	DisplayName string
	IsBot       bool
	Presence    Presence
}

// State is everything the controller owns: the presence store, page cursors and bindings.
type State struct {
	Store    *Store
	Cursor   *Cursor
	Bindings map[string]models.GuildBinding
}

// NewState creates an empty state.
func NewState() *State {
	return &State{
		Store:    NewStore(),
		Cursor:   NewCursor(),
		Bindings: make(map[string]models.GuildBinding),
	}
}

// Stats summarizes the controller state for informational commands.
type Stats struct {
	BoundGuilds    int
	TrackedGuilds  int
	TrackedMembers int
}

// Option configures a Controller.
type Option func(*Controller)

// WithReporter registers a reporter for refresh outcomes.
func WithReporter(r Reporter) Option {
	return func(c *Controller) {
		c.reporter = r
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// Controller keeps every bound guild's status message in sync with its presence store.
// Refreshes of one guild never interleave; different guilds refresh independently.
type Controller struct {
	platform Platform
	persist  Persistence
	reporter Reporter
	logger   *zap.Logger

	mu    sync.Mutex
	state *State
	locks map[string]*sync.Mutex

	// persistMu orders saves; each holds it from snapshot to Save.
	persistMu sync.Mutex
}

// NewController creates a controller with an empty state. persist may be nil.
func NewController(platform Platform, persist Persistence, opts ...Option) *Controller {
	c := &Controller{
		platform: platform,
		persist:  persist,
		logger:   zap.NewNop(),
		state:    NewState(),
		locks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load restores bindings and page cursors from persistence.
func (c *Controller) Load() error {
	if c.persist == nil {
		return nil
	}
	saved, err := c.persist.Load()
	if err != nil {
		return fmt.Errorf("load board state: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Bindings = make(map[string]models.GuildBinding, len(saved.StatusChannels))
	for guildID, channelID := range saved.StatusChannels {
		c.state.Bindings[guildID] = models.GuildBinding{
			ChannelID: channelID,
			MessageID: saved.StatusMessages[guildID],
		}
	}
	c.state.Cursor.Restore(saved.CurrentPages)
	c.logger.Info("restored status bindings", zap.Int("guilds", len(c.state.Bindings)))
	return nil
}

// Persist writes the current bindings and page cursors. Concurrent calls are serialized, so the
// last save to finish always carries the newest state.
func (c *Controller) Persist() error {
	if c.persist == nil {
		return nil
	}
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.Lock()
	snapshot := c.boardStateLocked()
	c.mu.Unlock()

	if err := c.persist.Save(snapshot); err != nil {
		return fmt.Errorf("save board state: %w", err)
	}
	return nil
}

func (c *Controller) boardStateLocked() *models.BoardState {
	bs := models.NewBoardState()
	for guildID, b := range c.state.Bindings {
		bs.StatusChannels[guildID] = b.ChannelID
		bs.StatusMessages[guildID] = b.MessageID
	}
	bs.CurrentPages = c.state.Cursor.Pages()
	return bs
}

// Binding returns the guild's binding, if any.
func (c *Controller) Binding(guildID string) (models.GuildBinding, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.state.Bindings[guildID]
	return b, ok
}

// Stats returns counts for informational commands.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		BoundGuilds:    len(c.state.Bindings),
		TrackedGuilds:  len(c.state.Store.Guilds()),
		TrackedMembers: c.state.Store.Total(),
	}
}

// Snapshot returns the guild's current member records.
func (c *Controller) Snapshot(guildID string) []models.MemberStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Store.Snapshot(guildID)
}

func (c *Controller) guildLock(guildID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[guildID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[guildID] = l
	}
	return l
}

// Bind makes channelID the guild's status channel: previous bot messages in the channel are
// cleaned up, a placeholder message is posted and recorded, and the board is rendered once.
func (c *Controller) Bind(ctx context.Context, guildID, channelID string) error {
	lock := c.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := c.platform.Channel(ctx, channelID); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrChannelNotFound, channelID, err)
	}

	c.clearBotMessages(ctx, channelID)

	msg, err := c.platform.SendMessage(ctx, channelID, placeholderContent)
	if err != nil {
		return fmt.Errorf("send placeholder to channel %s: %w", channelID, err)
	}

	c.mu.Lock()
	c.state.Bindings[guildID] = models.GuildBinding{ChannelID: channelID, MessageID: msg.ID}
	c.state.Cursor.Reset(guildID)
	c.mu.Unlock()

	c.logger.Info("status channel bound",
		zap.String("guild_id", guildID),
		zap.String("channel_id", channelID),
		zap.String("message_id", msg.ID))

	if err := c.Persist(); err != nil {
		c.logger.Error("persist binding failed", zap.String("guild_id", guildID), zap.Error(err))
	}

	if err := c.refreshLocked(ctx, guildID); err != nil {
		c.logger.Warn("initial refresh failed", zap.String("guild_id", guildID), zap.Error(err))
	}
	return nil
}

// clearBotMessages deletes the bot's own messages among the most recent ones. Best effort.
// Messages too old for bulk deletion are removed one at a time.
func (c *Controller) clearBotMessages(ctx context.Context, channelID string) {
	recent, err := c.platform.RecentMessages(ctx, channelID, cleanupLimit)
	if err != nil {
		c.logger.Warn("fetch recent messages failed", zap.String("channel_id", channelID), zap.Error(err))
		return
	}

	botID := c.platform.BotUserID()
	cutoff := time.Now().Add(-bulkDeleteMaxAge)
	var bulk, single []string
	for _, m := range recent {
		if m == nil || m.Author == nil || m.Author.ID != botID {
			continue
		}
		if m.Timestamp.Before(cutoff) {
			single = append(single, m.ID)
		} else {
			bulk = append(bulk, m.ID)
		}
	}

	if len(bulk) > 0 {
		if err := c.platform.DeleteMessages(ctx, channelID, bulk); err != nil {
			c.logger.Warn("delete previous bot messages failed",
				zap.String("channel_id", channelID),
				zap.Int("count", len(bulk)),
				zap.Error(err))
		}
	}
	for _, id := range single {
		if err := c.platform.DeleteMessages(ctx, channelID, []string{id}); err != nil {
			c.logger.Warn("delete old bot message failed",
				zap.String("channel_id", channelID),
				zap.String("message_id", id),
				zap.Error(err))
		}
	}
}

// PresenceChanged records a presence update and refreshes the guild's board. Bots, unbound
// guilds, guilds whose status channel is gone and unrecognized states are ignored.
func (c *Controller) PresenceChanged(ctx context.Context, ev PresenceEvent) {
	if ev.IsBot {
		return
	}
	binding, ok := c.Binding(ev.GuildID)
	if !ok {
		return
	}
	if _, err := c.platform.Channel(ctx, binding.ChannelID); err != nil {
		err = fmt.Errorf("%w: channel %s: %w", ErrStaleBinding, binding.ChannelID, err)
		c.report(ev.GuildID, err)
		c.logger.Warn("status channel unavailable, presence ignored",
			zap.String("guild_id", ev.GuildID),
			zap.Error(err))
		return
	}

	c.mu.Lock()
	accepted := c.state.Store.Upsert(ev.GuildID, ev.MemberID, ev.DisplayName, ev.Presence)
	c.mu.Unlock()
	if !accepted {
		return
	}
	c.refreshAndLog(ctx, ev.GuildID)
}

// MemberRemoved drops the member's record and refreshes the board if the guild is bound.
func (c *Controller) MemberRemoved(ctx context.Context, guildID, memberID string, isBot bool) {
	if isBot {
		return
	}
	c.mu.Lock()
	c.state.Store.Remove(guildID, memberID)
	_, bound := c.state.Bindings[guildID]
	c.mu.Unlock()

	if bound {
		c.refreshAndLog(ctx, guildID)
	}
}

// SeedGuild records the presences reported when a bound guild becomes available, then
// refreshes its board once.
func (c *Controller) SeedGuild(ctx context.Context, guildID string, events []PresenceEvent) {
	if _, ok := c.Binding(guildID); !ok {
		return
	}

	accepted := 0
	c.mu.Lock()
	for _, ev := range events {
		if ev.IsBot {
			continue
		}
		if c.state.Store.Upsert(guildID, ev.MemberID, ev.DisplayName, ev.Presence) {
			accepted++
		}
	}
	c.mu.Unlock()

	c.logger.Info("seeded guild presences", zap.String("guild_id", guildID), zap.Int("members", accepted))
	if accepted > 0 {
		c.refreshAndLog(ctx, guildID)
	}
}

// Refresh renders the guild's current page into its bound message.
func (c *Controller) Refresh(ctx context.Context, guildID string) error {
	lock := c.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()
	return c.refreshLocked(ctx, guildID)
}

// refreshLocked expects the guild lock to be held.
func (c *Controller) refreshLocked(ctx context.Context, guildID string) error {
	binding, ok := c.Binding(guildID)
	if !ok {
		return ErrUnbound
	}

	if binding.MessageID == "" {
		err := fmt.Errorf("%w: guild %s has no status message", ErrStaleBinding, guildID)
		c.report(guildID, err)
		return err
	}
	if _, err := c.platform.Message(ctx, binding.ChannelID, binding.MessageID); err != nil {
		err = fmt.Errorf("%w: message %s in channel %s: %w", ErrStaleBinding, binding.MessageID, binding.ChannelID, err)
		c.report(guildID, err)
		return err
	}

	c.mu.Lock()
	page := Render(c.state.Store, c.state.Cursor, guildID)
	c.mu.Unlock()

	if err := c.platform.EditMessage(ctx, binding.ChannelID, binding.MessageID, page.Embed()); err != nil {
		err = fmt.Errorf("edit status message %s: %w", binding.MessageID, err)
		c.report(guildID, err)
		return err
	}

	c.report(guildID, nil)
	return nil
}

func (c *Controller) refreshAndLog(ctx context.Context, guildID string) bool {
	err := c.Refresh(ctx, guildID)
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrUnbound):
		return false
	default:
		c.logger.Warn("status refresh failed", zap.String("guild_id", guildID), zap.Error(err))
		return false
	}
}

func (c *Controller) report(guildID string, err error) {
	if c.reporter != nil {
		c.reporter.ReportRefresh(guildID, err)
	}
}

// RefreshAll refreshes every bound guild in turn and persists the advanced cursors.
// A failing guild never stops the sweep.
func (c *Controller) RefreshAll(ctx context.Context) {
	c.mu.Lock()
	guildIDs := make([]string, 0, len(c.state.Bindings))
	for id := range c.state.Bindings {
		guildIDs = append(guildIDs, id)
	}
	c.mu.Unlock()
	sort.Strings(guildIDs)

	refreshed := 0
	for _, id := range guildIDs {
		if c.refreshAndLog(ctx, id) {
			refreshed++
		}
	}

	if err := c.Persist(); err != nil {
		c.logger.Error("persist after sweep failed", zap.Error(err))
	}
	c.logger.Info("status sweep finished", zap.Int("guilds", len(guildIDs)), zap.Int("refreshed", refreshed))
}
