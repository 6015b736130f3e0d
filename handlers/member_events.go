package handlers

import (
	"context"
	"time"

	"status-board/models"
	"status-board/status"
	"status-board/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const eventTimeout = 30 * time.Second

// Tracker is what the gateway event handlers need from the status controller.
type Tracker interface {
	Binding(guildID string) (models.GuildBinding, bool)
	PresenceChanged(ctx context.Context, ev status.PresenceEvent)
	MemberRemoved(ctx context.Context, guildID, memberID string, isBot bool)
	SeedGuild(ctx context.Context, guildID string, events []status.PresenceEvent)
}

// MemberResolver looks up a guild member.
type MemberResolver func(ctx context.Context, guildID, userID string) (*discordgo.Member, error)

// SessionResolver resolves members from the state cache and falls back to the REST API.
func SessionResolver(s *discordgo.Session) MemberResolver {
	return func(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
		if s.State != nil {
			if m, err := s.State.Member(guildID, userID); err == nil {
				return m, nil
			}
		}
		return s.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	}
}

// DisplayName picks the name shown on the board: guild nickname, then global name, then username.
func DisplayName(member *discordgo.Member, user *discordgo.User) string {
	if member != nil {
		if member.Nick != "" {
			return member.Nick
		}
		if member.User != nil {
			user = member.User
		}
	}
	if user == nil {
		return ""
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	if user.Username != "" {
		return user.Username
	}
	return user.ID
}

func isBot(member *discordgo.Member, user *discordgo.User) bool {
	if user != nil && user.Bot {
		return true
	}
	return member != nil && member.User != nil && member.User.Bot
}

func presenceOf(p *discordgo.Presence) status.Presence {
	return status.Presence{Status: p.Status, Activities: p.Activities}
}

// HandlePresenceUpdate turns a presence update into a board update.
func HandlePresenceUpdate(ctx context.Context, t Tracker, resolve MemberResolver, p *discordgo.PresenceUpdate) {
	if p.User == nil || p.User.ID == "" {
		return
	}
	if _, ok := t.Binding(p.GuildID); !ok {
		return
	}

	member, err := resolve(ctx, p.GuildID, p.User.ID)
	if err != nil {
		utils.L().Debug("member lookup failed",
			zap.String("guild_id", p.GuildID),
			zap.String("user_id", p.User.ID),
			zap.Error(err))
		member = nil
	}

	t.PresenceChanged(ctx, status.PresenceEvent{
		GuildID:     p.GuildID,
		MemberID:    p.User.ID,
		DisplayName: DisplayName(member, p.User),
		IsBot:       isBot(member, p.User),
		Presence:    presenceOf(&p.Presence),
	})
}

// HandleMemberRemove drops a departed member from the board.
func HandleMemberRemove(ctx context.Context, t Tracker, m *discordgo.GuildMemberRemove) {
	if m.Member == nil || m.User == nil {
		return
	}
	t.MemberRemoved(ctx, m.GuildID, m.User.ID, m.User.Bot)
}

// SeedEvents builds presence events from the presences and members delivered with a guild.
func SeedEvents(g *discordgo.Guild) []status.PresenceEvent {
	members := make(map[string]*discordgo.Member, len(g.Members))
	for _, m := range g.Members {
		if m != nil && m.User != nil {
			members[m.User.ID] = m
		}
	}

	events := make([]status.PresenceEvent, 0, len(g.Presences))
	for _, p := range g.Presences {
		if p == nil || p.User == nil || p.User.ID == "" {
			continue
		}
		member := members[p.User.ID]
		events = append(events, status.PresenceEvent{
			GuildID:     g.ID,
			MemberID:    p.User.ID,
			DisplayName: DisplayName(member, p.User),
			IsBot:       isBot(member, p.User),
			Presence:    presenceOf(p),
		})
	}
	return events
}

// PresenceUpdateHandler returns the gateway handler for PRESENCE_UPDATE.
func PresenceUpdateHandler(t Tracker) func(s *discordgo.Session, p *discordgo.PresenceUpdate) {
	return func(s *discordgo.Session, p *discordgo.PresenceUpdate) {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		HandlePresenceUpdate(ctx, t, SessionResolver(s), p)
	}
}

// MemberRemoveHandler returns the gateway handler for GUILD_MEMBER_REMOVE.
func MemberRemoveHandler(t Tracker) func(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	return func(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		HandleMemberRemove(ctx, t, m)
	}
}

// GuildCreateHandler returns the gateway handler that seeds a bound guild when it becomes available.
func GuildCreateHandler(t Tracker) func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(s *discordgo.Session, g *discordgo.GuildCreate) {
		if g.Guild == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		t.SeedGuild(ctx, g.ID, SeedEvents(g.Guild))
	}
}
