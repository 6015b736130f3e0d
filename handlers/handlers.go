package handlers

import (
	"status-board/bot"
	"status-board/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// NewDispatcher builds the command dispatcher for a bot.
func NewDispatcher(b *bot.Bot) *Dispatcher {
	return &Dispatcher{
		Auth:              b.Auth,
		Board:             b.Controller,
		InvitePermissions: b.Config.Bot.InvitePermissions,
		RefreshInterval:   b.Config.Bot.RefreshInterval,
		StartedAt:         b.StartedAt,
		GuildCount: func() int {
			if b.Session.State == nil {
				return 0
			}
			b.Session.State.RLock()
			defer b.Session.State.RUnlock()
			return len(b.Session.State.Guilds)
		},
	}
}

// Register all handlers to the bot.
func Register(b *bot.Bot) {
	d := NewDispatcher(b)

	// Register event handlers
	b.Session.AddHandler(InteractionCreate(d))
	b.Session.AddHandler(PresenceUpdateHandler(b.Controller))
	b.Session.AddHandler(MemberRemoveHandler(b.Controller))
	b.Session.AddHandler(GuildCreateHandler(b.Controller))

	// Add a ready handler to log when the bot is connected.
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		utils.L().Info("logged in",
			zap.String("user", r.User.Username),
			zap.Int("guilds", len(r.Guilds)))
	})
}
