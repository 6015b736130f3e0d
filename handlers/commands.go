package handlers

import (
	"context"
	"time"

	"status-board/status"
	"status-board/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Responder is the part of a discordgo session that answers interactions.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Board is what the command handlers need from the status controller.
type Board interface {
	Bind(ctx context.Context, guildID, channelID string) error
	Stats() status.Stats
}

// Dispatcher routes application commands to their handlers after a permission check.
type Dispatcher struct {
	Auth              *utils.Auth
	Board             Board
	InvitePermissions int64
	RefreshInterval   time.Duration
	StartedAt         time.Time
	GuildCount        func() int
}

var commandPermissions = map[string]string{
	"setstatuschannel": utils.LevelAdmin,
	"help":             utils.LevelGuest,
	"ping":             utils.LevelGuest,
	"invite":           utils.LevelGuest,
	"botinfo":          utils.LevelGuest,
}

// Dispatch is the central handler for all application command interactions.
// It performs permission checks and then dispatches the interaction to the appropriate handler.
func (d *Dispatcher) Dispatch(r Responder, i *discordgo.InteractionCreate) {
	commandName := i.ApplicationCommandData().Name

	if requiredLevel, ok := commandPermissions[commandName]; ok {
		if !d.Auth.CheckPermission(i, requiredLevel) {
			utils.L().Info("command rejected",
				zap.String("command", commandName),
				zap.String("guild_id", i.GuildID))
			respondEphemeral(r, i, "🚫 You need the Administrator permission to use this command.")
			return
		}
	}

	switch commandName {
	case "setstatuschannel":
		d.HandleSetStatusChannel(r, i)
	case "help":
		HandleHelp(r, i)
	case "ping":
		HandlePing(r, i)
	case "invite":
		d.HandleInvite(r, i)
	case "botinfo":
		d.HandleBotInfo(r, i)
	default:
		respondEphemeral(r, i, "🚫 Internal error: unknown command.")
	}
}

func respond(r Responder, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		utils.L().Warn("responding to interaction failed", zap.Error(err))
	}
}

func respondEphemeral(r Responder, i *discordgo.InteractionCreate, content string) {
	respond(r, i, &discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}
