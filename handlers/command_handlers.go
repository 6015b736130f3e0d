package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"status-board/command"
	"status-board/status"
	"status-board/utils"

	"github.com/bwmarrin/discordgo"
)

const bindTimeout = 30 * time.Second

// HandleSetStatusChannel binds the invoking channel as the guild's status channel.
func (d *Dispatcher) HandleSetStatusChannel(r Responder, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		respondEphemeral(r, i, "This command can only be used in a server.")
		return
	}

	// Respond to the interaction immediately; binding takes several API calls.
	respondEphemeral(r, i, fmt.Sprintf("Setting up the member status board in <#%s>...", i.ChannelID))

	ctx, cancel := context.WithTimeout(context.Background(), bindTimeout)
	defer cancel()

	var followup string
	if err := d.Board.Bind(ctx, i.GuildID, i.ChannelID); err != nil {
		utils.Error("handlers", "setstatuschannel", fmt.Sprintf("binding guild %s to channel %s failed: %v", i.GuildID, i.ChannelID, err))
		if errors.Is(err, status.ErrChannelNotFound) {
			followup = "❌ I cannot see this channel. Check my permissions and try again."
		} else {
			followup = "❌ Could not set up the status board. Check that I can send and manage messages here."
		}
	} else {
		utils.Info("handlers", "setstatuschannel", fmt.Sprintf("status channel set for guild %s: %s", i.GuildID, i.ChannelID))
		followup = fmt.Sprintf("✅ Status channel set to <#%s> for this server.", i.ChannelID)
	}

	if _, err := r.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: followup,
		Flags:   discordgo.MessageFlagsEphemeral,
	}); err != nil {
		utils.Warn("handlers", "setstatuschannel", fmt.Sprintf("followup failed: %v", err))
	}
}

// HandleHelp lists the available commands.
func HandleHelp(r Responder, i *discordgo.InteractionCreate) {
	var sb strings.Builder
	sb.WriteString("I keep a live, paginated list of member statuses in one channel per server.\n\n")
	for _, def := range command.GetCommandDefinitions() {
		fmt.Fprintf(&sb, "`/%s` - %s\n", def.Name, def.Description)
	}

	respond(r, i, &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "Help",
			Description: sb.String(),
			Color:       0x0099ff,
		}},
		Flags: discordgo.MessageFlagsEphemeral,
	})
}

// HandlePing handles the logic for the /ping command.
func HandlePing(r Responder, i *discordgo.InteractionCreate) {
	respond(r, i, &discordgo.InteractionResponseData{Content: "Pong!"})
}

// InviteURL builds the OAuth2 URL that adds the application to a server.
func InviteURL(applicationID string, permissions int64) string {
	return fmt.Sprintf("https://discord.com/oauth2/authorize?client_id=%s&permissions=%d&scope=bot%%20applications.commands",
		applicationID, permissions)
}

// HandleInvite replies with the invite link.
func (d *Dispatcher) HandleInvite(r Responder, i *discordgo.InteractionCreate) {
	respondEphemeral(r, i, "Add me to your server: "+InviteURL(i.AppID, d.InvitePermissions))
}

// HandleBotInfo reports uptime and board statistics.
func (d *Dispatcher) HandleBotInfo(r Responder, i *discordgo.InteractionCreate) {
	stats := d.Board.Stats()
	guilds := 0
	if d.GuildCount != nil {
		guilds = d.GuildCount()
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Servers", Value: fmt.Sprint(guilds), Inline: true},
		{Name: "Status boards", Value: fmt.Sprint(stats.BoundGuilds), Inline: true},
		{Name: "Tracked members", Value: fmt.Sprint(stats.TrackedMembers), Inline: true},
		{Name: "Refresh interval", Value: d.RefreshInterval.String(), Inline: true},
		{Name: "Uptime", Value: time.Since(d.StartedAt).Truncate(time.Second).String(), Inline: true},
	}

	respond(r, i, &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{{
			Title:  "Bot Info",
			Color:  0x0099ff,
			Fields: fields,
		}},
	})
}
