package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DiscordPlatform implements status.Platform on top of a discordgo session.
type DiscordPlatform struct {
	s *discordgo.Session
}

// NewDiscordPlatform wraps a session.
func NewDiscordPlatform(s *discordgo.Session) *DiscordPlatform {
	return &DiscordPlatform{s: s}
}

// BotUserID returns the ID of the logged-in bot user, or "" before READY.
func (p *DiscordPlatform) BotUserID() string {
	if p.s.State == nil || p.s.State.User == nil {
		return ""
	}
	return p.s.State.User.ID
}

// Channel looks the channel up in the state cache first and falls back to REST.
func (p *DiscordPlatform) Channel(ctx context.Context, channelID string) (*discordgo.Channel, error) {
	if p.s.State != nil {
		if ch, err := p.s.State.Channel(channelID); err == nil {
			return ch, nil
		}
	}
	ch, err := p.s.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch channel %s: %w", channelID, err)
	}
	return ch, nil
}

// RecentMessages returns up to limit of the newest messages in the channel.
func (p *DiscordPlatform) RecentMessages(ctx context.Context, channelID string, limit int) ([]*discordgo.Message, error) {
	msgs, err := p.s.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch messages of channel %s: %w", channelID, err)
	}
	return msgs, nil
}

// DeleteMessages removes the given messages. Discord's bulk endpoint needs at least two IDs,
// so a single message goes through the regular delete.
func (p *DiscordPlatform) DeleteMessages(ctx context.Context, channelID string, messageIDs []string) error {
	switch len(messageIDs) {
	case 0:
		return nil
	case 1:
		if err := p.s.ChannelMessageDelete(channelID, messageIDs[0], discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("delete message %s: %w", messageIDs[0], err)
		}
	default:
		if err := p.s.ChannelMessagesBulkDelete(channelID, messageIDs, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("bulk delete %d messages: %w", len(messageIDs), err)
		}
	}
	return nil
}

// SendMessage posts a plain text message.
func (p *DiscordPlatform) SendMessage(ctx context.Context, channelID, content string) (*discordgo.Message, error) {
	msg, err := p.s.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("send message to channel %s: %w", channelID, err)
	}
	return msg, nil
}

// EditMessage replaces the message body with the embed.
func (p *DiscordPlatform) EditMessage(ctx context.Context, channelID, messageID string, embed *discordgo.MessageEmbed) error {
	edit := discordgo.NewMessageEdit(channelID, messageID).
		SetContent("").
		SetEmbed(embed)
	if _, err := p.s.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("edit message %s: %w", messageID, err)
	}
	return nil
}

// Message fetches a single message.
func (p *DiscordPlatform) Message(ctx context.Context, channelID, messageID string) (*discordgo.Message, error) {
	msg, err := p.s.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch message %s: %w", messageID, err)
	}
	return msg, nil
}
