package command

import "github.com/bwmarrin/discordgo"

var adminPermission int64 = discordgo.PermissionAdministrator

// SetStatusChannelCommand defines the /setstatuschannel command.
type SetStatusChannelCommand struct{}

// Definition returns the application command definition.
func (c *SetStatusChannelCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     "setstatuschannel",
		Description:              "Set the channel for member status updates",
		DefaultMemberPermissions: &adminPermission,
	}
}

// HelpCommand defines the /help command.
type HelpCommand struct{}

// Definition returns the application command definition.
func (c *HelpCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "help",
		Description: "Show what this bot can do",
	}
}

// PingCommand defines the structure for the /ping command.
type PingCommand struct{}

// Definition returns the application command definition.
func (c *PingCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Responds with Pong!",
	}
}

// InviteCommand defines the /invite command.
type InviteCommand struct{}

// Definition returns the application command definition.
func (c *InviteCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "invite",
		Description: "Get a link to add this bot to another server",
	}
}

// BotInfoCommand defines the /botinfo command.
type BotInfoCommand struct{}

// Definition returns the application command definition.
func (c *BotInfoCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "botinfo",
		Description: "Show information about this bot",
	}
}
