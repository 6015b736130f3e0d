package utils

import (
	"slices"

	"status-board/models"

	"github.com/bwmarrin/discordgo"
)

// Permission levels used by the command dispatcher.
const (
	LevelDeveloper = "developer"
	LevelAdmin     = "admin"
	LevelGuest     = "guest"
)

// Auth provides methods for authorization checks.
type Auth struct {
	config models.AuthConfig
}

// NewAuth creates an Auth from the "commands.auth" configuration.
func NewAuth(cfg models.AuthConfig) *Auth {
	return &Auth{config: cfg}
}

// IsDeveloper checks if a user is a configured developer.
func (a *Auth) IsDeveloper(userID string) bool {
	return slices.Contains(a.config.Developers, userID)
}

// IsAdmin reports whether the member holds the Administrator permission in the invoking channel.
func (a *Auth) IsAdmin(member *discordgo.Member) bool {
	return member != nil && member.Permissions&discordgo.PermissionAdministrator != 0
}

// CheckPermission checks if the invoking member has the required permission level.
// Interactions outside a guild carry no member and only pass the guest level.
func (a *Auth) CheckPermission(i *discordgo.InteractionCreate, requiredLevel string) bool {
	if requiredLevel == LevelGuest {
		return true
	}
	member := i.Member
	if member == nil || member.User == nil {
		return false
	}

	switch requiredLevel {
	case LevelDeveloper:
		return a.IsDeveloper(member.User.ID)
	case LevelAdmin:
		return a.IsAdmin(member)
	default:
		return false
	}
}
