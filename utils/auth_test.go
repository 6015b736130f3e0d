package utils

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"status-board/models"
)

func interaction(member *discordgo.Member) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Member: member}}
}

func TestAuth_CheckPermission(t *testing.T) {
	auth := NewAuth(models.AuthConfig{Developers: []string{"dev"}})

	admin := &discordgo.Member{User: &discordgo.User{ID: "a"}, Permissions: discordgo.PermissionAdministrator}
	moderator := &discordgo.Member{User: &discordgo.User{ID: "m"}, Roles: []string{"mods"}}
	developer := &discordgo.Member{User: &discordgo.User{ID: "dev"}}
	regular := &discordgo.Member{
		User:        &discordgo.User{ID: "r"},
		Permissions: discordgo.PermissionSendMessages | discordgo.PermissionManageMessages,
	}

	cases := []struct {
		name   string
		member *discordgo.Member
		level  string
		want   bool
	}{
		{"administrator", admin, LevelAdmin, true},
		{"role without the permission bit", moderator, LevelAdmin, false},
		{"developer is not admin", developer, LevelAdmin, false},
		{"regular member", regular, LevelAdmin, false},
		{"no member (DM)", nil, LevelAdmin, false},
		{"guest always allowed", nil, LevelGuest, true},
		{"developer level", developer, LevelDeveloper, true},
		{"admin is not developer", admin, LevelDeveloper, false},
		{"unknown level", admin, "owner", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, auth.CheckPermission(interaction(tc.member), tc.level))
		})
	}
}
