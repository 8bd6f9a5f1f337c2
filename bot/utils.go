package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"meritum/models"
)

// FormatBalance formats a balance amount with thousand separators
func FormatBalance(balance int64) string {
	str := fmt.Sprintf("%d", balance)

	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// handEmoji maps a hand to its display emoji
func handEmoji(h models.Hand) string {
	switch h {
	case models.HandRock:
		return "✊"
	case models.HandScissors:
		return "✌️"
	case models.HandPaper:
		return "✋"
	}
	return "?"
}

// interactionUser returns the invoking user for both guild and DM interactions
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// interactionProfile builds the account profile for the invoking user.
// The display name prefers the server nickname when one is set.
func interactionProfile(i *discordgo.InteractionCreate) models.Profile {
	user := interactionUser(i)
	profile := models.Profile{
		Name:        user.Username,
		RealName:    user.GlobalName,
		DisplayName: user.Username,
	}
	if i.Member != nil && i.Member.Nick != "" {
		profile.DisplayName = i.Member.Nick
	}
	return profile
}

// userProfile builds a profile for a user named in a command option
func userProfile(user *discordgo.User) models.Profile {
	return models.Profile{
		Name:        user.Username,
		RealName:    user.GlobalName,
		DisplayName: user.Username,
	}
}

// respond sends a plain text response to an interaction
func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
	if err != nil {
		log.Errorf("Error responding to interaction: %v", err)
	}
}

// respondWithError sends an ephemeral error message in response to an interaction
func (b *Bot) respondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}
