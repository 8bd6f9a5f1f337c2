package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"
)

// handleGacha handles the /gacha command
func (b *Bot) handleGacha(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := interactionUser(i)

	result, err := b.gachaService.Draw(ctx, user.ID, interactionProfile(i))
	if err != nil {
		log.Errorf("Error drawing gacha for %s: %v", user.ID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if !result.Drawn {
		b.respond(s, i, fmt.Sprintf("A draw costs **%s meritum** and you only have **%s meritum**.",
			FormatBalance(result.Cost), FormatBalance(result.NewBalance)))
		return
	}

	b.respond(s, i, fmt.Sprintf("🎰 You drew the title **「%s」**! Balance: **%s meritum**",
		result.Title, FormatBalance(result.NewBalance)))
}
