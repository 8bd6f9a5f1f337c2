package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"meritum/models"

	"github.com/bwmarrin/discordgo"
)

// handleJanken handles the /janken command
func (b *Bot) handleJanken(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := interactionUser(i)

	var hand models.Hand
	var bet int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "hand":
			hand = models.Hand(opt.StringValue())
		case "bet":
			bet = opt.IntValue()
		}
	}

	result, err := b.jankenService.Play(ctx, user.ID, interactionProfile(i), hand, bet)
	if err != nil {
		log.Errorf("Error playing janken for %s: %v", user.ID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	b.respond(s, i, b.formatJankenResult(result))
}

// formatJankenResult renders a janken outcome as a reply message
func (b *Bot) formatJankenResult(result *models.JankenResult) string {
	switch result.Verdict {
	case models.VerdictBetTooLow:
		return fmt.Sprintf("Bets start at %d meritum.", b.config.MinJankenBet)
	case models.VerdictBetTooHigh:
		return fmt.Sprintf("Bets are capped at %d meritum.", b.config.MaxJankenBet)
	case models.VerdictBotCannotCover:
		return "The house is broke and cannot cover your bet. Try again later."
	case models.VerdictPlayerCannotCover:
		return fmt.Sprintf("You don't have enough meritum to bet %s. Balance: **%s meritum**",
			FormatBalance(result.Bet), FormatBalance(result.PlayerBalance))
	}

	matchup := fmt.Sprintf("%s vs %s", handEmoji(result.PlayerHand), handEmoji(result.BotHand))

	switch result.Verdict {
	case models.VerdictDraw:
		return fmt.Sprintf("%s It's a draw! Your bet is returned.", matchup)
	case models.VerdictPlayerWon:
		return fmt.Sprintf("%s 🎉 **You won %s meritum!** Balance: **%s meritum**",
			matchup, FormatBalance(result.Bet), FormatBalance(result.PlayerBalance))
	case models.VerdictPlayerLost:
		return fmt.Sprintf("%s 😔 **You lost %s meritum.** Balance: **%s meritum**",
			matchup, FormatBalance(result.Bet), FormatBalance(result.PlayerBalance))
	}

	return "Something went wrong resolving the game."
}
