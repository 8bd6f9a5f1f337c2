package bot

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"meritum/service"

	"github.com/bwmarrin/discordgo"
)

// handleLogin handles the /login command
func (b *Bot) handleLogin(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	user := interactionUser(i)

	result, err := b.ledgerService.GrantLoginBonus(ctx, user.ID, interactionProfile(i), b.config.LoginBonusAmount)
	if err != nil {
		log.Errorf("Error granting login bonus for %s: %v", user.ID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if !result.Granted {
		b.respond(s, i, fmt.Sprintf("You already received today's login bonus. Balance: **%s meritum**",
			FormatBalance(result.NewBalance)))
		return
	}

	b.respond(s, i, fmt.Sprintf("🎁 Login bonus! You received **%s meritum**. Balance: **%s meritum**",
		FormatBalance(result.Amount), FormatBalance(result.NewBalance)))
}

// handleSend handles the /send command
func (b *Bot) handleSend(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	sender := interactionUser(i)

	var recipient *discordgo.User
	var amount int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			recipient = opt.UserValue(s)
		case "amount":
			amount = opt.IntValue()
		}
	}

	if recipient == nil {
		b.respondWithError(s, i, "You must choose a user to send to.")
		return
	}
	if recipient.ID == sender.ID {
		b.respondWithError(s, i, "You cannot send meritum to yourself.")
		return
	}
	if recipient.Bot {
		b.respondWithError(s, i, "You cannot send meritum to a bot.")
		return
	}
	if amount <= 0 {
		b.respondWithError(s, i, "Amount must be positive.")
		return
	}

	// Make sure both sides have accounts before moving funds
	if _, err := b.ledgerService.EnsureAccount(ctx, sender.ID, interactionProfile(i), 0); err != nil {
		log.Errorf("Error ensuring sender account %s: %v", sender.ID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if _, err := b.ledgerService.EnsureAccount(ctx, recipient.ID, userProfile(recipient), 0); err != nil {
		log.Errorf("Error ensuring recipient account %s: %v", recipient.ID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := b.ledgerService.Transfer(ctx, sender.ID, recipient.ID, amount)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientFunds) {
			b.respondWithError(s, i, "You don't have enough meritum for that.")
			return
		}
		log.Errorf("Error transferring %d from %s to %s: %v", amount, sender.ID, recipient.ID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	b.respond(s, i, fmt.Sprintf("✅ Sent **%s meritum** to **%s**. Your balance: **%s meritum**",
		FormatBalance(result.Amount), recipient.Username, FormatBalance(result.FromBalance)))
}
