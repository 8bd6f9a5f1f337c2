package bot

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/bwmarrin/discordgo"
)

const rankingSize = 10

// handleProfile handles the /profile command
func (b *Bot) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	target := interactionUser(i)
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			target = opt.UserValue(s)
		}
	}

	ranked, err := b.rankingService.Profile(ctx, target.ID)
	if err != nil {
		log.Errorf("Error loading profile for %s: %v", target.ID, err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if ranked == nil {
		b.respond(s, i, fmt.Sprintf("**%s** doesn't have an account yet.", target.Username))
		return
	}

	titles := "none yet"
	if len(ranked.Titles) > 0 {
		titles = strings.Join(ranked.Titles, " / ")
	}

	b.respond(s, i, fmt.Sprintf("**%s** — rank #%d\nBalance: **%s meritum**\nTitles (%d): %s",
		ranked.DisplayName, ranked.Rank, FormatBalance(ranked.Balance), ranked.NumOfTitles, titles))
}

// handleRanking handles the /ranking command
func (b *Bot) handleRanking(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	ranking, err := b.rankingService.Ranking(ctx, rankingSize)
	if err != nil {
		log.Errorf("Error loading ranking: %v", err)
		b.respondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if len(ranking) == 0 {
		b.respond(s, i, "Nobody has an account yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 **Ranking**\n")
	for _, entry := range ranking {
		fmt.Fprintf(&sb, "%d. **%s** — %d titles, %s meritum\n",
			entry.Rank, entry.DisplayName, entry.NumOfTitles, FormatBalance(entry.Balance))
	}

	b.respond(s, i, sb.String())
}
