package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "login",
			Description: "Receive the daily login bonus (100 meritum, once per day, day rolls over at 7am)",
		},
		{
			Name:        "janken",
			Description: "Wager meritum on rock-paper-scissors against the bot",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "hand",
					Description: "Your hand",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "rock", Value: "rock"},
						{Name: "scissors", Value: "scissors"},
						{Name: "paper", Value: "paper"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "bet",
					Description: "Amount to wager (1 to 10 meritum)",
					Required:    true,
				},
			},
		},
		{
			Name:        "send",
			Description: "Send meritum to another player",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to send to",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Amount to send in meritum",
					Required:    true,
				},
			},
		},
		{
			Name:        "gacha",
			Description: "Spend 80 meritum on a random title",
		},
		{
			Name:        "profile",
			Description: "Show a player's balance, titles and rank",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "User to look up (defaults to you)",
					Required:    false,
				},
			},
		},
		{
			Name:        "ranking",
			Description: "Show the top players by title count and balance",
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}
