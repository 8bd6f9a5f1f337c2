package models

import (
	"time"
)

// Account represents a chat user (or the bot itself) with a point balance
type Account struct {
	DiscordID   string    `db:"discord_id"`
	Name        string    `db:"name"`
	RealName    string    `db:"real_name"`
	DisplayName string    `db:"display_name"`
	Balance     int64     `db:"balance"`
	Titles      []string  `db:"titles"`
	NumOfTitles int       `db:"num_of_titles"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Profile carries the descriptive fields supplied by the chat platform when
// an account has to be created lazily. Opaque to ledger logic.
type Profile struct {
	Name        string
	RealName    string
	DisplayName string
}
