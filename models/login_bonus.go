package models

import (
	"time"
)

// LoginBonus records that a user received the daily login bonus on a given
// game day. The composite primary key (discord_id, receipt_day) is what makes
// the grant idempotent.
type LoginBonus struct {
	DiscordID  string    `db:"discord_id"`
	ReceiptDay time.Time `db:"receipt_day"`
	CreatedAt  time.Time `db:"created_at"`
}

// BonusResult is the outcome of a login bonus grant attempt.
type BonusResult struct {
	Granted    bool
	Amount     int64
	NewBalance int64
}
