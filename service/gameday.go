package service

import (
	"time"
)

// gameDayOffset shifts the game-day boundary so a new day starts at 07:00
// rather than midnight. A bonus claimed at 06:59 still belongs to the
// previous game day.
const gameDayOffset = 7 * time.Hour

// ReceiptDay returns the game day the given instant belongs to, normalized
// to midnight UTC. Pure function of its input.
func ReceiptDay(now time.Time) time.Time {
	shifted := now.UTC().Add(-gameDayOffset)
	return time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, time.UTC)
}
