package testutil

import (
	"time"

	"meritum/models"
)

// TestProfile creates a profile with default values
func TestProfile(name string) models.Profile {
	return models.Profile{
		Name:        name,
		RealName:    name + " Example",
		DisplayName: name,
	}
}

// Day builds a normalized game-day key for tests
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
