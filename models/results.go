package models

// TransferResult holds both post-transfer balances. The sum of the two
// balances is unchanged by the transfer.
type TransferResult struct {
	Amount      int64
	FromBalance int64
	ToBalance   int64
}

// GachaResult is the outcome of a gacha draw.
type GachaResult struct {
	Drawn      bool // false when the player could not afford the draw
	Title      string
	Cost       int64
	NewBalance int64
}

// RankedAccount is an account with its position in the ranking.
type RankedAccount struct {
	Account
	Rank int
}
