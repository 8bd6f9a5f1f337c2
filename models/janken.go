package models

// Hand represents a rock-paper-scissors hand
type Hand string

const (
	HandRock     Hand = "rock"
	HandScissors Hand = "scissors"
	HandPaper    Hand = "paper"
)

// Hands lists all valid hands in draw order.
var Hands = []Hand{HandRock, HandScissors, HandPaper}

// Beats reports whether h wins against other using standard precedence:
// rock beats scissors, scissors beats paper, paper beats rock.
func (h Hand) Beats(other Hand) bool {
	switch h {
	case HandRock:
		return other == HandScissors
	case HandScissors:
		return other == HandPaper
	case HandPaper:
		return other == HandRock
	}
	return false
}

// JankenVerdict classifies the outcome of a janken wager attempt
type JankenVerdict string

const (
	VerdictBetTooHigh        JankenVerdict = "bet_too_high"
	VerdictBetTooLow         JankenVerdict = "bet_too_low"
	VerdictBotCannotCover    JankenVerdict = "bot_cannot_cover"
	VerdictPlayerCannotCover JankenVerdict = "player_cannot_cover"
	VerdictDraw              JankenVerdict = "draw"
	VerdictPlayerWon         JankenVerdict = "player_won"
	VerdictPlayerLost        JankenVerdict = "player_lost"
)

// Mutated reports whether this verdict involved a balance change.
func (v JankenVerdict) Mutated() bool {
	return v == VerdictPlayerWon || v == VerdictPlayerLost
}

// JankenResult is the outcome of a janken wager. BotHand is only set when the
// game was actually played (draw, win or loss); PlayerBalance is the player's
// balance after settlement for won/lost verdicts.
type JankenResult struct {
	Verdict       JankenVerdict
	PlayerHand    Hand
	BotHand       Hand
	Bet           int64
	PlayerBalance int64
}
