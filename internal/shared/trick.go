package shared

import "log"

// PlayedCard stores a card along with the index of the player who played it.
type PlayedCard struct {
	Card        Card `json:"card"`
	PlayerIndex int  `json:"player_index"`
}

// Trick represents a single trick: one card from each player, the first
// of which fixes the lead suit.
type Trick struct {
	Cards       []PlayedCard // Cards played so far, in play order
	WinnerIndex int          // Index of the winning player (-1 until determined)
}

// NewTrick creates a new empty trick.
func NewTrick() *Trick {
	return &Trick{
		Cards:       []PlayedCard{},
		WinnerIndex: -1,
	}
}

// AddCard adds a card and the player's index to the trick.
func (t *Trick) AddCard(card Card, playerIndex int) {
	t.Cards = append(t.Cards, PlayedCard{Card: card, PlayerIndex: playerIndex})
}

// HasPlayed reports whether the player already has a card in this trick.
func (t *Trick) HasPlayed(playerIndex int) bool {
	for _, pc := range t.Cards {
		if pc.PlayerIndex == playerIndex {
			return true
		}
	}
	return false
}

// DetermineWinner resolves the trick: the winning play is the one with
// the highest value among plays of the led suit. Off-suit discards can
// never win. All 32 cards are unique, so ties are impossible.
func (t *Trick) DetermineWinner(ledSuit Suit) int {
	if len(t.Cards) == 0 {
		log.Panicf("Error: Cannot determine winner of an empty trick.")
		return -1
	}

	highestValueInSuit := -1
	winnerIndex := -1
	for _, playedCard := range t.Cards {
		if playedCard.Card.Suit != ledSuit {
			continue
		}
		if playedCard.Card.Value > highestValueInSuit {
			highestValueInSuit = playedCard.Card.Value
			winnerIndex = playedCard.PlayerIndex
		}
	}

	// The leader always plays the led suit, so a winner must exist.
	if winnerIndex == -1 {
		log.Panicf("Error: No card of led suit (%s) found in trick.", ledSuit)
	}

	t.WinnerIndex = winnerIndex
	return winnerIndex
}

// WinningCard returns the card that won the trick. Only valid after
// DetermineWinner has been called.
func (t *Trick) WinningCard() Card {
	for _, pc := range t.Cards {
		if pc.PlayerIndex == t.WinnerIndex {
			return pc.Card
		}
	}
	log.Panicf("Error: WinningCard called before DetermineWinner.")
	return Card{}
}
