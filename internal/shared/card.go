package shared

import "fmt"

// Suit represents the suit of a card.
type Suit string

const (
	Diamonds Suit = "Diamonds"
	Spades   Suit = "Spades"
	Hearts   Suit = "Hearts"
	Clubs    Suit = "Clubs"
)

// Suits lists all four suits in deck-building order.
var Suits = []Suit{Diamonds, Spades, Hearts, Clubs}

// Card represents a single card in the Card Masters game.
type Card struct {
	Suit  Suit   `json:"suit"`
	Rank  string `json:"rank"`
	Value int    `json:"value"` // Comparison value of the card (6..13)
}

// Ranks in ascending value order. The deck has eight ranks per suit.
var Ranks = []string{"6", "7", "8", "9", "10", "J", "Q", "K"}

// Card values: numeric ranks map to themselves, court cards continue upward.
var cardValues = map[string]int{
	"6":  6,
	"7":  7,
	"8":  8,
	"9":  9,
	"10": 10,
	"J":  11,
	"Q":  12,
	"K":  13,
}

// NewCard builds a card with its value derived from the rank.
// Returns false if the rank is not part of the game.
func NewCard(suit Suit, rank string) (Card, bool) {
	value, ok := cardValues[rank]
	if !ok {
		return Card{}, false
	}
	return Card{Suit: suit, Rank: rank, Value: value}, true
}

// IsSixOrSeven reports whether the card is subject to the accumulation rule.
func (c Card) IsSixOrSeven() bool {
	return c.Rank == "6" || c.Rank == "7"
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}
