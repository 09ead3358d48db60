package shared

import (
	"log"
	"math/rand/v2"
)

// DeckSize is the number of cards in a full deck (4 suits x 8 ranks).
const DeckSize = 32

// CardsPerPlayer is dealt in two round-robin passes of 3 and 2.
const CardsPerPlayer = 5

var dealPasses = []int{3, 2}

// Deck represents an ordered collection of cards. Cards are consumed
// from the front when dealing.
type Deck struct {
	Cards []Card
}

// NewDeck creates the full 32-card Card Masters deck, one card per
// (suit, rank) pair.
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			card, ok := NewCard(suit, rank)
			if !ok {
				// Cannot happen with the rank table above.
				log.Panicf("invalid rank %q during deck creation", rank)
			}
			cards = append(cards, card)
		}
	}
	return &Deck{Cards: cards}
}

// Shuffle randomizes the order of cards in the deck using an unbiased
// Fisher-Yates permutation.
func (d *Deck) Shuffle() {
	for i := len(d.Cards) - 1; i >= 1; i-- {
		j := rand.IntN(i + 1)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
	log.Println("Deck shuffled.")
}

// CanDeal reports whether the deck still holds a full deal for the
// given number of players.
func (d *Deck) CanDeal(numPlayers int) bool {
	return len(d.Cards) >= numPlayers*CardsPerPlayer
}

// Deal distributes 5 cards to each player: a round-robin pass of 3
// followed by a pass of 2, consuming from the front of the deck in
// player order. The undealt remainder stays in the deck. Returns nil
// if the deck cannot serve a full deal.
func (d *Deck) Deal(numPlayers int) [][]Card {
	if !d.CanDeal(numPlayers) {
		log.Printf("Error: Not enough cards in deck (%d) to deal %d cards to %d players.",
			len(d.Cards), CardsPerPlayer, numPlayers)
		return nil
	}

	dealt := make([][]Card, numPlayers)
	for i := range dealt {
		dealt[i] = make([]Card, 0, CardsPerPlayer)
	}
	pos := 0
	for _, pass := range dealPasses {
		for i := 0; i < numPlayers; i++ {
			dealt[i] = append(dealt[i], d.Cards[pos:pos+pass]...)
			pos += pass
		}
	}
	d.Cards = d.Cards[pos:]
	log.Printf("Dealt %d cards to %d players, %d left in deck.", CardsPerPlayer, numPlayers, len(d.Cards))
	return dealt
}
