package shared

import "sort"

// Player represents a player in the Card Masters game.
type Player struct {
	ID    string `json:"id"`    // Unique identifier, stable for the match
	Name  string `json:"name"`  // Player's chosen name
	Hand  []Card `json:"hand"`  // Cards currently held
	Score int    `json:"score"` // Running score across sub-games
}

// NewPlayer creates a new player with the given ID and name.
func NewPlayer(id string, name string) *Player {
	return &Player{
		ID:    id,
		Name:  name,
		Hand:  []Card{},
		Score: 0,
	}
}

// SetHand replaces the player's hand, sorted ascending by value for display.
func (p *Player) SetHand(cards []Card) {
	hand := make([]Card, len(cards))
	copy(hand, cards)
	sort.SliceStable(hand, func(i, j int) bool {
		return hand[i].Value < hand[j].Value
	})
	p.Hand = hand
}

// RemoveCardAt removes the card at the given hand index.
// Returns false if the index is out of range.
func (p *Player) RemoveCardAt(index int) bool {
	if index < 0 || index >= len(p.Hand) {
		return false
	}
	p.Hand = append(p.Hand[:index], p.Hand[index+1:]...)
	return true
}

// FindCard locates a card in the player's hand by suit and rank.
// Returns the hand index, or -1 if not held.
func (p *Player) FindCard(suit Suit, rank string) int {
	for i, card := range p.Hand {
		if card.Suit == suit && card.Rank == rank {
			return i
		}
	}
	return -1
}

// HasSuit reports whether the player holds at least one card of the suit.
func (p *Player) HasSuit(suit Suit) bool {
	for _, card := range p.Hand {
		if card.Suit == suit {
			return true
		}
	}
	return false
}

// AddScore adds banked points to the player's running score.
func (p *Player) AddScore(points int) {
	p.Score += points
}
