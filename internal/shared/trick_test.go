package shared

import "testing"

func mustCard(t *testing.T, suit Suit, rank string) Card {
	t.Helper()
	c, ok := NewCard(suit, rank)
	if !ok {
		t.Fatalf("bad test card: %s of %s", rank, suit)
	}
	return c
}

func TestDetermineWinnerHighestOfLeadSuit(t *testing.T) {
	trick := NewTrick()
	trick.AddCard(mustCard(t, Diamonds, "6"), 0) // lead
	trick.AddCard(mustCard(t, Diamonds, "9"), 1)
	trick.AddCard(mustCard(t, Spades, "K"), 2) // off-suit, higher raw value

	winner := trick.DetermineWinner(Diamonds)
	if winner != 1 {
		t.Fatalf("winner: got player %d, want player 1 (9 of Diamonds)", winner)
	}
	if got := trick.WinningCard(); got != mustCard(t, Diamonds, "9") {
		t.Fatalf("winning card: got %v", got)
	}
}

func TestDetermineWinnerLeaderHoldsOnDiscards(t *testing.T) {
	trick := NewTrick()
	trick.AddCard(mustCard(t, Hearts, "8"), 3)
	trick.AddCard(mustCard(t, Clubs, "K"), 0)
	trick.AddCard(mustCard(t, Spades, "Q"), 1)

	if winner := trick.DetermineWinner(Hearts); winner != 3 {
		t.Fatalf("winner: got player %d, want the leader (3)", winner)
	}
}

func TestHasPlayed(t *testing.T) {
	trick := NewTrick()
	trick.AddCard(mustCard(t, Hearts, "J"), 2)
	if !trick.HasPlayed(2) {
		t.Fatalf("player 2 should be recorded")
	}
	if trick.HasPlayed(0) {
		t.Fatalf("player 0 has not played")
	}
}
