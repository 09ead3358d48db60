package shared

import "testing"

func TestNewDeckHas32UniqueCards(t *testing.T) {
	d := NewDeck()
	if len(d.Cards) != DeckSize {
		t.Fatalf("deck size: got %d, want %d", len(d.Cards), DeckSize)
	}
	seen := map[Card]bool{}
	for _, c := range d.Cards {
		if seen[c] {
			t.Fatalf("duplicate card: %v", c)
		}
		seen[c] = true
		if c.Value < 6 || c.Value > 13 {
			t.Fatalf("card %v has value %d outside 6..13", c, c.Value)
		}
	}
}

func TestShufflePreservesCards(t *testing.T) {
	d := NewDeck()
	before := map[Card]bool{}
	for _, c := range d.Cards {
		before[c] = true
	}
	d.Shuffle()
	if len(d.Cards) != DeckSize {
		t.Fatalf("shuffle changed deck size: got %d", len(d.Cards))
	}
	for _, c := range d.Cards {
		if !before[c] {
			t.Fatalf("shuffle invented card %v", c)
		}
		delete(before, c)
	}
	if len(before) != 0 {
		t.Fatalf("shuffle lost %d cards", len(before))
	}
}

func TestDealRoundRobinPattern(t *testing.T) {
	d := NewDeck() // known order: suits then ranks ascending
	original := append([]Card(nil), d.Cards...)

	hands := d.Deal(2)
	if hands == nil {
		t.Fatalf("deal failed")
	}

	// First pass of 3 then a pass of 2, consumed from the front in player order.
	wantP0 := []Card{original[0], original[1], original[2], original[6], original[7]}
	wantP1 := []Card{original[3], original[4], original[5], original[8], original[9]}
	for i := range wantP0 {
		if hands[0][i] != wantP0[i] {
			t.Fatalf("player 0 card %d: got %v, want %v", i, hands[0][i], wantP0[i])
		}
		if hands[1][i] != wantP1[i] {
			t.Fatalf("player 1 card %d: got %v, want %v", i, hands[1][i], wantP1[i])
		}
	}
	if len(d.Cards) != DeckSize-2*CardsPerPlayer {
		t.Fatalf("remainder: got %d, want %d", len(d.Cards), DeckSize-2*CardsPerPlayer)
	}
	if d.Cards[0] != original[10] {
		t.Fatalf("remainder should start at card 10 of the original order")
	}
}

func TestDealIntegrity(t *testing.T) {
	for _, numPlayers := range []int{2, 3, 4} {
		d := NewDeck()
		d.Shuffle()
		hands := d.Deal(numPlayers)
		if hands == nil {
			t.Fatalf("deal failed for %d players", numPlayers)
		}

		seen := map[Card]bool{}
		add := func(c Card) {
			if seen[c] {
				t.Fatalf("%d players: card %v appears twice", numPlayers, c)
			}
			seen[c] = true
		}
		for _, hand := range hands {
			if len(hand) != CardsPerPlayer {
				t.Fatalf("%d players: hand size %d", numPlayers, len(hand))
			}
			for _, c := range hand {
				add(c)
			}
		}
		for _, c := range d.Cards {
			add(c)
		}
		if len(seen) != DeckSize {
			t.Fatalf("%d players: hands + remainder hold %d cards, want %d", numPlayers, len(seen), DeckSize)
		}
	}
}

func TestDealRefusesShortDeck(t *testing.T) {
	d := NewDeck()
	d.Cards = d.Cards[:9] // one short of a 2-player deal
	if d.CanDeal(2) {
		t.Fatalf("CanDeal should be false with 9 cards for 2 players")
	}
	if hands := d.Deal(2); hands != nil {
		t.Fatalf("expected nil hands from a short deck")
	}
	if len(d.Cards) != 9 {
		t.Fatalf("failed deal should not consume cards, deck has %d", len(d.Cards))
	}
}
