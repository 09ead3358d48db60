package bot

import (
	"testing"

	"cardmasters-game/internal/shared"
)

func card(t *testing.T, suit shared.Suit, rank string) shared.Card {
	t.Helper()
	c, ok := shared.NewCard(suit, rank)
	if !ok {
		t.Fatalf("bad test card: %s of %s", rank, suit)
	}
	return c
}

func TestChooseCard(t *testing.T) {
	hand := func(t *testing.T) []shared.Card {
		return []shared.Card{
			card(t, shared.Diamonds, "9"),
			card(t, shared.Spades, "K"),
			card(t, shared.Diamonds, "6"),
			card(t, shared.Hearts, "J"),
		}
	}

	cases := []struct {
		name            string
		lead            *shared.Card
		remainingTricks int
		want            shared.Card
	}{
		{
			name:            "leading early preserves strength",
			lead:            nil,
			remainingTricks: 5,
			want:            card(t, shared.Diamonds, "6"),
		},
		{
			name:            "leading late secures control",
			lead:            nil,
			remainingTricks: 2,
			want:            card(t, shared.Spades, "K"),
		},
		{
			name:            "wins as cheaply as possible",
			lead:            ptr(card(t, shared.Diamonds, "7")),
			remainingTricks: 4,
			want:            card(t, shared.Diamonds, "9"), // not the 6, which cannot win
		},
		{
			name:            "forced loss minimizes cost",
			lead:            ptr(card(t, shared.Diamonds, "K")),
			remainingTricks: 4,
			want:            card(t, shared.Diamonds, "6"),
		},
		{
			name:            "void in lead suit discards cheaply",
			lead:            ptr(card(t, shared.Clubs, "8")),
			remainingTricks: 4,
			want:            card(t, shared.Diamonds, "6"),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := hand(t)
			got := ChooseCard(h, tc.lead, tc.remainingTricks)
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			// The policy is pure: the hand must be untouched.
			want := hand(t)
			for i := range h {
				if h[i] != want[i] {
					t.Fatalf("hand mutated at %d: %v", i, h[i])
				}
			}
			// And deterministic for a fixed hand order.
			if again := ChooseCard(h, tc.lead, tc.remainingTricks); again != got {
				t.Fatalf("non-deterministic choice: %v then %v", got, again)
			}
		})
	}
}

func ptr(c shared.Card) *shared.Card {
	return &c
}
