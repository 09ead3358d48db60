package bot

import (
	"log"

	"cardmasters-game/internal/shared"
)

// ChooseCard picks the card a bot plays. It is a pure function: the
// hand is never mutated and the choice is deterministic for a fixed
// hand order. lead is nil when the bot opens the trick.
//
// Leading: with 2 or fewer tricks left in the sub-game, play the
// strongest card to secure control late; otherwise play the weakest to
// preserve strength. Following: win as cheaply as possible, or shed
// the cheapest card when the trick cannot be won.
func ChooseCard(hand []shared.Card, lead *shared.Card, remainingTricks int) shared.Card {
	if len(hand) == 0 {
		log.Panicf("bot: ChooseCard called with an empty hand")
	}

	if lead == nil {
		if remainingTricks <= 2 {
			return highest(hand)
		}
		return lowest(hand)
	}

	required := filterSuit(hand, lead.Suit)
	if len(required) == 0 {
		// Void in the led suit: discard cheaply.
		return lowest(hand)
	}

	winning := make([]shared.Card, 0, len(required))
	for _, c := range required {
		if c.Value > lead.Value {
			winning = append(winning, c)
		}
	}
	if len(winning) > 0 {
		return lowest(winning)
	}
	// Forced loss: minimize the cost.
	return lowest(required)
}

func filterSuit(hand []shared.Card, suit shared.Suit) []shared.Card {
	out := make([]shared.Card, 0, len(hand))
	for _, c := range hand {
		if c.Suit == suit {
			out = append(out, c)
		}
	}
	return out
}

func lowest(cards []shared.Card) shared.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Value < best.Value {
			best = c
		}
	}
	return best
}

func highest(cards []shared.Card) shared.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Value > best.Value {
			best = c
		}
	}
	return best
}
