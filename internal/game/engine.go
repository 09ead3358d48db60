package game

import (
	"fmt"
	"log"

	"cardmasters-game/internal/shared"
)

// State represents the current phase of the engine.
type State string

const (
	Dealing     State = "Dealing"     // Cards are being dealt
	Playing     State = "Playing"     // Players are playing tricks
	SubgameOver State = "SubgameOver" // 5 tricks finished, points banked
	GameOver    State = "GameOver"    // Target score reached or forfeit
)

// TricksPerSubgame is the fixed length of a sub-game: one deal, five tricks.
const TricksPerSubgame = 5

// Engine is the round/trick resolution and scoring state machine. It is
// shared by the single-player and multiplayer deployments and holds no
// transport concerns: all transitions are synchronous, a rejected play
// leaves every field untouched, and the owner is responsible for
// serializing access.
type Engine struct {
	Players      []*shared.Player
	Deck         *shared.Deck
	CurrentTrick *shared.Trick
	LeadSuit     shared.Suit // Suit of the first card this trick, "" until led

	TurnIndex    int // Seat expected to act (strict seating order)
	ControlIndex int // Seat currently holding control

	AccumulatedPoints int         // Points carried across tricks while control is retained
	LastPlayedSuit    shared.Suit // Suit of the last winning 6/7, "" otherwise
	LastPointsEarned  int         // Nominal award of the last resolved trick

	LastTrickWinnerIndex int                 // Seat that won the last resolved trick, -1 before the first
	LastWinningCard      shared.Card         // Card that won the last resolved trick
	LastTrickCards       []shared.PlayedCard // Plays of the last resolved trick
	LastBankedPoints     int         // Points credited at the last sub-game boundary

	TricksPlayed int // Resolved tricks in the current sub-game
	TargetScore  int
	State        State
	WinnerIndex  int // Seat of the match winner, -1 until GameOver

	Log []string // Human-readable event history, not load-bearing
}

// NewEngine creates an engine for 2 to 4 players. Construction with a
// bad player count or target score is a programmer error and fails
// loudly, unlike play-time rule violations.
func NewEngine(players []*shared.Player, targetScore int) *Engine {
	if len(players) < 2 || len(players) > 4 {
		log.Panicf("engine: need 2 to 4 players, got %d", len(players))
	}
	if targetScore <= 0 {
		log.Panicf("engine: target score must be positive, got %d", targetScore)
	}
	seen := map[string]bool{}
	for _, p := range players {
		if p == nil {
			log.Panicf("engine: nil player")
		}
		if seen[p.ID] {
			log.Panicf("engine: duplicate player ID %s", p.ID)
		}
		seen[p.ID] = true
	}
	return &Engine{
		Players:      players,
		Deck:         shared.NewDeck(),
		CurrentTrick: shared.NewTrick(),
		TurnIndex:    0,
		ControlIndex: 0,
		TargetScore:  targetScore,
		State:        Dealing,
		WinnerIndex:  -1,

		LastTrickWinnerIndex: -1,
	}
}

// StartSubgame shuffles (rebuilding the deck first if it cannot serve a
// full deal), deals 5 cards to each player and opens play with the
// control holder leading. The first sub-game is led by seat 0; later
// ones by the previous sub-game's control holder.
func (e *Engine) StartSubgame() {
	if e.State == GameOver {
		log.Printf("Engine: cannot start sub-game, match is over.")
		return
	}
	if e.State == Playing {
		log.Panicf("engine: StartSubgame called mid-play")
	}

	if !e.Deck.CanDeal(len(e.Players)) {
		// Depleted: build a fresh full deck, never top up.
		e.Deck = shared.NewDeck()
		e.Deck.Shuffle()
	} else if e.State == Dealing {
		e.Deck.Shuffle()
	}

	hands := e.Deck.Deal(len(e.Players))
	if hands == nil {
		log.Panicf("engine: deal failed with %d cards for %d players", len(e.Deck.Cards), len(e.Players))
	}
	for i, hand := range hands {
		e.Players[i].SetHand(hand)
	}
	e.checkDeckIntegrity()

	e.CurrentTrick = shared.NewTrick()
	e.LeadSuit = ""
	e.AccumulatedPoints = 0
	e.LastPlayedSuit = ""
	e.LastPointsEarned = 0
	e.TricksPlayed = 0
	e.TurnIndex = e.ControlIndex
	e.State = Playing
	e.logf("New sub-game: %s leads.", e.Players[e.ControlIndex].Name)
}

// checkDeckIntegrity verifies that the dealt hands plus the remaining
// deck hold no duplicate cards. Later sub-games deal from a partial
// deck, so the total may be below 32, but it can never exceed it.
// This guard must never fire.
func (e *Engine) checkDeckIntegrity() {
	seen := map[shared.Card]bool{}
	count := 0
	add := func(c shared.Card) {
		if seen[c] {
			log.Panicf("engine: duplicate card detected after deal: %s", c)
		}
		seen[c] = true
		count++
	}
	for _, p := range e.Players {
		for _, c := range p.Hand {
			add(c)
		}
	}
	for _, c := range e.Deck.Cards {
		add(c)
	}
	if count > shared.DeckSize {
		log.Panicf("engine: %d cards in play, more than a full deck", count)
	}
}

// RemainingTricks returns the number of tricks left in the current
// sub-game, counting the one in progress.
func (e *Engine) RemainingTricks() int {
	return TricksPerSubgame - e.TricksPlayed
}

// PlayerIndex finds the seat of a player by ID. Returns -1 if unknown.
func (e *Engine) PlayerIndex(playerID string) int {
	for i, p := range e.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// LeadCard returns the card that opened the current trick, or nil if
// the trick has not been led yet.
func (e *Engine) LeadCard() *shared.Card {
	if len(e.CurrentTrick.Cards) == 0 {
		return nil
	}
	card := e.CurrentTrick.Cards[0].Card
	return &card
}

// SubmitPlay validates and applies a single play. Preconditions are
// checked in order; the first failure wins and leaves all state
// unchanged. On the trick's final play the trick is resolved, and on
// the sub-game's final trick the accumulated points are banked.
func (e *Engine) SubmitPlay(playerID string, card shared.Card, handIndex int) *PlayError {
	if e.State == GameOver {
		return newPlayError(ErrGameOver, "The match is already over.")
	}
	playerIndex := e.PlayerIndex(playerID)
	if playerIndex == -1 {
		return newPlayError(ErrPlayerNotFound, "You are not part of this match.")
	}
	if e.State != Playing {
		return newPlayError(ErrNotYourTurn, "The next sub-game has not started yet.")
	}
	player := e.Players[playerIndex]

	if len(e.CurrentTrick.Cards) == 0 && playerIndex != e.ControlIndex {
		return newPlayError(ErrNotLeader, "Only %s may open this trick.", e.Players[e.ControlIndex].Name)
	}
	if e.CurrentTrick.HasPlayed(playerIndex) {
		return newPlayError(ErrAlreadyPlayed, "You have already played a card this trick.")
	}
	if playerIndex != e.TurnIndex {
		return newPlayError(ErrNotYourTurn, "It is %s's turn.", e.Players[e.TurnIndex].Name)
	}
	// Revalidate card identity, not just the index: the transport is
	// untrusted and hands shift as cards are removed.
	if handIndex < 0 || handIndex >= len(player.Hand) || player.Hand[handIndex] != card {
		return newPlayError(ErrInvalidCardIndex, "That card is not in your hand.")
	}
	if e.LeadSuit != "" && player.HasSuit(e.LeadSuit) && card.Suit != e.LeadSuit {
		return newPlayError(ErrMustFollowSuit, "You must play a %s card if you have one.", e.LeadSuit)
	}

	player.RemoveCardAt(handIndex)
	if len(e.CurrentTrick.Cards) == 0 {
		e.LeadSuit = card.Suit
	}
	e.CurrentTrick.AddCard(card, playerIndex)
	e.logf("%s played %s.", player.Name, card)

	if len(e.CurrentTrick.Cards) == len(e.Players) {
		e.resolveTrick()
	} else {
		e.TurnIndex = (e.TurnIndex + 1) % len(e.Players)
	}
	return nil
}

// resolveTrick determines the winner and applies the 6/7 accumulation
// and control-transfer scoring rules, in this exact order:
//
//  1. a control transfer wipes the previous holder's accumulation;
//  2. snatching control with a 6/7 of the led suit is capped at 1 point;
//  3. a retained 6/7 scores 3 (six) or 2 (seven) and either replaces the
//     accumulation (same suit as the last winning 6/7) or adds to it;
//  4. any other winning card scores 1 and resets the accumulation;
//  5. the winner takes control and leads the next trick.
func (e *Engine) resolveTrick() {
	winnerIndex := e.CurrentTrick.DetermineWinner(e.LeadSuit)
	winningCard := e.CurrentTrick.WinningCard()
	winner := e.Players[winnerIndex]

	controlTransferred := winnerIndex != e.ControlIndex
	if controlTransferred {
		e.AccumulatedPoints = 0
		e.LastPlayedSuit = ""
	}

	var pointsEarned int
	switch {
	case controlTransferred && winningCard.IsSixOrSeven() && winningCard.Suit == e.LeadSuit:
		// Snatching control with a 6/7 is capped regardless of card points.
		pointsEarned = 1
		e.AccumulatedPoints = 0
	case !controlTransferred && winningCard.IsSixOrSeven():
		cardPoints := 2
		if winningCard.Rank == "6" {
			cardPoints = 3
		}
		pointsEarned = cardPoints
		if e.LastPlayedSuit == winningCard.Suit {
			e.AccumulatedPoints = pointsEarned
		} else {
			e.AccumulatedPoints += pointsEarned
		}
	default:
		pointsEarned = 1
		e.AccumulatedPoints = 0
	}

	if winningCard.IsSixOrSeven() {
		e.LastPlayedSuit = winningCard.Suit
	}
	e.ControlIndex = winnerIndex
	e.LastPointsEarned = pointsEarned
	e.LastTrickWinnerIndex = winnerIndex
	e.LastWinningCard = winningCard
	e.LastTrickCards = e.CurrentTrick.Cards

	e.TricksPlayed++
	e.CurrentTrick = shared.NewTrick()
	e.LeadSuit = ""
	e.TurnIndex = winnerIndex
	e.logf("%s takes the trick with %s (+%d, %d accumulated).",
		winner.Name, winningCard, pointsEarned, e.AccumulatedPoints)

	if e.TricksPlayed == TricksPerSubgame {
		e.endSubgame()
	}
}

// endSubgame banks the accumulated points (or the final trick's award
// when nothing accumulated) to the control holder and either ends the
// match or leaves the engine ready for the next deal.
func (e *Engine) endSubgame() {
	banked := e.AccumulatedPoints
	if banked == 0 {
		banked = e.LastPointsEarned
	}
	holder := e.Players[e.ControlIndex]
	holder.AddScore(banked)
	e.LastBankedPoints = banked
	e.logf("%s banks %d points (score %d).", holder.Name, banked, holder.Score)

	if holder.Score >= e.TargetScore {
		e.State = GameOver
		e.WinnerIndex = e.ControlIndex
		e.logf("%s wins the match with %d points.", holder.Name, holder.Score)
		return
	}
	e.State = SubgameOver
}

// ForfeitMatch ends the match because a player left. The highest-scoring
// remaining player wins; earlier seats break score ties.
func (e *Engine) ForfeitMatch(leaverID string) {
	if e.State == GameOver {
		return
	}
	leaverIndex := e.PlayerIndex(leaverID)
	winnerIndex := -1
	for i, p := range e.Players {
		if i == leaverIndex {
			continue
		}
		if winnerIndex == -1 || p.Score > e.Players[winnerIndex].Score {
			winnerIndex = i
		}
	}
	e.State = GameOver
	e.WinnerIndex = winnerIndex
	if leaverIndex != -1 {
		e.logf("%s left the match. %s wins by forfeit.",
			e.Players[leaverIndex].Name, e.Players[winnerIndex].Name)
	}
}

// Snapshot is a full copy of the engine state for observers. Transport
// layers decide for themselves how much of it (hands in particular) to
// reveal to whom.
type Snapshot struct {
	Players           []shared.Player     `json:"players"`
	TrickPlays        []shared.PlayedCard `json:"trick_plays"`
	LeadSuit          shared.Suit         `json:"lead_suit"`
	TurnIndex         int                 `json:"turn_index"`
	ControlIndex      int                 `json:"control_index"`
	AccumulatedPoints int                 `json:"accumulated_points"`
	LastPlayedSuit    shared.Suit         `json:"last_played_suit"`
	TricksPlayed      int                 `json:"tricks_played"`
	TargetScore       int                 `json:"target_score"`
	State             State               `json:"state"`
	WinnerIndex       int                 `json:"winner_index"`
	Log               []string            `json:"log"`
}

// Snapshot copies the current engine state.
func (e *Engine) Snapshot() Snapshot {
	players := make([]shared.Player, len(e.Players))
	for i, p := range e.Players {
		players[i] = *p
		players[i].Hand = append([]shared.Card(nil), p.Hand...)
	}
	return Snapshot{
		Players:           players,
		TrickPlays:        append([]shared.PlayedCard(nil), e.CurrentTrick.Cards...),
		LeadSuit:          e.LeadSuit,
		TurnIndex:         e.TurnIndex,
		ControlIndex:      e.ControlIndex,
		AccumulatedPoints: e.AccumulatedPoints,
		LastPlayedSuit:    e.LastPlayedSuit,
		TricksPlayed:      e.TricksPlayed,
		TargetScore:       e.TargetScore,
		State:             e.State,
		WinnerIndex:       e.WinnerIndex,
		Log:               append([]string(nil), e.Log...),
	}
}

func (e *Engine) logf(format string, args ...interface{}) {
	e.Log = append(e.Log, fmt.Sprintf(format, args...))
}
