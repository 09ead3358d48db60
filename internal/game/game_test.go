package game

import (
	"encoding/json"
	"sync"
	"testing"

	"cardmasters-game/internal/protocol"
	"cardmasters-game/internal/shared"
)

// recorder captures everything a match sends, keyed by recipient.
type recorder struct {
	mu   sync.Mutex
	sent map[string][]protocol.Message
}

func newRecorder() *recorder {
	return &recorder{sent: map[string][]protocol.Message{}}
}

func (r *recorder) sender() MessageSender {
	return func(clientID string, message []byte) {
		var msg protocol.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			panic(err)
		}
		r.mu.Lock()
		r.sent[clientID] = append(r.sent[clientID], msg)
		r.mu.Unlock()
	}
}

func (r *recorder) typesFor(clientID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.sent[clientID]))
	for i, m := range r.sent[clientID] {
		types[i] = m.Type
	}
	return types
}

func TestBotMatchRunsToCompletion(t *testing.T) {
	players := testPlayers(3)
	m := NewMatch(players, map[int]bool{0: true, 1: true, 2: true}, 7)

	var gotResult bool
	m.SetGameOverFunc(func(matchID string, snap Snapshot) {
		gotResult = true
		if matchID != m.ID {
			t.Errorf("result for match %s, want %s", matchID, m.ID)
		}
	})

	// With every seat a bot, Start drives the whole match synchronously.
	m.Start(nil)

	snap := m.Snapshot()
	if snap.State != GameOver {
		t.Fatalf("state: got %s, want GameOver", snap.State)
	}
	if snap.WinnerIndex < 0 {
		t.Fatalf("no winner reported")
	}
	if got := snap.Players[snap.WinnerIndex].Score; got < 7 {
		t.Fatalf("winner score %d below target", got)
	}
	for i, p := range snap.Players {
		if i != snap.WinnerIndex && p.Score >= 7 {
			t.Fatalf("two players crossed the target: seat %d also has %d", i, p.Score)
		}
	}
	if !gotResult {
		t.Fatalf("game-over callback never fired")
	}
}

func TestRejectedPlayIsReportedOnlyToOffender(t *testing.T) {
	players := testPlayers(2)
	m := NewMatch(players, nil, 11)
	rec := newRecorder()
	m.Start(rec.sender())

	// Seat 1 tries to open the trick even though seat 0 holds control.
	victim := m.engine.Players[1]
	payload, _ := json.Marshal(protocol.PlayCardPayload{
		Suit:      victim.Hand[0].Suit,
		Rank:      victim.Hand[0].Rank,
		HandIndex: 0,
	})
	m.HandlePlayerAction(victim.ID, protocol.Message{Type: "play_card", Payload: payload})

	var sawError bool
	for _, typ := range rec.typesFor(victim.ID) {
		if typ == "error" {
			sawError = true
		}
	}
	if !sawError {
		t.Fatalf("offender got no error message: %v", rec.typesFor(victim.ID))
	}
	for _, typ := range rec.typesFor(m.engine.Players[0].ID) {
		if typ == "error" {
			t.Fatalf("innocent player was told about the rejected play")
		}
	}
	if len(m.engine.Players[1].Hand) != shared.CardsPerPlayer {
		t.Fatalf("rejected play consumed a card")
	}
}

func TestHumansReceiveHandsAndTurns(t *testing.T) {
	players := testPlayers(2)
	m := NewMatch(players, nil, 11)
	rec := newRecorder()
	m.Start(rec.sender())

	for _, p := range players {
		types := rec.typesFor(p.ID)
		var sawStart, sawHand bool
		for _, typ := range types {
			switch typ {
			case "game_start":
				sawStart = true
			case "deal_hand":
				sawHand = true
			}
		}
		if !sawStart || !sawHand {
			t.Fatalf("player %s missing start/hand messages: %v", p.Name, types)
		}
	}

	// The control holder is told it is their turn; the other seat is not.
	leader := players[m.Snapshot().ControlIndex]
	var sawTurn bool
	for _, typ := range rec.typesFor(leader.ID) {
		if typ == "your_turn" {
			sawTurn = true
		}
	}
	if !sawTurn {
		t.Fatalf("leader never notified of their turn")
	}
}

func TestDisconnectForfeitsMatch(t *testing.T) {
	players := testPlayers(3)
	players[1].Score = 4 // highest remaining score should win the forfeit
	m := NewMatch(players, nil, 11)
	rec := newRecorder()

	var results int
	m.SetGameOverFunc(func(matchID string, snap Snapshot) { results++ })
	m.Start(rec.sender())

	m.HandlePlayerDisconnect(players[0].ID)

	snap := m.Snapshot()
	if snap.State != GameOver {
		t.Fatalf("state: got %s, want GameOver after forfeit", snap.State)
	}
	if snap.WinnerIndex != 1 {
		t.Fatalf("forfeit winner: got seat %d, want seat 1", snap.WinnerIndex)
	}
	if results != 1 {
		t.Fatalf("result callback fired %d times, want once", results)
	}

	// A second disconnect must not re-report the match.
	m.HandlePlayerDisconnect(players[2].ID)
	if results != 1 {
		t.Fatalf("finished match reported again")
	}
}

func TestHumanCanPlayThroughController(t *testing.T) {
	players := testPlayers(2)
	// Seat 1 is a bot; seat 0 plays through the synchronous API.
	m := NewMatch(players, map[int]bool{1: true}, 2)
	m.Start(nil)

	human := players[0]
	for {
		snap := m.Snapshot()
		if snap.State == GameOver {
			break
		}
		if snap.TurnIndex != 0 {
			t.Fatalf("controller stopped on a bot turn")
		}
		hand := snap.Players[0].Hand
		// Play the first legal card.
		var played bool
		for idx, c := range hand {
			if err := m.Play(human.ID, c, idx); err == nil {
				played = true
				break
			}
		}
		if !played {
			t.Fatalf("no legal card in hand %v", hand)
		}
	}

	snap := m.Snapshot()
	if snap.WinnerIndex < 0 {
		t.Fatalf("match ended without a winner")
	}
}
