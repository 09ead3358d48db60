package game

import (
	"encoding/json"
	"log"
	"sync"

	"cardmasters-game/internal/bot"
	"cardmasters-game/internal/protocol"
	"cardmasters-game/internal/shared"

	"github.com/google/uuid"
)

// MessageSender defines the function signature for sending messages back
// to clients. The Hub (or any other transport) provides an implementation.
// A sender must never call back into the match.
type MessageSender func(clientID string, message []byte)

// GameOverFunc is called exactly once when the match ends, with the final
// engine snapshot, so the transport layer can persist the result.
type GameOverFunc func(matchID string, snap Snapshot)

// Match owns one engine instance and bridges it to a transport. It is the
// seam where single-player and multiplayer diverge: human plays arrive via
// HandlePlayerAction (network) or Play (CLI), bot seats are driven
// internally through the card-selection policy. All access to the engine
// is serialized by the match's mutex.
type Match struct {
	ID       string
	engine   *Engine
	botSeats map[int]bool

	mu          sync.Mutex
	sendMessage MessageSender
	onGameOver  GameOverFunc
	reported    bool
}

// NewMatch creates a match over the given players. botSeats marks the seat
// indexes the controller plays itself.
func NewMatch(players []*shared.Player, botSeats map[int]bool, targetScore int) *Match {
	if botSeats == nil {
		botSeats = map[int]bool{}
	}
	return &Match{
		ID:       uuid.NewString(),
		engine:   NewEngine(players, targetScore),
		botSeats: botSeats,
	}
}

// SetGameOverFunc registers the result callback. Must be called before Start.
func (m *Match) SetGameOverFunc(fn GameOverFunc) {
	m.onGameOver = fn
}

// Start announces the match, deals the first sub-game and runs any
// leading bot turns. Called once, typically in a goroutine by the Hub.
func (m *Match) Start(sender MessageSender) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendMessage = sender
	log.Printf("Match %s: starting with %d players (%d bots), target %d.",
		m.ID, len(m.engine.Players), len(m.botSeats), m.engine.TargetScore)

	startPayload := protocol.GameStartPayload{
		MatchID:     m.ID,
		Players:     m.playerInfos(),
		TargetScore: m.engine.TargetScore,
	}
	startMsg, _ := protocol.NewMessage("game_start", startPayload)
	m.broadcast(startMsg)

	m.startSubgame()
	m.advance()
}

// Snapshot returns a copy of the current engine state.
func (m *Match) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.Snapshot()
}

// Play submits a human play and then advances the match (bot turns,
// sub-game transitions) until human input is needed again. This is the
// synchronous entry point used by the solo client and by tests.
func (m *Match) Play(playerID string, card shared.Card, handIndex int) *PlayError {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.applyPlay(playerID, card, handIndex); err != nil {
		return err
	}
	m.advance()
	return nil
}

// HandlePlayerAction processes an incoming message from a client.
func (m *Match) HandlePlayerAction(clientID string, msg protocol.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch msg.Type {
	case "play_card":
		var payload protocol.PlayCardPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			log.Printf("Match %s: bad play_card payload from %s: %v", m.ID, clientID, err)
			m.sendErrorToPlayer(clientID, &PlayError{Kind: ErrInvalidCardIndex, Message: "Invalid play_card message."})
			return
		}
		card, ok := shared.NewCard(payload.Suit, payload.Rank)
		if !ok {
			m.sendErrorToPlayer(clientID, &PlayError{Kind: ErrInvalidCardIndex, Message: "Unknown card."})
			return
		}
		if err := m.applyPlay(clientID, card, payload.HandIndex); err != nil {
			log.Printf("Match %s: rejected play from %s: %s (%s)", m.ID, clientID, err.Message, err.Kind)
			m.sendErrorToPlayer(clientID, err)
			return
		}
		m.advance()
	default:
		log.Printf("Match %s: unhandled action type %q from %s", m.ID, msg.Type, clientID)
	}
}

// HandlePlayerDisconnect forfeits the match when a human leaves mid-game.
func (m *Match) HandlePlayerDisconnect(clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.engine.State == GameOver {
		return
	}
	log.Printf("Match %s: player %s disconnected, forfeiting.", m.ID, clientID)
	leftMsg, _ := protocol.NewMessage("player_left", protocol.PlayerLeftPayload{PlayerID: clientID})
	m.broadcast(leftMsg)

	m.engine.ForfeitMatch(clientID)
	m.finishMatch()
}

// applyPlay feeds one play into the engine and broadcasts the resulting
// state. A rejected play produces no broadcasts. Assumes lock is held.
func (m *Match) applyPlay(playerID string, card shared.Card, handIndex int) *PlayError {
	tricksBefore := m.engine.TricksPlayed
	stateBefore := m.engine.State

	if err := m.engine.SubmitPlay(playerID, card, handIndex); err != nil {
		return err
	}

	trickResolved := m.engine.TricksPlayed != tricksBefore || m.engine.State != stateBefore
	if trickResolved {
		m.broadcastTrickEnd()
		if m.engine.State == SubgameOver || m.engine.State == GameOver {
			m.broadcastSubgameEnd()
		}
	}
	m.broadcastGameState()
	return nil
}

// advance drives the match forward until it needs human input or ends:
// bot turns are played synchronously, finished sub-games roll into the
// next deal, and a finished match is reported. Assumes lock is held.
func (m *Match) advance() {
	for {
		switch m.engine.State {
		case Playing:
			seat := m.engine.TurnIndex
			if !m.botSeats[seat] {
				m.notifyCurrentPlayerTurn()
				return
			}
			m.playBotTurn(seat)
		case SubgameOver:
			m.startSubgame()
		case GameOver:
			m.finishMatch()
			return
		default:
			return
		}
	}
}

// playBotTurn queries the policy for the bot seat and submits the choice.
// A bot play can never be rejected; a rejection means the policy and the
// rules disagree, which is fatal. Assumes lock is held.
func (m *Match) playBotTurn(seat int) {
	player := m.engine.Players[seat]
	choice := bot.ChooseCard(player.Hand, m.engine.LeadCard(), m.engine.RemainingTricks())
	handIndex := player.FindCard(choice.Suit, choice.Rank)
	if err := m.applyPlay(player.ID, choice, handIndex); err != nil {
		log.Panicf("Match %s: bot play rejected: %s", m.ID, err.Message)
	}
}

// startSubgame deals the next sub-game and hands each human its cards.
// Assumes lock is held.
func (m *Match) startSubgame() {
	m.engine.StartSubgame()
	for _, p := range m.engine.Players {
		if m.botSeats[m.engine.PlayerIndex(p.ID)] {
			continue
		}
		dealMsg, _ := protocol.NewMessage("deal_hand", protocol.DealHandPayload{Hand: p.Hand})
		m.sendToPlayer(p.ID, dealMsg)
	}
	m.broadcastGameState()
}

// finishMatch broadcasts game_over and reports the result exactly once.
// Assumes lock is held.
func (m *Match) finishMatch() {
	if m.reported {
		return
	}
	m.reported = true

	snap := m.engine.Snapshot()
	winner := protocol.PlayerInfo{}
	if snap.WinnerIndex >= 0 {
		w := snap.Players[snap.WinnerIndex]
		winner = protocol.PlayerInfo{ID: w.ID, Name: w.Name, Seat: snap.WinnerIndex, Score: w.Score}
	}
	overPayload := protocol.GameOverPayload{
		WinnerID:   winner.ID,
		WinnerName: winner.Name,
		Players:    m.playerInfos(),
	}
	overMsg, _ := protocol.NewMessage("game_over", overPayload)
	m.broadcast(overMsg)
	log.Printf("Match %s: over, winner %s.", m.ID, winner.Name)

	if m.onGameOver != nil {
		m.onGameOver(m.ID, snap)
	}
}

// --- Messaging helpers (assume lock is held) ---

func (m *Match) playerInfos() []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, len(m.engine.Players))
	for i, p := range m.engine.Players {
		infos[i] = protocol.PlayerInfo{
			ID:    p.ID,
			Name:  p.Name,
			Seat:  i,
			IsBot: m.botSeats[i],
			Score: p.Score,
		}
	}
	return infos
}

func (m *Match) broadcast(message []byte) {
	if m.sendMessage == nil {
		return
	}
	for i, p := range m.engine.Players {
		if m.botSeats[i] {
			continue
		}
		m.sendMessage(p.ID, message)
	}
}

func (m *Match) sendToPlayer(playerID string, message []byte) {
	if m.sendMessage == nil {
		return
	}
	m.sendMessage(playerID, message)
}

// sendErrorToPlayer relays a rejected play to the offending player only;
// other players see nothing.
func (m *Match) sendErrorToPlayer(playerID string, playErr *PlayError) {
	payload := protocol.ErrorPayload{Error: string(playErr.Kind), Message: playErr.Message}
	msgBytes, err := protocol.NewMessage("error", payload)
	if err != nil {
		log.Printf("Match %s: error building error message for %s: %v", m.ID, playerID, err)
		return
	}
	m.sendToPlayer(playerID, msgBytes)
}

func (m *Match) broadcastGameState() {
	e := m.engine
	var lastMessage string
	if len(e.Log) > 0 {
		lastMessage = e.Log[len(e.Log)-1]
	}
	payload := protocol.GameStatePayload{
		CurrentPlayerID:   e.Players[e.TurnIndex].ID,
		ControlPlayerID:   e.Players[e.ControlIndex].ID,
		TrickPlays:        append([]shared.PlayedCard(nil), e.CurrentTrick.Cards...),
		LeadSuit:          e.LeadSuit,
		AccumulatedPoints: e.AccumulatedPoints,
		Players:           m.playerInfos(),
		TricksPlayed:      e.TricksPlayed,
		GameState:         string(e.State),
		LastMessage:       lastMessage,
	}
	msgBytes, _ := protocol.NewMessage("game_state_update", payload)
	m.broadcast(msgBytes)
}

func (m *Match) broadcastTrickEnd() {
	e := m.engine
	payload := protocol.TrickEndPayload{
		WinnerID:          e.Players[e.LastTrickWinnerIndex].ID,
		WinningCard:       e.LastWinningCard,
		Cards:             e.LastTrickCards,
		PointsEarned:      e.LastPointsEarned,
		AccumulatedPoints: e.AccumulatedPoints,
	}
	msgBytes, _ := protocol.NewMessage("trick_end", payload)
	m.broadcast(msgBytes)
}

func (m *Match) broadcastSubgameEnd() {
	e := m.engine
	payload := protocol.SubgameEndPayload{
		WinnerID:     e.Players[e.ControlIndex].ID,
		BankedPoints: e.LastBankedPoints,
		Players:      m.playerInfos(),
	}
	msgBytes, _ := protocol.NewMessage("subgame_end", payload)
	m.broadcast(msgBytes)
}

func (m *Match) notifyCurrentPlayerTurn() {
	currentPlayer := m.engine.Players[m.engine.TurnIndex]
	msgBytes, _ := protocol.NewMessage("your_turn", protocol.YourTurnPayload{PlayerID: currentPlayer.ID})
	m.sendToPlayer(currentPlayer.ID, msgBytes)
}
