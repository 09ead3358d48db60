package server

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"cardmasters-game/internal/database"
	"cardmasters-game/internal/game"
	"cardmasters-game/internal/protocol"
	"cardmasters-game/internal/shared"

	"github.com/google/uuid"
)

// clientMessage is a helper struct to pass messages along with the client reference.
type clientMessage struct {
	client  *Client
	message protocol.Message
}

const roomCodeLength = 5 // Length of the unique room code

const defaultTargetScore = 11

// lobby is a room that has not started yet.
type lobby struct {
	clients     []*Client
	capacity    int // Total seats, bots included (2-4)
	bots        int // Seats reserved for bots
	targetScore int
}

func (l *lobby) humanSeats() int {
	return l.capacity - l.bots
}

// Hub manages active WebSocket connections, lobbies, and game rooms.
type Hub struct {
	db             *database.Service
	clients        map[*Client]bool
	lobbies        map[string]*lobby
	games          map[string]*game.Match // Map room code to match instance
	clientToRoom   map[*Client]string     // Map client to room code (lobby or active game)
	processMessage chan clientMessage
	register       chan *Client
	unregister     chan *Client
	clientMu       sync.RWMutex
	lobbyMu        sync.RWMutex
	gameMu         sync.RWMutex
	rng            *rand.Rand
}

// NewHub creates a new Hub instance.
func NewHub(db *database.Service) *Hub {
	source := rand.NewSource(time.Now().UnixNano())
	rng := rand.New(source)

	return &Hub{
		db:             db,
		clients:        make(map[*Client]bool),
		lobbies:        make(map[string]*lobby),
		games:          make(map[string]*game.Match),
		clientToRoom:   make(map[*Client]string),
		processMessage: make(chan clientMessage),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		rng:            rng,
	}
}

// generateRoomCode creates a unique alphanumeric room code.
func (h *Hub) generateRoomCode() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	for {
		var sb strings.Builder
		for i := 0; i < roomCodeLength; i++ {
			sb.WriteByte(letters[h.rng.Intn(len(letters))])
		}
		code := sb.String()

		h.lobbyMu.RLock()
		_, lobbyExists := h.lobbies[code]
		h.lobbyMu.RUnlock()

		h.gameMu.RLock()
		_, gameExists := h.games[code]
		h.gameMu.RUnlock()

		if !lobbyExists && !gameExists {
			return code
		}
		log.Printf("Generated room code %s collided, retrying...", code)
	}
}

// Run starts the Hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			client.ID = uuid.NewString() // Assign a unique ID upon registration
			log.Printf("Client %s (%s) connected", client.ID, client.conn.RemoteAddr())
			h.clientMu.Lock()
			h.clients[client] = true
			h.clientMu.Unlock()

		case client := <-h.unregister:
			h.handleUnregister(client)

		case clientMsg := <-h.processMessage:
			h.handleMessage(clientMsg.client, clientMsg.message)
		}
	}
}

func (h *Hub) handleUnregister(client *Client) {
	h.clientMu.Lock()
	roomCode, inRoom := h.clientToRoom[client]
	_, clientExists := h.clients[client]

	if clientExists {
		delete(h.clients, client)
		delete(h.clientToRoom, client)
		close(client.send)
		log.Printf("Client %s (%s) disconnected", client.ID, client.Name)
	}
	h.clientMu.Unlock()

	if !inRoom {
		if clientExists {
			log.Printf("Client %s disconnected before joining/creating a room.", client.ID)
		}
		return
	}

	// Check if it was a lobby first
	h.lobbyMu.Lock()
	l, lobbyExists := h.lobbies[roomCode]
	if lobbyExists {
		newClients := []*Client{}
		for _, c := range l.clients {
			if c != client {
				newClients = append(newClients, c)
			}
		}
		if len(newClients) > 0 {
			l.clients = newClients
			log.Printf("Client %s removed from lobby %s.", client.ID, roomCode)
			h.broadcastLobbyUpdate(roomCode, l)
		} else {
			delete(h.lobbies, roomCode)
			log.Printf("Client %s left lobby %s. Lobby deleted.", client.ID, roomCode)
		}
		h.lobbyMu.Unlock()
		return
	}
	h.lobbyMu.Unlock()

	// Not in a lobby: check for an active game
	h.gameMu.RLock()
	match, gameExists := h.games[roomCode]
	h.gameMu.RUnlock()

	if gameExists {
		log.Printf("Client %s was in game %s. Notifying match.", client.ID, roomCode)
		// Run in goroutine to avoid blocking the hub loop
		go match.HandlePlayerDisconnect(client.ID)
	} else {
		log.Printf("Client %s disconnected but was mapped to non-existent room code %s", client.ID, roomCode)
	}
}

// handleMessage processes a message received from a client.
func (h *Hub) handleMessage(client *Client, msg protocol.Message) {
	switch msg.Type {
	case "create_room":
		h.handleCreateRoom(client, msg)
	case "join_room":
		h.handleJoinRoom(client, msg)
	case "play_card":
		h.handleGameAction(client, msg)
	case "ping":
		pongMsg, _ := protocol.NewMessage("pong", nil)
		client.send <- pongMsg
	default:
		log.Printf("Received unknown message type '%s' from client %s (%s)", msg.Type, client.ID, client.Name)
		h.sendErrorToClient(client, "Unknown message type.")
	}
}

// handleCreateRoom handles a request to create a new room lobby.
func (h *Hub) handleCreateRoom(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	_, alreadyInRoom := h.clientToRoom[client]
	h.clientMu.RUnlock()
	if alreadyInRoom {
		log.Printf("Client %s tried to create room but is already associated with one.", client.ID)
		h.sendErrorToClient(client, "Already in a room.")
		return
	}

	var payload protocol.CreateRoomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling create_room payload from client %s: %v", client.ID, err)
		h.sendErrorToClient(client, "Invalid create_room message format.")
		return
	}
	if payload.Name == "" {
		h.sendErrorToClient(client, "Name cannot be empty.")
		return
	}
	if payload.Capacity < 2 || payload.Capacity > 4 {
		h.sendErrorToClient(client, "Room capacity must be between 2 and 4 players.")
		return
	}
	if payload.Bots < 0 || payload.Bots > payload.Capacity-1 {
		h.sendErrorToClient(client, "At least one seat must be human.")
		return
	}
	targetScore := payload.TargetScore
	if targetScore == 0 {
		targetScore = defaultTargetScore
	}
	if targetScore < 1 {
		h.sendErrorToClient(client, "Target score must be positive.")
		return
	}

	roomCode := h.generateRoomCode()

	h.clientMu.Lock()
	client.Name = payload.Name
	h.clientToRoom[client] = roomCode
	h.clientMu.Unlock()

	l := &lobby{
		clients:     []*Client{client},
		capacity:    payload.Capacity,
		bots:        payload.Bots,
		targetScore: targetScore,
	}
	h.lobbyMu.Lock()
	h.lobbies[roomCode] = l
	h.lobbyMu.Unlock()

	log.Printf("Client %s (%s) created room %s (capacity %d, bots %d, target %d)",
		client.ID, client.Name, roomCode, l.capacity, l.bots, l.targetScore)

	createdPayload := protocol.RoomCreatedPayload{RoomCode: roomCode}
	createdMsg, _ := protocol.NewMessage("room_created", createdPayload)
	h.sendMessageToClient(client.ID, createdMsg)

	h.broadcastLobbyUpdate(roomCode, l)

	// A room that only needs one human starts immediately
	if len(l.clients) == l.humanSeats() {
		h.startGame(roomCode)
	}
}

// handleJoinRoom handles a request to join an existing room lobby.
func (h *Hub) handleJoinRoom(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	_, alreadyInRoom := h.clientToRoom[client]
	h.clientMu.RUnlock()
	if alreadyInRoom {
		log.Printf("Client %s tried to join room but is already associated with one.", client.ID)
		h.sendJoinError(client, "Already in a room.")
		return
	}

	var payload protocol.JoinRoomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("Error unmarshalling join_room payload from client %s: %v", client.ID, err)
		h.sendJoinError(client, "Invalid join_room message format.")
		return
	}
	if payload.Name == "" {
		h.sendJoinError(client, "Name cannot be empty.")
		return
	}
	if payload.RoomCode == "" {
		h.sendJoinError(client, "Room code cannot be empty.")
		return
	}
	roomCode := strings.ToUpper(payload.RoomCode)

	h.lobbyMu.Lock()
	l, lobbyExists := h.lobbies[roomCode]
	if !lobbyExists {
		h.lobbyMu.Unlock()
		log.Printf("Client %s tried to join non-existent room %s", client.ID, roomCode)
		h.sendJoinError(client, "Room code not found.")
		return
	}
	if len(l.clients) >= l.humanSeats() {
		h.lobbyMu.Unlock()
		log.Printf("Client %s tried to join full room %s", client.ID, roomCode)
		h.sendJoinError(client, "Room is full.")
		return
	}
	for _, existingClient := range l.clients {
		if existingClient.Name == payload.Name {
			h.lobbyMu.Unlock()
			log.Printf("Client %s tried to join room %s with duplicate name '%s'", client.ID, roomCode, payload.Name)
			h.sendJoinError(client, "Name already taken in this room.")
			return
		}
	}

	client.Name = payload.Name
	l.clients = append(l.clients, client)
	full := len(l.clients) == l.humanSeats()
	h.lobbyMu.Unlock()

	h.clientMu.Lock()
	h.clientToRoom[client] = roomCode
	h.clientMu.Unlock()

	log.Printf("Client %s (%s) joined room %s. Humans: %d/%d", client.ID, client.Name, roomCode, len(l.clients), l.humanSeats())

	h.broadcastLobbyUpdate(roomCode, l)

	if full {
		h.startGame(roomCode)
	}
}

// startGame promotes a full lobby into a running match.
func (h *Hub) startGame(roomCode string) {
	h.gameMu.Lock()
	h.lobbyMu.Lock()

	l, lobbyExists := h.lobbies[roomCode]
	if !lobbyExists || len(l.clients) != l.humanSeats() {
		log.Printf("Error: Lobby %s state changed unexpectedly before game start. Aborting start.", roomCode)
		h.lobbyMu.Unlock()
		h.gameMu.Unlock()
		return
	}

	players := make([]*shared.Player, 0, l.capacity)
	botSeats := map[int]bool{}
	for _, c := range l.clients {
		players = append(players, shared.NewPlayer(c.ID, c.Name))
	}
	for i := 0; i < l.bots; i++ {
		seat := len(players)
		players = append(players, shared.NewPlayer(uuid.NewString(), fmt.Sprintf("Bot %d", i+1)))
		botSeats[seat] = true
	}

	match := game.NewMatch(players, botSeats, l.targetScore)
	match.SetGameOverFunc(h.recordResult(roomCode))
	h.games[roomCode] = match
	delete(h.lobbies, roomCode)

	h.lobbyMu.Unlock()
	h.gameMu.Unlock()

	log.Printf("Match created for room %s with ID %s. Players: %v", roomCode, match.ID, playerNames(l.clients))

	go match.Start(h.sendMessageToClient)
}

// recordResult builds the game-over callback that persists a finished match.
func (h *Hub) recordResult(roomCode string) game.GameOverFunc {
	return func(matchID string, snap game.Snapshot) {
		if h.db == nil {
			return
		}
		result := database.MatchResult{
			ID:          matchID,
			CreatedAt:   time.Now().UTC().Format(time.RFC3339),
			RoomCode:    roomCode,
			TargetScore: snap.TargetScore,
		}
		names := []*string{&result.Player1, &result.Player2, &result.Player3, &result.Player4}
		scores := []*int{&result.Player1Score, &result.Player2Score, &result.Player3Score, &result.Player4Score}
		for i, p := range snap.Players {
			*names[i] = p.Name
			*scores[i] = p.Score
		}
		if snap.WinnerIndex >= 0 {
			result.Winner = snap.Players[snap.WinnerIndex].Name
		}
		if err := h.db.Insert(result); err != nil {
			log.Printf("Error saving result for room %s: %v", roomCode, err)
		}

		// The match is finished; drop it so the code can be reused.
		h.gameMu.Lock()
		delete(h.games, roomCode)
		h.gameMu.Unlock()
	}
}

// handleGameAction forwards play_card to the correct match instance.
func (h *Hub) handleGameAction(client *Client, msg protocol.Message) {
	h.clientMu.RLock()
	roomCode, inRoom := h.clientToRoom[client]
	h.clientMu.RUnlock()

	if !inRoom {
		log.Printf("Received '%s' from client %s not in any room.", msg.Type, client.ID)
		h.sendErrorToClient(client, "You are not in an active game or room.")
		return
	}

	h.gameMu.RLock()
	match, gameExists := h.games[roomCode]
	h.gameMu.RUnlock()

	if !gameExists {
		log.Printf("Received '%s' from client %s for room %s, but match not found (still in lobby or game ended?).", msg.Type, client.ID, roomCode)
		h.sendErrorToClient(client, "Game not found or not active.")
		return
	}

	match.HandlePlayerAction(client.ID, msg)
}

// Helper to get player names for logging
func playerNames(clients []*Client) []string {
	names := make([]string, len(clients))
	for i, c := range clients {
		if c != nil {
			names[i] = c.Name
		} else {
			names[i] = "<nil>"
		}
	}
	return names
}

// sendMessageToClient allows the match to send messages back via the hub.
// This is passed as a callback to the match instance. Bot IDs simply
// never match a connected client.
func (h *Hub) sendMessageToClient(clientID string, message []byte) {
	h.clientMu.RLock()
	var targetClient *Client
	for client := range h.clients {
		if client.ID == clientID {
			targetClient = client
			break
		}
	}
	h.clientMu.RUnlock()

	if targetClient == nil {
		return
	}

	// Non-blocking send to avoid stalling the hub/match goroutine
	select {
	case targetClient.send <- message:
	default:
		log.Printf("Failed to send message to client %s (channel full or closed), initiating cleanup.", clientID)
		go func() {
			h.clientMu.RLock()
			_, stillConnected := h.clients[targetClient]
			h.clientMu.RUnlock()
			if stillConnected {
				h.unregister <- targetClient
			}
		}()
	}
}

// broadcastLobbyUpdate sends the current list of players in the lobby.
// The payload is built from the passed lobby directly, so it is safe to
// call with or without lobbyMu held.
func (h *Hub) broadcastLobbyUpdate(roomCode string, l *lobby) {
	playerInfos := make([]protocol.PlayerInfo, 0, len(l.clients))
	for i, c := range l.clients {
		if c != nil {
			playerInfos = append(playerInfos, protocol.PlayerInfo{ID: c.ID, Name: c.Name, Seat: i})
		}
	}
	payload := protocol.LobbyUpdatePayload{Players: playerInfos, Capacity: l.capacity}
	msgBytes, err := protocol.NewMessage("lobby_update", payload)
	if err != nil {
		log.Printf("Error creating lobby_update message for room %s: %v", roomCode, err)
		return
	}
	for _, c := range l.clients {
		if c != nil {
			h.sendMessageToClient(c.ID, msgBytes)
		}
	}
}

// sendErrorToClient sends a generic error message to a specific client.
func (h *Hub) sendErrorToClient(client *Client, errorMsg string) {
	payload := protocol.ErrorPayload{Message: errorMsg}
	msgBytes, err := protocol.NewMessage("error", payload)
	if err != nil {
		log.Printf("Error creating error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client.ID, msgBytes)
}

// sendJoinError sends a specific join error message to a client.
func (h *Hub) sendJoinError(client *Client, errorMsg string) {
	payload := protocol.JoinErrorPayload{Message: errorMsg}
	msgBytes, err := protocol.NewMessage("join_error", payload)
	if err != nil {
		log.Printf("Error creating join_error message for client %s: %v", client.ID, err)
		return
	}
	h.sendMessageToClient(client.ID, msgBytes)
}
