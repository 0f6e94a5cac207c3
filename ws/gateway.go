// Package ws is the websocket session layer. It binds one connection
// to one room membership, feeds inbound events to the room registry,
// and delivers outbound events to a player or to a whole room.
package ws

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"

	"losingmoney.com/server/game"
	"losingmoney.com/server/logging"
)

var wsLogger = logging.GetZeroLogger("ws::gateway", nil)

const writeTimeout = 5 * time.Second

// envelope is the wire frame, both directions.
type envelope struct {
	Event string              `json:"event"`
	Data  jsoniter.RawMessage `json:"data,omitempty"`
}

type joinRoomPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type rejoinRoomPayload struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

type playerActionPayload struct {
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

type joinedPayload struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

type session struct {
	conn      *websocket.Conn
	playerID  string
	roomID    string
	writeLock sync.Mutex
}

func (s *session) send(event string, payload interface{}) error {
	data, err := jsoniter.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "Unable to marshal event payload")
	}
	frame, err := jsoniter.Marshal(&envelope{Event: event, Data: data})
	if err != nil {
		return errors.Wrap(err, "Unable to marshal event frame")
	}

	s.writeLock.Lock()
	defer s.writeLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return s.conn.Write(ctx, websocket.MessageText, frame)
}

// Gateway accepts websocket connections and implements the
// game.Messenger capability on top of them.
type Gateway struct {
	manager *game.Manager

	lock     sync.RWMutex
	sessions map[string]*session            // playerID -> session
	rooms    map[string]map[string]*session // roomID -> playerID -> session
}

func NewGateway() *Gateway {
	return &Gateway{
		sessions: make(map[string]*session),
		rooms:    make(map[string]map[string]*session),
	}
}

// SetManager wires the registry in. The gateway and the manager point
// at each other, so one side has to be attached late.
func (g *Gateway) SetManager(manager *game.Manager) {
	g.manager = manager
}

// SendToPlayer implements game.Messenger.
func (g *Gateway) SendToPlayer(playerID string, event string, payload interface{}) {
	g.lock.RLock()
	s := g.sessions[playerID]
	g.lock.RUnlock()
	if s == nil {
		return
	}
	if err := s.send(event, payload); err != nil {
		wsLogger.Warn().Err(err).
			Str(logging.PlayerIDKey, playerID).
			Str(logging.EventKey, event).
			Msg("Dropping event to player")
	}
}

// SendToRoom implements game.Messenger.
func (g *Gateway) SendToRoom(roomID string, event string, payload interface{}) {
	g.lock.RLock()
	members := make([]*session, 0, len(g.rooms[roomID]))
	for _, s := range g.rooms[roomID] {
		members = append(members, s)
	}
	g.lock.RUnlock()

	for _, s := range members {
		if err := s.send(event, payload); err != nil {
			wsLogger.Warn().Err(err).
				Str(logging.RoomIDKey, roomID).
				Str(logging.EventKey, event).
				Msg("Dropping event to room member")
		}
	}
}

// HandleWS upgrades the connection and runs its read loop until the
// peer goes away.
func (g *Gateway) HandleWS(clientURL string) gin.HandlerFunc {
	patterns := originPatterns(clientURL)
	return func(c *gin.Context) {
		conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
			OriginPatterns: patterns,
		})
		if err != nil {
			wsLogger.Warn().Err(err).Msg("Websocket accept failed")
			return
		}
		s := &session{conn: conn}
		g.readLoop(c.Request.Context(), s)
	}
}

func (g *Gateway) readLoop(ctx context.Context, s *session) {
	defer g.teardown(s)

	// A player has no business sending bursts of actions; cap reads.
	limiter := rate.NewLimiter(rate.Every(100*time.Millisecond), 10)

	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			return
		}

		var frame envelope
		if err := jsoniter.Unmarshal(data, &frame); err != nil {
			s.send(game.EventError, "Malformed message")
			continue
		}
		g.dispatch(s, &frame)
	}
}

// dispatch routes one inbound frame. Player mistakes come back as
// error events; nothing here can take the process down.
func (g *Gateway) dispatch(s *session, frame *envelope) {
	var err error
	switch frame.Event {
	case "join-room":
		err = g.onJoinRoom(s, frame.Data)
	case "rejoin-room":
		err = g.onRejoinRoom(s, frame.Data)
	case "start-game":
		err = g.requireRoom(s, func() error {
			return g.manager.StartGame(s.roomID, s.playerID)
		})
	case "player-action":
		err = g.onPlayerAction(s, frame.Data)
	default:
		err = game.ValidationError{Msg: "Unknown event"}
	}

	if err != nil {
		s.send(game.EventError, clientMessage(err))
	}
}

func (g *Gateway) onJoinRoom(s *session, data jsoniter.RawMessage) error {
	if s.roomID != "" {
		return game.ValidationError{Msg: "Already in a room"}
	}
	var payload joinRoomPayload
	if err := jsoniter.Unmarshal(data, &payload); err != nil {
		return game.ValidationError{Msg: "Missing room ID or player name"}
	}

	player, err := g.manager.JoinRoom(payload.RoomID, payload.PlayerName)
	if err != nil {
		return err
	}
	g.register(s, payload.RoomID, player.ID)
	s.send("joined", &joinedPayload{RoomID: payload.RoomID, PlayerID: player.ID})
	// The join broadcasts ran before this session was registered;
	// replay the state this player missed.
	return g.manager.RejoinRoom(payload.RoomID, player.ID)
}

func (g *Gateway) onRejoinRoom(s *session, data jsoniter.RawMessage) error {
	if s.roomID != "" {
		return game.ValidationError{Msg: "Already in a room"}
	}
	var payload rejoinRoomPayload
	if err := jsoniter.Unmarshal(data, &payload); err != nil {
		return game.ValidationError{Msg: "Missing room ID or player ID"}
	}
	g.register(s, payload.RoomID, payload.PlayerID)
	if err := g.manager.RejoinRoom(payload.RoomID, payload.PlayerID); err != nil {
		g.unregister(s)
		return err
	}
	return nil
}

func (g *Gateway) onPlayerAction(s *session, data jsoniter.RawMessage) error {
	var payload playerActionPayload
	if err := jsoniter.Unmarshal(data, &payload); err != nil {
		return game.ValidationError{Msg: "Malformed action"}
	}
	return g.requireRoom(s, func() error {
		return g.manager.HandleAction(s.roomID, s.playerID, game.PlayerAction(payload.Action), payload.Amount)
	})
}

func (g *Gateway) requireRoom(s *session, fn func() error) error {
	if s.roomID == "" {
		return game.ValidationError{Msg: "Not in a room"}
	}
	return fn()
}

func (g *Gateway) register(s *session, roomID string, playerID string) {
	g.lock.Lock()
	defer g.lock.Unlock()
	s.roomID = roomID
	s.playerID = playerID
	g.sessions[playerID] = s
	members := g.rooms[roomID]
	if members == nil {
		members = make(map[string]*session)
		g.rooms[roomID] = members
	}
	members[playerID] = s
}

func (g *Gateway) unregister(s *session) {
	g.lock.Lock()
	defer g.lock.Unlock()
	if s.playerID == "" {
		return
	}
	delete(g.sessions, s.playerID)
	if members := g.rooms[s.roomID]; members != nil {
		delete(members, s.playerID)
		if len(members) == 0 {
			delete(g.rooms, s.roomID)
		}
	}
	s.roomID = ""
	s.playerID = ""
}

func (g *Gateway) teardown(s *session) {
	roomID, playerID := s.roomID, s.playerID
	g.unregister(s)
	if roomID != "" {
		g.manager.HandleDisconnect(roomID, playerID)
	}
	s.conn.Close(websocket.StatusNormalClosure, "")
}

// clientMessage keeps internal failures out of player facing errors.
func clientMessage(err error) string {
	switch err.(type) {
	case game.ValidationError, game.NotFoundError:
		return err.Error()
	default:
		wsLogger.Error().Err(err).Msg("Unexpected error handling player event")
		return "An error occurred"
	}
}

func originPatterns(clientURL string) []string {
	parsed, err := url.Parse(clientURL)
	if err != nil || parsed.Host == "" {
		return []string{"localhost:*"}
	}
	return []string{parsed.Host}
}
