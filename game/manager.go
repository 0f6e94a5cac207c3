package game

import (
	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map"
	"github.com/rs/zerolog"

	"losingmoney.com/server/internal/handcache"
	"losingmoney.com/server/logging"
	"losingmoney.com/server/poker"
	"losingmoney.com/server/util"
)

const lastResultCacheSize = 4096

// Manager is the room registry. Rooms come to life on the first join
// to an unknown id and die with their last player. The map mutations
// are atomic per key, so two racing joins agree on one room.
type Manager struct {
	rooms       cmap.ConcurrentMap
	messenger   Messenger
	settings    TableSettings
	evaluator   poker.Evaluator
	lastResults *handcache.Cache
	logger      zerolog.Logger
}

func NewManager(messenger Messenger, settings TableSettings, evaluator poker.Evaluator) (*Manager, error) {
	lastResults, err := handcache.New(lastResultCacheSize)
	if err != nil {
		return nil, err
	}
	if evaluator == nil {
		evaluator = poker.DefaultEvaluator
	}
	return &Manager{
		rooms:       cmap.New(),
		messenger:   messenger,
		settings:    settings,
		evaluator:   evaluator,
		lastResults: lastResults,
		logger:      *logging.GetZeroLogger("game::manager", nil),
	}, nil
}

// JoinRoom seats a new player, creating the room when the id is
// unknown. The returned player carries the freshly minted identity.
func (m *Manager) JoinRoom(roomID string, playerName string) (*Player, error) {
	if roomID == "" || playerName == "" {
		return nil, newValidationError("Missing room ID or player name")
	}

	playerID := uuid.New().String()
	for {
		fresh := NewRoom(roomID, m.settings, m.evaluator, m.messenger)
		fresh.SetResultSink(m.recordResult)
		stored := m.rooms.Upsert(roomID, fresh, func(exists bool, valueInMap interface{}, newValue interface{}) interface{} {
			if exists {
				return valueInMap
			}
			return newValue
		})
		room := stored.(*Room)

		player, err := room.AddPlayer(playerID, playerName)
		if err != nil {
			m.reapIfEmpty(roomID)
			return nil, err
		}

		// The last occupant leaving can reap the room between the
		// Upsert and the seat-add. Once seated the reap can no longer
		// fire, so if this room is still the registered one, the seat
		// is safe; otherwise undo the orphaned seat and join again.
		if current, ok := m.rooms.Get(roomID); ok && current.(*Room) == room {
			util.Metrics.PlayerJoined()
			util.Metrics.SetActiveRoomsCount(m.rooms.Count())
			return player, nil
		}
		room.HandleDisconnect(playerID)
	}
}

// RejoinRoom replays the current state to a player reattaching by a
// prior identity.
func (m *Manager) RejoinRoom(roomID string, playerID string) error {
	room, err := m.roomByID(roomID)
	if err != nil {
		return err
	}
	return room.Rejoin(playerID)
}

// StartGame starts a hand on behalf of the room's host.
func (m *Manager) StartGame(roomID string, playerID string) error {
	room, err := m.roomByID(roomID)
	if err != nil {
		return err
	}
	return room.StartHand(playerID)
}

// HandleAction routes a betting action into the room's state machine.
func (m *Manager) HandleAction(roomID string, playerID string, action PlayerAction, amount int) error {
	room, err := m.roomByID(roomID)
	if err != nil {
		return err
	}
	if err := room.HandleAction(playerID, action, amount); err != nil {
		return err
	}
	util.Metrics.PlayerActed()
	return nil
}

// HandleDisconnect removes the player from their room and tears the
// room down when it empties.
func (m *Manager) HandleDisconnect(roomID string, playerID string) {
	value, ok := m.rooms.Get(roomID)
	if !ok {
		return
	}
	room := value.(*Room)
	if room.HandleDisconnect(playerID) {
		m.reapIfEmpty(roomID)
	}
	util.Metrics.SetActiveRoomsCount(m.rooms.Count())
}

// LastResult returns the most recent completed hand for a room, if
// one is still cached.
func (m *Manager) LastResult(roomID string) (*GameOver, bool) {
	value, ok := m.lastResults.Get(roomID)
	if !ok {
		return nil, false
	}
	return value.(*GameOver), true
}

// ActiveRooms returns the registry size.
func (m *Manager) ActiveRooms() int {
	return m.rooms.Count()
}

func (m *Manager) recordResult(roomID string, result *GameOver) {
	m.lastResults.Add(roomID, result)
}

// reapIfEmpty deletes the room only while it is still empty; a join
// racing the last leave keeps the room alive.
func (m *Manager) reapIfEmpty(roomID string) {
	removed := m.rooms.RemoveCb(roomID, func(key string, v interface{}, exists bool) bool {
		return exists && v.(*Room).PlayerCount() == 0
	})
	if removed {
		m.lastResults.Remove(roomID)
		m.logger.Info().Str(logging.RoomIDKey, roomID).Msg("Room is empty, deleting it")
	}
}

func (m *Manager) roomByID(roomID string) (*Room, error) {
	value, ok := m.rooms.Get(roomID)
	if !ok {
		return nil, newNotFoundError("Room not found")
	}
	return value.(*Room), nil
}
