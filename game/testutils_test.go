package game

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"losingmoney.com/server/poker"
)

// recordedEvent is one captured messenger send.
type recordedEvent struct {
	Target  string // player or room id
	ToRoom  bool
	Event   string
	Payload interface{}
}

// recordingMessenger captures everything the engine emits.
type recordingMessenger struct {
	lock   sync.Mutex
	events []recordedEvent
}

func (m *recordingMessenger) SendToPlayer(playerID string, event string, payload interface{}) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.events = append(m.events, recordedEvent{Target: playerID, Event: event, Payload: payload})
}

func (m *recordingMessenger) SendToRoom(roomID string, event string, payload interface{}) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.events = append(m.events, recordedEvent{Target: roomID, ToRoom: true, Event: event, Payload: payload})
}

func (m *recordingMessenger) eventsNamed(event string) []recordedEvent {
	m.lock.Lock()
	defer m.lock.Unlock()
	var out []recordedEvent
	for _, e := range m.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

func (m *recordingMessenger) lastNamed(event string) (recordedEvent, bool) {
	all := m.eventsNamed(event)
	if len(all) == 0 {
		return recordedEvent{}, false
	}
	return all[len(all)-1], true
}

func (m *recordingMessenger) reset() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.events = nil
}

// newTestRoom seats the given players in a fresh room with the
// standard 5/10 blinds and 1000 chip stacks.
func newTestRoom(t *testing.T, names ...string) (*Room, *recordingMessenger) {
	t.Helper()
	messenger := &recordingMessenger{}
	room := NewRoom("room-1", DefaultTableSettings(), poker.Engine{}, messenger)
	for i, name := range names {
		_, err := room.AddPlayer(playerID(i), name)
		require.NoError(t, err)
	}
	messenger.reset()
	return room, messenger
}

func playerID(seat int) string {
	return string(rune('a' + seat))
}

// totalChips is the conservation check: bets move straight into the
// pot, so stacks plus the pot must stay constant through a hand.
func totalChips(room *Room) int {
	total := room.State.Pot
	for _, p := range room.Players {
		total += p.Chips
	}
	return total
}
