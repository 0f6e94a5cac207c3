// Package nats mirrors room events onto NATS subjects so services
// outside the websocket session layer can observe games.
package nats

import (
	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"

	"losingmoney.com/server/logging"
)

var natsLogger = logging.GetZeroLogger("nats::messenger", nil)

type eventFrame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Messenger publishes every event to a per room or per player
// subject. It satisfies game.Messenger and is fanned out next to the
// websocket hub.
type Messenger struct {
	natsConn *natsgo.Conn
}

func NewMessenger(nc *natsgo.Conn) *Messenger {
	return &Messenger{natsConn: nc}
}

func (m *Messenger) SendToPlayer(playerID string, event string, payload interface{}) {
	m.publish(GetPlayerSubject(playerID), event, payload)
}

func (m *Messenger) SendToRoom(roomID string, event string, payload interface{}) {
	m.publish(GetRoom2AllPlayerSubject(roomID), event, payload)
}

func (m *Messenger) publish(subject string, event string, payload interface{}) {
	data, err := jsoniter.Marshal(&eventFrame{Event: event, Data: payload})
	if err != nil {
		natsLogger.Error().Err(err).Str(logging.EventKey, event).Msg("Unable to marshal event")
		return
	}
	if err := m.natsConn.Publish(subject, data); err != nil {
		natsLogger.Warn().Err(err).Str("subject", subject).Msg("Failed to publish event")
	}
}
