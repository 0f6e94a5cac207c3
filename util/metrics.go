package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	playerJoinedCounter   prometheus.Counter
	playerActionCounter   prometheus.Counter
	handsCompletedCounter prometheus.Counter
	activeRoomsGauge      prometheus.Gauge
}

func (m *metrics) PlayerJoined() {
	m.playerJoinedCounter.Inc()
}

func (m *metrics) PlayerActed() {
	m.playerActionCounter.Inc()
}

func (m *metrics) HandCompleted() {
	m.handsCompletedCounter.Inc()
}

func (m *metrics) SetActiveRoomsCount(count int) {
	m.activeRoomsGauge.Set(float64(count))
}

var Metrics = &metrics{
	playerJoinedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "players_joined_total",
		Help: "Total number of players that joined a room",
	}),
	playerActionCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "player_actions_total",
		Help: "Total number of betting actions applied",
	}),
	handsCompletedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hands_completed_total",
		Help: "Total number of hands resolved at showdown",
	}),
	activeRoomsGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "active_rooms_count",
		Help: "Count of the entries in the room registry map",
	}),
}
