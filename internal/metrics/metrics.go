package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nexus_peer_client"

// Metrics holds the collectors updated by the client. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	FramesSent      *prometheus.CounterVec
	FramesReceived  *prometheus.CounterVec
	UnknownFrames   prometheus.Counter
	UnknownCommands prometheus.Counter
	ConnectAttempts *prometheus.CounterVec
	ConnectionAlive prometheus.Gauge
}

// New registers the client collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FramesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_sent_total",
			Help:      "Frames written to the coordinating server, by message kind.",
		}, []string{"kind"}),

		FramesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_received_total",
			Help:      "Frames read from the coordinating server, by message kind.",
		}, []string{"kind"}),

		UnknownFrames: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_frames_total",
			Help:      "Frames dropped because their type tag was not recognized.",
		}),

		UnknownCommands: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unknown_commands_total",
			Help:      "Control messages ignored because their command was not recognized.",
		}),

		ConnectAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_attempts_total",
			Help:      "Transport connect attempts, by result.",
		}, []string{"result"}),

		ConnectionAlive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_alive",
			Help:      "1 while the client considers its connection alive.",
		}),
	}
}

// FrameSent counts a frame written to the server.
func (m *Metrics) FrameSent(kind string) {
	if m != nil {
		m.FramesSent.WithLabelValues(kind).Inc()
	}
}

// FrameReceived counts a decoded frame read from the server.
func (m *Metrics) FrameReceived(kind string) {
	if m != nil {
		m.FramesReceived.WithLabelValues(kind).Inc()
	}
}

// UnknownFrame counts a frame dropped for its type tag.
func (m *Metrics) UnknownFrame() {
	if m != nil {
		m.UnknownFrames.Inc()
	}
}

// UnknownCommand counts an ignored control command.
func (m *Metrics) UnknownCommand() {
	if m != nil {
		m.UnknownCommands.Inc()
	}
}

// ConnectAttempt counts one dial attempt by outcome.
func (m *Metrics) ConnectAttempt(ok bool) {
	if m == nil {
		return
	}
	result := "error"
	if ok {
		result = "ok"
	}
	m.ConnectAttempts.WithLabelValues(result).Inc()
}

// SetAlive records whether the session is up.
func (m *Metrics) SetAlive(alive bool) {
	if m == nil {
		return
	}
	if alive {
		m.ConnectionAlive.Set(1)
	} else {
		m.ConnectionAlive.Set(0)
	}
}
