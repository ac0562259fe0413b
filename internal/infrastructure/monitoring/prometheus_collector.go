package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector bundles the metrics shared by the coordinator and the
// persistence worker. Each process registers the full set on its own
// registry; unused series simply stay at zero.
type Collector struct {
	ConnectedClients prometheus.Gauge
	ActiveRooms      prometheus.Gauge
	ConnectionsTotal prometheus.Counter
	AuthFailures     prometheus.Counter

	MessagesRelayed  *prometheus.CounterVec
	BroadcastDropped prometheus.Counter

	LogsQueued        prometheus.Counter
	LogsQueueFailed   prometheus.Counter
	LogsPersisted     prometheus.Counter
	LogsPersistFailed prometheus.Counter
}

// NewCollector registers the metric set on reg. Pass
// prometheus.DefaultRegisterer in main; tests use a private registry so
// collectors do not collide.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		ConnectedClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "proctorlink_connected_clients",
			Help: "Number of live authenticated WebSocket connections",
		}),
		ActiveRooms: factory.NewGauge(prometheus.GaugeOpts{
			Name: "proctorlink_active_rooms",
			Help: "Number of rooms with at least one admitted member",
		}),
		ConnectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "proctorlink_connections_total",
			Help: "Total accepted WebSocket connections",
		}),
		AuthFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "proctorlink_auth_failures_total",
			Help: "Connections refused for missing or invalid credentials",
		}),
		MessagesRelayed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "proctorlink_messages_relayed_total",
			Help: "Signaling messages fanned out to room members, by outbound type",
		}, []string{"type"}),
		BroadcastDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "proctorlink_broadcast_dropped_total",
			Help: "Per-member deliveries skipped because the transport was not writable",
		}),
		LogsQueued: factory.NewCounter(prometheus.CounterOpts{
			Name: "proctorlink_logs_queued_total",
			Help: "Log records pushed to the durable queue",
		}),
		LogsQueueFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "proctorlink_logs_queue_failed_total",
			Help: "Log records lost because the queue push failed",
		}),
		LogsPersisted: factory.NewCounter(prometheus.CounterOpts{
			Name: "proctorlink_logs_persisted_total",
			Help: "Log records written through to the persistence API",
		}),
		LogsPersistFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "proctorlink_logs_persist_failed_total",
			Help: "Log records dropped after a failed persistence call",
		}),
	}
}
