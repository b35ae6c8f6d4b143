package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveWebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "videocall_relay_active_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	WebSocketConnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videocall_relay_websocket_connections_total",
		Help: "Total number of WebSocket connections",
	})

	WebSocketDisconnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videocall_relay_websocket_disconnections_total",
		Help: "Total number of WebSocket disconnections",
	})

	StoredConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "videocall_relay_stored_connections",
		Help: "Number of connections in the registry",
	})

	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "videocall_relay_active_rooms",
		Help: "Number of rooms with at least one member",
	})

	RoomMembers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "videocall_relay_room_members",
		Help: "Total room memberships across all rooms",
	})

	RoomJoinsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videocall_relay_room_joins_total",
		Help: "Total number of room joins",
	})

	EnvelopesRelayedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videocall_relay_envelopes_relayed_total",
		Help: "Total signaling envelopes delivered to recipients",
	})

	EnvelopesDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videocall_relay_envelopes_dropped_total",
		Help: "Total signaling envelopes dropped",
	}, []string{"reason"}) // "buffer_full" | "no_connection"

	MalformedMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videocall_relay_malformed_messages_total",
		Help: "Total messages rejected as malformed",
	})

	SignallingMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videocall_relay_signalling_messages_total",
		Help: "Total signalling messages",
	}, []string{"type", "direction"}) // direction: "in" | "out"

	ConfigReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videocall_relay_config_reloads_total",
		Help: "Number of configuration reloads",
	})

	StartTime = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "videocall_relay_start_time_seconds",
		Help: "Server start time in Unix seconds",
	})
)
