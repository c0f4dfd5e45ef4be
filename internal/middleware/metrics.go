package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gymvy_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// PushDeliveries counts per-token push outcomes.
	PushDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gymvy_push_deliveries_total",
		Help: "Push delivery outcomes by notification type and result",
	}, []string{"type", "result"})

	// WebhookEvents counts notification webhook events by final state.
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gymvy_webhook_events_total",
		Help: "Notification webhook events by terminal state",
	}, []string{"state"})

	// ToggleEvents counts like toggles by target kind and resulting state.
	ToggleEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gymvy_toggle_events_total",
		Help: "Like toggles by target and resulting state",
	}, []string{"target", "result"})

	// StreamDrops counts in-app stream messages dropped before reaching a socket.
	StreamDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gymvy_stream_drops_total",
		Help: "In-app notification messages dropped by reason",
	}, []string{"reason"})

	// ActiveStreams tracks open notification websocket connections.
	ActiveStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gymvy_active_streams",
		Help: "Open in-app notification streams",
	})
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide HTTP metrics middleware. The underlying
// collectors register once regardless of how many servers are built.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware records request counts and latencies.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
