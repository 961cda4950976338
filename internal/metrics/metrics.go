package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

var (
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campuslink_messages_sent_total",
		Help: "Messages accepted by the message store.",
	})
	ModerationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campuslink_moderation_decisions_total",
		Help: "Verification and report review decisions.",
	}, []string{"kind", "decision"})
	OutboxRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campuslink_outbox_retries_total",
		Help: "Outbox side-effect attempts that failed and were requeued.",
	})
	OutboxParked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campuslink_outbox_parked_total",
		Help: "Outbox entries abandoned after exhausting attempts.",
	})
	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "campuslink_ws_connections",
		Help: "Live websocket connections.",
	})
)

// Handler exposes the Prometheus registry on a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
