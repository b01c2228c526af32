package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/danmuck/gcproto/internal/protocol"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

var (
	registerOnce sync.Once

	packetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gcproto",
			Name:      "packets_total",
			Help:      "Packets successfully decoded or sent.",
		},
		[]string{"kind", "direction"},
	)
	decodeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gcproto",
			Name:      "decode_errors_total",
			Help:      "Datagrams rejected by the codec.",
		},
		[]string{"kind", "reason"},
	)
	packetGaps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gcproto",
			Name:      "packet_gaps_total",
			Help:      "Broadcast packets missed according to packet number.",
		},
	)
	robotsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "gcproto",
			Name:      "robots",
			Help:      "Robots seen on the return port by connection status.",
		},
		[]string{"status"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gcproto",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"service", "method", "route", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gcproto",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "route", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(packetsTotal, decodeErrors, packetGaps, robotsByStatus, httpRequests, httpDuration)
	})
}

func RecordPacket(kind protocol.PacketKind, direction string) {
	RegisterMetrics()
	packetsTotal.WithLabelValues(kind.String(), direction).Inc()
}

func RecordDecodeError(kind protocol.PacketKind, err error) {
	RegisterMetrics()
	decodeErrors.WithLabelValues(kind.String(), protocol.ErrorReason(err)).Inc()
}

func RecordPacketGap(missed int) {
	RegisterMetrics()
	if missed > 0 {
		packetGaps.Add(float64(missed))
	}
}

// SetRobotCounts replaces the robot gauge with counts keyed by status name.
func SetRobotCounts(counts map[string]int) {
	RegisterMetrics()
	robotsByStatus.Reset()
	for status, n := range counts {
		robotsByStatus.WithLabelValues(status).Set(float64(n))
	}
}

// RecordHTTPRequest counts one status request. route is the registered
// pattern, not the raw path, to keep label cardinality bounded.
func RecordHTTPRequest(service, method, route string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(service, method, route, statusLabel).Inc()
	httpDuration.WithLabelValues(service, method, route, statusLabel).Observe(duration.Seconds())
}
