package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultHit  = "hit"
	resultMiss = "miss"
)

// Metrics holds all Prometheus metrics for the decode service. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Decode metrics
	decodesTotal      *prometheus.CounterVec
	decodeCorrected   *prometheus.HistogramVec
	decodeRotations   *prometheus.CounterVec
	tableBuildSeconds *prometheus.HistogramVec
	tableSlots        *prometheus.GaugeVec
	tableEntries      *prometheus.GaugeVec
}

// NewMetrics creates all metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tagdecode_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tagdecode_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tagdecode_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		decodesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tagdecode_decodes_total",
				Help: "Total number of decoded codewords by result",
			},
			[]string{"family", "result"},
		),

		decodeCorrected: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tagdecode_decode_corrected_bits",
				Help:    "Bit errors corrected per successful decode",
				Buckets: []float64{0, 1, 2, 3},
			},
			[]string{"family"},
		),

		decodeRotations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tagdecode_decode_rotations_total",
				Help: "Successful decodes by matched rotation",
			},
			[]string{"family", "rotation"},
		),

		tableBuildSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tagdecode_table_build_seconds",
				Help:    "Time spent building decode tables",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"family"},
		),

		tableSlots: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tagdecode_table_slots",
				Help: "Number of slots in each decode table",
			},
			[]string{"family"},
		),

		tableEntries: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tagdecode_table_entries",
				Help: "Number of occupied slots in each decode table",
			},
			[]string{"family"},
		),
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDecode records the outcome of one decode
func (m *Metrics) RecordDecode(family string, found bool, hamming, rotation uint8) {
	if m == nil {
		return
	}
	if !found {
		m.decodesTotal.WithLabelValues(family, resultMiss).Inc()
		return
	}
	m.decodesTotal.WithLabelValues(family, resultHit).Inc()
	m.decodeCorrected.WithLabelValues(family).Observe(float64(hamming))
	m.decodeRotations.WithLabelValues(family, strconv.Itoa(int(rotation))).Inc()
}

// RecordTableBuild records how long a family's table took to build and its size
func (m *Metrics) RecordTableBuild(family string, duration time.Duration, slots, entries int) {
	if m == nil {
		return
	}
	m.tableBuildSeconds.WithLabelValues(family).Observe(duration.Seconds())
	m.tableSlots.WithLabelValues(family).Set(float64(slots))
	m.tableEntries.WithLabelValues(family).Set(float64(entries))
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	if m == nil {
		return handler
	}
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
