package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is the process-wide prometheus registry surface for the
// membership backend.
type Metrics struct {
	RegistrationsTotal  prometheus.Counter
	DuplicateRejections prometheus.Counter
	CardsRendered       prometheus.Counter
	Verifications       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		RegistrationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pbm_registrations_total",
			Help: "Successful member registrations",
		}),
		DuplicateRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pbm_registrations_duplicate_total",
			Help: "Registrations rejected for an already-registered mobile",
		}),
		CardsRendered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pbm_idcards_rendered_total",
			Help: "ID card PDFs rendered",
		}),
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pbm_verifications_total",
			Help: "Verification lookups by outcome",
		}, []string{"outcome"}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pbm_http_request_duration_seconds",
			Help:    "API request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

// ObserveRequest records one API request in the latency histogram.
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}
