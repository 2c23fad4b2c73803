package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveEndpoints = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bridge",
		Subsystem: "sink",
		Name:      "endpoints_active",
		Help:      "Number of sink endpoints currently open.",
	})

	RecordsDelivered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bridge",
		Subsystem: "sink",
		Name:      "records_delivered_total",
		Help:      "Records converted and sent as AMQP transfers, by topic.",
	}, []string{"topic"})

	OffsetsCommitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bridge",
		Subsystem: "sink",
		Name:      "offsets_committed_total",
		Help:      "Kafka offset commits issued by consumer workers, by topic.",
	}, []string{"topic"})

	DeferredQueueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "bridge",
		Subsystem: "sink",
		Name:      "deferred_queue_depth",
		Help:      "Delivery tokens waiting for AMQP credit, per endpoint.",
	}, []string{"endpoint"})

	DispositionLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bridge",
		Subsystem: "sink",
		Name:      "disposition_latency_seconds",
		Help:      "Time between an unsettled transfer being sent and its disposition arriving.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"topic"})
)

func init() {
	prometheus.MustRegister(ActiveEndpoints, RecordsDelivered, OffsetsCommitted, DeferredQueueDepth, DispositionLatency)
}

// Expose starts the Prometheus scrape endpoint on the given port in a
// background goroutine and returns immediately; a bind failure is fatal
// only in the sense that scraping silently never works, since the process
// itself has nothing useful to do with a listen error here.
func Expose(port int) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
	}()
}
