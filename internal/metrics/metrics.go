// Package metrics holds the Prometheus collectors for the HTTP surface, the
// record cache and the track and zone processing. All methods are safe on a
// nil *Collector.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the service metrics
type Collector struct {
	gatherer prometheus.Gatherer

	HTTPRequests      *prometheus.CounterVec
	HTTPDurations     *prometheus.HistogramVec
	CacheLookups      *prometheus.CounterVec
	SamplesDiscarded  *prometheus.CounterVec
	SegmentsBuilt     prometheus.Counter
	ZoneRejections    *prometheus.CounterVec
	StreamSubscribers prometheus.Gauge
}

// New registers the collectors against reg, or the default registry when
// reg is nil. Registering twice on the same registry reuses the existing
// collectors.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	if c.HTTPRequests, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rescue_http_requests_total",
		Help: "Handled HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})); err != nil {
		return nil, err
	}
	if c.HTTPDurations, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rescue_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"method", "route"})); err != nil {
		return nil, err
	}
	if c.CacheLookups, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rescue_cache_lookups_total",
		Help: "Record cache lookups by result.",
	}, []string{"result"})); err != nil {
		return nil, err
	}
	if c.SamplesDiscarded, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rescue_track_samples_discarded_total",
		Help: "GPS samples dropped before segmentation by reason.",
	}, []string{"reason"})); err != nil {
		return nil, err
	}
	if c.SegmentsBuilt, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rescue_track_segments_total",
		Help: "Track segments produced by the segmenter.",
	})); err != nil {
		return nil, err
	}
	if c.ZoneRejections, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rescue_zone_rejections_total",
		Help: "Probability zone sets rejected by kind.",
	}, []string{"kind"})); err != nil {
		return nil, err
	}
	if c.StreamSubscribers, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rescue_stream_subscribers",
		Help: "Open change stream connections.",
	})); err != nil {
		return nil, err
	}

	return c, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveRequest records one handled request
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDurations.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// CacheHit implements cache.Observer
func (c *Collector) CacheHit(string) {
	if c == nil {
		return
	}
	c.CacheLookups.WithLabelValues("hit").Inc()
}

// CacheMiss implements cache.Observer
func (c *Collector) CacheMiss(string) {
	if c == nil {
		return
	}
	c.CacheLookups.WithLabelValues("miss").Inc()
}

// ObserveSegmentation records one segmenter run
func (c *Collector) ObserveSegmentation(discarded map[string]int, segments int) {
	if c == nil {
		return
	}
	for reason, n := range discarded {
		c.SamplesDiscarded.WithLabelValues(reason).Add(float64(n))
	}
	c.SegmentsBuilt.Add(float64(segments))
}

// ZoneRejected counts a rejected zone set
func (c *Collector) ZoneRejected(kind string) {
	if c == nil {
		return
	}
	c.ZoneRejections.WithLabelValues(kind).Inc()
}

// StreamOpened and StreamClosed track live SSE connections
func (c *Collector) StreamOpened() {
	if c == nil {
		return
	}
	c.StreamSubscribers.Inc()
}

func (c *Collector) StreamClosed() {
	if c == nil {
		return
	}
	c.StreamSubscribers.Dec()
}

// Handler exposes the /metrics endpoint
func (c *Collector) Handler() http.Handler {
	if c == nil || c.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
