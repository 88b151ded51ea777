package bench

import (
	"net"
	"net/http"
	"time"

	"github.com/pingcap/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"btree/btree"
)

// Metrics collects per-operation latency and the shape of the measured tree.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	opDuration *prometheus.HistogramVec
	treeHeight prometheus.Gauge
	treeKeys   prometheus.Gauge
}

// NewMetrics creates unregistered collectors; see Register.
func NewMetrics() *Metrics {
	return &Metrics{
		opDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "btree",
				Subsystem: "bench",
				Name:      "operation_duration_seconds",
				Help:      "Bucketed histogram of the time taken by a single tree operation.",
				Buckets:   prometheus.ExponentialBuckets(1e-8, 2, 20), // 10ns ~ 5ms
			}, []string{"structure", "op"}),
		treeHeight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "btree",
				Subsystem: "bench",
				Name:      "tree_height",
				Help:      "Height of the B-tree after the last finished phase.",
			}),
		treeKeys: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "btree",
				Subsystem: "bench",
				Name:      "tree_keys",
				Help:      "Number of keys in the B-tree after the last finished phase.",
			}),
	}
}

// Register adds all collectors to r.
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.opDuration, m.treeHeight, m.treeKeys} {
		if err := r.Register(c); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func (m *Metrics) observe(structure, op string, d time.Duration) {
	if m == nil {
		return
	}
	m.opDuration.WithLabelValues(structure, op).Observe(d.Seconds())
}

func (m *Metrics) setTreeShape(t *btree.Tree[int]) {
	if m == nil {
		return
	}
	m.treeHeight.Set(float64(t.Height()))
	m.treeKeys.Set(float64(t.Len()))
}

// ServeMetrics exposes g on /metrics at addr in the background. It returns the server,
// to be shut down by the caller, and the address actually listened on.
func ServeMetrics(addr string, g prometheus.Gatherer) (*http.Server, string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", errors.Annotatef(err, "listen on %s", addr)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		_ = srv.Serve(ln)
	}()
	return srv, ln.Addr().String(), nil
}
