/*package metrics exports time-of-flight transfer counters to Prometheus.
*/
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/phil-mansfield/toftable/lib/tof"
)

// Collector counts transfers into tables. It implements tof.Observer and is
// safe for concurrent use.
type Collector struct {
	transfers       prometheus.Counter
	binned, skipped prometheus.Counter
	failures        prometheus.Counter
	runDuration     prometheus.Histogram
	runs            *prometheus.CounterVec
}

var _ tof.Observer = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
// Registering two Collectors with the same registry panics.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		transfers: f.NewCounter(prometheus.CounterOpts{
			Name: "toftable_transfers_total",
			Help: "Number of particles transferred into a table",
		}),
		binned: f.NewCounter(prometheus.CounterOpts{
			Name: "toftable_samples_binned_total",
			Help: "Number of recorder samples that landed in a time bin",
		}),
		skipped: f.NewCounter(prometheus.CounterOpts{
			Name: "toftable_samples_skipped_total",
			Help: "Number of recorder samples outside the table's time range",
		}),
		failures: f.NewCounter(prometheus.CounterOpts{
			Name: "toftable_transfer_failures_total",
			Help: "Number of transfers that returned an error",
		}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "toftable_run_duration_seconds",
			Help:    "Wall-clock duration of a simulation run",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "toftable_runs_total",
			Help: "Number of simulation runs by outcome",
		}, []string{"outcome"}),
	}
}

func (c *Collector) Transferred(binned, skipped int) {
	c.transfers.Inc()
	c.binned.Add(float64(binned))
	c.skipped.Add(float64(skipped))
}

func (c *Collector) TransferFailed(err error) {
	c.failures.Inc()
}

// ObserveRun records a finished run. err is the error the run returned.
func (c *Collector) ObserveRun(d time.Duration, err error) {
	c.runDuration.Observe(d.Seconds())
	if err != nil {
		c.runs.WithLabelValues("error").Inc()
	} else {
		c.runs.WithLabelValues("ok").Inc()
	}
}
