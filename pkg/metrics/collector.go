package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/huynhanx03/go-fifo/pkg/datastructs/queue"
)

const namespace = "fifo"

// StatsSource is anything that can report queue statistics, e.g. *queue.FIFO.
type StatsSource interface {
	Stats() queue.Stats
}

var _ prometheus.Collector = (*Collector)(nil)

// Collector exports Stats snapshots of one or more queues on every scrape.
// Values are read at collect time, nothing is added to the push/pull path.
type Collector struct {
	sources []StatsSource

	depth           *prometheus.Desc
	weightedSize    *prometheus.Desc
	capacity        *prometheus.Desc
	full            *prometheus.Desc
	waiters         *prometheus.Desc
	pushed          *prometheus.Desc
	pulled          *prometheus.Desc
	rejected        *prometheus.Desc
	evicted         *prometheus.Desc
	timeouts        *prometheus.Desc
	cleared         *prometheus.Desc
	releaseFailures *prometheus.Desc
}

// NewCollector creates a collector for the given queues.
func NewCollector(sources ...StatsSource) *Collector {
	labels := []string{"queue"}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, nil)
	}

	return &Collector{
		sources:         sources,
		depth:           desc("queue_depth", "Items stored in the queue"),
		weightedSize:    desc("queue_weighted_size", "Accumulated item measure: items for count queues, nanoseconds for duration weights"),
		capacity:        desc("queue_capacity", "Configured bound: items for count queues, nanoseconds for duration weights"),
		full:            desc("queue_full", "1 if the queue is full"),
		waiters:         desc("queue_waiters", "Consumers parked in a pull"),
		pushed:          desc("items_pushed_total", "Items accepted by Push"),
		pulled:          desc("items_pulled_total", "Items handed to consumers"),
		rejected:        desc("items_rejected_total", "Pushes rejected because the queue was full"),
		evicted:         desc("items_evicted_total", "Items dropped to make room for newer ones"),
		timeouts:        desc("pull_timeouts_total", "Pulls that ended without an item"),
		cleared:         desc("items_cleared_total", "Items removed by Clear"),
		releaseFailures: desc("release_failures_total", "Failed releases of evicted or cleared items"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.depth
	ch <- c.weightedSize
	ch <- c.capacity
	ch <- c.full
	ch <- c.waiters
	ch <- c.pushed
	ch <- c.pulled
	ch <- c.rejected
	ch <- c.evicted
	ch <- c.timeouts
	ch <- c.cleared
	ch <- c.releaseFailures
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, src := range c.sources {
		st := src.Stats()
		gauge := func(d *prometheus.Desc, v float64) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, st.Name)
		}
		counter := func(d *prometheus.Desc, v uint64) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), st.Name)
		}

		gauge(c.depth, float64(st.Len))
		gauge(c.weightedSize, st.WeightedSize)
		gauge(c.capacity, st.Capacity)
		gauge(c.full, boolToFloat(st.Full))
		gauge(c.waiters, float64(st.Waiters))
		counter(c.pushed, st.Pushed)
		counter(c.pulled, st.Pulled)
		counter(c.rejected, st.Rejected)
		counter(c.evicted, st.Evicted)
		counter(c.timeouts, st.Timeouts)
		counter(c.cleared, st.Cleared)
		counter(c.releaseFailures, st.ReleaseFailures)
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
