package pipeline

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the pipeline's observability surface, registered against a
// caller-supplied prometheus.Registerer the same way the teacher's
// StateDiffer wires its own metrics.
type Metrics struct {
	blocksProcessed  prometheus.Counter
	blocksDropped    prometheus.Counter
	logsDecoded      prometheus.Counter
	cyclesFound      prometheus.Counter
	arbitragesEmitted prometheus.Counter
	blockDuration    prometheus.Histogram
	budgetUsed       prometheus.Histogram
}

// NewMetrics constructs and registers the pipeline's metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		blocksProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triarb_blocks_processed_total",
			Help: "Blocks for which the pipeline completed the full process-block sequence.",
		}),
		blocksDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triarb_blocks_dropped_total",
			Help: "Blocks dropped because a block-wide RPC error occurred.",
		}),
		logsDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triarb_sync_logs_decoded_total",
			Help: "Sync(uint112,uint112) logs successfully decoded.",
		}),
		cyclesFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triarb_cycles_found_total",
			Help: "Feasible triangular cycles found by the enumerator.",
		}),
		arbitragesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "triarb_arbitrages_emitted_total",
			Help: "Arbitrage winners emitted onto the output queue.",
		}),
		blockDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "triarb_block_process_duration_seconds",
			Help:    "Wall-clock time to process one block.",
			Buckets: prometheus.DefBuckets,
		}),
		budgetUsed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "triarb_rpc_budget_used",
			Help:    "RPC budget charges consumed per block.",
			Buckets: prometheus.LinearBuckets(0, 10, 10),
		}),
	}

	reg.MustRegister(
		m.blocksProcessed,
		m.blocksDropped,
		m.logsDecoded,
		m.cyclesFound,
		m.arbitragesEmitted,
		m.blockDuration,
		m.budgetUsed,
	)
	return m
}
