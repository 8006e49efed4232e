package matching

import "github.com/prometheus/client_golang/prometheus"

// metrics holds the engine's counters, registered against a private
// registry owned by the Engine. There is no /metrics HTTP handler here
// — callers that own a transport layer can scrape Engine.Registry()
// themselves.
type metrics struct {
	ordersProcessed prometheus.Counter
	fills           prometheus.Counter
	cancels         prometheus.Counter
	rejects         *prometheus.CounterVec
}

func newMetrics(reg *prometheus.Registry) *metrics {
	m := &metrics{
		ordersProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchcore_orders_processed_total",
			Help: "New-order requests accepted by the engine.",
		}),
		fills: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchcore_fills_total",
			Help: "Individual fills produced while matching.",
		}),
		cancels: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchcore_cancels_total",
			Help: "Cancel requests successfully applied.",
		}),
		rejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matchcore_rejects_total",
			Help: "Requests rejected, labelled by the error taxonomy kind.",
		}, []string{"reason"}),
	}

	reg.MustRegister(m.ordersProcessed, m.fills, m.cancels, m.rejects)
	return m
}
