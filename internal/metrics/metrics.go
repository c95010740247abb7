// Package metrics exposes Prometheus counters for the content stores.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	storeOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vkseva",
		Name:      "store_operations_total",
		Help:      "Content store operations by store, operation and result.",
	}, []string{"store", "op", "result"})

	ordersHealed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vkseva",
		Name:      "card_orders_healed_total",
		Help:      "Card order values rewritten by fetch self-heal.",
	})

	uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vkseva",
		Name:      "uploads_total",
		Help:      "Image uploads by result.",
	}, []string{"result"})
)

// ObserveStore records one store operation. A nil err counts as "ok".
func ObserveStore(store, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeOps.WithLabelValues(store, op, result).Inc()
}

func OrdersHealed(n int) {
	if n > 0 {
		ordersHealed.Add(float64(n))
	}
}

func ObserveUpload(result string) {
	uploads.WithLabelValues(result).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
