package metrics

import (
	"net/http"
	"stockroom"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector mirrors stockroom state into Prometheus metrics. Gauges are refreshed
// from the snapshot passed to every hook call.
type Collector struct {
	registry *prometheus.Registry

	mutations     *prometheus.CounterVec
	deducted      *prometheus.CounterVec
	stock         *prometheus.GaugeVec
	lowStock      prometheus.Gauge
	orders        *prometheus.GaugeVec
	revenue       prometheus.Gauge
	loss          prometheus.Gauge
	effectiveness prometheus.Gauge
}

func NewCollector(prefix string) *Collector {
	if prefix == "" {
		prefix = "stockroom"
	}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_mutations_total",
				Help: "Applied mutations by operation",
			},
			[]string{"op"},
		),
		deducted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_ingredient_deducted_base_total",
				Help: "Base units taken from stock by completed orders",
			},
			[]string{"ingredient"},
		),
		stock: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_ingredient_stock",
				Help: "Current stock in the ingredient's display unit",
			},
			[]string{"ingredient", "unit"},
		),
		lowStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_low_stock_ingredients",
			Help: "Ingredients at or below their minimum stock",
		}),
		orders: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_orders",
				Help: "Orders by status",
			},
			[]string{"status"},
		),
		revenue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_revenue",
			Help: "Total price of delivered orders",
		}),
		loss: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_loss",
			Help: "Total price of cancelled orders",
		}),
		effectiveness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "_effectiveness_rate_percent",
			Help: "Revenue over revenue plus loss",
		}),
	}
	c.registry.MustRegister(
		c.mutations, c.deducted, c.stock, c.lowStock,
		c.orders, c.revenue, c.loss, c.effectiveness,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Hook returns the stockroom hook feeding this collector.
func (c *Collector) Hook() stockroom.HookFunc {
	return func(ev stockroom.Event, snap stockroom.Snapshot) error {
		c.mutations.WithLabelValues(ev.Op).Inc()
		for id, amount := range ev.Deducted {
			c.deducted.WithLabelValues(id).Add(amount.Decimal().InexactFloat64())
		}
		c.Observe(snap)
		return nil
	}
}

// Observe refreshes every gauge from snap.
func (c *Collector) Observe(snap stockroom.Snapshot) {
	c.stock.Reset()
	for _, ing := range snap.Ingredients {
		c.stock.WithLabelValues(ing.ID, string(ing.Unit)).Set(ing.StockDisplay().Amount.InexactFloat64())
	}
	c.lowStock.Set(float64(len(snap.LowStock())))

	counts := make(map[stockroom.OrderStatus]int, len(stockroom.OrderStatuses))
	for _, o := range snap.Orders {
		counts[o.Status]++
	}
	for _, status := range stockroom.OrderStatuses {
		c.orders.WithLabelValues(string(status)).Set(float64(counts[status]))
	}

	fin := snap.Financials()
	c.revenue.Set(fin.Revenue.InexactFloat64())
	c.loss.Set(fin.Loss.InexactFloat64())
	c.effectiveness.Set(fin.EffectivenessRate.InexactFloat64())
}
