// Package metrics provides Prometheus metrics for the auto trader
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Set 单个品种的指标集合。
type Set struct {
	EventsTotal     *prometheus.CounterVec
	OrdersInserted  prometheus.Counter
	OrdersCancelled prometheus.Counter
	Fills           prometheus.Counter
	Hedges          prometheus.Counter
	UnknownOrders   prometheus.Counter
	LimitBreaches   prometheus.Counter
	Position        prometheus.Gauge
	BidPrice        prometheus.Gauge
	AskPrice        prometheus.Gauge
}

// New 注册并返回带品种标签的指标集合。
func New(symbol string) *Set {
	labels := prometheus.Labels{"symbol": symbol}
	return &Set{
		EventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "autotrader_events_total",
			Help:        "Inbound events processed, by kind",
			ConstLabels: labels,
		}, []string{"kind"}),
		OrdersInserted: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "autotrader_orders_inserted_total",
			Help:        "Insert commands sent",
			ConstLabels: labels,
		}),
		OrdersCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "autotrader_orders_cancelled_total",
			Help:        "Cancel commands sent",
			ConstLabels: labels,
		}),
		Fills: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "autotrader_fills_total",
			Help:        "Fill events applied to the ledger",
			ConstLabels: labels,
		}),
		Hedges: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "autotrader_hedges_total",
			Help:        "Hedge commands sent",
			ConstLabels: labels,
		}),
		UnknownOrders: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "autotrader_unknown_order_events_total",
			Help:        "Events referencing an untracked order id",
			ConstLabels: labels,
		}),
		LimitBreaches: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "autotrader_limit_breaches_total",
			Help:        "Fills that would have pushed position past the limit",
			ConstLabels: labels,
		}),
		Position: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "autotrader_position",
			Help:        "Net position in units",
			ConstLabels: labels,
		}),
		BidPrice: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "autotrader_bid_price_cents",
			Help:        "Active bid quote price",
			ConstLabels: labels,
		}),
		AskPrice: promauto.NewGauge(prometheus.GaugeOpts{
			Name:        "autotrader_ask_price_cents",
			Help:        "Active ask quote price",
			ConstLabels: labels,
		}),
	}
}

// Serve 启动Prometheus指标服务器
func Serve(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, nil)
	}()
}
