package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics 定义业务监控指标
type BusinessMetrics struct {
	WalletsGeneratedTotal   prometheus.Counter
	TransfersBroadcastTotal *prometheus.CounterVec
	TransferAmountSunTotal  prometheus.Counter
	MessageOverridesTotal   prometheus.Counter
	NodeRequestDuration     *prometheus.HistogramVec
}

// Global Metrics Instance
var Business *BusinessMetrics

// InitBusinessMetrics 初始化业务指标
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		WalletsGeneratedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_mnemonics_generated_total",
			Help: "The total number of mnemonics generated",
		}),
		TransfersBroadcastTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wallet_transfers_broadcast_total",
			Help: "The total number of broadcast transfer transactions",
		}, []string{"result"}), // accepted / rejected
		TransferAmountSunTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_transfer_amount_sun_total",
			Help: "The total transferred amount in SUN",
		}),
		MessageOverridesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_message_overrides_total",
			Help: "The number of transactions whose raw data message was overridden after signing",
		}),
		NodeRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wallet_node_request_duration_seconds",
			Help:    "TRON node API latency distributions",
			Buckets: []float64{0.1, 0.3, 0.5, 1.0, 2.0, 5.0},
		}, []string{"endpoint"}),
	}
}
