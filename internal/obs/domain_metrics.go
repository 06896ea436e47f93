package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CalculationsTotal counts calculator runs by calculator and resulting profit band.
	CalculationsTotal *prometheus.CounterVec
	// ActiveSessions tracks calculator sessions currently holding history.
	ActiveSessions prometheus.Gauge
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CalculationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Count of calculator runs by calculator and profit band.",
		}, []string{"calculator", "band"})
		ActiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "calculator_active_sessions",
			Help:      "Number of calculator sessions holding history.",
		})

		registerOrReuse(reg, CalculationsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CalculationsTotal = v
			}
		})
		registerOrReuse(reg, ActiveSessions, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Gauge); ok {
				ActiveSessions = v
			}
		})
	})
}

// ObserveCalculation increments CalculationsTotal. It is a no-op until the domain
// metrics are registered.
func ObserveCalculation(calculator, band string) {
	if CalculationsTotal == nil {
		return
	}
	if band == "" {
		band = "none"
	}
	CalculationsTotal.WithLabelValues(calculator, band).Inc()
}
