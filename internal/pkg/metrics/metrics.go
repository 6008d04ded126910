package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Logins counts login attempts by role and result (success, invalid, error)
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qraksha_logins_total",
		Help: "Login attempts by principal role and result.",
	}, []string{"role", "result"})

	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qraksha_registrations_total",
		Help: "Employees registered.",
	})

	// SOSAlerts counts alert lifecycle events (triggered, resolved)
	SOSAlerts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qraksha_sos_alerts_total",
		Help: "SOS alert lifecycle events.",
	}, []string{"event"})

	ActiveAlerts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "qraksha_active_alerts",
		Help: "Active SOS alerts seen by the last monitor sweep.",
	})
)
