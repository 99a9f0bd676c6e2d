// Package metrics exposes the Prometheus counters of wakegate.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Wake request outcomes.
const (
	OutcomeSuccess       = "success"
	OutcomeMissingFields = "missing_fields"
	OutcomeUnauthorized  = "unauthorized"
	OutcomeInvalidMAC    = "invalid_mac"
	OutcomeSendFailed    = "send_failed"
)

var (
	// Registry holds every wakegate collector plus the Go and process collectors.
	Registry = prometheus.NewRegistry()

	// WakeRequestsTotal counts wake requests by outcome.
	WakeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wakegate_wake_requests_total",
			Help: "Number of wake requests handled, by outcome",
		},
		[]string{"outcome"},
	)

	// MagicPacketsSentTotal counts magic packets that left the host.
	MagicPacketsSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wakegate_magic_packets_sent_total",
			Help: "Number of Wake-on-LAN magic packets broadcast",
		},
	)

	// TransmissionErrorsTotal counts failed broadcasts.
	TransmissionErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wakegate_transmission_errors_total",
			Help: "Number of magic packet broadcasts that failed",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		WakeRequestsTotal,
		MagicPacketsSentTotal,
		TransmissionErrorsTotal,
	)
}

// Handler serves the contents of Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
