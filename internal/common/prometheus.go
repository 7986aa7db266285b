package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	TicketsDrawnTotal          = "tickets_drawn_total"
	PrizesClaimedTotal         = "prizes_claimed_total"
	TransferFailureTotal       = "transfer_failure_total"
	EventsConsumedTotal        = "events_consumed_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "status_code"}),
		TicketsDrawnTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: TicketsDrawnTotal,
			Help: "Count of all drawn tickets",
		}, []string{"tier"}),
		PrizesClaimedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: PrizesClaimedTotal,
			Help: "Count of all claimed prizes",
		}, []string{"tier"}),
		TransferFailureTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: TransferFailureTotal,
			Help: "Count of all failed outbound transfers",
		}, []string{"reason"}),
		EventsConsumedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: EventsConsumedTotal,
			Help: "Count of all consumed events",
		}, []string{"type"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "status_code"}),
	}
)

func RegisterPrometheus() {
	for _, counter := range PromCounters {
		prometheus.MustRegister(counter)
	}

	for _, histogram := range PromHistograms {
		prometheus.MustRegister(histogram)
	}
}
