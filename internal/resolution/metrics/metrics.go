package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers committee decisions.
type Metrics struct {
	VotesCast  *prometheus.CounterVec
	Closures   *prometheus.CounterVec
	Executions *prometheus.CounterVec
	Seats      *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		VotesCast: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "unionhub_resolution_votes_cast_total",
			Help: "Resolution ballots by choice",
		}, []string{"choice"}),

		Closures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "unionhub_resolution_closures_total",
			Help: "Attempts to close resolution voting by outcome",
		}, []string{"outcome"}), // outcome: "passed", "rejected", "quorum_not_met"

		Executions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "unionhub_resolution_executions_total",
			Help: "Executed resolutions by type and category",
		}, []string{"type", "category"}),

		Seats: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "unionhub_committee_seat_changes_total",
			Help: "Committee seat changes",
		}, []string{"change"}),
	}
}

func (m *Metrics) IncVoteCast(choice string) {
	if m != nil {
		m.VotesCast.WithLabelValues(choice).Inc()
	}
}

func (m *Metrics) IncClosure(outcome string) {
	if m != nil {
		m.Closures.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncExecution(kind, category string) {
	if m != nil {
		m.Executions.WithLabelValues(kind, category).Inc()
	}
}

func (m *Metrics) IncSeatChange(change string) {
	if m != nil {
		m.Seats.WithLabelValues(change).Inc()
	}
}
