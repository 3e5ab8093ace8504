package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers the election workflow: lifecycle, the voting protocol and tabulation.
type Metrics struct {
	Transitions      *prometheus.CounterVec
	OTPRequests      *prometheus.CounterVec
	OTPVerifications *prometheus.CounterVec
	VotesCast        prometheus.Counter
	VoteReviews      *prometheus.CounterVec
	RosterAdded      prometheus.Counter
	TabulateLatency  prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "unionhub_election_transitions_total",
			Help: "Election status transitions by target status and trigger",
		}, []string{"to", "trigger"}), // trigger: "action", "tick"

		OTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "unionhub_election_otp_requests_total",
			Help: "OTP requests by outcome",
		}, []string{"outcome"}),

		OTPVerifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "unionhub_election_otp_verifications_total",
			Help: "OTP verification attempts by outcome",
		}, []string{"outcome"}),

		VotesCast: promauto.NewCounter(prometheus.CounterOpts{
			Name: "unionhub_election_votes_cast_total",
			Help: "Ballots accepted into the verification queue",
		}),

		VoteReviews: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "unionhub_election_vote_reviews_total",
			Help: "Vote verification decisions",
		}, []string{"decision"}),

		RosterAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "unionhub_election_roster_delegates_added_total",
			Help: "Delegates added by roster builds",
		}),

		TabulateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "unionhub_election_tabulate_duration_seconds",
			Help:    "Duration of result tabulation",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

func (m *Metrics) IncTransition(to, trigger string) {
	if m != nil {
		m.Transitions.WithLabelValues(to, trigger).Inc()
	}
}

func (m *Metrics) IncOTPRequest(outcome string) {
	if m != nil {
		m.OTPRequests.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncOTPVerification(outcome string) {
	if m != nil {
		m.OTPVerifications.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncVoteCast() {
	if m != nil {
		m.VotesCast.Inc()
	}
}

func (m *Metrics) IncVoteReview(decision string) {
	if m != nil {
		m.VoteReviews.WithLabelValues(decision).Inc()
	}
}

func (m *Metrics) AddRoster(n int) {
	if m != nil {
		m.RosterAdded.Add(float64(n))
	}
}

func (m *Metrics) ObserveTabulate(d time.Duration) {
	if m != nil {
		m.TabulateLatency.Observe(d.Seconds())
	}
}
