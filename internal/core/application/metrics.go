package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSettled        = "settled"
	outcomeFeeRejected    = "fee_rejected"
	outcomePartialFailure = "partial_failure"
	outcomeUnknown        = "unknown"
	outcomeUnderfunded    = "sponsor_underfunded"
	outcomeRejectedInput  = "rejected_input"
)

// relayOutcome maps a Submit error to its outcome label. Anything that is
// not a typed network or sponsor error was refused before touching the
// network.
func relayOutcome(err error) string {
	switch err.(type) {
	case nil:
		return outcomeSettled
	case *SponsorUnderfundedError:
		return outcomeUnderfunded
	case *PartialFailureError:
		return outcomePartialFailure
	case *UnknownOutcomeError:
		return outcomeUnknown
	case *BroadcastError:
		return outcomeFeeRejected
	default:
		return outcomeRejectedInput
	}
}

var (
	relayOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "claudewallet",
		Subsystem: "relay",
		Name:      "outcomes_total",
		Help:      "Number of relayed transfers by final outcome.",
	}, []string{"outcome"})

	relayDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "claudewallet",
		Subsystem: "relay",
		Name:      "duration_seconds",
		Help:      "Time spent relaying a transfer end to end.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})
)
