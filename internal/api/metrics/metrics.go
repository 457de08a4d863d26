// Package metrics defines and registers all custom Prometheus metrics for the
// e-voting API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation; the /metrics route gathers from it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "evoting"

// ── Vote metrics ──────────────────────────────────────────────────────────────

// VotesCastTotal counts ballots that were persisted.
// Label:
//   - position: "MLA" or "MP"
var VotesCastTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_cast_total",
		Help:      "Total number of ballots successfully recorded.",
	},
	[]string{"position"},
)

// VotesRejectedTotal counts castVote calls that did not produce a ballot.
// Label:
//   - reason: "invalid_input", "duplicate_marker", "duplicate_lookup",
//     "duplicate_constraint" or "storage"
var VotesRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_rejected_total",
		Help:      "Total number of rejected vote submissions, by reason.",
	},
	[]string{"reason"},
)

// BallotMarkerTotal counts fast-path marker lookups.
// Label:
//   - result: "hit", "miss" or "error"
var BallotMarkerTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ballot_marker_total",
		Help:      "Total number of ballot marker lookups, labelled by result.",
	},
	[]string{"result"},
)

// BallotsClearedTotal counts ballots removed by the administrative reset.
var BallotsClearedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ballots_cleared_total",
		Help:      "Total number of ballots deleted by administrative resets.",
	},
)

// TallyDuration measures how long computing the results takes.
var TallyDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tally_duration_seconds",
		Help:      "Duration of results aggregation, store round trip included.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "invalid_input", "duplicate_voter", "duplicate_username" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "invalid_input", "not_found", "bad_credential" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
