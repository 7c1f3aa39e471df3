package metrics

import (
	"context"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// Distributions
var defaultMillisecondsDistribution = view.Distribution(
	0.01, 0.05, 0.1, 0.3, 0.6, 0.8, 1, 2, 3, 4, 5, 6, 8, // Very short intervals for fast operations
	10, 20, 30, 40, 50, 60, 70, 80, 90, 100, // 10 ms intervals up to 100 ms
	150, 200, 250, 300, 350, 400, 450, 500, // 50 ms intervals from 100 to 500 ms
	600, 700, 800, 900, 1000, // 100 ms intervals from 500 to 1000 ms
	2000, 3000, 4000, 5000, 8000, 10000, 20000, 30000, 60000,
)

// Tags
var (
	// common
	Version, _     = tag.NewKey("version")
	Commit, _      = tag.NewKey("commit")
	PeerID, _      = tag.NewKey("peer_id")
	FailureType, _ = tag.NewKey("failure_type")

	// api
	APIInterface, _ = tag.NewKey("api")

	// negotiation
	FlowKind, _ = tag.NewKey("flow_kind")
	Outcome, _  = tag.NewKey("outcome")
	Protocol, _ = tag.NewKey("protocol")
)

// Measures
var (
	// common
	FundportInfo = stats.Int64("info", "Arbitrary counter to tag fundport info to", stats.UnitDimensionless)

	// vault
	VaultRecords = stats.Int64("vault/records", "Counter for transactions recorded in the vault", stats.UnitDimensionless)

	// notary
	NotariseRequests  = stats.Int64("notary/requests", "Counter for notarisation requests", stats.UnitDimensionless)
	NotariseConflicts = stats.Int64("notary/conflicts", "Counter for notarisation requests rejected as double spends", stats.UnitDimensionless)
	NotariseDuration  = stats.Float64("notary/duration_ms", "Duration of notarisation requests", stats.UnitMilliseconds)

	// negotiation
	NegotiationStarted   = stats.Int64("negotiation/started", "Counter for negotiations started", stats.UnitDimensionless)
	NegotiationFinished  = stats.Int64("negotiation/finished", "Counter for negotiations reaching a terminal state", stats.UnitDimensionless)
	NegotiationRoundTrip = stats.Float64("negotiation/round_trip_ms", "Duration of a proposal round trip to the counterparty", stats.UnitMilliseconds)
	NegotiationDuration  = stats.Float64("negotiation/duration_ms", "Duration from proposal built to terminal state", stats.UnitMilliseconds)
	ProposalsReceived    = stats.Int64("negotiation/proposals_received", "Counter for proposals received from peers", stats.UnitDimensionless)
	ProposalsRejected    = stats.Int64("negotiation/proposals_rejected", "Counter for proposals rejected by the local acceptor", stats.UnitDimensionless)

	// network
	StreamOpenRetries = stats.Int64("net/stream_open_retries", "Counter for retried stream opens", stats.UnitDimensionless)
	FinalityDelivered = stats.Int64("net/finality_delivered", "Counter for finalized transactions delivered to participants", stats.UnitDimensionless)
)

var (
	InfoView = &view.View{
		Name:        "info",
		Description: "Fundport node information",
		Measure:     FundportInfo,
		Aggregation: view.LastValue(),
		TagKeys:     []tag.Key{Version, Commit},
	}
	VaultRecordsView = &view.View{
		Measure:     VaultRecords,
		Aggregation: view.Count(),
	}
	NotariseRequestsView = &view.View{
		Measure:     NotariseRequests,
		Aggregation: view.Count(),
	}
	NotariseConflictsView = &view.View{
		Measure:     NotariseConflicts,
		Aggregation: view.Count(),
	}
	NotariseDurationView = &view.View{
		Measure:     NotariseDuration,
		Aggregation: defaultMillisecondsDistribution,
	}
	NegotiationStartedView = &view.View{
		Measure:     NegotiationStarted,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{FlowKind},
	}
	NegotiationFinishedView = &view.View{
		Measure:     NegotiationFinished,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{FlowKind, Outcome},
	}
	NegotiationRoundTripView = &view.View{
		Measure:     NegotiationRoundTrip,
		Aggregation: defaultMillisecondsDistribution,
	}
	NegotiationDurationView = &view.View{
		Measure:     NegotiationDuration,
		Aggregation: defaultMillisecondsDistribution,
		TagKeys:     []tag.Key{FlowKind, Outcome},
	}
	ProposalsReceivedView = &view.View{
		Measure:     ProposalsReceived,
		Aggregation: view.Count(),
	}
	ProposalsRejectedView = &view.View{
		Measure:     ProposalsRejected,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{FailureType},
	}
	StreamOpenRetriesView = &view.View{
		Measure:     StreamOpenRetries,
		Aggregation: view.Count(),
		TagKeys:     []tag.Key{Protocol},
	}
	FinalityDeliveredView = &view.View{
		Measure:     FinalityDelivered,
		Aggregation: view.Count(),
	}
)

var views = []*view.View{
	InfoView,
	VaultRecordsView,
	NotariseRequestsView,
	NotariseConflictsView,
	NotariseDurationView,
	NegotiationStartedView,
	NegotiationFinishedView,
	NegotiationRoundTripView,
	NegotiationDurationView,
	ProposalsReceivedView,
	ProposalsRejectedView,
	StreamOpenRetriesView,
	FinalityDeliveredView,
}

// DefaultViews is an array of OpenCensus views for metric gathering purposes
var DefaultViews = func() []*view.View {
	return views
}()

// SinceInMilliseconds returns the duration of time since the provide time as a float64.
func SinceInMilliseconds(startTime time.Time) float64 {
	return float64(time.Since(startTime).Milliseconds())
}

// Timer is a function stopwatch, calling it starts the timer,
// calling the returned function will record the duration.
func Timer(ctx context.Context, m *stats.Float64Measure) func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		stats.Record(ctx, m.M(SinceInMilliseconds(start)))
		return time.Since(start)
	}
}
