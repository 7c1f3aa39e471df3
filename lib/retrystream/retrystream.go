// Package retrystream opens libp2p streams with jittered exponential backoff.
package retrystream

import (
	"context"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/jpillora/backoff"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	"github.com/raulk/clock"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/metrics"
)

var log = logging.Logger("portnet")

// Params bound how hard OpenStream tries before giving up.
type Params struct {
	// Attempts counts every dial, the first one included.
	Attempts float64
	Min      time.Duration
	Max      time.Duration
	Factor   float64
}

// DefaultParams suit counterparties reachable over the public internet.
var DefaultParams = Params{
	Attempts: 5,
	Min:      time.Second,
	Max:      5 * time.Minute,
	Factor:   5,
}

type StreamOpener interface {
	NewStream(ctx context.Context, p peer.ID, pids ...protocol.ID) (network.Stream, error)
}

type Option func(*RetryStream)

// RetryParameters replaces the backoff schedule.
func RetryParameters(minDuration time.Duration, maxDuration time.Duration, attempts float64, backoffFactor float64) Option {
	return func(rs *RetryStream) {
		rs.params = Params{
			Attempts: attempts,
			Min:      minDuration,
			Max:      maxDuration,
			Factor:   backoffFactor,
		}
	}
}

// WithClock drives the waits between attempts from clk.
func WithClock(clk clock.Clock) Option {
	return func(rs *RetryStream) {
		rs.clock = clk
	}
}

type RetryStream struct {
	opener StreamOpener
	params Params
	clock  clock.Clock
}

func New(opener StreamOpener, options ...Option) *RetryStream {
	rs := &RetryStream{
		opener: opener,
		params: DefaultParams,
		clock:  clock.New(),
	}
	rs.SetOptions(options...)
	return rs
}

func (rs *RetryStream) SetOptions(options ...Option) {
	for _, option := range options {
		option(rs)
	}
}

// OpenStream dials p on the first of protocols the remote supports,
// retrying failed dials until the attempts run out or ctx is done.
func (rs *RetryStream) OpenStream(ctx context.Context, p peer.ID, protocols []protocol.ID) (network.Stream, error) {
	b := &backoff.Backoff{
		Min:    rs.params.Min,
		Max:    rs.params.Max,
		Factor: rs.params.Factor,
		Jitter: true,
	}

	for attempt := 1; ; attempt++ {
		s, err := rs.opener.NewStream(ctx, p, protocols...)
		if err == nil {
			return s, nil
		}
		if float64(attempt) >= rs.params.Attempts {
			return nil, xerrors.Errorf("opening stream to %s failed after %d attempts: %w", p, attempt, err)
		}
		rs.recordRetry(ctx, protocols)

		wait := b.Duration()
		log.Warnw("stream open failed, backing off", "peer", p, "attempt", attempt, "wait", wait, "err", err)

		t := rs.clock.Timer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, xerrors.Errorf("opening stream to %s: %w", p, ctx.Err())
		case <-t.C:
		}
	}
}

func (rs *RetryStream) recordRetry(ctx context.Context, protocols []protocol.ID) {
	if len(protocols) == 0 {
		return
	}
	rctx, err := tag.New(ctx, tag.Upsert(metrics.Protocol, string(protocols[0])))
	if err != nil {
		return
	}
	stats.Record(rctx, metrics.StreamOpenRetries.M(1))
}
