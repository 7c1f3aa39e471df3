package impl

import (
	"context"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/raulk/clock"
	"go.opencensus.io/stats"
	"go.uber.org/multierr"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/ledger/contract"
	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/lib/sigs"
	"github.com/fundport/fundport/metrics"
	"github.com/fundport/fundport/portability"
	"github.com/fundport/fundport/portability/impl/negotiationstates"
	"github.com/fundport/fundport/portability/network"
)

var _ negotiationstates.NegotiationEnvironment = &negotiationEnvironment{}

type negotiationEnvironment struct {
	m *Manager
}

func (e *negotiationEnvironment) Self() peer.ID {
	return e.m.self
}

func (e *negotiationEnvironment) Clock() clock.Clock {
	return e.m.clock
}

func (e *negotiationEnvironment) NegotiationTimeout() time.Duration {
	return e.m.timeout
}

func (e *negotiationEnvironment) Verify(tx *types.WireTransaction) error {
	return contract.Verify(tx)
}

func (e *negotiationEnvironment) Sign(txid cid.Cid) (*types.Signature, error) {
	return sigs.SignTransaction(e.m.sk, txid)
}

func (e *negotiationEnvironment) CheckSignatures(stx *types.SignedTransaction) error {
	_, err := sigs.VerifyTransaction(stx)
	return err
}

// Exchange runs one proposal round trip. The stream is reset when ctx ends
// so a blocked read returns promptly on cancel or timeout.
func (e *negotiationEnvironment) Exchange(ctx context.Context, neg portability.Negotiation) (*types.Signature, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.m.track(neg.ProposalCid, cancel)
	defer e.m.untrack(neg.ProposalCid)

	if err := e.m.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer e.m.sem.Release(1)

	start := time.Now()
	s, err := e.m.net.NewNegotiationStream(ctx, neg.Counterparty)
	if err != nil {
		return nil, ctxOr(ctx, err)
	}
	defer s.Close() //nolint:errcheck

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Reset()
		case <-done:
		}
	}()

	e.m.net.TagPeer(neg.Counterparty, neg.ProposalCid.String())
	defer e.m.net.UntagPeer(neg.Counterparty, neg.ProposalCid.String())

	if err := s.WriteProposal(network.Proposal{Tx: neg.Tx, ProposalCid: neg.ProposalCid}); err != nil {
		return nil, ctxOr(ctx, xerrors.Errorf("sending proposal: %w", err))
	}
	resp, err := s.ReadResponse()
	if err != nil {
		return nil, ctxOr(ctx, xerrors.Errorf("reading response: %w", err))
	}
	stats.Record(ctx, metrics.NegotiationRoundTrip.M(metrics.SinceInMilliseconds(start)))

	if !resp.ProposalCid.Equals(neg.ProposalCid) {
		return nil, xerrors.Errorf("response names proposal %s, expected %s", resp.ProposalCid, neg.ProposalCid)
	}

	switch resp.Status {
	case network.ResponseEndorsed:
		if resp.Signature == nil {
			return nil, &portability.RejectedRemoteError{Reason: "endorsement without signature"}
		}
		return resp.Signature, nil
	case network.ResponseRejected:
		return nil, &portability.RejectedRemoteError{Reason: resp.Message}
	default:
		return nil, xerrors.Errorf("counterparty failed to process proposal: %s", resp.Message)
	}
}

func (e *negotiationEnvironment) Notarise(ctx context.Context, stx *types.SignedTransaction) (*types.Signature, error) {
	if err := e.m.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer e.m.sem.Release(1)

	return e.m.notary.Notarise(ctx, stx)
}

func (e *negotiationEnvironment) Record(ctx context.Context, stx *types.SignedTransaction) error {
	return e.m.vault.Record(ctx, stx)
}

// Distribute delivers the finalized transaction to every participant other
// than ourselves. All peers are attempted; failures are combined.
func (e *negotiationEnvironment) Distribute(ctx context.Context, stx *types.SignedTransaction) error {
	var errs error
	for _, p := range stx.Tx.Participants() {
		if p == e.m.self {
			continue
		}
		if err := e.deliver(ctx, p, stx); err != nil {
			errs = multierr.Append(errs, xerrors.Errorf("delivering to %s: %w", p, err))
			continue
		}
		stats.Record(ctx, metrics.FinalityDelivered.M(1))
	}
	return errs
}

func (e *negotiationEnvironment) deliver(ctx context.Context, p peer.ID, stx *types.SignedTransaction) error {
	if err := e.m.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer e.m.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, e.m.timeout)
	defer cancel()

	s, err := e.m.net.NewFinalityStream(ctx, p)
	if err != nil {
		return err
	}
	defer s.Close() //nolint:errcheck

	_ = s.SetDeadline(time.Now().Add(e.m.timeout))
	if err := s.WriteFinality(network.FinalityMessage{Tx: *stx}); err != nil {
		return err
	}
	ack, err := s.ReadAck()
	if err != nil {
		return err
	}
	if ack.Status != network.AckRecorded {
		return xerrors.Errorf("participant refused: %s", ack.Message)
	}
	return nil
}

// ctxOr prefers the context error so callers can tell a cancel or deadline
// from a broken stream.
func ctxOr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return xerrors.Errorf("%s: %w", err.Error(), ctx.Err())
	}
	return err
}
