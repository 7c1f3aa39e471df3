package negotiationstates

import (
	"context"
	"time"

	"github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/raulk/clock"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-statemachine/fsm"

	"github.com/fundport/fundport/ledger/notary"
	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/portability"
)

var log = logging.Logger("negotiation")

// NegotiationEnvironment are the dependencies needed for processing
// negotiations with a NegotiationStateEntryFunc
type NegotiationEnvironment interface {
	Self() peer.ID
	Clock() clock.Clock
	NegotiationTimeout() time.Duration

	// Verify runs the contract rules over a transaction.
	Verify(tx *types.WireTransaction) error
	// Sign endorses a transaction id with the local key.
	Sign(txid cid.Cid) (*types.Signature, error)
	// Exchange sends the proposal to the counterparty and returns its
	// endorsement. A refusal is returned as *portability.RejectedRemoteError.
	Exchange(ctx context.Context, neg portability.Negotiation) (*types.Signature, error)
	// CheckSignatures verifies every signature on the transaction and that no
	// required signer is missing.
	CheckSignatures(stx *types.SignedTransaction) error
	// Notarise submits the transaction to the notary.
	Notarise(ctx context.Context, stx *types.SignedTransaction) (*types.Signature, error)
	// Record stores the finalized transaction in the local vault.
	Record(ctx context.Context, stx *types.SignedTransaction) error
	// Distribute delivers the finalized transaction to every other
	// participant and waits for their acknowledgement.
	Distribute(ctx context.Context, stx *types.SignedTransaction) error
}

// NegotiationStateEntryFunc is the signature for a StateEntryFunc in the negotiation FSM
type NegotiationStateEntryFunc func(ctx fsm.Context, environment NegotiationEnvironment, neg portability.Negotiation) error

func now(environment NegotiationEnvironment) int64 {
	return environment.Clock().Now().UnixNano()
}

// VerifyLocal runs the contract rules before anything is signed
func VerifyLocal(ctx fsm.Context, environment NegotiationEnvironment, neg portability.Negotiation) error {
	if err := environment.Verify(&neg.Tx.Tx); err != nil {
		log.Warnw("local verification failed", "negotiation", neg.ProposalCid, "error", err)
		return ctx.Trigger(portability.NegotiationEventVerificationFailed, err, now(environment))
	}
	return ctx.Trigger(portability.NegotiationEventVerified)
}

// SignAndSend attaches the local signature. The send itself happens on entry
// to Sent so that a restart re-sends from the checkpoint.
func SignAndSend(ctx fsm.Context, environment NegotiationEnvironment, neg portability.Negotiation) error {
	sig, err := environment.Sign(neg.ProposalCid)
	if err != nil {
		return ctx.Trigger(portability.NegotiationEventInfraError, xerrors.Errorf("signing proposal: %w", err))
	}
	return ctx.Trigger(portability.NegotiationEventSigned, *sig, now(environment))
}

// AwaitEndorsement sends the proposal to the counterparty and waits for its
// answer until the negotiation window measured from SentAt closes
func AwaitEndorsement(ctx fsm.Context, environment NegotiationEnvironment, neg portability.Negotiation) error {
	if neg.Counterparty == "" {
		return ctx.Trigger(portability.NegotiationEventEndorsed, (*types.Signature)(nil))
	}

	clk := environment.Clock()
	deadline := time.Unix(0, neg.SentAt).Add(environment.NegotiationTimeout())
	if !clk.Now().Before(deadline) {
		return ctx.Trigger(portability.NegotiationEventTimedOut, now(environment))
	}

	rctx, cancel := context.WithCancel(ctx.Context())
	defer cancel()

	// the window is tracked on the environment clock so it survives restarts
	expired := make(chan struct{})
	timer := clk.Timer(deadline.Sub(clk.Now()))
	defer timer.Stop()
	go func() {
		select {
		case <-timer.C:
			close(expired)
			cancel()
		case <-rctx.Done():
		}
	}()

	sig, err := environment.Exchange(rctx, neg)
	if err == nil {
		if sig == nil || sig.Signer != neg.Counterparty {
			return ctx.Trigger(portability.NegotiationEventRejectedRemote, "counterparty answered without its endorsement", now(environment))
		}
		return ctx.Trigger(portability.NegotiationEventEndorsed, sig)
	}

	timedOut := false
	select {
	case <-expired:
		timedOut = true
	default:
	}

	var rejected *portability.RejectedRemoteError
	switch {
	case xerrors.As(err, &rejected):
		return ctx.Trigger(portability.NegotiationEventRejectedRemote, rejected.Reason, now(environment))
	case timedOut || xerrors.Is(err, context.DeadlineExceeded):
		return ctx.Trigger(portability.NegotiationEventTimedOut, now(environment))
	case xerrors.Is(err, context.Canceled):
		// cancelled by the owner; the cancel event is already queued
		log.Infow("exchange interrupted", "negotiation", neg.ProposalCid)
		return nil
	default:
		return ctx.Trigger(portability.NegotiationEventInfraError, xerrors.Errorf("exchanging proposal with %s: %w", neg.Counterparty, err))
	}
}

// CheckEndorsements confirms every required party signed before the
// transaction goes to the notary
func CheckEndorsements(ctx fsm.Context, environment NegotiationEnvironment, neg portability.Negotiation) error {
	if err := environment.CheckSignatures(&neg.Tx); err != nil {
		return ctx.Trigger(portability.NegotiationEventEndorsementInvalid, err, now(environment))
	}
	return ctx.Trigger(portability.NegotiationEventFinalizing)
}

// Finalize notarises the transaction, records it locally and delivers it to
// the other participants. Every step is idempotent, so a restart simply runs
// it again.
func Finalize(ctx fsm.Context, environment NegotiationEnvironment, neg portability.Negotiation) error {
	stx := neg.Tx

	if stx.NotarySig == nil {
		sig, err := environment.Notarise(ctx.Context(), &stx)
		if err != nil {
			if _, ok := notary.IsConflict(err); ok {
				return ctx.Trigger(portability.NegotiationEventConflict, err, now(environment))
			}
			if xerrors.Is(err, notary.ErrInvalid) || xerrors.Is(err, notary.ErrWrongNotary) {
				return ctx.Trigger(portability.NegotiationEventNotaryRejected, err, now(environment))
			}
			return ctx.Trigger(portability.NegotiationEventInfraError, xerrors.Errorf("notarising: %w", err))
		}
		stx.NotarySig = sig
		if err := ctx.Trigger(portability.NegotiationEventNotarised, *sig); err != nil {
			return err
		}
	}

	if err := environment.Record(ctx.Context(), &stx); err != nil {
		return ctx.Trigger(portability.NegotiationEventInfraError, xerrors.Errorf("recording: %w", err))
	}

	if err := environment.Distribute(ctx.Context(), &stx); err != nil {
		return ctx.Trigger(portability.NegotiationEventInfraError, xerrors.Errorf("distributing: %w", err))
	}

	return ctx.Trigger(portability.NegotiationEventCommitted, now(environment))
}
