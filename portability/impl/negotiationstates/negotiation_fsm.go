package negotiationstates

import (
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-statemachine/fsm"

	"github.com/fundport/fundport/ledger/contract"
	"github.com/fundport/fundport/ledger/notary"
	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/portability"
)

// NegotiationEvents are the events that can happen to a negotiation
var NegotiationEvents = fsm.Events{
	fsm.Event(portability.NegotiationEventOpen).From(portability.StatusUndefined).To(portability.StatusBuilt),

	fsm.Event(portability.NegotiationEventVerified).From(portability.StatusBuilt).To(portability.StatusVerifiedLocal),
	fsm.Event(portability.NegotiationEventVerificationFailed).
		From(portability.StatusBuilt).To(portability.StatusAborted).
		Action(func(neg *portability.Negotiation, err error, at int64) error {
			neg.Failure = portability.FailureVerification
			var re *contract.RejectedError
			if xerrors.As(err, &re) {
				neg.Message = "local verification failed: " + re.Reason
			} else {
				neg.Message = xerrors.Errorf("local verification failed: %w", err).Error()
			}
			neg.FinishedAt = at
			return nil
		}),

	fsm.Event(portability.NegotiationEventSigned).
		From(portability.StatusVerifiedLocal).To(portability.StatusSent).
		Action(func(neg *portability.Negotiation, sig types.Signature, sentAt int64) error {
			neg.Tx.AddSignature(sig)
			neg.SentAt = sentAt
			return nil
		}),

	fsm.Event(portability.NegotiationEventEndorsed).
		From(portability.StatusSent).To(portability.StatusEndorsed).
		Action(func(neg *portability.Negotiation, sig *types.Signature) error {
			if sig != nil {
				neg.Tx.AddSignature(*sig)
			}
			neg.Message = ""
			return nil
		}),
	fsm.Event(portability.NegotiationEventRejectedRemote).
		From(portability.StatusSent).To(portability.StatusRejectedRemote).
		Action(func(neg *portability.Negotiation, reason string, at int64) error {
			neg.Failure = portability.FailureRejectedRemote
			neg.Message = reason
			neg.FinishedAt = at
			return nil
		}),
	fsm.Event(portability.NegotiationEventTimedOut).
		From(portability.StatusSent).To(portability.StatusTimedOut).
		Action(func(neg *portability.Negotiation, at int64) error {
			neg.Failure = portability.FailureTimedOut
			neg.Message = "no response from counterparty"
			neg.FinishedAt = at
			return nil
		}),

	fsm.Event(portability.NegotiationEventEndorsementInvalid).
		From(portability.StatusEndorsed).To(portability.StatusAborted).
		Action(func(neg *portability.Negotiation, err error, at int64) error {
			neg.Failure = portability.FailureInvalidEndorsement
			neg.Message = xerrors.Errorf("invalid endorsement: %w", err).Error()
			neg.FinishedAt = at
			return nil
		}),
	fsm.Event(portability.NegotiationEventFinalizing).From(portability.StatusEndorsed).To(portability.StatusFinalizing),

	fsm.Event(portability.NegotiationEventNotarised).
		From(portability.StatusFinalizing).ToJustRecord().
		Action(func(neg *portability.Negotiation, sig types.Signature) error {
			neg.Tx.NotarySig = &sig
			return nil
		}),
	fsm.Event(portability.NegotiationEventConflict).
		From(portability.StatusFinalizing).To(portability.StatusAborted).
		Action(func(neg *portability.Negotiation, err error, at int64) error {
			neg.Failure = portability.FailureConflict
			neg.Message = err.Error()
			if ce, ok := notary.IsConflict(err); ok {
				neg.Conflicts = ce.Conflicts
			}
			neg.FinishedAt = at
			return nil
		}),
	fsm.Event(portability.NegotiationEventNotaryRejected).
		From(portability.StatusFinalizing).To(portability.StatusAborted).
		Action(func(neg *portability.Negotiation, err error, at int64) error {
			neg.Failure = portability.FailureNotaryRejected
			neg.Message = err.Error()
			neg.FinishedAt = at
			return nil
		}),
	fsm.Event(portability.NegotiationEventCommitted).
		From(portability.StatusFinalizing).To(portability.StatusCommitted).
		Action(func(neg *portability.Negotiation, at int64) error {
			neg.Message = ""
			neg.FinishedAt = at
			return nil
		}),

	fsm.Event(portability.NegotiationEventInfraError).
		FromAny().ToJustRecord().
		Action(func(neg *portability.Negotiation, err error) error {
			neg.Message = xerrors.Errorf("suspended: %w", err).Error()
			return nil
		}),

	fsm.Event(portability.NegotiationEventCancel).
		FromMany(
			portability.StatusBuilt,
			portability.StatusVerifiedLocal,
			portability.StatusSent,
			portability.StatusEndorsed,
		).To(portability.StatusAborted).
		Action(func(neg *portability.Negotiation, at int64) error {
			neg.Failure = portability.FailureCancelled
			neg.Message = "cancelled"
			neg.FinishedAt = at
			return nil
		}),

	fsm.Event(portability.NegotiationEventRestart).FromAny().ToNoChange(),
}

// NegotiationStateEntryFuncs are the handlers for the states of a negotiation
var NegotiationStateEntryFuncs = fsm.StateEntryFuncs{
	portability.StatusBuilt:         VerifyLocal,
	portability.StatusVerifiedLocal: SignAndSend,
	portability.StatusSent:          AwaitEndorsement,
	portability.StatusEndorsed:      CheckEndorsements,
	portability.StatusFinalizing:    Finalize,
}

// NegotiationFinalityStates are the states that terminate a negotiation.
// On restart only negotiations outside these states are resumed.
var NegotiationFinalityStates = []fsm.StateKey{
	portability.StatusCommitted,
	portability.StatusAborted,
	portability.StatusRejectedRemote,
	portability.StatusTimedOut,
}
