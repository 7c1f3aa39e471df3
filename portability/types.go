package portability

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/fundport/fundport/ledger/notary"
	"github.com/fundport/fundport/ledger/types"
)

// FlowKind says which ledger change a negotiation carries.
type FlowKind uint64

const (
	FlowUndefined FlowKind = iota
	// FlowAccept accepts a transfer request and moves the fund to the requester.
	FlowAccept
	// FlowReject rejects a transfer request, leaving the fund untouched.
	FlowReject
	// FlowRequest opens a transfer request against a fund.
	FlowRequest
	// FlowIssue creates a fund owned by the local party.
	FlowIssue
)

var FlowKinds = map[FlowKind]string{
	FlowUndefined: "undefined",
	FlowAccept:    "accept",
	FlowReject:    "reject",
	FlowRequest:   "request",
	FlowIssue:     "issue",
}

func (k FlowKind) String() string {
	if n, ok := FlowKinds[k]; ok {
		return n
	}
	return fmt.Sprintf("FlowKind(%d)", uint64(k))
}

// NegotiationStatus is the persisted state of a negotiation.
type NegotiationStatus uint64

const (
	StatusUndefined NegotiationStatus = iota
	// StatusBuilt means the transaction has been assembled from current records.
	StatusBuilt
	// StatusVerifiedLocal means the local contract check passed.
	StatusVerifiedLocal
	// StatusSent means the signed proposal is out to the counterparty.
	StatusSent
	// StatusEndorsed means every required signature is present.
	StatusEndorsed
	// StatusRejectedRemote means the counterparty refused to sign.
	StatusRejectedRemote
	// StatusTimedOut means the counterparty did not answer in time.
	StatusTimedOut
	// StatusFinalizing means the transaction is with the notary or being
	// distributed. It can no longer be cancelled.
	StatusFinalizing
	// StatusCommitted means the transaction is notarised and recorded by all
	// participants.
	StatusCommitted
	// StatusAborted means the negotiation ended without a commit.
	StatusAborted
)

var NegotiationStatuses = map[NegotiationStatus]string{
	StatusUndefined:      "Undefined",
	StatusBuilt:          "Built",
	StatusVerifiedLocal:  "VerifiedLocal",
	StatusSent:           "Sent",
	StatusEndorsed:       "Endorsed",
	StatusRejectedRemote: "RejectedRemote",
	StatusTimedOut:       "TimedOut",
	StatusFinalizing:     "Finalizing",
	StatusCommitted:      "Committed",
	StatusAborted:        "Aborted",
}

func (s NegotiationStatus) String() string {
	if n, ok := NegotiationStatuses[s]; ok {
		return n
	}
	return fmt.Sprintf("NegotiationStatus(%d)", uint64(s))
}

// TerminalStatuses end a negotiation; nothing is resumed from them.
var TerminalStatuses = []NegotiationStatus{
	StatusCommitted,
	StatusAborted,
	StatusRejectedRemote,
	StatusTimedOut,
}

func (s NegotiationStatus) Terminal() bool {
	for _, t := range TerminalStatuses {
		if s == t {
			return true
		}
	}
	return false
}

// Cancellable reports whether a negotiation in this status can still be
// abandoned without side effects.
func (s NegotiationStatus) Cancellable() bool {
	switch s {
	case StatusBuilt, StatusVerifiedLocal, StatusSent, StatusEndorsed:
		return true
	default:
		return false
	}
}

type FailureCode uint64

const (
	FailureNone FailureCode = iota
	FailureVerification
	FailureRejectedRemote
	FailureTimedOut
	FailureInvalidEndorsement
	FailureConflict
	FailureCancelled
	FailureNotaryRejected
)

var FailureCodes = map[FailureCode]string{
	FailureNone:               "none",
	FailureVerification:       "verification",
	FailureRejectedRemote:     "rejected_remote",
	FailureTimedOut:           "timed_out",
	FailureInvalidEndorsement: "invalid_endorsement",
	FailureConflict:           "conflict",
	FailureCancelled:          "cancelled",
	FailureNotaryRejected:     "notary_rejected",
}

func (f FailureCode) String() string {
	if n, ok := FailureCodes[f]; ok {
		return n
	}
	return fmt.Sprintf("FailureCode(%d)", uint64(f))
}

// Negotiation is the checkpointed state of one attempt to get a transaction
// endorsed and finalized. It is keyed by the transaction id.
type Negotiation struct {
	ProposalCid  cid.Cid
	Kind         FlowKind
	Subject      string
	Counterparty peer.ID
	Tx           types.SignedTransaction
	Status       NegotiationStatus
	Failure      FailureCode
	Message      string
	Conflicts    []notary.Conflict
	CreatedAt    int64
	SentAt       int64
	FinishedAt   int64
}

// NegotiationEvent is an event that moves a negotiation between states.
type NegotiationEvent uint64

const (
	// NegotiationEventOpen starts tracking a freshly built transaction.
	NegotiationEventOpen NegotiationEvent = iota

	// NegotiationEventVerified means the local contract check passed.
	NegotiationEventVerified

	// NegotiationEventVerificationFailed means the local contract check failed.
	NegotiationEventVerificationFailed

	// NegotiationEventSigned means the local signature was attached and the
	// proposal is about to be sent.
	NegotiationEventSigned

	// NegotiationEventEndorsed means the counterparty's signature arrived.
	NegotiationEventEndorsed

	// NegotiationEventRejectedRemote means the counterparty refused to sign.
	NegotiationEventRejectedRemote

	// NegotiationEventTimedOut means no answer arrived within the window.
	NegotiationEventTimedOut

	// NegotiationEventEndorsementInvalid means the collected signatures do
	// not check out.
	NegotiationEventEndorsementInvalid

	// NegotiationEventFinalizing means the transaction goes to the notary.
	NegotiationEventFinalizing

	// NegotiationEventNotarised records the notary signature.
	NegotiationEventNotarised

	// NegotiationEventConflict means the notary saw an input already consumed.
	NegotiationEventConflict

	// NegotiationEventCommitted means every participant recorded the transaction.
	NegotiationEventCommitted

	// NegotiationEventInfraError records a network or storage failure. The
	// negotiation stays where it is and can be resumed.
	NegotiationEventInfraError

	// NegotiationEventCancel abandons a negotiation before finalization.
	NegotiationEventCancel

	// NegotiationEventRestart re-runs the handler of the current state.
	NegotiationEventRestart

	// NegotiationEventNotaryRejected means the notary refused the transaction
	// as malformed or addressed to another notary. Retrying cannot succeed.
	NegotiationEventNotaryRejected
)

var NegotiationEvents = map[NegotiationEvent]string{
	NegotiationEventOpen:               "NegotiationEventOpen",
	NegotiationEventVerified:           "NegotiationEventVerified",
	NegotiationEventVerificationFailed: "NegotiationEventVerificationFailed",
	NegotiationEventSigned:             "NegotiationEventSigned",
	NegotiationEventEndorsed:           "NegotiationEventEndorsed",
	NegotiationEventRejectedRemote:     "NegotiationEventRejectedRemote",
	NegotiationEventTimedOut:           "NegotiationEventTimedOut",
	NegotiationEventEndorsementInvalid: "NegotiationEventEndorsementInvalid",
	NegotiationEventFinalizing:         "NegotiationEventFinalizing",
	NegotiationEventNotarised:          "NegotiationEventNotarised",
	NegotiationEventConflict:           "NegotiationEventConflict",
	NegotiationEventCommitted:          "NegotiationEventCommitted",
	NegotiationEventInfraError:         "NegotiationEventInfraError",
	NegotiationEventCancel:             "NegotiationEventCancel",
	NegotiationEventRestart:            "NegotiationEventRestart",
	NegotiationEventNotaryRejected:     "NegotiationEventNotaryRejected",
}

func (e NegotiationEvent) String() string {
	if n, ok := NegotiationEvents[e]; ok {
		return n
	}
	return fmt.Sprintf("NegotiationEvent(%d)", uint64(e))
}

// Subscriber is called with every event applied to any negotiation.
type Subscriber func(event NegotiationEvent, negotiation Negotiation)

// Unsubscribe removes a Subscriber.
type Unsubscribe func()
