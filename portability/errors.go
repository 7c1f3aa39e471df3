package portability

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"golang.org/x/xerrors"
)

var (
	// ErrTimedOut is returned when the counterparty did not answer in time.
	ErrTimedOut = errors.New("negotiation timed out")
	// ErrCancelled is returned for negotiations abandoned before finalization.
	ErrCancelled = errors.New("negotiation cancelled")
	// ErrNotCancellable is returned when cancelling a negotiation that already
	// reached the notary.
	ErrNotCancellable = errors.New("negotiation can no longer be cancelled")
	// ErrUnknownNegotiation is returned for ids with no negotiation.
	ErrUnknownNegotiation = errors.New("unknown negotiation")
	// ErrInvalidEndorsement is returned when the collected signatures do not
	// check out against the transaction.
	ErrInvalidEndorsement = errors.New("invalid endorsement")
	// ErrAlreadyFinished is returned when resuming a negotiation that ended.
	ErrAlreadyFinished = errors.New("negotiation already finished")
	// ErrNotaryRejected is returned when the notary refused the transaction
	// itself rather than one of its inputs.
	ErrNotaryRejected = errors.New("rejected by notary")
)

// RejectedRemoteError is returned when the counterparty refused to endorse.
type RejectedRemoteError struct {
	Reason string
}

func (e *RejectedRemoteError) Error() string {
	return fmt.Sprintf("rejected by counterparty: %s", e.Reason)
}

func IsRejectedRemote(err error) bool {
	var rr *RejectedRemoteError
	return xerrors.As(err, &rr)
}

// InfrastructureError wraps a failure that left the negotiation checkpointed;
// it can be resumed by id.
type InfrastructureError struct {
	ID  cid.Cid
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("negotiation %s suspended: %s", e.ID, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

func IsInfrastructure(err error) (*InfrastructureError, bool) {
	var ie *InfrastructureError
	if xerrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
