package types

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/ipfs/go-cid"
	"github.com/libp2p/go-libp2p/core/peer"
)

// RequestStatus is the lifecycle position of a transfer request.
type RequestStatus uint64

const (
	RequestStatusUndefined RequestStatus = iota
	RequestRequested
	RequestAccepted
	RequestRejected
)

var RequestStatuses = map[RequestStatus]string{
	RequestStatusUndefined: "Undefined",
	RequestRequested:       "Requested",
	RequestAccepted:        "Accepted",
	RequestRejected:        "Rejected",
}

func (s RequestStatus) String() string {
	if n, ok := RequestStatuses[s]; ok {
		return n
	}
	return fmt.Sprintf("RequestStatus(%d)", uint64(s))
}

// Terminal reports whether no further status transition is allowed.
func (s RequestStatus) Terminal() bool {
	return s == RequestAccepted || s == RequestRejected
}

// StateKind identifies which record type a LedgerState carries.
type StateKind string

const (
	KindRequest StateKind = "request"
	KindFund    StateKind = "fund"
)

// RequestState is a pending or settled request to move a fund from the
// requested party to the requester. It is co-held by both parties.
type RequestState struct {
	LinearID      uuid.UUID
	Requester     peer.ID
	Requested     peer.ID
	FundReference string
	Status        RequestStatus
}

func (r *RequestState) Participants() []peer.ID {
	return []peer.ID{r.Requester, r.Requested}
}

// FundState is a pension fund whose owner can change through an accepted
// request. Balance never changes on a transfer.
type FundState struct {
	ExternalID string
	Balance    Amount
	Owner      peer.ID
}

func (f *FundState) Participants() []peer.ID {
	return []peer.ID{f.Owner}
}

// LedgerState holds exactly one of the record types.
type LedgerState struct {
	Request *RequestState
	Fund    *FundState
}

func (s LedgerState) Kind() StateKind {
	switch {
	case s.Request != nil:
		return KindRequest
	case s.Fund != nil:
		return KindFund
	default:
		return ""
	}
}

// LinearID is the logical identifier every version of the record shares.
func (s LedgerState) LinearID() string {
	switch {
	case s.Request != nil:
		return s.Request.LinearID.String()
	case s.Fund != nil:
		return s.Fund.ExternalID
	default:
		return ""
	}
}

func (s LedgerState) Participants() []peer.ID {
	switch {
	case s.Request != nil:
		return s.Request.Participants()
	case s.Fund != nil:
		return s.Fund.Participants()
	default:
		return nil
	}
}

func (s LedgerState) Valid() bool {
	return (s.Request == nil) != (s.Fund == nil)
}

// StateRef points at one output of a committed transaction.
type StateRef struct {
	Tx    cid.Cid
	Index uint64
}

func (r StateRef) String() string {
	return fmt.Sprintf("%s/%d", r.Tx, r.Index)
}

// StateAndRef is a resolved input: the record version plus where it came from.
type StateAndRef struct {
	State LedgerState
	Ref   StateRef
}
