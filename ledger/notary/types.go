package notary

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/fundport/fundport/ledger/types"
)

// Conflict names an input and the transaction that already consumed it.
type Conflict struct {
	Ref        types.StateRef
	ConsumedBy cid.Cid
}

// CommitRecord is what the notary keeps for every transaction it signed.
type CommitRecord struct {
	Tx          cid.Cid
	Inputs      []types.StateRef
	Signature   types.Signature
	CommittedAt int64
}

type ResponseStatus uint64

const (
	ResponseStatusUndefined ResponseStatus = iota
	ResponseNotarised
	ResponseConflict
	ResponseInvalid
	ResponseError
)

var ResponseStatuses = map[ResponseStatus]string{
	ResponseStatusUndefined: "Undefined",
	ResponseNotarised:       "Notarised",
	ResponseConflict:        "Conflict",
	ResponseInvalid:         "Invalid",
	ResponseError:           "Error",
}

func (s ResponseStatus) String() string {
	if n, ok := ResponseStatuses[s]; ok {
		return n
	}
	return fmt.Sprintf("ResponseStatus(%d)", uint64(s))
}

// NotariseRequest is sent by a finalizing party to a remote notary.
type NotariseRequest struct {
	Tx types.SignedTransaction
}

// NotariseResponse is the notary's answer to a NotariseRequest.
type NotariseResponse struct {
	Status    ResponseStatus
	Signature *types.Signature
	Conflicts []Conflict
	Message   string
}
