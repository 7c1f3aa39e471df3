package network

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"github.com/fundport/fundport/ledger/types"
)

// Proposal is sent by the initiator. ProposalCid must equal the id of Tx.
type Proposal struct {
	Tx          types.SignedTransaction
	ProposalCid cid.Cid
}

// ProposalUndefined is an empty Proposal message
var ProposalUndefined = Proposal{}

type ResponseStatus uint64

const (
	ResponseStatusUndefined ResponseStatus = iota
	ResponseEndorsed
	ResponseRejected
	ResponseError
)

var ResponseStatuses = map[ResponseStatus]string{
	ResponseStatusUndefined: "Undefined",
	ResponseEndorsed:        "Endorsed",
	ResponseRejected:        "Rejected",
	ResponseError:           "Error",
}

func (s ResponseStatus) String() string {
	if n, ok := ResponseStatuses[s]; ok {
		return n
	}
	return fmt.Sprintf("ResponseStatus(%d)", uint64(s))
}

// Response is the counterparty's answer to a Proposal.
type Response struct {
	Status      ResponseStatus
	ProposalCid cid.Cid
	Signature   *types.Signature
	Message     string
}

// ResponseUndefined is an empty Response message
var ResponseUndefined = Response{}

// FinalityMessage carries a notarised transaction to a participant.
type FinalityMessage struct {
	Tx types.SignedTransaction
}

// FinalityMessageUndefined is an empty FinalityMessage
var FinalityMessageUndefined = FinalityMessage{}

type AckStatus uint64

const (
	AckUndefined AckStatus = iota
	AckRecorded
	AckRefused
)

var AckStatuses = map[AckStatus]string{
	AckUndefined: "Undefined",
	AckRecorded:  "Recorded",
	AckRefused:   "Refused",
}

func (s AckStatus) String() string {
	if n, ok := AckStatuses[s]; ok {
		return n
	}
	return fmt.Sprintf("AckStatus(%d)", uint64(s))
}

// FinalityAck confirms a participant recorded a finalized transaction.
type FinalityAck struct {
	Status  AckStatus
	Message string
}

// FinalityAckUndefined is an empty FinalityAck
var FinalityAckUndefined = FinalityAck{}
