// Package contract holds the business rules every party applies to a
// transaction before signing it. Verification is pure: the same
// transaction always yields the same verdict on every node.
package contract

import (
	"errors"
	"fmt"

	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/fundport/fundport/ledger/types"
)

// RejectedError is returned for any transaction that breaks a rule.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return "transaction rejected: " + e.Reason
}

func IsRejected(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}

func reject(format string, args ...interface{}) error {
	return &RejectedError{Reason: fmt.Sprintf(format, args...)}
}

// Verify applies the transaction-level checks and then the rule for the
// command combination the transaction declares.
func Verify(tx *types.WireTransaction) error {
	if err := verifyShape(tx); err != nil {
		return err
	}

	_, accept := tx.Command(types.CommandAccept)
	_, transfer := tx.Command(types.CommandTransfer)
	_, rej := tx.Command(types.CommandReject)
	_, request := tx.Command(types.CommandRequest)
	_, issue := tx.Command(types.CommandIssue)

	switch {
	case accept || transfer:
		if !accept || !transfer {
			return reject("accept and transfer commands must appear together")
		}
		if len(tx.Commands) != 2 {
			return reject("accept transaction carries unexpected commands")
		}
		return verifyAccept(tx)
	case rej:
		if len(tx.Commands) != 1 {
			return reject("reject transaction carries unexpected commands")
		}
		return verifyReject(tx)
	case request:
		if len(tx.Commands) != 1 {
			return reject("request transaction carries unexpected commands")
		}
		return verifyRequest(tx)
	case issue:
		if len(tx.Commands) != 1 {
			return reject("issue transaction carries unexpected commands")
		}
		return verifyIssue(tx)
	default:
		return reject("no known command")
	}
}

func verifyShape(tx *types.WireTransaction) error {
	if tx == nil {
		return reject("nil transaction")
	}
	if len(tx.Commands) == 0 {
		return reject("transaction has no commands")
	}
	if tx.Notary == "" {
		return reject("transaction names no notary")
	}

	kinds := map[types.CommandKind]struct{}{}
	for _, c := range tx.Commands {
		if _, dup := kinds[c.Kind]; dup {
			return reject("duplicate %s command", c.Kind)
		}
		kinds[c.Kind] = struct{}{}
		if len(c.Signers) == 0 {
			return reject("%s command has no signers", c.Kind)
		}
	}

	refs := map[string]struct{}{}
	for _, in := range tx.Inputs {
		if !in.State.Valid() {
			return reject("input %s holds no single record", in.Ref)
		}
		if !in.Ref.Tx.Defined() {
			return reject("input has undefined ref")
		}
		k := in.Ref.String()
		if _, dup := refs[k]; dup {
			return reject("input %s consumed twice", k)
		}
		refs[k] = struct{}{}
	}

	for i, out := range tx.Outputs {
		if !out.Valid() {
			return reject("output %d holds no single record", i)
		}
	}

	return nil
}

func verifyAccept(tx *types.WireTransaction) error {
	if len(tx.Inputs) != 2 || len(tx.Outputs) != 2 {
		return reject("accept must consume one request and one fund and produce one of each")
	}

	reqIn, fundIn, err := splitInputs(tx.Inputs)
	if err != nil {
		return err
	}
	reqOut, fundOut, err := splitOutputs(tx.Outputs)
	if err != nil {
		return err
	}

	if reqIn.Status != types.RequestRequested {
		return reject("request %s is %s, only Requested can be accepted", reqIn.LinearID, reqIn.Status)
	}
	if reqOut.Status != types.RequestAccepted {
		return reject("accepted request must have status Accepted, got %s", reqOut.Status)
	}
	if !sameRequestBody(reqIn, reqOut) {
		return reject("request %s changed beyond its status", reqIn.LinearID)
	}

	if fundIn.ExternalID != reqIn.FundReference {
		return reject("fund %s does not match request reference %s", fundIn.ExternalID, reqIn.FundReference)
	}
	if fundIn.Owner != reqIn.Requested {
		return reject("fund %s is not owned by the requested party", fundIn.ExternalID)
	}
	if fundOut.ExternalID != fundIn.ExternalID {
		return reject("fund id changed from %s to %s", fundIn.ExternalID, fundOut.ExternalID)
	}
	if !fundOut.Balance.Equals(fundIn.Balance) {
		return reject("fund balance changed from %s to %s", fundIn.Balance, fundOut.Balance)
	}
	if fundOut.Owner != reqIn.Requester {
		return reject("fund must move to the requester")
	}

	for _, kind := range []types.CommandKind{types.CommandAccept, types.CommandTransfer} {
		c, _ := tx.Command(kind)
		if err := coversAll(c, reqOut.Participants()); err != nil {
			return err
		}
	}

	return nil
}

func verifyReject(tx *types.WireTransaction) error {
	if len(tx.Inputs) != 1 || len(tx.Outputs) != 1 {
		return reject("reject must consume and produce exactly one request")
	}
	reqIn := tx.Inputs[0].State.Request
	reqOut := tx.Outputs[0].Request
	if reqIn == nil || reqOut == nil {
		return reject("reject applies to requests only")
	}
	if reqIn.Status != types.RequestRequested {
		return reject("request %s is %s, only Requested can be rejected", reqIn.LinearID, reqIn.Status)
	}
	if reqOut.Status != types.RequestRejected {
		return reject("rejected request must have status Rejected, got %s", reqOut.Status)
	}
	if !sameRequestBody(reqIn, reqOut) {
		return reject("request %s changed beyond its status", reqIn.LinearID)
	}

	c, _ := tx.Command(types.CommandReject)
	return coversAll(c, reqOut.Participants())
}

func verifyRequest(tx *types.WireTransaction) error {
	if len(tx.Inputs) != 0 || len(tx.Outputs) != 1 || tx.Outputs[0].Request == nil {
		return reject("request must produce exactly one request from nothing")
	}
	req := tx.Outputs[0].Request
	if req.Status != types.RequestRequested {
		return reject("new request must have status Requested, got %s", req.Status)
	}
	if req.Requester == "" || req.Requested == "" {
		return reject("request must name both parties")
	}
	if req.Requester == req.Requested {
		return reject("a party cannot request its own fund")
	}
	if req.FundReference == "" {
		return reject("request must reference a fund")
	}

	c, _ := tx.Command(types.CommandRequest)
	return coversAll(c, req.Participants())
}

func verifyIssue(tx *types.WireTransaction) error {
	if len(tx.Inputs) != 0 || len(tx.Outputs) != 1 || tx.Outputs[0].Fund == nil {
		return reject("issue must produce exactly one fund from nothing")
	}
	fund := tx.Outputs[0].Fund
	if fund.ExternalID == "" {
		return reject("fund must have an external id")
	}
	if fund.Balance.IsNegative() {
		return reject("fund balance cannot be negative")
	}
	if fund.Owner == "" {
		return reject("fund must have an owner")
	}

	c, _ := tx.Command(types.CommandIssue)
	return coversAll(c, fund.Participants())
}

func splitInputs(ins []types.StateAndRef) (*types.RequestState, *types.FundState, error) {
	var req *types.RequestState
	var fund *types.FundState
	for _, in := range ins {
		switch {
		case in.State.Request != nil && req == nil:
			req = in.State.Request
		case in.State.Fund != nil && fund == nil:
			fund = in.State.Fund
		default:
			return nil, nil, reject("unexpected input %s", in.Ref)
		}
	}
	if req == nil || fund == nil {
		return nil, nil, reject("missing request or fund input")
	}
	return req, fund, nil
}

func splitOutputs(outs []types.LedgerState) (*types.RequestState, *types.FundState, error) {
	var req *types.RequestState
	var fund *types.FundState
	for i, out := range outs {
		switch {
		case out.Request != nil && req == nil:
			req = out.Request
		case out.Fund != nil && fund == nil:
			fund = out.Fund
		default:
			return nil, nil, reject("unexpected output %d", i)
		}
	}
	if req == nil || fund == nil {
		return nil, nil, reject("missing request or fund output")
	}
	return req, fund, nil
}

func sameRequestBody(a, b *types.RequestState) bool {
	return a.LinearID == b.LinearID &&
		a.Requester == b.Requester &&
		a.Requested == b.Requested &&
		a.FundReference == b.FundReference
}

func coversAll(c types.Command, participants []peer.ID) error {
	signers := make(map[peer.ID]struct{}, len(c.Signers))
	for _, s := range c.Signers {
		signers[s] = struct{}{}
	}
	for _, p := range participants {
		if _, ok := signers[p]; !ok {
			return reject("%s command is not signed by participant %s", c.Kind, p)
		}
	}
	return nil
}
