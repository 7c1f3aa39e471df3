package impl

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/ledger/contract"
	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/ledger/vault"
	"github.com/fundport/fundport/lib/sigs"
	"github.com/fundport/fundport/metrics"
	"github.com/fundport/fundport/portability/network"
)

// Acceptor answers proposals from counterparties. It signs only what it has
// verified itself, never relying on the initiator's own checks.
type Acceptor struct {
	self   peer.ID
	sk     crypto.PrivKey
	notary peer.ID
	vault  *vault.Vault
}

func NewAcceptor(sk crypto.PrivKey, notary peer.ID, v *vault.Vault) (*Acceptor, error) {
	self, err := peer.IDFromPrivateKey(sk)
	if err != nil {
		return nil, err
	}
	return &Acceptor{self: self, sk: sk, notary: notary, vault: v}, nil
}

type refusal struct {
	kind   string
	reason string
}

func (r *refusal) Error() string {
	return r.reason
}

func refuse(kind, format string, args ...interface{}) error {
	return &refusal{kind: kind, reason: fmt.Sprintf(format, args...)}
}

// OnIncomingProposal checks a proposal from a counterparty and answers with
// the local endorsement or a rejection.
func (a *Acceptor) OnIncomingProposal(ctx context.Context, from peer.ID, p network.Proposal) network.Response {
	stats.Record(ctx, metrics.ProposalsReceived.M(1))

	txid, err := a.check(ctx, from, p)
	if err != nil {
		var r *refusal
		if !xerrors.As(err, &r) {
			log.Errorw("checking proposal", "proposal", p.ProposalCid, "from", from, "error", err)
			return network.Response{Status: network.ResponseError, ProposalCid: p.ProposalCid, Message: "internal error"}
		}
		log.Infow("rejecting proposal", "proposal", p.ProposalCid, "from", from, "reason", r.reason)
		_ = stats.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(metrics.FailureType, r.kind)}, metrics.ProposalsRejected.M(1))
		return network.Response{Status: network.ResponseRejected, ProposalCid: p.ProposalCid, Message: r.reason}
	}

	sig, err := sigs.SignTransaction(a.sk, txid)
	if err != nil {
		log.Errorw("signing proposal", "proposal", txid, "error", err)
		return network.Response{Status: network.ResponseError, ProposalCid: p.ProposalCid, Message: "internal error"}
	}

	log.Infow("endorsed proposal", "proposal", txid, "from", from)
	return network.Response{Status: network.ResponseEndorsed, ProposalCid: txid, Signature: sig}
}

func (a *Acceptor) check(ctx context.Context, from peer.ID, p network.Proposal) (cid.Cid, error) {
	stx := &p.Tx
	wtx := &stx.Tx

	// the id pins the exact bytes the initiator signed
	txid, err := stx.Cid()
	if err != nil {
		return cid.Undef, refuse("malformed", "cannot compute transaction id: %s", err)
	}
	if !txid.Equals(p.ProposalCid) {
		return cid.Undef, refuse("tampered", "proposal id %s does not match transaction %s", p.ProposalCid, txid)
	}

	sig, ok := stx.SignatureBy(from)
	if !ok {
		return cid.Undef, refuse("signature", "proposal is not signed by its sender %s", from)
	}
	if err := sigs.Verify(sig, txid.Bytes()); err != nil {
		return cid.Undef, refuse("signature", "invalid signature from %s: %s", from, err)
	}

	var fromSigns, selfSigns bool
	for _, s := range wtx.RequiredSigners() {
		fromSigns = fromSigns || s == from
		selfSigns = selfSigns || s == a.self
	}
	if !fromSigns || !selfSigns {
		return cid.Undef, refuse("signers", "transaction does not require both %s and %s", from, a.self)
	}

	if wtx.Notary != a.notary {
		return cid.Undef, refuse("notary", "untrusted notary %s", wtx.Notary)
	}

	if err := contract.Verify(wtx); err != nil {
		var re *contract.RejectedError
		if xerrors.As(err, &re) {
			return cid.Undef, refuse("contract", "%s", re.Reason)
		}
		return cid.Undef, err
	}

	for _, in := range wtx.Inputs {
		stored, err := a.vault.Get(ctx, in.Ref)
		if err != nil {
			if xerrors.Is(err, vault.ErrNotFound) {
				continue
			}
			return cid.Undef, xerrors.Errorf("looking up input %s: %w", in.Ref, err)
		}
		if !stored.Unconsumed() {
			return cid.Undef, refuse("consumed", "input %s already consumed by %s", in.Ref, stored.ConsumedBy)
		}
		same, err := sameState(stored.State, in.State)
		if err != nil {
			return cid.Undef, err
		}
		if !same {
			return cid.Undef, refuse("tampered", "input %s differs from the recorded version", in.Ref)
		}
	}

	return txid, nil
}

// OnFinality checks a notarised transaction delivered by a participant and
// records it in the local vault.
func (a *Acceptor) OnFinality(ctx context.Context, from peer.ID, msg network.FinalityMessage) network.FinalityAck {
	stx := &msg.Tx

	txid, err := sigs.VerifyTransaction(stx)
	if err != nil {
		log.Warnw("refusing finalized transaction", "from", from, "error", err)
		return network.FinalityAck{Status: network.AckRefused, Message: err.Error()}
	}

	if stx.Tx.Notary != a.notary {
		return network.FinalityAck{Status: network.AckRefused, Message: fmt.Sprintf("untrusted notary %s", stx.Tx.Notary)}
	}
	if stx.NotarySig == nil || stx.NotarySig.Signer != a.notary {
		return network.FinalityAck{Status: network.AckRefused, Message: "missing notary signature"}
	}
	if err := sigs.Verify(stx.NotarySig, txid.Bytes()); err != nil {
		return network.FinalityAck{Status: network.AckRefused, Message: fmt.Sprintf("invalid notary signature: %s", err)}
	}

	if err := contract.Verify(&stx.Tx); err != nil {
		return network.FinalityAck{Status: network.AckRefused, Message: err.Error()}
	}

	if err := a.vault.Record(ctx, stx); err != nil {
		log.Errorw("recording finalized transaction", "tx", txid, "from", from, "error", err)
		return network.FinalityAck{Status: network.AckRefused, Message: "recording failed"}
	}

	log.Infow("recorded finalized transaction", "tx", txid, "from", from)
	return network.FinalityAck{Status: network.AckRecorded}
}

func sameState(a, b types.LedgerState) (bool, error) {
	var ab, bb bytes.Buffer
	if err := a.MarshalCBOR(&ab); err != nil {
		return false, err
	}
	if err := b.MarshalCBOR(&bb); err != nil {
		return false, err
	}
	return bytes.Equal(ab.Bytes(), bb.Bytes()), nil
}
