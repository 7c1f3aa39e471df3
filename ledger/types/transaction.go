package types

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/ipfs/go-cid"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multihash"
)

type CommandKind uint64

const (
	CommandUndefined CommandKind = iota
	CommandIssue
	CommandRequest
	CommandAccept
	CommandReject
	CommandTransfer
)

var CommandKinds = map[CommandKind]string{
	CommandUndefined: "Undefined",
	CommandIssue:     "Issue",
	CommandRequest:   "Request",
	CommandAccept:    "Accept",
	CommandReject:    "Reject",
	CommandTransfer:  "Transfer",
}

func (k CommandKind) String() string {
	if n, ok := CommandKinds[k]; ok {
		return n
	}
	return fmt.Sprintf("CommandKind(%d)", uint64(k))
}

// Command is a declared intent together with the parties that must sign it.
type Command struct {
	Kind    CommandKind
	Signers []peer.ID
}

// WireTransaction is the unsigned body every party verifies and signs.
type WireTransaction struct {
	Inputs   []StateAndRef
	Outputs  []LedgerState
	Commands []Command
	Notary   peer.ID
	Nonce    string
}

func (t *WireTransaction) Serialize() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := t.MarshalCBOR(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Cid is the transaction id. Signatures are made over its bytes.
func (t *WireTransaction) Cid() (cid.Cid, error) {
	data, err := t.Serialize()
	if err != nil {
		return cid.Undef, err
	}

	pref := cid.NewPrefixV1(cid.DagCBOR, multihash.BLAKE2B_MIN+31)
	return pref.Sum(data)
}

func (t *WireTransaction) Command(kind CommandKind) (Command, bool) {
	for _, c := range t.Commands {
		if c.Kind == kind {
			return c, true
		}
	}
	return Command{}, false
}

// RequiredSigners is the union of every command's signers, sorted.
func (t *WireTransaction) RequiredSigners() []peer.ID {
	set := map[peer.ID]struct{}{}
	for _, c := range t.Commands {
		for _, s := range c.Signers {
			set[s] = struct{}{}
		}
	}
	return sortedPeers(set)
}

// Participants is every party named by an input or an output, sorted.
func (t *WireTransaction) Participants() []peer.ID {
	set := map[peer.ID]struct{}{}
	for _, in := range t.Inputs {
		for _, p := range in.State.Participants() {
			set[p] = struct{}{}
		}
	}
	for _, out := range t.Outputs {
		for _, p := range out.Participants() {
			set[p] = struct{}{}
		}
	}
	return sortedPeers(set)
}

func sortedPeers(set map[peer.ID]struct{}) []peer.ID {
	out := make([]peer.ID, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SignedTransaction is a WireTransaction plus the endorsements collected so
// far and, once finalized, the notary's signature.
type SignedTransaction struct {
	Tx        WireTransaction
	Sigs      []Signature
	NotarySig *Signature
}

func (st *SignedTransaction) Cid() (cid.Cid, error) {
	return st.Tx.Cid()
}

func (st *SignedTransaction) SignatureBy(p peer.ID) (*Signature, bool) {
	for i := range st.Sigs {
		if st.Sigs[i].Signer == p {
			return &st.Sigs[i], true
		}
	}
	return nil, false
}

// AddSignature appends sig, replacing any earlier signature by the same party.
func (st *SignedTransaction) AddSignature(sig Signature) {
	for i := range st.Sigs {
		if st.Sigs[i].Signer == sig.Signer {
			st.Sigs[i] = sig
			return
		}
	}
	st.Sigs = append(st.Sigs, sig)
}

// MissingSigners lists required signers without a signature. Signatures are
// not checked here, see sigs.VerifyTransaction.
func (st *SignedTransaction) MissingSigners() []peer.ID {
	var out []peer.ID
	for _, p := range st.Tx.RequiredSigners() {
		if _, ok := st.SignatureBy(p); !ok {
			out = append(out, p)
		}
	}
	return out
}

// OutputRef is the ref output i will have once this transaction commits.
func OutputRef(txid cid.Cid, i int) StateRef {
	return StateRef{Tx: txid, Index: uint64(i)}
}

func DecodeSignedTransaction(data []byte) (*SignedTransaction, error) {
	var st SignedTransaction
	if err := st.UnmarshalCBOR(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return &st, nil
}
