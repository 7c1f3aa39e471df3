package mock

import (
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/ipfs/go-cid"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multihash"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fundport/fundport/ledger/types"
)

// Party generates a fresh ed25519 identity.
func Party(t testing.TB) (crypto.PrivKey, peer.ID) {
	sk, _, err := crypto.GenerateEd25519Key(rand.Reader)
	require.NoError(t, err)
	id, err := peer.IDFromPrivateKey(sk)
	require.NoError(t, err)
	return sk, id
}

// Cid returns a deterministic dag-cbor cid for seed.
func Cid(t testing.TB, seed string) cid.Cid {
	pref := cid.NewPrefixV1(cid.DagCBOR, multihash.BLAKE2B_MIN+31)
	c, err := pref.Sum([]byte(seed))
	require.NoError(t, err)
	return c
}

func Ref(t testing.TB, seed string, idx uint64) types.StateRef {
	return types.StateRef{Tx: Cid(t, seed), Index: idx}
}

func Request(requester, requested peer.ID, fundRef string, status types.RequestStatus) *types.RequestState {
	return &types.RequestState{
		LinearID:      uuid.New(),
		Requester:     requester,
		Requested:     requested,
		FundReference: fundRef,
		Status:        status,
	}
}

func Fund(externalID string, balance int64, owner peer.ID) *types.FundState {
	return &types.FundState{
		ExternalID: externalID,
		Balance:    types.NewAmount(decimal.NewFromInt(balance)),
		Owner:      owner,
	}
}

// AcceptTx builds a well formed accept+transfer transaction over req and fund.
func AcceptTx(t testing.TB, req *types.RequestState, fund *types.FundState, notary peer.ID) *types.WireTransaction {
	reqOut := *req
	reqOut.Status = types.RequestAccepted
	fundOut := *fund
	fundOut.Owner = req.Requester

	signers := reqOut.Participants()
	return &types.WireTransaction{
		Inputs: []types.StateAndRef{
			{State: types.LedgerState{Request: req}, Ref: Ref(t, fmt.Sprintf("req-%s", req.LinearID), 0)},
			{State: types.LedgerState{Fund: fund}, Ref: Ref(t, "fund-"+fund.ExternalID, 0)},
		},
		Outputs: []types.LedgerState{
			{Request: &reqOut},
			{Fund: &fundOut},
		},
		Commands: []types.Command{
			{Kind: types.CommandAccept, Signers: signers},
			{Kind: types.CommandTransfer, Signers: signers},
		},
		Notary: notary,
		Nonce:  uuid.NewString(),
	}
}
