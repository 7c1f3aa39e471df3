package vault

import (
	"context"
	"testing"

	"github.com/google/uuid"
	ds "github.com/ipfs/go-datastore"
	ds_sync "github.com/ipfs/go-datastore/sync"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/stretchr/testify/require"

	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/ledger/types/mock"
)

func newVault(t *testing.T) *Vault {
	v, err := New(ds_sync.MutexWrap(ds.NewMapDatastore()))
	require.NoError(t, err)
	return v
}

func issueTx(req *types.RequestState, fund *types.FundState, notary peer.ID) *types.SignedTransaction {
	return &types.SignedTransaction{Tx: types.WireTransaction{
		Outputs: []types.LedgerState{{Request: req}, {Fund: fund}},
		Commands: []types.Command{
			{Kind: types.CommandIssue, Signers: []peer.ID{fund.Owner}},
		},
		Notary: notary,
		Nonce:  uuid.NewString(),
	}}
}

func spend(t *testing.T, prev *types.SignedTransaction, notary peer.ID) *types.SignedTransaction {
	txid, err := prev.Cid()
	require.NoError(t, err)

	req := *prev.Tx.Outputs[0].Request
	fund := *prev.Tx.Outputs[1].Fund

	reqOut := req
	reqOut.Status = types.RequestAccepted
	fundOut := fund
	fundOut.Owner = req.Requester

	return &types.SignedTransaction{Tx: types.WireTransaction{
		Inputs: []types.StateAndRef{
			{State: types.LedgerState{Request: &req}, Ref: types.OutputRef(txid, 0)},
			{State: types.LedgerState{Fund: &fund}, Ref: types.OutputRef(txid, 1)},
		},
		Outputs: []types.LedgerState{{Request: &reqOut}, {Fund: &fundOut}},
		Commands: []types.Command{
			{Kind: types.CommandAccept, Signers: reqOut.Participants()},
			{Kind: types.CommandTransfer, Signers: reqOut.Participants()},
		},
		Notary: notary,
		Nonce:  uuid.NewString(),
	}}
}

func TestVaultRecordAndFind(t *testing.T) {
	ctx := context.Background()
	v := newVault(t)

	_, a := mock.Party(t)
	_, b := mock.Party(t)
	_, notary := mock.Party(t)

	req := mock.Request(b, a, "F1", types.RequestRequested)
	fund := mock.Fund("F1", 100, a)
	issued := issueTx(req, fund, notary)

	require.NoError(t, v.Record(ctx, issued))

	funds, err := v.FindUnconsumed(ctx, types.KindFund, nil)
	require.NoError(t, err)
	require.Len(t, funds, 1)
	require.Equal(t, a, funds[0].State.Fund.Owner)
	require.True(t, funds[0].State.Fund.Balance.Equals(fund.Balance))

	got, err := v.Single(ctx, types.KindRequest, func(s types.LedgerState) bool {
		return s.Request.LinearID == req.LinearID
	})
	require.NoError(t, err)
	require.Equal(t, types.RequestRequested, got.State.Request.Status)

	accepted := spend(t, issued, notary)
	require.NoError(t, v.Record(ctx, accepted))

	// the old versions are consumed, the new ones are the heads
	funds, err = v.FindUnconsumed(ctx, types.KindFund, nil)
	require.NoError(t, err)
	require.Len(t, funds, 1)
	require.Equal(t, b, funds[0].State.Fund.Owner)

	acceptedID, err := accepted.Cid()
	require.NoError(t, err)
	old, err := v.Get(ctx, accepted.Tx.Inputs[1].Ref)
	require.NoError(t, err)
	require.False(t, old.Unconsumed())
	require.True(t, old.ConsumedBy.Equals(acceptedID))

	hist, err := v.History(ctx, types.KindFund, "F1")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	require.Equal(t, a, hist[0].State.Fund.Owner)
	require.Equal(t, b, hist[1].State.Fund.Owner)

	stx, err := v.Transaction(ctx, acceptedID)
	require.NoError(t, err)
	require.Equal(t, accepted.Tx.Nonce, stx.Tx.Nonce)
}

func TestVaultRecordIdempotent(t *testing.T) {
	ctx := context.Background()
	v := newVault(t)

	_, a := mock.Party(t)
	_, b := mock.Party(t)
	_, notary := mock.Party(t)

	issued := issueTx(mock.Request(b, a, "F1", types.RequestRequested), mock.Fund("F1", 5, a), notary)
	require.NoError(t, v.Record(ctx, issued))
	require.NoError(t, v.Record(ctx, issued))

	funds, err := v.FindUnconsumed(ctx, types.KindFund, nil)
	require.NoError(t, err)
	require.Len(t, funds, 1)

	hist, err := v.History(ctx, types.KindFund, "F1")
	require.NoError(t, err)
	require.Len(t, hist, 1)
}

func TestVaultRejectsSecondSpend(t *testing.T) {
	ctx := context.Background()
	v := newVault(t)

	_, a := mock.Party(t)
	_, b := mock.Party(t)
	_, notary := mock.Party(t)

	issued := issueTx(mock.Request(b, a, "F1", types.RequestRequested), mock.Fund("F1", 5, a), notary)
	require.NoError(t, v.Record(ctx, issued))

	require.NoError(t, v.Record(ctx, spend(t, issued, notary)))
	require.Error(t, v.Record(ctx, spend(t, issued, notary)))
}

func TestVaultSingle(t *testing.T) {
	ctx := context.Background()
	v := newVault(t)

	_, a := mock.Party(t)
	_, b := mock.Party(t)
	_, notary := mock.Party(t)

	_, err := v.Single(ctx, types.KindFund, nil)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, v.Record(ctx, issueTx(mock.Request(b, a, "F1", types.RequestRequested), mock.Fund("F1", 5, a), notary)))
	require.NoError(t, v.Record(ctx, issueTx(mock.Request(b, a, "F1", types.RequestRequested), mock.Fund("F1", 7, a), notary)))

	_, err = v.Single(ctx, types.KindFund, func(s types.LedgerState) bool {
		return s.Fund.ExternalID == "F1"
	})
	require.ErrorIs(t, err, ErrAmbiguous)

	_, err = v.Single(ctx, types.KindFund, func(s types.LedgerState) bool {
		return s.Fund.ExternalID == "F2"
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestVaultUnknownInputKeptInHistory(t *testing.T) {
	ctx := context.Background()
	v := newVault(t)

	_, a := mock.Party(t)
	_, b := mock.Party(t)
	_, notary := mock.Party(t)

	// b never saw the issuance, only the transfer
	issued := issueTx(mock.Request(b, a, "F1", types.RequestRequested), mock.Fund("F1", 5, a), notary)
	require.NoError(t, v.Record(ctx, spend(t, issued, notary)))

	hist, err := v.History(ctx, types.KindFund, "F1")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	require.False(t, hist[0].Unconsumed())
	require.True(t, hist[1].Unconsumed())
}
