package impl

import (
	"context"
	"testing"

	"github.com/google/uuid"
	ds "github.com/ipfs/go-datastore"
	ds_sync "github.com/ipfs/go-datastore/sync"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fundport/fundport/ledger/contract"
	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/ledger/types/mock"
	"github.com/fundport/fundport/ledger/vault"
)

func newVault(t *testing.T) *vault.Vault {
	v, err := vault.New(ds_sync.MutexWrap(ds.NewMapDatastore()))
	require.NoError(t, err)
	return v
}

// seedVault records a transaction creating the given records, returning it.
func seedVault(t *testing.T, v *vault.Vault, notary peer.ID, states ...types.LedgerState) *types.SignedTransaction {
	stx := &types.SignedTransaction{Tx: types.WireTransaction{
		Outputs:  states,
		Commands: []types.Command{{Kind: types.CommandIssue, Signers: states[0].Participants()}},
		Notary:   notary,
		Nonce:    uuid.NewString(),
	}}
	require.NoError(t, v.Record(context.Background(), stx))
	return stx
}

func TestBuildAccept(t *testing.T) {
	ctx := context.Background()
	_, a := mock.Party(t)
	_, b := mock.Party(t)
	_, n := mock.Party(t)

	v := newVault(t)
	req := mock.Request(b, a, "F1", types.RequestRequested)
	fund := mock.Fund("F1", 5000, a)
	seeded := seedVault(t, v, n, types.LedgerState{Request: req}, types.LedgerState{Fund: fund})
	seededID, err := seeded.Cid()
	require.NoError(t, err)

	tx, err := NewBuilder(a, n, v).BuildAccept(ctx, req.LinearID)
	require.NoError(t, err)
	require.NoError(t, contract.Verify(tx))

	require.Len(t, tx.Inputs, 2)
	require.Equal(t, types.OutputRef(seededID, 0), tx.Inputs[0].Ref)
	require.Equal(t, types.OutputRef(seededID, 1), tx.Inputs[1].Ref)

	require.Equal(t, types.RequestAccepted, tx.Outputs[0].Request.Status)
	require.Equal(t, req.LinearID, tx.Outputs[0].Request.LinearID)
	require.Equal(t, b, tx.Outputs[1].Fund.Owner)
	require.True(t, fund.Balance.Equals(tx.Outputs[1].Fund.Balance))
	require.Equal(t, n, tx.Notary)

	for _, c := range tx.Commands {
		require.ElementsMatch(t, []peer.ID{a, b}, c.Signers)
	}

	// building never touches the vault
	still, err := v.Single(ctx, types.KindFund, func(s types.LedgerState) bool { return s.Fund.ExternalID == "F1" })
	require.NoError(t, err)
	require.Equal(t, a, still.State.Fund.Owner)
}

func TestBuildAcceptLookupFailures(t *testing.T) {
	ctx := context.Background()
	_, a := mock.Party(t)
	_, b := mock.Party(t)
	_, n := mock.Party(t)

	t.Run("unknown request", func(t *testing.T) {
		v := newVault(t)
		_, err := NewBuilder(a, n, v).BuildAccept(ctx, uuid.New())
		require.ErrorIs(t, err, vault.ErrNotFound)
	})

	t.Run("missing fund", func(t *testing.T) {
		v := newVault(t)
		req := mock.Request(b, a, "F1", types.RequestRequested)
		seedVault(t, v, n, types.LedgerState{Request: req})
		_, err := NewBuilder(a, n, v).BuildAccept(ctx, req.LinearID)
		require.ErrorIs(t, err, vault.ErrNotFound)
	})

	t.Run("ambiguous fund", func(t *testing.T) {
		v := newVault(t)
		req := mock.Request(b, a, "F1", types.RequestRequested)
		seedVault(t, v, n, types.LedgerState{Request: req}, types.LedgerState{Fund: mock.Fund("F1", 5000, a)})
		seedVault(t, v, n, types.LedgerState{Fund: mock.Fund("F1", 7000, a)})
		_, err := NewBuilder(a, n, v).BuildAccept(ctx, req.LinearID)
		require.ErrorIs(t, err, vault.ErrAmbiguous)
	})

	t.Run("not the requested party", func(t *testing.T) {
		v := newVault(t)
		req := mock.Request(b, a, "F1", types.RequestRequested)
		seedVault(t, v, n, types.LedgerState{Request: req}, types.LedgerState{Fund: mock.Fund("F1", 5000, a)})
		_, err := NewBuilder(b, n, v).BuildAccept(ctx, req.LinearID)
		require.ErrorIs(t, err, ErrNotParticipant)
	})
}

func TestBuildReject(t *testing.T) {
	ctx := context.Background()
	_, a := mock.Party(t)
	_, b := mock.Party(t)
	_, n := mock.Party(t)

	v := newVault(t)
	req := mock.Request(b, a, "F1", types.RequestRequested)
	seedVault(t, v, n, types.LedgerState{Request: req})

	tx, err := NewBuilder(a, n, v).BuildReject(ctx, req.LinearID)
	require.NoError(t, err)
	require.NoError(t, contract.Verify(tx))
	require.Len(t, tx.Inputs, 1)
	require.Equal(t, types.RequestRejected, tx.Outputs[0].Request.Status)
}

func TestBuildRequest(t *testing.T) {
	ctx := context.Background()
	_, a := mock.Party(t)
	_, b := mock.Party(t)
	_, n := mock.Party(t)

	bld := NewBuilder(b, n, newVault(t))
	tx, err := bld.BuildRequest(ctx, "F1", a)
	require.NoError(t, err)
	require.NoError(t, contract.Verify(tx))
	require.Empty(t, tx.Inputs)
	out := tx.Outputs[0].Request
	require.Equal(t, b, out.Requester)
	require.Equal(t, a, out.Requested)
	require.Equal(t, types.RequestRequested, out.Status)

	_, err = bld.BuildRequest(ctx, "F1", b)
	require.ErrorIs(t, err, ErrNotParticipant)
}

func TestBuildIssue(t *testing.T) {
	ctx := context.Background()
	_, a := mock.Party(t)
	_, n := mock.Party(t)

	v := newVault(t)
	bld := NewBuilder(a, n, v)
	tx, err := bld.BuildIssue(ctx, "F1", decimal.NewFromInt(5000))
	require.NoError(t, err)
	require.NoError(t, contract.Verify(tx))
	require.Equal(t, a, tx.Outputs[0].Fund.Owner)

	seedVault(t, v, n, tx.Outputs...)
	_, err = bld.BuildIssue(ctx, "F1", decimal.NewFromInt(1))
	require.ErrorIs(t, err, ErrFundExists)
}
