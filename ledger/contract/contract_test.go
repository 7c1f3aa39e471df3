package contract

import (
	"testing"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/ledger/types/mock"
)

func TestVerifyAccept(t *testing.T) {
	_, a := mock.Party(t)
	_, b := mock.Party(t)
	_, c := mock.Party(t)
	_, notary := mock.Party(t)

	tcases := []struct {
		name        string
		expectError bool
		mutate      func(tx *types.WireTransaction)
	}{{
		name: "passes for a well formed accept",
	}, {
		name:        "fails when request already accepted",
		expectError: true,
		mutate: func(tx *types.WireTransaction) {
			tx.Inputs[0].State.Request.Status = types.RequestAccepted
		},
	}, {
		name:        "fails when request already rejected",
		expectError: true,
		mutate: func(tx *types.WireTransaction) {
			tx.Inputs[0].State.Request.Status = types.RequestRejected
		},
	}, {
		name:        "fails when output status is not accepted",
		expectError: true,
		mutate: func(tx *types.WireTransaction) {
			tx.Outputs[0].Request.Status = types.RequestRejected
		},
	}, {
		name:        "fails when balance changes",
		expectError: true,
		mutate: func(tx *types.WireTransaction) {
			tx.Outputs[1].Fund.Balance = types.NewAmount(decimal.NewFromInt(4999))
		},
	}, {
		name:        "fails when fund id changes",
		expectError: true,
		mutate: func(tx *types.WireTransaction) {
			tx.Outputs[1].Fund.ExternalID = "F2"
		},
	}, {
		name:        "fails when fund moves to someone else",
		expectError: true,
		mutate: func(tx *types.WireTransaction) {
			tx.Outputs[1].Fund.Owner = c
		},
	}, {
		name:        "fails when fund does not match the reference",
		expectError: true,
		mutate: func(tx *types.WireTransaction) {
			tx.Inputs[1].State.Fund.ExternalID = "F9"
			tx.Outputs[1].Fund.ExternalID = "F9"
		},
	}, {
		name:        "fails when requested party does not own the fund",
		expectError: true,
		mutate: func(tx *types.WireTransaction) {
			tx.Inputs[1].State.Fund.Owner = c
		},
	}, {
		name:        "fails when request body changes",
		expectError: true,
		mutate: func(tx *types.WireTransaction) {
			tx.Outputs[0].Request.FundReference = "F2"
		},
	}, {
		name:        "fails when a participant is missing from signers",
		expectError: true,
		mutate: func(tx *types.WireTransaction) {
			tx.Commands[1].Signers = []peer.ID{b}
		},
	}, {
		name:        "fails when transfer command is missing",
		expectError: true,
		mutate: func(tx *types.WireTransaction) {
			tx.Commands = tx.Commands[:1]
		},
	}, {
		name:        "fails when the same input is consumed twice",
		expectError: true,
		mutate: func(tx *types.WireTransaction) {
			tx.Inputs[1].Ref = tx.Inputs[0].Ref
		},
	}, {
		name:        "fails without a notary",
		expectError: true,
		mutate: func(tx *types.WireTransaction) {
			tx.Notary = ""
		},
	}}

	for _, tcase := range tcases {
		tcase := tcase
		t.Run(tcase.name, func(t *testing.T) {
			req := mock.Request(b, a, "F1", types.RequestRequested)
			fund := mock.Fund("F1", 5000, a)
			tx := mock.AcceptTx(t, req, fund, notary)
			if tcase.mutate != nil {
				tcase.mutate(tx)
			}

			err := Verify(tx)
			if tcase.expectError {
				require.Error(t, err)
				require.True(t, IsRejected(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestVerifyDeterministic(t *testing.T) {
	_, a := mock.Party(t)
	_, b := mock.Party(t)
	_, notary := mock.Party(t)

	tx := mock.AcceptTx(t, mock.Request(b, a, "F1", types.RequestAccepted), mock.Fund("F1", 5000, a), notary)

	first := Verify(tx)
	require.Error(t, first)
	for i := 0; i < 10; i++ {
		require.Equal(t, first.Error(), Verify(tx).Error())
	}
}

func TestVerifyRequestRejectIssue(t *testing.T) {
	_, a := mock.Party(t)
	_, b := mock.Party(t)
	_, notary := mock.Party(t)

	newReq := mock.Request(b, a, "F1", types.RequestRequested)
	requestTx := &types.WireTransaction{
		Outputs:  []types.LedgerState{{Request: newReq}},
		Commands: []types.Command{{Kind: types.CommandRequest, Signers: []peer.ID{a, b}}},
		Notary:   notary,
	}
	require.NoError(t, Verify(requestTx))

	requestTx.Commands[0].Signers = []peer.ID{b}
	require.True(t, IsRejected(Verify(requestTx)))

	selfReq := mock.Request(a, a, "F1", types.RequestRequested)
	selfTx := &types.WireTransaction{
		Outputs:  []types.LedgerState{{Request: selfReq}},
		Commands: []types.Command{{Kind: types.CommandRequest, Signers: []peer.ID{a}}},
		Notary:   notary,
	}
	require.True(t, IsRejected(Verify(selfTx)))

	rejected := *newReq
	rejected.Status = types.RequestRejected
	rejectTx := &types.WireTransaction{
		Inputs:   []types.StateAndRef{{State: types.LedgerState{Request: newReq}, Ref: mock.Ref(t, "r", 0)}},
		Outputs:  []types.LedgerState{{Request: &rejected}},
		Commands: []types.Command{{Kind: types.CommandReject, Signers: []peer.ID{a, b}}},
		Notary:   notary,
	}
	require.NoError(t, Verify(rejectTx))

	// terminal statuses never move again
	accepted := *newReq
	accepted.Status = types.RequestAccepted
	rejectTx.Inputs[0].State.Request = &accepted
	require.True(t, IsRejected(Verify(rejectTx)))

	issueTx := &types.WireTransaction{
		Outputs:  []types.LedgerState{{Fund: mock.Fund("F1", 5000, a)}},
		Commands: []types.Command{{Kind: types.CommandIssue, Signers: []peer.ID{a}}},
		Notary:   notary,
	}
	require.NoError(t, Verify(issueTx))

	issueTx.Outputs[0].Fund.Balance = types.NewAmount(decimal.NewFromInt(-1))
	require.True(t, IsRejected(Verify(issueTx)))
}
