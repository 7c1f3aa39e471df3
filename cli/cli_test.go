package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/ipfs/go-cid"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multihash"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/fundport/fundport/api"
	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/portability"
)

func testCid(t *testing.T, data string) cid.Cid {
	c, err := cid.V1Builder{Codec: cid.Raw, MhType: multihash.SHA2_256}.Sum([]byte(data))
	require.NoError(t, err)
	return c
}

func runCmd(t *testing.T, node api.FullNode, args ...string) (string, error) {
	color.NoColor = true

	out := new(bytes.Buffer)
	app := &cli.App{
		Name:      "fundport",
		Writer:    out,
		ErrWriter: out,
		Metadata: map[string]interface{}{
			metadataAPI:     APIConnector(func() api.FullNode { return node }),
			metadataContext: context.Background(),
		},
		Commands: Commands,
	}
	err := app.Run(append([]string{"fundport"}, args...))
	return out.String(), err
}

func TestFundIssue(t *testing.T) {
	txid := testCid(t, "issue")

	var gotID string
	var gotBalance decimal.Decimal
	node := &api.FullNodeStruct{}
	node.Internal.FundIssue = func(_ context.Context, externalID string, balance decimal.Decimal) (cid.Cid, error) {
		gotID, gotBalance = externalID, balance
		return txid, nil
	}

	out, err := runCmd(t, node, "fund", "issue", "F-1", "12.50")
	require.NoError(t, err)
	require.Equal(t, "F-1", gotID)
	require.True(t, gotBalance.Equal(decimal.RequireFromString("12.5")))
	require.Contains(t, out, txid.String())

	_, err = runCmd(t, node, "fund", "issue", "F-1", "ten")
	require.ErrorIs(t, err, &PrintHelpErr{})

	_, err = runCmd(t, node, "fund", "issue", "F-1")
	require.ErrorIs(t, err, &PrintHelpErr{})
}

func TestRequestSettle(t *testing.T) {
	requestID := uuid.New()
	txid := testCid(t, "settle")

	var accepted, rejected []uuid.UUID
	node := &api.FullNodeStruct{}
	node.Internal.RequestAccept = func(_ context.Context, id uuid.UUID) (cid.Cid, error) {
		accepted = append(accepted, id)
		return txid, nil
	}
	node.Internal.RequestReject = func(_ context.Context, id uuid.UUID) (cid.Cid, error) {
		rejected = append(rejected, id)
		return txid, nil
	}

	out, err := runCmd(t, node, "request", "accept", requestID.String())
	require.NoError(t, err)
	require.Contains(t, out, "accepted")
	require.Equal(t, []uuid.UUID{requestID}, accepted)

	out, err = runCmd(t, node, "request", "reject", requestID.String())
	require.NoError(t, err)
	require.Contains(t, out, "rejected")
	require.Equal(t, []uuid.UUID{requestID}, rejected)

	_, err = runCmd(t, node, "request", "accept", "not-a-uuid")
	require.ErrorIs(t, err, &PrintHelpErr{})
	require.Len(t, accepted, 1)
}

func TestVaultListKind(t *testing.T) {
	owner := peer.ID("owner")

	var gotKind types.StateKind
	node := &api.FullNodeStruct{}
	node.Internal.VaultList = func(_ context.Context, kind types.StateKind) ([]types.StateAndRef, error) {
		gotKind = kind
		return []types.StateAndRef{{
			State: types.LedgerState{Fund: &types.FundState{
				ExternalID: "F-7",
				Balance:    types.NewAmount(decimal.NewFromInt(40)),
				Owner:      owner,
			}},
			Ref: types.StateRef{Tx: testCid(t, "fund"), Index: 0},
		}}, nil
	}

	out, err := runCmd(t, node, "vault", "list")
	require.NoError(t, err)
	require.Equal(t, types.KindFund, gotKind)
	require.Contains(t, out, "F-7")
	require.Contains(t, out, "40")

	_, err = runCmd(t, node, "vault", "list", "--kind", "request")
	require.NoError(t, err)
	require.Equal(t, types.KindRequest, gotKind)

	_, err = runCmd(t, node, "vault", "list", "--kind", "bond")
	require.ErrorIs(t, err, &PrintHelpErr{})
}

func TestNegotiationListActive(t *testing.T) {
	done := portability.Negotiation{
		ProposalCid: testCid(t, "done"),
		Kind:        portability.FlowIssue,
		Subject:     "F-1",
		Status:      portability.StatusCommitted,
		CreatedAt:   1,
	}
	pending := portability.Negotiation{
		ProposalCid: testCid(t, "pending"),
		Kind:        portability.FlowRequest,
		Subject:     "F-2",
		Status:      portability.StatusSent,
		CreatedAt:   2,
	}

	node := &api.FullNodeStruct{}
	node.Internal.NegotiationList = func(context.Context) ([]portability.Negotiation, error) {
		return []portability.Negotiation{pending, done}, nil
	}

	out, err := runCmd(t, node, "negotiation", "list")
	require.NoError(t, err)
	require.Contains(t, out, done.ProposalCid.String())
	require.Contains(t, out, pending.ProposalCid.String())

	out, err = runCmd(t, node, "negotiation", "list", "--active")
	require.NoError(t, err)
	require.NotContains(t, out, done.ProposalCid.String())
	require.Contains(t, out, pending.ProposalCid.String())
}
