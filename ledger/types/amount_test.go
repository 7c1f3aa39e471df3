package types

import (
	"bytes"
	"testing"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	cbg "github.com/whyrusleeping/cbor-gen"
)

func TestAmountCBOR(t *testing.T) {
	a, err := AmountFromString("12.50")
	require.NoError(t, err)
	b := NewAmount(decimal.RequireFromString("12.5"))

	var abuf, bbuf bytes.Buffer
	require.NoError(t, a.MarshalCBOR(&abuf))
	require.NoError(t, b.MarshalCBOR(&bbuf))
	require.Equal(t, abuf.Bytes(), bbuf.Bytes(), "equal amounts must encode identically")

	var out Amount
	require.NoError(t, out.UnmarshalCBOR(bytes.NewReader(abuf.Bytes())))
	require.True(t, out.Equals(a))
	require.Equal(t, "12.5", out.String())
}

func TestAmountRejectsGarbage(t *testing.T) {
	var buf bytes.Buffer
	cw := cbg.NewCborWriter(&buf)
	require.NoError(t, cw.WriteMajorTypeHeader(cbg.MajTextString, 4))
	_, err := cw.WriteString("lots")
	require.NoError(t, err)

	var out Amount
	require.Error(t, out.UnmarshalCBOR(bytes.NewReader(buf.Bytes())))

	_, err = AmountFromString("lots")
	require.Error(t, err)
}

func TestFundStateCBOR(t *testing.T) {
	fund := &FundState{
		ExternalID: "F1",
		Balance:    NewAmount(decimal.RequireFromString("-0.001")),
		Owner:      peer.ID("owner"),
	}

	var buf bytes.Buffer
	require.NoError(t, fund.MarshalCBOR(&buf))

	var out FundState
	require.NoError(t, out.UnmarshalCBOR(bytes.NewReader(buf.Bytes())))
	require.Equal(t, fund.ExternalID, out.ExternalID)
	require.Equal(t, fund.Owner, out.Owner)
	require.True(t, fund.Balance.Equals(out.Balance))
	require.True(t, out.Balance.IsNegative())
}
