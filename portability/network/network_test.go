package network_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/libp2p/go-libp2p/core/peer"
	mocknet "github.com/libp2p/go-libp2p/p2p/net/mock"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/require"

	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/ledger/types/mock"
	"github.com/fundport/fundport/portability/network"
)

type testReceiver struct {
	t           *testing.T
	proposals   chan network.Proposal
	finalities  chan network.FinalityMessage
	remotePeers chan peer.ID
}

var _ network.PortabilityReceiver = (*testReceiver)(nil)

func newTestReceiver(t *testing.T) *testReceiver {
	return &testReceiver{
		t:           t,
		proposals:   make(chan network.Proposal, 1),
		finalities:  make(chan network.FinalityMessage, 1),
		remotePeers: make(chan peer.ID, 2),
	}
}

func (r *testReceiver) HandleNegotiationStream(s network.NegotiationStream) {
	defer s.Close() //nolint:errcheck

	p, err := s.ReadProposal()
	require.NoError(r.t, err)
	r.proposals <- p
	r.remotePeers <- s.RemotePeer()

	require.NoError(r.t, s.WriteResponse(network.Response{
		Status:      network.ResponseRejected,
		ProposalCid: p.ProposalCid,
		Message:     "not today",
	}))
}

func (r *testReceiver) HandleFinalityStream(s network.FinalityStream) {
	defer s.Close() //nolint:errcheck

	m, err := s.ReadFinality()
	require.NoError(r.t, err)
	r.finalities <- m
	r.remotePeers <- s.RemotePeer()

	require.NoError(r.t, s.WriteAck(network.FinalityAck{Status: network.AckRecorded}))
}

func setupNetworks(t *testing.T) (network.PortabilityNetwork, network.PortabilityNetwork) {
	mn := mocknet.New()
	t.Cleanup(func() { _ = mn.Close() })

	skA, _ := mock.Party(t)
	skB, _ := mock.Party(t)
	hA, err := mn.AddPeer(skA, ma.StringCast("/ip4/127.0.0.1/tcp/6001"))
	require.NoError(t, err)
	hB, err := mn.AddPeer(skB, ma.StringCast("/ip4/127.0.0.1/tcp/6002"))
	require.NoError(t, err)
	require.NoError(t, mn.LinkAll())
	require.NoError(t, mn.ConnectAllButSelf())

	return network.NewFromLibp2pHost(hA), network.NewFromLibp2pHost(hB)
}

func testTx(t *testing.T, notary peer.ID) types.SignedTransaction {
	_, a := mock.Party(t)
	_, b := mock.Party(t)
	req := mock.Request(b, a, "F1", types.RequestRequested)
	return types.SignedTransaction{Tx: *mock.AcceptTx(t, req, mock.Fund("F1", 5000, a), notary)}
}

func TestNegotiationRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	netA, netB := setupNetworks(t)
	receiver := newTestReceiver(t)
	require.NoError(t, netB.SetDelegate(receiver))

	stx := testTx(t, netB.ID())
	txid, err := stx.Cid()
	require.NoError(t, err)

	s, err := netA.NewNegotiationStream(ctx, netB.ID())
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck

	require.NoError(t, s.WriteProposal(network.Proposal{Tx: stx, ProposalCid: txid}))

	resp, err := s.ReadResponse()
	require.NoError(t, err)
	require.Equal(t, network.ResponseRejected, resp.Status)
	require.Equal(t, "not today", resp.Message)
	require.True(t, resp.ProposalCid.Equals(txid))

	got := <-receiver.proposals
	gotID, err := got.Tx.Cid()
	require.NoError(t, err)
	require.True(t, gotID.Equals(txid))
	require.Equal(t, netA.ID(), <-receiver.remotePeers)
}

func TestFinalityRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	netA, netB := setupNetworks(t)
	receiver := newTestReceiver(t)
	require.NoError(t, netB.SetDelegate(receiver))

	stx := testTx(t, netA.ID())
	stx.Tx.Nonce = uuid.NewString()

	s, err := netA.NewFinalityStream(ctx, netB.ID())
	require.NoError(t, err)
	defer s.Close() //nolint:errcheck

	require.NoError(t, s.WriteFinality(network.FinalityMessage{Tx: stx}))
	ack, err := s.ReadAck()
	require.NoError(t, err)
	require.Equal(t, network.AckRecorded, ack.Status)

	got := <-receiver.finalities
	require.Equal(t, stx.Tx.Nonce, got.Tx.Tx.Nonce)
}
