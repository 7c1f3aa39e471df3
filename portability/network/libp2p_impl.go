package network

import (
	"bufio"
	"context"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/peerstore"
	"github.com/libp2p/go-libp2p/core/protocol"
	ma "github.com/multiformats/go-multiaddr"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/lib/retrystream"
)

var log = logging.Logger("portnet")

const (
	// NegotiateProtocolID is the protocol for proposing transactions to a
	// counterparty and collecting its endorsement
	NegotiateProtocolID = protocol.ID("/fundport/negotiate/1.0.0")

	// FinalityProtocolID is the protocol for delivering notarised
	// transactions to participants
	FinalityProtocolID = protocol.ID("/fundport/finality/1.0.0")
)

// Option is an option for configuring the libp2p portability network
type Option func(impl *libp2pPortabilityNetwork)

// RetryParameters changes the default parameters around connection reopening
func RetryParameters(minDuration time.Duration, maxDuration time.Duration, attempts float64, backoffFactor float64) Option {
	return func(impl *libp2pPortabilityNetwork) {
		impl.retryStream.SetOptions(retrystream.RetryParameters(minDuration, maxDuration, attempts, backoffFactor))
	}
}

// NewFromLibp2pHost builds a portability network on top of libp2p
func NewFromLibp2pHost(h host.Host, options ...Option) PortabilityNetwork {
	impl := &libp2pPortabilityNetwork{
		host:        h,
		retryStream: retrystream.New(h),
	}
	for _, option := range options {
		option(impl)
	}
	return impl
}

// libp2pPortabilityNetwork transforms the libp2p host interface to a
// PortabilityNetwork interface
type libp2pPortabilityNetwork struct {
	host        host.Host
	retryStream *retrystream.RetryStream
	// inbound messages from the network are forwarded to the receiver
	receiver PortabilityReceiver
}

func (impl *libp2pPortabilityNetwork) NewNegotiationStream(ctx context.Context, id peer.ID) (NegotiationStream, error) {
	s, err := impl.retryStream.OpenStream(ctx, id, []protocol.ID{NegotiateProtocolID})
	if err != nil {
		return nil, xerrors.Errorf("opening negotiation stream to %s: %w", id, err)
	}
	buffered := bufio.NewReaderSize(s, 16)
	return &negotiationStream{p: id, rw: s, buffered: buffered, host: impl.host}, nil
}

func (impl *libp2pPortabilityNetwork) NewFinalityStream(ctx context.Context, id peer.ID) (FinalityStream, error) {
	s, err := impl.retryStream.OpenStream(ctx, id, []protocol.ID{FinalityProtocolID})
	if err != nil {
		return nil, xerrors.Errorf("opening finality stream to %s: %w", id, err)
	}
	buffered := bufio.NewReaderSize(s, 16)
	return &finalityStream{p: id, rw: s, buffered: buffered, host: impl.host}, nil
}

func (impl *libp2pPortabilityNetwork) SetDelegate(r PortabilityReceiver) error {
	impl.receiver = r
	impl.host.SetStreamHandler(NegotiateProtocolID, impl.handleNewNegotiationStream)
	impl.host.SetStreamHandler(FinalityProtocolID, impl.handleNewFinalityStream)
	return nil
}

func (impl *libp2pPortabilityNetwork) StopHandlingRequests() error {
	impl.receiver = nil
	impl.host.RemoveStreamHandler(NegotiateProtocolID)
	impl.host.RemoveStreamHandler(FinalityProtocolID)
	return nil
}

func (impl *libp2pPortabilityNetwork) handleNewNegotiationStream(s network.Stream) {
	reader := impl.getReaderOrReset(s)
	if reader != nil {
		remotePID := s.Conn().RemotePeer()
		ns := &negotiationStream{p: remotePID, rw: s, buffered: reader, host: impl.host}
		impl.receiver.HandleNegotiationStream(ns)
	}
}

func (impl *libp2pPortabilityNetwork) handleNewFinalityStream(s network.Stream) {
	reader := impl.getReaderOrReset(s)
	if reader != nil {
		remotePID := s.Conn().RemotePeer()
		fs := &finalityStream{p: remotePID, rw: s, buffered: reader, host: impl.host}
		impl.receiver.HandleFinalityStream(fs)
	}
}

func (impl *libp2pPortabilityNetwork) getReaderOrReset(s network.Stream) *bufio.Reader {
	if impl.receiver == nil {
		log.Warn("no receiver set")
		s.Reset() // nolint: errcheck,gosec
		return nil
	}
	return bufio.NewReaderSize(s, 16)
}

func (impl *libp2pPortabilityNetwork) ID() peer.ID {
	return impl.host.ID()
}

func (impl *libp2pPortabilityNetwork) AddAddrs(p peer.ID, addrs []ma.Multiaddr) {
	impl.host.Peerstore().AddAddrs(p, addrs, peerstore.PermanentAddrTTL)
}

func (impl *libp2pPortabilityNetwork) TagPeer(p peer.ID, id string) {
	impl.host.ConnManager().TagPeer(p, id, TagPriority)
}

func (impl *libp2pPortabilityNetwork) UntagPeer(p peer.ID, id string) {
	impl.host.ConnManager().UntagPeer(p, id)
}
