package network

import (
	"context"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
)

// These are the required interfaces that must be implemented to send and
// receive data for negotiations.

// NegotiationStream is a stream for reading and writing proposals and
// responses on the negotiate protocol
type NegotiationStream interface {
	ReadProposal() (Proposal, error)
	WriteProposal(Proposal) error
	ReadResponse() (Response, error)
	WriteResponse(Response) error
	RemotePeer() peer.ID
	SetDeadline(time.Time) error
	Reset() error
	Close() error
}

// FinalityStream is a stream for delivering finalized transactions and
// reading acknowledgements on the finality protocol
type FinalityStream interface {
	ReadFinality() (FinalityMessage, error)
	WriteFinality(FinalityMessage) error
	ReadAck() (FinalityAck, error)
	WriteAck(FinalityAck) error
	RemotePeer() peer.ID
	SetDeadline(time.Time) error
	Reset() error
	Close() error
}

// PortabilityReceiver implements functions for receiving
// incoming data on portability protocols
type PortabilityReceiver interface {
	HandleNegotiationStream(NegotiationStream)
	HandleFinalityStream(FinalityStream)
}

// PortabilityNetwork is a network abstraction for fund portability
type PortabilityNetwork interface {
	NewNegotiationStream(context.Context, peer.ID) (NegotiationStream, error)
	NewFinalityStream(context.Context, peer.ID) (FinalityStream, error)
	SetDelegate(PortabilityReceiver) error
	StopHandlingRequests() error
	ID() peer.ID
	AddAddrs(peer.ID, []ma.Multiaddr)

	PeerTagger
}

// PeerTagger implements arbitrary tagging of peers
type PeerTagger interface {
	TagPeer(peer.ID, string)
	UntagPeer(peer.ID, string)
}
