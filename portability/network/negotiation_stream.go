package network

import (
	"bufio"
	"time"

	cborutil "github.com/filecoin-project/go-cbor-util"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
)

// TagPriority is the priority for negotiation streams -- they should generally be preserved above all else
const TagPriority = 100

type negotiationStream struct {
	p        peer.ID
	host     host.Host
	rw       network.MuxedStream
	buffered *bufio.Reader
}

var _ NegotiationStream = (*negotiationStream)(nil)

func (n *negotiationStream) ReadProposal() (Proposal, error) {
	var p Proposal

	if err := p.UnmarshalCBOR(n.buffered); err != nil {
		log.Warn(err)
		return ProposalUndefined, err
	}

	return p, nil
}

func (n *negotiationStream) WriteProposal(p Proposal) error {
	return cborutil.WriteCborRPC(n.rw, &p)
}

func (n *negotiationStream) ReadResponse() (Response, error) {
	var r Response

	if err := r.UnmarshalCBOR(n.buffered); err != nil {
		return ResponseUndefined, err
	}

	return r, nil
}

func (n *negotiationStream) WriteResponse(r Response) error {
	return cborutil.WriteCborRPC(n.rw, &r)
}

func (n *negotiationStream) RemotePeer() peer.ID {
	return n.p
}

func (n *negotiationStream) SetDeadline(t time.Time) error {
	return n.rw.SetDeadline(t)
}

func (n *negotiationStream) Reset() error {
	return n.rw.Reset()
}

func (n *negotiationStream) Close() error {
	return n.rw.Close()
}
