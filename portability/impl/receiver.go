package impl

import (
	"time"

	"github.com/fundport/fundport/portability/network"
)

// streamTimeout bounds how long an inbound stream may stay open.
const streamTimeout = 30 * time.Second

type receiver struct {
	m *Manager
}

var _ network.PortabilityReceiver = &receiver{}

func (r *receiver) HandleNegotiationStream(s network.NegotiationStream) {
	defer s.Close() //nolint:errcheck
	_ = s.SetDeadline(time.Now().Add(streamTimeout))

	proposal, err := s.ReadProposal()
	if err != nil {
		log.Warnw("reading proposal", "from", s.RemotePeer(), "error", err)
		_ = s.Reset()
		return
	}

	resp := r.m.acceptor.OnIncomingProposal(r.m.ctx, s.RemotePeer(), proposal)
	if err := s.WriteResponse(resp); err != nil {
		log.Warnw("writing response", "to", s.RemotePeer(), "proposal cid", proposal.ProposalCid, "error", err)
		_ = s.Reset()
	}
}

func (r *receiver) HandleFinalityStream(s network.FinalityStream) {
	defer s.Close() //nolint:errcheck
	_ = s.SetDeadline(time.Now().Add(streamTimeout))

	msg, err := s.ReadFinality()
	if err != nil {
		log.Warnw("reading finality message", "from", s.RemotePeer(), "error", err)
		_ = s.Reset()
		return
	}

	ack := r.m.acceptor.OnFinality(r.m.ctx, s.RemotePeer(), msg)
	if err := s.WriteAck(ack); err != nil {
		log.Warnw("writing finality ack", "to", s.RemotePeer(), "error", err)
		_ = s.Reset()
	}
}
