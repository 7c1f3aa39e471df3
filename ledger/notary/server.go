package notary

import (
	"bufio"
	"context"
	"time"

	cborutil "github.com/filecoin-project/go-cbor-util"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/ledger/types"
)

const defaultStreamTimeout = time.Minute

// Server answers notarisation requests from other peers on ProtocolID.
type Server struct {
	host    host.Host
	notary  Notary
	timeout time.Duration
}

func NewServer(h host.Host, n Notary) *Server {
	return &Server{host: h, notary: n, timeout: defaultStreamTimeout}
}

func (s *Server) Start() {
	s.host.SetStreamHandler(ProtocolID, s.handleStream)
	log.Infow("notary serving", "peer", s.host.ID(), "protocol", ProtocolID)
}

func (s *Server) Stop() {
	s.host.RemoveStreamHandler(ProtocolID)
}

func (s *Server) handleStream(st network.Stream) {
	defer st.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	_ = st.SetDeadline(time.Now().Add(s.timeout))

	var req NotariseRequest
	if err := cborutil.ReadCborRPC(bufio.NewReader(st), &req); err != nil {
		log.Warnw("reading notarise request", "peer", st.Conn().RemotePeer(), "error", err)
		_ = st.Reset()
		return
	}

	resp := s.respond(ctx, &req.Tx)
	if err := cborutil.WriteCborRPC(st, resp); err != nil {
		log.Warnw("writing notarise response", "peer", st.Conn().RemotePeer(), "error", err)
		_ = st.Reset()
	}
}

func (s *Server) respond(ctx context.Context, stx *types.SignedTransaction) *NotariseResponse {
	sig, err := s.notary.Notarise(ctx, stx)
	if err == nil {
		return &NotariseResponse{Status: ResponseNotarised, Signature: sig}
	}

	if ce, ok := IsConflict(err); ok {
		return &NotariseResponse{Status: ResponseConflict, Conflicts: ce.Conflicts, Message: err.Error()}
	}
	if xerrors.Is(err, ErrInvalid) || xerrors.Is(err, ErrWrongNotary) {
		return &NotariseResponse{Status: ResponseInvalid, Message: err.Error()}
	}

	log.Errorw("notarisation failed", "error", err)
	return &NotariseResponse{Status: ResponseError, Message: err.Error()}
}
