package impl

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/ipfs/go-cid"
	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/api"
	"github.com/fundport/fundport/build"
	"github.com/fundport/fundport/ledger/contract"
	"github.com/fundport/fundport/ledger/notary"
	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/ledger/vault"
	"github.com/fundport/fundport/node/modules/dtypes"
	"github.com/fundport/fundport/portability"
	portimpl "github.com/fundport/fundport/portability/impl"
)

var log = logging.Logger("node")

// updatesBuffer bounds how far a slow NegotiationUpdates reader can lag
// before updates are dropped for it.
const updatesBuffer = 64

type FullNodeAPI struct {
	fx.In

	Host    host.Host
	Manager *portimpl.Manager
	Vault   *vault.Vault
	Notary  dtypes.NotaryID
}

var _ api.FullNode = &FullNodeAPI{}

func (a *FullNodeAPI) Version(context.Context) (api.APIVersion, error) {
	return api.APIVersion{
		Version:    build.UserVersion(),
		APIVersion: build.FullAPIVersion,
		ID:         a.Manager.ID(),
	}, nil
}

func (a *FullNodeAPI) ID(context.Context) (peer.ID, error) {
	return a.Manager.ID(), nil
}

func (a *FullNodeAPI) NetAddrsListen(context.Context) (peer.AddrInfo, error) {
	return peer.AddrInfo{
		ID:    a.Host.ID(),
		Addrs: a.Host.Addrs(),
	}, nil
}

func (a *FullNodeAPI) NetConnect(ctx context.Context, p peer.AddrInfo) error {
	return a.Host.Connect(ctx, p)
}

func (a *FullNodeAPI) NetPeers(context.Context) ([]peer.AddrInfo, error) {
	conns := a.Host.Network().Conns()
	out := make([]peer.AddrInfo, len(conns))

	for i, conn := range conns {
		out[i] = peer.AddrInfo{
			ID: conn.RemotePeer(),
			Addrs: []ma.Multiaddr{
				conn.RemoteMultiaddr(),
			},
		}
	}

	return out, nil
}

func (a *FullNodeAPI) FundIssue(ctx context.Context, externalID string, balance decimal.Decimal) (cid.Cid, error) {
	id, err := a.Manager.IssueFund(ctx, externalID, balance)
	return id, toRPCError(err)
}

func (a *FullNodeAPI) RequestCreate(ctx context.Context, fundRef string, requested peer.ID) (api.RequestCreated, error) {
	requestID, id, err := a.Manager.RequestTransfer(ctx, fundRef, requested)
	return api.RequestCreated{RequestID: requestID, Proposal: id}, toRPCError(err)
}

func (a *FullNodeAPI) RequestAccept(ctx context.Context, requestID uuid.UUID) (cid.Cid, error) {
	id, err := a.Manager.InitiateTransfer(ctx, requestID)
	return id, toRPCError(err)
}

func (a *FullNodeAPI) RequestReject(ctx context.Context, requestID uuid.UUID) (cid.Cid, error) {
	id, err := a.Manager.RejectRequest(ctx, requestID)
	return id, toRPCError(err)
}

func (a *FullNodeAPI) VaultList(ctx context.Context, kind types.StateKind) ([]types.StateAndRef, error) {
	switch kind {
	case types.KindFund, types.KindRequest:
	default:
		return nil, xerrors.Errorf("unknown record kind %q", kind)
	}
	return a.Vault.FindUnconsumed(ctx, kind, nil)
}

func (a *FullNodeAPI) VaultHistory(ctx context.Context, kind types.StateKind, linearID string) ([]vault.StoredState, error) {
	out, err := a.Vault.History(ctx, kind, linearID)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, api.NewErrNotFound(xerrors.Errorf("no %s record %s", kind, linearID))
	}
	return out, nil
}

func (a *FullNodeAPI) VaultTransaction(ctx context.Context, txid cid.Cid) (*types.SignedTransaction, error) {
	stx, err := a.Vault.Transaction(ctx, txid)
	return stx, toRPCError(err)
}

func (a *FullNodeAPI) NegotiationList(context.Context) ([]portability.Negotiation, error) {
	return a.Manager.ListNegotiations()
}

func (a *FullNodeAPI) NegotiationGet(_ context.Context, proposal cid.Cid) (*portability.Negotiation, error) {
	neg, err := a.Manager.GetNegotiation(proposal)
	if err != nil {
		return nil, toRPCError(err)
	}
	return &neg, nil
}

func (a *FullNodeAPI) NegotiationResume(ctx context.Context, proposal cid.Cid) error {
	return toRPCError(a.Manager.Resume(ctx, proposal))
}

func (a *FullNodeAPI) NegotiationCancel(ctx context.Context, proposal cid.Cid) error {
	return toRPCError(a.Manager.Cancel(ctx, proposal))
}

func (a *FullNodeAPI) NegotiationUpdates(ctx context.Context) (<-chan api.NegotiationUpdate, error) {
	out := make(chan api.NegotiationUpdate, updatesBuffer)

	var lk sync.Mutex
	closed := false

	unsub := a.Manager.SubscribeToEvents(func(evt portability.NegotiationEvent, neg portability.Negotiation) {
		lk.Lock()
		defer lk.Unlock()
		if closed {
			return
		}
		select {
		case out <- api.NegotiationUpdate{Event: evt.String(), Negotiation: neg}:
		default:
			log.Warnw("dropping negotiation update for slow subscriber", "proposal cid", neg.ProposalCid, "event", evt)
		}
	})

	go func() {
		<-ctx.Done()
		unsub()

		lk.Lock()
		closed = true
		close(out)
		lk.Unlock()
	}()

	return out, nil
}

func (a *FullNodeAPI) NotaryID(context.Context) (peer.ID, error) {
	return peer.ID(a.Notary), nil
}

// toRPCError maps negotiation failures to the error types registered with
// the RPC layer so clients can tell them apart.
func toRPCError(err error) error {
	if err == nil {
		return nil
	}

	if ce, ok := notary.IsConflict(err); ok {
		return api.NewErrConflict(ce)
	}
	if _, ok := portability.IsInfrastructure(err); ok {
		return api.NewErrInfrastructure(err)
	}

	switch {
	case contract.IsRejected(err), xerrors.Is(err, portability.ErrNotaryRejected):
		return api.NewErrRejected(err)
	case portability.IsRejectedRemote(err):
		return api.NewErrRejectedRemote(err)
	case xerrors.Is(err, portability.ErrTimedOut):
		return api.NewErrTimedOut(err)
	case xerrors.Is(err, portability.ErrCancelled):
		return api.NewErrCancelled(err)
	case xerrors.Is(err, portability.ErrNotCancellable):
		return api.NewErrNotCancellable(err)
	case xerrors.Is(err, portability.ErrUnknownNegotiation),
		xerrors.Is(err, vault.ErrNotFound):
		return api.NewErrNotFound(err)
	case xerrors.Is(err, vault.ErrAmbiguous):
		return api.NewErrAmbiguous(err)
	}
	return err
}
