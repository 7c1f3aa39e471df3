package lp2p

import (
	"context"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/p2p/net/connmgr"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/build"
	"github.com/fundport/fundport/node/config"
	"github.com/fundport/fundport/node/modules/helpers"
)

var log = logging.Logger("p2pnode")

const bootstrapTimeout = 30 * time.Second

func Host(mctx helpers.MetricsCtx, lc fx.Lifecycle, sk crypto.PrivKey, cfg *config.Libp2p) (host.Host, error) {
	cm, err := connmgr.NewConnManager(int(cfg.ConnMgrLow), int(cfg.ConnMgrHigh), connmgr.WithGracePeriod(time.Duration(cfg.ConnMgrGrace)))
	if err != nil {
		return nil, xerrors.Errorf("creating connection manager: %w", err)
	}

	h, err := libp2p.New(
		libp2p.Identity(sk),
		libp2p.ListenAddrStrings(cfg.ListenAddresses...),
		libp2p.ConnectionManager(cm),
		libp2p.Ping(true),
		libp2p.UserAgent(build.UserAgent()),
	)
	if err != nil {
		return nil, xerrors.Errorf("creating libp2p host: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return h.Close()
		},
	})

	log.Infow("libp2p host up", "peer", h.ID(), "addrs", h.Addrs())
	return h, nil
}

// Bootstrap dials the configured peers once the node starts. Peers that
// cannot be reached are logged and skipped.
func Bootstrap(mctx helpers.MetricsCtx, lc fx.Lifecycle, h host.Host, cfg *config.Libp2p) error {
	peers, err := ParseAddrInfos(cfg.BootstrapPeers)
	if err != nil {
		return xerrors.Errorf("parsing bootstrap peers: %w", err)
	}
	if len(peers) == 0 {
		return nil
	}

	ctx := helpers.LifecycleCtx(mctx, lc)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go connectAll(ctx, h, peers)
			return nil
		},
	})
	return nil
}

func connectAll(ctx context.Context, h host.Host, peers []peer.AddrInfo) {
	ctx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
	defer cancel()

	var eg errgroup.Group
	for _, pi := range peers {
		pi := pi
		eg.Go(func() error {
			if err := h.Connect(ctx, pi); err != nil {
				log.Warnw("failed to connect to bootstrap peer", "peer", pi.ID, "error", err)
			}
			return nil
		})
	}
	_ = eg.Wait()
}

func ParseAddrInfos(addrs []string) ([]peer.AddrInfo, error) {
	out := make([]peer.AddrInfo, 0, len(addrs))
	for _, a := range addrs {
		pi, err := peer.AddrInfoFromString(a)
		if err != nil {
			return nil, xerrors.Errorf("%q: %w", a, err)
		}
		out = append(out, *pi)
	}
	return out, nil
}
