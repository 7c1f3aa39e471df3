package modules

import (
	"context"
	"time"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/peerstore"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/ledger/notary"
	"github.com/fundport/fundport/ledger/vault"
	"github.com/fundport/fundport/lib/retrystream"
	"github.com/fundport/fundport/node/config"
	"github.com/fundport/fundport/node/modules/dtypes"
	"github.com/fundport/fundport/node/modules/helpers"
)

func Vault(ds dtypes.MetadataDS) (*vault.Vault, error) {
	return vault.New(ds)
}

// LocalNotary runs the sequencing authority inside this node, signing with
// the node's own key, and serves it to other nodes over libp2p.
func LocalNotary(mctx helpers.MetricsCtx, lc fx.Lifecycle, ds dtypes.MetadataDS, sk crypto.PrivKey, h host.Host) (*notary.Service, error) {
	svc, err := notary.NewService(mctx, ds, sk)
	if err != nil {
		return nil, xerrors.Errorf("starting local notary: %w", err)
	}

	srv := notary.NewServer(h, svc)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			srv.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			srv.Stop()
			return nil
		},
	})
	return svc, nil
}

func LocalNotaryID(svc *notary.Service) dtypes.NotaryID {
	return dtypes.NotaryID(svc.ID())
}

func remoteNotaryInfo(cfg *config.Notary) (*peer.AddrInfo, error) {
	pi, err := peer.AddrInfoFromString(cfg.Peer)
	if err != nil {
		return nil, xerrors.Errorf("parsing notary address %q: %w", cfg.Peer, err)
	}
	return pi, nil
}

// RemoteNotary talks to the notary named in the config through a circuit
// breaker.
func RemoteNotary(h host.Host, cfg *config.Notary, pcfg *config.Portability) (notary.Notary, error) {
	pi, err := remoteNotaryInfo(cfg)
	if err != nil {
		return nil, err
	}
	h.Peerstore().AddAddrs(pi.ID, pi.Addrs, peerstore.PermanentAddrTTL)

	return notary.NewClient(h, pi.ID,
		notary.WithBreaker(notary.BreakerSettings{
			MaxRequests:         cfg.BreakerMaxRequests,
			Interval:            time.Duration(cfg.BreakerInterval),
			Timeout:             time.Duration(cfg.BreakerTimeout),
			ConsecutiveFailures: cfg.BreakerConsecutiveFailures,
		}),
		notary.WithRequestTimeout(time.Duration(cfg.RequestTimeout)),
		notary.WithRetry(streamRetry(pcfg)),
	), nil
}

func RemoteNotaryID(cfg *config.Notary) (dtypes.NotaryID, error) {
	pi, err := remoteNotaryInfo(cfg)
	if err != nil {
		return "", err
	}
	return dtypes.NotaryID(pi.ID), nil
}

func streamRetry(cfg *config.Portability) retrystream.Option {
	return retrystream.RetryParameters(
		time.Duration(cfg.StreamOpenMinBackoff),
		time.Duration(cfg.StreamOpenMaxBackoff),
		cfg.StreamOpenAttempts,
		5,
	)
}
