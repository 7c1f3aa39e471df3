package modules

import (
	"context"

	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/journal"
	"github.com/fundport/fundport/journal/fsjournal"
	"github.com/fundport/fundport/node/config"
	"github.com/fundport/fundport/node/modules/dtypes"
	"github.com/fundport/fundport/node/modules/helpers"
	"github.com/fundport/fundport/node/repo"
)

var log = logging.Logger("modules")

func LockedRepo(lr repo.LockedRepo) func(lc fx.Lifecycle) repo.LockedRepo {
	return func(lc fx.Lifecycle) repo.LockedRepo {
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return lr.Close()
			},
		})

		return lr
	}
}

func Datastore(mctx helpers.MetricsCtx, lr repo.LockedRepo) (dtypes.MetadataDS, error) {
	ds, err := lr.Datastore(mctx)
	if err != nil {
		return nil, xerrors.Errorf("opening metadata datastore: %w", err)
	}
	return ds, nil
}

func PrivKey(lr repo.LockedRepo) (crypto.PrivKey, error) {
	return lr.Libp2pIdentity()
}

func PeerID(sk crypto.PrivKey) (peer.ID, error) {
	return peer.IDFromPrivateKey(sk)
}

// OpenFilesystemJournal opens the journal under the repo, falling back to the
// nil journal for in-memory repos.
func OpenFilesystemJournal(lr repo.LockedRepo, lc fx.Lifecycle, disabled journal.DisabledEvents) (journal.Journal, error) {
	if lr.Path() == "" {
		return journal.NilJournal(), nil
	}

	jrnl, err := fsjournal.OpenFSJournalPath(lr.Path(), disabled)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error { return jrnl.Close() },
	})

	return jrnl, err
}

// InitJournal publishes the node journal as the process wide one.
func InitJournal(j journal.Journal) {
	journal.J = j
}

func ShutdownChan() dtypes.ShutdownChan {
	return make(chan struct{})
}

// SetLogLevels applies the configured per-subsystem levels on top of the
// process defaults.
func SetLogLevels(cfg *config.Logging) error {
	for sys, level := range cfg.SubsystemLevels {
		if err := logging.SetLogLevel(sys, level); err != nil {
			return xerrors.Errorf("setting log level of %s: %w", sys, err)
		}
	}
	return nil
}
