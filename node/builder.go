package node

import (
	"context"
	"errors"

	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/api"
	"github.com/fundport/fundport/journal"
	"github.com/fundport/fundport/ledger/notary"
	"github.com/fundport/fundport/ledger/vault"
	"github.com/fundport/fundport/node/config"
	"github.com/fundport/fundport/node/impl"
	"github.com/fundport/fundport/node/modules"
	"github.com/fundport/fundport/node/modules/dtypes"
	"github.com/fundport/fundport/node/modules/helpers"
	"github.com/fundport/fundport/node/modules/lp2p"
	"github.com/fundport/fundport/node/repo"
	portimpl "github.com/fundport/fundport/portability/impl"
	"github.com/fundport/fundport/portability/network"
)

var log = logging.Logger("builder")

// special is a type used to give keys to modules which
// can't really be identified by the returned type
type special struct{ id int }

type invoke int

// Invokes are called in the order they are defined.
//
//nolint:golint
const (
	// InitJournal at position 0 initializes the journal global var as soon as
	// the system starts, so that it's available for all other components.
	InitJournalKey = invoke(iota)

	SetLogLevelsKey

	// libp2p
	BootstrapKey

	// portability
	StartManagerKey

	// daemon
	ExtractApiKey
	SetApiEndpointKey

	_nInvokes // keep this last
)

type Settings struct {
	// modules is a map of constructors for DI
	//
	// In most cases the index will be a reflect. Type of element returned by
	// the constructor, but for some 'constructors' it's hard to specify what's
	// the return type should be (or the constructor returns fx group)
	modules map[interface{}]fx.Option

	// invokes are separate from modules as they can't be referenced by return
	// type, and must be applied in correct order
	invokes []fx.Option

	Online bool // Online option applied
	Config bool // Config option applied
}

func defaults() []Option {
	return []Option{
		// global system journal.
		Override(new(journal.DisabledEvents), journal.EnvDisabledEvents),
		Override(new(journal.Journal), modules.OpenFilesystemJournal),
		Override(InitJournalKey, modules.InitJournal),

		Override(new(helpers.MetricsCtx), func() context.Context {
			return context.Background()
		}),
		Override(new(dtypes.ShutdownChan), modules.ShutdownChan),
	}
}

// Online sets up the libp2p host and everything that talks over it
func Online() Option {
	return Options(
		// make sure that online is applied before Config.
		// This is important because Config overrides some of Online units
		func(s *Settings) error { s.Online = true; return nil },
		ApplyIf(func(s *Settings) bool { return s.Config },
			Error(errors.New("the Online option must be set before Config option")),
		),

		Override(new(host.Host), lp2p.Host),
		Override(BootstrapKey, lp2p.Bootstrap),

		Override(new(*vault.Vault), modules.Vault),

		Override(new(network.PortabilityNetwork), modules.PortabilityNetwork),
		Override(new(*portimpl.Manager), modules.PortabilityManager),
		Override(StartManagerKey, func(*portimpl.Manager) {}),
	)
}

// ConfigNode applies the sections of a node config to the units that read
// them
func ConfigNode(cfg *config.Node) Option {
	return Options(
		func(s *Settings) error { s.Config = true; return nil },
		Override(new(*config.Node), cfg),
		Override(new(*config.Libp2p), &cfg.Libp2p),
		Override(new(*config.Notary), &cfg.Notary),
		Override(new(*config.Portability), &cfg.Portability),
		Override(new(*config.Logging), &cfg.Logging),
		Override(SetLogLevelsKey, modules.SetLogLevels),

		If(cfg.Notary.Mode == config.NotaryLocal,
			Override(new(*notary.Service), modules.LocalNotary),
			Override(new(notary.Notary), From(new(*notary.Service))),
			Override(new(dtypes.NotaryID), modules.LocalNotaryID),
		),
		If(cfg.Notary.Mode == config.NotaryRemote,
			Override(new(notary.Notary), modules.RemoteNotary),
			Override(new(dtypes.NotaryID), modules.RemoteNotaryID),
		),
	)
}

// Repo opens r and wires its config, datastore and identity into the node
func Repo(r repo.Repo) Option {
	return func(settings *Settings) error {
		lr, err := r.Lock()
		if err != nil {
			return err
		}
		c, err := lr.Config()
		if err != nil {
			return err
		}

		return Options(
			Override(new(repo.LockedRepo), modules.LockedRepo(lr)), // module handles closing

			Override(new(dtypes.MetadataDS), modules.Datastore),
			Override(new(crypto.PrivKey), modules.PrivKey),
			Override(new(peer.ID), modules.PeerID),

			ConfigNode(c),
		)(settings)
	}
}

// FullAPI populates out with the node API once the node is constructed
func FullAPI(out *api.FullNode) Option {
	return func(s *Settings) error {
		resAPI := &impl.FullNodeAPI{}
		s.invokes[ExtractApiKey] = fx.Populate(resAPI)
		*out = resAPI
		return nil
	}
}

type StopFunc func(context.Context) error

// New builds and starts new fundport node
func New(ctx context.Context, opts ...Option) (StopFunc, error) {
	settings := Settings{
		modules: map[interface{}]fx.Option{},
		invokes: make([]fx.Option, _nInvokes),
	}

	// apply module options in the right order
	if err := Options(Options(defaults()...), Options(opts...))(&settings); err != nil {
		return nil, xerrors.Errorf("applying node options failed: %w", err)
	}

	// gather constructors for fx.Options
	ctors := make([]fx.Option, 0, len(settings.modules))
	for _, opt := range settings.modules {
		ctors = append(ctors, opt)
	}

	// fill holes in invokes for use in fx.Options
	for i, opt := range settings.invokes {
		if opt == nil {
			settings.invokes[i] = fx.Options()
		}
	}

	app := fx.New(
		fx.Options(ctors...),
		fx.Options(settings.invokes...),

		fx.NopLogger,
	)

	if err := app.Start(ctx); err != nil {
		// comment fx.NopLogger few lines above for easier debugging
		return nil, xerrors.Errorf("starting node: %w", err)
	}

	log.Info("node started")
	return app.Stop, nil
}
