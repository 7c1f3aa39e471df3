package modules

import (
	"time"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"go.uber.org/fx"

	"github.com/fundport/fundport/journal"
	"github.com/fundport/fundport/ledger/notary"
	"github.com/fundport/fundport/ledger/vault"
	"github.com/fundport/fundport/node/config"
	"github.com/fundport/fundport/node/modules/dtypes"
	"github.com/fundport/fundport/portability"
	portimpl "github.com/fundport/fundport/portability/impl"
	"github.com/fundport/fundport/portability/network"
)

func PortabilityNetwork(h host.Host, cfg *config.Portability) network.PortabilityNetwork {
	return network.NewFromLibp2pHost(h, network.RetryParameters(
		time.Duration(cfg.StreamOpenMinBackoff),
		time.Duration(cfg.StreamOpenMaxBackoff),
		cfg.StreamOpenAttempts,
		5,
	))
}

type PortabilityManagerIn struct {
	fx.In

	Lifecycle fx.Lifecycle
	Ds        dtypes.MetadataDS
	Key       crypto.PrivKey
	Net       network.PortabilityNetwork
	Vault     *vault.Vault
	Notary    notary.Notary
	NotaryID  dtypes.NotaryID
	Journal   journal.Journal
	Config    *config.Portability
}

// PortabilityManager builds the negotiation manager and ties its lifetime to
// the node: unfinished negotiations resume on start.
func PortabilityManager(in PortabilityManagerIn) (*portimpl.Manager, error) {
	m, err := portimpl.NewManager(in.Ds, in.Key, in.Net, in.Vault, in.Notary, peer.ID(in.NotaryID),
		portimpl.NegotiationTimeout(time.Duration(in.Config.NegotiationTimeout)),
		portimpl.MaxConcurrentRoundTrips(in.Config.MaxConcurrentRoundTrips),
		portimpl.WithJournal(in.Journal),
	)
	if err != nil {
		return nil, err
	}

	m.SubscribeToEvents(func(evt portability.NegotiationEvent, neg portability.Negotiation) {
		log.Debugw("negotiation event", "event", evt, "proposal cid", neg.ProposalCid, "status", neg.Status)
	})

	in.Lifecycle.Append(fx.Hook{
		OnStart: m.Start,
		OnStop:  m.Stop,
	})
	return m, nil
}
