package repo

import (
	"context"

	"github.com/ipfs/go-datastore"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/multiformats/go-multiaddr"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/node/config"
)

var (
	ErrNoAPIEndpoint     = xerrors.New("API not running (no endpoint)")
	ErrRepoAlreadyLocked = xerrors.New("repo is already locked (fundport daemon already running)")
	ErrClosedRepo        = xerrors.New("repo is no longer open")
)

type Repo interface {
	// APIEndpoint returns multiaddress for communication with the node API
	APIEndpoint() (multiaddr.Multiaddr, error)

	// Lock locks the repo for exclusive use.
	Lock() (LockedRepo, error)
}

type LockedRepo interface {
	// Close closes repo and removes lock.
	Close() error

	// Datastore returns the node metadata store. Negotiations, the vault and
	// a local notary each live under their own namespace of it.
	Datastore(ctx context.Context) (datastore.Batching, error)

	// Config returns config in this repo
	Config() (*config.Node, error)
	SetConfig(func(*config.Node)) error

	// Libp2pIdentity returns the node's key, creating one on first use.
	// The peer id derived from it is the node's ledger identity.
	Libp2pIdentity() (crypto.PrivKey, error)

	SetAPIEndpoint(multiaddr.Multiaddr) error

	// Path returns absolute path of the repo, or "" for in-memory repos
	Path() string
}
