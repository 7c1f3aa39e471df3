package repo

import (
	"context"
	"sync"

	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/multiformats/go-multiaddr"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/node/config"
)

type MemRepo struct {
	api struct {
		sync.Mutex
		ma multiaddr.Multiaddr
	}

	repoLock chan struct{}
	token    *byte

	datastore datastore.Batching
	identity  crypto.PrivKey

	// holds the current config value
	config struct {
		sync.Mutex
		val *config.Node
	}
}

type lockedMemRepo struct {
	mem *MemRepo
	sync.RWMutex

	token *byte
}

var _ Repo = (*MemRepo)(nil)
var _ LockedRepo = (*lockedMemRepo)(nil)

type MemRepoOptions struct {
	Ds       datastore.Batching
	ConfigF  func() *config.Node
	Identity crypto.PrivKey
}

func newMemDatastore() datastore.Batching {
	return dssync.MutexWrap(datastore.NewMapDatastore())
}

// NewMemory creates new memory based repo with provided options.
// opts can be nil, it will be replaced with defaults.
// Any field in opts can be nil, they will be replaced by defaults.
func NewMemory(opts *MemRepoOptions) *MemRepo {
	if opts == nil {
		opts = &MemRepoOptions{}
	}
	if opts.ConfigF == nil {
		opts.ConfigF = config.DefaultNode
	}
	if opts.Ds == nil {
		opts.Ds = newMemDatastore()
	}

	r := &MemRepo{
		repoLock:  make(chan struct{}, 1),
		datastore: opts.Ds,
		identity:  opts.Identity,
	}
	r.config.val = opts.ConfigF()
	return r
}

func (mem *MemRepo) APIEndpoint() (multiaddr.Multiaddr, error) {
	mem.api.Lock()
	defer mem.api.Unlock()
	if mem.api.ma == nil {
		return nil, ErrNoAPIEndpoint
	}
	return mem.api.ma, nil
}

func (mem *MemRepo) Lock() (LockedRepo, error) {
	select {
	case mem.repoLock <- struct{}{}:
	default:
		return nil, ErrRepoAlreadyLocked
	}
	mem.token = new(byte)

	return &lockedMemRepo{
		mem:   mem,
		token: mem.token,
	}, nil
}

func (lmem *lockedMemRepo) checkToken() error {
	lmem.RLock()
	defer lmem.RUnlock()
	if lmem.mem.token != lmem.token {
		return ErrClosedRepo
	}
	return nil
}

func (lmem *lockedMemRepo) Path() string {
	return ""
}

func (lmem *lockedMemRepo) Close() error {
	if err := lmem.checkToken(); err != nil {
		return err
	}
	lmem.Lock()
	defer lmem.Unlock()

	if lmem.mem.token != lmem.token {
		return ErrClosedRepo
	}

	lmem.mem.token = nil
	lmem.mem.api.Lock()
	lmem.mem.api.ma = nil
	lmem.mem.api.Unlock()
	<-lmem.mem.repoLock // unlock
	return nil
}

func (lmem *lockedMemRepo) Datastore(_ context.Context) (datastore.Batching, error) {
	if err := lmem.checkToken(); err != nil {
		return nil, err
	}
	return lmem.mem.datastore, nil
}

func (lmem *lockedMemRepo) Config() (*config.Node, error) {
	if err := lmem.checkToken(); err != nil {
		return nil, err
	}

	lmem.mem.config.Lock()
	defer lmem.mem.config.Unlock()

	cfg := *lmem.mem.config.val
	return &cfg, nil
}

func (lmem *lockedMemRepo) SetConfig(c func(*config.Node)) error {
	if err := lmem.checkToken(); err != nil {
		return err
	}

	lmem.mem.config.Lock()
	defer lmem.mem.config.Unlock()

	cfg := *lmem.mem.config.val
	c(&cfg)
	if err := cfg.Validate(); err != nil {
		return xerrors.Errorf("new config is invalid: %w", err)
	}
	lmem.mem.config.val = &cfg
	return nil
}

func (lmem *lockedMemRepo) Libp2pIdentity() (crypto.PrivKey, error) {
	if err := lmem.checkToken(); err != nil {
		return nil, err
	}

	lmem.Lock()
	defer lmem.Unlock()
	if lmem.mem.identity == nil {
		sk, _, err := crypto.GenerateEd25519Key(nil)
		if err != nil {
			return nil, xerrors.Errorf("generating identity: %w", err)
		}
		lmem.mem.identity = sk
	}
	return lmem.mem.identity, nil
}

func (lmem *lockedMemRepo) SetAPIEndpoint(ma multiaddr.Multiaddr) error {
	if err := lmem.checkToken(); err != nil {
		return err
	}
	lmem.mem.api.Lock()
	lmem.mem.api.ma = ma
	lmem.mem.api.Unlock()
	return nil
}
