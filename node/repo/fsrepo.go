package repo

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/ipfs/go-datastore"
	levelds "github.com/ipfs/go-ds-leveldb"
	measure "github.com/ipfs/go-ds-measure"
	fslock "github.com/ipfs/go-fs-lock"
	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/mitchellh/go-homedir"
	"github.com/multiformats/go-multiaddr"
	ldbopts "github.com/syndtr/goleveldb/leveldb/opt"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/node/config"
)

const (
	fsAPI       = "api"
	fsConfig    = "config.toml"
	fsDatastore = "datastore"
	fsLock      = "repo.lock"
	fsKey       = "libp2p.key"
)

// EnvPath overrides the default repo location.
const EnvPath = "FUNDPORT_PATH"

const DefaultPath = "~/.fundport"

var log = logging.Logger("repo")

var ErrRepoExists = xerrors.New("repo exists")

// FsRepo is struct for repo, use NewFS to create
type FsRepo struct {
	path       string
	configPath string
}

var _ Repo = &FsRepo{}

// NewFS creates a repo instance based on a path on file system
func NewFS(path string) (*FsRepo, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	return &FsRepo{
		path:       path,
		configPath: filepath.Join(path, fsConfig),
	}, nil
}

func (fsr *FsRepo) SetConfigPath(cfgPath string) {
	fsr.configPath = cfgPath
}

func (fsr *FsRepo) Path() string {
	return fsr.path
}

func (fsr *FsRepo) Exists() (bool, error) {
	_, err := os.Stat(filepath.Join(fsr.path, fsKey))
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

// Init lays out a new repo: a commented default config and a fresh identity.
func (fsr *FsRepo) Init() error {
	exist, err := fsr.Exists()
	if err != nil {
		return err
	}
	if exist {
		return ErrRepoExists
	}

	log.Infof("Initializing repo at '%s'", fsr.path)
	err = os.MkdirAll(fsr.path, 0755) //nolint: gosec
	if err != nil && !os.IsExist(err) {
		return err
	}

	if err := fsr.initConfig(); err != nil {
		return xerrors.Errorf("init config: %w", err)
	}

	if _, err := loadOrCreateKey(filepath.Join(fsr.path, fsKey)); err != nil {
		return xerrors.Errorf("init identity: %w", err)
	}
	return nil
}

func (fsr *FsRepo) initConfig() error {
	_, err := os.Stat(fsr.configPath)
	if err == nil {
		// exists
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	comm, err := config.ConfigComment(config.DefaultNode())
	if err != nil {
		return xerrors.Errorf("comment: %w", err)
	}
	if err := os.WriteFile(fsr.configPath, comm, 0644); err != nil {
		return xerrors.Errorf("write config: %w", err)
	}
	return nil
}

// APIEndpoint returns endpoint of API in this repo
func (fsr *FsRepo) APIEndpoint() (multiaddr.Multiaddr, error) {
	p := filepath.Join(fsr.path, fsAPI)

	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, ErrNoAPIEndpoint
	} else if err != nil {
		return nil, xerrors.Errorf("failed to read %q: %w", p, err)
	}

	return multiaddr.NewMultiaddr(strings.TrimSpace(string(data)))
}

// Lock acquires exclusive lock on this repo
func (fsr *FsRepo) Lock() (LockedRepo, error) {
	locked, err := fslock.Locked(fsr.path, fsLock)
	if err != nil {
		return nil, xerrors.Errorf("could not check lock status: %w", err)
	}
	if locked {
		return nil, ErrRepoAlreadyLocked
	}

	closer, err := fslock.Lock(fsr.path, fsLock)
	if err != nil {
		return nil, xerrors.Errorf("could not lock the repo: %w", err)
	}
	return &fsLockedRepo{
		path:       fsr.path,
		configPath: fsr.configPath,
		closer:     closer,
	}, nil
}

type fsLockedRepo struct {
	path       string
	configPath string
	closer     io.Closer

	ds     datastore.Batching
	dsErr  error
	dsOnce sync.Once

	configLk sync.Mutex
}

func (fsr *fsLockedRepo) Path() string {
	return fsr.path
}

func (fsr *fsLockedRepo) Close() error {
	err := os.Remove(fsr.join(fsAPI))
	if err != nil && !os.IsNotExist(err) {
		return xerrors.Errorf("could not remove API file: %w", err)
	}

	if fsr.ds != nil {
		if err := fsr.ds.Close(); err != nil {
			return xerrors.Errorf("could not close datastore: %w", err)
		}
	}

	err = fsr.closer.Close()
	fsr.closer = nil
	return err
}

// Datastore opens the datastore backend named in the config on first use.
func (fsr *fsLockedRepo) Datastore(_ context.Context) (datastore.Batching, error) {
	fsr.dsOnce.Do(func() {
		cfg, err := fsr.Config()
		if err != nil {
			fsr.dsErr = err
			return
		}
		fsr.ds, fsr.dsErr = fsr.openDatastore(cfg.Datastore.Backend)
	})
	if fsr.dsErr != nil {
		return nil, fsr.dsErr
	}
	return fsr.ds, nil
}

func (fsr *fsLockedRepo) openDatastore(backend string) (datastore.Batching, error) {
	switch backend {
	case config.DatastoreMemory:
		log.Warn("using in-memory datastore, nothing will survive a restart")
		return newMemDatastore(), nil
	case config.DatastoreLevelDB:
	default:
		return nil, xerrors.Errorf("unknown datastore backend %q", backend)
	}

	dsDir := fsr.join(fsDatastore, "metadata")
	if err := os.MkdirAll(dsDir, 0755); err != nil {
		return nil, xerrors.Errorf("failed to create directory %s for datastore: %w", dsDir, err)
	}

	ds, err := levelds.NewDatastore(dsDir, &levelds.Options{
		Compression: ldbopts.NoCompression,
		NoSync:      false,
		Strict:      ldbopts.StrictAll,
		ReadOnly:    false,
	})
	if err != nil {
		return nil, xerrors.Errorf("opening datastore %s: %w", dsDir, err)
	}
	return measure.New("fundport.metadata", ds), nil
}

// join joins path elements with fsr.path
func (fsr *fsLockedRepo) join(paths ...string) string {
	return filepath.Join(append([]string{fsr.path}, paths...)...)
}

func (fsr *fsLockedRepo) stillValid() error {
	if fsr.closer == nil {
		return ErrClosedRepo
	}
	return nil
}

func (fsr *fsLockedRepo) Config() (*config.Node, error) {
	fsr.configLk.Lock()
	defer fsr.configLk.Unlock()

	return fsr.loadConfigFromDisk()
}

func (fsr *fsLockedRepo) loadConfigFromDisk() (*config.Node, error) {
	return config.FromFile(fsr.configPath, config.DefaultNode())
}

func (fsr *fsLockedRepo) SetConfig(c func(*config.Node)) error {
	if err := fsr.stillValid(); err != nil {
		return err
	}

	fsr.configLk.Lock()
	defer fsr.configLk.Unlock()

	cfg, err := fsr.loadConfigFromDisk()
	if err != nil {
		return err
	}

	// mutate in-memory representation of config
	c(cfg)

	if err := cfg.Validate(); err != nil {
		return xerrors.Errorf("new config is invalid: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return err
	}

	return os.WriteFile(fsr.configPath, buf.Bytes(), 0644)
}

func (fsr *fsLockedRepo) Libp2pIdentity() (crypto.PrivKey, error) {
	if err := fsr.stillValid(); err != nil {
		return nil, err
	}
	return loadOrCreateKey(fsr.join(fsKey))
}

func (fsr *fsLockedRepo) SetAPIEndpoint(ma multiaddr.Multiaddr) error {
	if err := fsr.stillValid(); err != nil {
		return err
	}
	return os.WriteFile(fsr.join(fsAPI), []byte(ma.String()), 0644)
}

var keyPermissionMsg = "permissions of key file '%s' are too relaxed, " +
	"required: 0600, got: %#o"

func loadOrCreateKey(path string) (crypto.PrivKey, error) {
	fstat, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		sk, _, err := crypto.GenerateEd25519Key(nil)
		if err != nil {
			return nil, xerrors.Errorf("generating identity: %w", err)
		}
		b, err := crypto.MarshalPrivateKey(sk)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, b, 0600); err != nil {
			return nil, xerrors.Errorf("writing identity: %w", err)
		}
		return sk, nil
	case err != nil:
		return nil, err
	}

	if fstat.Mode()&0077 != 0 {
		return nil, xerrors.Errorf(keyPermissionMsg, path, fstat.Mode())
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("reading identity: %w", err)
	}
	sk, err := crypto.UnmarshalPrivateKey(b)
	if err != nil {
		return nil, xerrors.Errorf("decoding identity: %w", err)
	}
	return sk, nil
}
