package repo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ipfs/go-datastore"
	"github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundport/fundport/node/config"
)

func genFsRepo(t *testing.T) *FsRepo {
	repo, err := NewFS(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, repo.Init())
	return repo
}

func basicTest(t *testing.T, repo Repo) {
	ctx := context.Background()

	apima, err := repo.APIEndpoint()
	if assert.Error(t, err) {
		assert.Equal(t, ErrNoAPIEndpoint, err)
	}
	assert.Nil(t, apima, "with no api endpoint, return should be nil")

	lrepo, err := repo.Lock()
	require.NoError(t, err, "should be able to lock once")
	require.NotNil(t, lrepo, "locked repo shouldn't be nil")

	{
		lrepo2, err := repo.Lock()
		if assert.Error(t, err) {
			assert.Equal(t, ErrRepoAlreadyLocked, err)
		}
		assert.Nil(t, lrepo2, "with locking error, should not return lrepo")
	}

	ma, err := multiaddr.NewMultiaddr("/ip4/127.0.0.1/tcp/43244")
	require.NoError(t, err)

	require.NoError(t, lrepo.SetAPIEndpoint(ma))

	apima, err = repo.APIEndpoint()
	require.NoError(t, err)
	assert.Equal(t, ma, apima, "returned API multiaddr should be the same")

	sk1, err := lrepo.Libp2pIdentity()
	require.NoError(t, err)
	sk2, err := lrepo.Libp2pIdentity()
	require.NoError(t, err)
	assert.True(t, sk1.Equals(sk2), "identity should be stable")

	ds, err := lrepo.Datastore(ctx)
	require.NoError(t, err)
	require.NoError(t, ds.Put(ctx, datastore.NewKey("/canary"), []byte("x")))

	require.NoError(t, lrepo.SetConfig(func(c *config.Node) {
		c.Portability.NegotiationTimeout = config.Duration(5 * time.Minute)
	}))
	cfg, err := lrepo.Config()
	require.NoError(t, err)
	assert.Equal(t, config.Duration(5*time.Minute), cfg.Portability.NegotiationTimeout)

	err = lrepo.SetConfig(func(c *config.Node) {
		c.Notary.Mode = "sideways"
	})
	require.Error(t, err)
	cfg, err = lrepo.Config()
	require.NoError(t, err)
	assert.Equal(t, config.NotaryLocal, cfg.Notary.Mode, "invalid config must not be stored")

	require.NoError(t, lrepo.Close(), "should be able to unlock")

	require.Equal(t, ErrClosedRepo, lrepo.SetAPIEndpoint(ma))

	apima, err = repo.APIEndpoint()
	if assert.Error(t, err) {
		assert.Equal(t, ErrNoAPIEndpoint, err, "after closing repo, api should be nil")
	}
	assert.Nil(t, apima, "with closed repo, apima should be set back to nil")

	lrepo, err = repo.Lock()
	require.NoError(t, err, "should be able to relock")
	require.NotNil(t, lrepo)

	sk3, err := lrepo.Libp2pIdentity()
	require.NoError(t, err)
	assert.True(t, sk1.Equals(sk3), "identity should survive relocking")

	ds, err = lrepo.Datastore(ctx)
	require.NoError(t, err)
	v, err := ds.Get(ctx, datastore.NewKey("/canary"))
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), v)

	require.NoError(t, lrepo.Close())
}

func TestFsBasic(t *testing.T) {
	basicTest(t, genFsRepo(t))
}

func TestMemBasic(t *testing.T) {
	basicTest(t, NewMemory(nil))
}

func TestFsInitTwice(t *testing.T) {
	repo := genFsRepo(t)
	require.ErrorIs(t, repo.Init(), ErrRepoExists)

	b, err := os.ReadFile(filepath.Join(repo.Path(), fsConfig))
	require.NoError(t, err)
	require.Contains(t, string(b), "# Default config:")
}

func TestFsRejectsLooseKey(t *testing.T) {
	repo := genFsRepo(t)
	require.NoError(t, os.Chmod(filepath.Join(repo.Path(), fsKey), 0644))

	lr, err := repo.Lock()
	require.NoError(t, err)
	defer lr.Close() //nolint:errcheck

	_, err = lr.Libp2pIdentity()
	require.ErrorContains(t, err, "too relaxed")
}
