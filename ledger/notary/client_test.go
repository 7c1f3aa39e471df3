package notary

import (
	"context"
	"testing"
	"time"

	ds "github.com/ipfs/go-datastore"
	ds_sync "github.com/ipfs/go-datastore/sync"
	mocknet "github.com/libp2p/go-libp2p/p2p/net/mock"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/require"

	"github.com/fundport/fundport/ledger/types/mock"
	"github.com/fundport/fundport/lib/retrystream"
)

func TestClientServer(t *testing.T) {
	ctx := context.Background()
	mn := mocknet.New()
	defer mn.Close() //nolint:errcheck

	notarySk, _ := mock.Party(t)
	notaryHost, err := mn.AddPeer(notarySk, ma.StringCast("/ip4/127.0.0.1/tcp/5001"))
	require.NoError(t, err)
	clientSk, _ := mock.Party(t)
	clientHost, err := mn.AddPeer(clientSk, ma.StringCast("/ip4/127.0.0.1/tcp/5002"))
	require.NoError(t, err)
	require.NoError(t, mn.LinkAll())
	require.NoError(t, mn.ConnectAllButSelf())

	svc, err := NewService(ctx, ds_sync.MutexWrap(ds.NewMapDatastore()), notarySk)
	require.NoError(t, err)
	srv := NewServer(notaryHost, svc)
	srv.Start()
	defer srv.Stop()

	client := NewClient(clientHost, notaryHost.ID())
	p := newParties(t)

	first := p.signedAccept(t, notaryHost.ID())
	sig, err := client.Notarise(ctx, first)
	require.NoError(t, err)
	require.Equal(t, notaryHost.ID(), sig.Signer)

	_, err = client.Notarise(ctx, p.signedAccept(t, notaryHost.ID()))
	ce, ok := IsConflict(err)
	require.True(t, ok)
	require.Len(t, ce.Conflicts, 2)

	bad := p.signedAccept(t, notaryHost.ID())
	bad.Sigs = nil
	_, err = client.Notarise(ctx, bad)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestClientBreaker(t *testing.T) {
	ctx := context.Background()
	mn := mocknet.New()
	defer mn.Close() //nolint:errcheck

	clientSk, _ := mock.Party(t)
	clientHost, err := mn.AddPeer(clientSk, ma.StringCast("/ip4/127.0.0.1/tcp/5003"))
	require.NoError(t, err)

	// nobody answers for this id
	_, absent := mock.Party(t)

	client := NewClient(clientHost, absent,
		WithRetry(retrystream.RetryParameters(time.Millisecond, time.Millisecond, 1, 1)),
		WithBreaker(BreakerSettings{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, ConsecutiveFailures: 1}),
	)

	p := newParties(t)

	_, err = client.Notarise(ctx, p.signedAccept(t, absent))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUnavailable)

	_, err = client.Notarise(ctx, p.signedAccept(t, absent))
	require.ErrorIs(t, err, ErrUnavailable)
}
