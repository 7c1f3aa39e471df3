package retrystream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	"github.com/raulk/clock"
	"github.com/stretchr/testify/require"
)

type failingOpener struct {
	failures int
	calls    int
}

func (o *failingOpener) NewStream(ctx context.Context, p peer.ID, pids ...protocol.ID) (network.Stream, error) {
	o.calls++
	if o.calls <= o.failures {
		return nil, errors.New("dial failed")
	}
	return nil, nil
}

func TestRetryStream(t *testing.T) {
	tcases := []struct {
		name      string
		failures  int
		attempts  float64
		expectErr bool
		calls     int
	}{
		{name: "first attempt succeeds", failures: 0, attempts: 3, calls: 1},
		{name: "succeeds after retries", failures: 2, attempts: 3, calls: 3},
		{name: "exhausts attempts", failures: 5, attempts: 3, expectErr: true, calls: 3},
	}

	for _, tcase := range tcases {
		t.Run(tcase.name, func(t *testing.T) {
			opener := &failingOpener{failures: tcase.failures}
			rs := New(opener, RetryParameters(time.Millisecond, 5*time.Millisecond, tcase.attempts, 2))

			_, err := rs.OpenStream(context.Background(), peer.ID("p"), []protocol.ID{"/test/1.0.0"})
			if tcase.expectErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tcase.calls, opener.calls)
		})
	}
}

func TestRetryStreamCancelled(t *testing.T) {
	opener := &failingOpener{failures: 100}
	rs := New(opener, RetryParameters(time.Hour, time.Hour, 10, 2))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := rs.OpenStream(ctx, peer.ID("p"), []protocol.ID{"/test/1.0.0"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 1, opener.calls)
}

func TestRetryStreamMockClock(t *testing.T) {
	clk := clock.NewMock()
	opener := &failingOpener{failures: 1}
	rs := New(opener, RetryParameters(time.Minute, time.Minute, 3, 1), WithClock(clk))

	done := make(chan error, 1)
	go func() {
		_, err := rs.OpenStream(context.Background(), peer.ID("p"), []protocol.ID{"/test/1.0.0"})
		done <- err
	}()

	// the retry only fires once the mocked backoff elapses
	require.Eventually(t, func() bool {
		clk.Add(time.Minute)
		select {
		case err := <-done:
			require.NoError(t, err)
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
	require.Equal(t, 2, opener.calls)
}
