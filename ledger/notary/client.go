package notary

import (
	"bufio"
	"context"
	"errors"
	"time"

	cborutil "github.com/filecoin-project/go-cbor-util"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	"github.com/sony/gobreaker"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/lib/retrystream"
	"github.com/fundport/fundport/lib/sigs"
)

// ErrUnavailable is returned while the client's circuit breaker is open.
var ErrUnavailable = errors.New("notary unavailable")

// BreakerSettings configures when the client stops calling an unhealthy
// notary and how long it waits before probing again.
type BreakerSettings struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

var DefaultBreakerSettings = BreakerSettings{
	MaxRequests:         1,
	Interval:            time.Minute,
	Timeout:             30 * time.Second,
	ConsecutiveFailures: 5,
}

// Client talks to a remote notary over ProtocolID.
type Client struct {
	notary  peer.ID
	streams *retrystream.RetryStream
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

var _ Notary = (*Client)(nil)

type ClientOption func(*clientConfig)

type clientConfig struct {
	breaker BreakerSettings
	retry   []retrystream.Option
	timeout time.Duration
}

func WithBreaker(bs BreakerSettings) ClientOption {
	return func(c *clientConfig) {
		c.breaker = bs
	}
}

func WithRetry(opts ...retrystream.Option) ClientOption {
	return func(c *clientConfig) {
		c.retry = append(c.retry, opts...)
	}
}

func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

func NewClient(h host.Host, notary peer.ID, opts ...ClientOption) *Client {
	cfg := clientConfig{breaker: DefaultBreakerSettings, timeout: defaultStreamTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notary-" + notary.String(),
		MaxRequests: cfg.breaker.MaxRequests,
		Interval:    cfg.breaker.Interval,
		Timeout:     cfg.breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.breaker.ConsecutiveFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnw("notary circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
		// answers from a healthy notary, including refusals, are not failures
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if _, ok := IsConflict(err); ok {
				return true
			}
			return xerrors.Is(err, ErrInvalid)
		},
	})

	return &Client{
		notary:  notary,
		streams: retrystream.New(h, cfg.retry...),
		cb:      cb,
		timeout: cfg.timeout,
	}
}

func (c *Client) Notarise(ctx context.Context, stx *types.SignedTransaction) (*types.Signature, error) {
	res, err := c.cb.Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, stx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, xerrors.Errorf("notary %s: %s: %w", c.notary, err.Error(), ErrUnavailable)
		}
		return nil, err
	}
	return res.(*types.Signature), nil
}

func (c *Client) roundTrip(ctx context.Context, stx *types.SignedTransaction) (*types.Signature, error) {
	txid, err := stx.Cid()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	s, err := c.streams.OpenStream(ctx, c.notary, []protocol.ID{ProtocolID})
	if err != nil {
		return nil, xerrors.Errorf("opening stream to notary: %w", err)
	}
	defer s.Close() //nolint:errcheck

	if dl, ok := ctx.Deadline(); ok {
		_ = s.SetDeadline(dl)
	}

	if err := cborutil.WriteCborRPC(s, &NotariseRequest{Tx: *stx}); err != nil {
		_ = s.Reset()
		return nil, xerrors.Errorf("sending notarise request: %w", err)
	}

	var resp NotariseResponse
	if err := cborutil.ReadCborRPC(bufio.NewReader(s), &resp); err != nil {
		_ = s.Reset()
		return nil, xerrors.Errorf("reading notarise response: %w", err)
	}

	switch resp.Status {
	case ResponseNotarised:
		if resp.Signature == nil || resp.Signature.Signer != c.notary {
			return nil, xerrors.Errorf("notary response carries no signature by %s", c.notary)
		}
		if err := sigs.Verify(resp.Signature, txid.Bytes()); err != nil {
			return nil, xerrors.Errorf("verifying notary signature: %w", err)
		}
		return resp.Signature, nil
	case ResponseConflict:
		return nil, &ConflictError{Tx: txid, Conflicts: resp.Conflicts}
	case ResponseInvalid:
		return nil, xerrors.Errorf("%s: %w", resp.Message, ErrInvalid)
	default:
		return nil, xerrors.Errorf("notary error (%s): %s", resp.Status, resp.Message)
	}
}
