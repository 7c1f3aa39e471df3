package notary

import (
	"context"
	"sync"
	"testing"

	ds "github.com/ipfs/go-datastore"
	ds_sync "github.com/ipfs/go-datastore/sync"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/stretchr/testify/require"

	"github.com/fundport/fundport/journal"
	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/ledger/types/mock"
	"github.com/fundport/fundport/lib/sigs"
)

type parties struct {
	aSk, bSk crypto.PrivKey
	a, b     peer.ID
	req      *types.RequestState
	fund     *types.FundState
}

func newParties(t *testing.T) *parties {
	p := &parties{}
	p.aSk, p.a = mock.Party(t)
	p.bSk, p.b = mock.Party(t)
	p.req = mock.Request(p.b, p.a, "F1", types.RequestRequested)
	p.fund = mock.Fund("F1", 100, p.a)
	return p
}

// signedAccept returns a fully signed transaction spending the parties'
// request and fund. Every call yields a distinct transaction over the same
// inputs.
func (p *parties) signedAccept(t *testing.T, notary peer.ID) *types.SignedTransaction {
	stx := &types.SignedTransaction{Tx: *mock.AcceptTx(t, p.req, p.fund, notary)}
	txid, err := stx.Cid()
	require.NoError(t, err)
	for _, sk := range []crypto.PrivKey{p.aSk, p.bSk} {
		sig, err := sigs.SignTransaction(sk, txid)
		require.NoError(t, err)
		stx.AddSignature(*sig)
	}
	return stx
}

func newService(t *testing.T, d ds.Batching) (*Service, crypto.PrivKey) {
	sk, _ := mock.Party(t)
	s, err := NewService(context.Background(), d, sk)
	require.NoError(t, err)
	return s, sk
}

func TestNotarise(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, ds_sync.MutexWrap(ds.NewMapDatastore()))
	p := newParties(t)

	stx := p.signedAccept(t, svc.ID())
	txid, err := stx.Cid()
	require.NoError(t, err)

	sig, err := svc.Notarise(ctx, stx)
	require.NoError(t, err)
	require.Equal(t, svc.ID(), sig.Signer)
	require.NoError(t, sigs.Verify(sig, txid.Bytes()))

	// resubmitting the same transaction is not a conflict
	again, err := svc.Notarise(ctx, stx)
	require.NoError(t, err)
	require.Equal(t, sig.Data, again.Data)

	rec, err := svc.Committed(txid)
	require.NoError(t, err)
	require.Len(t, rec.Inputs, 2)

	by, err := svc.ConsumedBy(ctx, stx.Tx.Inputs[0].Ref)
	require.NoError(t, err)
	require.True(t, by.Equals(txid))

	commits, err := svc.Commits()
	require.NoError(t, err)
	require.Len(t, commits, 1)
}

func TestNotariseConflict(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, ds_sync.MutexWrap(ds.NewMapDatastore()))
	p := newParties(t)

	first := p.signedAccept(t, svc.ID())
	firstID, err := first.Cid()
	require.NoError(t, err)
	_, err = svc.Notarise(ctx, first)
	require.NoError(t, err)

	second := p.signedAccept(t, svc.ID())
	_, err = svc.Notarise(ctx, second)
	require.Error(t, err)

	ce, ok := IsConflict(err)
	require.True(t, ok)
	require.Len(t, ce.Conflicts, 2)
	for _, c := range ce.Conflicts {
		require.True(t, c.ConsumedBy.Equals(firstID))
	}
}

func TestNotariseConcurrent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, ds_sync.MutexWrap(ds.NewMapDatastore()))
	p := newParties(t)

	const attempts = 16
	txs := make([]*types.SignedTransaction, attempts)
	for i := range txs {
		txs[i] = p.signedAccept(t, svc.ID())
	}

	var (
		wg        sync.WaitGroup
		lk        sync.Mutex
		succeeded int
		conflicts int
	)
	for _, stx := range txs {
		wg.Add(1)
		go func(stx *types.SignedTransaction) {
			defer wg.Done()
			_, err := svc.Notarise(ctx, stx)

			lk.Lock()
			defer lk.Unlock()
			if err == nil {
				succeeded++
				return
			}
			if _, ok := IsConflict(err); ok {
				conflicts++
			}
		}(stx)
	}
	wg.Wait()

	require.Equal(t, 1, succeeded)
	require.Equal(t, attempts-1, conflicts)
}

func TestNotariseRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t, ds_sync.MutexWrap(ds.NewMapDatastore()))
	_, other := mock.Party(t)

	tcases := []struct {
		name   string
		mutate func(p *parties, stx *types.SignedTransaction)
		target error
		notary func() peer.ID
	}{
		{
			name:   "missing signature",
			mutate: func(p *parties, stx *types.SignedTransaction) { stx.Sigs = stx.Sigs[:1] },
			target: ErrInvalid,
		},
		{
			name: "forged signature",
			mutate: func(p *parties, stx *types.SignedTransaction) {
				stx.Sigs[0].Data = append([]byte(nil), stx.Sigs[0].Data...)
				stx.Sigs[0].Data[0] ^= 0xff
			},
			target: ErrInvalid,
		},
		{
			name:   "other notary",
			notary: func() peer.ID { return other },
			target: ErrWrongNotary,
		},
	}

	for _, tcase := range tcases {
		t.Run(tcase.name, func(t *testing.T) {
			p := newParties(t)
			notary := svc.ID()
			if tcase.notary != nil {
				notary = tcase.notary()
			}
			stx := p.signedAccept(t, notary)
			if tcase.mutate != nil {
				tcase.mutate(p, stx)
			}

			_, err := svc.Notarise(ctx, stx)
			require.ErrorIs(t, err, tcase.target)
		})
	}
}

func TestNotariseSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	d := ds_sync.MutexWrap(ds.NewMapDatastore())

	sk, _ := mock.Party(t)
	svc, err := NewService(ctx, d, sk)
	require.NoError(t, err)

	p := newParties(t)
	_, err = svc.Notarise(ctx, p.signedAccept(t, svc.ID()))
	require.NoError(t, err)

	restarted, err := NewService(ctx, d, sk)
	require.NoError(t, err)

	_, err = restarted.Notarise(ctx, p.signedAccept(t, restarted.ID()))
	_, ok := IsConflict(err)
	require.True(t, ok)
}

type recordingJournal struct {
	journal.EventTypeRegistry

	lk     sync.Mutex
	events []journal.Event
}

func (r *recordingJournal) RecordEvent(evtType journal.EventType, supplier func() interface{}) {
	if !evtType.Enabled() {
		return
	}
	r.lk.Lock()
	defer r.lk.Unlock()
	r.events = append(r.events, journal.Event{EventType: evtType, Data: supplier()})
}

func (r *recordingJournal) Close() error { return nil }

func TestNotariseJournal(t *testing.T) {
	ctx := context.Background()
	j := &recordingJournal{EventTypeRegistry: journal.NewEventTypeRegistry(nil)}
	sk, _ := mock.Party(t)
	svc, err := NewService(ctx, ds_sync.MutexWrap(ds.NewMapDatastore()), sk, WithJournal(j))
	require.NoError(t, err)
	p := newParties(t)

	first := p.signedAccept(t, svc.ID())
	firstID, err := first.Cid()
	require.NoError(t, err)
	_, err = svc.Notarise(ctx, first)
	require.NoError(t, err)

	_, err = svc.Notarise(ctx, p.signedAccept(t, svc.ID()))
	require.Error(t, err)

	require.Len(t, j.events, 2)
	require.Equal(t, "notary:commit", j.events[0].EventType.String())
	commit := j.events[0].Data.(*NotaryJournalEntry)
	require.True(t, commit.Tx.Equals(firstID))
	require.Len(t, commit.Inputs, 2)

	require.Equal(t, "notary:conflict", j.events[1].EventType.String())
	require.Len(t, j.events[1].Data.(*NotaryJournalEntry).Conflicts, 2)
}
