package vault

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ipfs/go-cid"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	dsq "github.com/ipfs/go-datastore/query"
	logging "github.com/ipfs/go-log/v2"
	"go.opencensus.io/stats"
	"golang.org/x/xerrors"

	cborutil "github.com/filecoin-project/go-cbor-util"

	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/metrics"
)

var log = logging.Logger("vault")

var (
	ErrNotFound  = errors.New("no unconsumed record found")
	ErrAmbiguous = errors.New("more than one unconsumed record found")
)

const stateCacheSize = 4096

// Vault is the local record store. Every record type is an append-only chain
// of versions keyed by logical id; a version stays unconsumed until a
// recorded transaction lists it as an input.
//
// Layout under the vault namespace:
//
//	/states/<tx>-<idx>               StoredState
//	/heads/<kind>/<id>/<tx>-<idx>    StateRef of an unconsumed version
//	/history/<kind>/<id>/<seq>       StateRef, in recording order
//	/txs/<tx>                        SignedTransaction
type Vault struct {
	lk sync.RWMutex
	ds datastore.Batching

	cache *lru.Cache[string, StoredState]
}

func New(ds datastore.Batching) (*Vault, error) {
	cache, err := lru.New[string, StoredState](stateCacheSize)
	if err != nil {
		return nil, err
	}
	return &Vault{
		ds:    namespace.Wrap(ds, datastore.NewKey("/vault")),
		cache: cache,
	}, nil
}

func refKey(ref types.StateRef) string {
	return fmt.Sprintf("%s-%d", ref.Tx, ref.Index)
}

func stateKey(ref types.StateRef) datastore.Key {
	return datastore.NewKey("/states").ChildString(refKey(ref))
}

func headPrefix(kind types.StateKind) datastore.Key {
	return datastore.NewKey("/heads").ChildString(string(kind))
}

func headKey(s types.LedgerState, ref types.StateRef) datastore.Key {
	return headPrefix(s.Kind()).ChildString(url.PathEscape(s.LinearID())).ChildString(refKey(ref))
}

func historyPrefix(kind types.StateKind, linearID string) datastore.Key {
	return datastore.NewKey("/history").ChildString(string(kind)).ChildString(url.PathEscape(linearID))
}

func txKey(txid cid.Cid) datastore.Key {
	return datastore.NewKey("/txs").ChildString(txid.String())
}

// FindUnconsumed returns every unconsumed version of kind matching pred.
func (v *Vault) FindUnconsumed(ctx context.Context, kind types.StateKind, pred func(types.LedgerState) bool) ([]types.StateAndRef, error) {
	v.lk.RLock()
	defer v.lk.RUnlock()

	res, err := v.ds.Query(ctx, dsq.Query{Prefix: headPrefix(kind).String(), Orders: []dsq.Order{dsq.OrderByKey{}}})
	if err != nil {
		return nil, xerrors.Errorf("querying heads: %w", err)
	}
	defer res.Close() //nolint:errcheck

	var out []types.StateAndRef
	for r := range res.Next() {
		if r.Error != nil {
			return nil, xerrors.Errorf("iterating heads: %w", r.Error)
		}

		var ref types.StateRef
		if err := ref.UnmarshalCBOR(bytes.NewReader(r.Value)); err != nil {
			return nil, xerrors.Errorf("decoding head %s: %w", r.Key, err)
		}

		ss, err := v.get(ctx, ref)
		if err != nil {
			return nil, xerrors.Errorf("loading head %s: %w", r.Key, err)
		}

		if pred != nil && !pred(ss.State) {
			continue
		}
		out = append(out, types.StateAndRef{State: ss.State, Ref: ss.Ref})
	}

	return out, nil
}

// Single is FindUnconsumed for callers that require exactly one match.
func (v *Vault) Single(ctx context.Context, kind types.StateKind, pred func(types.LedgerState) bool) (types.StateAndRef, error) {
	found, err := v.FindUnconsumed(ctx, kind, pred)
	if err != nil {
		return types.StateAndRef{}, err
	}
	switch len(found) {
	case 0:
		return types.StateAndRef{}, ErrNotFound
	case 1:
		return found[0], nil
	default:
		log.Errorw("vault consistency violated", "kind", kind, "matches", len(found))
		return types.StateAndRef{}, xerrors.Errorf("%d %s records: %w", len(found), kind, ErrAmbiguous)
	}
}

func (v *Vault) Get(ctx context.Context, ref types.StateRef) (*StoredState, error) {
	v.lk.RLock()
	defer v.lk.RUnlock()

	ss, err := v.get(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &ss, nil
}

func (v *Vault) get(ctx context.Context, ref types.StateRef) (StoredState, error) {
	if ss, ok := v.cache.Get(refKey(ref)); ok {
		return ss, nil
	}

	b, err := v.ds.Get(ctx, stateKey(ref))
	if err != nil {
		if xerrors.Is(err, datastore.ErrNotFound) {
			return StoredState{}, xerrors.Errorf("state %s: %w", ref, ErrNotFound)
		}
		return StoredState{}, err
	}

	var ss StoredState
	if err := ss.UnmarshalCBOR(bytes.NewReader(b)); err != nil {
		return StoredState{}, xerrors.Errorf("decoding state %s: %w", ref, err)
	}
	v.cache.Add(refKey(ref), ss)
	return ss, nil
}

// History returns every recorded version of a record, oldest first.
func (v *Vault) History(ctx context.Context, kind types.StateKind, linearID string) ([]StoredState, error) {
	v.lk.RLock()
	defer v.lk.RUnlock()

	res, err := v.ds.Query(ctx, dsq.Query{Prefix: historyPrefix(kind, linearID).String(), Orders: []dsq.Order{dsq.OrderByKey{}}})
	if err != nil {
		return nil, err
	}
	defer res.Close() //nolint:errcheck

	var out []StoredState
	for r := range res.Next() {
		if r.Error != nil {
			return nil, r.Error
		}
		var ref types.StateRef
		if err := ref.UnmarshalCBOR(bytes.NewReader(r.Value)); err != nil {
			return nil, err
		}
		ss, err := v.get(ctx, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, ss)
	}
	return out, nil
}

func (v *Vault) Transaction(ctx context.Context, txid cid.Cid) (*types.SignedTransaction, error) {
	b, err := v.ds.Get(ctx, txKey(txid))
	if err != nil {
		if xerrors.Is(err, datastore.ErrNotFound) {
			return nil, xerrors.Errorf("transaction %s: %w", txid, ErrNotFound)
		}
		return nil, err
	}
	return types.DecodeSignedTransaction(b)
}

func (v *Vault) HasTransaction(ctx context.Context, txid cid.Cid) (bool, error) {
	return v.ds.Has(ctx, txKey(txid))
}

// Record applies a finalized transaction: its inputs become consumed and its
// outputs become the new unconsumed versions. Recording the same transaction
// twice is a no-op.
func (v *Vault) Record(ctx context.Context, stx *types.SignedTransaction) error {
	txid, err := stx.Cid()
	if err != nil {
		return xerrors.Errorf("computing transaction id: %w", err)
	}

	v.lk.Lock()
	defer v.lk.Unlock()

	has, err := v.ds.Has(ctx, txKey(txid))
	if err != nil {
		return err
	}
	if has {
		log.Debugw("transaction already recorded", "tx", txid)
		return nil
	}

	batch, err := v.ds.Batch(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	touched := make([]types.StateRef, 0, len(stx.Tx.Inputs)+len(stx.Tx.Outputs))

	for _, in := range stx.Tx.Inputs {
		ss, err := v.get(ctx, in.Ref)
		switch {
		case err == nil:
			if ss.ConsumedBy != nil && !ss.ConsumedBy.Equals(txid) {
				return xerrors.Errorf("input %s already consumed by %s", in.Ref, *ss.ConsumedBy)
			}
		case xerrors.Is(err, ErrNotFound):
			// never saw this version, keep it for history
			ss = StoredState{State: in.State, Ref: in.Ref, RecordedAt: now.UnixNano()}
			if err := v.putHistory(ctx, batch, ss, now, 0, 0); err != nil {
				return err
			}
		default:
			return err
		}

		consumedBy := txid
		ss.ConsumedBy = &consumedBy
		ss.ConsumedAt = now.UnixNano()

		if err := v.putState(ctx, batch, ss); err != nil {
			return err
		}
		if err := batch.Delete(ctx, headKey(in.State, in.Ref)); err != nil {
			return err
		}
		touched = append(touched, in.Ref)
	}

	for i, out := range stx.Tx.Outputs {
		ss := StoredState{State: out, Ref: types.OutputRef(txid, i), RecordedAt: now.UnixNano()}
		if err := v.putState(ctx, batch, ss); err != nil {
			return err
		}
		refBytes, err := cborutil.Dump(&ss.Ref)
		if err != nil {
			return err
		}
		if err := batch.Put(ctx, headKey(out, ss.Ref), refBytes); err != nil {
			return err
		}
		if err := v.putHistory(ctx, batch, ss, now, 1, i); err != nil {
			return err
		}
		touched = append(touched, ss.Ref)
	}

	txBytes, err := cborutil.Dump(stx)
	if err != nil {
		return err
	}
	if err := batch.Put(ctx, txKey(txid), txBytes); err != nil {
		return err
	}

	if err := batch.Commit(ctx); err != nil {
		return xerrors.Errorf("committing transaction %s: %w", txid, err)
	}

	for _, ref := range touched {
		v.cache.Remove(refKey(ref))
	}

	stats.Record(ctx, metrics.VaultRecords.M(1))
	log.Infow("recorded transaction", "tx", txid, "inputs", len(stx.Tx.Inputs), "outputs", len(stx.Tx.Outputs))
	return nil
}

func (v *Vault) putState(ctx context.Context, batch datastore.Batch, ss StoredState) error {
	b, err := cborutil.Dump(&ss)
	if err != nil {
		return err
	}
	return batch.Put(ctx, stateKey(ss.Ref), b)
}

func (v *Vault) putHistory(ctx context.Context, batch datastore.Batch, ss StoredState, at time.Time, phase, idx int) error {
	b, err := cborutil.Dump(&ss.Ref)
	if err != nil {
		return err
	}
	// inputs sort before outputs of the same transaction
	seq := fmt.Sprintf("%020d-%d-%04d", at.UnixNano(), phase, idx)
	return batch.Put(ctx, historyPrefix(ss.State.Kind(), ss.State.LinearID()).ChildString(seq), b)
}
