package notary

import (
	"context"
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/filecoin-project/go-statestore"
	"github.com/ipfs/go-cid"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	dsq "github.com/ipfs/go-datastore/query"
	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/raulk/clock"
	"go.opencensus.io/stats"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/journal"
	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/lib/sigs"
	"github.com/fundport/fundport/metrics"
)

var log = logging.Logger("notary")

const (
	filterExpectedItems     = 1_000_000
	filterFalsePositiveRate = 0.001
)

var (
	consumedPrefix = datastore.NewKey("/consumed")
	commitsPrefix  = datastore.NewKey("/commits")
)

// Service is a notary backed by a local datastore. The consumed set is
// checked and extended under a single lock so that of any two transactions
// sharing an input at most one is ever signed.
type Service struct {
	lk sync.Mutex

	ds      datastore.Batching
	commits *statestore.StateStore
	filter  *bloom.BloomFilter

	sk    crypto.PrivKey
	self  peer.ID
	clock clock.Clock

	jrnl   journal.Journal
	evtTxs struct {
		commit   journal.EventType
		conflict journal.EventType
	}
}

// NotaryJournalEntry is recorded for every commit and every rejected
// double spend.
type NotaryJournalEntry struct {
	Tx        cid.Cid
	Inputs    []types.StateRef `json:",omitempty"`
	Conflicts []Conflict       `json:",omitempty"`
}

var _ Notary = (*Service)(nil)

type ServiceOption func(*Service)

func WithClock(c clock.Clock) ServiceOption {
	return func(s *Service) {
		s.clock = c
	}
}

// WithJournal records commits and conflicts in j instead of the process
// journal.
func WithJournal(j journal.Journal) ServiceOption {
	return func(s *Service) {
		s.jrnl = j
	}
}

func NewService(ctx context.Context, ds datastore.Batching, sk crypto.PrivKey, opts ...ServiceOption) (*Service, error) {
	self, err := peer.IDFromPrivateKey(sk)
	if err != nil {
		return nil, xerrors.Errorf("deriving notary id: %w", err)
	}

	nds := namespace.Wrap(ds, datastore.NewKey("/notary"))
	s := &Service{
		ds:      nds,
		commits: statestore.New(namespace.Wrap(nds, commitsPrefix)),
		filter:  bloom.NewWithEstimates(filterExpectedItems, filterFalsePositiveRate),
		sk:      sk,
		self:    self,
		clock:   clock.New(),
		jrnl:    journal.J,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.evtTxs.commit = s.jrnl.RegisterEventType("notary", "commit")
	s.evtTxs.conflict = s.jrnl.RegisterEventType("notary", "conflict")

	if err := s.loadFilter(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) ID() peer.ID {
	return s.self
}

func (s *Service) loadFilter(ctx context.Context) error {
	res, err := s.ds.Query(ctx, dsq.Query{Prefix: consumedPrefix.String(), KeysOnly: true})
	if err != nil {
		return xerrors.Errorf("querying consumed set: %w", err)
	}
	defer res.Close() //nolint:errcheck

	n := 0
	for r := range res.Next() {
		if r.Error != nil {
			return xerrors.Errorf("iterating consumed set: %w", r.Error)
		}
		s.filter.AddString(datastore.RawKey(r.Key).BaseNamespace())
		n++
	}
	log.Infow("loaded consumed set", "entries", n)
	return nil
}

func consumedName(ref types.StateRef) string {
	return fmt.Sprintf("%s-%d", ref.Tx, ref.Index)
}

func (s *Service) Notarise(ctx context.Context, stx *types.SignedTransaction) (*types.Signature, error) {
	stats.Record(ctx, metrics.NotariseRequests.M(1))
	defer metrics.Timer(ctx, metrics.NotariseDuration)()

	if stx.Tx.Notary != s.self {
		return nil, xerrors.Errorf("transaction names %s, this notary is %s: %w", stx.Tx.Notary, s.self, ErrWrongNotary)
	}

	txid, err := sigs.VerifyTransaction(stx)
	if err != nil {
		return nil, xerrors.Errorf("%s: %w", err.Error(), ErrInvalid)
	}

	s.lk.Lock()
	defer s.lk.Unlock()

	has, err := s.commits.Has(txid)
	if err != nil {
		return nil, xerrors.Errorf("checking commit record: %w", err)
	}
	if has {
		var rec CommitRecord
		if err := s.commits.Get(txid).Get(&rec); err != nil {
			return nil, xerrors.Errorf("loading commit record: %w", err)
		}
		log.Debugw("transaction already notarised", "tx", txid)
		return &rec.Signature, nil
	}

	var conflicts []Conflict
	inputs := make([]types.StateRef, 0, len(stx.Tx.Inputs))
	for _, in := range stx.Tx.Inputs {
		inputs = append(inputs, in.Ref)

		name := consumedName(in.Ref)
		if !s.filter.TestString(name) {
			continue
		}
		b, err := s.ds.Get(ctx, consumedPrefix.ChildString(name))
		if xerrors.Is(err, datastore.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, xerrors.Errorf("reading consumed set: %w", err)
		}
		by, err := cid.Cast(b)
		if err != nil {
			return nil, xerrors.Errorf("decoding consumer of %s: %w", in.Ref, err)
		}
		if !by.Equals(txid) {
			conflicts = append(conflicts, Conflict{Ref: in.Ref, ConsumedBy: by})
		}
	}

	if len(conflicts) > 0 {
		stats.Record(ctx, metrics.NotariseConflicts.M(1))
		log.Warnw("rejecting double spend", "tx", txid, "conflicts", len(conflicts))
		s.jrnl.RecordEvent(s.evtTxs.conflict, func() interface{} {
			return &NotaryJournalEntry{Tx: txid, Conflicts: conflicts}
		})
		return nil, &ConflictError{Tx: txid, Conflicts: conflicts}
	}

	sig, err := sigs.SignTransaction(s.sk, txid)
	if err != nil {
		return nil, xerrors.Errorf("signing transaction: %w", err)
	}

	batch, err := s.ds.Batch(ctx)
	if err != nil {
		return nil, err
	}
	for _, ref := range inputs {
		if err := batch.Put(ctx, consumedPrefix.ChildString(consumedName(ref)), txid.Bytes()); err != nil {
			return nil, err
		}
	}
	if err := batch.Commit(ctx); err != nil {
		return nil, xerrors.Errorf("committing consumed set: %w", err)
	}
	for _, ref := range inputs {
		s.filter.AddString(consumedName(ref))
	}

	// a crash before this point leaves the inputs marked as consumed by txid,
	// which a retry of the same transaction accepts
	rec := &CommitRecord{
		Tx:          txid,
		Inputs:      inputs,
		Signature:   *sig,
		CommittedAt: s.clock.Now().UnixNano(),
	}
	if err := s.commits.Begin(txid, rec); err != nil {
		return nil, xerrors.Errorf("storing commit record: %w", err)
	}

	log.Infow("notarised transaction", "tx", txid, "inputs", len(inputs))
	s.jrnl.RecordEvent(s.evtTxs.commit, func() interface{} {
		return &NotaryJournalEntry{Tx: txid, Inputs: inputs}
	})
	return sig, nil
}

// Committed returns the commit record for txid.
func (s *Service) Committed(txid cid.Cid) (*CommitRecord, error) {
	var rec CommitRecord
	if err := s.commits.Get(txid).Get(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ConsumedBy returns the transaction that consumed ref, or cid.Undef.
func (s *Service) ConsumedBy(ctx context.Context, ref types.StateRef) (cid.Cid, error) {
	b, err := s.ds.Get(ctx, consumedPrefix.ChildString(consumedName(ref)))
	if xerrors.Is(err, datastore.ErrNotFound) {
		return cid.Undef, nil
	}
	if err != nil {
		return cid.Undef, err
	}
	return cid.Cast(b)
}

// Commits lists every commit record, in no particular order.
func (s *Service) Commits() ([]CommitRecord, error) {
	var out []CommitRecord
	if err := s.commits.List(&out); err != nil {
		return nil, err
	}
	return out, nil
}
