package impl

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hannahhoward/go-pubsub"
	"github.com/ipfs/go-cid"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/raulk/clock"
	"github.com/shopspring/decimal"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"golang.org/x/sync/semaphore"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-statemachine"
	"github.com/filecoin-project/go-statemachine/fsm"

	"github.com/fundport/fundport/journal"
	"github.com/fundport/fundport/ledger/contract"
	"github.com/fundport/fundport/ledger/notary"
	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/ledger/vault"
	"github.com/fundport/fundport/metrics"
	"github.com/fundport/fundport/portability"
	"github.com/fundport/fundport/portability/impl/negotiationstates"
	"github.com/fundport/fundport/portability/network"
)

var log = logging.Logger("portability")

const (
	DefaultNegotiationTimeout      = time.Minute
	DefaultMaxConcurrentRoundTrips = 16
)

// Manager drives negotiations for the local party: it builds transactions,
// runs each one through the negotiation state machine and answers the
// proposals and finalized transactions other parties send us.
type Manager struct {
	self   peer.ID
	sk     crypto.PrivKey
	net    network.PortabilityNetwork
	vault  *vault.Vault
	notary notary.Notary

	builder  *Builder
	acceptor *Acceptor

	clock         clock.Clock
	timeout       time.Duration
	maxRoundTrips int64
	sem           *semaphore.Weighted

	journal       journal.Journal
	evtTypes      map[portability.NegotiationEvent]journal.EventType
	subscribers   *pubsub.PubSub
	stateMachines fsm.Group

	inflightLk sync.Mutex
	inflight   map[cid.Cid]context.CancelFunc
	cancelling map[cid.Cid]struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Manager
type Option func(*Manager)

func WithClock(clk clock.Clock) Option {
	return func(m *Manager) {
		m.clock = clk
	}
}

// NegotiationTimeout bounds how long a sent proposal waits for its answer.
func NegotiationTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.timeout = d
	}
}

// MaxConcurrentRoundTrips bounds concurrent network and notary calls across
// all negotiations.
func MaxConcurrentRoundTrips(n int64) Option {
	return func(m *Manager) {
		m.maxRoundTrips = n
	}
}

func WithJournal(j journal.Journal) Option {
	return func(m *Manager) {
		m.journal = j
	}
}

type internalEvent struct {
	evt portability.NegotiationEvent
	neg portability.Negotiation
}

func dispatcher(evt pubsub.Event, subscriberFn pubsub.SubscriberFn) error {
	ie, ok := evt.(internalEvent)
	if !ok {
		return errors.New("wrong type of event")
	}
	cb, ok := subscriberFn.(portability.Subscriber)
	if !ok {
		return errors.New("wrong type of event")
	}
	log.Debugw("process negotiation listeners", "name", portability.NegotiationEvents[ie.evt], "proposal cid", ie.neg.ProposalCid)
	cb(ie.evt, ie.neg)
	return nil
}

// NewManager creates a Manager whose negotiations persist under
// /negotiations in ds.
func NewManager(
	ds datastore.Batching,
	sk crypto.PrivKey,
	net network.PortabilityNetwork,
	v *vault.Vault,
	n notary.Notary,
	notaryID peer.ID,
	options ...Option,
) (*Manager, error) {
	self, err := peer.IDFromPrivateKey(sk)
	if err != nil {
		return nil, xerrors.Errorf("deriving identity: %w", err)
	}
	acceptor, err := NewAcceptor(sk, notaryID, v)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		self:          self,
		sk:            sk,
		net:           net,
		vault:         v,
		notary:        n,
		builder:       NewBuilder(self, notaryID, v),
		acceptor:      acceptor,
		clock:         clock.New(),
		timeout:       DefaultNegotiationTimeout,
		maxRoundTrips: DefaultMaxConcurrentRoundTrips,
		journal:       journal.NilJournal(),
		subscribers:   pubsub.New(dispatcher),
		inflight:      make(map[cid.Cid]context.CancelFunc),
		cancelling:    make(map[cid.Cid]struct{}),
	}
	for _, option := range options {
		option(m)
	}
	m.sem = semaphore.NewWeighted(m.maxRoundTrips)
	m.ctx, m.cancel = context.WithCancel(context.Background())

	m.evtTypes = make(map[portability.NegotiationEvent]journal.EventType, len(portability.NegotiationEvents))
	for evt, name := range portability.NegotiationEvents {
		m.evtTypes[evt] = m.journal.RegisterEventType("negotiation", strings.ToLower(strings.TrimPrefix(name, "NegotiationEvent")))
	}

	m.stateMachines, err = fsm.New(namespace.Wrap(ds, datastore.NewKey("/negotiations")), fsm.Parameters{
		Environment:     &negotiationEnvironment{m},
		StateType:       portability.Negotiation{},
		StateKeyField:   "Status",
		Events:          negotiationstates.NegotiationEvents,
		StateEntryFuncs: negotiationstates.NegotiationStateEntryFuncs,
		FinalityStates:  negotiationstates.NegotiationFinalityStates,
		Notifier:        m.notifySubscribers,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) ID() peer.ID {
	return m.self
}

// Start begins answering counterparties and resumes every negotiation that
// had not finished when the node last stopped.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.net.SetDelegate(&receiver{m}); err != nil {
		return err
	}

	var negs []portability.Negotiation
	if err := m.stateMachines.List(&negs); err != nil {
		return xerrors.Errorf("listing negotiations: %w", err)
	}
	for _, neg := range negs {
		if neg.Status.Terminal() {
			continue
		}
		log.Infow("resuming negotiation", "proposal cid", neg.ProposalCid, "status", neg.Status)
		if err := m.restart(neg); err != nil {
			log.Errorw("resuming negotiation", "proposal cid", neg.ProposalCid, "error", err)
		}
	}
	return nil
}

// Stop stops answering counterparties and waits for the state machines to
// quiesce.
func (m *Manager) Stop(ctx context.Context) error {
	if err := m.net.StopHandlingRequests(); err != nil {
		log.Warnw("stopping network handlers", "error", err)
	}
	m.cancel()
	return m.stateMachines.Stop(ctx)
}

func (m *Manager) restart(neg portability.Negotiation) error {
	if neg.Status == portability.StatusUndefined {
		return m.stateMachines.Send(neg.ProposalCid, portability.NegotiationEventOpen)
	}
	return m.stateMachines.Send(neg.ProposalCid, portability.NegotiationEventRestart)
}

// InitiateTransfer accepts the request with the given id, moving the fund it
// references to the requester. It blocks until the negotiation ends and
// returns the committed transaction id or a typed failure.
func (m *Manager) InitiateTransfer(ctx context.Context, requestID uuid.UUID) (cid.Cid, error) {
	tx, err := m.builder.BuildAccept(ctx, requestID)
	if err != nil {
		return cid.Undef, err
	}
	return m.negotiate(ctx, portability.FlowAccept, requestID.String(), tx)
}

// RejectRequest rejects the request with the given id; the fund is untouched.
func (m *Manager) RejectRequest(ctx context.Context, requestID uuid.UUID) (cid.Cid, error) {
	tx, err := m.builder.BuildReject(ctx, requestID)
	if err != nil {
		return cid.Undef, err
	}
	return m.negotiate(ctx, portability.FlowReject, requestID.String(), tx)
}

// RequestTransfer asks requested to hand over the fund with the given
// external id. It returns the id of the new request.
func (m *Manager) RequestTransfer(ctx context.Context, fundRef string, requested peer.ID) (uuid.UUID, cid.Cid, error) {
	tx, err := m.builder.BuildRequest(ctx, fundRef, requested)
	if err != nil {
		return uuid.Nil, cid.Undef, err
	}
	requestID := tx.Outputs[0].Request.LinearID
	id, err := m.negotiate(ctx, portability.FlowRequest, requestID.String(), tx)
	return requestID, id, err
}

// IssueFund creates a fund owned by the local party.
func (m *Manager) IssueFund(ctx context.Context, externalID string, balance decimal.Decimal) (cid.Cid, error) {
	tx, err := m.builder.BuildIssue(ctx, externalID, balance)
	if err != nil {
		return cid.Undef, err
	}
	return m.negotiate(ctx, portability.FlowIssue, externalID, tx)
}

func (m *Manager) negotiate(ctx context.Context, kind portability.FlowKind, subject string, tx *types.WireTransaction) (cid.Cid, error) {
	id, err := tx.Cid()
	if err != nil {
		return cid.Undef, xerrors.Errorf("computing transaction id: %w", err)
	}
	counterparty, err := m.counterpartyOf(tx)
	if err != nil {
		return cid.Undef, err
	}

	neg := portability.Negotiation{
		ProposalCid:  id,
		Kind:         kind,
		Subject:      subject,
		Counterparty: counterparty,
		Tx:           types.SignedTransaction{Tx: *tx},
		Status:       portability.StatusUndefined,
		CreatedAt:    m.clock.Now().UnixNano(),
	}

	wait, unsub := m.await(id)
	defer unsub()

	if err := m.stateMachines.Begin(id, &neg); err != nil {
		return cid.Undef, xerrors.Errorf("tracking negotiation %s: %w", id, err)
	}
	if err := m.stateMachines.Send(id, portability.NegotiationEventOpen); err != nil {
		return cid.Undef, err
	}
	_ = stats.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(metrics.FlowKind, kind.String())}, metrics.NegotiationStarted.M(1))
	log.Infow("negotiation started", "proposal cid", id, "kind", kind, "subject", subject, "counterparty", counterparty)

	return id, wait(ctx)
}

// counterpartyOf is the one other party that must sign, or empty when the
// local party is the only signer.
func (m *Manager) counterpartyOf(tx *types.WireTransaction) (peer.ID, error) {
	var out peer.ID
	self := false
	for _, p := range tx.RequiredSigners() {
		if p == m.self {
			self = true
			continue
		}
		if out != "" {
			return "", xerrors.Errorf("transaction needs more than one counterparty")
		}
		out = p
	}
	if !self {
		return "", ErrNotParticipant
	}
	return out, nil
}

// await registers for the outcome of a negotiation before it is kicked off,
// so no event can be missed.
func (m *Manager) await(id cid.Cid) (func(context.Context) error, portability.Unsubscribe) {
	outcome := make(chan portability.Negotiation, 1)
	unsub := m.SubscribeToEvents(func(evt portability.NegotiationEvent, neg portability.Negotiation) {
		if !neg.ProposalCid.Equals(id) {
			return
		}
		if !neg.Status.Terminal() && evt != portability.NegotiationEventInfraError {
			return
		}
		select {
		case outcome <- neg:
		default:
		}
	})

	wait := func(ctx context.Context) error {
		select {
		case neg := <-outcome:
			return outcomeError(neg)
		case <-ctx.Done():
			return xerrors.Errorf("waiting for negotiation %s: %w", id, ctx.Err())
		case <-m.ctx.Done():
			return &portability.InfrastructureError{ID: id, Err: errors.New("node shutting down")}
		}
	}
	return wait, unsub
}

// outcomeError maps where a negotiation stopped to the error its caller sees.
func outcomeError(neg portability.Negotiation) error {
	switch neg.Status {
	case portability.StatusCommitted:
		return nil
	case portability.StatusRejectedRemote:
		return &portability.RejectedRemoteError{Reason: neg.Message}
	case portability.StatusTimedOut:
		return xerrors.Errorf("negotiation %s: %w", neg.ProposalCid, portability.ErrTimedOut)
	case portability.StatusAborted:
		switch neg.Failure {
		case portability.FailureVerification:
			return &contract.RejectedError{Reason: neg.Message}
		case portability.FailureConflict:
			return &notary.ConflictError{Tx: neg.ProposalCid, Conflicts: neg.Conflicts}
		case portability.FailureCancelled:
			return xerrors.Errorf("negotiation %s: %w", neg.ProposalCid, portability.ErrCancelled)
		case portability.FailureInvalidEndorsement:
			return xerrors.Errorf("negotiation %s: %s: %w", neg.ProposalCid, neg.Message, portability.ErrInvalidEndorsement)
		case portability.FailureNotaryRejected:
			return xerrors.Errorf("negotiation %s: %s: %w", neg.ProposalCid, neg.Message, portability.ErrNotaryRejected)
		default:
			return xerrors.Errorf("negotiation %s aborted: %s", neg.ProposalCid, neg.Message)
		}
	default:
		return &portability.InfrastructureError{ID: neg.ProposalCid, Err: errors.New(neg.Message)}
	}
}

// Resume re-runs the current step of a suspended negotiation and waits for
// its outcome.
func (m *Manager) Resume(ctx context.Context, id cid.Cid) error {
	neg, err := m.GetNegotiation(id)
	if err != nil {
		return err
	}
	if neg.Status.Terminal() {
		return xerrors.Errorf("negotiation %s is %s: %w", id, neg.Status, portability.ErrAlreadyFinished)
	}

	wait, unsub := m.await(id)
	defer unsub()

	if err := m.restart(neg); err != nil {
		return err
	}
	return wait(ctx)
}

// Cancel abandons a negotiation that has not reached the notary. An exchange
// in flight is interrupted.
// Cancel aborts a negotiation that has not reached the notary. It returns
// once the cancel event has been applied, with ErrNotCancellable if the
// negotiation moved to finalization or finished first.
func (m *Manager) Cancel(ctx context.Context, id cid.Cid) error {
	neg, err := m.GetNegotiation(id)
	if err != nil {
		return err
	}
	if !neg.Status.Cancellable() {
		return xerrors.Errorf("negotiation %s is %s: %w", id, neg.Status, portability.ErrNotCancellable)
	}
	return m.sendCancel(ctx, id)
}

// sendCancel queues the cancel event and reports whether it was applied. The
// negotiation may have left the cancellable states since it was last read.
func (m *Manager) sendCancel(ctx context.Context, id cid.Cid) error {
	// queue the event first, so it is applied as soon as the exchange unwinds
	err := m.stateMachines.Send(id, portability.NegotiationEventCancel, m.clock.Now().UnixNano())
	if err != nil && !xerrors.Is(err, statemachine.ErrTerminated) {
		return err
	}

	m.inflightLk.Lock()
	m.cancelling[id] = struct{}{}
	cancel, ok := m.inflight[id]
	m.inflightLk.Unlock()
	defer func() {
		m.inflightLk.Lock()
		delete(m.cancelling, id)
		m.inflightLk.Unlock()
	}()
	if ok {
		cancel()
	}

	var neg portability.Negotiation
	if err := m.stateMachines.GetSync(ctx, id, &neg); err != nil {
		return xerrors.Errorf("awaiting cancel of negotiation %s: %w", id, err)
	}
	if neg.Status != portability.StatusAborted || neg.Failure != portability.FailureCancelled {
		return xerrors.Errorf("negotiation %s is %s: %w", id, neg.Status, portability.ErrNotCancellable)
	}
	return nil
}

func (m *Manager) GetNegotiation(id cid.Cid) (portability.Negotiation, error) {
	has, err := m.stateMachines.Has(id)
	if err != nil {
		return portability.Negotiation{}, err
	}
	if !has {
		return portability.Negotiation{}, xerrors.Errorf("negotiation %s: %w", id, portability.ErrUnknownNegotiation)
	}
	var out portability.Negotiation
	if err := m.stateMachines.Get(id).Get(&out); err != nil {
		return portability.Negotiation{}, err
	}
	return out, nil
}

func (m *Manager) ListNegotiations() ([]portability.Negotiation, error) {
	var negs []portability.Negotiation
	if err := m.stateMachines.List(&negs); err != nil {
		return nil, err
	}
	return negs, nil
}

// SubscribeToEvents allows another component to listen for events on any
// negotiation
func (m *Manager) SubscribeToEvents(subscriber portability.Subscriber) portability.Unsubscribe {
	return portability.Unsubscribe(m.subscribers.Subscribe(subscriber))
}

func (m *Manager) notifySubscribers(eventName fsm.EventName, state fsm.StateType) {
	evt := eventName.(portability.NegotiationEvent)
	neg := state.(portability.Negotiation)

	if et, ok := m.evtTypes[evt]; ok && et.Enabled() {
		m.journal.RecordEvent(et, func() interface{} {
			return NegotiationJournalEntry{
				ProposalCid: neg.ProposalCid.String(),
				Kind:        neg.Kind.String(),
				Status:      neg.Status.String(),
				Failure:     neg.Failure.String(),
				Message:     neg.Message,
			}
		})
	}

	if neg.Status.Terminal() && evt != portability.NegotiationEventRestart && evt != portability.NegotiationEventInfraError {
		ctx, _ := tag.New(m.ctx,
			tag.Upsert(metrics.FlowKind, neg.Kind.String()),
			tag.Upsert(metrics.Outcome, neg.Status.String()),
		)
		stats.Record(ctx, metrics.NegotiationFinished.M(1))
		if neg.FinishedAt > neg.CreatedAt {
			stats.Record(ctx, metrics.NegotiationDuration.M(float64(time.Duration(neg.FinishedAt-neg.CreatedAt).Milliseconds())))
		}
		log.Infow("negotiation finished", "proposal cid", neg.ProposalCid, "status", neg.Status, "failure", neg.Failure, "message", neg.Message)
	}

	_ = m.subscribers.Publish(internalEvent{evt, neg})
}

// NegotiationJournalEntry is what the journal keeps for each negotiation event.
type NegotiationJournalEntry struct {
	ProposalCid string
	Kind        string
	Status      string
	Failure     string
	Message     string
}

func (m *Manager) track(id cid.Cid, cancel context.CancelFunc) {
	m.inflightLk.Lock()
	defer m.inflightLk.Unlock()
	if _, ok := m.cancelling[id]; ok {
		cancel()
	}
	m.inflight[id] = cancel
}

func (m *Manager) untrack(id cid.Cid) {
	m.inflightLk.Lock()
	delete(m.inflight, id)
	m.inflightLk.Unlock()
}
