package negotiationstates_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/raulk/clock"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-statemachine/fsm"
	fsmtest "github.com/filecoin-project/go-statemachine/fsm/testutil"

	"github.com/fundport/fundport/ledger/notary"
	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/ledger/types/mock"
	"github.com/fundport/fundport/portability"
	"github.com/fundport/fundport/portability/impl/negotiationstates"
)

const testTimeout = time.Minute

func TestVerifyLocal(t *testing.T) {
	ctx := context.Background()
	eventProcessor, err := fsm.NewEventProcessor(portability.Negotiation{}, "Status", negotiationstates.NegotiationEvents)
	require.NoError(t, err)
	runVerifyLocal := makeExecutor(ctx, eventProcessor, negotiationstates.VerifyLocal, portability.StatusBuilt)

	tests := map[string]struct {
		envParams    envParams
		negInspector func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment)
	}{
		"succeeds": {
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusVerifiedLocal, neg.Status)
				require.Equal(t, portability.FailureNone, neg.Failure)
			},
		},
		"contract rejects": {
			envParams: envParams{VerifyError: errors.New("balance altered")},
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusAborted, neg.Status)
				require.Equal(t, portability.FailureVerification, neg.Failure)
				require.Equal(t, "local verification failed: balance altered", neg.Message)
				require.NotZero(t, neg.FinishedAt)
			},
		},
	}
	for test, data := range tests {
		t.Run(test, func(t *testing.T) {
			runVerifyLocal(t, data.envParams, nil, data.negInspector)
		})
	}
}

func TestSignAndSend(t *testing.T) {
	ctx := context.Background()
	eventProcessor, err := fsm.NewEventProcessor(portability.Negotiation{}, "Status", negotiationstates.NegotiationEvents)
	require.NoError(t, err)
	runSignAndSend := makeExecutor(ctx, eventProcessor, negotiationstates.SignAndSend, portability.StatusVerifiedLocal)

	tests := map[string]struct {
		envParams    envParams
		negInspector func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment)
	}{
		"succeeds": {
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusSent, neg.Status)
				_, ok := neg.Tx.SignatureBy(env.self)
				require.True(t, ok)
				require.Equal(t, env.clock.Now().UnixNano(), neg.SentAt)
			},
		},
		"signing fails": {
			envParams: envParams{SignError: errors.New("no key")},
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusVerifiedLocal, neg.Status)
				require.Contains(t, neg.Message, "no key")
			},
		},
	}
	for test, data := range tests {
		t.Run(test, func(t *testing.T) {
			runSignAndSend(t, data.envParams, nil, data.negInspector)
		})
	}
}

func TestAwaitEndorsement(t *testing.T) {
	ctx := context.Background()
	eventProcessor, err := fsm.NewEventProcessor(portability.Negotiation{}, "Status", negotiationstates.NegotiationEvents)
	require.NoError(t, err)
	runAwaitEndorsement := makeExecutor(ctx, eventProcessor, negotiationstates.AwaitEndorsement, portability.StatusSent)

	tests := map[string]struct {
		envParams    envParams
		negParams    func(neg *portability.Negotiation, env *fakeEnvironment)
		negInspector func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment)
	}{
		"endorsed": {
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusEndorsed, neg.Status)
				require.Equal(t, 1, env.exchanges)
				_, ok := neg.Tx.SignatureBy(neg.Counterparty)
				require.True(t, ok)
			},
		},
		"no counterparty": {
			negParams: func(neg *portability.Negotiation, env *fakeEnvironment) {
				neg.Counterparty = ""
			},
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusEndorsed, neg.Status)
				require.Equal(t, 0, env.exchanges)
			},
		},
		"rejected by counterparty": {
			envParams: envParams{ExchangeError: &portability.RejectedRemoteError{Reason: "request already accepted"}},
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusRejectedRemote, neg.Status)
				require.Equal(t, portability.FailureRejectedRemote, neg.Failure)
				require.Equal(t, "request already accepted", neg.Message)
			},
		},
		"endorsed by the wrong party": {
			envParams: envParams{WrongSigner: true},
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusRejectedRemote, neg.Status)
			},
		},
		"window already closed": {
			negParams: func(neg *portability.Negotiation, env *fakeEnvironment) {
				neg.SentAt = env.clock.Now().Add(-2 * testTimeout).UnixNano()
			},
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusTimedOut, neg.Status)
				require.Equal(t, portability.FailureTimedOut, neg.Failure)
				require.Equal(t, 0, env.exchanges)
			},
		},
		"window closes while waiting": {
			envParams: envParams{ExchangeBlocks: true},
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusTimedOut, neg.Status)
				require.Equal(t, 1, env.exchanges)
			},
		},
		"network failure": {
			envParams: envParams{ExchangeError: errors.New("connection refused")},
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusSent, neg.Status)
				require.Equal(t, portability.FailureNone, neg.Failure)
				require.Contains(t, neg.Message, "connection refused")
			},
		},
	}
	for test, data := range tests {
		t.Run(test, func(t *testing.T) {
			runAwaitEndorsement(t, data.envParams, data.negParams, data.negInspector)
		})
	}
}

func TestCheckEndorsements(t *testing.T) {
	ctx := context.Background()
	eventProcessor, err := fsm.NewEventProcessor(portability.Negotiation{}, "Status", negotiationstates.NegotiationEvents)
	require.NoError(t, err)
	runCheckEndorsements := makeExecutor(ctx, eventProcessor, negotiationstates.CheckEndorsements, portability.StatusEndorsed)

	tests := map[string]struct {
		envParams    envParams
		negInspector func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment)
	}{
		"succeeds": {
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusFinalizing, neg.Status)
			},
		},
		"missing signature": {
			envParams: envParams{CheckSignaturesError: errors.New("missing signatures")},
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusAborted, neg.Status)
				require.Equal(t, portability.FailureInvalidEndorsement, neg.Failure)
			},
		},
	}
	for test, data := range tests {
		t.Run(test, func(t *testing.T) {
			runCheckEndorsements(t, data.envParams, nil, data.negInspector)
		})
	}
}

func TestFinalize(t *testing.T) {
	ctx := context.Background()
	eventProcessor, err := fsm.NewEventProcessor(portability.Negotiation{}, "Status", negotiationstates.NegotiationEvents)
	require.NoError(t, err)
	runFinalize := makeExecutor(ctx, eventProcessor, negotiationstates.Finalize, portability.StatusFinalizing)

	tests := map[string]struct {
		envParams    envParams
		negParams    func(neg *portability.Negotiation, env *fakeEnvironment)
		negInspector func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment)
	}{
		"commits": {
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusCommitted, neg.Status)
				require.NotNil(t, neg.Tx.NotarySig)
				require.Equal(t, 1, env.notarised)
				require.Len(t, env.recorded, 1)
				require.NotNil(t, env.recorded[0].NotarySig)
				require.Len(t, env.distributed, 1)
			},
		},
		"conflict": {
			envParams: envParams{NotariseError: &notary.ConflictError{}},
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusAborted, neg.Status)
				require.Equal(t, portability.FailureConflict, neg.Failure)
				require.Nil(t, neg.Tx.NotarySig)
				require.Empty(t, env.recorded)
				require.Empty(t, env.distributed)
			},
		},
		"notary unreachable": {
			envParams: envParams{NotariseError: notary.ErrUnavailable},
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusFinalizing, neg.Status)
				require.Nil(t, neg.Tx.NotarySig)
				require.Empty(t, env.recorded)
			},
		},
		"notary refuses malformed transaction": {
			envParams: envParams{NotariseError: xerrors.Errorf("missing signature: %w", notary.ErrInvalid)},
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusAborted, neg.Status)
				require.Equal(t, portability.FailureNotaryRejected, neg.Failure)
				require.Contains(t, neg.Message, "missing signature")
				require.NotZero(t, neg.FinishedAt)
				require.Nil(t, neg.Tx.NotarySig)
				require.Empty(t, env.recorded)
			},
		},
		"notary is not the one named": {
			envParams: envParams{NotariseError: notary.ErrWrongNotary},
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusAborted, neg.Status)
				require.Equal(t, portability.FailureNotaryRejected, neg.Failure)
				require.Empty(t, env.recorded)
			},
		},
		"distribution fails after notarisation": {
			envParams: envParams{DistributeError: errors.New("peer offline")},
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusFinalizing, neg.Status)
				require.NotNil(t, neg.Tx.NotarySig)
				require.Len(t, env.recorded, 1)
				require.Contains(t, neg.Message, "peer offline")
			},
		},
		"resumes after notarisation": {
			negParams: func(neg *portability.Negotiation, env *fakeEnvironment) {
				sig := types.Signature{Signer: env.self, Data: []byte("notarised")}
				neg.Tx.NotarySig = &sig
			},
			negInspector: func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment) {
				require.Equal(t, portability.StatusCommitted, neg.Status)
				require.Equal(t, 0, env.notarised)
				require.Len(t, env.distributed, 1)
			},
		},
	}
	for test, data := range tests {
		t.Run(test, func(t *testing.T) {
			runFinalize(t, data.envParams, data.negParams, data.negInspector)
		})
	}
}

type envParams struct {
	VerifyError          error
	SignError            error
	ExchangeError        error
	ExchangeBlocks       bool
	WrongSigner          bool
	CheckSignaturesError error
	NotariseError        error
	RecordError          error
	DistributeError      error
}

type executor func(t *testing.T,
	params envParams,
	negParams func(neg *portability.Negotiation, env *fakeEnvironment),
	negInspector func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment))

func makeExecutor(ctx context.Context,
	eventProcessor fsm.EventProcessor,
	stateEntryFunc negotiationstates.NegotiationStateEntryFunc,
	initialState portability.NegotiationStatus) executor {
	return func(t *testing.T,
		params envParams,
		negParams func(neg *portability.Negotiation, env *fakeEnvironment),
		negInspector func(t *testing.T, neg portability.Negotiation, env *fakeEnvironment)) {

		_, self := mock.Party(t)
		_, counterparty := mock.Party(t)
		_, notaryID := mock.Party(t)

		req := mock.Request(counterparty, self, "F1", types.RequestRequested)
		stx := types.SignedTransaction{Tx: *mock.AcceptTx(t, req, mock.Fund("F1", 5000, self), notaryID)}
		txid, err := stx.Cid()
		require.NoError(t, err)

		environment := &fakeEnvironment{
			params:       params,
			self:         self,
			counterparty: counterparty,
			clock:        clock.NewMock(),
		}
		environment.clock.Set(time.Unix(1_700_000_000, 0))

		neg := &portability.Negotiation{
			ProposalCid:  txid,
			Kind:         portability.FlowAccept,
			Subject:      req.LinearID.String(),
			Counterparty: counterparty,
			Tx:           stx,
			Status:       initialState,
			CreatedAt:    environment.clock.Now().UnixNano(),
			SentAt:       environment.clock.Now().UnixNano(),
		}
		if negParams != nil {
			negParams(neg, environment)
		}

		fsmCtx := fsmtest.NewTestContext(ctx, eventProcessor)
		err = stateEntryFunc(fsmCtx, environment, *neg)
		require.NoError(t, err)
		fsmCtx.ReplayEvents(t, neg)
		negInspector(t, *neg, environment)
	}
}

type fakeEnvironment struct {
	params       envParams
	self         peer.ID
	counterparty peer.ID
	clock        *clock.Mock

	exchanges   int
	notarised   int
	recorded    []types.SignedTransaction
	distributed []types.SignedTransaction
}

var _ negotiationstates.NegotiationEnvironment = (*fakeEnvironment)(nil)

func (fe *fakeEnvironment) Self() peer.ID {
	return fe.self
}

func (fe *fakeEnvironment) Clock() clock.Clock {
	return fe.clock
}

func (fe *fakeEnvironment) NegotiationTimeout() time.Duration {
	return testTimeout
}

func (fe *fakeEnvironment) Verify(tx *types.WireTransaction) error {
	return fe.params.VerifyError
}

func (fe *fakeEnvironment) Sign(txid cid.Cid) (*types.Signature, error) {
	if fe.params.SignError != nil {
		return nil, fe.params.SignError
	}
	return &types.Signature{Signer: fe.self, Data: txid.Bytes()}, nil
}

func (fe *fakeEnvironment) Exchange(ctx context.Context, neg portability.Negotiation) (*types.Signature, error) {
	fe.exchanges++
	if fe.params.ExchangeBlocks {
		// nobody answers; move time past the window
		go fe.clock.Add(2 * testTimeout)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if fe.params.ExchangeError != nil {
		return nil, fe.params.ExchangeError
	}
	signer := neg.Counterparty
	if fe.params.WrongSigner {
		signer = fe.self
	}
	return &types.Signature{Signer: signer, Data: neg.ProposalCid.Bytes()}, nil
}

func (fe *fakeEnvironment) CheckSignatures(stx *types.SignedTransaction) error {
	return fe.params.CheckSignaturesError
}

func (fe *fakeEnvironment) Notarise(ctx context.Context, stx *types.SignedTransaction) (*types.Signature, error) {
	fe.notarised++
	if fe.params.NotariseError != nil {
		return nil, fe.params.NotariseError
	}
	return &types.Signature{Signer: stx.Tx.Notary, Data: []byte("notarised")}, nil
}

func (fe *fakeEnvironment) Record(ctx context.Context, stx *types.SignedTransaction) error {
	if fe.params.RecordError != nil {
		return fe.params.RecordError
	}
	fe.recorded = append(fe.recorded, *stx)
	return nil
}

func (fe *fakeEnvironment) Distribute(ctx context.Context, stx *types.SignedTransaction) error {
	if fe.params.DistributeError != nil {
		return fe.params.DistributeError
	}
	fe.distributed = append(fe.distributed, *stx)
	return nil
}
