package impl

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/ledger/vault"
)

var (
	// ErrNotParticipant is returned when the local party has no role to play
	// in the requested change.
	ErrNotParticipant = errors.New("local party is not entitled to this change")
	// ErrFundExists is returned when issuing a fund whose external id is
	// already tracked.
	ErrFundExists = errors.New("fund already exists")
)

// Builder assembles transactions from the current unconsumed records. It
// performs lookups only; nothing is written.
type Builder struct {
	self   peer.ID
	notary peer.ID
	vault  *vault.Vault
}

func NewBuilder(self, notary peer.ID, v *vault.Vault) *Builder {
	return &Builder{self: self, notary: notary, vault: v}
}

func (b *Builder) request(ctx context.Context, requestID uuid.UUID) (types.StateAndRef, error) {
	in, err := b.vault.Single(ctx, types.KindRequest, func(s types.LedgerState) bool {
		return s.Request.LinearID == requestID
	})
	if err != nil {
		return types.StateAndRef{}, xerrors.Errorf("looking up request %s: %w", requestID, err)
	}
	return in, nil
}

func (b *Builder) fund(ctx context.Context, externalID string) (types.StateAndRef, error) {
	in, err := b.vault.Single(ctx, types.KindFund, func(s types.LedgerState) bool {
		return s.Fund.ExternalID == externalID
	})
	if err != nil {
		return types.StateAndRef{}, xerrors.Errorf("looking up fund %s: %w", externalID, err)
	}
	return in, nil
}

// BuildAccept consumes the request and the fund it references, producing the
// request marked accepted and the fund owned by the requester.
func (b *Builder) BuildAccept(ctx context.Context, requestID uuid.UUID) (*types.WireTransaction, error) {
	reqIn, err := b.request(ctx, requestID)
	if err != nil {
		return nil, err
	}
	req := reqIn.State.Request
	if req.Requested != b.self {
		return nil, xerrors.Errorf("request %s is addressed to %s: %w", requestID, req.Requested, ErrNotParticipant)
	}

	fundIn, err := b.fund(ctx, req.FundReference)
	if err != nil {
		return nil, err
	}

	reqOut := *req
	reqOut.Status = types.RequestAccepted
	fundOut := *fundIn.State.Fund
	fundOut.Owner = req.Requester

	signers := reqOut.Participants()
	return &types.WireTransaction{
		Inputs:  []types.StateAndRef{reqIn, fundIn},
		Outputs: []types.LedgerState{{Request: &reqOut}, {Fund: &fundOut}},
		Commands: []types.Command{
			{Kind: types.CommandAccept, Signers: signers},
			{Kind: types.CommandTransfer, Signers: signers},
		},
		Notary: b.notary,
		Nonce:  uuid.NewString(),
	}, nil
}

// BuildReject marks a request rejected. The fund is not an input.
func (b *Builder) BuildReject(ctx context.Context, requestID uuid.UUID) (*types.WireTransaction, error) {
	reqIn, err := b.request(ctx, requestID)
	if err != nil {
		return nil, err
	}
	req := reqIn.State.Request
	if req.Requested != b.self {
		return nil, xerrors.Errorf("request %s is addressed to %s: %w", requestID, req.Requested, ErrNotParticipant)
	}

	reqOut := *req
	reqOut.Status = types.RequestRejected

	return &types.WireTransaction{
		Inputs:   []types.StateAndRef{reqIn},
		Outputs:  []types.LedgerState{{Request: &reqOut}},
		Commands: []types.Command{{Kind: types.CommandReject, Signers: reqOut.Participants()}},
		Notary:   b.notary,
		Nonce:    uuid.NewString(),
	}, nil
}

// BuildRequest opens a request from the local party to requested for the
// fund with the given external id.
func (b *Builder) BuildRequest(ctx context.Context, fundRef string, requested peer.ID) (*types.WireTransaction, error) {
	if requested == b.self {
		return nil, xerrors.Errorf("cannot request a fund from ourselves: %w", ErrNotParticipant)
	}

	req := &types.RequestState{
		LinearID:      uuid.New(),
		Requester:     b.self,
		Requested:     requested,
		FundReference: fundRef,
		Status:        types.RequestRequested,
	}

	return &types.WireTransaction{
		Outputs:  []types.LedgerState{{Request: req}},
		Commands: []types.Command{{Kind: types.CommandRequest, Signers: req.Participants()}},
		Notary:   b.notary,
		Nonce:    uuid.NewString(),
	}, nil
}

// BuildIssue creates a fund owned by the local party.
func (b *Builder) BuildIssue(ctx context.Context, externalID string, balance decimal.Decimal) (*types.WireTransaction, error) {
	_, err := b.fund(ctx, externalID)
	switch {
	case err == nil:
		return nil, xerrors.Errorf("issuing %s: %w", externalID, ErrFundExists)
	case !xerrors.Is(err, vault.ErrNotFound):
		return nil, err
	}

	fund := &types.FundState{
		ExternalID: externalID,
		Balance:    types.NewAmount(balance),
		Owner:      b.self,
	}

	return &types.WireTransaction{
		Outputs:  []types.LedgerState{{Fund: fund}},
		Commands: []types.Command{{Kind: types.CommandIssue, Signers: fund.Participants()}},
		Notary:   b.notary,
		Nonce:    uuid.NewString(),
	}, nil
}
