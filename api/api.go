package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/ipfs/go-cid"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/shopspring/decimal"

	"github.com/fundport/fundport/build"
	"github.com/fundport/fundport/ledger/types"
	"github.com/fundport/fundport/ledger/vault"
	"github.com/fundport/fundport/portability"
)

// FullNode is the interface a fundport daemon serves to its operator.
type FullNode interface {
	// MethodGroup: Common

	// Version returns the API version and the identity of the node
	Version(context.Context) (APIVersion, error)
	// ID returns the ledger identity of this node
	ID(context.Context) (peer.ID, error)

	// MethodGroup: Net

	NetAddrsListen(context.Context) (peer.AddrInfo, error)
	NetConnect(context.Context, peer.AddrInfo) error
	NetPeers(context.Context) ([]peer.AddrInfo, error)

	// MethodGroup: Fund

	// FundIssue creates a fund owned by this node
	FundIssue(ctx context.Context, externalID string, balance decimal.Decimal) (cid.Cid, error)

	// MethodGroup: Request
	// Each of these blocks until the negotiation it starts reaches a
	// terminal state, and returns the proposal id either way.

	// RequestCreate asks the owner of fundRef to transfer it to this node
	RequestCreate(ctx context.Context, fundRef string, requested peer.ID) (RequestCreated, error)
	// RequestAccept accepts a pending request addressed to this node and
	// moves the fund to the requester
	RequestAccept(ctx context.Context, requestID uuid.UUID) (cid.Cid, error)
	// RequestReject declines a pending request addressed to this node
	RequestReject(ctx context.Context, requestID uuid.UUID) (cid.Cid, error)

	// MethodGroup: Vault

	// VaultList lists the unconsumed records of a kind ("fund" or "request")
	VaultList(ctx context.Context, kind types.StateKind) ([]types.StateAndRef, error)
	// VaultHistory lists every version of a record, oldest first
	VaultHistory(ctx context.Context, kind types.StateKind, linearID string) ([]vault.StoredState, error)
	VaultTransaction(ctx context.Context, txid cid.Cid) (*types.SignedTransaction, error)

	// MethodGroup: Negotiation

	NegotiationList(context.Context) ([]portability.Negotiation, error)
	NegotiationGet(ctx context.Context, proposal cid.Cid) (*portability.Negotiation, error)
	// NegotiationResume drives a negotiation stopped by an infrastructure
	// error to a terminal state
	NegotiationResume(ctx context.Context, proposal cid.Cid) error
	// NegotiationCancel aborts a negotiation that has not started finalizing
	NegotiationCancel(ctx context.Context, proposal cid.Cid) error
	// NegotiationUpdates streams every negotiation update until ctx is done
	NegotiationUpdates(context.Context) (<-chan NegotiationUpdate, error)

	// MethodGroup: Notary

	// NotaryID returns the sequencing authority this node uses
	NotaryID(context.Context) (peer.ID, error)
}

type APIVersion struct {
	Version string

	// APIVersion is a binary encoded semver version of the remote implementing
	// this api
	APIVersion build.Version

	ID peer.ID
}

type RequestCreated struct {
	RequestID uuid.UUID
	Proposal  cid.Cid
}

type NegotiationUpdate struct {
	Event       string
	Negotiation portability.Negotiation
}
