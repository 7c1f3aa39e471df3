// Package notary implements the uniqueness service that finalizes
// transactions. A notary signs a transaction only if none of its inputs has
// been consumed by a different transaction, which makes it the single point
// where concurrent attempts to spend the same record are decided.
package notary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/libp2p/go-libp2p/core/protocol"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/ledger/types"
)

// ProtocolID is the libp2p protocol remote notarisation runs over.
const ProtocolID = protocol.ID("/fundport/notary/1.0.0")

var (
	// ErrWrongNotary is returned for transactions naming another notary.
	ErrWrongNotary = errors.New("transaction is assigned to a different notary")
	// ErrInvalid is returned when a transaction fails the notary's own checks.
	ErrInvalid = errors.New("invalid notarisation request")
)

// Notary finalizes fully signed transactions.
type Notary interface {
	// Notarise returns the notary's signature over the transaction id, or a
	// *ConflictError if an input is already consumed by another transaction.
	// Notarising an already committed transaction again returns the same
	// signature.
	Notarise(ctx context.Context, stx *types.SignedTransaction) (*types.Signature, error)
}

// ConflictError reports inputs that were consumed by another transaction.
type ConflictError struct {
	Tx        cid.Cid
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s consumed by %s", c.Ref, c.ConsumedBy))
	}
	return fmt.Sprintf("transaction %s conflicts: %s", e.Tx, strings.Join(parts, ", "))
}

// IsConflict returns the conflict carried by err, if any.
func IsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if xerrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
