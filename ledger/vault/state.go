package vault

import (
	"github.com/ipfs/go-cid"

	"github.com/fundport/fundport/ledger/types"
)

// StoredState is one version of a record as held by the vault.
type StoredState struct {
	State      types.LedgerState
	Ref        types.StateRef
	RecordedAt int64
	ConsumedBy *cid.Cid
	ConsumedAt int64
}

func (ss *StoredState) Unconsumed() bool {
	return ss.ConsumedBy == nil
}
