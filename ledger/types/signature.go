package types

import "github.com/libp2p/go-libp2p/core/peer"

// Signature is a party's endorsement of a transaction id.
type Signature struct {
	Signer peer.ID
	Data   []byte
}
