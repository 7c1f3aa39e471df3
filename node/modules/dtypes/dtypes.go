package dtypes

import (
	"github.com/ipfs/go-datastore"
	"github.com/libp2p/go-libp2p/core/peer"
)

// MetadataDS stores metadata. By default it's namespaced under /metadata in
// main repo datastore.
type MetadataDS datastore.Batching

// NotaryID is the sequencing authority every transaction built by this node
// names, and the only one whose signatures it accepts.
type NotaryID peer.ID

type ShutdownChan chan struct{}
