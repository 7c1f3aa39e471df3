package config

// // NOTE: ONLY PUT STRUCT DEFINITIONS IN THIS FILE

// Node is the fundport node config
type Node struct {
	API         API
	Libp2p      Libp2p
	Logging     Logging
	Notary      Notary
	Portability Portability
	Datastore   Datastore
	Metrics     Metrics
}

// API contains configs for API endpoint
type API struct {
	// Binding address for the JSON-RPC API
	ListenAddress string
	// Timeout for API requests
	Timeout Duration
}

// Libp2p contains configs for libp2p
type Libp2p struct {
	// Binding address for the libp2p host, in multiaddr form
	ListenAddresses []string
	// Peers to connect to on start, as full multiaddrs including /p2p/
	BootstrapPeers []string

	ConnMgrLow   uint
	ConnMgrHigh  uint
	ConnMgrGrace Duration
}

// Logging is the logging system config
type Logging struct {
	// SubsystemLevels specify per-subsystem log levels
	SubsystemLevels map[string]string
}

// Notary configures the sequencing authority this node relies on
type Notary struct {
	// Mode is "local" to run the notary in this node, or "remote" to use
	// the notary at Peer
	Mode string
	// Peer is the full multiaddr, including /p2p/, of the remote notary
	Peer string

	// Breaker settings for calls to a remote notary
	BreakerMaxRequests         uint32
	BreakerInterval            Duration
	BreakerTimeout             Duration
	BreakerConsecutiveFailures uint32
	// RequestTimeout bounds a single round trip to a remote notary
	RequestTimeout Duration
}

// Portability configures negotiations
type Portability struct {
	// How long a sent proposal waits for the counterparty's answer
	NegotiationTimeout Duration
	// Maximum number of concurrent network round trips across negotiations
	MaxConcurrentRoundTrips int64
	// Number of attempts when opening a stream to a peer
	StreamOpenAttempts float64
	// Minimum and maximum backoff between stream open attempts
	StreamOpenMinBackoff Duration
	StreamOpenMaxBackoff Duration
}

// Datastore configures the node's metadata store
type Datastore struct {
	// Backend is "leveldb" or "memory"
	Backend string
}

type Metrics struct {
	// Expose prometheus metrics at /debug/metrics on the API listener
	Enabled bool
	// Nickname tags this node's metrics
	Nickname string
}
