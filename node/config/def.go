package config

import (
	"encoding"
	"time"
)

const (
	NotaryLocal  = "local"
	NotaryRemote = "remote"

	DatastoreLevelDB = "leveldb"
	DatastoreMemory  = "memory"
)

// DefaultNode returns the default config
func DefaultNode() *Node {
	return &Node{
		API: API{
			ListenAddress: "/ip4/127.0.0.1/tcp/3456/http",
			Timeout:       Duration(30 * time.Second),
		},
		Libp2p: Libp2p{
			ListenAddresses: []string{
				"/ip4/0.0.0.0/tcp/0",
				"/ip6/::/tcp/0",
			},

			ConnMgrLow:   50,
			ConnMgrHigh:  100,
			ConnMgrGrace: Duration(20 * time.Second),
		},
		Notary: Notary{
			Mode: NotaryLocal,

			BreakerMaxRequests:         1,
			BreakerInterval:            Duration(time.Minute),
			BreakerTimeout:             Duration(30 * time.Second),
			BreakerConsecutiveFailures: 5,
			RequestTimeout:             Duration(30 * time.Second),
		},
		Portability: Portability{
			NegotiationTimeout:      Duration(time.Minute),
			MaxConcurrentRoundTrips: 16,
			StreamOpenAttempts:      5,
			StreamOpenMinBackoff:    Duration(time.Second),
			StreamOpenMaxBackoff:    Duration(5 * time.Minute),
		},
		Datastore: Datastore{
			Backend: DatastoreLevelDB,
		},
		Metrics: Metrics{
			Enabled: true,
		},
	}
}

var _ encoding.TextMarshaler = (*Duration)(nil)
var _ encoding.TextUnmarshaler = (*Duration)(nil)

// Duration is a wrapper type for time.Duration
// for decoding and encoding from/to TOML
type Duration time.Duration

// UnmarshalText implements interface for TOML decoding
func (dur *Duration) UnmarshalText(text []byte) error {
	d, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*dur = Duration(d)
	return err
}

func (dur Duration) MarshalText() ([]byte, error) {
	d := time.Duration(dur)
	return []byte(d.String()), nil
}
