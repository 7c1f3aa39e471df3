package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/xerrors"
)

// FromFile loads config from a specified file overriding defaults specified in
// the def parameter. If file does not exist or is empty defaults are assumed.
func FromFile(path string, def *Node) (*Node, error) {
	file, err := os.Open(path)
	switch {
	case os.IsNotExist(err):
		return def, nil
	case err != nil:
		return nil, err
	}

	defer file.Close() //nolint:errcheck // The file is RO
	return FromReader(file, def)
}

// FromReader loads config from a reader instance.
func FromReader(reader io.Reader, def *Node) (*Node, error) {
	cfg := *def
	md, err := toml.NewDecoder(reader).Decode(&cfg)
	if err != nil {
		return nil, err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, xerrors.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values the node cannot start without.
func (n *Node) Validate() error {
	switch n.Notary.Mode {
	case NotaryLocal:
	case NotaryRemote:
		if n.Notary.Peer == "" {
			return xerrors.New("remote notary mode requires Notary.Peer")
		}
	default:
		return xerrors.Errorf("unknown notary mode %q", n.Notary.Mode)
	}

	switch n.Datastore.Backend {
	case DatastoreLevelDB, DatastoreMemory:
	default:
		return xerrors.Errorf("unknown datastore backend %q", n.Datastore.Backend)
	}

	if n.Portability.MaxConcurrentRoundTrips < 1 {
		return xerrors.New("Portability.MaxConcurrentRoundTrips must be at least 1")
	}
	if n.Portability.NegotiationTimeout <= 0 {
		return xerrors.New("Portability.NegotiationTimeout must be positive")
	}
	return nil
}

// keys under a table are indented by the encoder
var lineStart = regexp.MustCompile(`(?m)^([ \t]*)([^\[\s#])`)

// ConfigComment renders cfg as TOML with every value commented out, so the
// file documents the defaults without pinning them.
func ConfigComment(t interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	_, _ = buf.WriteString("# Default config:\n")
	e := toml.NewEncoder(buf)
	if err := e.Encode(t); err != nil {
		return nil, xerrors.Errorf("encoding config: %w", err)
	}
	b := buf.Bytes()
	b = lineStart.ReplaceAll(b, []byte("${1}#${2}"))
	return b, nil
}

func (n *Node) String() string {
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(n); err != nil {
		return fmt.Sprintf("<invalid config: %s>", err)
	}
	return buf.String()
}
