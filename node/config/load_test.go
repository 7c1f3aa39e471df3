package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecodeNothing(t *testing.T) {
	cfg, err := FromFile(filepath.Join(t.TempDir(), "config.toml"), DefaultNode())
	require.NoError(t, err)
	require.Equal(t, DefaultNode(), cfg)

	cfg, err = FromReader(bytes.NewReader(nil), DefaultNode())
	require.NoError(t, err)
	require.Equal(t, DefaultNode(), cfg)
}

func TestParitalConfig(t *testing.T) {
	cfgString := `
		[API]
		Timeout = "10s"
		[Portability]
		NegotiationTimeout = "2m"
		MaxConcurrentRoundTrips = 4
		[Notary]
		Mode = "remote"
		Peer = "/ip4/10.0.0.1/tcp/4001/p2p/12D3KooWRqxGFvtGmpHj4gZ7m4WGgqLQmcPnZbNXZXn1gG4xn8kq"
		`
	expected := DefaultNode()
	expected.API.Timeout = Duration(10 * time.Second)
	expected.Portability.NegotiationTimeout = Duration(2 * time.Minute)
	expected.Portability.MaxConcurrentRoundTrips = 4
	expected.Notary.Mode = NotaryRemote
	expected.Notary.Peer = "/ip4/10.0.0.1/tcp/4001/p2p/12D3KooWRqxGFvtGmpHj4gZ7m4WGgqLQmcPnZbNXZXn1gG4xn8kq"

	cfg, err := FromReader(bytes.NewReader([]byte(cfgString)), DefaultNode())
	require.NoError(t, err)
	require.Equal(t, expected, cfg)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfgString), 0644))
	cfg, err = FromFile(path, DefaultNode())
	require.NoError(t, err)
	require.Equal(t, expected, cfg)
}

func TestInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"unknown key":         "[Portability]\nNegotiationTimeut = \"1m\"\n",
		"remote without peer": "[Notary]\nMode = \"remote\"\n",
		"unknown mode":        "[Notary]\nMode = \"sideways\"\n",
		"unknown backend":     "[Datastore]\nBackend = \"badger\"\n",
		"bad duration":        "[API]\nTimeout = \"soon\"\n",
		"no round trips":      "[Portability]\nMaxConcurrentRoundTrips = 0\n",
	}
	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromReader(strings.NewReader(cfg), DefaultNode())
			require.Error(t, err)
		})
	}
}

func TestConfigCommentRoundTrips(t *testing.T) {
	b, err := ConfigComment(DefaultNode())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(b, []byte("# Default config:")))
	require.Contains(t, string(b), "  #NegotiationTimeout = \"1m0s\"")
	require.Contains(t, string(b), "\n[Portability]\n")

	for _, line := range strings.Split(string(b), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "[") {
			continue
		}
		require.True(t, strings.HasPrefix(trimmed, "#"), "uncommented line %q", line)
	}

	// a fully commented file decodes to the defaults
	cfg, err := FromReader(bytes.NewReader(b), DefaultNode())
	require.NoError(t, err)
	require.Equal(t, DefaultNode(), cfg)
}
