package journal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledEvents(t *testing.T) {
	req := require.New(t)

	test := func(dis DisabledEvents) func(*testing.T) {
		return func(t *testing.T) {
			registry := NewEventTypeRegistry(dis)

			reg1 := registry.RegisterEventType("system1", "disabled1")
			reg2 := registry.RegisterEventType("system1", "disabled2")

			req.False(reg1.Enabled())
			req.False(reg2.Enabled())
			req.True(reg1.safe)
			req.True(reg2.safe)

			reg3 := registry.RegisterEventType("system3", "enabled3")
			req.True(reg3.Enabled())
			req.True(reg3.safe)
		}
	}

	t.Run("direct", test(DisabledEvents{
		EventType{System: "system1", Event: "disabled1"},
		EventType{System: "system1", Event: "disabled2"},
	}))

	dis, err := ParseDisabledEvents("system1:disabled1,system1:disabled2")
	req.NoError(err)

	t.Run("parsed", test(dis))

	dis, err = ParseDisabledEvents("  system1:disabled1 , system1:disabled2  ")
	req.NoError(err)

	t.Run("parsed_spaces", test(dis))
}

func TestParseDisableEvents(t *testing.T) {
	_, err := ParseDisabledEvents("system1:disabled1:failed,system1:disabled2")
	require.Error(t, err)
}

func TestNilJournal(t *testing.T) {
	j := NilJournal()
	et := j.RegisterEventType("negotiation", "event")
	require.False(t, et.Enabled())

	called := false
	j.RecordEvent(et, func() interface{} {
		called = true
		return nil
	})
	require.False(t, called)
	require.NoError(t, j.Close())
}

func TestEnvParsing(t *testing.T) {
	t.Setenv(envMaxSize, "512MiB")
	require.Equal(t, int64(512<<20), envBytes(envMaxSize, 1))

	t.Setenv(envMaxSize, "4096")
	require.Equal(t, int64(4096), envBytes(envMaxSize, 1))

	t.Setenv(envMaxSize, "lots")
	require.Equal(t, int64(1), envBytes(envMaxSize, 1))

	t.Setenv(envMaxBackups, "7")
	require.Equal(t, int64(7), envInt(envMaxBackups, 3))

	t.Setenv(envDisabledEvents, "notary:commit, negotiation:restart")
	require.Equal(t, DisabledEvents{
		{System: "notary", Event: "commit"},
		{System: "negotiation", Event: "restart"},
	}, EnvDisabledEvents())

	t.Setenv(envDisabledEvents, "broken")
	require.Equal(t, DefaultDisabledEvents, EnvDisabledEvents())
}
