package fsjournal

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/raulk/clock"
	"github.com/stretchr/testify/require"

	"github.com/fundport/fundport/journal"
)

func countRolled(t *testing.T, dir string) int {
	entries, err := os.ReadDir(filepath.Join(dir, "journal"))
	require.NoError(t, err)
	n := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), rolledPrefix) {
			n++
		}
	}
	return n
}

func TestFSJournalRecords(t *testing.T) {
	dir := t.TempDir()
	j, err := OpenFSJournalPath(dir, journal.DisabledEvents{
		{System: "negotiation", Event: "restart"},
	})
	require.NoError(t, err)

	enabled := j.RegisterEventType("negotiation", "signed")
	disabled := j.RegisterEventType("negotiation", "restart")
	require.True(t, enabled.Enabled())
	require.False(t, disabled.Enabled())

	j.RecordEvent(enabled, func() interface{} { return map[string]string{"status": "sent"} })
	j.RecordEvent(disabled, func() interface{} { return "nope" })
	j.RecordEvent(enabled, func() interface{} { panic("supplier blew up") })
	require.NoError(t, j.Close())

	fi, err := os.Open(filepath.Join(dir, "journal", currentName))
	require.NoError(t, err)
	defer fi.Close() //nolint:errcheck

	var lines []map[string]interface{}
	sc := bufio.NewScanner(fi)
	for sc.Scan() {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 1)
	require.Equal(t, "negotiation", lines[0]["System"])
	require.Equal(t, "signed", lines[0]["Event"])
}

func TestFSJournalRollsAndPrunes(t *testing.T) {
	dir := t.TempDir()
	clk := clock.NewMock()
	clk.Set(time.Unix(1_700_000_000, 0))

	j, err := OpenFSJournalPath(dir, nil, WithSizeLimit(1), WithMaxBackups(2), WithClock(clk))
	require.NoError(t, err)
	et := j.RegisterEventType("negotiation", "signed")

	// every write crosses the size limit, so each one rolls the file
	for i := 0; i < 5; i++ {
		clk.Add(time.Second)
		j.RecordEvent(et, func() interface{} { return i })
	}
	require.NoError(t, j.Close())

	require.Equal(t, 2, countRolled(t, dir))
}

func TestFSJournalKeepsAllBackupsWhenUnbounded(t *testing.T) {
	dir := t.TempDir()
	clk := clock.NewMock()
	clk.Set(time.Unix(1_700_000_000, 0))

	j, err := OpenFSJournalPath(dir, nil, WithSizeLimit(1), WithMaxBackups(-1), WithClock(clk))
	require.NoError(t, err)
	et := j.RegisterEventType("negotiation", "signed")

	for i := 0; i < 4; i++ {
		clk.Add(time.Second)
		j.RecordEvent(et, func() interface{} { return i })
	}
	require.NoError(t, j.Close())

	require.Equal(t, 4, countRolled(t, dir))
}
