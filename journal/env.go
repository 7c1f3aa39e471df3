package journal

import (
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
)

const (
	envDisabledEvents = "FUNDPORT_JOURNAL_DISABLED_EVENTS"
	envMaxBackups     = "FUNDPORT_JOURNAL_MAX_BACKUPS"
	envMaxSize        = "FUNDPORT_JOURNAL_MAX_SIZE"
)

var (
	// EnvMaxBackups is the number of rolled journal files kept on disk.
	EnvMaxBackups = envInt(envMaxBackups, 3)
	// EnvMaxSize accepts plain byte counts as well as sizes like "512MiB".
	EnvMaxSize = envBytes(envMaxSize, 1<<30)
)

// EnvDisabledEvents reads the disabled events from the environment, falling
// back to DefaultDisabledEvents when unset or malformed.
func EnvDisabledEvents() DisabledEvents {
	env, ok := os.LookupEnv(envDisabledEvents)
	if !ok {
		return DefaultDisabledEvents
	}
	ret, err := ParseDisabledEvents(env)
	if err != nil {
		return DefaultDisabledEvents
	}
	return ret
}

func envInt(key string, def int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return def
	}
	return v
}

func envBytes(key string, def int64) int64 {
	v, err := humanize.ParseBytes(os.Getenv(key))
	if err != nil || v == 0 {
		return def
	}
	return int64(v)
}
