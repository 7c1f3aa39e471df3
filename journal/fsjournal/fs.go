package fsjournal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/mitchellh/go-homedir"
	"github.com/raulk/clock"
	"golang.org/x/xerrors"

	"github.com/fundport/fundport/journal"
)

var log = logging.Logger("fsjournal")

const RFC3339nocolon = "2006-01-02T150405Z0700"

const (
	currentName  = "fundport-journal.ndjson"
	rolledPrefix = "fundport-journal-"
)

// fsJournal is a basic journal backed by files on a filesystem.
type fsJournal struct {
	journal.EventTypeRegistry

	dir        string
	sizeLimit  int64
	maxBackups int64
	clock      clock.Clock

	fi    *os.File
	fSize int64

	incoming chan *journal.Event

	closing chan struct{}
	closed  chan struct{}
}

type Option func(*fsJournal)

// WithSizeLimit sets the size at which the current journal file is rolled.
func WithSizeLimit(n int64) Option {
	return func(f *fsJournal) {
		f.sizeLimit = n
	}
}

// WithMaxBackups bounds the number of rolled files kept next to the current one.
// A negative value keeps all of them.
func WithMaxBackups(n int64) Option {
	return func(f *fsJournal) {
		f.maxBackups = n
	}
}

func WithClock(clk clock.Clock) Option {
	return func(f *fsJournal) {
		f.clock = clk
	}
}

// OpenFSJournalPath constructs a rolling filesystem journal under
// <path>/journal. Size limit and backups default to the environment.
func OpenFSJournalPath(path string, disabled journal.DisabledEvents, opts ...Option) (journal.Journal, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, xerrors.Errorf("failed to expand repo path: %w", err)
	}

	dir := filepath.Join(path, "journal")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to mk directory %s for file journal: %w", dir, err)
	}

	f := &fsJournal{
		EventTypeRegistry: journal.NewEventTypeRegistry(disabled),
		dir:               dir,
		sizeLimit:         journal.EnvMaxSize,
		maxBackups:        journal.EnvMaxBackups,
		clock:             clock.New(),
		incoming:          make(chan *journal.Event, 32),
		closing:           make(chan struct{}),
		closed:            make(chan struct{}),
	}
	for _, o := range opts {
		o(f)
	}

	if err := f.rollJournalFile(f.clock.Now()); err != nil {
		return nil, err
	}

	go f.runLoop()

	return f, nil
}

func (f *fsJournal) RecordEvent(evtType journal.EventType, supplier func() interface{}) {
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("recovered from panic while recording journal event; type=%s, err=%v", evtType, r)
		}
	}()

	if !evtType.Enabled() {
		return
	}

	je := &journal.Event{
		EventType: evtType,
		Timestamp: f.clock.Now(),
		Data:      supplier(),
	}
	select {
	case f.incoming <- je:
	case <-f.closing:
		log.Warnw("journal closed but tried to log event", "event", je)
	}
}

func (f *fsJournal) Close() error {
	close(f.closing)
	<-f.closed
	return nil
}

func (f *fsJournal) putEvent(evt *journal.Event) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	n, err := f.fi.Write(append(b, '\n'))
	if err != nil {
		return err
	}

	f.fSize += int64(n)

	if f.fSize >= f.sizeLimit {
		_ = f.rollJournalFile(evt.Timestamp)
	}

	return nil
}

func (f *fsJournal) rollJournalFile(at time.Time) error {
	if f.fi != nil {
		_ = f.fi.Close()
	}
	current := filepath.Join(f.dir, currentName)
	rolled := filepath.Join(f.dir, fmt.Sprintf(
		"%s%s.ndjson",
		rolledPrefix,
		at.Format(RFC3339nocolon),
	))

	// check if journal file exists
	if fi, err := os.Stat(current); err == nil && !fi.IsDir() {
		err := os.Rename(current, rolled)
		if err != nil {
			return xerrors.Errorf("failed to roll journal file: %w", err)
		}
	}

	nfi, err := os.Create(current)
	if err != nil {
		return xerrors.Errorf("failed to create journal file: %w", err)
	}

	f.fi = nfi
	f.fSize = 0

	return f.pruneBackups()
}

func (f *fsJournal) pruneBackups() error {
	if f.maxBackups < 0 {
		return nil
	}
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return xerrors.Errorf("listing journal dir: %w", err)
	}

	var rolled []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), rolledPrefix) {
			rolled = append(rolled, e.Name())
		}
	}
	if int64(len(rolled)) <= f.maxBackups {
		return nil
	}

	// names embed the roll time, so lexical order is chronological
	sort.Strings(rolled)
	for _, name := range rolled[:int64(len(rolled))-f.maxBackups] {
		if err := os.Remove(filepath.Join(f.dir, name)); err != nil {
			log.Warnw("failed to prune journal file", "file", name, "err", err)
		}
	}
	return nil
}

func (f *fsJournal) runLoop() {
	defer close(f.closed)

	for {
		select {
		case je := <-f.incoming:
			if err := f.putEvent(je); err != nil {
				log.Errorw("failed to write out journal event", "event", je, "err", err)
			}
		case <-f.closing:
			// drain whatever was queued before close
			for {
				select {
				case je := <-f.incoming:
					if err := f.putEvent(je); err != nil {
						log.Errorw("failed to write out journal event", "event", je, "err", err)
					}
				default:
					_ = f.fi.Close()
					return
				}
			}
		}
	}
}
