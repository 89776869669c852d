package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
)

// Call timestamps in the router log carry no zone; they are local to
// the router's fixed UTC+9 offset.
var callTimeZone = time.FixedZone("UTC+9", 9*60*60)

const callTimeLayout = "2006/01/02 15:04:05"

// Store persists the timestamp of the most recently reported call. It
// is the dedupe boundary between polling cycles: everything at or
// before the stored instant has already been notified. All file access
// runs under a single mutex so the watcher and any future writer
// cannot lose updates.
type Store struct {
	path   string
	mu     sync.Mutex
	logger arbor.ILogger
}

type record struct {
	Datetime string `json:"datetime"`
}

// NewStore creates a checkpoint store backed by the given file
func NewStore(path string, logger arbor.ILogger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// IsFirstRun reports whether a checkpoint has ever been persisted.
// A missing file is the only first-run signal; the first cycle records
// all fetched calls without notifying to avoid a storm on deployment.
func (s *Store) IsFirstRun() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.path)
	return os.IsNotExist(err)
}

// IsReported returns true if the call at the given local date/time is
// at or before the stored checkpoint. With no checkpoint nothing is
// reported as seen.
func (s *Store) IsReported(date, clock string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok, err := s.load()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	candidate, err := parseCallTime(date, clock)
	if err != nil {
		return false, err
	}

	return !stored.Before(candidate), nil
}

// Advance moves the checkpoint to the given call time. The write is
// skipped unless the candidate is strictly newer than the stored
// value, which makes Advance idempotent under repeated or out-of-order
// calls after a crashed batch is reprocessed.
func (s *Store) Advance(date, clock string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate, err := parseCallTime(date, clock)
	if err != nil {
		return err
	}

	stored, ok, err := s.load()
	if err != nil {
		return err
	}
	if ok && !candidate.After(stored) {
		return nil
	}

	return s.save(candidate)
}

func parseCallTime(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(callTimeLayout, date+" "+clock, callTimeZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse call time %q %q: %w", date, clock, err)
	}
	return t, nil
}

func (s *Store) load() (time.Time, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse checkpoint: %w", err)
	}

	t, err := time.Parse(time.RFC3339, rec.Datetime)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse checkpoint datetime %q: %w", rec.Datetime, err)
	}

	return t, true, nil
}

func (s *Store) save(t time.Time) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create checkpoint directory: %w", err)
		}
	}

	data, err := json.Marshal(record{Datetime: t.UTC().Format(time.RFC3339)})
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}

	s.logger.Debug().
		Str("datetime", t.UTC().Format(time.RFC3339)).
		Msg("Checkpoint advanced")

	return nil
}
