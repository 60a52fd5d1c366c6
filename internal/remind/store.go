package remind

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Store keeps the ordered set of pending reminders in a single JSON
// document. The process is the only writer; every mutation rewrites the
// complete document. Mutations are serialized because timer callbacks and
// the message path may touch the store concurrently.
type Store struct {
	fs     afero.Fs
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewStore creates a store backed by the JSON document at path.
func NewStore(fs afero.Fs, path string) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Store{
		fs:     fs,
		path:   path,
		logger: slog.Default(),
	}
}

// SetLogger sets a custom logger.
func (s *Store) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// LoadAll returns every persisted reminder in insertion order, creating an
// empty document on first run. An unreadable or corrupt document is logged
// and treated as an empty store.
func (s *Store) LoadAll() []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

// Append persists a new reminder at the end of the document.
func (s *Store) Append(reminder Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminders := s.readAll()
	reminders = append(reminders, reminder)
	return s.writeAll(reminders)
}

// Remove deletes the reminder with the given id. Removing an id that is no
// longer present is a no-op, so a delivery callback racing a cancellation
// cannot fail.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminders := s.readAll()
	kept := reminders[:0]
	for _, r := range reminders {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(reminders) {
		return nil
	}
	return s.writeAll(kept)
}

func (s *Store) readAll() []Reminder {
	if err := s.ensureFile(); err != nil {
		s.logger.Warn("failed to initialize reminder store, starting fresh", "path", s.path, "error", err)
		return nil
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		s.logger.Warn("failed to read reminders, starting fresh", "path", s.path, "error", err)
		return nil
	}

	if len(data) == 0 {
		return nil
	}

	var reminders []Reminder
	if err := json.Unmarshal(data, &reminders); err != nil {
		s.logger.Warn("corrupt reminder document, starting fresh", "path", s.path, "error", err)
		return nil
	}
	return reminders
}

func (s *Store) writeAll(reminders []Reminder) error {
	if reminders == nil {
		reminders = []Reminder{}
	}
	data, err := json.MarshalIndent(reminders, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal reminders")
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write reminders to %s", s.path)
	}
	return nil
}

func (s *Store) ensureFile() error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if _, err := s.fs.Stat(s.path); os.IsNotExist(err) {
		return afero.WriteFile(s.fs, s.path, []byte("[]"), 0o644)
	} else if err != nil {
		return err
	}
	return nil
}
