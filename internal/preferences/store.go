package preferences

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps validation failures returned by Save and Update.
var ErrInvalid = errors.New("invalid preferences")

// Store loads and saves preferences.
type Store interface {
	Load(ctx context.Context) (Preferences, error)
	Save(ctx context.Context, p Preferences) error
	// Update applies fn to the current preferences and saves the result
	// atomically with respect to other Save and Update calls. Nothing is
	// saved when fn returns an error or the result is invalid.
	Update(ctx context.Context, fn func(p *Preferences) error) (Preferences, error)
}

func validate(p Preferences) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// FileStore persists preferences as a YAML document. A missing file loads as
// Defaults; keys absent from the file keep their default values.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the YAML file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save validates p and replaces the file atomically.
func (s *FileStore) Save(_ context.Context, p Preferences) error {
	if err := validate(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(p)
}

func (s *FileStore) Update(_ context.Context, fn func(p *Preferences) error) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load()
	if err != nil {
		return Preferences{}, err
	}
	if err := fn(&p); err != nil {
		return Preferences{}, err
	}
	if err := validate(p); err != nil {
		return Preferences{}, err
	}
	if err := s.save(p); err != nil {
		return Preferences{}, err
	}
	return p, nil
}

func (s *FileStore) load() (Preferences, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("read preferences: %w", err)
	}

	p := Defaults()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preferences{}, fmt.Errorf("parse preferences %s: %w", s.path, err)
	}
	if err := p.Validate(); err != nil {
		return Preferences{}, fmt.Errorf("invalid preferences %s: %w", s.path, err)
	}
	return p, nil
}

func (s *FileStore) save(p Preferences) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".preferences-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp preferences: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close preferences: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}

// MemoryStore keeps preferences in memory. The zero value holds Defaults.
type MemoryStore struct {
	mu  sync.Mutex
	p   Preferences
	set bool
}

func (s *MemoryStore) Load(_ context.Context) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(), nil
}

func (s *MemoryStore) Save(_ context.Context, p Preferences) error {
	if err := validate(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p, s.set = p, true
	return nil
}

func (s *MemoryStore) Update(_ context.Context, fn func(p *Preferences) error) (Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.current()
	if err := fn(&p); err != nil {
		return Preferences{}, err
	}
	if err := validate(p); err != nil {
		return Preferences{}, err
	}
	s.p, s.set = p, true
	return p, nil
}

func (s *MemoryStore) current() Preferences {
	if !s.set {
		return Defaults()
	}
	p := s.p
	p.SelectedConditions = slices.Clone(p.SelectedConditions)
	return p
}
