package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/r1cA18/make-slide-script/internal/domain"
)

type metaData struct {
	Projects map[string]domain.Content `json:"projects"`
}

// Store keeps every project in a single JSON file. Each call re-reads the file
// under a lock file, so several processes can share one data directory.
// Writes apply a single upsert or delete and replace the file through a temp
// file and rename.
type Store struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	path := filepath.Join(baseDir, "projects.json")
	store := &Store{path: path, lock: flock.New(path + ".lock")}
	// Create an empty file on first use and surface a corrupt one early.
	err := store.update(func(metaData) (bool, error) {
		_, statErr := os.Stat(path)
		return errors.Is(statErr, os.ErrNotExist), nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) Get(_ context.Context, id string) (*domain.Content, error) {
	data, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	content, ok := data.Projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return content.Clone(), nil
}

func (s *Store) Set(_ context.Context, content *domain.Content) error {
	if content == nil || content.Project.ID == "" {
		return errors.New("project id is required")
	}

	return s.update(func(data metaData) (bool, error) {
		data.Projects[content.Project.ID] = *content.Clone()
		return true, nil
	})
}

func (s *Store) Delete(_ context.Context, id string) error {
	return s.update(func(data metaData) (bool, error) {
		if _, ok := data.Projects[id]; !ok {
			return false, fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		delete(data.Projects, id)
		return true, nil
	})
}

func (s *Store) List(_ context.Context) ([]domain.Project, error) {
	data, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	projects := make([]domain.Project, 0, len(data.Projects))
	for _, content := range data.Projects {
		projects = append(projects, content.Project)
	}
	sortProjects(projects)
	return projects, nil
}

func (s *Store) GenerateID() string {
	return uuid.NewString()
}

func (s *Store) Close() error {
	return nil
}

// snapshot reads the file under a shared lock.
func (s *Store) snapshot() (metaData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.RLock(); err != nil {
		return metaData{}, fmt.Errorf("lock projects file: %w", err)
	}
	defer s.lock.Unlock()

	return s.read()
}

// update holds the exclusive lock across read, fn and write. fn reports
// whether the file must be rewritten.
func (s *Store) update(fn func(data metaData) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("lock projects file: %w", err)
	}
	defer s.lock.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	changed, err := fn(data)
	if err != nil || !changed {
		return err
	}
	return s.write(data)
}

func (s *Store) read() (metaData, error) {
	data := metaData{Projects: map[string]domain.Content{}}

	file, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return metaData{}, fmt.Errorf("open projects file: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&data); err != nil && !errors.Is(err, io.EOF) {
		return metaData{}, fmt.Errorf("decode projects file: %w", err)
	}
	if data.Projects == nil {
		data.Projects = map[string]domain.Content{}
	}
	return data, nil
}

func (s *Store) write(data metaData) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "projects-*.json")
	if err != nil {
		return fmt.Errorf("create temp projects file: %w", err)
	}

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode projects: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp projects file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace projects file: %w", err)
	}

	return nil
}
