package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/r1cA18/make-slide-script/internal/domain"
)

var ErrNotFound = errors.New("not found")

// Repository is the keyed project table the engine reads and writes. Get
// returns a copy; changes are only visible after Set.
type Repository interface {
	Get(ctx context.Context, id string) (*domain.Content, error)
	Set(ctx context.Context, content *domain.Content) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.Project, error)
	GenerateID() string
	Close() error
}

const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open returns the repository for backend, rooted at dataDir for durable backends.
func Open(backend, dataDir string) (Repository, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewStore(dataDir)
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dataDir, "projects.db"))
	default:
		return nil, fmt.Errorf("unsupported store backend %q", backend)
	}
}

type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]*domain.Content
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: map[string]*domain.Content{}}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*domain.Content, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	content, ok := m.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return content.Clone(), nil
}

func (m *MemoryStore) Set(_ context.Context, content *domain.Content) error {
	if content == nil || content.Project.ID == "" {
		return errors.New("project id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[content.Project.ID] = content.Clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[id]; !ok {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	delete(m.projects, id)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	projects := make([]domain.Project, 0, len(m.projects))
	for _, content := range m.projects {
		projects = append(projects, content.Project)
	}
	sortProjects(projects)
	return projects, nil
}

func (m *MemoryStore) GenerateID() string {
	return uuid.NewString()
}

func (m *MemoryStore) Close() error {
	return nil
}

func sortProjects(projects []domain.Project) {
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].CreatedAt != projects[j].CreatedAt {
			return projects[i].CreatedAt < projects[j].CreatedAt
		}
		return projects[i].ID < projects[j].ID
	})
}
