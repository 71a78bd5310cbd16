package vfs

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry statuses.
const (
	StatusActive  = "active"
	StatusRemoved = "removed"
)

// Entry types.
const (
	TypeDocument  = "document"
	TypeApplet    = "applet"
	TypeDirectory = "directory"
)

// Entry is one VFS metadata record. Content is not inline: document and
// applet entries point at the content store via ContentID.
type Entry struct {
	Path      string    `json:"path"`
	Status    string    `json:"status"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Size      int       `json:"size"`
	ContentID uuid.UUID `json:"uuid"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MetadataStore is the entry table. Implementations must be safe for
// concurrent use; the gateway holds no locks across requests.
type MetadataStore interface {
	// Get returns the entry at path, or ErrNotFound.
	Get(ctx context.Context, path string) (*Entry, error)

	// List returns entries whose path is strictly under prefix,
	// ordered by path.
	List(ctx context.Context, prefix string) ([]Entry, error)

	// Put inserts or replaces the entry keyed by its path.
	Put(ctx context.Context, entry Entry) error
}

// ContentStore is the content table, keyed by the entry's ContentID.
type ContentStore interface {
	// Get returns the stored bytes, or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) ([]byte, error)

	// Put inserts or replaces the content for id.
	Put(ctx context.Context, id uuid.UUID, data []byte) error
}

// MemoryMetadataStore is the in-process MetadataStore. It backs tests and
// deployments without Postgres.
type MemoryMetadataStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryMetadataStore creates an empty in-memory metadata store.
func NewMemoryMetadataStore() *MemoryMetadataStore {
	return &MemoryMetadataStore{entries: make(map[string]Entry)}
}

// Get implements MetadataStore.
func (s *MemoryMetadataStore) Get(_ context.Context, path string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[path]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

// List implements MetadataStore.
func (s *MemoryMetadataStore) List(_ context.Context, prefix string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for path, e := range s.entries {
		if strings.HasPrefix(path, prefix+"/") {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Put implements MetadataStore.
func (s *MemoryMetadataStore) Put(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Path] = entry
	return nil
}

// MemoryContentStore is the in-process ContentStore.
type MemoryContentStore struct {
	mu       sync.RWMutex
	contents map[uuid.UUID][]byte
}

// NewMemoryContentStore creates an empty in-memory content store.
func NewMemoryContentStore() *MemoryContentStore {
	return &MemoryContentStore{contents: make(map[uuid.UUID][]byte)}
}

// Get implements ContentStore.
func (s *MemoryContentStore) Get(_ context.Context, id uuid.UUID) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.contents[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Put implements ContentStore.
func (s *MemoryContentStore) Put(_ context.Context, id uuid.UUID, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.contents[id] = stored
	return nil
}
