package repository

import (
	"context"
	"sync"

	"github.com/okian/perfscope/pkg/metrics"
)

const defaultCapacity = 32

// MemoryStore is an in-memory Store bounded by capacity. Insertion order is
// tracked so the oldest session is evicted first.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]Session
	order    []string // oldest first
	capacity int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs a store with configuration options.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:     make(map[string]Session),
		capacity: defaultCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save implements Store.Save.
func (s *MemoryStore) Save(ctx context.Context, sess Session) error {
	if sess.ID == "" {
		return ErrInvalidID
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[sess.ID]; ok {
		s.removeLocked(sess.ID)
	}
	s.byID[sess.ID] = sess
	s.order = append(s.order, sess.ID)

	for len(s.order) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.byID, oldest)
		metrics.RecordSessionEvicted()
	}
	metrics.UpdateSessionsStored(len(s.byID))
	return nil
}

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.byID[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Delete implements Store.Delete.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	s.removeLocked(id)
	metrics.UpdateSessionsStored(len(s.byID))
	return nil
}

// List implements Store.List.
func (s *MemoryStore) List(_ context.Context) []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		sess := s.byID[s.order[i]]
		sum := Summary{
			ID:        sess.ID,
			CreatedAt: sess.CreatedAt,
			Files:     sess.Files,
			Success:   sess.Result.Success,
		}
		if sess.Result.Data != nil {
			sum.Employees = sess.Result.Data.Metadata.TotalEmployees
		}
		out = append(out, sum)
	}
	return out
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// removeLocked drops id from the map and the order. Caller holds mu.
func (s *MemoryStore) removeLocked(id string) {
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
