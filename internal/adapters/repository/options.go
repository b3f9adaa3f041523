package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCapacity bounds how many sessions are kept.
func WithCapacity(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}
