package repository

import "github.com/nick0a/founderbleed/internal/domain/model"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithCapacity pre-sizes the audit map.
func WithCapacity(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.audits = make(map[string]*model.Audit, n)
		}
	}
}
