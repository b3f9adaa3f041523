package service

import (
	"github.com/okian/perfscope/internal/adapters/repository"
	"github.com/okian/perfscope/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore replaces the default in-memory session store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSessionCapacity bounds how many sessions the default store keeps.
func WithSessionCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sessionCapacity = n
		}
	}
}

// WithHeaderScanRows bounds the header search of evaluation sheets.
func WithHeaderScanRows(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.headerScanRows = n
		}
	}
}

// WithPlaceholderDomain sets the domain of synthesized e-mail addresses.
func WithPlaceholderDomain(domain string) Option {
	return func(s *Service) {
		if domain != "" {
			s.placeholderDomain = domain
		}
	}
}
