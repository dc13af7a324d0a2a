package app

import (
	"github.com/nick0a/founderbleed/internal/domain/types"
	"github.com/nick0a/founderbleed/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of pipeline workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the audit job queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the intake dedupe cache size.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithAllDayHours sets the workday-equivalent credited for all-day events.
func WithAllDayHours(hours float64) Option {
	return func(s *Service) {
		if hours > 0 {
			s.allDayHours = hours
		}
	}
}

// WithDefaultTierRates sets the fallback annual rates used when a
// compensation profile does not configure its own.
func WithDefaultTierRates(rates map[string]float64) Option {
	return func(s *Service) {
		parsed := make(map[types.RateKey]float64, len(rates))
		for key, rate := range rates {
			rk, err := types.ParseRateKey(key)
			if err != nil || rate <= 0 {
				continue
			}
			parsed[rk] = rate
		}
		s.defaultRates = parsed
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
