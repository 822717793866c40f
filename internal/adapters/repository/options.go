// Package repository defines the normalized-schedule store interface and errors.
package repository

import "time"

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithSnapshotInterval sets how often the store publishes a read snapshot.
func WithSnapshotInterval(interval time.Duration) Option {
	return func(s *TreapStore) {
		if interval > 0 {
			s.snapshotInterval = interval
		}
	}
}

// WithScheduleCacheSize caps the number of leading entries kept in the
// published snapshot's schedule cache.
func WithScheduleCacheSize(n int) Option {
	return func(s *TreapStore) {
		if n > 0 {
			s.scheduleCacheSize = n
		}
	}
}
