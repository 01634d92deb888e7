package store

import (
	"time"

	"github.com/caltide/caltide/internal/profile"
	"github.com/caltide/caltide/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// eventCache holds events keyed by UID to absorb the repeated point
	// lookups the assistant makes while resolving user references.
	eventCache *cache.Cache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
		eventCache: cache.New(cache.Config{
			DefaultTTL:      10 * time.Minute,
			CleanupInterval: 5 * time.Minute,
			MaxItems:        1000,
		}),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.eventCache.Close()
	return s.driver.Close()
}
