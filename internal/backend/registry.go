package backend

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// Factory opens a new Backend from a ConnectionConfig.
type Factory func(ctx context.Context, cfg ConnectionConfig) (Backend, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register adds a backend factory for the given driver name. Called from
// each driver package's init() (§6: DATA_STORE is "postgres" | "snowflake").
func Register(driver string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[driver] = factory
}

// Open opens the Backend registered for driver, dialing the configured DSN.
func Open(ctx context.Context, driver string, cfg ConnectionConfig) (Backend, error) {
	mu.RLock()
	factory, ok := registry[driver]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported data store: %q (supported: %s)",
			driver, strings.Join(SupportedDrivers(), ", "))
	}
	return factory(ctx, cfg)
}

// SupportedDrivers returns a sorted list of registered driver names.
func SupportedDrivers() []string {
	mu.RLock()
	defer mu.RUnlock()
	drivers := make([]string, 0, len(registry))
	for d := range registry {
		drivers = append(drivers, d)
	}
	sort.Strings(drivers)
	return drivers
}

// SanitizeDSN masks the password component of a DSN for safe logging.
func SanitizeDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "[invalid DSN]"
	}
	if u.User != nil {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
