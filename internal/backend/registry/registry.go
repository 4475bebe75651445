package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"ferry/internal/config"
	"ferry/pkg/storage"
)

// ConfigCheck reports whether a backend has everything it needs in the
// configuration to be initialized.
type ConfigCheck func(cfg *config.Config) bool

// Initializer creates a live storage client for a backend.
type Initializer func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error)

// Registration couples a backend's configuration check with its
// initializer.
type Registration struct {
	ConfigCheck ConfigCheck
	Initializer Initializer
}

var (
	// Keyed by the backend name (lowercase)
	backends   = make(map[string]Registration)
	registryMu sync.RWMutex
)

// RegisterBackend is called by backend implementation packages from
// their init() functions.
func RegisterBackend(name string, registration Registration) {
	registryMu.Lock()
	defer registryMu.Unlock()

	normalized := strings.ToLower(name)
	if _, exists := backends[normalized]; exists {
		panic(fmt.Sprintf("backend %s already registered", normalized))
	}
	if registration.ConfigCheck == nil {
		panic(fmt.Sprintf("backend %s registration missing ConfigCheck", normalized))
	}
	if registration.Initializer == nil {
		panic(fmt.Sprintf("backend %s registration missing Initializer", normalized))
	}

	backends[normalized] = registration
}

// SupportedBackends returns a sorted list of registered backend names.
func SupportedBackends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsSupported checks whether a backend name has been registered.
func IsSupported(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()

	_, exists := backends[strings.ToLower(name)]
	return exists
}

// GetRegistration retrieves the registration for a backend.
func GetRegistration(name string) (Registration, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	registration, exists := backends[strings.ToLower(name)]
	return registration, exists
}
