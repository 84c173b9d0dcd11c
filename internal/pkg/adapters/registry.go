package adapters

import (
	"sort"
	"strings"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]*Adapter{}
)

// Register adds an adapter under its config ID. Called from init() in each
// site package; the pipeline binary blank-imports adapters/all.
func Register(a *Adapter) {
	id := strings.ToLower(strings.TrimSpace(a.Config.ID))
	if id == "" {
		panic("adapters: empty id in Register")
	}
	if a.Parse == nil {
		panic("adapters: nil Parse in Register for " + id)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[id]; exists {
		panic("adapters: duplicate registration for " + id)
	}
	registry[id] = a
}

func ByID(id string) (*Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := registry[strings.ToLower(strings.TrimSpace(id))]
	return a, ok
}

func Available() map[string]*Adapter {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make(map[string]*Adapter, len(registry))
	for k, v := range registry {
		out[k] = v
	}
	return out
}

func AvailableIDs() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Enabled filters the registry by an allow-list; empty means all.
func Enabled(ids []string) map[string]*Adapter {
	all := Available()
	if len(ids) == 0 {
		return all
	}
	out := make(map[string]*Adapter, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if a, ok := all[id]; ok {
			out[id] = a
		}
	}
	return out
}
