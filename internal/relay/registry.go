package relay

import (
	"log/slog"
	"sync"

	"github.com/nebegreg/Timeline-comfyui/internal/metrics"
)

// tenantSet is one tenant's connection set. Its mutex linearizes all
// mutations and snapshots for that tenant without contending with other
// tenants. dead marks a set that was pruned from the registry while a
// concurrent Register held a stale reference.
type tenantSet struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	dead    bool
}

// Registry maps tenants to their currently connected viewers. The outer
// RWMutex guards only the tenant map itself; per-tenant work happens under
// the bucket mutex. Lock order is always registry then bucket.
type Registry struct {
	mu      sync.RWMutex
	tenants map[string]*tenantSet
}

func NewRegistry() *Registry {
	return &Registry{
		tenants: make(map[string]*tenantSet),
	}
}

// Register adds the client to the tenant's set. Idempotent: registering the
// same client twice leaves it in the set once.
func (r *Registry) Register(tenant string, client *Client) {
	for {
		r.mu.Lock()
		set, ok := r.tenants[tenant]
		if !ok {
			set = &tenantSet{clients: make(map[*Client]struct{})}
			r.tenants[tenant] = set
			metrics.RelayActiveTenants.Set(float64(len(r.tenants)))
		}
		r.mu.Unlock()

		set.mu.Lock()
		if set.dead {
			// Lost a race with the pruner; the map entry is gone. Retry.
			set.mu.Unlock()
			continue
		}
		if _, exists := set.clients[client]; !exists {
			set.clients[client] = struct{}{}
			metrics.RelayConnectedClients.Inc()
		}
		total := len(set.clients)
		set.mu.Unlock()

		slog.Debug("Viewer registered", "tenant", tenant, "client_id", client.ID.String(), "total_clients", total)
		return
	}
}

// Unregister removes the client if present. A no-op when absent, so the
// failed-broadcast prune and the disconnect handler can both call it.
func (r *Registry) Unregister(tenant string, client *Client) {
	r.mu.RLock()
	set := r.tenants[tenant]
	r.mu.RUnlock()
	if set == nil {
		return
	}

	set.mu.Lock()
	if _, exists := set.clients[client]; !exists {
		set.mu.Unlock()
		return
	}
	delete(set.clients, client)
	remaining := len(set.clients)
	set.mu.Unlock()

	metrics.RelayConnectedClients.Dec()
	slog.Debug("Viewer unregistered", "tenant", tenant, "client_id", client.ID.String(), "remaining_clients", remaining)

	if remaining == 0 {
		r.pruneIfEmpty(tenant, set)
	}
}

// Snapshot returns a copy of the tenant's current connection set, safe to
// iterate while registers and unregisters proceed concurrently.
func (r *Registry) Snapshot(tenant string) []*Client {
	r.mu.RLock()
	set := r.tenants[tenant]
	r.mu.RUnlock()
	if set == nil {
		return nil
	}

	set.mu.Lock()
	defer set.mu.Unlock()
	clients := make([]*Client, 0, len(set.clients))
	for client := range set.clients {
		clients = append(clients, client)
	}
	return clients
}

// Count returns the number of connections registered for a tenant.
func (r *Registry) Count(tenant string) int {
	r.mu.RLock()
	set := r.tenants[tenant]
	r.mu.RUnlock()
	if set == nil {
		return 0
	}

	set.mu.Lock()
	defer set.mu.Unlock()
	return len(set.clients)
}

// CloseAll gracefully closes every connection and empties the registry.
// Used during server shutdown.
func (r *Registry) CloseAll(reason string) {
	r.mu.Lock()
	sets := make([]*tenantSet, 0, len(r.tenants))
	for tenant, set := range r.tenants {
		sets = append(sets, set)
		delete(r.tenants, tenant)
	}
	metrics.RelayActiveTenants.Set(0)
	r.mu.Unlock()

	total := 0
	for _, set := range sets {
		set.mu.Lock()
		set.dead = true
		clients := make([]*Client, 0, len(set.clients))
		for client := range set.clients {
			clients = append(clients, client)
			delete(set.clients, client)
		}
		set.mu.Unlock()

		for _, client := range clients {
			client.CloseGraceful(reason)
			metrics.RelayConnectedClients.Dec()
			total++
		}
	}

	if total > 0 {
		slog.Info("Closed all viewer connections", "disconnected_clients", total)
	}
}

func (r *Registry) pruneIfEmpty(tenant string, set *tenantSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set.mu.Lock()
	defer set.mu.Unlock()

	// Re-check under both locks: a register may have raced the prune.
	if len(set.clients) == 0 && r.tenants[tenant] == set {
		set.dead = true
		delete(r.tenants, tenant)
		metrics.RelayActiveTenants.Set(float64(len(r.tenants)))
	}
}
