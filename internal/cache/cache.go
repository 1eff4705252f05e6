// Package cache memoizes capacity results. Each cache is a Partition
// owned by an Arena; the arena knows which partitions depend on which and
// clears dependents transitively.
package cache

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// clearer is the type-erased view of a Partition held by the Arena
type clearer interface {
	Name() string
	Clear()
	Len() int
}

// Partition is a mutex-guarded map from K to V. Concurrent misses on the
// same key are collapsed into one computation.
type Partition[K comparable, V any] struct {
	name    string
	mu      sync.RWMutex
	entries map[K]V
	gen     uint64
	group   singleflight.Group
	misses  atomic.Int64
}

// NewPartition creates a partition and registers it with the arena
func NewPartition[K comparable, V any](a *Arena, name string, dependsOn ...string) *Partition[K, V] {
	p := &Partition[K, V]{name: name, entries: make(map[K]V)}
	a.register(p, dependsOn...)
	return p
}

// Name of the partition
func (p *Partition[K, V]) Name() string { return p.name }

// Len returns the number of cached entries
func (p *Partition[K, V]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

// Misses returns how many times compute has been invoked
func (p *Partition[K, V]) Misses() int64 { return p.misses.Load() }

// Clear drops all entries. Computations in flight when Clear is called do
// not store their results.
func (p *Partition[K, V]) Clear() {
	p.mu.Lock()
	p.entries = make(map[K]V)
	p.gen++
	p.mu.Unlock()
}

// Get returns the cached value for key
func (p *Partition[K, V]) Get(key K) (V, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.entries[key]
	return v, ok
}

// GetOrCompute returns the cached value for key, calling compute on a
// miss. Errors are returned to every waiter and never cached.
func (p *Partition[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	if v, ok := p.Get(key); ok {
		return v, nil
	}

	res, err, _ := p.group.Do(fmt.Sprintf("%v", key), func() (any, error) {
		// another flight may have stored it between Get and Do
		if v, ok := p.Get(key); ok {
			return v, nil
		}

		p.mu.RLock()
		gen := p.gen
		p.mu.RUnlock()

		p.misses.Add(1)
		v, err := compute()
		if err != nil {
			return v, err
		}

		p.mu.Lock()
		if p.gen == gen {
			p.entries[key] = v
		}
		p.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Arena owns a set of partitions and the invalidation epoch
type Arena struct {
	mu         sync.Mutex
	partitions map[string]clearer
	dependents map[string][]string
	epoch      atomic.Uint64
}

// NewArena creates an empty arena
func NewArena() *Arena {
	return &Arena{
		partitions: make(map[string]clearer),
		dependents: make(map[string][]string),
	}
}

func (a *Arena) register(c clearer, dependsOn ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, dup := a.partitions[c.Name()]; dup {
		panic(fmt.Sprintf("cache: duplicate partition %q", c.Name()))
	}
	a.partitions[c.Name()] = c
	for _, parent := range dependsOn {
		a.dependents[parent] = append(a.dependents[parent], c.Name())
	}
}

// Link records that partition child depends on partition parent. Used
// when the two are created by packages that cannot import each other.
func (a *Arena) Link(parent, child string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dependents[parent] = append(a.dependents[parent], child)
}

// Epoch returns the number of full invalidations so far
func (a *Arena) Epoch() uint64 { return a.epoch.Load() }

// Invalidate clears every partition and starts a new epoch
func (a *Arena) Invalidate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range a.partitions {
		p.Clear()
	}
	a.epoch.Add(1)
}

// InvalidatePartition clears the named partition and every partition that
// depends on it, directly or transitively. It returns the names cleared.
func (a *Arena) InvalidatePartition(name string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var cleared []string
	seen := map[string]bool{}
	queue := []string{name}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if seen[n] {
			continue
		}
		seen[n] = true
		if p, ok := a.partitions[n]; ok {
			p.Clear()
			cleared = append(cleared, n)
		}
		queue = append(queue, a.dependents[n]...)
	}
	return cleared
}

// Stats returns the entry count of each partition
func (a *Arena) Stats() map[string]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]int, len(a.partitions))
	for n, p := range a.partitions {
		out[n] = p.Len()
	}
	return out
}
