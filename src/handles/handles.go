// Package handles caches live collection handles per resolved
// namespace so repeated requests do not rebuild them.
package handles

import (
	"hash/fnv"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	"docgate/src/namespace"
)

// shardCount is fixed; the key space is the set of namespaces clients
// actually address, which stays small in practice.
const shardCount = 16

// Store maps resolved namespaces to collection handles. The map is
// sharded so concurrent first-accesses of unrelated namespaces never
// contend on one lock. Entries are never evicted; a handle lives as
// long as the process.
type Store struct {
	client *mongo.Client
	shards [shardCount]shard
}

type shard struct {
	mu      sync.RWMutex
	handles map[namespace.Namespace]*mongo.Collection
}

func NewStore(client *mongo.Client) *Store {
	s := &Store{client: client}
	for i := range s.shards {
		s.shards[i].handles = make(map[namespace.Namespace]*mongo.Collection)
	}
	return s
}

// GetOrCreate returns the cached handle for ns, building and storing
// one on first access. Two requests racing on the same cold namespace
// may both build a handle; the handles are interchangeable, so the
// second write simply replaces the first.
func (s *Store) GetOrCreate(ns namespace.Namespace) *mongo.Collection {
	sh := &s.shards[shardFor(ns)]

	sh.mu.RLock()
	handle, ok := sh.handles[ns]
	sh.mu.RUnlock()
	if ok {
		return handle
	}

	handle = s.client.Database(ns.Database).Collection(ns.Collection)

	sh.mu.Lock()
	sh.handles[ns] = handle
	sh.mu.Unlock()
	return handle
}

// Len reports the number of cached handles across all shards.
func (s *Store) Len() int {
	total := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		total += len(sh.handles)
		sh.mu.RUnlock()
	}
	return total
}

func shardFor(ns namespace.Namespace) uint32 {
	h := fnv.New32a()
	h.Write([]byte(ns.Database))
	h.Write([]byte{0})
	h.Write([]byte(ns.Collection))
	return h.Sum32() % shardCount
}
