package dhtactor

import (
	"sync"

	"github.com/xiej2520/orcanet-market-go/pkg/market"
)

// recordStore is the in-memory mirror of locally-known record values,
// consulted by the validation policy when an ingress PUT arrives.
//
// The DHT actor's event-loop goroutine is the only writer on the egress
// path (handling SetCmd). The ingress path runs inside the swarm
// library's own validator callback, which executes on a goroutine the
// actor does not control, so unlike the pending tables, this store is
// mutex-guarded rather than loop-exclusive.
type recordStore struct {
	mu      sync.RWMutex
	records map[market.Key]market.AdvertisementList
}

func newRecordStore() *recordStore {
	return &recordStore{records: make(map[market.Key]market.AdvertisementList)}
}

func (s *recordStore) get(key market.Key) (market.AdvertisementList, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list, ok := s.records[key]
	return list, ok
}

func (s *recordStore) put(key market.Key, list market.AdvertisementList) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = list
}
