package dhtactor

import (
	"context"
	"errors"

	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
)

// ErrRecordNotFound is returned by Swarm.GetRecord when the DHT query
// completed without error but found no record for the key.
var ErrRecordNotFound = errors.New("dhtactor: record not found")

// Swarm is the actor's view of the underlying peer-to-peer network. The
// concrete implementation (libp2pSwarm, in network.go) wraps a
// go-libp2p host and a go-libp2p-kad-dht instance; tests substitute a
// fake that never touches the network.
//
// GetRecord and PutRecord are blocking calls by design: the actor never
// calls them inline on its own goroutine. It spawns a helper goroutine
// per outstanding query that does nothing but call these methods and
// report completion back onto the actor's event channel — the helper
// goroutine never touches the pending tables or the record store
// itself.
type Swarm interface {
	GetRecord(ctx context.Context, key string) ([]byte, error)
	PutRecord(ctx context.Context, key string, value []byte) error
	AddAddress(peerID peer.ID, addr ma.Multiaddr)
	Dial(ctx context.Context, peerID peer.ID) error
	Events() <-chan SwarmEvent
}

// SwarmEventKind discriminates the SwarmEvent union.
type SwarmEventKind int

const (
	// EventNewListenAddr corresponds to §4.4's NewListenAddr.
	EventNewListenAddr SwarmEventKind = iota
	// EventMDNSDiscovered corresponds to §4.4's mDNS Discovered.
	EventMDNSDiscovered
	// EventConnectionEstablished corresponds to §4.4's
	// ConnectionEstablished(dialer).
	EventConnectionEstablished
	// EventOutgoingConnectionError corresponds to §4.4's
	// OutgoingConnectionError.
	EventOutgoingConnectionError
	// EventOther covers every swarm event the actor doesn't act on but
	// still logs, per §4.4's "All other events: log."
	EventOther
)

// SwarmEvent is the actor's internal representation of a swarm
// notification. Only the fields relevant to Kind are populated.
type SwarmEvent struct {
	Kind      SwarmEventKind
	Addr      ma.Multiaddr
	PeerID    peer.ID
	PeerAddrs []ma.Multiaddr // for EventMDNSDiscovered, one peer's addresses
	IsDialer  bool           // for EventConnectionEstablished
	Note      string         // free-form detail for EventOther's log line
}
