package dhtactor

import (
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/xiej2520/orcanet-market-go/pkg/market"
)

// pendingTables holds the three correlation maps the actor owns
// exclusively. No other goroutine may read or write these maps; the
// event loop is their sole owner for the lifetime of the actor.
type pendingTables struct {
	get  map[market.Key][]chan<- GetResult
	put  map[market.Key][]chan<- error
	dial map[peer.ID][]chan<- DialResult
}

func newPendingTables() *pendingTables {
	return &pendingTables{
		get:  make(map[market.Key][]chan<- GetResult),
		put:  make(map[market.Key][]chan<- error),
		dial: make(map[peer.ID][]chan<- DialResult),
	}
}

// drainGet delivers result to every reply channel waiting on key and
// removes the entry. Panics if key was promised but never registered,
// per §7's "panics only on internal invariant violations."
func (p *pendingTables) drainGet(key market.Key, result GetResult) {
	waiters, ok := p.get[key]
	if !ok {
		panic("dhtactor: drainGet on key with no pending waiters")
	}
	delete(p.get, key)
	for _, reply := range waiters {
		sendNonBlocking(reply, result)
	}
}

func (p *pendingTables) drainPut(key market.Key, err error) {
	waiters, ok := p.put[key]
	if !ok {
		panic("dhtactor: drainPut on key with no pending waiters")
	}
	delete(p.put, key)
	for _, reply := range waiters {
		sendErrNonBlocking(reply, err)
	}
}

// resolveDial delivers result to every reply channel registered for
// peerID and clears the entry. Unlike drainGet/drainPut it is not an
// invariant violation for peerID to be absent: ConnectionEstablished and
// OutgoingConnectionError fire for connections the actor never dialed
// itself (inbound connections, reconnects).
func (p *pendingTables) resolveDial(peerID peer.ID, result DialResult) {
	waiters, ok := p.dial[peerID]
	if !ok {
		return
	}
	delete(p.dial, peerID)
	for _, reply := range waiters {
		select {
		case reply <- result:
		default:
		}
	}
}

// closeAll closes every outstanding reply channel, waking any caller
// still blocked on a receive with a closed-channel zero value rather
// than leaving it to block forever. Called once, when the actor's Run
// loop is about to return.
func (p *pendingTables) closeAll() {
	for key, waiters := range p.get {
		for _, reply := range waiters {
			close(reply)
		}
		delete(p.get, key)
	}
	for key, waiters := range p.put {
		for _, reply := range waiters {
			close(reply)
		}
		delete(p.put, key)
	}
	// One dial reply channel may be registered under several peers (the
	// bootstrap batch shares one), so each is closed only once.
	closedDial := make(map[chan<- DialResult]struct{})
	for peerID, waiters := range p.dial {
		for _, reply := range waiters {
			if _, closed := closedDial[reply]; closed {
				continue
			}
			closedDial[reply] = struct{}{}
			close(reply)
		}
		delete(p.dial, peerID)
	}
}

func sendNonBlocking(ch chan<- GetResult, v GetResult) {
	select {
	case ch <- v:
	default:
		// Caller dropped its reply handle before completion; per §5
		// cancellation semantics, drop the result silently.
	}
}

func sendErrNonBlocking(ch chan<- error, v error) {
	select {
	case ch <- v:
	default:
	}
}
