// Package dhtactor implements the DHT actor: the single-threaded event
// loop that owns the peer-to-peer swarm, the pending-request tables, and
// the local record-store mirror, and correlates asynchronous network
// completions back to the RPC-initiated commands awaiting them.
package dhtactor

import (
	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/xiej2520/orcanet-market-go/pkg/market"
)

// GetResult is the outcome of a GetRequests command: the decoded
// advertisement list for the key, or nil if no record exists, or an
// error if the lookup failed for network reasons.
type GetResult struct {
	List market.AdvertisementList
	Err  error
}

// DialResult is the outcome of a Dial command. OK indicates the dial
// succeeded; PeerID is always the peer that was dialed, win or lose.
type DialResult struct {
	PeerID peer.ID
	OK     bool
}

// Command is the closed sum over the three operations the actor accepts
// from its inbox. Exhaustive handling of all three variants is required
// in the event loop.
type Command interface {
	isCommand()
}

// GetRequestsCmd asks the actor to resolve the current advertisement
// list stored under Key, fanning the result out to Reply.
type GetRequestsCmd struct {
	Key   market.Key
	Reply chan<- GetResult
}

func (GetRequestsCmd) isCommand() {}

// SetCmd asks the actor to replace the stored value under Key with
// Value (already §4.2-encoded). This is an egress PUT: it bypasses the
// validation policy, since the caller (the RPC layer) is trusted to have
// composed Value from authoritative local state.
type SetCmd struct {
	Key   market.Key
	Value []byte
	Reply chan<- error
}

func (SetCmd) isCommand() {}

// DialCmd asks the actor to dial PeerID at Addr, registering Reply as
// one of (possibly several) multi-shot listeners for the outcome.
type DialCmd struct {
	PeerID peer.ID
	Addr   ma.Multiaddr
	Reply  chan<- DialResult
}

func (DialCmd) isCommand() {}
