// Package client exposes the DHT actor's three operations as a
// cheaply-cloneable handle, per §4.5.
package client

import (
	"context"

	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/xiej2520/orcanet-market-go/internal/dhtactor"
	"github.com/xiej2520/orcanet-market-go/pkg/market"
)

// Handle is a facade over a DHT actor's inbox. It holds only the
// send-only command channel and the actor's Done() channel, so cloning a
// Handle (it is a plain value, safe to copy) only duplicates those two
// channel references — no other state is owned.
type Handle struct {
	inbox chan<- dhtactor.Command
	done  <-chan struct{}
}

// New wraps an actor's inbox in a Handle. done should be the owning
// Actor's Done() channel, so the handle can report market.ErrActorStopped
// instead of blocking forever once the actor has exited.
func New(inbox chan<- dhtactor.Command, done <-chan struct{}) Handle {
	return Handle{inbox: inbox, done: done}
}

// send delivers cmd to the inbox, respecting ctx cancellation and actor
// shutdown while the bounded queue applies backpressure.
func (h Handle) send(ctx context.Context, cmd dhtactor.Command) error {
	select {
	case h.inbox <- cmd:
		return nil
	case <-h.done:
		return market.ErrActorStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetRequests resolves the current advertisement list stored under key.
// A nil list with a nil error means no record exists yet.
func (h Handle) GetRequests(ctx context.Context, key market.Key) (market.AdvertisementList, error) {
	reply := make(chan dhtactor.GetResult, 1)
	if err := h.send(ctx, dhtactor.GetRequestsCmd{Key: key, Reply: reply}); err != nil {
		return nil, err
	}

	select {
	case result, ok := <-reply:
		if !ok {
			return nil, market.ErrActorStopped
		}
		return result.List, result.Err
	case <-h.done:
		return nil, market.ErrActorStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SetRequests encodes list per §4.2 and replaces the stored value under
// key.
func (h Handle) SetRequests(ctx context.Context, key market.Key, list market.AdvertisementList) error {
	encoded, err := market.Encode(list)
	if err != nil {
		return err
	}

	reply := make(chan error, 1)
	if err := h.send(ctx, dhtactor.SetCmd{Key: key, Value: encoded, Reply: reply}); err != nil {
		return err
	}

	select {
	case err, ok := <-reply:
		if !ok {
			return market.ErrActorStopped
		}
		return err
	case <-h.done:
		return market.ErrActorStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dial asks the actor to connect to peerID at addr, for joining
// additional peers after construction.
func (h Handle) Dial(ctx context.Context, peerID peer.ID, addr ma.Multiaddr) (peer.ID, error) {
	reply := make(chan dhtactor.DialResult, 1)
	if err := h.send(ctx, dhtactor.DialCmd{PeerID: peerID, Addr: addr, Reply: reply}); err != nil {
		return peerID, err
	}

	select {
	case result, ok := <-reply:
		if !ok {
			return peerID, market.ErrActorStopped
		}
		if !result.OK {
			return peerID, market.ErrUnavailable
		}
		return peerID, nil
	case <-h.done:
		return peerID, market.ErrActorStopped
	case <-ctx.Done():
		return peerID, ctx.Err()
	}
}
