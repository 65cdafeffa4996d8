package dhtactor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
)

// BootstrapTimeout is the time budget a fresh node allows its bootstrap
// dials before declaring the attempt failed, per §4.4.
const BootstrapTimeout = 1 * time.Second

// ErrInvalidBootstrap is returned when a bootstrap multiaddr does not
// terminate in a /p2p/<PeerId> component.
var ErrInvalidBootstrap = errors.New("dhtactor: bootstrap address missing peer id component")

// ErrBootstrapFailed is returned when one or more bootstrap peers were
// listed but none answered a dial within BootstrapTimeout.
var ErrBootstrapFailed = errors.New("dhtactor: no bootstrap peer was dialable")

// parseBootstrapAddr splits a bootstrap multiaddr into its peer id and
// the remaining address, failing if no /p2p/<PeerId> component is
// present.
func parseBootstrapAddr(addr ma.Multiaddr) (peer.ID, ma.Multiaddr, error) {
	info, err := peer.AddrInfoFromP2pAddr(addr)
	if err != nil || info.ID == "" {
		return "", nil, fmt.Errorf("%w: %s", ErrInvalidBootstrap, addr)
	}
	if len(info.Addrs) == 0 {
		return info.ID, addr, nil
	}
	return info.ID, info.Addrs[0], nil
}

// Bootstrap implements §4.4's construction-time bootstrap procedure. It
// spawns the actor's event loop (so the select loop is already running
// to service the dial replies it is about to await), inserts each
// bootstrap peer into the routing table, and races a 1s timeout against
// the collected dial outcomes.
//
// Bootstrap succeeds if the address list is empty (a fresh network with
// nobody to join) or at least one dial reply arrives Ok before the
// timeout. It fails with ErrBootstrapFailed otherwise. A malformed
// address is rejected before any dialing starts, with ErrInvalidBootstrap,
// and the actor is never started in that case.
func Bootstrap(ctx context.Context, a *Actor, addrs []ma.Multiaddr) error {
	peers := make([]peer.ID, 0, len(addrs))
	dialAddrs := make([]ma.Multiaddr, 0, len(addrs))
	for _, addr := range addrs {
		id, dialAddr, err := parseBootstrapAddr(addr)
		if err != nil {
			return err
		}
		peers = append(peers, id)
		dialAddrs = append(dialAddrs, dialAddr)
	}

	if len(peers) == 0 {
		go a.Run(ctx)
		a.log.Info("bootstrap: empty peer list, starting fresh network")
		return nil
	}

	go a.Run(ctx)

	// Sized num_bootstrap + 1 per §4.4's "dial reply channels ... are
	// bounded to num_bootstrap + 1": room for every dial's first reply
	// plus one slack slot so a late straggler never blocks its sender.
	replies := make(chan DialResult, len(peers)+1)

	for i, id := range peers {
		a.Inbox() <- DialCmd{PeerID: id, Addr: dialAddrs[i], Reply: replies}
	}

	timeout := time.NewTimer(BootstrapTimeout)
	defer timeout.Stop()

	received := 0
	for received < len(peers) {
		select {
		case result := <-replies:
			received++
			if result.OK {
				a.log.WithField("peer", result.PeerID.String()).Info("bootstrap: dial succeeded")
				return nil
			}
			a.log.WithField("peer", result.PeerID.String()).Warn("bootstrap: dial failed")

		case <-timeout.C:
			a.log.Warn("bootstrap: timed out waiting for a dialable peer")
			return ErrBootstrapFailed

		case <-ctx.Done():
			return ctx.Err()
		}
	}

	a.log.Warn("bootstrap: no bootstrap peer was dialable")
	return ErrBootstrapFailed
}
