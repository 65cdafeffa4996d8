package dhtactor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/sirupsen/logrus"

	"github.com/xiej2520/orcanet-market-go/pkg/market"
)

func TestBootstrapEmptyListSucceeds(t *testing.T) {
	swarm := newFakeSwarm()
	a := NewActor(Config{Swarm: swarm, Clock: market.NewManualClock(1000), Log: logrus.NewEntry(logrus.New())})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := Bootstrap(ctx, a, nil); err != nil {
		t.Fatalf("expected empty bootstrap to succeed, got %v", err)
	}
}

func TestBootstrapRejectsAddrWithoutPeerID(t *testing.T) {
	swarm := newFakeSwarm()
	a := NewActor(Config{Swarm: swarm, Clock: market.NewManualClock(1000), Log: logrus.NewEntry(logrus.New())})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := mustAddr(t, "/ip4/127.0.0.1/tcp/4001")
	if err := Bootstrap(ctx, a, []ma.Multiaddr{addr}); !errors.Is(err, ErrInvalidBootstrap) {
		t.Fatalf("expected ErrInvalidBootstrap, got %v", err)
	}
}

func TestBootstrapSucceedsOnFirstOkDial(t *testing.T) {
	swarm := newFakeSwarm()
	a := NewActor(Config{Swarm: swarm, Clock: market.NewManualClock(1000), Log: logrus.NewEntry(logrus.New())})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := mustAddr(t, "/ip4/127.0.0.1/tcp/4001/p2p/12D3KooWD3eckifWpRn9wQpMG9R9hX3sD158z7EqHWmweQAJU5SA")

	if err := Bootstrap(ctx, a, []ma.Multiaddr{addr}); err != nil {
		t.Fatalf("expected bootstrap to succeed, got %v", err)
	}
}

func TestBootstrapFailsWhenNoPeerDialable(t *testing.T) {
	swarm := newFakeSwarm()
	peerID, err := peer.Decode("12D3KooWD3eckifWpRn9wQpMG9R9hX3sD158z7EqHWmweQAJU5SA")
	if err != nil {
		t.Fatalf("decode peer id: %v", err)
	}
	swarm.dialErr[peerID] = errors.New("connection refused")

	a := NewActor(Config{Swarm: swarm, Clock: market.NewManualClock(1000), Log: logrus.NewEntry(logrus.New())})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := mustAddr(t, "/ip4/127.0.0.1/tcp/4001/p2p/12D3KooWD3eckifWpRn9wQpMG9R9hX3sD158z7EqHWmweQAJU5SA")

	start := time.Now()
	err = Bootstrap(ctx, a, []ma.Multiaddr{addr})
	if !errors.Is(err, ErrBootstrapFailed) {
		t.Fatalf("expected ErrBootstrapFailed, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("bootstrap took too long to fail: %v", time.Since(start))
	}
}
