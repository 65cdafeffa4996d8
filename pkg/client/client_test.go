package client_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/sirupsen/logrus"

	"github.com/xiej2520/orcanet-market-go/internal/dhtactor"
	"github.com/xiej2520/orcanet-market-go/pkg/client"
	"github.com/xiej2520/orcanet-market-go/pkg/market"
)

// stubSwarm is a minimal dhtactor.Swarm for exercising the client handle
// without any real networking.
type stubSwarm struct {
	mu      sync.Mutex
	values  map[string][]byte
	dialOK  bool
	events  chan dhtactor.SwarmEvent
}

func newStubSwarm(dialOK bool) *stubSwarm {
	return &stubSwarm{
		values: make(map[string][]byte),
		dialOK: dialOK,
		events: make(chan dhtactor.SwarmEvent, 4),
	}
}

func (s *stubSwarm) GetRecord(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	if !ok {
		return nil, dhtactor.ErrRecordNotFound
	}
	return value, nil
}

func (s *stubSwarm) PutRecord(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *stubSwarm) AddAddress(peer.ID, ma.Multiaddr) {}

func (s *stubSwarm) Dial(context.Context, peer.ID) error {
	if s.dialOK {
		return nil
	}
	return context.DeadlineExceeded
}

func (s *stubSwarm) Events() <-chan dhtactor.SwarmEvent {
	return s.events
}

func newTestHandle(t *testing.T, swarm *stubSwarm) (client.Handle, context.CancelFunc) {
	t.Helper()
	a := dhtactor.NewActor(dhtactor.Config{
		Swarm: swarm,
		Clock: market.NewManualClock(1000),
		Log:   logrus.NewEntry(logrus.New()),
	})
	ctx, cancel := context.WithCancel(context.Background())
	go a.Run(ctx)
	return client.New(a.Inbox(), a.Done()), cancel
}

func TestHandleSetThenGet(t *testing.T) {
	h, cancel := newTestHandle(t, newStubSwarm(true))
	defer cancel()

	ctx := context.Background()
	list := market.AdvertisementList{{
		User:     market.User{ID: "u1"},
		FileHash: "f1",
	}}
	if err := h.SetRequests(ctx, "f1", list); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := h.GetRequests(ctx, "f1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0].User.ID != "u1" {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestHandleGetMissingKeyReturnsNilList(t *testing.T) {
	h, cancel := newTestHandle(t, newStubSwarm(true))
	defer cancel()

	got, err := h.GetRequests(context.Background(), "absent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil list, got %v", got)
	}
}

func TestHandleDialFailureReturnsUnavailable(t *testing.T) {
	h, cancel := newTestHandle(t, newStubSwarm(false))
	defer cancel()

	peerID, err := peer.Decode("12D3KooWD3eckifWpRn9wQpMG9R9hX3sD158z7EqHWmweQAJU5SA")
	if err != nil {
		t.Fatalf("decoding test peer id: %v", err)
	}
	addr, err := ma.NewMultiaddr("/ip4/127.0.0.1/tcp/4001")
	if err != nil {
		t.Fatalf("parsing multiaddr: %v", err)
	}

	_, err = h.Dial(context.Background(), peerID, addr)
	if !errors.Is(err, market.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestHandleActorStoppedAfterCancel(t *testing.T) {
	h, cancel := newTestHandle(t, newStubSwarm(true))
	cancel()
	time.Sleep(20 * time.Millisecond)

	_, err := h.GetRequests(context.Background(), "any")
	if err != market.ErrActorStopped {
		t.Fatalf("expected ErrActorStopped, got %v", err)
	}
}
