package rpc_test

import (
	"context"
	"sync"
	"testing"

	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/xiej2520/orcanet-market-go/internal/dhtactor"
	"github.com/xiej2520/orcanet-market-go/pkg/client"
	"github.com/xiej2520/orcanet-market-go/pkg/market"
	"github.com/xiej2520/orcanet-market-go/pkg/rpc"
	"github.com/xiej2520/orcanet-market-go/pkg/rpc/marketpb"
)

type stubSwarm struct {
	mu     sync.Mutex
	values map[string][]byte
	events chan dhtactor.SwarmEvent
}

func newStubSwarm() *stubSwarm {
	return &stubSwarm{values: make(map[string][]byte), events: make(chan dhtactor.SwarmEvent, 4)}
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
func (s *stubSwarm) Dial(context.Context, peer.ID) error { return nil }
func (s *stubSwarm) Events() <-chan dhtactor.SwarmEvent  { return s.events }

func newTestServer(t *testing.T, clock *market.ManualClock) *rpc.Server {
	t.Helper()
	swarm := newStubSwarm()
	a := dhtactor.NewActor(dhtactor.Config{
		Swarm: swarm,
		Clock: clock,
		Log:   logrus.NewEntry(logrus.New()),
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go a.Run(ctx)

	h := client.New(a.Inbox(), a.Done())
	return rpc.New(rpc.Config{Handle: h, Clock: clock, Log: logrus.NewEntry(logrus.New())})
}

func TestRegisterFileRejectsMissingUser(t *testing.T) {
	s := newTestServer(t, market.NewManualClock(1000))
	_, err := s.RegisterFile(context.Background(), &marketpb.RegisterFileRequest{FileHash: "f1"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestRegisterFileThenCheckHolders(t *testing.T) {
	clock := market.NewManualClock(1000)
	s := newTestServer(t, clock)
	ctx := context.Background()

	_, err := s.RegisterFile(ctx, &marketpb.RegisterFileRequest{
		User:     &marketpb.User{ID: "u1", Name: "alice"},
		FileHash: "f1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	resp, err := s.CheckHolders(ctx, &marketpb.CheckHoldersRequest{FileHash: "f1"})
	if err != nil {
		t.Fatalf("check_holders: %v", err)
	}
	if len(resp.Holders) != 1 || resp.Holders[0].ID != "u1" {
		t.Fatalf("unexpected holders: %+v", resp.Holders)
	}
}

func TestRegisterFileReplacesSameUser(t *testing.T) {
	clock := market.NewManualClock(1000)
	s := newTestServer(t, clock)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := s.RegisterFile(ctx, &marketpb.RegisterFileRequest{
			User:     &marketpb.User{ID: "u1", Name: "alice"},
			FileHash: "f1",
		}); err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
	}

	resp, err := s.CheckHolders(ctx, &marketpb.CheckHoldersRequest{FileHash: "f1"})
	if err != nil {
		t.Fatalf("check_holders: %v", err)
	}
	if len(resp.Holders) != 1 {
		t.Fatalf("expected one surviving holder, got %d", len(resp.Holders))
	}
}

func TestCheckHoldersPrunesExpired(t *testing.T) {
	clock := market.NewManualClock(1000)
	s := newTestServer(t, clock)
	ctx := context.Background()

	if _, err := s.RegisterFile(ctx, &marketpb.RegisterFileRequest{
		User:     &marketpb.User{ID: "u1"},
		FileHash: "f1",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	clock.Advance(market.DefaultExpirationWindow + 1)

	resp, err := s.CheckHolders(ctx, &marketpb.CheckHoldersRequest{FileHash: "f1"})
	if err != nil {
		t.Fatalf("check_holders: %v", err)
	}
	if len(resp.Holders) != 0 {
		t.Fatalf("expected no surviving holders, got %d", len(resp.Holders))
	}
}
