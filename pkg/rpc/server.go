// Package rpc implements the Market gRPC service, translating
// register_file and check_holders onto a client.Handle per §4.6.
package rpc

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/xiej2520/orcanet-market-go/pkg/client"
	"github.com/xiej2520/orcanet-market-go/pkg/market"
	"github.com/xiej2520/orcanet-market-go/pkg/rpc/marketpb"
)

// Server implements marketpb.MarketServer over a client.Handle.
type Server struct {
	marketpb.UnimplementedMarketServer

	handle client.Handle
	clock  market.Clock
	window uint64
	log    *logrus.Entry
}

// Config configures a new Server.
type Config struct {
	Handle           client.Handle
	Clock            market.Clock
	ExpirationWindow uint64 // 0 selects market.DefaultExpirationWindow
	Log              *logrus.Entry
}

// New constructs a Server.
func New(cfg Config) *Server {
	window := cfg.ExpirationWindow
	if window == 0 {
		window = market.DefaultExpirationWindow
	}
	log := cfg.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Server{handle: cfg.Handle, clock: cfg.Clock, window: window, log: log}
}

// RegisterFile implements §4.6's register_file: construct an
// advertisement expiring expirationWindow seconds from now, drop any
// existing entry for the same user or that has already expired, append
// the new advertisement, and store the result.
func (s *Server) RegisterFile(ctx context.Context, req *marketpb.RegisterFileRequest) (*marketpb.Empty, error) {
	if req.User == nil {
		return nil, status.Error(codes.InvalidArgument, "user is required")
	}

	key := market.Key(req.FileHash)
	now := s.clock.Now()

	current, err := s.handle.GetRequests(ctx, key)
	if err != nil {
		return nil, toStatus(err)
	}

	advert := market.Advertisement{
		User:       fromPB(req.User),
		FileHash:   req.FileHash,
		Expiration: now + s.window,
	}

	next := current.WithoutExpiredOrUser(advert.User.ID, now)
	next = append(next, advert)

	if err := s.handle.SetRequests(ctx, key, next); err != nil {
		return nil, toStatus(err)
	}

	return &marketpb.Empty{}, nil
}

// CheckHolders implements §4.6's check_holders: fetch the current
// holders, drop everything expired as a compaction side-effect, write
// the pruned list back, and return the surviving users in order.
func (s *Server) CheckHolders(ctx context.Context, req *marketpb.CheckHoldersRequest) (*marketpb.HoldersResponse, error) {
	key := market.Key(req.FileHash)
	now := s.clock.Now()

	current, err := s.handle.GetRequests(ctx, key)
	if err != nil {
		return nil, toStatus(err)
	}

	live := current.WithoutExpired(now)

	if err := s.handle.SetRequests(ctx, key, live); err != nil {
		s.log.WithError(err).Warn("rpc: compaction set_requests failed, returning stale holders anyway")
	}

	holders := make([]*marketpb.User, 0, len(live))
	for _, user := range live.Users() {
		holders = append(holders, toPB(user))
	}
	return &marketpb.HoldersResponse{Holders: holders}, nil
}

func fromPB(u *marketpb.User) market.User {
	return market.User{ID: u.ID, Name: u.Name, IP: u.IP, Port: u.Port, Price: u.Price}
}

func toPB(u market.User) *marketpb.User {
	return &marketpb.User{ID: u.ID, Name: u.Name, IP: u.IP, Port: u.Port, Price: u.Price}
}

// toStatus maps §7's sentinel error kinds onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, market.ErrActorStopped):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, market.ErrUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, market.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, market.ErrInternal):
		return status.Error(codes.Internal, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Unknown, err.Error())
	}
}
