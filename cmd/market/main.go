// Package main implements the market node CLI, per §4.8: wiring
// identity, the DHT actor, the client handle, and the RPC server
// together behind a single cobra command.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	ma "github.com/multiformats/go-multiaddr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/xiej2520/orcanet-market-go/internal/dhtactor"
	"github.com/xiej2520/orcanet-market-go/internal/identity"
	"github.com/xiej2520/orcanet-market-go/pkg/client"
	"github.com/xiej2520/orcanet-market-go/pkg/market"
	"github.com/xiej2520/orcanet-market-go/pkg/rpc"
	"github.com/xiej2520/orcanet-market-go/pkg/rpc/marketpb"
)

func main() {
	var (
		bootstrapPeers []string
		privateKeyPath string
		listenAddress  string
		port           uint16
	)

	log := logrus.New()

	cmd := &cobra.Command{
		Use:   "market",
		Short: "run a decentralized file-discovery market node",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), runConfig{
				bootstrapPeers: bootstrapPeers,
				privateKeyPath: privateKeyPath,
				listenAddress:  listenAddress,
				port:           port,
				log:            logrus.NewEntry(log),
			})
		},
	}

	cmd.Flags().StringArrayVar(&bootstrapPeers, "bootstrap-peers", nil, "bootstrap peer multiaddrs, each terminating in /p2p/<PeerId>")
	cmd.Flags().StringVar(&privateKeyPath, "private-key", "", "path to a PKCS8 DER-encoded RSA private key (ephemeral Ed25519 identity if omitted)")
	cmd.Flags().StringVar(&listenAddress, "listen-address", "", "libp2p listen multiaddr (client mode, no inbound connections, if omitted)")
	cmd.Flags().Uint16Var(&port, "port", 0, "RPC listen port, must be >= 1024 (required)")
	cmd.MarkFlagRequired("port")

	if err := cmd.Execute(); err != nil {
		log.WithError(err).Error("market: exiting")
		os.Exit(1)
	}
}

type runConfig struct {
	bootstrapPeers []string
	privateKeyPath string
	listenAddress  string
	port           uint16
	log            *logrus.Entry
}

func run(ctx context.Context, cfg runConfig) error {
	if cfg.port < 1024 {
		return fmt.Errorf("%w: --port must be >= 1024", market.ErrInvalidConfiguration)
	}

	priv, err := identity.Load(cfg.privateKeyPath)
	if err != nil {
		return err
	}

	var listenAddr ma.Multiaddr
	if cfg.listenAddress != "" {
		listenAddr, err = ma.NewMultiaddr(cfg.listenAddress)
		if err != nil {
			return fmt.Errorf("%w: parsing --listen-address: %v", market.ErrInvalidConfiguration, err)
		}
	}

	bootstrapAddrs := make([]ma.Multiaddr, 0, len(cfg.bootstrapPeers))
	for _, raw := range cfg.bootstrapPeers {
		addr, err := ma.NewMultiaddr(raw)
		if err != nil {
			return fmt.Errorf("%w: parsing --bootstrap-peers %q: %v", market.ErrInvalidConfiguration, raw, err)
		}
		bootstrapAddrs = append(bootstrapAddrs, addr)
	}

	clock := market.SystemClock{}
	validator, store := dhtactor.NewValidator(clock, 0, cfg.log)

	swarm, err := dhtactor.NewLibp2pSwarm(ctx, priv, listenAddr, validator, cfg.log)
	if err != nil {
		return fmt.Errorf("%w: %v", market.ErrInvalidConfiguration, err)
	}
	defer swarm.Close()

	actor := dhtactor.NewActor(dhtactor.Config{Swarm: swarm, Clock: clock, Log: cfg.log, Store: store})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := dhtactor.Bootstrap(runCtx, actor, bootstrapAddrs); err != nil {
		return err
	}

	handle := client.New(actor.Inbox(), actor.Done())
	server := rpc.New(rpc.Config{Handle: handle, Clock: clock, Log: cfg.log})

	grpcServer := grpc.NewServer(grpc.ForceServerCodec(marketpb.JSONCodec))
	marketpb.RegisterMarketServer(grpcServer, server)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.port))
	if err != nil {
		return fmt.Errorf("%w: listening for rpc: %v", market.ErrInvalidConfiguration, err)
	}

	serveErr := make(chan error, 1)
	go func() {
		cfg.log.WithField("addr", lis.Addr().String()).Info("market: rpc server listening")
		serveErr <- grpcServer.Serve(lis)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		cfg.log.Info("market: received shutdown signal")
		grpcServer.GracefulStop()
		cancel()
		return nil
	case err := <-serveErr:
		cancel()
		return err
	case <-actor.Done():
		grpcServer.GracefulStop()
		return fmt.Errorf("%w: actor exited unexpectedly", market.ErrUnknown)
	}
}
