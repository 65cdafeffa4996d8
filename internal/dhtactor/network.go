package dhtactor

import (
	"context"
	"errors"
	"fmt"

	dht "github.com/libp2p/go-libp2p-kad-dht"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/peerstore"
	"github.com/libp2p/go-libp2p/core/record"
	"github.com/libp2p/go-libp2p/core/routing"
	"github.com/libp2p/go-libp2p/p2p/discovery/mdns"

	"github.com/libp2p/go-libp2p"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/sirupsen/logrus"
)

// mdnsServiceTag namespaces the local-network discovery announcements so
// this market's nodes don't answer every mDNS-speaking libp2p app on the
// LAN.
const mdnsServiceTag = "orcanet-market-discovery"

// libp2pSwarm is the concrete Swarm backing a running node: a libp2p
// host, a Kademlia DHT instance configured with the actor's own record
// validator, and an mDNS discovery service for LAN peers. It is the only
// type in this package that touches the network.
type libp2pSwarm struct {
	host   host.Host
	kad    *dht.IpfsDHT
	log    *logrus.Entry
	events chan SwarmEvent
}

// NewLibp2pSwarm builds a host listening on listenAddr, using priv as its
// identity key, and a DHT instance validated by validator. A nil
// listenAddr puts the host in client mode, per §6: it accepts no inbound
// connections and its DHT runs in client mode. Callers should obtain validator (and the record-store
// mirror it shares with the actor) from NewValidator before constructing
// the Actor that will own this swarm.
func NewLibp2pSwarm(ctx context.Context, priv crypto.PrivKey, listenAddr ma.Multiaddr, validator record.Validator, log *logrus.Entry) (*libp2pSwarm, error) {
	listenOpt := libp2p.NoListenAddrs
	if listenAddr != nil {
		listenOpt = libp2p.ListenAddrs(listenAddr)
	}

	h, err := libp2p.New(
		libp2p.Identity(priv),
		listenOpt,
	)
	if err != nil {
		return nil, fmt.Errorf("dhtactor: creating libp2p host: %w", err)
	}

	mode := dht.ModeServer
	if listenAddr == nil {
		mode = dht.ModeClient
	}

	kadDHT, err := dht.New(ctx, h,
		dht.Mode(mode),
		dht.Validator(record.NamespacedValidator{
			"market": validator,
		}),
	)
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("dhtactor: creating kademlia dht: %w", err)
	}

	s := &libp2pSwarm{
		host:   h,
		kad:    kadDHT,
		log:    log,
		events: make(chan SwarmEvent, InboxCapacity),
	}

	svc := mdns.NewMdnsService(h, mdnsServiceTag, s)
	if err := svc.Start(); err != nil {
		kadDHT.Close()
		h.Close()
		return nil, fmt.Errorf("dhtactor: starting mdns discovery: %w", err)
	}

	h.Network().Notify(s.notifiee())

	for _, addr := range h.Addrs() {
		s.emit(SwarmEvent{Kind: EventNewListenAddr, Addr: addr})
	}

	return s, nil
}

// HandlePeerFound implements mdns.Notifee. It is invoked on a goroutine
// owned by the mdns library whenever a peer advertising mdnsServiceTag is
// discovered on the local network.
func (s *libp2pSwarm) HandlePeerFound(info peer.AddrInfo) {
	s.emit(SwarmEvent{Kind: EventMDNSDiscovered, PeerID: info.ID, PeerAddrs: info.Addrs})
}

// notifiee returns a network.Notifiee translating libp2p's low-level
// connection events into the subset the actor acts on, per §4.4.
func (s *libp2pSwarm) notifiee() network.Notifiee {
	return &network.NotifyBundle{
		ConnectedF: func(_ network.Network, conn network.Conn) {
			s.emit(SwarmEvent{
				Kind:     EventConnectionEstablished,
				PeerID:   conn.RemotePeer(),
				IsDialer: conn.Stat().Direction == network.DirOutbound,
			})
		},
	}
}

func (s *libp2pSwarm) emit(event SwarmEvent) {
	select {
	case s.events <- event:
	default:
		s.log.WithField("kind", event.Kind).Warn("dht swarm: event channel full, dropping event")
	}
}

func (s *libp2pSwarm) GetRecord(ctx context.Context, key string) ([]byte, error) {
	value, err := s.kad.GetValue(ctx, key)
	if err != nil {
		if errors.Is(err, routing.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *libp2pSwarm) PutRecord(ctx context.Context, key string, value []byte) error {
	return s.kad.PutValue(ctx, key, value)
}

func (s *libp2pSwarm) AddAddress(peerID peer.ID, addr ma.Multiaddr) {
	if addr == nil {
		return
	}
	s.host.Peerstore().AddAddr(peerID, addr, peerstore.TempAddrTTL)
}

func (s *libp2pSwarm) Dial(ctx context.Context, peerID peer.ID) error {
	_, err := s.host.Network().DialPeer(ctx, peerID)
	if err != nil {
		s.emit(SwarmEvent{Kind: EventOutgoingConnectionError, PeerID: peerID})
		return err
	}
	return nil
}

func (s *libp2pSwarm) Events() <-chan SwarmEvent {
	return s.events
}

// Close tears down the host and DHT. It is not part of the Swarm
// interface since the actor never initiates shutdown of its own
// transport; the owning main() does, after the actor's Run loop exits.
func (s *libp2pSwarm) Close() error {
	if err := s.kad.Close(); err != nil {
		s.host.Close()
		return err
	}
	return s.host.Close()
}
