package dhtactor

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/xiej2520/orcanet-market-go/pkg/market"
)

// InboxCapacity is the bounded command queue size, per §4.4.
const InboxCapacity = 256

// getCompletion and putCompletion are internal events a helper goroutine
// posts back to the event loop once a blocking GetRecord/PutRecord call
// returns. They are never observed outside this package.
type getCompletion struct {
	key   market.Key
	value []byte
	err   error
}

type putCompletion struct {
	key market.Key
	err error
}

// Actor is the DHT actor: the single goroutine that owns the swarm
// handle, the pending-request tables, and the local record-store mirror.
type Actor struct {
	swarm  Swarm
	clock  market.Clock
	window uint64
	log    *logrus.Entry

	inbox chan Command
	done  chan struct{}

	store *recordStore

	getDone  chan getCompletion
	putDone  chan putCompletion
	dialDone chan DialResult
}

// Config configures a new Actor.
type Config struct {
	Swarm            Swarm
	Clock            market.Clock
	ExpirationWindow uint64 // 0 selects market.DefaultExpirationWindow
	Log              *logrus.Entry

	// Store, if non-nil, is the record-store mirror the Actor will use.
	// Pass the same store returned by NewValidator when that validator
	// was already wired into the swarm being passed as Swarm, so the
	// ingress-validation path and the actor's own reads/writes share one
	// mirror. A nil Store allocates a fresh, empty one.
	Store *recordStore
}

// NewActor constructs an Actor.
func NewActor(cfg Config) *Actor {
	window := cfg.ExpirationWindow
	if window == 0 {
		window = market.DefaultExpirationWindow
	}
	log := cfg.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	store := cfg.Store
	if store == nil {
		store = newRecordStore()
	}
	return &Actor{
		swarm:    cfg.Swarm,
		clock:    cfg.Clock,
		window:   window,
		log:      log,
		inbox:    make(chan Command, InboxCapacity),
		done:     make(chan struct{}),
		store:    store,
		getDone:  make(chan getCompletion),
		putDone:  make(chan putCompletion),
		dialDone: make(chan DialResult),
	}
}

// NewValidator builds the record.Validator-shaped hook a concrete swarm's
// DHT configuration must install before the actor starts, so that
// ingress PUTs are filtered through §4.3 before they ever land in the
// shared record-store mirror. It also returns that mirror, to be passed
// back into NewActor's Config.Store once the swarm (and therefore the
// actor that will own it) can be constructed.
func NewValidator(clock market.Clock, window uint64, log *logrus.Entry) (*recordValidator, *recordStore) {
	if window == 0 {
		window = market.DefaultExpirationWindow
	}
	store := newRecordStore()
	return newRecordValidator(store, clock, window, log), store
}

// Inbox returns the send-only view of the command channel, for client
// handles to hold.
func (a *Actor) Inbox() chan<- Command {
	return a.inbox
}

// Done returns a channel closed once Run has returned, so a client
// handle blocked sending into a full inbox (or awaiting a reply that
// will now never arrive) can detect that the actor is gone and report
// market.ErrActorStopped instead of hanging forever.
func (a *Actor) Done() <-chan struct{} {
	return a.done
}

// Run executes the event loop until ctx is cancelled or the inbox
// channel is closed. Dropping client handles does not close the inbox;
// nothing in this package closes it, so in practice ctx cancellation is
// what stops the loop.
// Run is intended to be the body of the actor's hosting goroutine.
func (a *Actor) Run(ctx context.Context) {
	pending := newPendingTables()
	defer close(a.done)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("dht actor: context cancelled, shutting down")
			pending.closeAll()
			return

		case cmd, ok := <-a.inbox:
			if !ok {
				a.log.Info("dht actor: inbox closed, shutting down")
				pending.closeAll()
				return
			}
			a.handleCommand(ctx, cmd, pending)

		case done := <-a.getDone:
			a.handleGetCompletion(done, pending)

		case done := <-a.putDone:
			a.handlePutCompletion(done, pending)

		case result := <-a.dialDone:
			pending.resolveDial(result.PeerID, result)

		case event := <-a.swarm.Events():
			a.handleSwarmEvent(event, pending)
		}
	}
}

func (a *Actor) handleCommand(ctx context.Context, cmd Command, pending *pendingTables) {
	switch c := cmd.(type) {
	case GetRequestsCmd:
		a.handleGetRequests(ctx, c, pending)
	case SetCmd:
		a.handleSet(ctx, c, pending)
	case DialCmd:
		a.handleDial(ctx, c, pending)
	default:
		panic("dhtactor: unhandled command variant")
	}
}

func (a *Actor) handleGetRequests(ctx context.Context, c GetRequestsCmd, pending *pendingTables) {
	_, inFlight := pending.get[c.Key]
	pending.get[c.Key] = append(pending.get[c.Key], c.Reply)
	if inFlight {
		return
	}

	key := c.Key
	go func() {
		value, err := a.swarm.GetRecord(ctx, namespacedKey(key))
		select {
		case a.getDone <- getCompletion{key: key, value: value, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (a *Actor) handleSet(ctx context.Context, c SetCmd, pending *pendingTables) {
	pending.put[c.Key] = append(pending.put[c.Key], c.Reply)

	// Egress PUTs bypass §4.3, but still update the local mirror so a
	// subsequent ingress PUT is validated against our own latest write.
	if decoded, err := market.Decode(c.Value); err == nil {
		a.store.put(c.Key, decoded)
	}

	key, value := c.Key, c.Value
	go func() {
		err := a.swarm.PutRecord(ctx, namespacedKey(key), value)
		select {
		case a.putDone <- putCompletion{key: key, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (a *Actor) handleDial(ctx context.Context, c DialCmd, pending *pendingTables) {
	if _, inFlight := pending.dial[c.PeerID]; inFlight {
		a.log.WithField("peer", c.PeerID.String()).Info("dht actor: already dialing, ignoring")
		return
	}

	a.swarm.AddAddress(c.PeerID, c.Addr)
	pending.dial[c.PeerID] = append(pending.dial[c.PeerID], c.Reply)

	peerID := c.PeerID
	go func() {
		err := a.swarm.Dial(ctx, peerID)
		result := DialResult{PeerID: peerID, OK: err == nil}
		select {
		case a.dialDone <- result:
		case <-ctx.Done():
		}
	}()
}

func (a *Actor) handleGetCompletion(done getCompletion, pending *pendingTables) {
	switch {
	case done.err == nil:
		list, decodeErr := market.Decode(done.value)
		if decodeErr != nil {
			pending.drainGet(done.key, GetResult{Err: market.ErrInternal})
			return
		}
		pending.drainGet(done.key, GetResult{List: list})
	case errors.Is(done.err, ErrRecordNotFound):
		pending.drainGet(done.key, GetResult{List: nil})
	default:
		pending.drainGet(done.key, GetResult{Err: market.ErrUnavailable})
	}
}

func (a *Actor) handlePutCompletion(done putCompletion, pending *pendingTables) {
	if done.err != nil {
		pending.drainPut(done.key, market.ErrUnknown)
		return
	}
	pending.drainPut(done.key, nil)
}

func (a *Actor) handleSwarmEvent(event SwarmEvent, pending *pendingTables) {
	switch event.Kind {
	case EventNewListenAddr:
		a.log.WithField("addr", event.Addr).Info("dht actor: new listen address")

	case EventMDNSDiscovered:
		for _, addr := range event.PeerAddrs {
			a.swarm.AddAddress(event.PeerID, addr)
		}
		a.log.WithField("peer", event.PeerID.String()).Debug("dht actor: mdns discovered peer")

	case EventConnectionEstablished:
		if event.IsDialer {
			pending.resolveDial(event.PeerID, DialResult{PeerID: event.PeerID, OK: true})
		}

	case EventOutgoingConnectionError:
		pending.resolveDial(event.PeerID, DialResult{PeerID: event.PeerID, OK: false})

	default:
		a.log.WithField("note", event.Note).Debug("dht actor: unhandled swarm event")
	}
}
