package broker

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/vmslayers/pkg/availability"
	"github.com/matzehuels/vmslayers/pkg/cache"
	"github.com/matzehuels/vmslayers/pkg/errors"
	"github.com/matzehuels/vmslayers/pkg/layer"
	"github.com/matzehuels/vmslayers/pkg/observability"
	"github.com/matzehuels/vmslayers/pkg/pipeline"
	"github.com/matzehuels/vmslayers/pkg/routing"
)

// Token identifies a registered publisher.
type Token string

// NewToken mints a random publisher token.
func NewToken() Token { return Token(uuid.NewString()) }

// AvailabilityListener is told about every change of the available set.
type AvailabilityListener interface {
	OnAvailabilityChange(ctx context.Context, state availability.State, change availability.Change)
}

// AvailabilityListenerFunc adapts a function to AvailabilityListener.
type AvailabilityListenerFunc func(ctx context.Context, state availability.State, change availability.Change)

// OnAvailabilityChange calls f.
func (f AvailabilityListenerFunc) OnAvailabilityChange(ctx context.Context, state availability.State, change availability.Change) {
	f(ctx, state, change)
}

// Options configures a Broker. Every field is optional.
type Options struct {
	// Router routes published messages. A fresh router is created if nil.
	Router *routing.Router
	// HAL receives messages for layers the HAL subscribed to.
	HAL routing.Subscriber
	// Runner resolves offerings. If nil, one is built from Cache, Keyer and
	// CacheTTL.
	Runner *pipeline.Runner
	// Cache memoizes resolution results. Defaults to a NullCache.
	Cache cache.Cache
	// Keyer derives cache keys. Defaults to cache.NewDefaultKeyer.
	Keyer cache.Keyer
	// CacheTTL is the lifetime of cached results. Defaults to cache.DefaultTTL.
	CacheTTL time.Duration
	// Logger defaults to log.Default().
	Logger *log.Logger
}

type publisher struct {
	name     string
	offering layer.Offering
}

// Broker tracks publisher offerings and the availability they imply.
// It is safe for concurrent use.
type Broker struct {
	router *routing.Router
	hal    routing.Subscriber
	runner *pipeline.Runner
	logger *log.Logger

	// update serializes recomputation and listener delivery so states reach
	// listeners in sequence order. mu guards the fields below and is never
	// held while resolving or notifying.
	update sync.Mutex

	mu         sync.Mutex
	publishers map[Token]*publisher
	state      availability.State
	listeners  []AvailabilityListener
}

// New creates a broker with no publishers.
func New(opts Options) *Broker {
	if opts.Router == nil {
		opts.Router = routing.New()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(opts.Cache, opts.Keyer, opts.Logger)
		if opts.CacheTTL > 0 {
			opts.Runner.TTL = opts.CacheTTL
		}
	}
	return &Broker{
		router:     opts.Router,
		hal:        opts.HAL,
		runner:     opts.Runner,
		logger:     opts.Logger,
		publishers: make(map[Token]*publisher),
	}
}

// Router returns the router used for message delivery.
func (b *Broker) Router() *routing.Router { return b.router }

// Register adds a publisher and returns its token. The publisher offers
// nothing until SetOffering is called.
func (b *Broker) Register(name string) (Token, error) {
	if err := errors.ValidatePublisherName(name); err != nil {
		return "", err
	}
	token := NewToken()

	b.mu.Lock()
	b.publishers[token] = &publisher{name: name}
	b.mu.Unlock()

	b.logger.Debug("registered publisher", "name", name, "token", token)
	return token, nil
}

// Unregister removes a publisher together with its offering and recomputes
// availability.
func (b *Broker) Unregister(ctx context.Context, token Token) (availability.State, error) {
	b.update.Lock()
	defer b.update.Unlock()

	b.mu.Lock()
	p, ok := b.publishers[token]
	if !ok {
		b.mu.Unlock()
		return availability.State{}, unknownPublisher(token)
	}
	delete(b.publishers, token)
	offerings := b.offeringsLocked()
	b.mu.Unlock()

	b.logger.Debug("unregistered publisher", "name", p.name, "token", token)
	return b.recompute(ctx, offerings), nil
}

// SetOffering replaces the offering of the publisher identified by token and
// recomputes availability over every publisher's offering. Listeners are
// notified when the available set changed. The offering's Publisher field is
// overwritten with the registered name, and the broker keeps its own copy.
func (b *Broker) SetOffering(ctx context.Context, token Token, offering layer.Offering) (availability.State, error) {
	offering = offering.Clone()

	b.update.Lock()
	defer b.update.Unlock()

	b.mu.Lock()
	p, ok := b.publishers[token]
	if !ok {
		b.mu.Unlock()
		return availability.State{}, unknownPublisher(token)
	}
	offering.Publisher = p.name
	if err := offering.Validate(); err != nil {
		b.mu.Unlock()
		return availability.State{}, err
	}
	p.offering = offering
	offerings := b.offeringsLocked()
	b.mu.Unlock()

	return b.recompute(ctx, offerings), nil
}

// recompute resolves offerings, advances the state and notifies listeners.
// It must be called with b.update held and b.mu released. Listeners must not
// call SetOffering or Unregister from the callback.
func (b *Broker) recompute(ctx context.Context, offerings []layer.Offering) availability.State {
	result, _ := b.Resolve(ctx, offerings)

	b.mu.Lock()
	state, change := b.state.Advance(result)
	b.state = state
	listeners := slices.Clone(b.listeners)
	b.mu.Unlock()

	if change.Empty() {
		return state
	}

	b.logger.Info("availability changed",
		"sequence", state.Sequence,
		"added", len(change.Added),
		"removed", len(change.Removed),
		"available", len(result.Available()))
	observability.Routing().OnAvailabilityChange(ctx, state.Sequence, len(change.Added), len(change.Removed))

	for _, l := range listeners {
		l.OnAvailabilityChange(ctx, state, change)
	}
	return state
}

// Resolve computes availability for offerings through the broker's runner
// without touching the broker's own state. The second result reports whether
// the answer came from the cache.
func (b *Broker) Resolve(ctx context.Context, offerings []layer.Offering) (availability.Result, bool) {
	return b.runner.ResolveWithCacheInfo(ctx, offerings)
}

// offeringsLocked returns the stored offerings ordered by publisher name, then token.
func (b *Broker) offeringsLocked() []layer.Offering {
	tokens := slices.SortedFunc(maps.Keys(b.publishers), func(x, y Token) int {
		if c := strings.Compare(b.publishers[x].name, b.publishers[y].name); c != 0 {
			return c
		}
		return strings.Compare(string(x), string(y))
	})
	out := make([]layer.Offering, 0, len(tokens))
	for _, t := range tokens {
		if p := b.publishers[t]; len(p.offering.Dependencies) > 0 {
			out = append(out, p.offering)
		}
	}
	return out
}

// Offerings returns a copy of every stored offering.
func (b *Broker) Offerings() []layer.Offering {
	b.mu.Lock()
	offerings := b.offeringsLocked()
	b.mu.Unlock()
	for i, o := range offerings {
		offerings[i] = o.Clone()
	}
	return offerings
}

// Availability returns the current availability state.
func (b *Broker) Availability() availability.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// AddAvailabilityListener registers l. Listeners are called in registration order.
func (b *Broker) AddAvailabilityListener(l AvailabilityListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// RemoveAvailabilityListener unregisters l. Listeners must be comparable.
func (b *Broker) RemoveAvailabilityListener(l AvailabilityListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = slices.DeleteFunc(b.listeners, func(x AvailabilityListener) bool { return x == l })
}

// Subscriptions returns the current subscription state.
func (b *Broker) Subscriptions() routing.SubscriptionState {
	return b.router.SubscriptionState()
}

// Publish delivers payload for l to every subscriber of l and, when the HAL
// subscribed to l, to the HAL. A failing subscriber is logged and does not
// stop delivery to the others. It returns the number of successful deliveries.
func (b *Broker) Publish(ctx context.Context, token Token, l layer.Layer, payload []byte) (int, error) {
	b.mu.Lock()
	p, ok := b.publishers[token]
	b.mu.Unlock()
	if !ok {
		return 0, unknownPublisher(token)
	}
	if err := l.Validate(); err != nil {
		return 0, err
	}

	targets := b.router.Listeners(l)
	if b.hal != nil && b.router.IsHALSubscribed(l) {
		targets = append(targets, b.hal)
	}

	delivered, failed := 0, 0
	for _, s := range targets {
		if err := s.OnMessage(ctx, l, payload); err != nil {
			failed++
			b.logger.Warn("delivery failed", "layer", l, "publisher", p.name, "err", err)
			continue
		}
		delivered++
	}

	b.logger.Debug("published", "layer", l, "publisher", p.name, "delivered", delivered, "failed", failed)
	observability.Routing().OnPublish(ctx, l, delivered, failed)
	return delivered, nil
}

func unknownPublisher(token Token) error {
	return errors.New(errors.ErrCodeUnknownPublisher, "unknown publisher token %q", token)
}
