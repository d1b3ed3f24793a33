// Package routing tracks which subscribers want which VMS layers.
//
// A [Router] holds three kinds of subscription:
//
//   - layer subscriptions: a subscriber wants messages of one layer
//   - promiscuous subscriptions: a subscriber wants every message
//   - HAL subscriptions: the vehicle HAL wants a layer forwarded to it
//
// Publishers consult [Router.SubscriptionState] to learn which layers anyone
// is listening to, and the broker consults [Router.Listeners] to deliver a
// published message. Every change to layer or HAL subscriptions increments a
// sequence number carried in the state so publishers can drop stale updates.
// Promiscuous subscribers do not change the state: they do not make any
// particular layer wanted.
//
// Router is safe for concurrent use.
package routing

import (
	"context"
	"sync"

	"github.com/matzehuels/vmslayers/pkg/layer"
)

// Subscriber receives published layer messages. Implementations must be
// comparable (typically pointers) since they are used as set members.
type Subscriber interface {
	OnMessage(ctx context.Context, l layer.Layer, payload []byte) error
}

// SubscriptionState is a snapshot of the layers somebody is subscribed to.
type SubscriptionState struct {
	Sequence int           `json:"sequence"`
	Layers   []layer.Layer `json:"layers"`
}

// Router manages subscriptions. The zero value is not usable; use [New].
type Router struct {
	mu          sync.Mutex
	layerSubs   map[layer.Layer]map[Subscriber]struct{}
	promiscuous map[Subscriber]struct{}
	hal         layer.Set
	sequence    int
}

// New returns an empty router.
func New() *Router {
	return &Router{
		layerSubs:   make(map[layer.Layer]map[Subscriber]struct{}),
		promiscuous: make(map[Subscriber]struct{}),
		hal:         make(layer.Set),
	}
}

// AddSubscription subscribes s to messages of l.
func (r *Router) AddSubscription(s Subscriber, l layer.Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequence++
	subs, ok := r.layerSubs[l]
	if !ok {
		subs = make(map[Subscriber]struct{})
		r.layerSubs[l] = subs
	}
	subs[s] = struct{}{}
}

// RemoveSubscription unsubscribes s from l. The layer is forgotten once its
// last subscriber leaves.
func (r *Router) RemoveSubscription(s Subscriber, l layer.Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(s, l)
}

func (r *Router) removeLocked(s Subscriber, l layer.Layer) {
	r.sequence++
	subs, ok := r.layerSubs[l]
	if !ok {
		return
	}
	delete(subs, s)
	if len(subs) == 0 {
		delete(r.layerSubs, l)
	}
}

// AddPromiscuous subscribes s to every layer.
func (r *Router) AddPromiscuous(s Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.promiscuous[s] = struct{}{}
}

// RemovePromiscuous drops the all-layers subscription of s.
func (r *Router) RemovePromiscuous(s Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.promiscuous, s)
}

// RemoveSubscriber drops s from every route, for subscribers that went away.
func (r *Router) RemoveSubscriber(s Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for l, subs := range r.layerSubs {
		if _, ok := subs[s]; ok {
			r.removeLocked(s, l)
		}
	}
	delete(r.promiscuous, s)
}

// Listeners returns the subscribers of l together with every promiscuous
// subscriber, each once. Order is unspecified.
func (r *Router) Listeners(l layer.Layer) []Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.layerSubs[l]) + len(r.promiscuous)
	seen := make(map[Subscriber]struct{}, n)
	out := make([]Subscriber, 0, n)
	for _, group := range []map[Subscriber]struct{}{r.layerSubs[l], r.promiscuous} {
		for s := range group {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// HasSubscriber reports whether s is subscribed to anything.
func (r *Router) HasSubscriber(s Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, subs := range r.layerSubs {
		if _, ok := subs[s]; ok {
			return true
		}
	}
	_, ok := r.promiscuous[s]
	return ok
}

// AddHALSubscription records that the HAL wants l.
func (r *Router) AddHALSubscription(l layer.Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequence++
	r.hal.Add(l)
}

// RemoveHALSubscription records that the HAL no longer wants l.
func (r *Router) RemoveHALSubscription(l layer.Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequence++
	delete(r.hal, l)
}

// IsHALSubscribed reports whether the HAL wants l.
func (r *Router) IsHALSubscribed(l layer.Layer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hal.Has(l)
}

// HasLayerSubscriptions reports whether a subscriber or the HAL wants l.
// Promiscuous subscribers are not counted.
func (r *Router) HasLayerSubscriptions(l layer.Layer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.layerSubs[l]
	return ok || r.hal.Has(l)
}

// SubscriptionState returns the current sequence number and the sorted,
// deduplicated layers wanted by subscribers or the HAL.
func (r *Router) SubscriptionState() SubscriptionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(layer.Set, len(r.layerSubs)+len(r.hal))
	for l := range r.layerSubs {
		wanted.Add(l)
	}
	for l := range r.hal {
		wanted.Add(l)
	}
	return SubscriptionState{Sequence: r.sequence, Layers: wanted.Sorted()}
}
