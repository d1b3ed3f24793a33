package routing

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/matzehuels/vmslayers/pkg/layer"
)

type recorder struct {
	name string
}

func (r *recorder) OnMessage(context.Context, layer.Layer, []byte) error { return nil }

var (
	layerA = layer.New(1, 0)
	layerB = layer.New(2, 0)
)

func names(subs []Subscriber) []string {
	var out []string
	for _, s := range subs {
		out = append(out, s.(*recorder).name)
	}
	slices.Sort(out)
	return out
}

func TestRouter_LayerSubscriptions(t *testing.T) {
	r := New()
	alice, bob := &recorder{name: "alice"}, &recorder{name: "bob"}

	r.AddSubscription(alice, layerA)
	r.AddSubscription(bob, layerA)
	r.AddSubscription(bob, layerB)

	if got := names(r.Listeners(layerA)); !slices.Equal(got, []string{"alice", "bob"}) {
		t.Errorf("Listeners(A) = %v, want [alice bob]", got)
	}
	if got := names(r.Listeners(layerB)); !slices.Equal(got, []string{"bob"}) {
		t.Errorf("Listeners(B) = %v, want [bob]", got)
	}
	if got := r.Listeners(layer.New(9, 9)); len(got) != 0 {
		t.Errorf("Listeners(unknown) = %v, want empty", got)
	}

	r.RemoveSubscription(bob, layerB)
	if r.HasLayerSubscriptions(layerB) {
		t.Error("layer B should be forgotten after its last subscriber leaves")
	}
	if !r.HasLayerSubscriptions(layerA) {
		t.Error("layer A should still have subscriptions")
	}
}

func TestRouter_Promiscuous(t *testing.T) {
	r := New()
	logger, alice := &recorder{name: "logger"}, &recorder{name: "alice"}

	before := r.SubscriptionState().Sequence
	r.AddPromiscuous(logger)
	if r.SubscriptionState().Sequence != before {
		t.Error("promiscuous subscriptions should not change the sequence")
	}

	r.AddSubscription(alice, layerA)
	r.AddSubscription(logger, layerA)
	if got := names(r.Listeners(layerA)); !slices.Equal(got, []string{"alice", "logger"}) {
		t.Errorf("Listeners(A) = %v, want [alice logger] without duplicates", got)
	}
	if got := names(r.Listeners(layerB)); !slices.Equal(got, []string{"logger"}) {
		t.Errorf("Listeners(B) = %v, want [logger]", got)
	}
	if r.HasLayerSubscriptions(layerB) {
		t.Error("promiscuous subscribers should not count as layer subscriptions")
	}

	r.RemovePromiscuous(logger)
	if got := names(r.Listeners(layerB)); len(got) != 0 {
		t.Errorf("Listeners(B) = %v, want empty", got)
	}
}

func TestRouter_RemoveSubscriber(t *testing.T) {
	r := New()
	dead, alive := &recorder{name: "dead"}, &recorder{name: "alive"}

	r.AddSubscription(dead, layerA)
	r.AddSubscription(dead, layerB)
	r.AddSubscription(alive, layerB)
	r.AddPromiscuous(dead)

	r.RemoveSubscriber(dead)

	if r.HasSubscriber(dead) {
		t.Error("HasSubscriber(dead) = true after RemoveSubscriber")
	}
	if !r.HasSubscriber(alive) {
		t.Error("HasSubscriber(alive) = false, want true")
	}
	state := r.SubscriptionState()
	if !slices.Equal(state.Layers, []layer.Layer{layerB}) {
		t.Errorf("Layers = %v, want [%v]", state.Layers, layerB)
	}
}

func TestRouter_HAL(t *testing.T) {
	r := New()

	r.AddHALSubscription(layerB)
	if !r.IsHALSubscribed(layerB) {
		t.Error("IsHALSubscribed(B) = false, want true")
	}
	if !r.HasLayerSubscriptions(layerB) {
		t.Error("HAL subscriptions should count as layer subscriptions")
	}

	r.RemoveHALSubscription(layerB)
	if r.IsHALSubscribed(layerB) {
		t.Error("IsHALSubscribed(B) = true after removal")
	}
}

func TestRouter_SubscriptionState(t *testing.T) {
	r := New()
	alice := &recorder{name: "alice"}

	if s := r.SubscriptionState(); s.Sequence != 0 || len(s.Layers) != 0 {
		t.Errorf("initial state = %+v, want zero", s)
	}

	r.AddSubscription(alice, layerB)
	r.AddHALSubscription(layerA)
	r.AddHALSubscription(layerB)

	s := r.SubscriptionState()
	if s.Sequence != 3 {
		t.Errorf("Sequence = %d, want 3", s.Sequence)
	}
	if !slices.Equal(s.Layers, []layer.Layer{layerA, layerB}) {
		t.Errorf("Layers = %v, want [%v %v]", s.Layers, layerA, layerB)
	}

	r.RemoveSubscription(alice, layer.New(9, 9))
	if got := r.SubscriptionState().Sequence; got != 4 {
		t.Errorf("Sequence = %d, want 4", got)
	}
}

func TestRouter_Concurrent(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := &recorder{name: "s"}
			l := layer.New(i, 0)
			for j := 0; j < 100; j++ {
				r.AddSubscription(s, l)
				_ = r.Listeners(l)
				_ = r.SubscriptionState()
				r.RemoveSubscription(s, l)
			}
		}(i)
	}
	wg.Wait()

	if got := r.SubscriptionState().Sequence; got != 8*100*2 {
		t.Errorf("Sequence = %d, want %d", got, 8*100*2)
	}
}
