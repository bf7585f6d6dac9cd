// pkg/event/event_test.go
package event

import (
	"errors"
	"sync"
	"testing"

	"github.com/opd-ai/go-orrery/pkg/catalog"
)

// TestNewEventBus tests the creation of a new event bus
func TestNewEventBus_Creation_ReturnsInitializedBus(t *testing.T) {
	bus := NewEventBus()

	if bus == nil {
		t.Fatal("NewEventBus() returned nil")
	}
	if bus.handlers == nil {
		t.Error("handlers map not initialized")
	}
	if bus.nextID != 1 {
		t.Errorf("expected nextID to be 1, got %d", bus.nextID)
	}
}

func TestBaseEvent_GetType_ReturnsCorrectType(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		source    interface{}
	}{
		{"SceneBuilt event", SceneBuilt, "scene"},
		{"BodySelected event", BodySelected, 2},
		{"Empty source", SceneTornDown, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &BaseEvent{EventType: tt.eventType, Source: tt.source}
			if e.GetType() != tt.eventType {
				t.Errorf("GetType() = %v, want %v", e.GetType(), tt.eventType)
			}
			if e.GetSource() != tt.source {
				t.Errorf("GetSource() = %v, want %v", e.GetSource(), tt.source)
			}
		})
	}
}

func TestBusSubscribe_SingleHandler_ReturnsValidSubscription(t *testing.T) {
	bus := NewEventBus()

	sub := bus.Subscribe(BodySelected, func(e Event) {})

	if sub == nil {
		t.Fatal("Subscribe() returned nil subscription")
	}
	if sub.ID == 0 {
		t.Error("subscription ID should not be 0")
	}
	if sub.Type != BodySelected {
		t.Errorf("subscription Type = %v, want %v", sub.Type, BodySelected)
	}
	if sub.Cancel == nil {
		t.Error("subscription Cancel function should not be nil")
	}
	if n := bus.HandlerCount(BodySelected); n != 1 {
		t.Errorf("expected 1 handler, got %d", n)
	}
}

func TestBusSubscribe_IDsAreUnique(t *testing.T) {
	bus := NewEventBus()
	a := bus.Subscribe(BodySelected, func(Event) {})
	b := bus.Subscribe(BodySelected, func(Event) {})
	c := bus.Subscribe(SpeedChanged, func(Event) {})

	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Errorf("duplicate subscription IDs: %d %d %d", a.ID, b.ID, c.ID)
	}
}

func TestBusPublish_WithSubscribers_CallsAllHandlersInOrder(t *testing.T) {
	bus := NewEventBus()
	var calls []int

	bus.Subscribe(SpeedChanged, func(Event) { calls = append(calls, 1) })
	bus.Subscribe(SpeedChanged, func(Event) { calls = append(calls, 2) })
	bus.Subscribe(BodySelected, func(Event) { calls = append(calls, 3) })

	bus.Publish(NewSpeedEvent("test", 1, 1))

	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Errorf("calls = %v, want [1 2]", calls)
	}
}

func TestBusPublish_NoSubscribers_NoPanic(t *testing.T) {
	bus := NewEventBus()
	bus.Publish(&BaseEvent{EventType: SceneBuilt})
}

func TestSubscriptionCancel_RemovesHandlerAndIsIdempotent(t *testing.T) {
	bus := NewEventBus()
	called := 0

	sub := bus.Subscribe(BodySelected, func(Event) { called++ })
	keep := bus.Subscribe(BodySelected, func(Event) {})

	sub.Cancel()
	sub.Cancel()

	if n := bus.HandlerCount(BodySelected); n != 1 {
		t.Errorf("expected 1 handler after cancel, got %d", n)
	}

	bus.Publish(&BaseEvent{EventType: BodySelected})
	if called != 0 {
		t.Error("handler should not be called after cancellation")
	}

	keep.Cancel()
	if n := bus.HandlerCount(BodySelected); n != 0 {
		t.Errorf("expected 0 handlers, got %d", n)
	}
}

func TestSubscriptionCancel_DuringPublish(t *testing.T) {
	bus := NewEventBus()
	var second int
	var sub2 *Subscription

	bus.Subscribe(BodySelected, func(Event) { sub2.Cancel() })
	sub2 = bus.Subscribe(BodySelected, func(Event) { second++ })

	bus.Publish(&BaseEvent{EventType: BodySelected})
	bus.Publish(&BaseEvent{EventType: BodySelected})

	if second != 1 {
		t.Errorf("second handler ran %d times, want 1 (snapshot for the first publish only)", second)
	}
}

func TestGroup_CancelAll(t *testing.T) {
	bus := NewEventBus()
	var g Group

	g.Add(bus.Subscribe(BodySelected, func(Event) {}))
	g.Add(bus.Subscribe(SelectionCleared, func(Event) {}))
	g.Add(bus.Subscribe(SpeedChanged, func(Event) {}))

	if g.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", g.Len())
	}

	g.CancelAll()
	g.CancelAll()

	for _, typ := range []Type{BodySelected, SelectionCleared, SpeedChanged} {
		if n := bus.HandlerCount(typ); n != 0 {
			t.Errorf("%s still has %d handlers", typ, n)
		}
	}
	if g.Len() != 0 {
		t.Errorf("Len() after CancelAll = %d", g.Len())
	}
}

func TestBusSubscribe_ConcurrentAccess_ThreadSafe(t *testing.T) {
	bus := NewEventBus()
	var wg sync.WaitGroup
	var mu sync.Mutex
	count := 0

	handler := func(e Event) {
		mu.Lock()
		count++
		mu.Unlock()
	}

	const subscribers = 10
	wg.Add(subscribers)
	for i := 0; i < subscribers; i++ {
		go func() {
			defer wg.Done()
			bus.Subscribe(SceneBuilt, handler)
		}()
	}
	wg.Wait()

	if n := bus.HandlerCount(SceneBuilt); n != subscribers {
		t.Fatalf("expected %d handlers, got %d", subscribers, n)
	}

	wg.Add(3)
	for i := 0; i < 3; i++ {
		go func() {
			defer wg.Done()
			bus.Publish(&BaseEvent{EventType: SceneBuilt})
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count != subscribers*3 {
		t.Errorf("expected %d handler calls, got %d", subscribers*3, count)
	}
}

func TestNewSelectionEvent(t *testing.T) {
	earth, _ := catalog.Default().At(2)
	e := NewSelectionEvent("picker", 2, earth)

	if e.GetType() != BodySelected {
		t.Errorf("GetType() = %v, want %v", e.GetType(), BodySelected)
	}
	if e.Index != 2 || e.Body.Name != "Earth" {
		t.Errorf("event = %+v", e)
	}

	cleared := NewSelectionClearedEvent("shell")
	if cleared.GetType() != SelectionCleared || cleared.Index != -1 {
		t.Errorf("cleared event = %+v", cleared)
	}
}

func TestNewAssetEvent_TypeFollowsError(t *testing.T) {
	ok := NewAssetEvent("loader", 1, "venus", nil)
	if ok.GetType() != AssetLoaded {
		t.Errorf("GetType() = %v, want %v", ok.GetType(), AssetLoaded)
	}

	failed := NewAssetEvent("loader", 1, "venus", errors.New("missing"))
	if failed.GetType() != AssetLoadFailed {
		t.Errorf("GetType() = %v, want %v", failed.GetType(), AssetLoadFailed)
	}
}

func TestNewSpeedAndViewportEvents(t *testing.T) {
	s := NewSpeedEvent("shell", 2.5, 0)
	if s.GetType() != SpeedChanged || s.Orbit != 2.5 || s.Rotation != 0 {
		t.Errorf("speed event = %+v", s)
	}

	v := NewViewportEvent("window", 800, 600)
	if v.GetType() != ViewportResized || v.Width != 800 || v.Height != 600 {
		t.Errorf("viewport event = %+v", v)
	}
}
