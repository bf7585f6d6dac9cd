// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-orrery/pkg/catalog"
)

// Type represents the type of event
type Type string

// Event types published by the orrery
const (
	SceneBuilt       Type = "scene_built"
	SceneTornDown    Type = "scene_torn_down"
	BodySelected     Type = "body_selected"
	SelectionCleared Type = "selection_cleared"
	SpeedChanged     Type = "speed_changed"
	ViewportResized  Type = "viewport_resized"
	AssetLoaded      Type = "asset_loaded"
	AssetLoadFailed  Type = "asset_load_failed"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription is the handle returned by Subscribe. Cancel removes the
// handler; calling it more than once is a no-op.
type Subscription struct {
	ID     uint64
	Type   Type
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return &Subscription{
		ID:   id,
		Type: eventType,
		Cancel: func() {
			once.Do(func() { b.unsubscribe(eventType, id) })
		},
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			// copy so an in-flight Publish keeps its own snapshot
			next := make([]subscriber, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			b.handlers[eventType] = next
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// HandlerCount returns the number of handlers registered for eventType.
func (b *Bus) HandlerCount(eventType Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

// Group collects subscriptions so they can be released by a single call.
type Group struct {
	mu   sync.Mutex
	subs []*Subscription
}

// Add records sub in the group and returns it.
func (g *Group) Add(sub *Subscription) *Subscription {
	g.mu.Lock()
	g.subs = append(g.subs, sub)
	g.mu.Unlock()
	return sub
}

// Len returns the number of live subscriptions in the group.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subs)
}

// CancelAll cancels every subscription in the group, newest first.
func (g *Group) CancelAll() {
	g.mu.Lock()
	subs := g.subs
	g.subs = nil
	g.mu.Unlock()

	for i := len(subs) - 1; i >= 0; i-- {
		subs[i].Cancel()
	}
}

// Specific event implementations

// SelectionEvent carries the body chosen by a pick, or none for SelectionCleared.
type SelectionEvent struct {
	BaseEvent
	Index int
	Body  catalog.Body
}

// NewSelectionEvent creates a BodySelected event for the body at index.
func NewSelectionEvent(source interface{}, index int, body catalog.Body) *SelectionEvent {
	return &SelectionEvent{
		BaseEvent: BaseEvent{EventType: BodySelected, Source: source},
		Index:     index,
		Body:      body,
	}
}

// NewSelectionClearedEvent creates a SelectionCleared event.
func NewSelectionClearedEvent(source interface{}) *SelectionEvent {
	return &SelectionEvent{
		BaseEvent: BaseEvent{EventType: SelectionCleared, Source: source},
		Index:     -1,
	}
}

// SpeedEvent reports the current speed multipliers after a change.
type SpeedEvent struct {
	BaseEvent
	Orbit    float64
	Rotation float64
}

// NewSpeedEvent creates a SpeedChanged event.
func NewSpeedEvent(source interface{}, orbit, rotation float64) *SpeedEvent {
	return &SpeedEvent{
		BaseEvent: BaseEvent{EventType: SpeedChanged, Source: source},
		Orbit:     orbit,
		Rotation:  rotation,
	}
}

// ViewportEvent reports new draw-surface dimensions.
type ViewportEvent struct {
	BaseEvent
	Width  int
	Height int
}

// NewViewportEvent creates a ViewportResized event.
func NewViewportEvent(source interface{}, width, height int) *ViewportEvent {
	return &ViewportEvent{
		BaseEvent: BaseEvent{EventType: ViewportResized, Source: source},
		Width:     width,
		Height:    height,
	}
}

// AssetEvent reports the outcome of a texture load for one body.
type AssetEvent struct {
	BaseEvent
	Index int
	Key   string
	Err   error
}

// NewAssetEvent creates AssetLoaded when err is nil, AssetLoadFailed otherwise.
func NewAssetEvent(source interface{}, index int, key string, err error) *AssetEvent {
	t := AssetLoaded
	if err != nil {
		t = AssetLoadFailed
	}
	return &AssetEvent{
		BaseEvent: BaseEvent{EventType: t, Source: source},
		Index:     index,
		Key:       key,
		Err:       err,
	}
}
