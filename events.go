package cervus

import (
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// EventName identifies a kind of Game event.
type EventName string

const (
	EventTick           EventName = "tick"           // one simulation step is starting
	EventAfterRender    EventName = "afterrender"    // a frame finished rendering
	EventFootstep       EventName = "footstep"       // a walker covered another stride
	EventTargetCaptured EventName = "targetcaptured" // a level recorded its target pose
	EventScore          EventName = "score"          // a level ended and was scored
)

// Event is a typed payload delivered through the EventBus.
type Event interface {
	EventName() EventName
}

// TickEvent is emitted at the start of every simulation step.
type TickEvent struct {
	// Time is the simulation time of this tick (Game.LastTick).
	Time time.Duration
	// Tick counts steps since the game was created, starting at 1.
	Tick uint64
}

// AfterRenderEvent is emitted once after every rendered frame.
type AfterRenderEvent struct {
	Frame uint64
}

// FootstepEvent is emitted by the Footsteps component.
type FootstepEvent struct {
	Entity   *Entity
	Position mgl64.Vec3
}

// TargetCapturedEvent is emitted when a level records its target pose.
type TargetCapturedEvent struct {
	Target *Target
}

// ScoreEvent is emitted when a level ends.
type ScoreEvent struct {
	Level  int
	Target *Target
	Score  float64
	Points int
}

func (TickEvent) EventName() EventName           { return EventTick }
func (AfterRenderEvent) EventName() EventName    { return EventAfterRender }
func (FootstepEvent) EventName() EventName       { return EventFootstep }
func (TargetCapturedEvent) EventName() EventName { return EventTargetCaptured }
func (ScoreEvent) EventName() EventName          { return EventScore }

// EventSink receives a copy of every emitted event. Used to bridge events into
// an external system such as an ECS world.
type EventSink interface {
	EmitEvent(event Event)
}

// Listener is a comparable event handler. A listener registered twice for
// the same event fires once.
type Listener interface {
	HandleEvent(event Event)
}

// --- Handler registry ---

type registration struct {
	id       uint64
	fn       func(Event)
	listener Listener
	active   bool
}

// EventBus delivers named events synchronously to handlers, in registration
// order. It is owned by a Game and is not safe for concurrent use.
type EventBus struct {
	handlers map[EventName][]*registration
	nextID   uint64
	sink     EventSink
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[EventName][]*registration)}
}

// Subscription allows removing a handler registered with On or Once.
type Subscription struct {
	id   uint64
	name EventName
	bus  *EventBus
}

// Cancel unregisters the handler so it no longer fires. Cancelling twice is a no-op.
func (s Subscription) Cancel() {
	if s.bus == nil {
		return
	}
	s.bus.remove(s.name, func(r *registration) bool { return r.id == s.id })
}

// On registers fn for events named name. Every call creates a distinct
// registration; keep the Subscription to remove it.
func (b *EventBus) On(name EventName, fn func(Event)) Subscription {
	if fn == nil {
		panic("cervus: nil event handler")
	}
	return b.add(name, &registration{fn: fn})
}

// Once registers fn to run on the next event named name only.
func (b *EventBus) Once(name EventName, fn func(Event)) Subscription {
	var sub Subscription
	sub = b.On(name, func(e Event) {
		sub.Cancel()
		fn(e)
	})
	return sub
}

// Off removes a handler registered with On. Equivalent to sub.Cancel().
func (b *EventBus) Off(sub Subscription) {
	sub.Cancel()
}

// Listen registers l for events named name. Registering the same listener
// again is a no-op. l's dynamic type must be comparable (a pointer, typically).
func (b *EventBus) Listen(name EventName, l Listener) {
	if l == nil {
		panic("cervus: nil event listener")
	}
	if !reflect.TypeOf(l).Comparable() {
		panic(fmt.Sprintf("cervus: listener type %T is not comparable", l))
	}
	for _, r := range b.handlers[name] {
		if r.listener == l {
			return
		}
	}
	b.add(name, &registration{listener: l})
}

// Unlisten removes l from events named name.
func (b *EventBus) Unlisten(name EventName, l Listener) {
	b.remove(name, func(r *registration) bool { return r.listener != nil && r.listener == l })
}

// Emit delivers e to every handler registered for its name, then to the sink.
// Handlers removed by an earlier handler during the same Emit do not fire.
func (b *EventBus) Emit(e Event) {
	regs := slices.Clone(b.handlers[e.EventName()])
	for _, r := range regs {
		if !r.active {
			continue
		}
		if r.listener != nil {
			r.listener.HandleEvent(e)
		} else {
			r.fn(e)
		}
	}
	if b.sink != nil {
		b.sink.EmitEvent(e)
	}
}

// Len returns the number of handlers registered for name.
func (b *EventBus) Len(name EventName) int {
	return len(b.handlers[name])
}

// SetSink sets the optional event sink.
func (b *EventBus) SetSink(sink EventSink) {
	b.sink = sink
}

func (b *EventBus) add(name EventName, r *registration) Subscription {
	b.nextID++
	r.id = b.nextID
	r.active = true
	b.handlers[name] = append(b.handlers[name], r)
	return Subscription{id: r.id, name: name, bus: b}
}

func (b *EventBus) remove(name EventName, match func(*registration) bool) {
	regs := b.handlers[name]
	for i, r := range regs {
		if match(r) {
			r.active = false
			copy(regs[i:], regs[i+1:])
			regs[len(regs)-1] = nil
			b.handlers[name] = regs[:len(regs)-1]
			return
		}
	}
}
