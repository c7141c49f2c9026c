package cervus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingListener struct {
	events []Event
}

func (l *countingListener) HandleEvent(e Event) { l.events = append(l.events, e) }

type sinkRecorder struct {
	events []Event
}

func (s *sinkRecorder) EmitEvent(e Event) { s.events = append(s.events, e) }

func TestEventBusOrderAndCancel(t *testing.T) {
	bus := NewEventBus()
	var log []string
	sub := bus.On(EventTick, func(Event) { log = append(log, "a") })
	bus.On(EventTick, func(Event) { log = append(log, "b") })
	bus.On(EventAfterRender, func(Event) { log = append(log, "render") })

	bus.Emit(TickEvent{Tick: 1})
	assert.Equal(t, []string{"a", "b"}, log)

	sub.Cancel()
	sub.Cancel()
	log = nil
	bus.Emit(TickEvent{Tick: 2})
	assert.Equal(t, []string{"b"}, log)
	assert.Equal(t, 1, bus.Len(EventTick))
}

func TestEventBusOnce(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	bus.Once(EventScore, func(Event) { calls++ })
	bus.Emit(ScoreEvent{})
	bus.Emit(ScoreEvent{})
	assert.Equal(t, 1, calls)
	assert.Zero(t, bus.Len(EventScore))
}

func TestEventBusRemovalDuringEmit(t *testing.T) {
	bus := NewEventBus()
	var log []string
	var second Subscription
	bus.On(EventTick, func(Event) {
		log = append(log, "first")
		bus.Off(second)
	})
	second = bus.On(EventTick, func(Event) { log = append(log, "second") })

	bus.Emit(TickEvent{})
	assert.Equal(t, []string{"first"}, log)
}

func TestEventBusAddDuringEmit(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	bus.On(EventTick, func(Event) {
		bus.On(EventTick, func(Event) { calls++ })
	})
	bus.Emit(TickEvent{})
	assert.Zero(t, calls, "handlers added during emit wait for the next one")
	bus.Emit(TickEvent{})
	assert.Equal(t, 1, calls)
}

func TestEventBusListenerDeduplicates(t *testing.T) {
	bus := NewEventBus()
	l := &countingListener{}
	bus.Listen(EventFootstep, l)
	bus.Listen(EventFootstep, l)
	bus.Emit(FootstepEvent{})
	assert.Len(t, l.events, 1)

	bus.Unlisten(EventFootstep, l)
	bus.Emit(FootstepEvent{})
	assert.Len(t, l.events, 1)
}

func TestEventBusPanics(t *testing.T) {
	bus := NewEventBus()
	assert.PanicsWithValue(t, "cervus: nil event handler", func() { bus.On(EventTick, nil) })
	assert.PanicsWithValue(t, "cervus: nil event listener", func() { bus.Listen(EventTick, nil) })
}

func TestEventSink(t *testing.T) {
	g := newTestGame(t)
	sink := &sinkRecorder{}
	g.SetEventSink(sink)
	g.Start()
	g.Emit(ScoreEvent{Points: 42})

	assert.Len(t, sink.events, 1)
	assert.Equal(t, EventScore, sink.events[0].EventName())
	assert.Equal(t, 42, sink.events[0].(ScoreEvent).Points)
}

func TestEventNames(t *testing.T) {
	assert.Equal(t, EventTick, TickEvent{}.EventName())
	assert.Equal(t, EventAfterRender, AfterRenderEvent{}.EventName())
	assert.Equal(t, EventFootstep, FootstepEvent{}.EventName())
	assert.Equal(t, EventTargetCaptured, TargetCapturedEvent{}.EventName())
	assert.Equal(t, EventScore, ScoreEvent{}.EventName())
}
