package ecs

import (
	"cmp"
	"slices"

	"github.com/phanxgames/cervus"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// Donburi event types for cervus events. Subscribe to these in your ECS
// systems; events are queued until ProcessEvents runs.
var (
	TickEventType           = events.NewEventType[cervus.TickEvent]()
	AfterRenderEventType    = events.NewEventType[cervus.AfterRenderEvent]()
	FootstepEventType       = events.NewEventType[cervus.FootstepEvent]()
	TargetCapturedEventType = events.NewEventType[cervus.TargetCapturedEvent]()
	ScoreEventType          = events.NewEventType[cervus.ScoreEvent]()
)

// ScoreRecord is one finished level.
type ScoreRecord struct {
	// Ended numbers the records in the order their levels ended, from 1.
	Ended int
	// Level is the level number, or Ended when the event carried none.
	Level  int
	Points int
	Score  float64
	// Fingerprint identifies the target image the score was earned on.
	Fingerprint uint64
}

// ScoreComponent holds a ScoreRecord on entities created by the sink.
var ScoreComponent = donburi.NewComponentType[ScoreRecord]()

type donburiSink struct {
	world donburi.World
	ended int
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
func NewDonburiSink(world donburi.World) cervus.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event cervus.Event) {
	switch e := event.(type) {
	case cervus.TickEvent:
		TickEventType.Publish(s.world, e)
	case cervus.AfterRenderEvent:
		AfterRenderEventType.Publish(s.world, e)
	case cervus.FootstepEvent:
		FootstepEventType.Publish(s.world, e)
	case cervus.TargetCapturedEvent:
		TargetCapturedEventType.Publish(s.world, e)
	case cervus.ScoreEvent:
		s.ended++
		s.record(e)
		ScoreEventType.Publish(s.world, e)
	}
}

func (s *donburiSink) record(e cervus.ScoreEvent) {
	rec := ScoreRecord{Ended: s.ended, Level: e.Level, Points: e.Points, Score: e.Score}
	if rec.Level == 0 {
		rec.Level = s.ended
	}
	if e.Target != nil {
		rec.Fingerprint = e.Target.Fingerprint
	}
	entity := s.world.Create(ScoreComponent)
	ScoreComponent.SetValue(s.world.Entry(entity), rec)
}

// Scores returns every recorded score in the order the levels ended.
func Scores(world donburi.World) []ScoreRecord {
	var out []ScoreRecord
	donburi.NewQuery(filter.Contains(ScoreComponent)).Each(world, func(entry *donburi.Entry) {
		out = append(out, *ScoreComponent.Get(entry))
	})
	slices.SortFunc(out, func(a, b ScoreRecord) int { return cmp.Compare(a.Ended, b.Ended) })
	return out
}
