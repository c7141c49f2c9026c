// Package ecs provides ECS adapters for cervus's event bus.
//
// The primary adapter is [NewDonburiSink], which forwards every event emitted
// by a cervus Game (ticks, frames, footsteps, captured targets, scores) into a
// [Donburi] world as typed events. Subscribe to the matching event type in
// your ECS systems to receive them. Scores are also recorded as entities
// carrying [ScoreComponent], so level history can be queried.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	game.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
