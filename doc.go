// Package cervus is a small entity/component 3D engine core with a fixed-tick
// game loop, built for a find-the-viewpoint game: a level shows the player a
// snapshot taken from a random pose, then the player walks the darkened world
// trying to stand and look exactly there again.
//
// # Quick start
//
// Create a [Game] from a [Config], populate it with a [Level] and hand it to
// a host that polls input and calls [Game.Frame] (see package ebitenhost for
// an Ebitengine window):
//
//	cfg := cervus.DefaultLevelConfig().GameConfig(cervus.DefaultConfig())
//	game, err := cervus.NewGame(cfg)
//	if err != nil {
//		return err
//	}
//	level, err := cervus.NewLevel(game, cfg.Level, 1)
//	if err != nil {
//		return err
//	}
//	level.CaptureTarget(host.Snapshot)
//	game.Start()
//
// # Entities and components
//
// Every object is an [Entity]: a named set of [Component] values, at most
// one per [Capability], plus child entities. Components run in registration
// order and children after their parent, so a child's [Transform] always
// composes with its parent's world matrix of the same tick.
//
//	box := cervus.NewBox("crate")
//	box.Transform().SetPosition(mgl64.Vec3{0, 0.5, 4})
//	game.Add(box)
//
// The engine is right-handed with +Z forward, +Y up and +X to the left.
//
// # Game loop
//
// [Game.Frame] runs as many whole ticks of [Config.TickDuration] as fit into
// the time since the last tick, then renders once. Each tick emits
// [TickEvent], fires due timers (see [Game.After]), updates every entity and
// finally the camera, whose transform yields the view matrix. Pointer
// movement accumulated between frames is split evenly across their ticks.
//
// # Scoring
//
// [Score] blends a position score and a rotation score so that each counts
// only as much as the other allows; [Hint] is the softer signal a level uses
// to tint the world while the player searches.
//
// Logging goes through [go.uber.org/zap] (see [Config.Logger]) and events
// can be mirrored into a donburi ECS world with package ecs.
package cervus
