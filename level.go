package cervus

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Level is one round of the game: a seeded world of props, a target pose
// captured from a random viewpoint, and a play phase in which the player
// walks around looking for it while the world's tint hints at the distance.
//
// A level's lifecycle is NewLevel, CaptureTarget (the game renders one frame
// and stops), Start, End.
type Level struct {
	Number int
	// Hue is the level's base hue in [0, 1].
	Hue float64

	cfg  LevelConfig
	game *Game
	rnd  *Random

	floor    *Entity
	props    []*Entity
	spawners []mgl64.Vec3
	target   *Target
	subs     []Subscription
}

// GameConfig adapts base for playing levels: the far plane reaches the edge
// of the world and the sky is light grey.
func (c LevelConfig) GameConfig(base Config) Config {
	base.Far = c.WorldSize
	base.ClearColor = "#eeeeee"
	base.Level = c
	return base
}

// NewLevel populates g with the world of level number: a floor, number²+1
// groups of buildings or trees, a camera placed somewhere within a third of
// the world size looking near a random prop, and 2 to 4 hidden flock
// spawners. The same number always builds the same world.
func NewLevel(g *Game, cfg LevelConfig, number int) (*Level, error) {
	if number < 1 {
		return nil, eris.Wrapf(ErrInvalidConfig, "level number %d must be at least 1", number)
	}
	l := &Level{
		Number: number,
		cfg:    cfg,
		game:   g,
		rnd:    NewLevelRandom(number),
	}
	l.Hue = l.rnd.Float(0, 1)
	color := l.tint(cfg.Luminance)

	l.floor = NewPlane("floor")
	l.floor.Transform().SetScale(mgl64.Vec3{cfg.WorldSize, 1, cfg.WorldSize})
	l.floor.Renderable().Color = color
	g.Add(l.floor)

	for i := range number*number + 1 {
		for _, prop := range l.element(i, color, l.rnd.Integer(0, 2)) {
			l.props = append(l.props, prop)
			g.Add(prop)
		}
	}

	l.placeCamera()

	for range l.rnd.Integer(2, 4) {
		l.spawners = append(l.spawners, l.rnd.Position(mgl64.Vec2{}, cfg.WorldSize/3, -3))
	}

	g.log.Info("level created",
		zap.Int("level", number), zap.Float64("hue", l.Hue),
		zap.Int("props", len(l.props)), zap.Int("spawners", len(l.spawners)))
	return l, nil
}

// Props returns the generated buildings and trees.
func (l *Level) Props() []*Entity { return l.props }

// Spawners returns the flock positions not yet triggered.
func (l *Level) Spawners() []mgl64.Vec3 { return slices.Clone(l.spawners) }

// Target returns the captured target, or nil before capture.
func (l *Level) Target() *Target { return l.target }

func (l *Level) tint(luminance float64) Color {
	return HSL(l.Hue, l.cfg.Saturation, luminance)
}

// placeCamera installs the level's camera controls, with both inputs off, and
// puts the camera at a random spot facing roughly towards a random prop.
func (l *Level) placeCamera() {
	cam := l.game.Camera()
	move := NewMove(MoveConfig{MoveSpeed: l.cfg.MoveSpeed, RotateSpeed: l.cfg.RotateSpeed})
	if !l.cfg.VerticalFlight {
		move.Unbind(KeyE, KeyQ)
	}
	cam.AddComponent(move)

	t := cam.Transform()
	t.SetPosition(l.rnd.Position(mgl64.Vec2{}, l.cfg.WorldSize/3, 1.5))
	if len(l.props) > 0 {
		t.LookAt(ElementOf(l.rnd, l.props).Transform().Position())
	}
	t.LookAt(l.rnd.LookAround(t.Matrix()))
}

// element builds the props of group i: up to two boxy buildings (kinds 0 and
// 1), a tree (kind 2) or a flock spawner marker (kind 3). Groups alternate
// sides of the Z axis and spread out in X with i.
func (l *Level) element(i int, color Color, kind int) []*Entity {
	sign := math.Cos(float64(i) * math.Pi)
	x := 75 + 100*math.Sin(float64(i)*math.Pi/6)
	z := sign * 20 * float64(i)

	var out []*Entity
	switch kind {
	case 0, 1:
		for range l.rnd.Integer(0, 2) {
			sy := float64(l.rnd.Integer(5, 80))
			sx := float64(l.rnd.Integer(5, 80))
			b := NewBox("building")
			b.Renderable().Color = color
			pos := mgl64.Vec3{sign*x + sx, sy / 2, z}
			b.Transform().Set(pos, mgl64.QuatIdent(), mgl64.Vec3{sx, sy, float64(l.rnd.Integer(5, 80))})
			out = append(out, b)
		}
	case 2:
		trunk := NewBox("trunk")
		ty := float64(l.rnd.Integer(12, 17))
		trunk.Transform().Set(mgl64.Vec3{sign * x, ty / 2, z}, mgl64.QuatIdent(), mgl64.Vec3{1, ty, 1})
		trunk.Renderable().Color = color
		crown := NewSphere("crown")
		cs := float64(l.rnd.Integer(2, 7))
		crown.Transform().Set(mgl64.Vec3{sign * x, ty, z}, mgl64.QuatIdent(), mgl64.Vec3{cs, cs, cs})
		crown.Renderable().Color = color
		out = append(out, trunk, crown)
	case 3:
		spawner := NewBox("spawner")
		spawner.Renderable().Color = ColorBlack
		spawner.Transform().SetPosition(mgl64.Vec3{0, 1, 0})
		out = append(out, spawner)
	}
	return out
}

// CaptureTarget records the camera pose after the next rendered frame,
// together with snapshot() taken at that moment, emits TargetCapturedEvent
// and stops the game. snapshot may be nil for headless play.
func (l *Level) CaptureTarget(snapshot func() []byte) {
	l.game.Events().Once(EventAfterRender, func(Event) {
		var img []byte
		if snapshot != nil {
			img = snapshot()
		}
		l.target = NewTarget(PoseOf(l.game.Camera().Transform()), img)
		l.game.log.Info("target captured",
			zap.Stringer("id", l.target.ID), zap.Int("level", l.Number), zap.Int("snapshot_bytes", len(img)))
		l.game.Emit(TargetCapturedEvent{Target: l.target})
		l.game.Stop()
	})
}

// Start begins the search for target: the camera returns to the origin at
// player height facing +Z, the controls come on, footsteps are counted from
// there, the world turns black and the game starts. While playing, walking near a spawner releases a flock
// tinted by the current hint, and after every frame the whole world is
// tinted by it.
func (l *Level) Start(target *Target) {
	if target == nil {
		panic("cervus: Level.Start needs a target")
	}
	g := l.game
	l.target = target
	cam := g.Camera()

	cam.Transform().Set(mgl64.Vec3{0, l.cfg.PlayerHeight, 0}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1})
	move := mustHave(cam, CapMove, "Level").(*Move)
	move.KeyboardControlled = true
	move.MouseControlled = true
	cam.AddComponent(NewLookAtTarget(target.Pose.Position))
	cam.AddComponent(NewFootsteps(l.cfg.Stride))

	for _, e := range g.Entities() {
		if r := e.Renderable(); r != nil {
			r.Color = ColorBlack
		}
	}

	g.Start()
	l.subs = append(l.subs,
		g.On(EventTick, func(Event) { l.checkSpawners() }),
		g.On(EventAfterRender, func(Event) { l.tintWorld() }),
	)
	g.log.Info("level started", zap.Int("level", l.Number), zap.Stringer("target", target.ID))
}

// Hint returns the current hint for the camera's pose, or 0 without a target.
func (l *Level) Hint() float64 {
	if l.target == nil {
		return 0
	}
	cam := l.game.Camera()
	toTarget := cam.Transform().Rotation()
	if tracker := cam.LookAt(); tracker != nil {
		toTarget = tracker.Rotation()
	}
	return Hint(l.target.Pose, PoseOf(cam.Transform()), toTarget, l.cfg.WorldSize)
}

// checkSpawners releases at most one flock per tick, from the first spawner
// within trigger distance of the camera.
func (l *Level) checkSpawners() {
	pos := l.game.Camera().Transform().Position()
	for i, s := range l.spawners {
		if s.Sub(pos).Len() >= l.cfg.BirdTriggerDistance {
			continue
		}
		SpawnFlock(l.game, l.rnd, FlockOptions{
			Origin: s,
			Color:  l.tint(l.cfg.Luminance * l.Hint()),
			Radius: l.cfg.WorldSize / 5,
			Size:   l.cfg.FlockSize,
		})
		l.spawners = slices.Delete(l.spawners, i, i+1)
		return
	}
}

func (l *Level) tintWorld() {
	c := l.tint(l.cfg.Luminance * l.Hint())
	for _, e := range l.game.Entities() {
		if r := e.Renderable(); r != nil {
			r.Color = c
		}
	}
}

// End stops the game, detaches the level's hooks and returns the score in
// whole percent, emitting ScoreEvent. Without a target the score is 0.
func (l *Level) End() int {
	l.game.Stop()
	for _, s := range l.subs {
		s.Cancel()
	}
	l.subs = nil
	if l.target == nil {
		return 0
	}

	score := Score(l.target.Pose, PoseOf(l.game.Camera().Transform()), l.cfg.WorldSize)
	points := int(math.Floor(score * 100))
	l.game.Emit(ScoreEvent{Level: l.Number, Target: l.target, Score: score, Points: points})
	l.game.log.Info("level ended", zap.Int("level", l.Number), zap.Float64("score", score), zap.Int("points", points))
	return points
}
