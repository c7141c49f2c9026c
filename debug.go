package cervus

import (
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-frame timing. Only populated in debug mode.
type debugStats struct {
	ticks      int
	tickTime   time.Duration
	renderTime time.Duration
	entities   int
}

// debugLog writes frame timing at debug level.
func (g *Game) debugLog(stats debugStats) {
	if !g.debug {
		return
	}
	g.log.Debug("frame",
		zap.Int("ticks", stats.ticks),
		zap.Duration("tick_time", stats.tickTime),
		zap.Duration("render_time", stats.renderTime),
		zap.Duration("total", stats.tickTime+stats.renderTime),
		zap.Int("entities", stats.entities),
	)
}

// globalDebug mirrors the most recently set Game debug flag so that entity
// operations (which lack a Game pointer) can check it cheaply. Only valid
// with a single Game.
var (
	globalDebug bool
	debugLogger = zap.NewNop()
)

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(e *Entity) {
	depth := 0
	for p := e; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugLogger.Warn("entity tree too deep",
			zap.String("entity", e.Name), zap.Int("depth", depth), zap.Int("threshold", debugMaxTreeDepth))
	}
}

// debugCheckChildCount warns if an entity has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(e *Entity) {
	if len(e.children) > debugMaxChildCount {
		debugLogger.Warn("entity has too many children",
			zap.String("entity", e.Name), zap.Int("children", len(e.children)), zap.Int("threshold", debugMaxChildCount))
	}
}
