package cervus

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFootstepsEmitsPerStride(t *testing.T) {
	g := newTestGame(t)
	steps := NewFootsteps(0)
	walker := NewEntity("walker", NewTransform(), steps)
	g.Add(walker)

	var events []FootstepEvent
	g.On(EventFootstep, func(e Event) { events = append(events, e.(FootstepEvent)) })

	for _, z := range []float64{0, 10, 20} {
		walker.Transform().SetPosition(mgl64.Vec3{0, 0, z})
		require.NoError(t, walker.Update(time.Millisecond))
	}

	require.Len(t, events, 1)
	assert.Same(t, walker, events[0].Entity)
	assert.Equal(t, mgl64.Vec3{0, 0, 20}, events[0].Position)
	assert.InDelta(t, 5, steps.Traveled(), 1e-9)
}

func TestFootstepsFirstUpdatePrimes(t *testing.T) {
	steps := NewFootsteps(1)
	walker := NewEntity("walker", NewTransform(), steps)
	walker.Transform().SetPosition(mgl64.Vec3{100, 0, 0})
	require.NoError(t, walker.Update(time.Millisecond))
	assert.Zero(t, steps.Traveled())
}

func TestFootstepsWithoutGame(t *testing.T) {
	steps := NewFootsteps(2)
	walker := NewEntity("walker", NewTransform(), steps)
	require.NoError(t, walker.Update(time.Millisecond))
	walker.Transform().SetPosition(mgl64.Vec3{3, 0, 0})
	require.NoError(t, walker.Update(time.Millisecond))
	assert.InDelta(t, 1, steps.Traveled(), 1e-9)
	assert.Equal(t, 2.0, steps.Stride)
}
