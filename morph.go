package cervus

import (
	"fmt"
	"time"
)

// DefaultFrameTime is the number of ticks a morph frame lasts.
const DefaultFrameTime = 16

// Morph cycles through mesh frames, advancing one frame every FrameTime
// ticks. FrameDelta is the weight of the current frame in the blend with the
// next one: 1 right after a frame switch, falling towards 0.
type Morph struct {
	BaseComponent

	Frames    []*Mesh
	FrameTime int

	FrameDelta float64

	tick    int
	current int
	next    int
}

// NewMorph creates a morph over frames. A non-positive frameTime means
// DefaultFrameTime. Every frame must have the same vertex count.
func NewMorph(frameTime int, frames ...*Mesh) *Morph {
	if frameTime <= 0 {
		frameTime = DefaultFrameTime
	}
	for i, f := range frames {
		if f.VertexCount() != frames[0].VertexCount() {
			panic(fmt.Sprintf("cervus: morph frame %d has %d vertices, frame 0 has %d",
				i, f.VertexCount(), frames[0].VertexCount()))
		}
	}
	m := &Morph{Frames: frames, FrameTime: frameTime, FrameDelta: 1}
	if len(frames) > 0 {
		m.next = 1 % len(frames)
	}
	return m
}

// Capability implements Component.
func (m *Morph) Capability() Capability { return CapMorph }

// Update advances the morph by one tick.
func (m *Morph) Update(time.Duration) error {
	if len(m.Frames) == 0 {
		return nil
	}
	m.tick++
	phase := m.tick % m.FrameTime
	m.FrameDelta = 1 - float64(phase)/float64(m.FrameTime)
	if phase == 0 {
		m.current = m.next
		m.next = (m.current + 1) % len(m.Frames)
	}
	return nil
}

// CurrentIndex returns the index of the current frame.
func (m *Morph) CurrentIndex() int { return m.current }

// NextIndex returns the index of the frame being blended towards.
func (m *Morph) NextIndex() int { return m.next }

// Current returns the current frame.
func (m *Morph) Current() *Mesh { return m.Frames[m.current] }

// Next returns the frame being blended towards.
func (m *Morph) Next() *Mesh { return m.Frames[m.next] }

// Vertices blends the current and next frames by FrameDelta.
func (m *Morph) Vertices() []float32 {
	cur, next := m.Current().Vertices, m.Next().Vertices
	w := float32(m.FrameDelta)
	out := make([]float32, len(cur))
	for i := range cur {
		out[i] = cur[i]*w + next[i]*(1-w)
	}
	return out
}
