package cervus

import (
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// scriptStep is a single action of an input script.
type scriptStep struct {
	Action string  `yaml:"action"`
	Key    KeyCode `yaml:"key,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	Ticks  int     `yaml:"ticks,omitempty"`
}

// inputScript is the top-level YAML structure of an input script.
type inputScript struct {
	Steps []scriptStep `yaml:"steps"`
}

var scriptActions = map[string]bool{
	"press":       true,
	"release":     true,
	"release_all": true,
	"look":        true,
	"wait":        true,
}

// ScriptRunner replays scripted input against a Game, one step per tick, for
// automated walkthroughs and tests. Steps:
//
//	press, release  key: <code>    key state changes
//	release_all                    releases every key
//	look            x: <dx> y: <dy> pointer movement for one tick, device axes
//	wait            ticks: <n>     idles n ticks, this one included
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	sub       Subscription
}

// LoadInputScript parses a YAML input script and returns a ScriptRunner ready
// to be attached to a Game.
func LoadInputScript(data []byte) (*ScriptRunner, error) {
	var script inputScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, eris.Wrap(err, "parse input script")
	}
	if len(script.Steps) == 0 {
		return nil, ErrNoSteps
	}
	for i, st := range script.Steps {
		if !scriptActions[st.Action] {
			return nil, eris.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// Attach starts replaying on g's tick events. A runner drives one game at a
// time; attaching again moves it.
func (r *ScriptRunner) Attach(g *Game) {
	r.sub.Cancel()
	r.sub = g.On(EventTick, func(Event) { r.step(g) })
}

// Detach stops replaying. Keys pressed by the script stay pressed.
func (r *ScriptRunner) Detach() {
	r.sub.Cancel()
	r.sub = Subscription{}
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

func (r *ScriptRunner) step(g *Game) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		if r.waitCount == 0 && r.cursor >= len(r.steps) {
			r.finish()
		}
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		g.SetKey(st.Key, true)
	case "release":
		g.SetKey(st.Key, false)
	case "release_all":
		g.ReleaseKeys()
	case "look":
		g.InjectPointer(st.X, st.Y)
	case "wait":
		if st.Ticks > 0 {
			r.waitCount = st.Ticks - 1
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.finish()
	}
}

func (r *ScriptRunner) finish() {
	r.done = true
	r.Detach()
}
