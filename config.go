package cervus

import (
	"errors"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config configures a Game. The zero value is not usable; start from
// DefaultConfig or LoadConfig.
type Config struct {
	// TPS is the number of simulation ticks per second.
	TPS int `yaml:"tps"`
	// TickDelta overrides the tick duration derived from TPS when non-zero.
	TickDelta time.Duration `yaml:"tick_delta,omitempty"`

	// Width and Height are the viewport size used for the projection aspect.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// FOV is the vertical field of view in degrees.
	FOV  float64 `yaml:"fov"`
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
	// ClearColor is a hex color ("#eeeeee").
	ClearColor string `yaml:"clear_color"`
	// LightPosition and LightIntensity drive the renderer's diffuse term.
	LightPosition  [3]float64 `yaml:"light_position,flow"`
	LightIntensity float64    `yaml:"light_intensity"`

	// Debug enables per-frame timing logs and scene-graph sanity warnings.
	Debug bool `yaml:"debug"`

	Move  MoveConfig  `yaml:"move"`
	Level LevelConfig `yaml:"level"`

	// Logger receives engine logs. Nil means zap.NewNop().
	Logger *zap.Logger `yaml:"-"`
	// Clock measures frame times. Nil means SystemClock.
	Clock Clock `yaml:"-"`
}

// MoveConfig configures a Move component.
type MoveConfig struct {
	KeyboardControlled bool    `yaml:"keyboard_controlled"`
	MouseControlled    bool    `yaml:"mouse_controlled"`
	MoveSpeed          float64 `yaml:"move_speed"`
	RotateSpeed        float64 `yaml:"rotate_speed"`
	// Bindings maps key codes to direction labels. Loaded bindings merge over
	// the defaults; bind a key to "-" to drop it.
	Bindings map[KeyCode]Direction `yaml:"bindings"`
}

// LevelConfig holds the tuning constants of a level.
type LevelConfig struct {
	WorldSize           float64 `yaml:"world_size"`
	PlayerHeight        float64 `yaml:"player_height"`
	BirdTriggerDistance float64 `yaml:"bird_trigger_distance"`
	FlockSize           int     `yaml:"flock_size"`
	Saturation          float64 `yaml:"saturation"`
	Luminance           float64 `yaml:"luminance"`
	MoveSpeed           float64 `yaml:"move_speed"`
	RotateSpeed         float64 `yaml:"rotate_speed"`
	// Stride is the distance walked between two footstep events.
	Stride float64 `yaml:"stride"`
	// VerticalFlight keeps the up/down bindings while playing.
	VerticalFlight bool `yaml:"vertical_flight"`
}

// DefaultConfig returns the stock configuration: 60 TPS, 800x600, 60° FOV.
func DefaultConfig() Config {
	return Config{
		TPS:            60,
		Width:          800,
		Height:         600,
		FOV:            60,
		Near:           0.35,
		Far:            85,
		ClearColor:     "#ffffff",
		LightIntensity: 0.6,
		Move:           DefaultMoveConfig(),
		Level:          DefaultLevelConfig(),
	}
}

// DefaultMoveConfig returns the stock Move settings, with both controls off.
func DefaultMoveConfig() MoveConfig {
	return MoveConfig{
		MoveSpeed:   3.5,
		RotateSpeed: 0.5,
		Bindings:    DefaultBindings(),
	}
}

// DefaultLevelConfig returns the stock level constants.
func DefaultLevelConfig() LevelConfig {
	return LevelConfig{
		WorldSize:           1000,
		PlayerHeight:        1.74,
		BirdTriggerDistance: 25,
		FlockSize:           25,
		Saturation:          0.7,
		Luminance:           0.6,
		MoveSpeed:           25,
		RotateSpeed:         0.5,
		Stride:              DefaultStride,
	}
}

// LoadConfig decodes YAML from r over DefaultConfig and validates the result.
// An empty document yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, eris.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// TickDuration returns the fixed simulation step.
func (c Config) TickDuration() time.Duration {
	if c.TickDelta > 0 {
		return c.TickDelta
	}
	if c.TPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.TPS)
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.TickDuration() <= 0:
		return eris.Wrap(ErrInvalidConfig, "tps or tick_delta must be positive")
	case c.Width <= 0 || c.Height <= 0:
		return eris.Wrapf(ErrInvalidConfig, "viewport %dx%d must be positive", c.Width, c.Height)
	case c.FOV <= 0 || c.FOV >= 180:
		return eris.Wrapf(ErrInvalidConfig, "fov %g must be in (0, 180)", c.FOV)
	case c.Near <= 0 || c.Far <= c.Near:
		return eris.Wrapf(ErrInvalidConfig, "clip planes near=%g far=%g", c.Near, c.Far)
	case c.Move.MoveSpeed < 0 || c.Move.RotateSpeed < 0:
		return eris.Wrap(ErrInvalidConfig, "move speeds must not be negative")
	case c.LightIntensity < 0 || c.LightIntensity > 1:
		return eris.Wrapf(ErrInvalidConfig, "light_intensity %g must be in [0, 1]", c.LightIntensity)
	case c.Level.WorldSize <= 0:
		return eris.Wrapf(ErrInvalidConfig, "world_size %g must be positive", c.Level.WorldSize)
	}
	if _, err := ParseHexColor(c.ClearColor); err != nil {
		return eris.Wrapf(ErrInvalidConfig, "clear_color %q", c.ClearColor)
	}
	return nil
}
