package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/san-kum/gravwell/internal/engine"
	"github.com/san-kum/gravwell/internal/vecmath"
	"gopkg.in/yaml.v3"
)

type ActionType string

const (
	ActionClick        ActionType = "click"
	ActionRightClick   ActionType = "right_click"
	ActionSpawn        ActionType = "spawn"
	ActionSpawnRepel   ActionType = "spawn_repel"
	ActionClear        ActionType = "clear"
	ActionToggleTrails ActionType = "toggle_trails"
	ActionTogglePause  ActionType = "toggle_pause"
	ActionReset        ActionType = "reset"
	ActionResize       ActionType = "resize"
	ActionParticles    ActionType = "particles"
)

// Scenario is a scripted run: a fixed number of ticks with actions fired
// before the tick they name.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Ticks       int      `yaml:"ticks"`
	Dt          float64  `yaml:"dt"`
	Actions     []Action `yaml:"actions"`
}

type Action struct {
	Tick   int        `yaml:"tick"`
	Type   ActionType `yaml:"action"`
	X      float64    `yaml:"x,omitempty"`
	Y      float64    `yaml:"y,omitempty"`
	Width  float64    `yaml:"width,omitempty"`
	Height float64    `yaml:"height,omitempty"`
	Count  int        `yaml:"count,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	sc.sortActions()
	return &sc, nil
}

func (s *Scenario) Validate() error {
	if s.Ticks < 0 {
		return fmt.Errorf("scenario %q: negative tick count", s.Name)
	}
	if s.Dt < 0 {
		return fmt.Errorf("scenario %q: negative dt", s.Name)
	}
	for i, a := range s.Actions {
		if a.Tick < 0 {
			return fmt.Errorf("scenario %q: action %d: negative tick", s.Name, i)
		}
		switch a.Type {
		case ActionClick, ActionRightClick, ActionSpawn, ActionSpawnRepel,
			ActionClear, ActionToggleTrails, ActionTogglePause, ActionReset:
		case ActionResize:
			if err := (vecmath.Bounds{Width: a.Width, Height: a.Height}).Validate(); err != nil {
				return fmt.Errorf("scenario %q: action %d: %w", s.Name, i, err)
			}
		case ActionParticles:
			if a.Count <= 0 {
				return fmt.Errorf("scenario %q: action %d: particle count must be positive", s.Name, i)
			}
		default:
			return fmt.Errorf("scenario %q: action %d: unknown action %q", s.Name, i, a.Type)
		}
	}
	return nil
}

func (s *Scenario) sortActions() {
	sort.SliceStable(s.Actions, func(i, j int) bool { return s.Actions[i].Tick < s.Actions[j].Tick })
}

// FrameTime is the per-tick dt, defaulting to 60 Hz.
func (s *Scenario) FrameTime() time.Duration {
	if s.Dt <= 0 {
		return time.Second / 60
	}
	return time.Duration(s.Dt * float64(time.Second))
}

// Apply performs a single action against e.
func Apply(e *engine.Engine, a Action) error {
	pos := vecmath.Vec2{X: a.X, Y: a.Y}
	switch a.Type {
	case ActionClick:
		e.HandleMouseInteraction(engine.Interaction{Position: pos, Button: engine.ButtonLeft})
	case ActionRightClick:
		e.HandleMouseInteraction(engine.Interaction{Position: pos, Button: engine.ButtonRight})
	case ActionSpawn:
		e.SpawnWell(pos, false)
	case ActionSpawnRepel:
		e.SpawnWell(pos, true)
	case ActionClear:
		e.ClearGravityWells()
	case ActionToggleTrails:
		e.ToggleTrails()
	case ActionTogglePause:
		e.TogglePause()
	case ActionReset:
		e.Reset()
	case ActionResize:
		return e.UpdateCanvasBounds(vecmath.Bounds{Width: a.Width, Height: a.Height})
	case ActionParticles:
		n := a.Count
		e.UpdateConfig(engine.Patch{ParticleCount: &n})
	default:
		return fmt.Errorf("unknown action %q", a.Type)
	}
	return nil
}

// TickFunc is called after every tick with the number of ticks completed.
type TickFunc func(tick int, e *engine.Engine)

// Run replays s against e. Ticks while the engine is paused still count.
func Run(ctx context.Context, e *engine.Engine, s *Scenario, log *slog.Logger, onTick TickFunc) error {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	dt := s.FrameTime()
	next := 0
	for tick := 0; tick < s.Ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for next < len(s.Actions) && s.Actions[next].Tick <= tick {
			a := s.Actions[next]
			if err := Apply(e, a); err != nil {
				return fmt.Errorf("tick %d: %s: %w", tick, a.Type, err)
			}
			log.Debug("action applied", "tick", tick, "action", a.Type)
			next++
		}
		e.Update(dt)
		if onTick != nil {
			onTick(tick+1, e)
		}
	}
	return nil
}
