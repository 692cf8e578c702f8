package testbed

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/script-runtime/marshal"
)

// Game is the host-side world state the scripts manipulate. It is not
// goroutine safe; the frame loop owns it.
type Game struct {
	logger *zap.Logger

	props      []marshal.Vec3
	player     marshal.Vec3
	camera     marshal.Vec3
	attract    bool
	frames     int
	rendered   int
	commandLog []string
}

func NewGame(logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Game{logger: logger, attract: true}
}

// CreateCube places a new unit cube prop at pos and returns its index.
func (g *Game) CreateCube(pos marshal.Vec3) int {
	g.props = append(g.props, pos)
	g.logger.Debug("cube created",
		zap.Int("index", len(g.props)-1),
		zap.Float32("x", pos.X), zap.Float32("y", pos.Y), zap.Float32("z", pos.Z))
	return len(g.props) - 1
}

// MoveProp repositions the prop at index.
func (g *Game) MoveProp(index int, pos marshal.Vec3) error {
	if index < 0 || index >= len(g.props) {
		return fmt.Errorf("no prop at index %d", index)
	}
	g.props[index] = pos
	return nil
}

// Prop returns the position of the prop at index.
func (g *Game) Prop(index int) (marshal.Vec3, bool) {
	if index < 0 || index >= len(g.props) {
		return marshal.Vec3{}, false
	}
	return g.props[index], true
}

func (g *Game) PropCount() int { return len(g.props) }

func (g *Game) PlayerPosition() marshal.Vec3 { return g.player }

func (g *Game) SetPlayerPosition(pos marshal.Vec3) { g.player = pos }

// MoveCamera points the player camera at target, used for shake effects.
func (g *Game) MoveCamera(target marshal.Vec3) { g.camera = target }

func (g *Game) Camera() marshal.Vec3 { return g.camera }

func (g *Game) AttractMode() bool { return g.attract }

func (g *Game) SetAttractMode(on bool) { g.attract = on }

// State reports the current mode as a state name.
func (g *Game) State() string {
	if g.attract {
		return "attract"
	}
	return "game"
}

// Update advances one simulation frame. gameTime is seconds since boot.
func (g *Game) Update(dt, gameTime float64) { g.frames++ }

// Render records one draw pass.
func (g *Game) Render() { g.rendered++ }

func (g *Game) Frames() int   { return g.frames }
func (g *Game) Rendered() int { return g.rendered }

// RunCommand records a console command. The testbed has no real console;
// commands are logged so tests can assert on them.
func (g *Game) RunCommand(cmd string) string {
	g.commandLog = append(g.commandLog, cmd)
	g.logger.Info("console command", zap.String("cmd", cmd))
	return fmt.Sprintf("executed: %s", cmd)
}

func (g *Game) Commands() []string {
	out := make([]string, len(g.commandLog))
	copy(out, g.commandLog)
	return out
}
