package testbed

import (
	"fmt"
	"path/filepath"

	"github.com/wippyai/script-runtime/binding"
	"github.com/wippyai/script-runtime/marshal"
	"github.com/wippyai/script-runtime/runtime"
)

// GameBinder exposes a Game and its runtime to scripts as the global "game"
// object. Every method follows the two-value convention: failures come back
// as (nil, message) values, never as raised script errors.
type GameBinder struct {
	game *Game
	rt   *runtime.Runtime
}

func NewGameBinder(game *Game, rt *runtime.Runtime) *GameBinder {
	return &GameBinder{game: game, rt: rt}
}

func (b *GameBinder) Name() string { return "game" }

func (b *GameBinder) Methods() []binding.MethodDescriptor {
	vec := []marshal.TypeTag{marshal.TypeFloat, marshal.TypeFloat, marshal.TypeFloat}
	return []binding.MethodDescriptor{
		{Name: "createCube", Description: "create a cube at a position", Params: vec, Returns: marshal.TypeString},
		{Name: "moveProp", Description: "move the prop at an index to a new position", Params: append([]marshal.TypeTag{marshal.TypeInt}, vec...), Returns: marshal.TypeString},
		{Name: "getPlayerPosition", Description: "current player position", Returns: marshal.TypeObject},
		{Name: "movePlayerCamera", Description: "move the player camera, used for shake", Params: vec, Returns: marshal.TypeString},
		{Name: "update", Description: "script game loop update", Params: []marshal.TypeTag{marshal.TypeFloat, marshal.TypeFloat}, Returns: marshal.TypeVoid},
		{Name: "render", Description: "script game loop render", Returns: marshal.TypeVoid},
		{Name: "executeCommand", Description: "run a console command", Params: []marshal.TypeTag{marshal.TypeString}, Returns: marshal.TypeString},
		{Name: "executeFile", Description: "execute another script file", Params: []marshal.TypeTag{marshal.TypeString}, Returns: marshal.TypeString},
		{Name: "isAttractMode", Description: "whether attract mode is on", Returns: marshal.TypeBool},
		{Name: "getGameState", Description: "current game state name", Returns: marshal.TypeString},
		{Name: "getFileTimestamp", Description: "mtime of a watched file, unix seconds", Params: []marshal.TypeTag{marshal.TypeString}, Returns: marshal.TypeNumber},
		{Name: "enableHotReload", Description: "watch a directory for script changes", Params: []marshal.TypeTag{marshal.TypeString}, Returns: marshal.TypeBool},
		{Name: "disableHotReload", Description: "stop watching for changes", Returns: marshal.TypeBool},
		{Name: "isHotReloadEnabled", Description: "whether hot reload is active", Returns: marshal.TypeBool},
		{Name: "addWatchedFile", Description: "add a file to the watch list", Params: []marshal.TypeTag{marshal.TypeString}, Returns: marshal.TypeBool},
		{Name: "removeWatchedFile", Description: "remove a file from the watch list", Params: []marshal.TypeTag{marshal.TypeString}, Returns: marshal.TypeBool},
		{Name: "getWatchedFiles", Description: "watch list in insertion order", Returns: marshal.TypeObject},
		{Name: "reloadScript", Description: "reload a script immediately", Params: []marshal.TypeTag{marshal.TypeString}, Returns: marshal.TypeBool},
	}
}

func (b *GameBinder) Properties() []string {
	return []string{"attractMode", "gameState"}
}

func (b *GameBinder) Call(method string, args []any) binding.CallResult {
	switch method {
	case "createCube":
		if err := binding.ValidateArgCount(args, 3, method); err != nil {
			return binding.FailureErr(err)
		}
		pos, err := marshal.ToVec3(args, 0)
		if err != nil {
			return binding.FailureErr(err)
		}
		index := b.game.CreateCube(pos)
		return binding.Success(fmt.Sprintf("cube %d created at (%g, %g, %g)", index, pos.X, pos.Y, pos.Z))

	case "moveProp":
		if err := binding.ValidateArgCount(args, 4, method); err != nil {
			return binding.FailureErr(err)
		}
		index, err := marshal.ToInt(args[0])
		if err != nil {
			return binding.FailureErr(err)
		}
		pos, err := marshal.ToVec3(args, 1)
		if err != nil {
			return binding.FailureErr(err)
		}
		if moveErr := b.game.MoveProp(index, pos); moveErr != nil {
			return binding.Failuref("%v", moveErr)
		}
		return binding.Success(fmt.Sprintf("prop %d moved to (%g, %g, %g)", index, pos.X, pos.Y, pos.Z))

	case "getPlayerPosition":
		return binding.Success(b.game.PlayerPosition())

	case "movePlayerCamera":
		if err := binding.ValidateArgCount(args, 3, method); err != nil {
			return binding.FailureErr(err)
		}
		target, err := marshal.ToVec3(args, 0)
		if err != nil {
			return binding.FailureErr(err)
		}
		b.game.MoveCamera(target)
		return binding.Success(fmt.Sprintf("camera moved to (%g, %g, %g)", target.X, target.Y, target.Z))

	case "update":
		if err := binding.ValidateArgCount(args, 2, method); err != nil {
			return binding.FailureErr(err)
		}
		dt, err := marshal.ToFloat64(args[0])
		if err != nil {
			return binding.FailureErr(err)
		}
		gameTime, err := marshal.ToFloat64(args[1])
		if err != nil {
			return binding.FailureErr(err)
		}
		b.game.Update(dt, gameTime)
		return binding.Success(nil)

	case "render":
		b.game.Render()
		return binding.Success(nil)

	case "executeCommand":
		if err := binding.ValidateArgCount(args, 1, method); err != nil {
			return binding.FailureErr(err)
		}
		cmd, err := marshal.ToString(args[0])
		if err != nil {
			return binding.FailureErr(err)
		}
		return binding.Success(b.game.RunCommand(cmd))

	case "executeFile":
		if err := binding.ValidateArgCount(args, 1, method); err != nil {
			return binding.FailureErr(err)
		}
		path, err := marshal.ToString(args[0])
		if err != nil {
			return binding.FailureErr(err)
		}
		if execErr := b.rt.ExecuteFile(path); execErr != nil {
			return binding.Failuref("%v", execErr)
		}
		return binding.Success(fmt.Sprintf("executed: %s", path))

	case "isAttractMode":
		return binding.Success(b.game.AttractMode())

	case "getGameState":
		return binding.Success(b.game.State())

	case "getFileTimestamp":
		if err := binding.ValidateArgCount(args, 1, method); err != nil {
			return binding.FailureErr(err)
		}
		rel, err := marshal.ToString(args[0])
		if err != nil {
			return binding.FailureErr(err)
		}
		ts, tsErr := b.rt.FileTimestamp(rel)
		if tsErr != nil {
			return binding.Failuref("%v", tsErr)
		}
		return binding.Success(float64(ts.Unix()))

	case "enableHotReload":
		if err := binding.ValidateArgCount(args, 1, method); err != nil {
			return binding.FailureErr(err)
		}
		root, err := marshal.ToString(args[0])
		if err != nil {
			return binding.FailureErr(err)
		}
		if enableErr := b.rt.EnableHotReload(root); enableErr != nil {
			return binding.Failuref("%v", enableErr)
		}
		return binding.Success(true)

	case "disableHotReload":
		b.rt.DisableHotReload()
		return binding.Success(true)

	case "isHotReloadEnabled":
		return binding.Success(b.rt.HotReloadEnabled())

	case "addWatchedFile", "removeWatchedFile":
		if err := binding.ValidateArgCount(args, 1, method); err != nil {
			return binding.FailureErr(err)
		}
		rel, err := marshal.ToString(args[0])
		if err != nil {
			return binding.FailureErr(err)
		}
		if method == "addWatchedFile" {
			b.rt.AddWatchedFile(filepath.Clean(rel))
		} else {
			b.rt.RemoveWatchedFile(filepath.Clean(rel))
		}
		return binding.Success(true)

	case "getWatchedFiles":
		files := b.rt.WatchedFiles()
		out := make([]any, len(files))
		for i, f := range files {
			out[i] = f
		}
		return binding.Success(out)

	case "reloadScript":
		if err := binding.ValidateArgCount(args, 1, method); err != nil {
			return binding.FailureErr(err)
		}
		rel, err := marshal.ToString(args[0])
		if err != nil {
			return binding.FailureErr(err)
		}
		if !b.rt.ReloadScript(rel) {
			return binding.Failuref("reload failed for %s", rel)
		}
		return binding.Success(true)

	default:
		return binding.Failuref("unknown method: %s", method)
	}
}

func (b *GameBinder) Property(name string) (any, bool) {
	switch name {
	case "attractMode":
		return b.game.AttractMode(), true
	case "gameState":
		return b.game.State(), true
	default:
		return nil, false
	}
}

// SetProperty always refuses: the game object has no script-writable
// properties.
func (b *GameBinder) SetProperty(string, any) bool { return false }
