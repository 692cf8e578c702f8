package testbed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wippyai/script-runtime/marshal"
	"github.com/wippyai/script-runtime/runtime"
)

func newTestbed(t *testing.T, opts ...runtime.Option) (*Game, *runtime.Runtime) {
	t.Helper()
	rt := runtime.New(opts...)
	t.Cleanup(rt.Close)
	game := NewGame(nil)
	if err := rt.RegisterBinder(NewGameBinder(game, rt)); err != nil {
		t.Fatalf("RegisterBinder: %v", err)
	}
	return game, rt
}

func TestCatalog_WorldManipulation(t *testing.T) {
	game, rt := newTestbed(t)

	err := rt.ExecuteString(`
		local msg = game.createCube(1, 2, 3)
		assert(string.find(msg, "cube 0"), msg)
		game.createCube(0, 0, 0)

		local moved = game.moveProp(1, 4, 5, 6)
		assert(string.find(moved, "prop 1"), moved)

		local ok, err = game.moveProp(9, 0, 0, 0)
		assert(ok == nil)
		assert(string.find(err, "index 9"), err)

		game.movePlayerCamera(7, 8, 9)

		local pos = game.getPlayerPosition()
		assert(pos.x == 0 and pos.y == 0 and pos.z == 0)

		game.update(0.016, 1.5)
		game.render()

		local out = game.executeCommand("noclip")
		assert(string.find(out, "noclip"), out)
	`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}

	if game.PropCount() != 2 {
		t.Fatalf("props = %d", game.PropCount())
	}
	if pos, _ := game.Prop(1); pos.X != 4 || pos.Y != 5 || pos.Z != 6 {
		t.Fatalf("prop 1 = %+v", pos)
	}
	if cam := game.Camera(); cam.X != 7 || cam.Y != 8 || cam.Z != 9 {
		t.Fatalf("camera = %+v", cam)
	}
	if game.Frames() != 1 || game.Rendered() != 1 {
		t.Fatalf("frames=%d rendered=%d", game.Frames(), game.Rendered())
	}
	if cmds := game.Commands(); len(cmds) != 1 || cmds[0] != "noclip" {
		t.Fatalf("commands = %v", cmds)
	}
}

func TestCatalog_ArgumentErrorsAreValues(t *testing.T) {
	_, rt := newTestbed(t)

	err := rt.ExecuteString(`
		local ok, err = game.createCube(1)
		assert(ok == nil)
		assert(string.find(err, "3 arguments"), err)

		local ok2, err2 = game.moveProp("zero", 0, 0, 0)
		assert(ok2 == nil)
		assert(err2 ~= nil)
	`)
	if err != nil {
		t.Fatalf("script raised instead of returning error values: %v", err)
	}
}

func TestCatalog_Properties(t *testing.T) {
	game, rt := newTestbed(t)

	err := rt.ExecuteString(`
		assert(game.isAttractMode() == true)
		assert(game.attractMode == true)
		assert(game.getGameState() == "attract")
		assert(game.gameState == "attract")
	`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}

	game.SetAttractMode(false)
	err = rt.ExecuteString(`
		assert(game.attractMode == false)
		assert(game.gameState == "game")
	`)
	if err != nil {
		t.Fatalf("script failed after mode change: %v", err)
	}

	// Properties are read-only from scripts.
	err = rt.ExecuteString(`game.attractMode = true`)
	if err == nil || !strings.Contains(err.Error(), "read-only") {
		t.Fatalf("property write did not raise: %v", err)
	}
	if game.AttractMode() {
		t.Fatal("script write changed host state")
	}
}

func TestCatalog_ExecuteFile(t *testing.T) {
	game, rt := newTestbed(t)

	dir := t.TempDir()
	helper := filepath.Join(dir, "helper.lua")
	writeScript(t, helper, `game.createCube(1, 1, 1)`)

	err := rt.ExecuteString(`
		local msg = game.executeFile(` + luaString(helper) + `)
		assert(string.find(msg, "helper"), msg)

		local ok, failure = game.executeFile("no/such/file.lua")
		assert(ok == nil)
		assert(failure ~= nil)
	`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	if game.PropCount() != 1 {
		t.Fatal("helper script did not run")
	}
}

// Scripts drive the whole hot reload lifecycle through the binder, and a
// changed update() takes effect at the next frame after the drain.
func TestHotReload_ScriptControlled(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "game.lua")
	writeScript(t, script, `
		function update(dt, gameTime)
			game.moveProp(0, 1, 0, 0)
		end
	`)

	fake := clockwork.NewFakeClock()
	game, rt := newTestbed(t,
		runtime.WithClock(fake),
		runtime.WithPollInterval(100*time.Millisecond))

	game.CreateCube(marshal.Vec3{})
	if err := rt.ExecuteFile(script); err != nil {
		t.Fatalf("ExecuteFile: %v", err)
	}

	err := rt.ExecuteString(`
		assert(game.isHotReloadEnabled() == false)
		assert(game.enableHotReload(` + luaString(dir) + `))
		assert(game.isHotReloadEnabled() == true)
		assert(game.addWatchedFile("game.lua"))

		local files = game.getWatchedFiles()
		assert(#files == 1 and files[1] == "game.lua")

		local ts, err = game.getFileTimestamp("game.lua")
		assert(ts ~= nil and ts > 0, err)
	`)
	if err != nil {
		t.Fatalf("enable script failed: %v", err)
	}

	frame := func() {
		rt.ProcessPendingEvents()
		if _, err := rt.CallFunction("update", 0.016, 1.0); err != nil {
			t.Fatalf("update: %v", err)
		}
	}

	frame()
	if pos, _ := game.Prop(0); pos.X != 1 {
		t.Fatalf("prop after frame 1 = %+v", pos)
	}

	writeScript(t, script, `
		function update(dt, gameTime)
			game.moveProp(0, 2, 0, 0)
		end
	`)
	touchForward(t, script)
	fake.BlockUntil(1)
	fake.Advance(100 * time.Millisecond)
	waitForPending(t, rt)

	frame()
	if pos, _ := game.Prop(0); pos.X != 2 {
		t.Fatalf("prop after reload = %+v", pos)
	}

	err = rt.ExecuteString(`
		assert(game.reloadScript("game.lua"))
		assert(game.disableHotReload())
		assert(game.isHotReloadEnabled() == false)
	`)
	if err != nil {
		t.Fatalf("disable script failed: %v", err)
	}
}

// A broken replacement leaves the old update() in effect and reports the
// failure through the completion callback.
func TestHotReload_BrokenScriptKeepsOldBehavior(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "game.lua")
	writeScript(t, script, `
		function update(dt, gameTime)
			game.moveProp(0, 1, 0, 0)
		end
	`)

	fake := clockwork.NewFakeClock()
	game, rt := newTestbed(t,
		runtime.WithClock(fake),
		runtime.WithPollInterval(100*time.Millisecond))

	game.CreateCube(marshal.Vec3{})
	if err := rt.ExecuteFile(script); err != nil {
		t.Fatalf("ExecuteFile: %v", err)
	}

	var failMsg string
	rt.SetReloadCompleteCallback(func(ok bool, msg string) {
		if !ok {
			failMsg = msg
		}
	})
	if err := rt.EnableHotReload(dir, "game.lua"); err != nil {
		t.Fatalf("EnableHotReload: %v", err)
	}

	writeScript(t, script, `function update( this is not lua`)
	touchForward(t, script)
	fake.BlockUntil(1)
	fake.Advance(100 * time.Millisecond)
	waitForPending(t, rt)

	if failMsg == "" {
		t.Fatal("broken reload did not report a failure")
	}
	if _, err := rt.CallFunction("update", 0.016, 1.0); err != nil {
		t.Fatalf("old update broken after failed reload: %v", err)
	}
	if pos, _ := game.Prop(0); pos.X != 1 {
		t.Fatalf("prop = %+v", pos)
	}
}

func writeScript(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func touchForward(t *testing.T, path string) {
	t.Helper()
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

// waitForPending spins until the coordinator has drained at least one event.
func waitForPending(t *testing.T, rt *runtime.Runtime) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if rt.ProcessPendingEvents() > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no pending reload events arrived")
}

// luaString quotes a Go string as a Lua long string so Windows-style paths
// survive untouched.
func luaString(s string) string {
	return "[[" + s + "]]"
}
