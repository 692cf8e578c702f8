// Package runtime assembles the scripting pieces into a single host-facing
// surface: one engine, one binding registry, and optional hot reload wired
// through a file watcher and reload coordinator.
//
// A Runtime is affine to the goroutine that created it. Script execution,
// binder registration, and ProcessPendingEvents all happen there; the only
// background goroutine is the watcher's poll loop, which communicates
// exclusively through the coordinator's pending queue.
//
// Typical frame loop:
//
//	rt := runtime.New()
//	rt.RegisterBinder(game)
//	rt.ExecuteFile("scripts/game.lua")
//	rt.EnableHotReload("scripts", "game.lua")
//	for running {
//		rt.ProcessPendingEvents()
//		rt.CallFunction("update", dt)
//	}
//	rt.Close()
package runtime
