// Package engine wraps a single Lua state and bridges values between Lua
// and the closed dynamic set the marshal package understands.
//
// # Engine Affinity
//
// An Engine is NOT safe for concurrent use. All operations, including the
// dispatch closures it installs for bound host objects, must run on the one
// goroutine that owns the engine. Background work (file watching) hands
// changed paths to that goroutine through the reload.Coordinator queue; it
// never calls the engine directly.
//
// # Script Calling Convention
//
// Bound host methods follow the Lua two-value convention:
//
//	result, err = game.createCube(1, 2, 3)
//	if err ~= nil then print("createCube: " .. err) end
//
// A failed call returns (nil, message); it never raises a Lua error, so a
// misbehaving script line cannot unwind the host frame loop.
package engine
