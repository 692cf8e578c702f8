// Package scriptruntime embeds a Lua scripting runtime in a Go host with
// live reload of script source files.
//
// The library exposes curated host objects to scripts through a declarative
// method catalog, marshals dynamically-typed script values into native Go
// types without letting failures cross the boundary as panics, and reloads
// edited script files while the process keeps running.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	scriptruntime/       Root package (documentation only)
//	├── runtime/         High-level API: engine + bindings + hot-reload lifecycle
//	├── engine/          go-lua state wrapper and Lua/Go value bridging
//	├── binding/         Method catalog, registry and dispatch contract
//	├── marshal/         Dynamic value to native type conversions
//	├── watcher/         Polling file watcher (background goroutine)
//	├── reload/          Script reloader and the frame-drained change queue
//	├── errors/          Structured error types for debugging
//	└── testbed/         Demo game host used by end-to-end tests
//
// # Quick Start
//
// Build a runtime, expose a host object and run a script:
//
//	rt := runtime.New()
//	defer rt.Close()
//
//	if err := rt.RegisterBinder(myHost); err != nil {
//	    log.Fatal(err)
//	}
//	if err := rt.ExecuteFile("Data/Scripts/Game.lua"); err != nil {
//	    log.Fatal(err)
//	}
//
// Enable hot reload and drain changes once per frame:
//
//	if err := rt.EnableHotReload(projectRoot, "Data/Scripts/Game.lua"); err != nil {
//	    log.Printf("hot reload unavailable: %v", err) // degraded, not fatal
//	}
//	for running {
//	    rt.ProcessPendingEvents() // engine goroutine only
//	    rt.CallFunction("update", dt)
//	}
//
// # Thread Safety
//
// The Lua state is NOT thread-safe. All engine access (script calls,
// binding dispatch, reloads) must happen on the single goroutine that owns
// the runtime (the "engine goroutine"). The file watcher runs on its own
// background goroutine and never touches the engine; it only appends changed
// paths to a lock-guarded queue that ProcessPendingEvents drains on the
// engine goroutine.
//
// # Boundary Contract
//
// Every script-visible call produces exactly one binding.CallResult: a value
// on success or an error message on failure. Argument count mismatches, type
// conversion failures and unknown method names are reported as results, not
// panics, and a reload that fails to compile or execute leaves the previous
// working script version active.
package scriptruntime
