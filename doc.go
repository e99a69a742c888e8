// Package luaruntime embeds a Lua interpreter inside a Go host process.
//
// The library wraps gopher-lua with a small lifecycle, registration and
// lock-management surface so a host can expose native Go functions to
// scripts as extension modules and execute script text on demand.
//
// # Architecture Overview
//
// The library is organized into a handful of packages with distinct
// responsibilities:
//
//	luaruntime/      Root package with the shared Convention vocabulary
//	├── interp/      The interpreter adapter: lifecycle, registry, GIL, exec
//	├── builtins/    Extension-module identifiers and name resolution
//	├── config/      HCL host manifest loading
//	├── errors/      Structured error types
//	└── cmd/run/     CLI for running scripts and an interactive REPL
//
// # Quick Start
//
// Register native functions, initialize, run code:
//
//	ip := interp.New()
//
//	err := ip.AddModuleFunction(builtins.ModuleCore, luaruntime.Args, "echo",
//	    func(L *lua.LState) int {
//	        L.Push(L.Get(1))
//	        return 1
//	    })
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := ip.Init(""); err != nil {
//	    log.Fatal(err)
//	}
//	defer ip.Close()
//
//	err = ip.RunString(`local core = require("core"); print(core.echo("hi"))`)
//
// # Registration Model
//
// Registration is declarative: AddModuleFunction only records a descriptor
// in the adapter's registry. The interpreter is not touched until Init,
// which builds one native table per registered module and preloads it under
// the name resolved by the builtins package. Descriptors are inserted at
// the front of a module's sequence, so final table layout is
// reverse-chronological relative to registration order.
//
// # Locking
//
// The interpreter state is a single process-wide resource. Every
// native-to-script call must be bracketed by GILEnsure/GILRelease in
// strictly nested fashion; the pair is reentrant on the same goroutine.
// RunString and RunFile take the lock internally.
package luaruntime
