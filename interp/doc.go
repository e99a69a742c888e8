// Package interp provides the high-level API for embedding the Lua
// interpreter in a host process.
//
// # Quick Start
//
//	ip := interp.New(interp.WithHome("/opt/host/scripts"))
//
//	// Declare native functions before Init. Nothing touches the
//	// interpreter yet; descriptors accumulate in the registry.
//	err := ip.AddModuleFunction(builtins.ModuleCore, luaruntime.Args, "emit", emitFn)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Init builds one native table per registered module, preloads it
//	// under its builtins name, and marks the interpreter live.
//	if err := ip.Init(""); err != nil {
//	    log.Fatal(err)
//	}
//	defer ip.Close()
//
//	if err := ip.RunString(`local core = require("core"); core.emit("up")`); err != nil {
//	    log.Fatal(err)
//	}
//
// # Lifecycle
//
// An Interpreter is single-shot: construct, register, Init once, use, Close
// once. A second Init fails with KindAlreadyInitialized; any use after
// Close fails with KindNotInitialized. Registration is only accepted
// before Init.
//
// # Thread Safety
//
// The registration phase is expected to run on a single goroutine; the
// registry is deliberately unguarded. After Init, script execution is
// serialized by the interpreter's global execution lock. RunString and
// RunFile take the lock internally; hosts driving the LState directly
// must bracket every call with GILEnsure/GILRelease.
//
// # Errors
//
// Registration and lifecycle failures are structured errors from the
// errors package. The message of the most recent registration failure is
// also recorded on the adapter and retrievable with LastError, so hosts
// that poll for errors out of band keep working.
package interp
