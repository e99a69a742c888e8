package interp

import (
	"sync"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	luaruntime "github.com/wippyai/lua-runtime"
	"github.com/wippyai/lua-runtime/builtins"
	"github.com/wippyai/lua-runtime/errors"
)

// Interpreter owns one embedded Lua state: its lifecycle, the registry of
// native functions destined for extension modules, and the global
// execution lock guarding all script execution.
//
// The interpreter is a single process-wide resource per Interpreter
// value: construct, register, Init once, use, Close once.
type Interpreter struct {
	log      *zap.Logger
	state    *lua.LState
	registry *moduleRegistry
	gil      gil

	home     string
	openLibs bool

	errMu   sync.Mutex
	lastErr string

	initialized atomic.Bool
	closed      atomic.Bool
}

// Option configures an Interpreter at construction time.
type Option func(*Interpreter)

// WithHome sets the default home path used to locate script resources.
// Init's homeOverride argument, when non-empty, replaces it.
func WithHome(path string) Option {
	return func(i *Interpreter) { i.home = path }
}

// WithOpenLibs controls whether Init opens the full Lua standard library.
// When disabled only the base and package libraries are opened, which is
// the minimum the module preload mechanism needs.
func WithOpenLibs(open bool) Option {
	return func(i *Interpreter) { i.openLibs = open }
}

// WithLogger sets the interpreter's logger. Defaults to a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(i *Interpreter) { i.log = log }
}

// New creates an Interpreter. The embedded Lua state is not created until
// Init.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		log:      zap.NewNop(),
		registry: newModuleRegistry(),
		openLibs: true,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Init creates the Lua state, applies the home path, and builds and
// preloads one native table per registered module under its builtins
// name. If homeOverride is non-empty it replaces the configured home.
//
// Init is single-shot: a second call fails with KindAlreadyInitialized,
// and calling Init after Close fails with KindNotInitialized.
func (i *Interpreter) Init(homeOverride string) error {
	if i.closed.Load() {
		return errors.New(errors.PhaseInit, errors.KindNotInitialized).
			Detail("interpreter has been closed").Build()
	}
	if i.initialized.Load() {
		return errors.AlreadyInitialized(errors.PhaseInit, "interpreter")
	}

	if homeOverride != "" {
		i.home = homeOverride
	}

	if i.openLibs {
		i.state = lua.NewState()
	} else {
		i.state = lua.NewState(lua.Options{SkipOpenLibs: true})
		if err := i.openMinimalLibs(); err != nil {
			i.state.Close()
			i.state = nil
			return errors.Wrap(errors.PhaseInit, errors.KindScriptError, err, "open minimal libraries")
		}
	}

	if i.home != "" {
		i.applyHome()
	}

	ids := i.registry.ids()
	for _, id := range ids {
		name := builtins.GetExtensionModuleName(id)
		i.state.PreloadModule(name, i.moduleLoader(i.registry.methodTable(id)))
		i.log.Debug("preloaded extension module",
			zap.String("module", name),
			zap.Int("functions", len(i.registry.functions(id))))
	}

	i.initialized.Store(true)
	i.log.Info("interpreter initialized",
		zap.String("version", i.Version()),
		zap.String("home", i.home),
		zap.Int("modules", len(ids)))
	return nil
}

// openMinimalLibs opens the package and base libraries only. Package must
// come first so the preload table exists for module installation.
func (i *Interpreter) openMinimalLibs() error {
	for _, pair := range []struct {
		n string
		f lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
	} {
		err := i.state.CallByParam(lua.P{
			Fn:      i.state.NewFunction(pair.f),
			NRet:    0,
			Protect: true,
		}, lua.LString(pair.n))
		if err != nil {
			return err
		}
	}
	return nil
}

// applyHome prepends home-rooted search patterns to package.path so
// require() resolves scripts under the interpreter home first.
func (i *Interpreter) applyHome() {
	pkg := i.state.GetGlobal("package")
	if pkg == lua.LNil {
		// Package library not open; home only matters for require().
		return
	}
	current := lua.LVAsString(i.state.GetField(pkg, "path"))
	path := i.home + "/?.lua;" + i.home + "/?/init.lua"
	if current != "" {
		path += ";" + current
	}
	i.state.SetField(pkg, "path", lua.LString(path))
}

// moduleLoader returns the require() loader for one serialized method
// table. The guard terminator ends installation.
func (i *Interpreter) moduleLoader(table []FunctionDescriptor) lua.LGFunction {
	return func(L *lua.LState) int {
		mod := L.NewTable()
		for _, d := range table {
			if d.Guard() {
				break
			}
			L.SetField(mod, d.Name, L.NewFunction(wrap(d)))
		}
		L.Push(mod)
		return 1
	}
}

// IsInitialized reports whether the interpreter is live: Init has
// succeeded and Close has not been called.
func (i *Interpreter) IsInitialized() bool {
	return i.initialized.Load() && !i.closed.Load()
}

// Version returns the embedded interpreter's version string.
func (i *Interpreter) Version() string {
	return lua.LuaVersion
}

// AddModuleFunction records a native function for installation into the
// given extension module at Init time. Registration is declarative: the
// interpreter is not touched until Init consumes the registry.
//
// The descriptor is inserted at the front of the module's sequence, so
// final table layout is reverse-chronological relative to registration
// order. Failures return a structured error and record its message in the
// adapter's error sink.
func (i *Interpreter) AddModuleFunction(module builtins.ModuleID, conv luaruntime.Convention, name string, fn lua.LGFunction) error {
	if i.closed.Load() {
		return i.failRegistration(errors.New(errors.PhaseRegister, errors.KindNotInitialized).
			Detail("interpreter has been closed").Build())
	}
	if i.initialized.Load() {
		return i.failRegistration(errors.InvalidInput(errors.PhaseRegister,
			"registration is only accepted before Init"))
	}
	if !builtins.Known(module) {
		return i.failRegistration(errors.UnknownModule(errors.PhaseRegister, int(module)))
	}
	if !conv.Valid() {
		return i.failRegistration(errors.UnknownConvention(errors.PhaseRegister, int(conv)))
	}
	if name == "" {
		return i.failRegistration(errors.InvalidInput(errors.PhaseRegister, "function name cannot be empty"))
	}
	if fn == nil {
		return i.failRegistration(errors.InvalidInput(errors.PhaseRegister, "function cannot be nil"))
	}

	i.registry.add(module, FunctionDescriptor{
		Name:       name,
		Func:       fn,
		Convention: conv,
	})
	i.log.Debug("registered module function",
		zap.String("module", builtins.GetExtensionModuleName(module)),
		zap.String("function", name),
		zap.Stringer("convention", conv))
	return nil
}

func (i *Interpreter) failRegistration(err *errors.Error) error {
	i.setError(err.Error())
	return err
}

// Functions returns the module's registered descriptors in table order:
// most recently registered first, no terminator.
func (i *Interpreter) Functions(module builtins.ModuleID) []FunctionDescriptor {
	return i.registry.functions(module)
}

// MethodTable returns the module's serialized native table: descriptors
// in table order with the guard terminator last.
func (i *Interpreter) MethodTable(module builtins.ModuleID) []FunctionDescriptor {
	return i.registry.methodTable(module)
}

// RunString executes code as a single top-level chunk in the main state.
// The global execution lock is held for the duration of the chunk. A nil
// return means the chunk completed; script failures surface as
// KindScriptError with the Lua error as cause.
func (i *Interpreter) RunString(code string) error {
	if !i.IsInitialized() {
		return errors.NotInitialized(errors.PhaseExec, "interpreter")
	}

	state := i.GILEnsure()
	defer i.GILRelease(state)

	if err := i.state.DoString(code); err != nil {
		i.log.Debug("chunk failed", zap.Error(err))
		return errors.Script(err, "run string")
	}
	return nil
}

// RunFile executes the script file at path in the main state, under the
// global execution lock.
func (i *Interpreter) RunFile(path string) error {
	if !i.IsInitialized() {
		return errors.NotInitialized(errors.PhaseExec, "interpreter")
	}

	state := i.GILEnsure()
	defer i.GILRelease(state)

	if err := i.state.DoFile(path); err != nil {
		i.log.Debug("script failed", zap.String("path", path), zap.Error(err))
		return errors.Script(err, path)
	}
	return nil
}

// State exposes the underlying Lua state for hosts that need direct
// access. Callers must hold the global execution lock around every use.
func (i *Interpreter) State() *lua.LState {
	return i.state
}

// LastError returns the message of the most recent registration failure,
// or an empty string.
func (i *Interpreter) LastError() string {
	i.errMu.Lock()
	defer i.errMu.Unlock()
	return i.lastErr
}

// ClearError resets the recorded error message.
func (i *Interpreter) ClearError() {
	i.errMu.Lock()
	defer i.errMu.Unlock()
	i.lastErr = ""
}

func (i *Interpreter) setError(msg string) {
	i.errMu.Lock()
	i.lastErr = msg
	i.errMu.Unlock()
}

// Close finalizes the interpreter. Further lifecycle, execution or
// registration calls fail with KindNotInitialized.
func (i *Interpreter) Close() error {
	if i.closed.Load() || !i.initialized.Load() {
		return errors.NotInitialized(errors.PhaseRuntime, "interpreter")
	}

	state := i.GILEnsure()
	i.state.Close()
	i.GILRelease(state)

	i.closed.Store(true)
	i.initialized.Store(false)
	i.log.Info("interpreter finalized")
	return nil
}
