package interp

import (
	"sort"

	lua "github.com/yuin/gopher-lua"

	luaruntime "github.com/wippyai/lua-runtime"
	"github.com/wippyai/lua-runtime/builtins"
)

// FunctionDescriptor describes one native function registered into an
// extension module. Descriptors are immutable once created.
type FunctionDescriptor struct {
	Name       string
	Func       lua.LGFunction
	Convention luaruntime.Convention
	// Doc is the documentation slot of the native table entry. The host
	// never fills it today; it exists so the table layout is complete.
	Doc string
}

// Guard reports whether d is the terminating entry of a method table.
func (d FunctionDescriptor) Guard() bool {
	return d.Name == "" && d.Func == nil
}

// moduleRegistry accumulates function descriptors per module between
// construction and Init. It is mutated only during the single-threaded
// setup phase and read once when Init builds the native tables.
type moduleRegistry struct {
	mods map[builtins.ModuleID][]FunctionDescriptor
}

func newModuleRegistry() *moduleRegistry {
	return &moduleRegistry{
		mods: make(map[builtins.ModuleID][]FunctionDescriptor),
	}
}

// add inserts d at the front of the module's sequence. Final table layout
// is therefore reverse-chronological relative to registration order; this
// mirrors the native registration convention hosts already depend on.
func (r *moduleRegistry) add(id builtins.ModuleID, d FunctionDescriptor) {
	r.mods[id] = append([]FunctionDescriptor{d}, r.mods[id]...)
}

// functions returns the module's descriptors in table order.
func (r *moduleRegistry) functions(id builtins.ModuleID) []FunctionDescriptor {
	src := r.mods[id]
	out := make([]FunctionDescriptor, len(src))
	copy(out, src)
	return out
}

// methodTable serializes the module's sequence to its native table form:
// descriptors in table order with the guard terminator last. The guard is
// produced here, at serialization time; it is never stored in the registry.
func (r *moduleRegistry) methodTable(id builtins.ModuleID) []FunctionDescriptor {
	src := r.mods[id]
	out := make([]FunctionDescriptor, 0, len(src)+1)
	out = append(out, src...)
	out = append(out, FunctionDescriptor{})
	return out
}

// ids returns the registered module identifiers in stable order.
func (r *moduleRegistry) ids() []builtins.ModuleID {
	ids := make([]builtins.ModuleID, 0, len(r.mods))
	for id := range r.mods {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}

// wrap adapts a descriptor to the function actually installed in the
// module table, enforcing its declared calling convention.
func wrap(d FunctionDescriptor) lua.LGFunction {
	switch d.Convention {
	case luaruntime.NoArgs:
		fn := d.Func
		name := d.Name
		return func(L *lua.LState) int {
			if L.GetTop() != 0 {
				L.RaiseError("%s takes no arguments", name)
			}
			return fn(L)
		}
	default:
		// Args and Keywords both receive the stack as-is; a Keywords
		// function reads its trailing options table itself.
		return d.Func
	}
}
