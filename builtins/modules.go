// Package builtins defines the extension-module identifiers the host may
// register native functions into, and resolves each identifier to the
// name scripts use with require().
package builtins

// ModuleID is the symbolic tag for an extension module.
type ModuleID int

const (
	// ModuleCore holds the host's primary API surface.
	ModuleCore ModuleID = iota
	// ModuleUtil holds general-purpose helpers.
	ModuleUtil
	// ModuleLog exposes the host's logging sink to scripts.
	ModuleLog
	// ModuleProcess exposes process-level information.
	ModuleProcess

	moduleCount
)

// ModuleUnknown is the reserved sentinel name returned for identifiers
// outside the recognized set. It is never a valid require() target.
const ModuleUnknown = "__unknown__"

var moduleNames = map[ModuleID]string{
	ModuleCore:    "core",
	ModuleUtil:    "util",
	ModuleLog:     "log",
	ModuleProcess: "process",
}

// GetExtensionModuleName resolves a module identifier to its exposed
// script-side name. It is total: identifiers outside the recognized set
// resolve to ModuleUnknown.
func GetExtensionModuleName(id ModuleID) string {
	if name, ok := moduleNames[id]; ok {
		return name
	}
	return ModuleUnknown
}

// Known reports whether id resolves to a real extension module.
func Known(id ModuleID) bool {
	return GetExtensionModuleName(id) != ModuleUnknown
}

// All returns every recognized module identifier in declaration order.
func All() []ModuleID {
	ids := make([]ModuleID, 0, moduleCount)
	for id := ModuleID(0); id < moduleCount; id++ {
		ids = append(ids, id)
	}
	return ids
}
