// Package config loads the HCL host manifest that describes how the
// embedded interpreter is set up: the home path, whether the full Lua
// standard library is opened, and the scripts the host runs after Init.
//
// A manifest looks like:
//
//	home      = "/opt/host/scripts"
//	open_libs = true
//
//	script "boot" {
//	  path = "boot.lua"
//	}
//
//	script "inline" {
//	  code = "print('host up')"
//	}
//
// Manifest expressions can reference process environment variables
// through the env object:
//
//	home = env.HOST_SCRIPT_HOME
package config
