package config

import (
	"os"
	"path/filepath"
	"testing"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-runtime/interp"
)

func TestParse(t *testing.T) {
	src := []byte(`
home      = "/opt/host/scripts"
open_libs = false

script "boot" {
  path = "boot.lua"
}

script "inline" {
  code = "x = 1"
}
`)
	host, err := Parse("test.hcl", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if host.Home != "/opt/host/scripts" {
		t.Errorf("home = %q", host.Home)
	}
	if host.OpenLibs == nil || *host.OpenLibs {
		t.Error("open_libs not decoded as false")
	}
	if len(host.Scripts) != 2 {
		t.Fatalf("scripts = %d, want 2", len(host.Scripts))
	}
	if host.Scripts[0].Name != "boot" || host.Scripts[0].Path != "boot.lua" {
		t.Errorf("boot block = %+v", host.Scripts[0])
	}
	if host.Scripts[1].Name != "inline" || host.Scripts[1].Code != "x = 1" {
		t.Errorf("inline block = %+v", host.Scripts[1])
	}
}

func TestParse_EnvInterpolation(t *testing.T) {
	t.Setenv("LUA_RUNTIME_TEST_HOME", "/from/env")

	host, err := Parse("test.hcl", []byte(`home = env.LUA_RUNTIME_TEST_HOME`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if host.Home != "/from/env" {
		t.Errorf("home = %q, want /from/env", host.Home)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax error", `home = `},
		{"both path and code", `script "s" { path = "a.lua" code = "x=1" }`},
		{"neither path nor code", `script "s" {}`},
		{"duplicate script", `
script "s" { code = "x=1" }
script "s" { code = "y=1" }
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse("test.hcl", []byte(tt.src)); err == nil {
				t.Error("invalid manifest accepted")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.hcl")); err == nil {
		t.Error("missing manifest accepted")
	}
}

func TestHost_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	boot := filepath.Join(dir, "boot.lua")
	if err := os.WriteFile(boot, []byte("booted = true\n"), 0o644); err != nil {
		t.Fatalf("write boot script: %v", err)
	}

	manifest := filepath.Join(dir, "host.hcl")
	src := `
home = "` + dir + `"

script "boot" {
  path = "` + boot + `"
}

script "inline" {
  code = "answer = 42"
}
`
	if err := os.WriteFile(manifest, []byte(src), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	host, err := Load(manifest)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	ip := interp.New(host.Options()...)
	if err := ip.Init(""); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer ip.Close()

	if err := host.RunScripts(ip); err != nil {
		t.Fatalf("run scripts: %v", err)
	}

	state := ip.GILEnsure()
	booted := lua.LVAsBool(ip.State().GetGlobal("booted"))
	answer := lua.LVAsNumber(ip.State().GetGlobal("answer"))
	ip.GILRelease(state)

	if !booted {
		t.Error("boot script did not run")
	}
	if answer != 42 {
		t.Errorf("answer = %v, want 42", answer)
	}
}

func TestRunScripts_StopsAtFailure(t *testing.T) {
	host, err := Parse("test.hcl", []byte(`
script "bad" { code = "error('boom')" }
script "after" { code = "ran = true" }
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	ip := interp.New()
	if err := ip.Init(""); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer ip.Close()

	if err := host.RunScripts(ip); err == nil {
		t.Fatal("failing script did not surface")
	}

	state := ip.GILEnsure()
	ran := lua.LVAsBool(ip.State().GetGlobal("ran"))
	ip.GILRelease(state)
	if ran {
		t.Error("script after failure still ran")
	}
}
