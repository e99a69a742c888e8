package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	luaruntime "github.com/wippyai/lua-runtime"
	"github.com/wippyai/lua-runtime/builtins"
	"github.com/wippyai/lua-runtime/config"
	"github.com/wippyai/lua-runtime/interp"
)

func main() {
	var (
		scriptFile  = flag.String("script", "", "Path to a Lua script to run")
		code        = flag.String("e", "", "Inline Lua code to run")
		home        = flag.String("home", "", "Interpreter home path (overrides manifest)")
		configFile  = flag.String("config", "", "Path to a host manifest (.hcl)")
		showVersion = flag.Bool("version", false, "Print the interpreter version and exit")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive REPL")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(interp.New().Version())
		return
	}

	if *scriptFile == "" && *code == "" && *configFile == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: run -script <file.lua> [-home dir] [-config host.hcl]")
		fmt.Fprintln(os.Stderr, "       run -e '<lua code>'")
		fmt.Fprintln(os.Stderr, "       run -i  (interactive REPL)")
		os.Exit(1)
	}

	if err := run(*scriptFile, *code, *home, *configFile, *verbose, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(scriptFile, code, home, configFile string, verbose, interactive bool) error {
	log := zap.NewNop()
	if verbose {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer log.Sync()
	}

	var host *config.Host
	opts := []interp.Option{interp.WithLogger(log)}
	if configFile != "" {
		var err error
		if host, err = config.Load(configFile); err != nil {
			return err
		}
		opts = append(opts, host.Options()...)
	}

	ip := interp.New(opts...)
	if err := registerHostModules(ip, log); err != nil {
		return err
	}
	if err := ip.Init(home); err != nil {
		return err
	}
	defer ip.Close()

	if host != nil {
		if err := host.RunScripts(ip); err != nil {
			return err
		}
	}
	if scriptFile != "" {
		if err := ip.RunFile(scriptFile); err != nil {
			return err
		}
	}
	if code != "" {
		if err := ip.RunString(code); err != nil {
			return err
		}
	}

	if interactive {
		return runInteractive(ip)
	}
	return nil
}

// registerHostModules fills the builtins modules with the CLI's native
// surface. Registration happens before Init; the tables are built there.
func registerHostModules(ip *interp.Interpreter, log *zap.Logger) error {
	regs := []struct {
		module builtins.ModuleID
		conv   luaruntime.Convention
		name   string
		fn     lua.LGFunction
	}{
		{builtins.ModuleCore, luaruntime.NoArgs, "version", func(L *lua.LState) int {
			L.Push(lua.LString(ip.Version()))
			return 1
		}},
		{builtins.ModuleUtil, luaruntime.Args, "sleep", func(L *lua.LState) int {
			time.Sleep(time.Duration(L.CheckNumber(1)) * time.Millisecond)
			return 0
		}},
		{builtins.ModuleLog, luaruntime.Keywords, "info", func(L *lua.LState) int {
			fields := []zap.Field{}
			if opts, ok := L.Get(2).(*lua.LTable); ok {
				opts.ForEach(func(k, v lua.LValue) {
					fields = append(fields, zap.String(k.String(), v.String()))
				})
			}
			log.Info(L.CheckString(1), fields...)
			return 0
		}},
		{builtins.ModuleProcess, luaruntime.NoArgs, "pid", func(L *lua.LState) int {
			L.Push(lua.LNumber(os.Getpid()))
			return 1
		}},
		{builtins.ModuleProcess, luaruntime.Args, "getenv", func(L *lua.LState) int {
			L.Push(lua.LString(os.Getenv(L.CheckString(1))))
			return 1
		}},
	}

	for _, r := range regs {
		if err := ip.AddModuleFunction(r.module, r.conv, r.name, r.fn); err != nil {
			return err
		}
	}
	return nil
}
