package config

import (
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/wippyai/lua-runtime/errors"
	"github.com/wippyai/lua-runtime/interp"
)

// Host is the decoded form of a host manifest.
type Host struct {
	Home     string   `hcl:"home,optional"`
	OpenLibs *bool    `hcl:"open_libs,optional"`
	Scripts  []Script `hcl:"script,block"`
}

// Script is one script block. Exactly one of Path or Code must be set.
type Script struct {
	Name string `hcl:"name,label"`
	Path string `hcl:"path,optional"`
	Code string `hcl:"code,optional"`
}

// Load parses and decodes the manifest at path.
func Load(path string) (*Host, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, diags, "parse manifest "+path)
	}
	return decode(file)
}

// Parse decodes a manifest from source bytes. filename is used in
// diagnostics only.
func Parse(filename string, src []byte) (*Host, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, diags, "parse manifest "+filename)
	}
	return decode(file)
}

func decode(file *hcl.File) (*Host, error) {
	var host Host
	diags := gohcl.DecodeBody(file.Body, envContext(), &host)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, diags, "decode manifest")
	}
	if err := host.validate(); err != nil {
		return nil, err
	}
	return &host, nil
}

func (h *Host) validate() error {
	seen := make(map[string]bool)
	for _, s := range h.Scripts {
		if seen[s.Name] {
			return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Detail("duplicate script block %q", s.Name).Build()
		}
		seen[s.Name] = true

		if (s.Path == "") == (s.Code == "") {
			return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Detail("script %q must set exactly one of path or code", s.Name).Build()
		}
	}
	return nil
}

// Options translates the manifest into interpreter construction options.
func (h *Host) Options() []interp.Option {
	var opts []interp.Option
	if h.Home != "" {
		opts = append(opts, interp.WithHome(h.Home))
	}
	if h.OpenLibs != nil {
		opts = append(opts, interp.WithOpenLibs(*h.OpenLibs))
	}
	return opts
}

// RunScripts executes the manifest's script blocks in declaration order
// on an initialized interpreter, stopping at the first failure.
func (h *Host) RunScripts(ip *interp.Interpreter) error {
	for _, s := range h.Scripts {
		var err error
		if s.Code != "" {
			err = ip.RunString(s.Code)
		} else {
			err = ip.RunFile(s.Path)
		}
		if err != nil {
			return errors.Wrap(errors.PhaseConfig, errors.KindScriptError, err, "script "+s.Name)
		}
	}
	return nil
}

// envContext exposes the process environment to manifest expressions as
// the env object.
func envContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}
