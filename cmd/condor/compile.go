package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btouchard/condor/internal/diagnostics"
	"github.com/btouchard/condor/internal/orchestrator"
)

// loadAndCompile reads entryPath, builds a Context rooted at libDir, and
// compiles the script. newExec may be nil; both `check` and `run` pass nil,
// so no evaluation takes place. Returns the compiled script plus the
// absolute path and source text reportDiagnostics needs to render excerpts.
func loadAndCompile(entryPath string, newExec orchestrator.NewExecutor) (script *orchestrator.Script, abs, source string, err error) {
	abs, err = filepath.Abs(entryPath)
	if err != nil {
		return nil, "", "", err
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, "", "", fmt.Errorf("reading %s: %w", abs, err)
	}
	source = string(raw)

	path := cliPath{libDir: libDirFlag}
	ctx := orchestrator.NewContext(osFileSystem{}, path, newExec, newLogger())

	name := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	script = orchestrator.NewScript(ctx, name, abs, source)
	ctx.AddScript(script)
	script.Compile()
	return script, abs, source, nil
}

// reportDiagnostics prints every accumulated diagnostic and returns the
// process exit code (0 clean, 1 if any phase reported errors).
func reportDiagnostics(script *orchestrator.Script, source, absPath string) int {
	if !script.HasErrors() {
		return 0
	}
	for _, e := range script.Errors().Errors() {
		fmt.Println(diagnostics.PhasePrefix(e.Phase))
		fmt.Println(diagnostics.Format(e, source, absPath))
	}
	return 1
}
