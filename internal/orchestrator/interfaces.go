// Package orchestrator implements the Script/Context driver: it sequences
// parse -> load imports -> load includes -> analyze -> publish, with
// at-most-once module loading guarded by an imported/in-progress map pair.
package orchestrator

import (
	"github.com/btouchard/condor/internal/scope"
	"github.com/btouchard/condor/internal/token"
)

// FS is the host-provided filesystem surface. The CLI's osFileSystem
// (cmd/condor) is the only concrete implementation the core ships;
// everything else is a test double.
type FS interface {
	ReadFile(path string) (string, error)
	FileExists(path string) bool
}

// Path resolves the library directory and paths relative to a caller-
// supplied base directory. base is passed explicitly on every call, rather
// than fixed once on Path, so each script's own directory can be used when
// resolving its own include directives — a nested include resolves
// relative to the included script's directory, not the entry script's.
type Path interface {
	GetLibDir() string
	GetFromBase(base, relative string) string
}

// Executor is an external collaborator: the core only consumes this
// interface, never implements it. A nil NewExecutor on Context makes Run
// skip evaluation and still mark the script executed, which is how
// `condor run` uses it.
type Executor interface {
	Evaluate() error
	Position() token.Position
	Source() string
}

// NewExecutor constructs an Executor over one script's published scope.
type NewExecutor func(ctx *Context, fileScope *scope.Scope) Executor
