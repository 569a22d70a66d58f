package orchestrator

import (
	"github.com/hashicorp/go-hclog"

	"github.com/btouchard/condor/internal/scope"
)

// libApp is the hard-coded standard-library module every Context imports
// first, at most once, tracked via a sticky flag on Context.
const libApp = "app"

// Isolate owns a Context; it carries nothing beyond that since in Go the
// GC stands in for an arena allocator.
type Isolate struct {
	Context *Context
}

func NewIsolate(ctx *Context) *Isolate {
	return &Isolate{Context: ctx}
}

// Context is the shared registry of loaded modules for one isolate. It is
// not safe for concurrent mutation: the re-entry model here is
// single-threaded cooperative, so a mutex would only hide the real
// invariant behind a false promise of thread safety.
type Context struct {
	FS   FS
	Path Path
	New  NewExecutor // may be nil; Run becomes a diagnostics-only no-op
	Log  hclog.Logger

	scripts     map[string]*Script
	inProgress  map[string]bool
	imported    map[string]bool
	exported    map[string]*scope.Scope
	appImported bool
}

func NewContext(fs FS, path Path, newExec NewExecutor, log hclog.Logger) *Context {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Context{
		FS:         fs,
		Path:       path,
		New:        newExec,
		Log:        log,
		scripts:    make(map[string]*Script),
		inProgress: make(map[string]bool),
		imported:   make(map[string]bool),
		exported:   make(map[string]*scope.Scope),
	}
}

// AddScript registers a script under its name, replacing any script
// already registered under that name.
func (c *Context) AddScript(s *Script) { c.scripts[s.Name] = s }

// GetScriptByString returns a script whose source buffer matches code,
// supporting the host embedding surface's inline-script lookup. If several
// registered scripts match, which one is returned is not defined.
func (c *Context) GetScriptByString(code string) (*Script, bool) {
	for _, s := range c.scripts {
		if s.Source == code {
			return s, true
		}
	}
	return nil, false
}

// IsIncluded is the re-entry guard: a name that is either in-progress or
// fully imported is not recompiled.
func (c *Context) IsIncluded(name string) bool {
	return c.inProgress[name] || c.imported[name]
}

func (c *Context) IsImported(name string) bool { return c.imported[name] }

func (c *Context) SetImport(name string) {
	delete(c.inProgress, name)
	c.imported[name] = true
}

func (c *Context) AddToInProgress(name string)      { c.inProgress[name] = true }
func (c *Context) RemoveFromInProgress(name string) { delete(c.inProgress, name) }

// GetExportedNode returns the published file scope for a fully-loaded
// module.
func (c *Context) GetExportedNode(name string) (*scope.Scope, bool) {
	s, ok := c.exported[name]
	return s, ok
}

func (c *Context) AddScope(name string, s *scope.Scope) { c.exported[name] = s }
