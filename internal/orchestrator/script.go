package orchestrator

import (
	"fmt"
	"path/filepath"

	"github.com/btouchard/condor/internal/analyzer"
	"github.com/btouchard/condor/internal/ast"
	"github.com/btouchard/condor/internal/diagnostics"
	"github.com/btouchard/condor/internal/parser"
	"github.com/btouchard/condor/internal/scanner"
	"github.com/btouchard/condor/internal/scope"
	"github.com/btouchard/condor/internal/token"
)

// State is exactly one of {created, parsing, parsed, analyzed, executed,
// failed}; transitions only move forward, never backward.
type State int

const (
	Created State = iota
	Parsing
	Parsed
	Analyzed
	Executed
	Failed
)

// Script bundles a source buffer with its path, its parsed file, and a
// diagnostics list. The parser and analyzer are created inside Compile and
// the executor inside Run; none of them is kept on the Script.
type Script struct {
	Name      string // module name ("app", "mathlib", ...) or inline id
	AbsPath   string // "" for an inline script — includes are forbidden there
	Source    string
	SubModule string // "*" or a named selector; "" = no filter

	ctx   *Context
	file  *ast.File
	errs  *diagnostics.List
	state State
}

// NewScript builds a script for a file on disk. name is the bare module
// name used for import resolution (e.g. "mathlib" for "mathlib.cb").
func NewScript(ctx *Context, name, absPath, source string) *Script {
	return &Script{
		Name:    name,
		AbsPath: absPath,
		Source:  source,
		ctx:     ctx,
		errs:    &diagnostics.List{},
		state:   Created,
	}
}

// NewInlineScript builds a script with no backing file; includes are
// rejected against it since there is no base path to resolve them from.
func NewInlineScript(ctx *Context, name, source string) *Script {
	return NewScript(ctx, name, "", source)
}

func (s *Script) State() State              { return s.state }
func (s *Script) Errors() *diagnostics.List { return s.errs }
func (s *Script) File() *ast.File            { return s.file }
func (s *Script) HasErrors() bool           { return s.errs.HasErrors() }
func (s *Script) isInline() bool            { return s.AbsPath == "" }

func (s *Script) fail() {
	s.state = Failed
}

// Compile runs the five-step pipeline: parse, load imports, load
// includes, analyze, publish.
func (s *Script) Compile() {
	if s.ctx.IsIncluded(s.Name) {
		s.ctx.Log.Trace("compile short-circuited, already loaded", "script", s.Name)
		return
	}

	s.ctx.Log.Debug("compiling", "script", s.Name)
	s.state = Parsing
	sc := scanner.New(s.Source)
	p := parser.New(sc, s.Name)
	s.file = p.ParseFile()
	if p.Errors().HasErrors() {
		s.adoptErrors(p.Errors())
		s.fail()
		return
	}
	s.state = Parsed

	s.ctx.AddToInProgress(s.Name)

	if err := s.loadImports(); err != nil {
		s.fail()
		return
	}
	if err := s.loadIncludes(); err != nil {
		s.fail()
		return
	}

	an := analyzer.New(s.ctx.Log.Named("analyzer"))
	an.Analyze(s.file)
	if an.Errors().HasErrors() {
		s.adoptErrors(an.Errors())
		s.fail()
		return
	}
	s.state = Analyzed

	s.ctx.AddScope(s.Name, s.file.Scope)
	s.ctx.SetImport(s.Name)
	s.ctx.Log.Debug("imported", "script", s.Name)
}

// adoptErrors flattens a sub-phase's diagnostics into the script's own
// list; each SourceError already carries its own phase tag from where it
// was raised, so this is a plain merge.
func (s *Script) adoptErrors(sub *diagnostics.List) {
	for _, e := range sub.Errors() {
		s.errs.Add(e)
	}
}

// loadImports imports the hard-coded "app" module first (at most once per
// Context), then resolves each import directive against the library
// directory.
func (s *Script) loadImports() error {
	if !s.ctx.appImported && s.Name != libApp {
		s.ctx.appImported = true
		if err := s.importModule(libApp, token.Position{}); err != nil {
			return err
		}
	}

	for _, imp := range s.file.Imports {
		pkg, sym := splitImportName(imp.Name)
		if sym != "" {
			s.errs.Add(diagnostics.New(diagnostics.NotImplemented, diagnostics.PhaseSemantic, imp.Position,
				"import sub-selectors (pkg.sym) are not implemented"))
			return s.errs
		}
		if err := s.importModule(pkg, imp.Position); err != nil {
			return err
		}
	}
	return nil
}

func splitImportName(name string) (pkg, sym string) {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name[:i], name[i+1:]
		}
	}
	return name, ""
}

// importModule loads <libDir>/<pkg>.cb, compiles and runs it, then merges
// all of its top-level declarations (public or not) into this script's file
// scope so unqualified names resolve directly, without a separate
// qualified-lookup path.
func (s *Script) importModule(pkg string, pos token.Position) error {
	if s.ctx.IsIncluded(pkg) {
		if exported, ok := s.ctx.GetExportedNode(pkg); ok {
			s.mergeScope(exported)
		}
		return nil
	}

	path := filepath.Join(s.ctx.Path.GetLibDir(), pkg+".cb")
	if !s.ctx.FS.FileExists(path) {
		s.errs.Add(diagnostics.New(diagnostics.InvalidImport, diagnostics.PhaseSemantic, pos,
			fmt.Sprintf("import %q: no such library module %s", pkg, path)))
		return s.errs
	}

	source, err := s.ctx.FS.ReadFile(path)
	if err != nil {
		s.errs.Add(diagnostics.New(diagnostics.InvalidImport, diagnostics.PhaseSemantic, pos,
			fmt.Sprintf("import %q: %s", pkg, err)))
		return s.errs
	}

	imported := NewScript(s.ctx, pkg, path, source)
	s.ctx.AddScript(imported)
	imported.Compile()
	if imported.HasErrors() {
		s.errs.Add(diagnostics.New(diagnostics.InvalidImport, diagnostics.PhaseSemantic, pos,
			fmt.Sprintf("import %q failed: %s", pkg, imported.Errors())))
		return s.errs
	}
	imported.Run()

	if exported, ok := s.ctx.GetExportedNode(pkg); ok {
		s.mergeScope(exported)
	}
	return nil
}

// loadIncludes resolves each include path relative to this script's own
// directory, compiles and runs it, then merges its top-level declarations
// into this file's scope by name.
func (s *Script) loadIncludes() error {
	for _, inc := range s.file.Includes {
		if s.isInline() {
			s.errs.Add(diagnostics.New(diagnostics.InvalidImport, diagnostics.PhaseSemantic, inc.Position,
				"include is forbidden in an inline script (no base path)"))
			return s.errs
		}

		path := s.ctx.Path.GetFromBase(filepath.Dir(s.AbsPath), inc.Path)
		if !s.ctx.FS.FileExists(path) {
			s.errs.Add(diagnostics.New(diagnostics.InvalidImport, diagnostics.PhaseSemantic, inc.Position,
				fmt.Sprintf("include %q: no such file %s", inc.Path, path)))
			return s.errs
		}

		source, err := s.ctx.FS.ReadFile(path)
		if err != nil {
			s.errs.Add(diagnostics.New(diagnostics.InvalidImport, diagnostics.PhaseSemantic, inc.Position,
				fmt.Sprintf("include %q: %s", inc.Path, err)))
			return s.errs
		}

		name := path
		included := NewScript(s.ctx, name, path, source)
		s.ctx.AddScript(included)
		included.Compile()
		if included.HasErrors() {
			s.errs.Add(diagnostics.New(diagnostics.InvalidImport, diagnostics.PhaseSemantic, inc.Position,
				fmt.Sprintf("include %q failed: %s", inc.Path, included.Errors())))
			return s.errs
		}
		included.Run()

		if exported, ok := s.ctx.GetExportedNode(name); ok {
			s.mergeScope(exported)
		}
	}
	return nil
}

// mergeScope copies another module's top-level declarations into this
// script's file scope by name; both includes and imports expose a
// module's exports this way.
func (s *Script) mergeScope(other *scope.Scope) {
	for _, decl := range other.Children() {
		s.file.Scope.Insert(decl)
	}
}

// Run applies the subModule export filter, then constructs the executor
// (if any) over the published scope and evaluates it. A failed script's
// Run is a no-op.
func (s *Script) Run() {
	if s.state == Failed || s.state != Analyzed {
		return
	}

	s.applySubModuleFilter()

	if s.ctx.New == nil {
		s.state = Executed
		return
	}

	exec := s.ctx.New(s.ctx, s.file.Scope)
	if err := exec.Evaluate(); err != nil {
		s.errs.Add(diagnostics.New(diagnostics.Internal, diagnostics.PhaseRuntime, exec.Position(), err.Error()))
		s.fail()
		return
	}
	s.state = Executed
}

// applySubModuleFilter post-filters which top-level declarations are
// marked IsExport: "*" exports everything, a named selector exports only
// the matching declaration.
func (s *Script) applySubModuleFilter() {
	if s.SubModule == "" {
		return
	}
	for _, decl := range s.file.Scope.Children() {
		exportable, ok := decl.(ast.Exportable)
		if !ok {
			continue
		}
		if s.SubModule == "*" || decl.DeclName() == s.SubModule {
			exportable.SetExport(true)
		}
	}
}
