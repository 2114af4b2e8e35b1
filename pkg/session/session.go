// Copyright Apotell Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package session implements the root Session handle spec.md section 6
// names as the core's single entry point: it owns the file system, symbol
// table, and error container every other package is handed, and exposes
// start_compiler/get_design/get_ir_design/shutdown_compiler/walk/
// compare_trees as the public operations a CLI (or any other driver)
// calls against it.
package session

import (
	"errors"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/Apotell/surelog-core/pkg/compile"
	"github.com/Apotell/surelog-core/pkg/design"
	"github.com/Apotell/surelog-core/pkg/diag"
	"github.com/Apotell/surelog-core/pkg/elaborate"
	"github.com/Apotell/surelog-core/pkg/integrity"
	"github.com/Apotell/surelog-core/pkg/parser"
	"github.com/Apotell/surelog-core/pkg/preprocess"
	"github.com/Apotell/surelog-core/pkg/resolve"
	"github.com/Apotell/surelog-core/pkg/symtab"
	"github.com/Apotell/surelog-core/pkg/workerpool"
)

// CommandLineOptions carries the per-run configuration spec.md section 6
// leaves to the "command_line_parser" collaborator.
type CommandLineOptions struct {
	Files                  []string
	IncludePaths           []string
	Defines                map[string]string
	Library                string
	ComplainUndefinedMacro bool
	MaxExpansionDepth      int
	WorkerCount            int
	Verbose                bool
}

// Session is the root handle spec.md section 5's "Memory discipline"
// paragraph describes: every AST arena, IR arena, and symbol table a
// compile run touches is reachable from here, and shutdown purges them
// together by simply letting the Session (and everything the last
// CompilerHandle references) go out of scope.
type Session struct {
	FS      FileSystem
	Symbols *symtab.Table
	Errors  *diag.Container
	Options CommandLineOptions

	cancelled int32
}

// New constructs a Session over fs with opts, wiring a diagnostic
// container whose path resolver prints through symbols. symbols must be
// the same table fs itself resolves PathIds against (e.g. the one passed
// to NewOSFileSystem) -- the two are peer fields of one Session, per
// spec.md section 6, not independent copies.
func New(symbols *symtab.Table, fs FileSystem, opts CommandLineOptions) *Session {
	s := &Session{
		FS:      fs,
		Symbols: symbols,
		Options: opts,
	}

	s.Errors = diag.NewContainer(func(id uint32) string {
		return symbols.LookupPath(symtab.PathId(id))
	})

	if opts.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	return s
}

// Cancelled reports whether Cancel has been called on this session.
// workerpool.Pool jobs dispatched from StartCompiler consult this via
// PoolContext.Cancelled at their own checkpoints.
func (s *Session) Cancelled() bool {
	return atomic.LoadInt32(&s.cancelled) != 0
}

// Cancel sets the process-wide cancellation flag spec.md section 5
// describes: a caller (e.g. a CLI driver's SIGINT handler) requests that
// no further work start; in-flight worker-pool jobs are still allowed to
// finish.
func (s *Session) Cancel() {
	atomic.StoreInt32(&s.cancelled, 1)
}

// CompilerHandle is the result of one StartCompiler run: the design
// registry (C5's "Design"), the elaborated instance forest (C9's
// "IRDesign"), and the integrity findings folded into s.Errors.
type CompilerHandle struct {
	library  string
	registry *design.Registry
	tree     *design.InstanceTree
}

// StartCompiler runs the full C2-C10 pipeline over s.Options.Files:
// preprocess and parse and compile each file (fanned out across a
// worker pool, per spec.md section 5), resolve every compiled component,
// elaborate the instance forest, and run the integrity checker over it,
// folding its findings into s.Errors.
func (s *Session) StartCompiler() (*CompilerHandle, error) {
	if len(s.Options.Files) == 0 {
		return nil, errors.New("session: no input files configured")
	}

	library := s.Options.Library
	if library == "" {
		library = "work"
	}

	log.WithField("files", len(s.Options.Files)).Debug("starting compiler")

	cu := preprocess.NewCompilationUnit(s.Options.Defines)
	loader := &fsLoader{fs: s.FS, symbols: s.Symbols}
	registry := design.NewRegistry()

	var (
		mu       sync.Mutex
		allComps []design.DesignComponent
	)

	pool := workerpool.New(s.Options.WorkerCount, len(s.Options.Files), s.Cancelled)

	jobs := make([]workerpool.Job, 0, len(s.Options.Files))

	for _, path := range s.Options.Files {
		path := path

		jobs = append(jobs, func(ctx *workerpool.PoolContext) {
			if ctx.Cancelled() {
				return
			}

			comps := s.compileOneFile(loader, cu, registry, library, path)

			mu.Lock()
			allComps = append(allComps, comps...)
			mu.Unlock()
		})
	}

	pool.Group(jobs)
	pool.Close()

	if s.Errors.HasErrors() {
		errs, warns := s.Errors.Counts()
		log.WithField("errors", errs).WithField("warnings", warns).Debug("component compilation reported errors; continuing")
	}

	// Resolution (C8) reads the registry other goroutines just finished
	// writing into and writes back into each component's own Expr/
	// Typespec nodes; those nodes are never shared across components, so
	// this is safe to run per-component without its own worker-pool fan
	// out, and keeps resolution's ordering simple to reason about.
	resolver := resolve.NewResolver(registry, s.Symbols, s.Errors, library)
	for _, c := range allComps {
		resolver.ResolveComponent(c)
	}

	// Elaboration (C9) is single-threaded per spec.md section 5.
	tree := elaborate.NewElaborator(registry, s.Symbols, s.Errors).Elaborate()

	for _, finding := range integrity.NewChecker().CheckForest(tree.Tops) {
		s.Errors.Add(finding)
	}

	log.WithField("tops", len(tree.Tops)).Debug("compiler run complete")

	return &CompilerHandle{library: library, registry: registry, tree: tree}, nil
}

// compileOneFile runs preprocess -> parse -> compile for one file,
// accumulating diagnostics into s.Errors and registering every compiled
// component into registry (the compiler does the registering; this just
// returns what it compiled so the caller can resolve it afterward).
func (s *Session) compileOneFile(loader *fsLoader, cu *preprocess.CompilationUnit, registry *design.Registry, library, path string) []design.DesignComponent {
	fileId, ok := s.FS.Locate(path, s.Options.IncludePaths)
	if !ok {
		fileId = s.Symbols.RegisterPath(path)
	}

	pp := preprocess.New(loader, s.Symbols, cu, preprocess.Config{
		IncludePaths:           s.Options.IncludePaths,
		ComplainUndefinedMacro: s.Options.ComplainUndefinedMacro,
		MaxExpansionDepth:      s.Options.MaxExpansionDepth,
	})

	result, errs := pp.Run(s.FS.ToPlatformPath(fileId), fileId)
	for _, e := range errs {
		s.Errors.Add(preprocessErrorToDiag(fileId, e))
	}

	if result == nil {
		return nil
	}

	cu.MergeMacroTable(result.Macros)

	fc := parser.ParseFile(s.Symbols, s.Errors, library, fileId, result.Text, result.OriginMap)

	comp := compile.NewCompiler(s.Symbols, s.Errors, registry, library)

	return comp.CompileFile(fc)
}

// preprocessErrorToDiag maps a preprocess.Error onto the PreprocError
// taxonomy spec.md section 7 names.
func preprocessErrorToDiag(file symtab.PathId, e *preprocess.Error) diag.Error {
	kinds := map[preprocess.ErrorKind]diag.Kind{
		preprocess.ErrUnresolvedInclude:      diag.PreprocUnresolvedInclude,
		preprocess.ErrRecursiveInclude:       diag.PreprocRecursiveInclude,
		preprocess.ErrMacroRecursion:         diag.PreprocMacroRecursion,
		preprocess.ErrMacroArityMismatch:     diag.PreprocMacroArityMismatch,
		preprocess.ErrUnterminatedConditional: diag.PreprocUnterminatedCondition,
		preprocess.ErrUnknownMacro:           diag.PreprocUnknownMacro,
		preprocess.ErrInvalidIncludeFilename: diag.PreprocInvalidIncludeName,
		preprocess.ErrInvalidTimescale:       diag.PreprocInvalidTimescale,
	}

	kind, ok := kinds[e.Kind]
	if !ok {
		kind = diag.PreprocUnresolvedInclude
	}

	return diag.Error{
		Kind:     kind,
		Severity: diag.SeverityError,
		Primary:  diag.Location{PathId: uint32(file), Line: e.Line, Column: e.Column},
		Message:  e.Message,
	}
}

// GetDesign returns the pre-elaboration design registry (C5's "Design"):
// one DesignComponent per declared module/interface/program/package/
// class/UDP, independent of how many times (if any) it is instantiated.
func (s *Session) GetDesign(h *CompilerHandle) *design.Registry {
	return h.registry
}

// GetIRDesign returns the elaborated instance forest (C9's "IRDesign").
func (s *Session) GetIRDesign(h *CompilerHandle) *design.InstanceTree {
	return h.tree
}

// ShutdownCompiler releases h's references, matching spec.md section
// 5's "shutdown purges them together" -- there is nothing else to close,
// since neither the registry nor the instance tree holds an OS resource.
func (s *Session) ShutdownCompiler(h *CompilerHandle) {
	h.registry = nil
	h.tree = nil
}

// Listener receives callbacks as Walk traverses an elaborated instance
// tree, depth-first, in the deterministic order the elaborator produced
// it (spec.md section 5's ordering guarantee).
type Listener interface {
	EnterInstance(inst *design.ModuleInstance)
	LeaveInstance(inst *design.ModuleInstance)
}

// Walk traverses h's elaborated instance forest depth-first, calling
// listener at every instance.
func (s *Session) Walk(h *CompilerHandle, listener Listener) {
	for _, top := range h.tree.Tops {
		walkInstance(top, listener)
	}
}

func walkInstance(inst *design.ModuleInstance, listener Listener) {
	listener.EnterInstance(inst)

	for _, child := range inst.Children {
		walkInstance(child, listener)
	}

	for _, scope := range inst.GenScopes {
		walkGenScope(scope, listener)
	}

	listener.LeaveInstance(inst)
}

func walkGenScope(scope *design.GenScope, listener Listener) {
	for _, child := range scope.Children {
		walkInstance(child, listener)
	}

	for _, nested := range scope.Nested {
		walkGenScope(nested, listener)
	}
}

// CompareTrees reports whether h1 and h2 elaborated to structurally
// equivalent instance forests: same top-level count, and for every
// instance the same definition identity, the same parameter values, and
// recursively equivalent children, in order. h1 and h2 must come from
// StartCompiler calls on the same Session (or at least sessions sharing
// one symtab.Table) -- instance and definition identity are compared by
// symtab.SymbolId, which is only meaningful within the table that minted
// it.
func (s *Session) CompareTrees(h1, h2 *CompilerHandle) bool {
	if len(h1.tree.Tops) != len(h2.tree.Tops) {
		return false
	}

	for i := range h1.tree.Tops {
		if !instancesEqual(h1.tree.Tops[i], h2.tree.Tops[i]) {
			return false
		}
	}

	return true
}

func instancesEqual(a, b *design.ModuleInstance) bool {
	if a.Name != b.Name {
		return false
	}

	if (a.Definition == nil) != (b.Definition == nil) {
		return false
	}

	if a.Definition != nil && a.Definition.QualifiedName().Key() != b.Definition.QualifiedName().Key() {
		return false
	}

	if len(a.ParamValues) != len(b.ParamValues) {
		return false
	}

	for name, av := range a.ParamValues {
		bv, ok := b.ParamValues[name]
		if !ok || !valuesEqual(av, bv) {
			return false
		}
	}

	if len(a.Children) != len(b.Children) {
		return false
	}

	for i := range a.Children {
		if !instancesEqual(a.Children[i], b.Children[i]) {
			return false
		}
	}

	return true
}

func valuesEqual(a, b design.Value) bool {
	if a.Invalid != b.Invalid {
		return false
	}

	if a.Invalid {
		return true
	}

	return a.AsBigInt().Cmp(b.AsBigInt()) == 0 && a.Width == b.Width
}

// fsLoader adapts a session.FileSystem (PathId-keyed) to the string-path
// preprocess.Loader interface, so the preprocessor itself never needs to
// know about PathIds or the FileSystem boundary.
type fsLoader struct {
	fs      FileSystem
	symbols *symtab.Table
}

func (l *fsLoader) Read(path string) (string, bool) {
	id := l.symbols.RegisterPath(path)

	data, err := l.fs.Read(id)
	if err != nil {
		return "", false
	}

	return string(data), true
}

func (l *fsLoader) Locate(name string, includePaths []string) (string, bool) {
	id, ok := l.fs.Locate(name, includePaths)
	if !ok {
		return "", false
	}

	return l.symbols.LookupPath(id), true
}
