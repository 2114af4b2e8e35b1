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
package session

import (
	"os"
	"path/filepath"

	"github.com/Apotell/surelog-core/pkg/symtab"
)

// FileSystem is the core's only file-I/O boundary (spec.md section 6):
// every path the compiler pipeline touches is an opaque symtab.PathId,
// resolved through this interface rather than a raw string, so nothing
// downstream of Session imports "os" directly.
type FileSystem interface {
	Read(path symtab.PathId) ([]byte, error)
	Locate(name string, searchPaths []string) (symtab.PathId, bool)
	Sibling(path symtab.PathId, name string) symtab.PathId
	ToPlatformPath(path symtab.PathId) string
}

// OSFileSystem implements FileSystem over the local disk. File I/O is an
// ambient boundary concern, not a domain dependency the teacher or pack
// reaches for a library over, so plain os/filepath is the right call here.
type OSFileSystem struct {
	symbols *symtab.Table
}

// NewOSFileSystem constructs a FileSystem backed by the local disk,
// registering every path it resolves in symbols so PathIds stay stable
// for the lifetime of the session.
func NewOSFileSystem(symbols *symtab.Table) *OSFileSystem {
	return &OSFileSystem{symbols: symbols}
}

func (fs *OSFileSystem) Read(path symtab.PathId) ([]byte, error) {
	return os.ReadFile(fs.symbols.LookupPath(path))
}

// Locate searches "." followed by searchPaths, in order, for name,
// returning the first match's PathId. An absolute name is checked
// directly and never joined against a search directory.
func (fs *OSFileSystem) Locate(name string, searchPaths []string) (symtab.PathId, bool) {
	if filepath.IsAbs(name) {
		if fileExists(name) {
			return fs.symbols.RegisterPath(name), true
		}

		return symtab.BadPathId, false
	}

	candidates := append([]string{"."}, searchPaths...)

	for _, dir := range candidates {
		full := filepath.Join(dir, name)
		if fileExists(full) {
			return fs.symbols.RegisterPath(full), true
		}
	}

	return symtab.BadPathId, false
}

// Sibling resolves name relative to path's own directory, the
// look-next-to-the-including-file step `include resolution tries before
// falling back to the include-path list.
func (fs *OSFileSystem) Sibling(path symtab.PathId, name string) symtab.PathId {
	dir := filepath.Dir(fs.symbols.LookupPath(path))
	return fs.symbols.RegisterPath(filepath.Join(dir, name))
}

func (fs *OSFileSystem) ToPlatformPath(path symtab.PathId) string {
	return filepath.FromSlash(fs.symbols.LookupPath(path))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
