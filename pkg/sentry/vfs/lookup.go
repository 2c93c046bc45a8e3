// Copyright 2024 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vfs

import (
	"context"

	"gvisor.dev/vfscore/pkg/errors/fserr"
	"gvisor.dev/vfscore/pkg/fspath"
	"gvisor.dev/vfscore/pkg/log"
)

// LookupMode controls what path resolution does when the final component of
// a path does not exist.
type LookupMode int

const (
	// LookupNone fails with fserr.EntryNotFound.
	LookupNone LookupMode = iota

	// LookupCreate creates the final component as a regular file.
	LookupCreate
)

// String implements fmt.Stringer.String.
func (m LookupMode) String() string {
	switch m {
	case LookupNone:
		return "none"
	case LookupCreate:
		return "create"
	default:
		return "unknown"
	}
}

// LookupPathWith resolves path starting at cwd, whether or not path is
// absolute. Callers that want absolute paths to start at the root use
// LookupPath or OpenAt.
//
// Each component is first looked up in the directory cache and then in the
// current directory's Inode. After every step onto a directory, a mount over
// that directory is followed to the mounted root. ".." moves to the parent,
// or stays put at a Dentry with no parent.
//
// If mode is LookupCreate and only the final component is missing, it is
// created with Inode.Touch. Any other failure aborts resolution and is
// returned unchanged.
func (vfs *VirtualFilesystem) LookupPathWith(cwd *Dentry, path fspath.Path, mode LookupMode) (*Dentry, error) {
	last := path.Count() - 1
	i := 0
	for it := path.Components(); it.Ok(); it, i = it.Next(), i+1 {
		switch pc := it.String(); pc {
		case ".":
			continue
		case "..":
			if parent := cwd.Parent(); parent != nil {
				cwd = parent
			}
		default:
			next, err := vfs.step(cwd, pc, mode == LookupCreate && i == last)
			if err != nil {
				return nil, err
			}
			cwd = next
		}
	}
	return cwd, nil
}

// step resolves the child name of dir and follows a mount over it.
// If create is true, a missing child is created.
func (vfs *VirtualFilesystem) step(dir *Dentry, name string, create bool) (*Dentry, error) {
	child, ok := vfs.dcache.Fetch(dir, name)
	if !ok {
		var err error
		child, err = dir.Inode().Lookup(dir, name)
		switch {
		case err == nil:
		case create && fserr.Equals(fserr.EntryNotFound, err):
			if child, err = dir.Inode().Touch(dir, name); err != nil {
				return nil, err
			}
			if log.IsLogging(log.Debug) {
				log.Debugf("Created %q in dentry %d", name, dir.ID())
			}
		default:
			return nil, err
		}
	}

	md, err := child.Inode().Metadata()
	if err != nil {
		return nil, err
	}
	if md.FileType != FileTypeDirectory {
		return child, nil
	}
	if mp, err := vfs.mounts.FindMount(child); err == nil {
		return mp.Root(), nil
	}
	return child, nil
}

// LookupPath resolves path in the context of ctx without creating anything.
// Absolute paths start at the root. Relative paths start at the working
// directory carried by ctx, or at the root if ctx has none.
func (vfs *VirtualFilesystem) LookupPath(ctx context.Context, path fspath.Path) (*Dentry, error) {
	return vfs.OpenAt(ctx, path, LookupNone)
}

// OpenAt resolves path like LookupPath, with mode controlling creation of
// the final component.
func (vfs *VirtualFilesystem) OpenAt(ctx context.Context, path fspath.Path, mode LookupMode) (*Dentry, error) {
	return vfs.LookupPathWith(vfs.startingPoint(ctx, path), path, mode)
}

// startingPoint returns the Dentry resolution of path begins at.
func (vfs *VirtualFilesystem) startingPoint(ctx context.Context, path fspath.Path) *Dentry {
	if !path.IsAbsolute() {
		if cwd := WorkingDirectoryFromContext(ctx); cwd != nil {
			return cwd
		}
	}
	return vfs.RootDir()
}
