// Copyright 2019 The gVisor Authors.
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
)

// MkdirAt creates a directory at the given path and returns its Dentry.
//
// The parent of path must exist and be a directory. Like mkdir(2), MkdirAt
// fails with fserr.EntryExists for paths naming "/", "." or "..".
func (vfs *VirtualFilesystem) MkdirAt(ctx context.Context, path fspath.Path) (*Dentry, error) {
	dirPath, name := path.ParentAndBasename()
	switch name {
	case "", ".", "..":
		return nil, fserr.EntryExists
	}
	parent, err := vfs.LookupPath(ctx, dirPath)
	if err != nil {
		return nil, err
	}
	if !parent.IsDir() {
		return nil, fserr.NotDirectory
	}
	return parent.Inode().Mkdir(name)
}

// AbsolutePath returns the path from the root of the VFS tree to d.
func (vfs *VirtualFilesystem) AbsolutePath(d *Dentry) fspath.Path {
	var b fspath.Builder
	for {
		name, parent := d.nameAndParent()
		if parent == nil {
			break
		}
		b.PrependComponent(name)
		d = parent
	}
	b.PrependByte('/')
	return b.Path()
}
