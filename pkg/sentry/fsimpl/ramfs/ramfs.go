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

// Package ramfs provides an in-memory filesystem of directories and regular
// files. The Dentry tree is the sole source of truth for the state of the
// filesystem.
//
// Lock order:
//
//	filesystem.mu
//	  regularFile.dataMu
package ramfs

import (
	"sync/atomic"

	"gvisor.dev/vfscore/pkg/sentry/vfs"
)

// Name is the default filesystem name.
const Name = "ramfs"

// Filesystem implements vfs.Filesystem.
type Filesystem struct {
	vfsObj *vfs.VirtualFilesystem

	// root is the root directory. root is immutable.
	root *vfs.Dentry

	// mu serializes changes to the Dentry tree.
	mu filesystemRWMutex

	// nextInoMinusOne is the last allocated inode number.
	nextInoMinusOne atomic.Uint64
}

// New returns a new, empty Filesystem whose Dentries are allocated from
// vfsObj.
func New(vfsObj *vfs.VirtualFilesystem) *Filesystem {
	fs := &Filesystem{vfsObj: vfsObj}
	fs.root = fs.newDentry("/", nil, fs.newDirectory())
	return fs
}

// Name implements vfs.Filesystem.Name.
func (fs *Filesystem) Name() string {
	return Name
}

// RootDir implements vfs.Filesystem.RootDir.
func (fs *Filesystem) RootDir() *vfs.Dentry {
	return fs.root
}

func (fs *Filesystem) nextIno() uint64 {
	return fs.nextInoMinusOne.Add(1)
}

// newDentry binds inode to a new Dentry. Directories learn their own Dentry
// so that Mkdir can parent new children.
func (fs *Filesystem) newDentry(name string, parent *vfs.Dentry, inode vfs.Inode) *vfs.Dentry {
	d := fs.vfsObj.NewDentry(name, parent, inode)
	if dir, ok := inode.(*directory); ok {
		dir.dentry = d
	}
	return d
}
