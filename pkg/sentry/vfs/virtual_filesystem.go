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

// Package vfs implements a virtual filesystem layer: a tree of Dentries
// spanning one or more Filesystems, a mount table that splices Filesystems
// into the tree, and path resolution over both.
//
// Lock order:
//
//	MountManager.mu
//	  Dentry.mu
//
// DirectoryCache.mu is a leaf lock and is never held with any other lock.
package vfs

import (
	"fmt"
	"sync/atomic"

	"gvisor.dev/vfscore/pkg/errors/fserr"
	"gvisor.dev/vfscore/pkg/log"
	"gvisor.dev/vfscore/pkg/sync"
)

// A VirtualFilesystem (VFS for short) combines Filesystems in trees of Mounts.
//
// There is usually only one instance of VirtualFilesystem per kernel. It is
// created with New and becomes usable once Init has installed the root
// Filesystem.
type VirtualFilesystem struct {
	// initOnce guards installation of the root.
	initOnce sync.Once

	// rootFS is the Filesystem mounted at "/". It is set by Init.
	rootFS atomic.Pointer[Filesystem]

	// root is rootFS's root directory. It is set by Init.
	root atomic.Pointer[Dentry]

	// mounts is the mount table.
	mounts MountManager

	// dcache caches resolved directory entries.
	dcache *DirectoryCache

	// lastDentryID is the last allocated Dentry identity.
	lastDentryID atomic.Uint64
}

// New returns a VirtualFilesystem with no root. Filesystems may allocate
// Dentries from it before Init is called.
func New() *VirtualFilesystem {
	return &VirtualFilesystem{
		dcache: NewDirectoryCache(),
	}
}

// Init installs rootFS as the root of vfs. Only the first call has an
// effect; later calls return nil if they pass the installed Filesystem, and
// fserr.Busy otherwise.
func (vfs *VirtualFilesystem) Init(rootFS Filesystem) error {
	installed := false
	vfs.initOnce.Do(func() {
		root := rootFS.RootDir()
		if root == nil {
			panic(fmt.Sprintf("%s has no root directory", rootFS.Name()))
		}
		vfs.rootFS.Store(&rootFS)
		vfs.root.Store(root)
		installed = true
	})
	if installed {
		log.Infof("Installed %s as the root filesystem", rootFS.Name())
		return nil
	}
	if p := vfs.rootFS.Load(); p == nil || *p != rootFS {
		return fserr.Busy
	}
	return nil
}

// RootDir returns the root directory of vfs. It panics if Init has not been
// called.
func (vfs *VirtualFilesystem) RootDir() *Dentry {
	root := vfs.root.Load()
	if root == nil {
		panic("vfs: RootDir called before Init")
	}
	return root
}

// RootFilesystem returns the Filesystem installed by Init, or nil.
func (vfs *VirtualFilesystem) RootFilesystem() Filesystem {
	if fs := vfs.rootFS.Load(); fs != nil {
		return *fs
	}
	return nil
}

// Mounts returns the mount table of vfs.
func (vfs *VirtualFilesystem) Mounts() *MountManager {
	return &vfs.mounts
}

// DirectoryCache returns the directory cache of vfs.
func (vfs *VirtualFilesystem) DirectoryCache() *DirectoryCache {
	return vfs.dcache
}

// NewDentry returns a new Dentry named name under parent, backed by inode,
// with a fresh cache identity. parent may be nil for filesystem roots.
func (vfs *VirtualFilesystem) NewDentry(name string, parent *Dentry, inode Inode) *Dentry {
	return &Dentry{
		id:     vfs.lastDentryID.Add(1),
		inode:  inode,
		name:   name,
		parent: parent,
	}
}
