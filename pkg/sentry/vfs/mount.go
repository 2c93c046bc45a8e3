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
	"cmp"
	"slices"

	"gvisor.dev/vfscore/pkg/errors/fserr"
	"gvisor.dev/vfscore/pkg/log"
)

// CacheKey identifies a mount point: the cache identity of the Dentry that is
// mounted over, together with its name.
type CacheKey struct {
	ID   uint64
	Name string
}

// A MountPoint is a replacement of a Dentry (MountPoint.Origin()) with the
// root Dentry (MountPoint.Root()) of another Filesystem (MountPoint.
// Filesystem()). Path resolution that reaches the origin continues at the
// root instead.
//
// MountPoints are immutable values; copies share the underlying Filesystem
// and Dentries.
type MountPoint struct {
	fs     Filesystem
	root   *Dentry
	origin *Dentry
}

// Filesystem returns the mounted Filesystem.
func (mp MountPoint) Filesystem() Filesystem {
	return mp.fs
}

// Root returns the root Dentry of the mounted Filesystem.
func (mp MountPoint) Root() *Dentry {
	return mp.root
}

// Origin returns the Dentry that the Filesystem is mounted over.
func (mp MountPoint) Origin() *Dentry {
	return mp.origin
}

// MountManager is the table of mounts of a VirtualFilesystem.
//
// Lock order:
//
//	MountManager.mu
//	  Dentry.mu
//
// Mounts are permanent: there is no unmount.
type MountManager struct {
	mu mountTableMutex

	// +checklocks:mu
	mounts map[CacheKey]MountPoint
}

// Mount mounts fs over dir. Subsequent resolution of dir is redirected to
// fs.RootDir(), which takes on dir's name and parent so that ".." from the
// mounted root leads to dir's parent.
//
// If dir is already a mount point, Mount returns fserr.EntryExists.
func (mm *MountManager) Mount(dir *Dentry, fs Filesystem) error {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	key := dir.CacheKey()
	if _, ok := mm.mounts[key]; ok {
		return fserr.EntryExists
	}

	root := fs.RootDir()
	name, parent := dir.nameAndParent()
	root.setNameAndParent(name, parent)

	if mm.mounts == nil {
		mm.mounts = make(map[CacheKey]MountPoint)
	}
	mm.mounts[key] = MountPoint{
		fs:     fs,
		root:   root,
		origin: dir,
	}
	log.Infof("Mounted %s at %q (dentry %d)", fs.Name(), name, key.ID)
	return nil
}

// FindMount returns the MountPoint whose origin is dir. If dir is not a mount
// point, FindMount returns fserr.EntryNotFound.
func (mm *MountManager) FindMount(dir *Dentry) (MountPoint, error) {
	key := dir.CacheKey()
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mp, ok := mm.mounts[key]
	if !ok {
		return MountPoint{}, fserr.EntryNotFound
	}
	return mp, nil
}

// Mounts returns a snapshot of all mount points ordered by origin identity.
func (mm *MountManager) Mounts() []MountPoint {
	mm.mu.Lock()
	mps := make([]MountPoint, 0, len(mm.mounts))
	for _, mp := range mm.mounts {
		mps = append(mps, mp)
	}
	mm.mu.Unlock()
	slices.SortFunc(mps, func(a, b MountPoint) int {
		return cmp.Compare(a.origin.ID(), b.origin.ID())
	})
	return mps
}
