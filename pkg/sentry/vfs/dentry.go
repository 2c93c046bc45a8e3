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

// Dentry represents a node in a Filesystem tree at which a file exists.
//
// A Dentry binds a name and a parent link to an Inode. Dentries are shared
// handles: every holder of a *Dentry refers to the same entry, and the entry
// stays alive for as long as any holder does. The parent link is a plain
// pointer, so a parent and its children keep each other alive; this is fine
// since the collector handles such cycles.
//
// Dentry is loosely analogous to Linux's struct dentry.
type Dentry struct {
	// id is the Dentry's cache identity. It is allocated by
	// VirtualFilesystem.NewDentry, is never reused, and is immutable.
	id uint64

	// inode is the Inode backing this Dentry. inode is immutable.
	inode Inode

	// mu protects name and parent. It is never held across a call into an
	// Inode, the MountManager or the DirectoryCache.
	mu dentryMutex

	// name is the name of this Dentry in its parent. For a filesystem root
	// this is changed at mount time to the name of the mount point.
	//
	// +checklocks:mu
	name string

	// parent is the Dentry containing this one, or nil for the root of the
	// VFS tree and for filesystem roots that have not been mounted.
	//
	// +checklocks:mu
	parent *Dentry
}

// ID returns d's cache identity.
func (d *Dentry) ID() uint64 {
	return d.id
}

// Inode returns the Inode backing d.
func (d *Dentry) Inode() Inode {
	return d.inode
}

// Name returns d's current name.
func (d *Dentry) Name() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.name
}

// Parent returns d's parent, or nil if d has none.
func (d *Dentry) Parent() *Dentry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.parent
}

// nameAndParent returns a consistent snapshot of d's name and parent.
func (d *Dentry) nameAndParent() (string, *Dentry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.name, d.parent
}

// setNameAndParent overwrites d's name and parent.
func (d *Dentry) setNameAndParent(name string, parent *Dentry) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.name = name
	d.parent = parent
}

// CacheKey returns the key identifying d in the mount table.
func (d *Dentry) CacheKey() CacheKey {
	return CacheKey{ID: d.id, Name: d.Name()}
}

// IsDir returns true if d's Inode is a directory. Inodes whose metadata
// cannot be read are not directories.
func (d *Dentry) IsDir() bool {
	md, err := d.inode.Metadata()
	return err == nil && md.FileType == FileTypeDirectory
}

// String implements fmt.Stringer.String.
func (d *Dentry) String() string {
	return d.Name()
}
