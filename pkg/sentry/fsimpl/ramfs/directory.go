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

package ramfs

import (
	"maps"
	"slices"

	"gvisor.dev/vfscore/pkg/errors/fserr"
	"gvisor.dev/vfscore/pkg/sentry/vfs"
)

// directory implements vfs.Inode for ramfs directories.
type directory struct {
	vfs.InodeDefaultImpl

	fs  *Filesystem
	ino uint64

	// dentry is the Dentry bound to this directory. It is set once, when the
	// Dentry is created.
	dentry *vfs.Dentry

	// children maps names to child Dentries. children is protected by
	// fs.mu.
	children map[string]*vfs.Dentry
}

func (fs *Filesystem) newDirectory() *directory {
	return &directory{
		fs:       fs,
		ino:      fs.nextIno(),
		children: make(map[string]*vfs.Dentry),
	}
}

// Lookup implements vfs.Inode.Lookup. Found children are added to the
// directory cache.
func (dir *directory) Lookup(parent *vfs.Dentry, name string) (*vfs.Dentry, error) {
	dir.fs.mu.RLock()
	child, ok := dir.children[name]
	dir.fs.mu.RUnlock()
	if !ok {
		return nil, fserr.EntryNotFound
	}
	dir.fs.vfsObj.DirectoryCache().Insert(child)
	return child, nil
}

// Touch implements vfs.Inode.Touch.
func (dir *directory) Touch(parent *vfs.Dentry, name string) (*vfs.Dentry, error) {
	return dir.insertChild(parent, name, dir.fs.newRegularFile())
}

// Mkdir implements vfs.Inode.Mkdir.
func (dir *directory) Mkdir(name string) (*vfs.Dentry, error) {
	return dir.insertChild(dir.dentry, name, dir.fs.newDirectory())
}

func (dir *directory) insertChild(parent *vfs.Dentry, name string, inode vfs.Inode) (*vfs.Dentry, error) {
	switch name {
	case "", ".", "..":
		return nil, fserr.EntryExists
	}
	dir.fs.mu.Lock()
	if _, ok := dir.children[name]; ok {
		dir.fs.mu.Unlock()
		return nil, fserr.EntryExists
	}
	child := dir.fs.newDentry(name, parent, inode)
	dir.children[name] = child
	dir.fs.mu.Unlock()

	dir.fs.vfsObj.DirectoryCache().Insert(child)
	return child, nil
}

// Metadata implements vfs.Inode.Metadata.
func (dir *directory) Metadata() (vfs.Metadata, error) {
	return vfs.Metadata{
		ID:       dir.ino,
		FileType: vfs.FileTypeDirectory,
	}, nil
}

// IterDirents implements vfs.Inode.IterDirents.
func (dir *directory) IterDirents(cb vfs.IterDirentsCallback) error {
	dir.fs.mu.RLock()
	children := maps.Clone(dir.children)
	dir.fs.mu.RUnlock()

	for _, name := range slices.Sorted(maps.Keys(children)) {
		md, err := children[name].Inode().Metadata()
		if err != nil {
			return err
		}
		if !cb(vfs.Dirent{Name: name, Type: md.FileType, Ino: md.ID}) {
			return nil
		}
	}
	return nil
}
