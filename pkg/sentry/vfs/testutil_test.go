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
	"sync/atomic"
	"testing"

	"gvisor.dev/vfscore/pkg/errors/fserr"
	"gvisor.dev/vfscore/pkg/sync"
)

// testInode is a minimal in-memory Inode that counts Lookup calls.
type testInode struct {
	InodeDefaultImpl

	vfs *VirtualFilesystem
	id  uint64
	ft  FileType

	// self is the Dentry bound to this inode.
	self *Dentry

	// mdErr, if not nil, is returned by Metadata.
	mdErr error

	lookups atomic.Int32

	mu       sync.Mutex
	children map[string]*Dentry
}

var lastTestIno atomic.Uint64

func newTestInode(vfsObj *VirtualFilesystem, ft FileType) *testInode {
	return &testInode{
		vfs:      vfsObj,
		id:       lastTestIno.Add(1),
		ft:       ft,
		children: make(map[string]*Dentry),
	}
}

// Lookup implements Inode.Lookup.
func (i *testInode) Lookup(dir *Dentry, name string) (*Dentry, error) {
	if i.ft != FileTypeDirectory {
		return nil, fserr.NotDirectory
	}
	i.lookups.Add(1)
	i.mu.Lock()
	defer i.mu.Unlock()
	d, ok := i.children[name]
	if !ok {
		return nil, fserr.EntryNotFound
	}
	return d, nil
}

// Touch implements Inode.Touch.
func (i *testInode) Touch(dir *Dentry, name string) (*Dentry, error) {
	return i.create(dir, name, FileTypeRegular)
}

// Mkdir implements Inode.Mkdir.
func (i *testInode) Mkdir(name string) (*Dentry, error) {
	return i.create(i.self, name, FileTypeDirectory)
}

func (i *testInode) create(dir *Dentry, name string, ft FileType) (*Dentry, error) {
	if i.ft != FileTypeDirectory {
		return nil, fserr.NotDirectory
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := i.children[name]; ok {
		return nil, fserr.EntryExists
	}
	child := newTestInode(i.vfs, ft)
	d := i.vfs.NewDentry(name, dir, child)
	child.self = d
	i.children[name] = d
	return d, nil
}

// Metadata implements Inode.Metadata.
func (i *testInode) Metadata() (Metadata, error) {
	if i.mdErr != nil {
		return Metadata{}, i.mdErr
	}
	return Metadata{ID: i.id, FileType: i.ft}, nil
}

// testFilesystem is a Filesystem of testInodes.
type testFilesystem struct {
	name string
	root *Dentry
}

func newTestFilesystem(vfsObj *VirtualFilesystem, name string) *testFilesystem {
	inode := newTestInode(vfsObj, FileTypeDirectory)
	root := vfsObj.NewDentry("/", nil, inode)
	inode.self = root
	return &testFilesystem{name: name, root: root}
}

// Name implements Filesystem.Name.
func (fs *testFilesystem) Name() string {
	return fs.name
}

// RootDir implements Filesystem.RootDir.
func (fs *testFilesystem) RootDir() *Dentry {
	return fs.root
}

// newTestVFS returns an initialized VirtualFilesystem rooted at a
// testFilesystem.
func newTestVFS(t *testing.T) (*VirtualFilesystem, *testFilesystem) {
	t.Helper()
	vfsObj := New()
	fs := newTestFilesystem(vfsObj, "testfs")
	if err := vfsObj.Init(fs); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return vfsObj, fs
}

func testInodeOf(d *Dentry) *testInode {
	return d.Inode().(*testInode)
}

func mustMkdir(t *testing.T, dir *Dentry, name string) *Dentry {
	t.Helper()
	d, err := dir.Inode().Mkdir(name)
	if err != nil {
		t.Fatalf("Mkdir(%q) in %q failed: %v", name, dir.Name(), err)
	}
	return d
}

func mustTouch(t *testing.T, dir *Dentry, name string) *Dentry {
	t.Helper()
	d, err := dir.Inode().Touch(dir, name)
	if err != nil {
		t.Fatalf("Touch(%q) in %q failed: %v", name, dir.Name(), err)
	}
	return d
}
