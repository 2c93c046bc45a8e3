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

// Package devfs provides a filesystem implementation for /dev. Its root holds
// a fixed set of character devices and cannot be modified.
package devfs

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"gvisor.dev/vfscore/pkg/errors/fserr"
	"gvisor.dev/vfscore/pkg/fspath"
	"gvisor.dev/vfscore/pkg/log"
	"gvisor.dev/vfscore/pkg/sentry/vfs"
)

// Name is the dev filesystem name.
const Name = "devfs"

// MountPath is where Init mounts devfs.
const MountPath fspath.Path = "/dev"

const (
	// kmsgEvery and kmsgBurst limit the rate at which writes to /dev/kmsg
	// reach the log.
	kmsgEvery = time.Second
	kmsgBurst = 32
)

const rootIno = 1

// Options configures a devfs Filesystem.
type Options struct {
	// KmsgLogger receives lines written to /dev/kmsg. If nil, lines go to the
	// global logger, rate limited.
	KmsgLogger log.Logger
}

// Filesystem implements vfs.Filesystem.
type Filesystem struct {
	// vfsObj is the VirtualFilesystem that owns the directory cache. vfsObj
	// is immutable.
	vfsObj *vfs.VirtualFilesystem

	// root is the root directory. root is immutable.
	root *vfs.Dentry

	// devices maps device names to Dentries. devices is immutable.
	devices map[string]*vfs.Dentry
}

// New returns a devfs Filesystem holding the null, zero and kmsg devices.
func New(vfsObj *vfs.VirtualFilesystem, opts Options) *Filesystem {
	kmsgLogger := opts.KmsgLogger
	if kmsgLogger == nil {
		kmsgLogger = log.BasicRateLimitedLogger(kmsgEvery, kmsgBurst)
	}

	fs := &Filesystem{
		vfsObj:  vfsObj,
		devices: make(map[string]*vfs.Dentry),
	}
	dir := &rootDirectory{fs: fs}
	fs.root = vfsObj.NewDentry("/", nil, dir)

	for i, dev := range []struct {
		name string
		dev  device
	}{
		{"null", nullDevice{}},
		{"zero", zeroDevice{}},
		{"kmsg", &kmsgDevice{logger: kmsgLogger}},
	} {
		inode := &deviceInode{dev: dev.dev, ino: rootIno + 1 + uint64(i)}
		fs.devices[dev.name] = vfsObj.NewDentry(dev.name, fs.root, inode)
	}
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

// Init creates a devfs Filesystem and mounts it over MountPath, which must
// already exist.
func Init(ctx context.Context, vfsObj *vfs.VirtualFilesystem, opts Options) (*Filesystem, error) {
	dev, err := vfsObj.LookupPath(ctx, MountPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", MountPath, err)
	}
	fs := New(vfsObj, opts)
	if err := vfsObj.Mounts().Mount(dev, fs); err != nil {
		return nil, fmt.Errorf("failed to mount devfs at %s: %w", MountPath, err)
	}
	log.Infof("Installed devfs")
	return fs, nil
}

// rootDirectory implements vfs.Inode for the devfs root.
type rootDirectory struct {
	vfs.InodeDefaultImpl

	fs *Filesystem
}

// Lookup implements vfs.Inode.Lookup.
func (dir *rootDirectory) Lookup(parent *vfs.Dentry, name string) (*vfs.Dentry, error) {
	d, ok := dir.fs.devices[name]
	if !ok {
		return nil, fserr.EntryNotFound
	}
	dir.fs.vfsObj.DirectoryCache().Insert(d)
	return d, nil
}

// Touch implements vfs.Inode.Touch.
func (dir *rootDirectory) Touch(parent *vfs.Dentry, name string) (*vfs.Dentry, error) {
	return nil, fserr.NotSupported
}

// Mkdir implements vfs.Inode.Mkdir.
func (dir *rootDirectory) Mkdir(name string) (*vfs.Dentry, error) {
	return nil, fserr.NotSupported
}

// Metadata implements vfs.Inode.Metadata.
func (dir *rootDirectory) Metadata() (vfs.Metadata, error) {
	return vfs.Metadata{ID: rootIno, FileType: vfs.FileTypeDirectory}, nil
}

// IterDirents implements vfs.Inode.IterDirents.
func (dir *rootDirectory) IterDirents(cb vfs.IterDirentsCallback) error {
	for _, name := range slices.Sorted(maps.Keys(dir.fs.devices)) {
		md, err := dir.fs.devices[name].Inode().Metadata()
		if err != nil {
			return err
		}
		if !cb(vfs.Dirent{Name: name, Type: md.FileType, Ino: md.ID}) {
			return nil
		}
	}
	return nil
}
