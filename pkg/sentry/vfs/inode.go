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
	"fmt"

	"gvisor.dev/vfscore/pkg/errors/fserr"
)

// FileType is the type of file represented by an Inode.
type FileType uint8

// Possible values for FileType.
const (
	FileTypeRegular FileType = iota
	FileTypeDirectory
	FileTypeCharDevice
)

// String implements fmt.Stringer.String.
func (ft FileType) String() string {
	switch ft {
	case FileTypeRegular:
		return "regular"
	case FileTypeDirectory:
		return "directory"
	case FileTypeCharDevice:
		return "chardev"
	default:
		return fmt.Sprintf("FileType(%d)", uint8(ft))
	}
}

// Metadata is the subset of file attributes the VFS layer consumes.
type Metadata struct {
	// ID is the inode number, unique within the owning filesystem.
	ID uint64

	// FileType is the type of the file.
	FileType FileType

	// Size is the file size in bytes. It is zero for directories and
	// devices.
	Size int64
}

// Dirent holds the information passed to IterDirentsCallback.
type Dirent struct {
	// Name is the filename.
	Name string

	// Type is the file type.
	Type FileType

	// Ino is the inode number.
	Ino uint64
}

// IterDirentsCallback receives items from Inode.IterDirents. Iteration stops
// when it returns false.
type IterDirentsCallback func(dirent Dirent) bool

// Inode is the backend of a Dentry. Inodes are implemented by filesystems;
// the VFS layer only calls through this interface.
//
// Inode methods may be called concurrently and must synchronize internally.
type Inode interface {
	// Lookup returns the child of dir named name. dir is the Dentry bound to
	// the receiver. On success, Lookup must also insert the child into the
	// VirtualFilesystem's DirectoryCache. If the child does not exist, Lookup
	// returns fserr.EntryNotFound.
	Lookup(dir *Dentry, name string) (*Dentry, error)

	// Touch creates a regular file named name in dir and returns its Dentry.
	// If name already exists, Touch returns fserr.EntryExists.
	Touch(dir *Dentry, name string) (*Dentry, error)

	// Mkdir creates a directory named name in the receiver and returns its
	// Dentry. If name already exists, Mkdir returns fserr.EntryExists.
	Mkdir(name string) (*Dentry, error)

	// Metadata returns the file's attributes.
	Metadata() (Metadata, error)

	// ReadAt reads into p starting at offset off. It follows the
	// io.ReaderAt contract.
	ReadAt(p []byte, off int64) (int, error)

	// WriteAt writes p at offset off. It follows the io.WriterAt contract.
	WriteAt(p []byte, off int64) (int, error)

	// IterDirents invokes cb on each entry in the directory in name order.
	IterDirents(cb IterDirentsCallback) error
}

// InodeDefaultImpl may be embedded by implementations of Inode to obtain
// default behavior for methods they don't implement. Directory operations
// fail with fserr.NotDirectory and data operations fail with
// fserr.NotSupported.
type InodeDefaultImpl struct{}

// Lookup implements Inode.Lookup.
func (InodeDefaultImpl) Lookup(dir *Dentry, name string) (*Dentry, error) {
	return nil, fserr.NotDirectory
}

// Touch implements Inode.Touch.
func (InodeDefaultImpl) Touch(dir *Dentry, name string) (*Dentry, error) {
	return nil, fserr.NotDirectory
}

// Mkdir implements Inode.Mkdir.
func (InodeDefaultImpl) Mkdir(name string) (*Dentry, error) {
	return nil, fserr.NotDirectory
}

// ReadAt implements Inode.ReadAt.
func (InodeDefaultImpl) ReadAt(p []byte, off int64) (int, error) {
	return 0, fserr.NotSupported
}

// WriteAt implements Inode.WriteAt.
func (InodeDefaultImpl) WriteAt(p []byte, off int64) (int, error) {
	return 0, fserr.NotSupported
}

// IterDirents implements Inode.IterDirents.
func (InodeDefaultImpl) IterDirents(cb IterDirentsCallback) error {
	return fserr.NotDirectory
}
