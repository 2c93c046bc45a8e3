// Copyright 2020 The gVisor Authors.
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

package devfs

import (
	"bytes"
	"io"

	"gvisor.dev/vfscore/pkg/log"
	"gvisor.dev/vfscore/pkg/sentry/vfs"
	"gvisor.dev/vfscore/pkg/sync"
)

// device is the data path of a character device.
type device interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
}

// deviceInode implements vfs.Inode for a character device.
type deviceInode struct {
	vfs.InodeDefaultImpl

	dev device
	ino uint64
}

// Metadata implements vfs.Inode.Metadata.
func (i *deviceInode) Metadata() (vfs.Metadata, error) {
	return vfs.Metadata{ID: i.ino, FileType: vfs.FileTypeCharDevice}, nil
}

// ReadAt implements vfs.Inode.ReadAt.
func (i *deviceInode) ReadAt(p []byte, off int64) (int, error) {
	return i.dev.ReadAt(p, off)
}

// WriteAt implements vfs.Inode.WriteAt.
func (i *deviceInode) WriteAt(p []byte, off int64) (int, error) {
	return i.dev.WriteAt(p, off)
}

// nullDevice implements device for /dev/null.
type nullDevice struct{}

// ReadAt implements device.ReadAt.
func (nullDevice) ReadAt(p []byte, off int64) (int, error) {
	return 0, io.EOF
}

// WriteAt implements device.WriteAt.
func (nullDevice) WriteAt(p []byte, off int64) (int, error) {
	return len(p), nil
}

// zeroDevice implements device for /dev/zero.
type zeroDevice struct{}

// ReadAt implements device.ReadAt.
func (zeroDevice) ReadAt(p []byte, off int64) (int, error) {
	clear(p)
	return len(p), nil
}

// WriteAt implements device.WriteAt.
func (zeroDevice) WriteAt(p []byte, off int64) (int, error) {
	return len(p), nil
}

// kmsgDevice implements device for /dev/kmsg. Each line written is logged;
// a trailing partial line is held until it is completed. Reads return EOF.
type kmsgDevice struct {
	logger log.Logger

	mu sync.Mutex

	// partial is the unterminated tail of previous writes.
	//
	// +checklocks:mu
	partial []byte
}

// maxKmsgLine bounds a held partial line; longer lines are logged in pieces.
const maxKmsgLine = 1024

// ReadAt implements device.ReadAt.
func (*kmsgDevice) ReadAt(p []byte, off int64) (int, error) {
	return 0, io.EOF
}

// WriteAt implements device.WriteAt.
func (k *kmsgDevice) WriteAt(p []byte, off int64) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.partial = append(k.partial, p...)
	for {
		i := bytes.IndexByte(k.partial, '\n')
		if i < 0 {
			break
		}
		k.logger.Infof("kmsg: %s", k.partial[:i])
		k.partial = k.partial[i+1:]
	}
	for len(k.partial) >= maxKmsgLine {
		k.logger.Infof("kmsg: %s", k.partial[:maxKmsgLine])
		k.partial = k.partial[maxKmsgLine:]
	}
	if len(k.partial) == 0 {
		k.partial = nil
	}
	return len(p), nil
}
