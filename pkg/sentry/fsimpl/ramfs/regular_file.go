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
	"io"
	"math"
	"slices"

	"golang.org/x/sys/unix"
	"gvisor.dev/vfscore/pkg/errors"
	"gvisor.dev/vfscore/pkg/sentry/vfs"
	"gvisor.dev/vfscore/pkg/sync"
)

var (
	errNegativeOffset = errors.New(unix.EINVAL, "negative offset")
	errFileTooBig     = errors.New(unix.EFBIG, "file too large")
)

// regularFile implements vfs.Inode for ramfs regular files.
type regularFile struct {
	vfs.InodeDefaultImpl

	ino uint64

	// dataMu protects data.
	dataMu sync.RWMutex

	// data is the file contents. Holes created by writes past the end are
	// zero-filled.
	//
	// +checklocks:dataMu
	data []byte
}

func (fs *Filesystem) newRegularFile() *regularFile {
	return &regularFile{ino: fs.nextIno()}
}

// Metadata implements vfs.Inode.Metadata.
func (rf *regularFile) Metadata() (vfs.Metadata, error) {
	rf.dataMu.RLock()
	defer rf.dataMu.RUnlock()
	return vfs.Metadata{
		ID:       rf.ino,
		FileType: vfs.FileTypeRegular,
		Size:     int64(len(rf.data)),
	}, nil
}

// ReadAt implements vfs.Inode.ReadAt.
func (rf *regularFile) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errNegativeOffset
	}
	rf.dataMu.RLock()
	defer rf.dataMu.RUnlock()
	if off >= int64(len(rf.data)) {
		return 0, io.EOF
	}
	n := copy(p, rf.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt implements vfs.Inode.WriteAt.
func (rf *regularFile) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errNegativeOffset
	}
	if len(p) == 0 {
		return 0, nil
	}
	if off > math.MaxInt-int64(len(p)) {
		return 0, errFileTooBig
	}
	end := int(off) + len(p)
	rf.dataMu.Lock()
	defer rf.dataMu.Unlock()
	if oldLen := len(rf.data); end > oldLen {
		rf.data = slices.Grow(rf.data, end-oldLen)[:end]
		if hole := int(off); hole > oldLen {
			clear(rf.data[oldLen:hole])
		}
	}
	return copy(rf.data[off:], p), nil
}
