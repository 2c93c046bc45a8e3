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

package devfs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sys/unix"
	"gvisor.dev/vfscore/pkg/errors/fserr"
	"gvisor.dev/vfscore/pkg/fspath"
	"gvisor.dev/vfscore/pkg/log"
	"gvisor.dev/vfscore/pkg/sentry/fsimpl/ramfs"
	"gvisor.dev/vfscore/pkg/sentry/vfs"
	"gvisor.dev/vfscore/pkg/sync"
)

// recordingLogger is a log.Logger that keeps formatted messages.
type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingLogger) record(format string, v ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, fmt.Sprintf(format, v...))
}

func (r *recordingLogger) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func (r *recordingLogger) Debugf(format string, v ...any)   { r.record(format, v...) }
func (r *recordingLogger) Infof(format string, v ...any)    { r.record(format, v...) }
func (r *recordingLogger) Warningf(format string, v ...any) { r.record(format, v...) }
func (r *recordingLogger) IsLogging(log.Level) bool         { return true }

func newMountedVFS(t *testing.T, opts Options) (*vfs.VirtualFilesystem, *Filesystem) {
	t.Helper()
	ctx := context.Background()
	vfsObj := vfs.New()
	if err := vfsObj.Init(ramfs.New(vfsObj)); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := vfsObj.MkdirAt(ctx, MountPath); err != nil {
		t.Fatalf("MkdirAt(%s) failed: %v", MountPath, err)
	}
	fs, err := Init(ctx, vfsObj, opts)
	if err != nil {
		t.Fatalf("devfs.Init failed: %v", err)
	}
	return vfsObj, fs
}

func TestInitMountsAtDev(t *testing.T) {
	vfsObj, fs := newMountedVFS(t, Options{})
	ctx := context.Background()

	dev, err := vfsObj.LookupPath(ctx, "/dev")
	if err != nil {
		t.Fatalf("LookupPath(/dev) failed: %v", err)
	}
	if dev != fs.RootDir() {
		t.Errorf("/dev resolved to %d, want the devfs root %d", dev.ID(), fs.RootDir().ID())
	}
	if got := vfsObj.AbsolutePath(dev); got != MountPath {
		t.Errorf("AbsolutePath(devfs root) = %q, want %q", got, MountPath)
	}
	up, err := vfsObj.LookupPath(ctx, "/dev/..")
	if err != nil {
		t.Fatalf("LookupPath(/dev/..) failed: %v", err)
	}
	if up != vfsObj.RootDir() {
		t.Errorf("/dev/.. resolved to %q, want the root", up.Name())
	}

	for _, name := range []string{"null", "zero", "kmsg"} {
		d, err := vfsObj.LookupPath(ctx, MountPath+"/"+fspath.Path(name))
		if err != nil {
			t.Errorf("LookupPath(/dev/%s) failed: %v", name, err)
			continue
		}
		md, err := d.Inode().Metadata()
		if err != nil || md.FileType != vfs.FileTypeCharDevice {
			t.Errorf("/dev/%s metadata = %+v, %v; want a character device", name, md, err)
		}
	}
}

func TestLookupPopulatesDirectoryCache(t *testing.T) {
	vfsObj, fs := newMountedVFS(t, Options{})
	dcache := vfsObj.DirectoryCache()
	if _, ok := dcache.Fetch(fs.RootDir(), "null"); ok {
		t.Fatalf("null cached before any lookup")
	}
	null, err := vfsObj.LookupPath(context.Background(), "/dev/null")
	if err != nil {
		t.Fatalf("LookupPath(/dev/null) failed: %v", err)
	}
	got, ok := dcache.Fetch(fs.RootDir(), "null")
	if !ok {
		t.Fatalf("null not cached after LookupPath(/dev/null)")
	}
	if got != null {
		t.Errorf("cached Dentry %d, want %d", got.ID(), null.ID())
	}
	if _, ok := dcache.Fetch(fs.RootDir(), "zero"); ok {
		t.Errorf("zero cached without a lookup")
	}
}

func TestInitWithoutDev(t *testing.T) {
	ctx := context.Background()
	vfsObj := vfs.New()
	if err := vfsObj.Init(ramfs.New(vfsObj)); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := Init(ctx, vfsObj, Options{}); fserr.ToUnix(err) != unix.ENOENT {
		t.Errorf("Init without /dev got error %v, want %v", err, fserr.EntryNotFound)
	}
}

func TestInitTwice(t *testing.T) {
	vfsObj, _ := newMountedVFS(t, Options{})
	// /dev now resolves to the devfs root, which is not itself mounted over,
	// so the second mount stacks on the devfs root.
	if _, err := Init(context.Background(), vfsObj, Options{}); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	if n := len(vfsObj.Mounts().Mounts()); n != 2 {
		t.Errorf("mount table has %d entries, want 2", n)
	}
}

func TestRootIsReadOnly(t *testing.T) {
	_, fs := newMountedVFS(t, Options{})
	root := fs.RootDir()
	if _, err := root.Inode().Touch(root, "new"); err != fserr.NotSupported {
		t.Errorf("Touch got error %v, want %v", err, fserr.NotSupported)
	}
	if _, err := root.Inode().Mkdir("new"); err != fserr.NotSupported {
		t.Errorf("Mkdir got error %v, want %v", err, fserr.NotSupported)
	}

	var names []string
	root.Inode().IterDirents(func(d vfs.Dirent) bool {
		names = append(names, d.Name)
		return true
	})
	if diff := cmp.Diff([]string{"kmsg", "null", "zero"}, names); diff != "" {
		t.Errorf("IterDirents mismatch (-want +got):\n%s", diff)
	}
}

func TestNullAndZero(t *testing.T) {
	_, fs := newMountedVFS(t, Options{})
	null := fs.devices["null"].Inode()
	zero := fs.devices["zero"].Inode()

	buf := []byte("xxxx")
	if n, err := null.ReadAt(buf, 0); n != 0 || err != io.EOF {
		t.Errorf("null ReadAt = %d, %v; want 0, EOF", n, err)
	}
	if n, err := null.WriteAt(buf, 0); n != len(buf) || err != nil {
		t.Errorf("null WriteAt = %d, %v; want %d, nil", n, err, len(buf))
	}
	if n, err := zero.ReadAt(buf, 7); n != len(buf) || err != nil {
		t.Errorf("zero ReadAt = %d, %v; want %d, nil", n, err, len(buf))
	}
	if !bytes.Equal(buf, make([]byte, len(buf))) {
		t.Errorf("zero ReadAt filled %q, want zeros", buf)
	}
	if _, err := null.Lookup(fs.devices["null"], "x"); err != fserr.NotDirectory {
		t.Errorf("Lookup in null got error %v, want %v", err, fserr.NotDirectory)
	}
}

func TestKmsg(t *testing.T) {
	rec := &recordingLogger{}
	_, fs := newMountedVFS(t, Options{KmsgLogger: rec})
	kmsg := fs.devices["kmsg"].Inode()

	for _, chunk := range []string{"hello ", "world\nsecond", " line\n", "tail"} {
		if n, err := kmsg.WriteAt([]byte(chunk), 0); n != len(chunk) || err != nil {
			t.Fatalf("kmsg WriteAt(%q) = %d, %v", chunk, n, err)
		}
	}
	want := []string{"kmsg: hello world", "kmsg: second line"}
	if diff := cmp.Diff(want, rec.Messages()); diff != "" {
		t.Errorf("kmsg log mismatch (-want +got):\n%s", diff)
	}

	long := strings.Repeat("x", maxKmsgLine+10)
	kmsg.WriteAt([]byte(long), 0)
	if got := len(rec.Messages()); got != 3 {
		t.Errorf("overlong line produced %d messages in total, want 3", got)
	}
}
