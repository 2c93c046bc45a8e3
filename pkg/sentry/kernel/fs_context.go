// Copyright 2018 The gVisor Authors.
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

package kernel

import (
	"context"
	"fmt"

	"gvisor.dev/vfscore/pkg/errors/fserr"
	"gvisor.dev/vfscore/pkg/fspath"
	"gvisor.dev/vfscore/pkg/sentry/vfs"
)

// FSContext contains filesystem context.
//
// This includes the root and working directory.
type FSContext struct {
	// mu protects below.
	mu fsContextMutex

	// root is the filesystem root. root is immutable.
	root *vfs.Dentry

	// cwd is the current working directory.
	//
	// +checklocks:mu
	cwd *vfs.Dentry
}

// NewFSContext returns a new filesystem context.
func NewFSContext(root, cwd *vfs.Dentry) *FSContext {
	if root == nil || cwd == nil {
		panic(fmt.Sprintf("NewFSContext(%v, %v) called with a nil directory", root, cwd))
	}
	return &FSContext{
		root: root,
		cwd:  cwd,
	}
}

// Fork forks this FSContext. The fork starts in the same working directory
// and changes independently of f.
func (f *FSContext) Fork() *FSContext {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &FSContext{
		root: f.root,
		cwd:  f.cwd,
	}
}

// WorkingDirectory returns the current working directory.
func (f *FSContext) WorkingDirectory() *vfs.Dentry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cwd
}

// SetWorkingDirectory sets the current working directory.
func (f *FSContext) SetWorkingDirectory(d *vfs.Dentry) {
	if d == nil {
		panic("FSContext.SetWorkingDirectory called with nil directory")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cwd = d
}

// RootDirectory returns the root directory.
func (f *FSContext) RootDirectory() *vfs.Dentry {
	return f.root
}

// Chdir resolves path in ctx and makes the result the working directory. The
// target must be a directory; otherwise Chdir returns fserr.NotDirectory.
func (f *FSContext) Chdir(ctx context.Context, vfsObj *vfs.VirtualFilesystem, path fspath.Path) error {
	d, err := vfsObj.LookupPath(ctx, path)
	if err != nil {
		return err
	}
	if !d.IsDir() {
		return fserr.NotDirectory
	}
	f.SetWorkingDirectory(d)
	return nil
}
