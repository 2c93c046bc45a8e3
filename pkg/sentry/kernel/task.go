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

// Package kernel provides the task state that filesystem operations run in.
package kernel

import (
	"context"

	"gvisor.dev/vfscore/pkg/fspath"
	"gvisor.dev/vfscore/pkg/sentry/vfs"
)

// Task represents a thread of execution issuing filesystem operations.
//
// A Task is a context.Context: passing it to VirtualFilesystem methods makes
// relative paths resolve from the Task's working directory.
type Task struct {
	context.Context

	// name is the task's name, used in log messages. name is immutable.
	name string

	// vfs is the filesystem the task operates on. vfs is immutable.
	vfs *vfs.VirtualFilesystem

	// fsContext is the task's filesystem context. fsContext is immutable.
	fsContext *FSContext
}

// NewTask returns a Task running in parent whose working directory starts at
// the root of vfsObj. vfsObj must be initialized.
func NewTask(parent context.Context, name string, vfsObj *vfs.VirtualFilesystem) *Task {
	root := vfsObj.RootDir()
	return &Task{
		Context:   parent,
		name:      name,
		vfs:       vfsObj,
		fsContext: NewFSContext(root, root),
	}
}

// Fork returns a child Task sharing t's filesystem but with its own copy of
// t's filesystem context.
func (t *Task) Fork(name string) *Task {
	return &Task{
		Context:   t.Context,
		name:      name,
		vfs:       t.vfs,
		fsContext: t.fsContext.Fork(),
	}
}

// Name returns t's name.
func (t *Task) Name() string {
	return t.name
}

// FSContext returns t's filesystem context.
func (t *Task) FSContext() *FSContext {
	return t.fsContext
}

// VFS returns the filesystem t operates on.
func (t *Task) VFS() *vfs.VirtualFilesystem {
	return t.vfs
}

// Chdir changes t's working directory to path.
func (t *Task) Chdir(path fspath.Path) error {
	return t.fsContext.Chdir(t, t.vfs, path)
}

// Value implements context.Context.Value.
func (t *Task) Value(key any) any {
	switch key {
	case CtxTask:
		return t
	case vfs.CtxWorkingDirectory:
		return t.fsContext.WorkingDirectory()
	default:
		return t.Context.Value(key)
	}
}
