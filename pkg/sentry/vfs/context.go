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

import (
	"context"
)

// contextID is this package's type for context.Context.Value keys.
type contextID int

const (
	// CtxWorkingDirectory is a Context.Value key for the Dentry that
	// relative paths are resolved from.
	CtxWorkingDirectory contextID = iota
)

// WorkingDirectoryFromContext returns the working directory used by ctx. If
// ctx does not have a working directory, WorkingDirectoryFromContext returns
// nil.
func WorkingDirectoryFromContext(ctx context.Context) *Dentry {
	if v := ctx.Value(CtxWorkingDirectory); v != nil {
		return v.(*Dentry)
	}
	return nil
}

type workingDirectoryContext struct {
	context.Context
	cwd *Dentry
}

// WithWorkingDirectory returns a copy of ctx with the given working
// directory.
func WithWorkingDirectory(ctx context.Context, cwd *Dentry) context.Context {
	return &workingDirectoryContext{
		Context: ctx,
		cwd:     cwd,
	}
}

// Value implements Context.Value.
func (wc *workingDirectoryContext) Value(key any) any {
	switch key {
	case CtxWorkingDirectory:
		return wc.cwd
	default:
		return wc.Context.Value(key)
	}
}
