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


// Package fserr contains the errors returned by filesystem operations,
// exported as *errors.Error pointers. Comparisons are pointer comparisons, and
// every error converts to a fixed syscall errno.
package fserr

import (
	"golang.org/x/sys/unix"
	"gvisor.dev/vfscore/pkg/errors"
)

// The filesystem error taxonomy. The errno attached to each error is the value
// surfaced at the system call boundary; note that NotSupported is reported as
// EACCES, not EOPNOTSUPP.
var (
	NotSupported  = errors.New(unix.EACCES, "operation not supported")
	EntryExists   = errors.New(unix.EEXIST, "entry exists")
	EntryNotFound = errors.New(unix.ENOENT, "entry not found")
	Busy          = errors.New(unix.EBUSY, "resource busy")
	NotDirectory  = errors.New(unix.ENOTDIR, "not a directory")
)

var errorsByErrno = map[unix.Errno]*errors.Error{
	unix.EACCES:  NotSupported,
	unix.EEXIST:  EntryExists,
	unix.ENOENT:  EntryNotFound,
	unix.EBUSY:   Busy,
	unix.ENOTDIR: NotDirectory,
}

// FromUnix returns the filesystem error reported as errno, or nil if errno is
// zero or has no filesystem error.
func FromUnix(errno unix.Errno) error {
	if e, ok := errorsByErrno[errno]; ok {
		return e
	}
	return nil
}

// ToUnix converts err to the errno reported at the system call boundary.
// Wrapped errors are unwrapped; errors outside the filesystem taxonomy are
// reported as EIO.
func ToUnix(err error) unix.Errno {
	if err == nil {
		return 0
	}
	for err != nil {
		switch e := err.(type) {
		case *errors.Error:
			return e.Errno()
		case unix.Errno:
			return e
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return unix.EIO
}

// Equals compares a filesystem error to a given error. err matches e if it is
// e itself or the errno e is reported as.
func Equals(e *errors.Error, err error) bool {
	if err == nil {
		return e == nil
	}
	if e == nil {
		return false
	}
	return e == err || e.Errno() == err
}
