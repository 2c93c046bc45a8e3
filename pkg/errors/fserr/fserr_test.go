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


package fserr

import (
	"fmt"
	"testing"

	"golang.org/x/sys/unix"
	"gvisor.dev/vfscore/pkg/errors"
)

func TestToUnix(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want unix.Errno
	}{
		{err: nil, want: 0},
		{err: NotSupported, want: unix.EACCES},
		{err: EntryExists, want: unix.EEXIST},
		{err: EntryNotFound, want: unix.ENOENT},
		{err: Busy, want: unix.EBUSY},
		{err: NotDirectory, want: unix.ENOTDIR},
		{err: fmt.Errorf("mounting devfs: %w", EntryExists), want: unix.EEXIST},
		{err: unix.EXDEV, want: unix.EXDEV},
		{err: fmt.Errorf("opaque"), want: unix.EIO},
	} {
		if got := ToUnix(tc.err); got != tc.want {
			t.Errorf("ToUnix(%v): got %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestFromUnix(t *testing.T) {
	for _, e := range []*errors.Error{NotSupported, EntryExists, EntryNotFound, Busy, NotDirectory} {
		if got := FromUnix(e.Errno()); got != e {
			t.Errorf("FromUnix(%v): got %v, want %v", e.Errno(), got, e)
		}
	}
	if got := FromUnix(unix.ENOSPC); got != nil {
		t.Errorf("FromUnix(ENOSPC): got %v, want nil", got)
	}
}

func TestEquals(t *testing.T) {
	if !Equals(EntryNotFound, EntryNotFound) {
		t.Errorf("Equals(EntryNotFound, EntryNotFound) = false")
	}
	if !Equals(EntryNotFound, unix.ENOENT) {
		t.Errorf("Equals(EntryNotFound, ENOENT) = false")
	}
	if Equals(EntryNotFound, EntryExists) {
		t.Errorf("Equals(EntryNotFound, EntryExists) = true")
	}
	if Equals(EntryNotFound, nil) {
		t.Errorf("Equals(EntryNotFound, nil) = true")
	}
}
