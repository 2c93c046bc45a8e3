// Copyright 2022 The gVisor Authors.
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


//go:build lockdep
// +build lockdep

package locking

import (
	"bytes"
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// goroutineLocks is the set of mutex classes held by a single goroutine.
type goroutineLocks map[*MutexClass]bool

// MutexClass is a class of mutexes.
type MutexClass struct {
	// typ is the mutex type; used in reports.
	typ reflect.Type

	// name distinguishes nested subclasses of typ.
	name string

	// ancestors are classes that have been held while this class was taken.
	// ancestors is protected by validatorMu.
	ancestors map[*MutexClass]struct{}

	// nestedLockClasses are the subclasses used by NestedLock, indexed by
	// lock name index.
	nestedLockClasses []*MutexClass
}

func (m *MutexClass) String() string {
	if m.name != "" {
		return fmt.Sprintf("%s[%s]", m.typ, m.name)
	}
	return m.typ.String()
}

var (
	// validatorMu protects all MutexClass.ancestors and routineLocks.
	validatorMu sync.Mutex

	// routineLocks maps goroutine IDs to the locks they hold.
	routineLocks = make(map[int64]goroutineLocks)
)

// NewMutexClass allocates a new mutex class.
func NewMutexClass(t reflect.Type, lockNames []string) *MutexClass {
	c := &MutexClass{
		typ:       t,
		ancestors: make(map[*MutexClass]struct{}),
	}
	for _, name := range lockNames {
		c.nestedLockClasses = append(c.nestedLockClasses, &MutexClass{
			typ:       t,
			name:      name,
			ancestors: make(map[*MutexClass]struct{}),
		})
	}
	return c
}

// goid returns the current goroutine's ID, parsed from the header of its
// stack trace ("goroutine N [running]:").
func goid() int64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		panic(fmt.Sprintf("failed to parse goroutine ID from %q: %v", b, err))
	}
	return id
}

func stacks() string {
	buf := make([]byte, 16<<10)
	return strings.TrimSpace(string(buf[:runtime.Stack(buf, false)]))
}

func subclass(class *MutexClass, lockNameIndex int) *MutexClass {
	if lockNameIndex == -1 {
		return class
	}
	return class.nestedLockClasses[lockNameIndex]
}

// AddGLock records a lock to the current goroutine and updates dependencies.
func AddGLock(class *MutexClass, lockNameIndex int) {
	class = subclass(class, lockNameIndex)
	id := goid()

	validatorMu.Lock()
	defer validatorMu.Unlock()

	held := routineLocks[id]
	if held == nil {
		held = make(goroutineLocks)
		routineLocks[id] = held
	}
	if held[class] {
		panic(fmt.Sprintf("nested locking: %s:\n%s", class, stacks()))
	}
	for prev := range held {
		if _, ok := prev.ancestors[class]; ok {
			panic(fmt.Sprintf("circular locking detected: %s is locked while %s is held, but %s was previously locked before %s:\n%s",
				class, prev, class, prev, stacks()))
		}
	}
	for prev := range held {
		class.ancestors[prev] = struct{}{}
		for a := range prev.ancestors {
			class.ancestors[a] = struct{}{}
		}
	}
	held[class] = true
}

// DelGLock deletes a lock from the current goroutine.
func DelGLock(class *MutexClass, lockNameIndex int) {
	class = subclass(class, lockNameIndex)
	id := goid()

	validatorMu.Lock()
	defer validatorMu.Unlock()

	held := routineLocks[id]
	if !held[class] {
		panic(fmt.Sprintf("unlock of an unlocked mutex %s:\n%s", class, stacks()))
	}
	delete(held, class)
	if len(held) == 0 {
		delete(routineLocks, id)
	}
}
