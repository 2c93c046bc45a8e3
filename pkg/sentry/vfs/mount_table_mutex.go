package vfs

import (
	"reflect"

	"gvisor.dev/vfscore/pkg/sync"
	"gvisor.dev/vfscore/pkg/sync/locking"
)

// Mutex is sync.Mutex with the correctness validator.
type mountTableMutex struct {
	mu sync.Mutex
}

var mountTableprefixIndex *locking.MutexClass

// lockNames is a list of user-friendly lock names.
// Populated in init.
var mountTablelockNames []string

// lockNameIndex is used as an index passed to NestedLock and NestedUnlock,
// referring to an index within lockNames.
// Values are specified using the "consts" field of go_template_instance.
type mountTablelockNameIndex int

// DO NOT REMOVE: The following function automatically replaced with lock index constants.
// LOCK_NAME_INDEX_CONSTANTS
const ()

// Lock locks m.
// +checklocksignore
func (m *mountTableMutex) Lock() {
	locking.AddGLock(mountTableprefixIndex, -1)
	m.mu.Lock()
}

// NestedLock locks m knowing that another lock of the same type is held.
// +checklocksignore
func (m *mountTableMutex) NestedLock(i mountTablelockNameIndex) {
	locking.AddGLock(mountTableprefixIndex, int(i))
	m.mu.Lock()
}

// Unlock unlocks m.
// +checklocksignore
func (m *mountTableMutex) Unlock() {
	locking.DelGLock(mountTableprefixIndex, -1)
	m.mu.Unlock()
}

// NestedUnlock unlocks m knowing that another lock of the same type is held.
// +checklocksignore
func (m *mountTableMutex) NestedUnlock(i mountTablelockNameIndex) {
	locking.DelGLock(mountTableprefixIndex, int(i))
	m.mu.Unlock()
}

// DO NOT REMOVE: The following function is automatically replaced.
func mountTableinitLockNames() {}

func init() {
	mountTableinitLockNames()
	mountTableprefixIndex = locking.NewMutexClass(reflect.TypeOf(mountTableMutex{}), mountTablelockNames)
}
