package vfs

import (
	"reflect"

	"gvisor.dev/vfscore/pkg/sync"
	"gvisor.dev/vfscore/pkg/sync/locking"
)

// Mutex is sync.Mutex with the correctness validator.
type dcacheMutex struct {
	mu sync.Mutex
}

var dcacheprefixIndex *locking.MutexClass

// lockNames is a list of user-friendly lock names.
// Populated in init.
var dcachelockNames []string

// lockNameIndex is used as an index passed to NestedLock and NestedUnlock,
// referring to an index within lockNames.
// Values are specified using the "consts" field of go_template_instance.
type dcachelockNameIndex int

// DO NOT REMOVE: The following function automatically replaced with lock index constants.
// LOCK_NAME_INDEX_CONSTANTS
const ()

// Lock locks m.
// +checklocksignore
func (m *dcacheMutex) Lock() {
	locking.AddGLock(dcacheprefixIndex, -1)
	m.mu.Lock()
}

// NestedLock locks m knowing that another lock of the same type is held.
// +checklocksignore
func (m *dcacheMutex) NestedLock(i dcachelockNameIndex) {
	locking.AddGLock(dcacheprefixIndex, int(i))
	m.mu.Lock()
}

// Unlock unlocks m.
// +checklocksignore
func (m *dcacheMutex) Unlock() {
	locking.DelGLock(dcacheprefixIndex, -1)
	m.mu.Unlock()
}

// NestedUnlock unlocks m knowing that another lock of the same type is held.
// +checklocksignore
func (m *dcacheMutex) NestedUnlock(i dcachelockNameIndex) {
	locking.DelGLock(dcacheprefixIndex, int(i))
	m.mu.Unlock()
}

// DO NOT REMOVE: The following function is automatically replaced.
func dcacheinitLockNames() {}

func init() {
	dcacheinitLockNames()
	dcacheprefixIndex = locking.NewMutexClass(reflect.TypeOf(dcacheMutex{}), dcachelockNames)
}
