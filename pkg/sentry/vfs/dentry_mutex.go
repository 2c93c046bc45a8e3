package vfs

import (
	"reflect"

	"gvisor.dev/vfscore/pkg/sync"
	"gvisor.dev/vfscore/pkg/sync/locking"
)

// Mutex is sync.Mutex with the correctness validator.
type dentryMutex struct {
	mu sync.Mutex
}

var dentryprefixIndex *locking.MutexClass

// lockNames is a list of user-friendly lock names.
// Populated in init.
var dentrylockNames []string

// lockNameIndex is used as an index passed to NestedLock and NestedUnlock,
// referring to an index within lockNames.
// Values are specified using the "consts" field of go_template_instance.
type dentrylockNameIndex int

// DO NOT REMOVE: The following function automatically replaced with lock index constants.
// LOCK_NAME_INDEX_CONSTANTS
const ()

// Lock locks m.
// +checklocksignore
func (m *dentryMutex) Lock() {
	locking.AddGLock(dentryprefixIndex, -1)
	m.mu.Lock()
}

// NestedLock locks m knowing that another lock of the same type is held.
// +checklocksignore
func (m *dentryMutex) NestedLock(i dentrylockNameIndex) {
	locking.AddGLock(dentryprefixIndex, int(i))
	m.mu.Lock()
}

// Unlock unlocks m.
// +checklocksignore
func (m *dentryMutex) Unlock() {
	locking.DelGLock(dentryprefixIndex, -1)
	m.mu.Unlock()
}

// NestedUnlock unlocks m knowing that another lock of the same type is held.
// +checklocksignore
func (m *dentryMutex) NestedUnlock(i dentrylockNameIndex) {
	locking.DelGLock(dentryprefixIndex, int(i))
	m.mu.Unlock()
}

// DO NOT REMOVE: The following function is automatically replaced.
func dentryinitLockNames() {}

func init() {
	dentryinitLockNames()
	dentryprefixIndex = locking.NewMutexClass(reflect.TypeOf(dentryMutex{}), dentrylockNames)
}
