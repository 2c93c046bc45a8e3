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

package vfs

import (
	"github.com/google/btree"
)

// dcacheDegree is the degree of the DirectoryCache B-tree.
const dcacheDegree = 16

type dcacheKey struct {
	parent uint64
	name   string
}

type dcacheEntry struct {
	key    dcacheKey
	dentry *Dentry
}

func dcacheLess(a, b dcacheEntry) bool {
	if a.key.parent != b.key.parent {
		return a.key.parent < b.key.parent
	}
	return a.key.name < b.key.name
}

// DirectoryCache maps (parent identity, child name) to the child Dentry.
//
// Entries are ordered by parent identity and then name, so the cached
// children of a directory are contiguous and sorted.
type DirectoryCache struct {
	// mu protects tree. Dentry locks are never acquired while mu is held.
	mu dcacheMutex

	// +checklocks:mu
	tree *btree.BTreeG[dcacheEntry]
}

// NewDirectoryCache returns an empty DirectoryCache.
func NewDirectoryCache() *DirectoryCache {
	return &DirectoryCache{
		tree: btree.NewG(dcacheDegree, dcacheLess),
	}
}

// Fetch returns the cached child of parent named name.
func (c *DirectoryCache) Fetch(parent *Dentry, name string) (*Dentry, bool) {
	probe := dcacheEntry{key: dcacheKey{parent: parent.ID(), name: name}}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.tree.Get(probe)
	return e.dentry, ok
}

// Insert caches d under its current parent and name, replacing any entry
// with the same key. Dentries without a parent are not cached.
func (c *DirectoryCache) Insert(d *Dentry) {
	name, parent := d.nameAndParent()
	if parent == nil {
		return
	}
	e := dcacheEntry{
		key:    dcacheKey{parent: parent.ID(), name: name},
		dentry: d,
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tree.ReplaceOrInsert(e)
}

// Len returns the number of cached entries.
func (c *DirectoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree.Len()
}

// Children returns the cached children of parent, sorted by name.
func (c *DirectoryCache) Children(parent *Dentry) []*Dentry {
	id := parent.ID()
	from := dcacheEntry{key: dcacheKey{parent: id}}
	var children []*Dentry
	// The empty name sorts first, so the walk starts at parent's first child
	// and stops at the next parent.
	visit := func(e dcacheEntry) bool {
		if e.key.parent != id {
			return false
		}
		children = append(children, e.dentry)
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tree.AscendGreaterOrEqual(from, visit)
	return children
}
