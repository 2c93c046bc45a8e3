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


// Package fspath provides efficient tools for working with file paths in
// Linux-compatible filesystem implementations.
package fspath

import (
	"iter"
	"strings"
)

const pathSep = '/'

// Path is a pathname. A Path never copies the text it is built from; slicing
// a Path, or iterating over its components, yields views into the same
// string.
//
// A Path is absolute iff it begins with a path separator. Path components are
// the non-empty segments between separators, excluding ".". ".." is returned
// like any other component; interpreting it is left to path resolution.
type Path string

// IsAbsolute returns true if p begins with a path separator.
func (p Path) IsAbsolute() bool {
	return len(p) != 0 && p[0] == pathSep
}

// String implements fmt.Stringer.String.
func (p Path) String() string {
	return string(p)
}

// Components returns an Iterator over p's path components. The returned
// Iterator is a value; p may be iterated any number of times.
func (p Path) Components() Iterator {
	return iteratorAt(string(p))
}

// Count returns the number of path components in p.
func (p Path) Count() int {
	n := 0
	for it := p.Components(); it.Ok(); it = it.Next() {
		n++
	}
	return n
}

// All returns a sequence of (index, component) pairs over p's path
// components.
func (p Path) All() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		for it := p.Components(); it.Ok(); it = it.Next() {
			if !yield(i, it.String()) {
				return
			}
			i++
		}
	}
}

// ParentAndBasename splits p at its last path separator. If that separator is
// the first byte of p, the parent is the root path "/". If p contains no
// separator, p is a bare relative name: the parent is the empty path and the
// basename is all of p.
func (p Path) ParentAndBasename() (Path, string) {
	i := strings.LastIndexByte(string(p), pathSep)
	if i < 0 {
		return "", string(p)
	}
	if i == 0 {
		return "/", string(p[1:])
	}
	return p[:i], string(p[i+1:])
}

// An Iterator represents either a path component in a Path or a terminal
// iterator indicating that the end of the path has been reached.
//
// Iterator is immutable and copyable by value. The zero value of Iterator is
// valid, and represents a terminal iterator.
type Iterator struct {
	// partialPathname is a substring of the original pathname beginning at
	// the start of the represented path component and ending immediately
	// after the end of the last path component in the pathname. If
	// partialPathname is empty, the Iterator is terminal.
	//
	// See TestIteratorPartialPathnames in fspath_test.go for an example.
	partialPathname string

	// end is the offset into partialPathname of the first byte after the end
	// of the represented path component.
	end int
}

// iteratorAt returns an Iterator for the first path component in s, skipping
// separators and "." components.
func iteratorAt(s string) Iterator {
	for {
		for len(s) != 0 && s[0] == pathSep {
			s = s[1:]
		}
		if len(s) == 0 {
			return Iterator{}
		}
		end := strings.IndexByte(s, pathSep)
		if end < 0 {
			end = len(s)
		}
		if s[:end] != "." {
			return Iterator{
				partialPathname: s,
				end:             end,
			}
		}
		s = s[end:]
	}
}

// Ok returns true if it is not terminal.
func (it Iterator) Ok() bool {
	return len(it.partialPathname) != 0
}

// String returns the path component represented by it.
//
// Preconditions: it.Ok().
func (it Iterator) String() string {
	return it.partialPathname[:it.end]
}

// Next returns an Iterator for the path component after it. If it is the last
// component in the path, Next returns a terminal Iterator.
//
// Preconditions: it.Ok().
func (it Iterator) Next() Iterator {
	return iteratorAt(it.partialPathname[it.end:])
}

// NextOk is equivalent to it.Next().Ok().
//
// Preconditions: it.Ok().
func (it Iterator) NextOk() bool {
	return it.Next().Ok()
}
