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


package fspath

// Builder produces a Path from components supplied leaf first, as when walking
// parent links from a Dentry up to the root. The zero value is an empty
// Builder.
type Builder struct {
	// buf[start:] is the path built so far. buf[:start] is free space for
	// further prepends.
	buf   []byte
	start int

	// sep is set once a component has been prepended, so that the next one
	// is followed by a separator.
	sep bool
}

// Reset empties b, keeping its buffer.
func (b *Builder) Reset() {
	b.start = len(b.buf)
	b.sep = false
}

// Len returns the number of accumulated bytes.
func (b *Builder) Len() int {
	return len(b.buf) - b.start
}

// reserve ensures that at least n bytes can be prepended without
// reallocating.
func (b *Builder) reserve(n int) {
	if b.start >= n {
		return
	}
	size := max(64, 2*len(b.buf))
	for size-b.Len() < n {
		size *= 2
	}
	buf := make([]byte, size)
	start := size - b.Len()
	copy(buf[start:], b.buf[b.start:])
	b.buf, b.start = buf, start
}

// PrependComponent prepends the path component name, followed by a separator
// if a component was prepended before.
func (b *Builder) PrependComponent(name string) {
	if b.sep {
		b.PrependByte(pathSep)
	}
	b.PrependString(name)
	b.sep = true
}

// PrependString prepends s verbatim.
func (b *Builder) PrependString(s string) {
	b.reserve(len(s))
	b.start -= len(s)
	copy(b.buf[b.start:], s)
}

// PrependByte prepends c verbatim.
func (b *Builder) PrependByte(c byte) {
	b.reserve(1)
	b.start--
	b.buf[b.start] = c
}

// String returns the accumulated string.
func (b *Builder) String() string {
	return string(b.buf[b.start:])
}

// Path returns the accumulated string as a Path.
func (b *Builder) Path() Path {
	return Path(b.String())
}
