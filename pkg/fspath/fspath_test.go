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

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIteratorPartialPathnames(t *testing.T) {
	path := Path("/foo//bar/.///baz////")
	if !path.IsAbsolute() {
		t.Errorf("IsAbsolute: got false, wanted true")
	}
	// The first Iterator.partialPathname is the input pathname, with leading
	// slashes stripped.
	it := path.Components()
	if want := "foo//bar/.///baz////"; it.partialPathname != want {
		t.Errorf("first Iterator.partialPathname: got %q, wanted %q", it.partialPathname, want)
	}
	// Successive Iterator.partialPathnames remove the leading path component,
	// following slashes and "." components, until we run out of path
	// components and get a terminal Iterator.
	it = it.Next()
	if want := "bar/.///baz////"; it.partialPathname != want {
		t.Errorf("second Iterator.partialPathname: got %q, wanted %q", it.partialPathname, want)
	}
	it = it.Next()
	if want := "baz////"; it.partialPathname != want {
		t.Errorf("third Iterator.partialPathname: got %q, wanted %q", it.partialPathname, want)
	}
	if it.NextOk() {
		t.Errorf("third Iterator.NextOk(): got true, wanted false")
	}
	it = it.Next()
	if want := ""; it.partialPathname != want {
		t.Errorf("fourth Iterator.partialPathname: got %q, wanted %q", it.partialPathname, want)
	}
	if it.Ok() {
		t.Errorf("fourth Iterator.Ok(): got true, wanted false")
	}
}

func TestComponents(t *testing.T) {
	type testCase struct {
		pathname string
		relpath  []string
		abs      bool
	}
	tests := []testCase{
		{
			pathname: "",
			relpath:  []string{},
		},
		{
			pathname: "/",
			relpath:  []string{},
			abs:      true,
		},
		{
			pathname: "//",
			relpath:  []string{},
			abs:      true,
		},
		{
			pathname: "/./.",
			relpath:  []string{},
			abs:      true,
		},
	}
	for _, sep := range []string{"/", "//"} {
		for _, abs := range []bool{false, true} {
			for _, dir := range []bool{false, true} {
				for _, pcs := range [][]string{
					// single path component
					{"foo"},
					// multiple path components, including non-UTF-8
					{"foo", "..", "\xe6", "bar"},
					// ".." is a regular component to the iterator
					{"..", ".."},
				} {
					prefix := ""
					if abs {
						prefix = sep
					}
					suffix := ""
					if dir {
						suffix = sep
					}
					tests = append(tests, testCase{
						pathname: prefix + strings.Join(pcs, sep) + suffix,
						relpath:  pcs,
						abs:      abs,
					})
				}
			}
		}
	}

	for _, test := range tests {
		t.Run(test.pathname, func(t *testing.T) {
			p := Path(test.pathname)
			if p.IsAbsolute() != test.abs {
				t.Errorf("path absoluteness: got %v, wanted %v", p.IsAbsolute(), test.abs)
			}
			pcs := []string{}
			for it := p.Components(); it.Ok(); it = it.Next() {
				pcs = append(pcs, it.String())
			}
			if diff := cmp.Diff(test.relpath, pcs); diff != "" {
				t.Errorf("relative path mismatch (-want +got):\n%s", diff)
			}
			if got, want := p.Count(), len(test.relpath); got != want {
				t.Errorf("Count: got %d, wanted %d", got, want)
			}
		})
	}
}

func TestDotComponentsSkipped(t *testing.T) {
	p := Path("./a/./b/.")
	var got []string
	for _, pc := range p.All() {
		got = append(got, pc)
	}
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("components mismatch (-want +got):\n%s", diff)
	}
}

func TestAllRestartable(t *testing.T) {
	p := Path("/usr/lib/ld.so")
	collect := func() ([]int, []string) {
		var idxs []int
		var pcs []string
		for i, pc := range p.All() {
			idxs = append(idxs, i)
			pcs = append(pcs, pc)
		}
		return idxs, pcs
	}
	idxs1, pcs1 := collect()
	idxs2, pcs2 := collect()
	if diff := cmp.Diff(idxs1, idxs2); diff != "" {
		t.Errorf("second iteration indexes differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(pcs1, pcs2); diff != "" {
		t.Errorf("second iteration components differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2}, idxs1); diff != "" {
		t.Errorf("indexes mismatch (-want +got):\n%s", diff)
	}
}

func TestAllStopsEarly(t *testing.T) {
	n := 0
	for range Path("a/b/c/d").All() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("got %d iterations, wanted 2", n)
	}
}

func TestParentAndBasename(t *testing.T) {
	for _, test := range []struct {
		path     Path
		parent   Path
		basename string
	}{
		{path: "/missing", parent: "/", basename: "missing"},
		{path: "/temp/newfile", parent: "/temp", basename: "newfile"},
		{path: "a/b/c", parent: "a/b", basename: "c"},
		{path: "sh", parent: "", basename: "sh"},
		{path: "/", parent: "/", basename: ""},
		{path: "/home/", parent: "/home", basename: ""},
	} {
		t.Run(string(test.path), func(t *testing.T) {
			parent, basename := test.path.ParentAndBasename()
			if parent != test.parent || basename != test.basename {
				t.Errorf("ParentAndBasename(%q): got (%q, %q), wanted (%q, %q)", test.path, parent, basename, test.parent, test.basename)
			}
		})
	}
}
