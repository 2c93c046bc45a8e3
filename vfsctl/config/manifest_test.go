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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const tomlManifest = `
dirs = ["/bin", "/etc"]

[[files]]
path = "/etc/motd"
data = "hello\n"

[[files]]
path = "/bin/sh"
source = "/host/init"
`

const yamlManifest = `
dirs:
  - /bin
  - /etc
files:
  - path: /etc/motd
    data: "hello\n"
  - path: /bin/sh
    source: /host/init
`

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("WriteFile(%q) failed: %v", path, err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	want := &Manifest{
		Dirs: []string{"/bin", "/etc"},
		Files: []ManifestFile{
			{Path: "/etc/motd", Data: "hello\n"},
			{Path: "/bin/sh", Source: "/host/init"},
		},
	}
	for _, tc := range []struct {
		name     string
		contents string
	}{
		{name: "launch.toml", contents: tomlManifest},
		{name: "launch.yaml", contents: yamlManifest},
		{name: "launch.yml", contents: yamlManifest},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LoadManifest(writeFile(t, tc.name, tc.contents))
			if err != nil {
				t.Fatalf("LoadManifest failed: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Manifest mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadManifestErrors(t *testing.T) {
	for _, tc := range []struct {
		name     string
		file     string
		contents string
	}{
		{name: "unknown extension", file: "launch.json", contents: "{}"},
		{name: "bad toml", file: "launch.toml", contents: "dirs = ["},
		{name: "bad yaml", file: "launch.yaml", contents: "dirs: [\n"},
		{name: "relative dir", file: "launch.toml", contents: `dirs = ["bin"]`},
		{name: "root dir", file: "launch.toml", contents: `dirs = ["/"]`},
		{name: "dot dot file", file: "launch.yaml", contents: "files:\n  - path: /bin/..\n"},
		{name: "data and source", file: "launch.yaml", contents: "files:\n  - path: /a\n    data: x\n    source: /y\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if m, err := LoadManifest(writeFile(t, tc.file, tc.contents)); err == nil {
				t.Errorf("LoadManifest = %+v, want error", m)
			}
		})
	}

	if _, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("LoadManifest of a missing file succeeded")
	}
}

func TestDefaultManifest(t *testing.T) {
	m := DefaultManifest()
	if err := m.Validate(); err != nil {
		t.Errorf("DefaultManifest is invalid: %v", err)
	}
	c := Config{}
	got, err := c.LaunchManifest()
	if err != nil {
		t.Fatalf("LaunchManifest failed: %v", err)
	}
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("LaunchManifest without a path mismatch (-want +got):\n%s", diff)
	}
}

func TestContents(t *testing.T) {
	src := writeFile(t, "init", "\x7fELF")
	for _, tc := range []struct {
		file ManifestFile
		want string
	}{
		{file: ManifestFile{Path: "/a"}, want: ""},
		{file: ManifestFile{Path: "/a", Data: "inline"}, want: "inline"},
		{file: ManifestFile{Path: "/a", Source: src}, want: "\x7fELF"},
	} {
		got, err := tc.file.Contents()
		if err != nil {
			t.Errorf("Contents(%+v) failed: %v", tc.file, err)
			continue
		}
		if string(got) != tc.want {
			t.Errorf("Contents(%+v) = %q, want %q", tc.file, got, tc.want)
		}
	}
}
