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
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
	"gvisor.dev/vfscore/pkg/fspath"
)

// Manifest describes the directories and files created by boot.Launch.
//
// In TOML:
//
//	dirs = ["/bin", "/lib"]
//
//	[[files]]
//	path = "/bin/sh"
//	source = "/usr/local/share/vfsctl/init"
type Manifest struct {
	// Dirs are created in order; each parent must exist by the time a
	// directory is created.
	Dirs []string `toml:"dirs" yaml:"dirs"`

	// Files are created after all Dirs.
	Files []ManifestFile `toml:"files" yaml:"files"`
}

// ManifestFile is a regular file to create. At most one of Data and Source
// may be set; if neither is, the file is created empty.
type ManifestFile struct {
	// Path is the absolute path of the file.
	Path string `toml:"path" yaml:"path"`

	// Data is the file contents.
	Data string `toml:"data" yaml:"data"`

	// Source is a host file whose contents are copied into the file.
	Source string `toml:"source" yaml:"source"`
}

// Contents returns the bytes to write into the file.
func (f *ManifestFile) Contents() ([]byte, error) {
	if f.Source == "" {
		return []byte(f.Data), nil
	}
	return os.ReadFile(f.Source)
}

// DefaultManifest returns the manifest used when none is configured: /bin and
// /lib plus an init program at /bin/sh.
func DefaultManifest() *Manifest {
	return &Manifest{
		Dirs: []string{"/bin", "/lib"},
		Files: []ManifestFile{
			{Path: "/bin/sh", Data: "#!/bin/sh\nexec /bin/sh\n"},
		},
	}
}

// LoadManifest reads a manifest from path. The format is chosen by extension:
// .toml, or .yaml and .yml.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &m); err != nil {
			return nil, fmt.Errorf("failed to decode manifest %q: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("failed to decode manifest %q: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("manifest %q: unknown format %q, must be .toml, .yaml or .yml", path, ext)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %q: %w", path, err)
	}
	return &m, nil
}

// Validate checks that every path is absolute and names an entry below the
// root.
func (m *Manifest) Validate() error {
	for _, dir := range m.Dirs {
		if err := checkEntryPath(dir); err != nil {
			return err
		}
	}
	for i := range m.Files {
		f := &m.Files[i]
		if err := checkEntryPath(f.Path); err != nil {
			return err
		}
		if f.Data != "" && f.Source != "" {
			return fmt.Errorf("file %q: data and source are mutually exclusive", f.Path)
		}
	}
	return nil
}

func checkEntryPath(p string) error {
	path := fspath.Path(p)
	if !path.IsAbsolute() {
		return fmt.Errorf("path %q is not absolute", p)
	}
	switch _, base := path.ParentAndBasename(); base {
	case "", ".", "..":
		return fmt.Errorf("path %q does not name an entry", p)
	}
	return nil
}
