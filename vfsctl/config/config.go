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

// Package config provides basic infrastructure to set configuration settings
// for vfsctl. Settings are registered as flags and copied into Config by
// matching each field's "flag" tag.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Config holds configuration that is not part of the launch manifest.
type Config struct {
	// Debug indicates that debug logging should be enabled.
	Debug bool `flag:"debug"`

	// LogFormat is the log format, "text" or "json".
	LogFormat string `flag:"log-format"`

	// DebugLog is the path to log debug information to, if not empty.
	DebugLog string `flag:"debug-log"`

	// Manifest is the path of a TOML or YAML launch manifest. If empty, the
	// built-in manifest is used.
	Manifest string `flag:"manifest"`

	// NoLaunch skips populating the filesystem from the manifest.
	NoLaunch bool `flag:"no-launch"`

	// BootDirs are the directories created under the root at boot.
	BootDirs DirList `flag:"boot-dirs"`

	// KmsgEvery and KmsgBurst rate limit lines written to /dev/kmsg.
	KmsgEvery time.Duration `flag:"kmsg-every"`
	KmsgBurst int           `flag:"kmsg-burst"`
}

func (c *Config) validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q, must be one of: text, json", c.LogFormat)
	}
	if !slices.Contains(c.BootDirs, "dev") {
		return fmt.Errorf("--boot-dirs %q must include \"dev\"", c.BootDirs.String())
	}
	for _, dir := range c.BootDirs {
		if dir == "" || dir == "." || dir == ".." || strings.Contains(dir, "/") {
			return fmt.Errorf("invalid boot directory %q, must be a single path component", dir)
		}
	}
	if c.KmsgEvery <= 0 {
		return fmt.Errorf("--kmsg-every must be positive, got %v", c.KmsgEvery)
	}
	if c.KmsgBurst <= 0 {
		return fmt.Errorf("--kmsg-burst must be positive, got %d", c.KmsgBurst)
	}
	return nil
}

// LaunchManifest returns the manifest named by c.Manifest, or the built-in
// one if none is named.
func (c *Config) LaunchManifest() (*Manifest, error) {
	if c.Manifest == "" {
		return DefaultManifest(), nil
	}
	return LoadManifest(c.Manifest)
}

// DirList is a comma-separated list of directory names. It implements
// flag.Getter.
type DirList []string

// String implements flag.Value.String.
func (l *DirList) String() string {
	return strings.Join(*l, ",")
}

// Set implements flag.Value.Set.
func (l *DirList) Set(v string) error {
	if v == "" {
		*l = nil
		return nil
	}
	*l = strings.Split(v, ",")
	return nil
}

// Get implements flag.Getter.Get.
func (l *DirList) Get() any {
	return slices.Clone(*l)
}
