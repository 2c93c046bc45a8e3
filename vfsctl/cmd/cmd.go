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


// Package cmd holds implementations of the vfsctl commands.
package cmd

import (
	"context"
	"fmt"

	"gvisor.dev/vfscore/pkg/fspath"
	"gvisor.dev/vfscore/pkg/log"
	"gvisor.dev/vfscore/pkg/sentry/kernel"
	"gvisor.dev/vfscore/vfsctl/boot"
	"gvisor.dev/vfscore/vfsctl/config"
)

// startTask boots the filesystem described by conf and returns a task whose
// working directory is cwd.
func startTask(ctx context.Context, conf *config.Config, cwd string) (*kernel.Task, error) {
	vfsObj, err := boot.InitVFS(ctx, conf)
	if err != nil {
		return nil, err
	}
	if !conf.NoLaunch {
		m, err := conf.LaunchManifest()
		if err != nil {
			return nil, err
		}
		if err := boot.Launch(ctx, vfsObj, m); err != nil {
			return nil, fmt.Errorf("launch failed: %w", err)
		}
	}
	t := kernel.NewTask(ctx, "vfsctl", vfsObj)
	if cwd != "" {
		if err := t.Chdir(fspath.Path(cwd)); err != nil {
			return nil, fmt.Errorf("changing directory to %q: %w", cwd, err)
		}
	}
	log.Debugf("Task %q started in %q", t.Name(), vfsObj.AbsolutePath(t.FSContext().WorkingDirectory()))
	return t, nil
}
