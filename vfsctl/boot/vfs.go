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

// Package boot brings up the virtual filesystem: it installs the root
// filesystem, creates the boot directories, mounts devfs and populates the
// tree from a launch manifest.
package boot

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gvisor.dev/vfscore/pkg/errors/fserr"
	"gvisor.dev/vfscore/pkg/fspath"
	"gvisor.dev/vfscore/pkg/log"
	"gvisor.dev/vfscore/pkg/sentry/fsimpl/devfs"
	"gvisor.dev/vfscore/pkg/sentry/fsimpl/ramfs"
	"gvisor.dev/vfscore/pkg/sentry/vfs"
	"gvisor.dev/vfscore/vfsctl/config"
)

// InitVFS creates a VirtualFilesystem rooted at a fresh ramfs, creates
// conf.BootDirs under the root and mounts devfs at /dev.
func InitVFS(ctx context.Context, conf *config.Config) (*vfs.VirtualFilesystem, error) {
	vfsObj := vfs.New()
	if err := vfsObj.Init(ramfs.New(vfsObj)); err != nil {
		return nil, fmt.Errorf("failed to initialize VFS: %w", err)
	}
	for _, dir := range conf.BootDirs {
		p := "/" + fspath.Path(dir)
		log.Debugf("Creating boot directory %q", p)
		if _, err := vfsObj.MkdirAt(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to create directory %q: %w", p, err)
		}
	}
	opts := devfs.Options{
		KmsgLogger: log.BasicRateLimitedLogger(conf.KmsgEvery, conf.KmsgBurst),
	}
	if _, err := devfs.Init(ctx, vfsObj, opts); err != nil {
		return nil, fmt.Errorf("failed to set up devfs: %w", err)
	}
	return vfsObj, nil
}

// Launch populates vfsObj from m. Directories are created in order; a
// directory that already exists is left as is. Files are then created and
// filled concurrently.
func Launch(ctx context.Context, vfsObj *vfs.VirtualFilesystem, m *config.Manifest) error {
	for _, dir := range m.Dirs {
		if err := makeDir(ctx, vfsObj, fspath.Path(dir)); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range m.Files {
		f := &m.Files[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return populateFile(gctx, vfsObj, f)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Infof("Launched %d directories and %d files", len(m.Dirs), len(m.Files))
	return nil
}

func makeDir(ctx context.Context, vfsObj *vfs.VirtualFilesystem, p fspath.Path) error {
	_, err := vfsObj.MkdirAt(ctx, p)
	if err == nil {
		log.Debugf("Created directory %q", p)
		return nil
	}
	if !fserr.Equals(fserr.EntryExists, err) {
		return fmt.Errorf("failed to create directory %q: %w", p, err)
	}
	d, lerr := vfsObj.LookupPath(ctx, p)
	if lerr != nil {
		return fmt.Errorf("failed to resolve %q: %w", p, lerr)
	}
	if !d.IsDir() {
		return fmt.Errorf("%q exists and is not a directory: %w", p, fserr.NotDirectory)
	}
	return nil
}

func populateFile(ctx context.Context, vfsObj *vfs.VirtualFilesystem, f *config.ManifestFile) error {
	data, err := f.Contents()
	if err != nil {
		return fmt.Errorf("failed to read contents of %q: %w", f.Path, err)
	}
	parentPath, name := fspath.Path(f.Path).ParentAndBasename()
	parent, err := vfsObj.LookupPath(ctx, parentPath)
	if err != nil {
		return fmt.Errorf("failed to resolve %q: %w", parentPath, err)
	}
	if !parent.IsDir() {
		return fmt.Errorf("parent of %q: %w", f.Path, fserr.NotDirectory)
	}
	d, err := parent.Inode().Touch(parent, name)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", f.Path, err)
	}
	if _, err := d.Inode().WriteAt(data, 0); err != nil {
		return fmt.Errorf("failed to write %q: %w", f.Path, err)
	}
	log.Debugf("Created file %q (%d bytes)", f.Path, len(data))
	return nil
}
