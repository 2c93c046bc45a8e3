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


package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"gvisor.dev/vfscore/pkg/fspath"
	"gvisor.dev/vfscore/pkg/sentry/kernel"
	"gvisor.dev/vfscore/pkg/sentry/vfs"
	"gvisor.dev/vfscore/vfsctl/cmd/util"
	"gvisor.dev/vfscore/vfsctl/config"
)

// Tree implements subcommands.Command for the "tree" command.
type Tree struct{}

// Name implements subcommands.Command.Name.
func (*Tree) Name() string {
	return "tree"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Tree) Synopsis() string {
	return "print the directory tree below a path, following mounts"
}

// Usage implements subcommands.Command.Usage.
func (*Tree) Usage() string {
	return `tree [path] - print the tree below path, default /
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Tree) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Tree) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() > 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)
	root := fspath.Path("/")
	if f.NArg() == 1 {
		root = fspath.Path(f.Arg(0))
	}

	t, err := startTask(ctx, conf, "")
	if err != nil {
		util.Fatalf("starting task: %v", err)
	}
	if err := printTree(t, os.Stdout, root); err != nil {
		util.Warnf(err, "tree %q", root)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// printTree writes the entry named by p and every entry below it to w, one
// per line, indented by depth. Directories are suffixed with "/".
func printTree(t *kernel.Task, w io.Writer, p fspath.Path) error {
	d, err := t.VFS().LookupPath(t, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n", t.VFS().AbsolutePath(d))
	return walkTree(t.VFS(), w, d, 1)
}

func walkTree(vfsObj *vfs.VirtualFilesystem, w io.Writer, dir *vfs.Dentry, depth int) error {
	if !dir.IsDir() {
		return nil
	}
	var names []string
	if err := dir.Inode().IterDirents(func(dirent vfs.Dirent) bool {
		names = append(names, dirent.Name)
		return true
	}); err != nil {
		return err
	}
	indent := strings.Repeat("  ", depth)
	for _, name := range names {
		// Resolve through the VFS so that mounted directories show the
		// mounted filesystem's contents.
		child, err := vfsObj.LookupPathWith(dir, fspath.Path(name), vfs.LookupNone)
		if err != nil {
			return err
		}
		if !child.IsDir() {
			fmt.Fprintf(w, "%s%s\n", indent, name)
			continue
		}
		fmt.Fprintf(w, "%s%s/\n", indent, name)
		if err := walkTree(vfsObj, w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
