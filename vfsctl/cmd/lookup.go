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
	"text/tabwriter"

	"github.com/google/subcommands"
	"golang.org/x/sys/unix"
	"gvisor.dev/vfscore/pkg/errors/fserr"
	"gvisor.dev/vfscore/pkg/fspath"
	"gvisor.dev/vfscore/pkg/sentry/kernel"
	"gvisor.dev/vfscore/pkg/sentry/vfs"
	"gvisor.dev/vfscore/vfsctl/cmd/util"
	"gvisor.dev/vfscore/vfsctl/config"
)

// Lookup implements subcommands.Command for the "lookup" command.
type Lookup struct {
	create bool
	cwd    string
}

// Name implements subcommands.Command.Name.
func (*Lookup) Name() string {
	return "lookup"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Lookup) Synopsis() string {
	return "resolve paths and print the entries they name"
}

// Usage implements subcommands.Command.Usage.
func (*Lookup) Usage() string {
	return `lookup [flags] <path>... - resolve each path after booting the filesystem
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (l *Lookup) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&l.create, "create", false, "create the last component of a path as a regular file if it does not exist.")
	f.StringVar(&l.cwd, "cwd", "/", "working directory relative paths are resolved from.")
}

// Execute implements subcommands.Command.Execute.
func (l *Lookup) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)

	t, err := startTask(ctx, conf, l.cwd)
	if err != nil {
		util.Fatalf("starting task: %v", err)
	}
	mode := vfs.LookupNone
	if l.create {
		mode = vfs.LookupCreate
	}
	paths := make([]fspath.Path, 0, f.NArg())
	for _, arg := range f.Args() {
		paths = append(paths, fspath.Path(arg))
	}
	if failed := lookupPaths(t, os.Stdout, paths, mode); failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// lookupPaths resolves each of paths in t and writes one line per path to w.
// It returns the number of paths that failed to resolve.
func lookupPaths(t *kernel.Task, w io.Writer, paths []fspath.Path, mode vfs.LookupMode) int {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	defer tw.Flush()
	fmt.Fprintln(tw, "PATH\tRESOLVED\tID\tTYPE\tSIZE")

	failed := 0
	for _, p := range paths {
		d, err := t.VFS().OpenAt(t, p, mode)
		if err != nil {
			failed++
			util.Warnf(err, "lookup %q", p)
			fmt.Fprintf(tw, "%s\t%s\t-\t-\t-\n", p, unix.ErrnoName(fserr.ToUnix(err)))
			continue
		}
		md, err := d.Inode().Metadata()
		if err != nil {
			failed++
			util.Warnf(err, "metadata of %q", p)
			fmt.Fprintf(tw, "%s\t%s\t%d\t-\t-\n", p, t.VFS().AbsolutePath(d), d.ID())
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\n", p, t.VFS().AbsolutePath(d), d.ID(), md.FileType, md.Size)
	}
	return failed
}
