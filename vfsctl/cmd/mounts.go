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
	"gvisor.dev/vfscore/pkg/sentry/vfs"
	"gvisor.dev/vfscore/vfsctl/cmd/util"
	"gvisor.dev/vfscore/vfsctl/config"
)

// Mounts implements subcommands.Command for the "mounts" command.
type Mounts struct{}

// Name implements subcommands.Command.Name.
func (*Mounts) Name() string {
	return "mounts"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Mounts) Synopsis() string {
	return "list the mount table"
}

// Usage implements subcommands.Command.Usage.
func (*Mounts) Usage() string {
	return `mounts - list the root filesystem and every mount after boot
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Mounts) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Mounts) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)

	t, err := startTask(ctx, conf, "")
	if err != nil {
		util.Fatalf("starting task: %v", err)
	}
	printMounts(t.VFS(), os.Stdout)
	return subcommands.ExitSuccess
}

// printMounts writes the root filesystem and then each mount point of vfsObj
// to w.
func printMounts(vfsObj *vfs.VirtualFilesystem, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	defer tw.Flush()
	fmt.Fprintln(tw, "FILESYSTEM\tMOUNTPOINT\tORIGIN\tROOT")
	root := vfsObj.RootDir()
	fmt.Fprintf(tw, "%s\t/\t-\t%d\n", vfsObj.RootFilesystem().Name(), root.ID())
	for _, mp := range vfsObj.Mounts().Mounts() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", mp.Filesystem().Name(), vfsObj.AbsolutePath(mp.Origin()), mp.Origin().ID(), mp.Root().ID())
	}
}
