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
	"io"
	"os"

	"github.com/google/subcommands"
	"gvisor.dev/vfscore/pkg/fspath"
	"gvisor.dev/vfscore/pkg/sentry/kernel"
	"gvisor.dev/vfscore/pkg/sentry/vfs"
	"gvisor.dev/vfscore/vfsctl/cmd/util"
	"gvisor.dev/vfscore/vfsctl/config"
)

// Cat implements subcommands.Command for the "cat" command.
type Cat struct{}

// Name implements subcommands.Command.Name.
func (*Cat) Name() string {
	return "cat"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Cat) Synopsis() string {
	return "write the contents of files to stdout"
}

// Usage implements subcommands.Command.Usage.
func (*Cat) Usage() string {
	return `cat <path>... - print files after booting the filesystem
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Cat) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*Cat) Execute(ctx context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)

	t, err := startTask(ctx, conf, "")
	if err != nil {
		util.Fatalf("starting task: %v", err)
	}
	status := subcommands.ExitSuccess
	for _, arg := range f.Args() {
		if err := catFile(t, os.Stdout, fspath.Path(arg)); err != nil {
			util.Warnf(err, "cat %q", arg)
			status = subcommands.ExitFailure
		}
	}
	return status
}

// catBufSize is the size of reads issued by catFile.
const catBufSize = 4096

// catFile copies the contents of the file at p to w. A character device is
// read once, filling at most one buffer.
func catFile(t *kernel.Task, w io.Writer, p fspath.Path) error {
	d, err := t.VFS().LookupPath(t, p)
	if err != nil {
		return err
	}
	md, err := d.Inode().Metadata()
	if err != nil {
		return err
	}
	buf := make([]byte, catBufSize)
	var off int64
	for {
		n, err := d.Inode().ReadAt(buf, off)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
			off += int64(n)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if n == 0 || md.FileType == vfs.FileTypeCharDevice {
			return nil
		}
	}
}
