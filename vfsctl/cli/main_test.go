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


package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
	"gvisor.dev/vfscore/pkg/log"
)

func TestForEachCmd(t *testing.T) {
	names := make(map[string]string)
	forEachCmd(func(cmd subcommands.Command, group string) {
		if prev, ok := names[cmd.Name()]; ok {
			t.Errorf("command %q registered twice, groups %q and %q", cmd.Name(), prev, group)
		}
		names[cmd.Name()] = group
	})
	for _, want := range []string{"help", "flags", "lookup", "tree", "cat", "mounts"} {
		if _, ok := names[want]; !ok {
			t.Errorf("command %q is not registered", want)
		}
	}
}

func TestNewEmitter(t *testing.T) {
	for _, tc := range []struct {
		format string
		want   string
	}{
		{format: "text", want: "I"},
		{format: "json", want: `"msg":"hello 1"`},
	} {
		t.Run(tc.format, func(t *testing.T) {
			var buf bytes.Buffer
			e := newEmitter(tc.format, &buf)
			e.Emit(0, log.Info, time.Now(), "hello %d", 1)
			if got := buf.String(); !strings.Contains(got, tc.want) || !strings.Contains(got, "hello 1") {
				t.Errorf("%s emitter wrote %q, want it to contain %q", tc.format, got, tc.want)
			}
		})
	}
}
