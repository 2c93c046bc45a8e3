// Copyright 2018 The gVisor Authors.
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


package log

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"
)

// GoogleEmitter emits log lines in the format of github.com/golang/glog:
//
//	Lmmdd hh:mm:ss.uuuuuu pid file:line] msg
//
// L is the level character (W, I or D) and pid is right-aligned in seven
// columns.
type GoogleEmitter struct {
	*Writer
}

// glogTimeFormat is the glog timestamp layout.
const glogTimeFormat = "0102 15:04:05.000000"

var levelChars = [...]byte{Warning: 'W', Info: 'I', Debug: 'D'}

var pid = fmt.Sprintf("%7d", os.Getpid())

// Emit implements Emitter.Emit.
func (g GoogleEmitter) Emit(depth int, level Level, timestamp time.Time, format string, args ...any) {
	var local [256]byte
	b := local[:0]
	if int(level) < len(levelChars) {
		b = append(b, levelChars[level])
	} else {
		b = append(b, '?')
	}
	b = timestamp.AppendFormat(b, glogTimeFormat)
	b = append(b, ' ')
	b = append(b, pid...)
	b = append(b, ' ')
	b = append(b, caller(depth+1)...)
	b = append(b, "] "...)
	b = append(b, format...)
	b = append(b, '\n')

	// The header is now part of the format string, which Writer expands.
	g.Writer.Emit(depth+1, level, timestamp, string(b), args...)
}

// caller returns "file:line" of the function depth frames above the caller of
// caller, with the directory trimmed.
func caller(depth int) string {
	_, file, line, ok := runtime.Caller(depth + 1)
	if !ok {
		return "???:0"
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}
