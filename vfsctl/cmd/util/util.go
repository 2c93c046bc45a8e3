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


// Package util groups helpers shared by vfsctl commands.
package util

import (
	"github.com/sirupsen/logrus"
)

// Fatalf reports an error to the user and exits the process with a non-zero
// status.
func Fatalf(format string, args ...any) {
	logrus.Fatalf(format, args...)
}

// Warnf reports a non-fatal error to the user.
func Warnf(err error, format string, args ...any) {
	logrus.WithError(err).Warnf(format, args...)
}
