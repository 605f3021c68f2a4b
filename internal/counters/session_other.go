// Copyright 2025 go-highway Authors
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

//go:build !linux

package counters

import (
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Session is unavailable outside Linux; Open always fails.
type Session struct{}

// Open returns ErrUnsupported.
func Open(Config, logrus.FieldLogger) (*Session, error) {
	return nil, ErrUnsupported
}

func (*Session) Start() error          { return ErrUnsupported }
func (*Session) Reset() error          { return ErrUnsupported }
func (*Session) Read() (Values, error) { return Values{}, ErrUnsupported }
func (*Session) Stop() error           { return ErrUnsupported }
func (*Session) Close() error          { return nil }

// LockThread wires the calling goroutine to its OS thread. Pinning to a CPU
// is not supported here.
func LockThread(cpu int) (func(), error) {
	if cpu >= 0 {
		return nil, fmt.Errorf("counters: pin thread to CPU %d: %w", cpu, ErrUnsupported)
	}
	runtime.LockOSThread()
	return runtime.UnlockOSThread, nil
}
