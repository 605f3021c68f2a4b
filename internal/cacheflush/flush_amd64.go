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

//go:build !noasm && amd64

package cacheflush

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CLFLUSH is part of SSE2, which every amd64 CPU has; the check guards
// against odd emulators that clear the feature bit.
var haveCLFlush = cpu.X86.HasSSE2

// flushLines executes CLFLUSH on lines consecutive cache lines starting at
// the line containing p, followed by MFENCE.
//
//go:noescape
func flushLines(p unsafe.Pointer, lines uintptr)

func clflush(r []float32) {
	if len(r) == 0 {
		return
	}
	p := unsafe.Pointer(unsafe.SliceData(r))
	off := uintptr(p) & (LineSize - 1)
	size := uintptr(len(r)) * unsafe.Sizeof(r[0])
	flushLines(p, (off+size+LineSize-1)/LineSize)
}
