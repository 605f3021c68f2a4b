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

// Package cacheflush approximates a cold cache before a timed kernel run.
//
// Flushing is a hint, not a guarantee: on amd64 each cache line of the given
// regions is written back and invalidated with CLFLUSH; elsewhere a buffer
// larger than the last-level cache is swept to push the regions out by
// capacity. Neither path can fail and neither changes the regions' contents.
package cacheflush

import (
	"fmt"
	"os"
	"strings"
)

// LineSize is the cache line size assumed when walking memory.
const LineSize = 64

// DefaultSweepBytes is the eviction buffer size when the last-level cache
// size is unknown.
const DefaultSweepBytes = 64 << 20

// Mode selects how Flush evicts data.
type Mode int

const (
	// ModeAuto uses CLFLUSH when available, else ModeSweep.
	ModeAuto Mode = iota
	// ModeSweep writes through an eviction buffer.
	ModeSweep
	// ModeOff disables flushing; kernels then start with whatever is cached.
	ModeOff
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeSweep:
		return "sweep"
	case ModeOff:
		return "off"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "auto", "sweep" or "off".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "sweep":
		return ModeSweep, nil
	case "off", "none", "0":
		return ModeOff, nil
	}
	return ModeAuto, fmt.Errorf("cacheflush: unknown mode %q (want auto, sweep or off)", s)
}

// EnvMode is the environment variable that supplies the default mode.
const EnvMode = "MMBENCH_FLUSH"

// ModeFromEnv returns the mode named by MMBENCH_FLUSH, or ModeAuto.
func ModeFromEnv() (Mode, error) {
	return ParseMode(os.Getenv(EnvMode))
}

// Flusher evicts matrices from the cache between runs.
type Flusher struct {
	mode  Mode
	sweep []byte
}

// New returns a Flusher. sweepBytes sizes the eviction buffer used by
// ModeSweep (and by ModeAuto without CLFLUSH); pass the last-level cache size,
// or 0 for DefaultSweepBytes. The buffer is twice that size.
func New(mode Mode, sweepBytes int) *Flusher {
	if mode == ModeAuto && haveCLFlush {
		return &Flusher{mode: ModeAuto}
	}
	if mode == ModeAuto {
		mode = ModeSweep
	}
	f := &Flusher{mode: mode}
	if mode == ModeSweep {
		if sweepBytes <= 0 {
			sweepBytes = DefaultSweepBytes
		}
		f.sweep = make([]byte, 2*sweepBytes)
	}
	return f
}

// Mode reports the mode actually in effect.
func (f *Flusher) Mode() Mode {
	return f.mode
}

// Method describes the eviction technique, for logs.
func (f *Flusher) Method() string {
	switch {
	case f.mode == ModeOff:
		return "disabled"
	case f.sweep != nil:
		return fmt.Sprintf("sweep %d MiB", len(f.sweep)>>20)
	default:
		return "clflush"
	}
}

// Flush evicts regions from the cache hierarchy as well as the platform
// allows.
func (f *Flusher) Flush(regions ...[]float32) {
	switch {
	case f.mode == ModeOff:
	case f.sweep != nil:
		sweep(f.sweep)
	default:
		for _, r := range regions {
			clflush(r)
		}
	}
}

// sweep dirties one byte per line so every line of buf is brought into
// the cache in modified state, displacing what was there.
func sweep(buf []byte) {
	for i := 0; i < len(buf); i += LineSize {
		buf[i]++
	}
}
