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

package cacheflush

import (
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"SWEEP", ModeSweep, false},
		{" off ", ModeOff, false},
		{"none", ModeOff, false},
		{"clflushopt", ModeAuto, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v, err=%v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestModeFromEnv(t *testing.T) {
	t.Setenv(EnvMode, "sweep")
	if m, err := ModeFromEnv(); err != nil || m != ModeSweep {
		t.Errorf("ModeFromEnv() = %v, %v", m, err)
	}
}

func TestFlushPreservesData(t *testing.T) {
	for _, mode := range []Mode{ModeAuto, ModeSweep, ModeOff} {
		t.Run(mode.String(), func(t *testing.T) {
			f := New(mode, 1<<16)
			t.Logf("method: %s", f.Method())

			// Odd lengths and a sub-slice start off a line boundary.
			backing := make([]float32, 1031)
			for i := range backing {
				backing[i] = float32(i) * 0.5
			}
			region := backing[3:1000]
			f.Flush(region, backing, nil, []float32{})

			for i := range backing {
				if backing[i] != float32(i)*0.5 {
					t.Fatalf("element %d changed to %v", i, backing[i])
				}
			}
		})
	}
}

func TestNewSweepSizing(t *testing.T) {
	f := New(ModeSweep, 0)
	if len(f.sweep) != 2*DefaultSweepBytes {
		t.Errorf("default sweep buffer = %d bytes, want %d", len(f.sweep), 2*DefaultSweepBytes)
	}
	f = New(ModeSweep, 1<<20)
	if len(f.sweep) != 2<<20 {
		t.Errorf("sweep buffer = %d bytes, want %d", len(f.sweep), 2<<20)
	}
	if f := New(ModeOff, 1<<20); f.sweep != nil || f.Method() != "disabled" {
		t.Errorf("ModeOff allocated a sweep buffer or reports %q", f.Method())
	}
	if f := New(ModeAuto, 1<<20); f.Mode() == ModeAuto && f.sweep != nil {
		t.Error("auto mode with CLFLUSH should not sweep")
	}
}

func BenchmarkFlush(b *testing.B) {
	region := make([]float32, 512*512)
	for _, mode := range []Mode{ModeAuto, ModeSweep} {
		f := New(mode, 0)
		b.Run(f.Method(), func(b *testing.B) {
			for b.Loop() {
				f.Flush(region, region, region)
			}
		})
	}
}
