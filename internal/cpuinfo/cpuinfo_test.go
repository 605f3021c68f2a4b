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

package cpuinfo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVendorFromID(t *testing.T) {
	tests := map[string]Vendor{
		"GenuineIntel":  VendorIntel,
		"AuthenticAMD":  VendorAMD,
		"HygonGenuine":  VendorAMD,
		" GenuineIntel": VendorIntel,
		"0x41":          VendorUnknown,
		"":              VendorUnknown,
	}
	for id, want := range tests {
		if got := vendorFromID(id); got != want {
			t.Errorf("vendorFromID(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int{
		"32K":   32 << 10,
		"1280K": 1280 << 10,
		"30M":   30 << 20,
		"512":   512,
	}
	for in, want := range tests {
		got, err := parseSize(in)
		if err != nil || got != want {
			t.Errorf("parseSize(%q) = %d, %v, want %d", in, got, err, want)
		}
	}
	if _, err := parseSize("lots"); err == nil {
		t.Error("parseSize(\"lots\") succeeded")
	}
}

func TestReadCaches(t *testing.T) {
	dir := t.TempDir()
	write := func(index, typ, level, size string) {
		d := filepath.Join(dir, index)
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
		for name, v := range map[string]string{"type": typ, "level": level, "size": size} {
			if err := os.WriteFile(filepath.Join(d, name), []byte(v+"\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	write("index3", "Unified", "3", "30M")
	write("index0", "Data", "1", "48K")
	write("index1", "Instruction", "1", "32K")
	write("index2", "Unified", "2", "1280K")

	caches := readCaches(dir)
	if len(caches) != 3 {
		t.Fatalf("readCaches() returned %d caches, want 3: %+v", len(caches), caches)
	}
	info := Info{Caches: caches}
	if caches[0] != (Cache{Level: 1, Type: "Data", Bytes: 48 << 10}) {
		t.Errorf("caches[0] = %+v", caches[0])
	}
	if got := info.LastLevelCacheBytes(); got != 30<<20 {
		t.Errorf("LastLevelCacheBytes() = %d", got)
	}
	if got := (Info{}).LastLevelCacheBytes(); got != 0 {
		t.Errorf("LastLevelCacheBytes() without caches = %d, want 0", got)
	}
	if s := info.String(); !strings.Contains(s, "L1d 48K L2 1280K L3 30M") {
		t.Errorf("String() = %q", s)
	}
}

func TestDetect(t *testing.T) {
	info := Detect()
	if info.GOARCH == "" || info.NumCPU < 1 {
		t.Errorf("Detect() = %+v", info)
	}
	t.Logf("CPU: %s", info)
}
