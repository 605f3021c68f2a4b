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

// Package cpuinfo describes the processor the benchmark runs on: vendor and
// model, the ISA features Go detected, and the data cache hierarchy.
//
// Everything is best effort. On systems without /proc or sysfs the fields are
// left empty and callers fall back to their defaults.
package cpuinfo

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sys/cpu"
)

// Vendor identifies the CPU designer, which decides the raw PMU event codes.
type Vendor string

const (
	VendorUnknown Vendor = ""
	VendorIntel   Vendor = "intel"
	VendorAMD     Vendor = "amd"
	VendorARM     Vendor = "arm"
)

// Cache is one level of the data (or unified) cache hierarchy.
type Cache struct {
	Level int
	Type  string // "Data" or "Unified"
	Bytes int
}

// Info is a snapshot of the host CPU.
type Info struct {
	GOOS     string
	GOARCH   string
	NumCPU   int
	Vendor   Vendor
	Model    string
	Features []string
	Caches   []Cache
}

var (
	procDir     = "/proc"
	sysCacheDir = "/sys/devices/system/cpu/cpu0/cache"
)

// Detect gathers an Info for the running machine.
func Detect() Info {
	info := Info{
		GOOS:     runtime.GOOS,
		GOARCH:   runtime.GOARCH,
		NumCPU:   runtime.NumCPU(),
		Features: features(),
	}
	info.Vendor, info.Model = readCPUInfo(procDir)
	if info.Vendor == VendorUnknown && (runtime.GOARCH == "arm64" || runtime.GOARCH == "arm") {
		info.Vendor = VendorARM
	}
	info.Caches = readCaches(sysCacheDir)
	return info
}

// LastLevelCacheBytes returns the size of the outermost cache, or 0 if unknown.
func (i Info) LastLevelCacheBytes() int {
	var best Cache
	for _, c := range i.Caches {
		if c.Level > best.Level {
			best = c
		}
	}
	return best.Bytes
}

// String renders a one-line summary, e.g.
// "Intel(R) Xeon(R) ... (linux/amd64, 16 CPUs; avx2 fma) L1d 48K L2 1280K L3 30M".
func (i Info) String() string {
	var b strings.Builder
	model := i.Model
	if model == "" {
		model = "unknown CPU"
	}
	fmt.Fprintf(&b, "%s (%s/%s, %d CPUs", model, i.GOOS, i.GOARCH, i.NumCPU)
	if len(i.Features) > 0 {
		fmt.Fprintf(&b, "; %s", strings.Join(i.Features, " "))
	}
	b.WriteString(")")
	for _, c := range i.Caches {
		name := fmt.Sprintf("L%d", c.Level)
		if c.Level == 1 {
			name += "d"
		}
		fmt.Fprintf(&b, " %s %s", name, formatSize(c.Bytes))
	}
	return b.String()
}

func features() []string {
	var out []string
	add := func(ok bool, name string) {
		if ok {
			out = append(out, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(cpu.X86.HasSSE2, "sse2")
		add(cpu.X86.HasSSE42, "sse4.2")
		add(cpu.X86.HasAVX, "avx")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasFMA, "fma")
		add(cpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(cpu.ARM64.HasASIMD, "asimd")
		add(cpu.ARM64.HasFP, "fp")
		add(cpu.ARM64.HasSVE, "sve")
		add(cpu.ARM64.HasSVE2, "sve2")
	}
	return out
}

// vendorFromID maps a /proc/cpuinfo vendor_id to a Vendor.
func vendorFromID(id string) Vendor {
	switch strings.TrimSpace(id) {
	case "GenuineIntel":
		return VendorIntel
	case "AuthenticAMD", "HygonGenuine":
		return VendorAMD
	}
	return VendorUnknown
}

// readCaches walks dir/index*/ and returns the data and unified caches,
// ordered by level.
func readCaches(dir string) []Cache {
	entries, err := filepath.Glob(filepath.Join(dir, "index*"))
	if err != nil {
		return nil
	}
	var caches []Cache
	for _, e := range entries {
		typ := readTrimmed(filepath.Join(e, "type"))
		if typ != "Data" && typ != "Unified" {
			continue
		}
		level, err := strconv.Atoi(readTrimmed(filepath.Join(e, "level")))
		if err != nil {
			continue
		}
		size, err := parseSize(readTrimmed(filepath.Join(e, "size")))
		if err != nil {
			continue
		}
		caches = append(caches, Cache{Level: level, Type: typ, Bytes: size})
	}
	slices.SortFunc(caches, func(a, b Cache) int { return cmp.Compare(a.Level, b.Level) })
	return caches
}

func readTrimmed(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// parseSize parses sysfs cache sizes such as "32K", "1024K" or "30M".
func parseSize(s string) (int, error) {
	mult := 1
	switch {
	case strings.HasSuffix(s, "K"):
		mult, s = 1<<10, strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		mult, s = 1<<20, strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "G"):
		mult, s = 1<<30, strings.TrimSuffix(s, "G")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("cpuinfo: bad cache size %q: %w", s, err)
	}
	return v * mult, nil
}

func formatSize(n int) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%dM", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%dK", n>>10)
	}
	return strconv.Itoa(n)
}
