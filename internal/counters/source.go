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

package counters

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ajroetker/go-mmbench/internal/cpuinfo"
)

// SourceKind selects how a Source is programmed into the PMU.
type SourceKind uint8

const (
	// KindRaw is a model-specific raw event code.
	KindRaw SourceKind = iota
	// KindCache is a generic kernel-defined cache event.
	KindCache
)

// CacheLevel, CacheOp and CacheResult name a generic cache event.
type (
	CacheLevel  uint8
	CacheOp     uint8
	CacheResult uint8
)

const (
	CacheL1D CacheLevel = iota
	CacheLL
)

const (
	OpRead CacheOp = iota
	OpWrite
)

const (
	ResultAccess CacheResult = iota
	ResultMiss
)

// Source is one hardware counter. An Event may be the sum of several Sources,
// e.g. separate load and store instruction counters.
type Source struct {
	Kind   SourceKind
	Code   uint64 // raw event code, KindRaw only
	Level  CacheLevel
	Op     CacheOp
	Result CacheResult
}

// Raw returns a raw event source.
func Raw(code uint64) Source {
	return Source{Kind: KindRaw, Code: code}
}

// Cache returns a generic cache event source.
func Cache(level CacheLevel, op CacheOp, result CacheResult) Source {
	return Source{Kind: KindCache, Level: level, Op: op, Result: result}
}

var (
	levelNames  = []string{"l1d", "ll"}
	opNames     = []string{"read", "write"}
	resultNames = []string{"access", "miss"}
)

// String renders the source in the syntax ParseSource accepts.
func (s Source) String() string {
	if s.Kind == KindRaw {
		return fmt.Sprintf("raw:%#x", s.Code)
	}
	return fmt.Sprintf("cache:%s:%s:%s", levelNames[s.Level], opNames[s.Op], resultNames[s.Result])
}

// ParseSource parses "raw:0x81d0" or "cache:<l1d|ll>:<read|write>:<access|miss>".
func ParseSource(s string) (Source, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), ":")
	switch {
	case len(parts) == 2 && parts[0] == "raw":
		code, err := strconv.ParseUint(parts[1], 0, 64)
		if err != nil {
			return Source{}, fmt.Errorf("counters: bad raw event code in %q: %w", s, err)
		}
		return Raw(code), nil
	case len(parts) == 4 && parts[0] == "cache":
		level, ok1 := index(levelNames, parts[1])
		op, ok2 := index(opNames, parts[2])
		result, ok3 := index(resultNames, parts[3])
		if !ok1 || !ok2 || !ok3 {
			return Source{}, fmt.Errorf("counters: bad cache event %q", s)
		}
		return Cache(CacheLevel(level), CacheOp(op), CacheResult(result)), nil
	}
	return Source{}, fmt.Errorf("counters: bad event source %q (want raw:0xCODE or cache:LEVEL:OP:RESULT)", s)
}

func index(names []string, s string) (int, bool) {
	for i, n := range names {
		if n == s {
			return i, true
		}
	}
	return 0, false
}

// Config maps every Event to the Sources summed to produce it.
type Config struct {
	Sources [NumEvents][]Source
}

// DefaultConfig returns the event mapping for a CPU vendor.
//
// Linux has no generic event for L2 misses or for retired loads plus stores,
// so those come from vendor-specific raw codes.
func DefaultConfig(vendor cpuinfo.Vendor) Config {
	var c Config
	llMiss := Cache(CacheLL, OpRead, ResultMiss)
	l1Miss := Cache(CacheL1D, OpRead, ResultMiss)
	switch vendor {
	case cpuinfo.VendorIntel:
		c.Sources[EventLoadStore] = []Source{Raw(0x81d0), Raw(0x82d0)} // MEM_INST_RETIRED.ALL_LOADS, ALL_STORES
		c.Sources[EventL1Miss] = []Source{l1Miss}
		c.Sources[EventL2Miss] = []Source{Raw(0x3f24)} // L2_RQSTS.MISS
		c.Sources[EventL3Miss] = []Source{llMiss}
	case cpuinfo.VendorAMD:
		c.Sources[EventLoadStore] = []Source{Raw(0x0729)} // LS_DISPATCH loads, stores, load-op-stores
		c.Sources[EventL1Miss] = []Source{l1Miss}
		c.Sources[EventL2Miss] = []Source{Raw(0x0964)} // L2 cache misses from DC misses
		c.Sources[EventL3Miss] = []Source{llMiss}
	case cpuinfo.VendorARM:
		c.Sources[EventLoadStore] = []Source{Raw(0x13)} // MEM_ACCESS
		c.Sources[EventL1Miss] = []Source{Raw(0x03)}    // L1D_CACHE_REFILL
		c.Sources[EventL2Miss] = []Source{Raw(0x17)}    // L2D_CACHE_REFILL
		c.Sources[EventL3Miss] = []Source{llMiss}
	default:
		c.Sources[EventLoadStore] = []Source{
			Cache(CacheL1D, OpRead, ResultAccess),
			Cache(CacheL1D, OpWrite, ResultAccess),
		}
		c.Sources[EventL1Miss] = []Source{l1Miss}
		// No portable L2 event exists; Open fails until one is supplied with Override.
		c.Sources[EventL3Miss] = []Source{llMiss}
	}
	return c
}

// Override replaces the sources of one event from a string of the form
// "l2=raw:0x3f24" or "lst=raw:0x81d0+raw:0x82d0".
func (c *Config) Override(s string) error {
	name, list, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("counters: bad event override %q (want EVENT=SOURCE[+SOURCE...])", s)
	}
	ev, err := ParseEvent(name)
	if err != nil {
		return err
	}
	var sources []Source
	for _, part := range strings.Split(list, "+") {
		src, err := ParseSource(part)
		if err != nil {
			return err
		}
		sources = append(sources, src)
	}
	c.Sources[ev] = sources
	return nil
}

// Describe lists the configured sources per event, for logs.
func (c Config) Describe() string {
	parts := make([]string, 0, NumEvents)
	for i := range NumEvents {
		srcs := make([]string, len(c.Sources[i]))
		for j, s := range c.Sources[i] {
			srcs[j] = s.String()
		}
		parts = append(parts, Event(i).Label()+"="+strings.Join(srcs, "+"))
	}
	return strings.Join(parts, " ")
}
