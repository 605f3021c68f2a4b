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

// Package counters reads the hardware performance counters that mmbench
// reports: load/store instructions and L1, L2 and L3 data-cache misses.
//
// A Session is one perf_event group opened once for the whole benchmark and
// reset before every kernel, so each Read isolates a single kernel's window.
// Counting is per thread; callers must run the whole session on one locked
// OS thread (see LockThread).
package counters

//go:generate go tool stringer -type=Event -trimprefix=Event

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported is returned when the platform has no usable counter interface.
var ErrUnsupported = errors.New("counters: hardware counters are not supported on this platform")

// Event identifies one of the four measured quantities. The order is fixed
// and indexes Values.
type Event int

const (
	EventLoadStore Event = iota // retired load and store instructions
	EventL1Miss                 // L1 data-cache misses
	EventL2Miss                 // L2 data-cache misses
	EventL3Miss                 // L3 (last level) data-cache misses
)

// NumEvents is the size of the event set.
const NumEvents = int(EventL3Miss) + 1

// Label returns the short column label for e, e.g. "L1_DCM".
func (e Event) Label() string {
	switch e {
	case EventLoadStore:
		return "LST_INS"
	case EventL1Miss:
		return "L1_DCM"
	case EventL2Miss:
		return "L2_DCM"
	case EventL3Miss:
		return "L3_DCM"
	}
	return e.String()
}

// ParseEvent accepts "lst", "l1", "l2", "l3" or an Event name, any case.
func ParseEvent(s string) (Event, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lst", "loadstore", "lst_ins":
		return EventLoadStore, nil
	case "l1", "l1miss", "l1_dcm":
		return EventL1Miss, nil
	case "l2", "l2miss", "l2_dcm":
		return EventL2Miss, nil
	case "l3", "l3miss", "l3_dcm":
		return EventL3Miss, nil
	}
	return 0, fmt.Errorf("counters: unknown event %q (want lst, l1, l2 or l3)", s)
}

// Values holds one raw count per Event.
type Values [NumEvents]uint64

// Gateway is the narrow interface the benchmark driver measures through.
// Start and Stop bracket the whole session; Reset and Read bracket each kernel.
type Gateway interface {
	Start() error
	Reset() error
	Read() (Values, error)
	Stop() error
}

// Disabled is a Gateway that counts nothing. It is only used when the
// operator explicitly turns counters off; every Read returns zeros.
type Disabled struct{}

func (Disabled) Start() error          { return nil }
func (Disabled) Reset() error          { return nil }
func (Disabled) Read() (Values, error) { return Values{}, nil }
func (Disabled) Stop() error           { return nil }
