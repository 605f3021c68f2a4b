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

import "errors"

// groupTimes are the time_enabled and time_running fields of a group read,
// in nanoseconds.
type groupTimes struct {
	enabled uint64
	running uint64
}

// since returns the times accumulated after base. PERF_EVENT_IOC_RESET
// zeroes counts but not these totals, so each window is measured as a delta.
func (t groupTimes) since(base groupTimes) groupTimes {
	sub := func(a, b uint64) uint64 {
		if a < b {
			return 0
		}
		return a - b
	}
	return groupTimes{
		enabled: sub(t.enabled, base.enabled),
		running: sub(t.running, base.running),
	}
}

// multiplexed reports whether the group was off the PMU for part of the window.
func (t groupTimes) multiplexed() bool {
	return t.running < t.enabled
}

var errNeverScheduled = errors.New("counters: event group was never scheduled on the PMU (too many events for the hardware?)")

// scaleCounts sums counts[i] into the Event owner[i], extrapolating each
// count to the full window when the group was multiplexed.
func scaleCounts(counts []uint64, owner []Event, window groupTimes) (Values, error) {
	var v Values
	if window.enabled > 0 && window.running == 0 {
		return v, errNeverScheduled
	}
	for i, ev := range owner {
		c := counts[i]
		if window.multiplexed() {
			c = uint64(float64(c) * float64(window.enabled) / float64(window.running))
		}
		v[ev] += c
	}
	return v, nil
}
