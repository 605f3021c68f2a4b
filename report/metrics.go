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

// Package report turns raw measurements into MFLOPS and cache miss rates and
// renders them as a fixed-width table.
//
// Miss rates follow the cache hierarchy: a miss at one level is an access at
// the next, so
//
//	L1 = L1_DCM / LST_INS
//	L2 = L2_DCM / L1_DCM
//	L3 = L3_DCM / L2_DCM
//
// A zero denominator yields NaN or +Inf, which the table prints as "n/a".
package report

import (
	"time"

	"github.com/samber/lo"

	"github.com/ajroetker/go-mmbench/bench"
	"github.com/ajroetker/go-mmbench/internal/counters"
)

// Metrics are the derived figures for one kernel.
type Metrics struct {
	Kernel    string
	RuntimeMS float64
	MFLOPS    float64
	L1        float64
	L2        float64
	L3        float64
}

// MFLOPS is the nominal 2n³ floating-point operations of an n x n multiply
// divided by elapsed, in millions per second.
func MFLOPS(n int, elapsed time.Duration) float64 {
	fn := float64(n)
	return 2 * fn * fn * fn / (1e6 * elapsed.Seconds())
}

// MissRates derives the L1, L2 and L3 miss rates from raw counts. Division is
// plain float64 division, so a zero denominator gives NaN or +Inf rather than
// a panic.
func MissRates(v counters.Values) (l1, l2, l3 float64) {
	lst := float64(v[counters.EventLoadStore])
	m1 := float64(v[counters.EventL1Miss])
	m2 := float64(v[counters.EventL2Miss])
	m3 := float64(v[counters.EventL3Miss])
	return m1 / lst, m2 / m1, m3 / m2
}

// Derive computes the metrics of one record for matrix side n.
func Derive(rec bench.Record, n int) Metrics {
	l1, l2, l3 := MissRates(rec.Counters)
	return Metrics{
		Kernel:    rec.Kernel,
		RuntimeMS: float64(rec.Elapsed) / float64(time.Millisecond),
		MFLOPS:    MFLOPS(n, rec.Elapsed),
		L1:        l1,
		L2:        l2,
		L3:        l3,
	}
}

// DeriveAll derives metrics for every record, keeping order.
func DeriveAll(records []bench.Record, n int) []Metrics {
	return lo.Map(records, func(r bench.Record, _ int) Metrics { return Derive(r, n) })
}
