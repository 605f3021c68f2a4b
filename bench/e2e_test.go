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

package bench_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-mmbench/bench"
	"github.com/ajroetker/go-mmbench/internal/cacheflush"
	"github.com/ajroetker/go-mmbench/internal/counters"
	"github.com/ajroetker/go-mmbench/report"
)

func TestEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("runs every kernel at N=128")
	}
	log, _ := test.NewNullLogger()
	cfg := bench.DefaultConfig()
	cfg.N = 128

	flusher := cacheflush.New(cacheflush.ModeAuto, 1<<20)
	d, err := bench.New(cfg, counters.Disabled{}, flusher, log)
	require.NoError(t, err)

	records, err := d.Run(d.Kernels())
	require.NoError(t, err)
	require.Len(t, records, 8)

	rows := report.DeriveAll(records, cfg.N)
	for _, r := range rows {
		assert.Positive(t, r.RuntimeMS, r.Kernel)
		assert.False(t, math.IsInf(r.MFLOPS, 0) || math.IsNaN(r.MFLOPS), "%s MFLOPS = %v", r.Kernel, r.MFLOPS)
		assert.True(t, math.IsNaN(r.L1), "no counters, so rates are undefined")
	}

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, report.Header{N: cfg.N, BlockSize: cfg.EffectiveBlockSize()}, rows))
	out := buf.String()
	t.Log("\n" + out)
	assert.Contains(t, out, "A[128][128] * B[128][128] = C[128][128], bsize: 32")
	kernelRows := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "mm_") {
			kernelRows++
		}
	}
	assert.Equal(t, 8, kernelRows)
}
