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

package report

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes the metrics in Prometheus text exposition format to
// path, for the node_exporter textfile collector. The file is replaced
// atomically.
func WriteTextfile(path string, h Header, rows []Metrics) error {
	reg := prometheus.NewRegistry()
	labels := []string{"kernel", "n", "bsize"}

	runtime := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mmbench_runtime_seconds",
		Help: "Wall-clock time of one cold-cache kernel run.",
	}, labels)
	mflops := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mmbench_mflops",
		Help: "Achieved MFLOPS assuming 2N^3 floating-point operations.",
	}, labels)
	missRate := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mmbench_miss_rate",
		Help: "Data cache miss rate per level; L2 and L3 are relative to the previous level's misses.",
	}, append(labels, "level"))
	reg.MustRegister(runtime, mflops, missRate)

	n, bsize := strconv.Itoa(h.N), strconv.Itoa(h.BlockSize)
	for _, r := range rows {
		runtime.WithLabelValues(r.Kernel, n, bsize).Set(r.RuntimeMS / 1e3)
		mflops.WithLabelValues(r.Kernel, n, bsize).Set(r.MFLOPS)
		missRate.WithLabelValues(r.Kernel, n, bsize, "l1").Set(r.L1)
		missRate.WithLabelValues(r.Kernel, n, bsize, "l2").Set(r.L2)
		missRate.WithLabelValues(r.Kernel, n, bsize, "l3").Set(r.L3)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("report: write textfile: %w", err)
	}
	return nil
}
