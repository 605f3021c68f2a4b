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

package matmul

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Kernel is a named multiplication strategy. Run has the same contract for
// every kernel: C = A * B for n x n row-major slices.
type Kernel struct {
	Name string
	Run  func(a, b, c []float32, n int)
}

// Kernels returns all kernels in the fixed order the benchmark measures
// them. bsize is bound into the blocked kernel.
func Kernels(bsize int) []Kernel {
	return []Kernel{
		{Name: "mm_ijk", Run: MatMulIJK},
		{Name: "mm_jik", Run: MatMulJIK},
		{Name: "mm_kij", Run: MatMulKIJ},
		{Name: "mm_ikj", Run: MatMulIKJ},
		{Name: "mm_jki", Run: MatMulJKI},
		{Name: "mm_kji", Run: MatMulKJI},
		{Name: "mm_ijk_blocking", Run: func(a, b, c []float32, n int) {
			MatMulBlocked(a, b, c, n, bsize)
		}},
		{Name: "mm_cb", Run: MatMulCacheOblivious},
	}
}

// Select returns the kernels of all whose names appear in names, keeping the
// order of all. Names may omit the "mm_" prefix. An empty names list selects
// everything.
func Select(all []Kernel, names []string) ([]Kernel, error) {
	if len(names) == 0 {
		return all, nil
	}
	wanted := lo.Map(names, func(name string, _ int) string {
		name = strings.ToLower(strings.TrimSpace(name))
		if !strings.HasPrefix(name, "mm_") {
			name = "mm_" + name
		}
		return name
	})
	known := lo.Map(all, func(k Kernel, _ int) string { return k.Name })
	if unknown := lo.Without(lo.Uniq(wanted), known...); len(unknown) > 0 {
		return nil, fmt.Errorf("matmul: unknown kernel(s) %s (have %s)",
			strings.Join(unknown, ", "), strings.Join(known, ", "))
	}
	return lo.Filter(all, func(k Kernel, _ int) bool {
		return lo.Contains(wanted, k.Name)
	}), nil
}
