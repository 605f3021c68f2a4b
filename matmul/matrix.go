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
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"unsafe"
)

// ErrSize is returned by NewMatrix for a side length that cannot be allocated.
var ErrSize = errors.New("matmul: invalid matrix size")

// Matrix is a square row-major float32 matrix. N never changes after
// NewMatrix returns.
type Matrix struct {
	N    int
	Data []float32
}

// NewMatrix allocates a zeroed n x n matrix.
func NewMatrix(n int) (*Matrix, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: side length %d must be positive", ErrSize, n)
	}
	elemSize := int(unsafe.Sizeof(float32(0)))
	if n > math.MaxInt/n || n*n > math.MaxInt/elemSize {
		return nil, fmt.Errorf("%w: %dx%d float32 overflows the address space", ErrSize, n, n)
	}
	return &Matrix{N: n, Data: make([]float32, n*n)}, nil
}

// Randomize fills m with uniformly distributed values in [0, 1).
func (m *Matrix) Randomize(r *rand.Rand) {
	for i := range m.Data {
		m.Data[i] = r.Float32()
	}
}

// checkArgs panics if the slices cannot hold n x n matrices.
func checkArgs(a, b, c []float32, n int) {
	if n < 1 {
		panic("matmul: matrix side must be positive")
	}
	size := n * n
	if len(a) < size {
		panic("matmul: A slice too short")
	}
	if len(b) < size {
		panic("matmul: B slice too short")
	}
	if len(c) < size {
		panic("matmul: C slice too short")
	}
}
