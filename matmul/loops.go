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

// The six loop-order kernels are deliberately written out one by one rather
// than generated from a shared traversal, so the compiler optimizes each loop
// nest on its own and the benchmark compares genuinely different code.
//
// Orders with k innermost (ijk, jik) reduce one output cell in a register and
// store it once. The other orders stream partial products into C, so they
// clear C first and each cell then receives exactly n contributions.

// MatMulIJK computes C = A * B with i outer, j middle, k inner.
// A row of A is read sequentially, a column of B with stride n.
func MatMulIJK(a, b, c []float32, n int) {
	checkArgs(a, b, c, n)
	for i := range n {
		aRow := a[i*n : (i+1)*n]
		for j := range n {
			var sum float32
			for k := range n {
				sum += aRow[k] * b[k*n+j]
			}
			c[i*n+j] = sum
		}
	}
}

// MatMulJIK computes C = A * B with j outer, i middle, k inner.
func MatMulJIK(a, b, c []float32, n int) {
	checkArgs(a, b, c, n)
	for j := range n {
		for i := range n {
			aRow := a[i*n : (i+1)*n]
			var sum float32
			for k := range n {
				sum += aRow[k] * b[k*n+j]
			}
			c[i*n+j] = sum
		}
	}
}

// MatMulKIJ computes C = A * B with k outer, i middle, j inner.
// Rows of B and C are both walked with unit stride.
func MatMulKIJ(a, b, c []float32, n int) {
	checkArgs(a, b, c, n)
	clear(c[:n*n])
	for k := range n {
		bRow := b[k*n : (k+1)*n]
		for i := range n {
			aik := a[i*n+k]
			cRow := c[i*n : (i+1)*n]
			for j := range n {
				cRow[j] += aik * bRow[j]
			}
		}
	}
}

// MatMulIKJ computes C = A * B with i outer, k middle, j inner.
func MatMulIKJ(a, b, c []float32, n int) {
	checkArgs(a, b, c, n)
	clear(c[:n*n])
	for i := range n {
		cRow := c[i*n : (i+1)*n]
		for k := range n {
			aik := a[i*n+k]
			bRow := b[k*n : (k+1)*n]
			for j := range n {
				cRow[j] += aik * bRow[j]
			}
		}
	}
}

// MatMulJKI computes C = A * B with j outer, k middle, i inner.
// Columns of A and C are walked with stride n, the worst case for row-major data.
func MatMulJKI(a, b, c []float32, n int) {
	checkArgs(a, b, c, n)
	clear(c[:n*n])
	for j := range n {
		for k := range n {
			bkj := b[k*n+j]
			for i := range n {
				c[i*n+j] += a[i*n+k] * bkj
			}
		}
	}
}

// MatMulKJI computes C = A * B with k outer, j middle, i inner.
func MatMulKJI(a, b, c []float32, n int) {
	checkArgs(a, b, c, n)
	clear(c[:n*n])
	for k := range n {
		for j := range n {
			bkj := b[k*n+j]
			for i := range n {
				c[i*n+j] += a[i*n+k] * bkj
			}
		}
	}
}
