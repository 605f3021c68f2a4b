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

// DefaultBlockSize is the tile side used when none is configured.
// 3 tiles of 32x32 float32 = 3 * 32 * 32 * 4 = 12KB, well inside a 32KB L1d.
const DefaultBlockSize = 32

// MatMulBlocked computes C = A * B by walking the iteration space in
// bsize x bsize tiles.
//
// For each (i0, j0) output tile the k dimension is swept tile by tile, so a
// tile of A, a tile of B and a tile of C are the whole working set of the
// innermost three loops. Tiles at the right and bottom edges are clamped, so
// n does not need to be a multiple of bsize. A bsize larger than n degenerates
// to a single tile.
func MatMulBlocked(a, b, c []float32, n, bsize int) {
	checkArgs(a, b, c, n)
	if bsize < 1 {
		panic("matmul: block size must be positive")
	}
	clear(c[:n*n])

	for i0 := 0; i0 < n; i0 += bsize {
		iEnd := min(i0+bsize, n)
		for j0 := 0; j0 < n; j0 += bsize {
			jEnd := min(j0+bsize, n)
			for k0 := 0; k0 < n; k0 += bsize {
				kEnd := min(k0+bsize, n)

				for i := i0; i < iEnd; i++ {
					aRow := a[i*n : (i+1)*n]
					for j := j0; j < jEnd; j++ {
						sum := c[i*n+j]
						for k := k0; k < kEnd; k++ {
							sum += aRow[k] * b[k*n+j]
						}
						c[i*n+j] = sum
					}
				}
			}
		}
	}
}
