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

// ObliviousLeaf is the sub-problem side below which MatMulCacheOblivious
// stops recursing. It bounds call overhead only; it is not tuned to any
// cache size.
const ObliviousLeaf = 16

// MatMulCacheOblivious computes C = A * B by recursive subdivision.
//
// The (m, n, k) sub-problem is split in half along its largest dimension until
// all three are at most ObliviousLeaf, at which point a direct ikj loop runs
// on the leaf. Splitting m or n produces disjoint halves of C; splitting k
// produces two sub-products accumulated into the same part of C one after the
// other. Working sets shrink geometrically, so some level of the recursion fits
// each cache level without the algorithm knowing its size.
func MatMulCacheOblivious(a, b, c []float32, n int) {
	checkArgs(a, b, c, n)
	clear(c[:n*n])
	obliviousRec(a, b, c, n, 0, 0, 0, n, n, n)
}

// obliviousRec accumulates C[i0:i0+m, j0:j0+nn] += A[i0:i0+m, k0:k0+kk] * B[k0:k0+kk, j0:j0+nn].
// ld is the row stride shared by all three matrices.
func obliviousRec(a, b, c []float32, ld, i0, j0, k0, m, nn, kk int) {
	if m <= ObliviousLeaf && nn <= ObliviousLeaf && kk <= ObliviousLeaf {
		obliviousLeaf(a, b, c, ld, i0, j0, k0, m, nn, kk)
		return
	}

	switch {
	case m >= nn && m >= kk:
		h := m / 2
		obliviousRec(a, b, c, ld, i0, j0, k0, h, nn, kk)
		obliviousRec(a, b, c, ld, i0+h, j0, k0, m-h, nn, kk)
	case nn >= kk:
		h := nn / 2
		obliviousRec(a, b, c, ld, i0, j0, k0, m, h, kk)
		obliviousRec(a, b, c, ld, i0, j0+h, k0, m, nn-h, kk)
	default:
		h := kk / 2
		obliviousRec(a, b, c, ld, i0, j0, k0, m, nn, h)
		obliviousRec(a, b, c, ld, i0, j0, k0+h, m, nn, kk-h)
	}
}

func obliviousLeaf(a, b, c []float32, ld, i0, j0, k0, m, nn, kk int) {
	for i := i0; i < i0+m; i++ {
		cRow := c[i*ld+j0 : i*ld+j0+nn]
		for p := k0; p < k0+kk; p++ {
			aip := a[i*ld+p]
			bRow := b[p*ld+j0 : p*ld+j0+nn]
			for j := range cRow {
				cRow[j] += aip * bRow[j]
			}
		}
	}
}
