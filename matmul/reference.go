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

// Reference is the plain scalar implementation that every kernel is checked
// against. C[i,j] = sum(A[i,p] * B[p,j]) for p in 0..n-1, accumulated in
// float64 and rounded once per cell.
func Reference(a, b, c []float32, n int) {
	checkArgs(a, b, c, n)
	for i := range n {
		for j := range n {
			var sum float64
			for p := range n {
				sum += float64(a[i*n+p]) * float64(b[p*n+j])
			}
			c[i*n+j] = float32(sum)
		}
	}
}
