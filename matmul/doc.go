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

// Package matmul provides the square float32 matrix multiplication kernels
// measured by mmbench.
//
// Every kernel computes C = A * B for N x N row-major matrices stored as flat
// slices. The kernels differ only in how they walk memory:
//
//   - MatMulIJK, MatMulJIK, MatMulKIJ, MatMulIKJ, MatMulJKI, MatMulKJI: the six
//     nestings of the three index loops, one function per order so each is a
//     separately compiled loop nest.
//   - MatMulBlocked: square tiles of a caller-chosen side length.
//   - MatMulCacheOblivious: recursive halving of the largest dimension, with
//     no cache-size parameter at all.
//
// Results are identical up to float32 summation-order differences. C is
// fully overwritten by every call; its previous contents never leak into the
// result.
//
// # Example Usage
//
//	import "github.com/ajroetker/go-mmbench/matmul"
//
//	a, _ := matmul.NewMatrix(512)
//	b, _ := matmul.NewMatrix(512)
//	c, _ := matmul.NewMatrix(512)
//	a.Randomize(rng)
//	b.Randomize(rng)
//
//	for _, k := range matmul.Kernels(32) {
//	    k.Run(a.Data, b.Data, c.Data, 512)
//	}
package matmul
