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
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(ks []Kernel) []string {
	return lo.Map(ks, func(k Kernel, _ int) string { return k.Name })
}

func TestKernelsOrder(t *testing.T) {
	want := []string{
		"mm_ijk", "mm_jik", "mm_kij", "mm_ikj", "mm_jki", "mm_kji",
		"mm_ijk_blocking", "mm_cb",
	}
	assert.Equal(t, want, names(Kernels(DefaultBlockSize)))
}

func TestSelect(t *testing.T) {
	all := Kernels(DefaultBlockSize)

	got, err := Select(all, nil)
	require.NoError(t, err)
	assert.Len(t, got, len(all))

	// Registry order wins over request order; the prefix is optional.
	got, err = Select(all, []string{"cb", " MM_IJK ", "kij", "ijk"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mm_ijk", "mm_kij", "mm_cb"}, names(got))

	_, err = Select(all, []string{"ijk", "strassen"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mm_strassen")
}
