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

package counters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupTimesSince(t *testing.T) {
	base := groupTimes{enabled: 100, running: 60}
	assert.Equal(t, groupTimes{enabled: 50, running: 50}, groupTimes{enabled: 150, running: 110}.since(base))
	assert.Equal(t, groupTimes{}, groupTimes{enabled: 10, running: 10}.since(base))
}

func TestScaleCounts(t *testing.T) {
	owner := []Event{EventLoadStore, EventLoadStore, EventL1Miss, EventL2Miss, EventL3Miss}
	counts := []uint64{1000, 500, 40, 20, 10}

	tests := []struct {
		name    string
		base    groupTimes
		cur     groupTimes
		want    Values
		wantErr error
	}{
		{
			name: "fully scheduled",
			cur:  groupTimes{enabled: 1000, running: 1000},
			want: Values{1500, 40, 20, 10},
		},
		{
			name: "half scheduled",
			cur:  groupTimes{enabled: 1000, running: 500},
			want: Values{3000, 80, 40, 20},
		},
		{
			// Earlier windows were multiplexed; this one ran the whole time.
			name: "earlier multiplexing does not leak",
			base: groupTimes{enabled: 1000, running: 400},
			cur:  groupTimes{enabled: 2000, running: 1400},
			want: Values{1500, 40, 20, 10},
		},
		{
			// Session totals show running time, but none of it in this window.
			name:    "never scheduled in window",
			base:    groupTimes{enabled: 1000, running: 1000},
			cur:     groupTimes{enabled: 2000, running: 1000},
			wantErr: errNeverScheduled,
		},
		{
			name: "empty window",
			base: groupTimes{enabled: 1000, running: 1000},
			cur:  groupTimes{enabled: 1000, running: 1000},
			want: Values{1500, 40, 20, 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := tt.cur.since(tt.base)
			got, err := scaleCounts(counts, owner, window)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
