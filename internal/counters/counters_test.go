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

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-mmbench/internal/cpuinfo"
)

func TestEventNames(t *testing.T) {
	assert.Equal(t, "LoadStore", EventLoadStore.String())
	assert.Equal(t, "L3Miss", EventL3Miss.String())
	assert.Equal(t, "Event(9)", Event(9).String())
	assert.Equal(t, "L2_DCM", EventL2Miss.Label())

	for _, in := range []string{"l2", "L2", "l2_dcm", "L2Miss"} {
		ev, err := ParseEvent(in)
		require.NoError(t, err, in)
		assert.Equal(t, EventL2Miss, ev, in)
	}
	_, err := ParseEvent("l4")
	assert.Error(t, err)
}

func TestParseSource(t *testing.T) {
	tests := []struct {
		in   string
		want Source
	}{
		{"raw:0x81d0", Raw(0x81d0)},
		{"RAW:19", Raw(19)},
		{"cache:l1d:read:miss", Cache(CacheL1D, OpRead, ResultMiss)},
		{"cache:ll:write:access", Cache(CacheLL, OpWrite, ResultAccess)},
	}
	for _, tt := range tests {
		got, err := ParseSource(tt.in)
		require.NoError(t, err, tt.in)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseSource(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
		back, err := ParseSource(got.String())
		require.NoError(t, err)
		assert.Equal(t, got, back, "String() must round-trip")
	}

	for _, bad := range []string{"", "raw", "raw:zz", "cache:l2:read:miss", "cache:l1d:exec:miss", "pmu:1"} {
		_, err := ParseSource(bad)
		assert.Error(t, err, bad)
	}
}

func TestDefaultConfig(t *testing.T) {
	for _, v := range []cpuinfo.Vendor{cpuinfo.VendorIntel, cpuinfo.VendorAMD, cpuinfo.VendorARM} {
		c := DefaultConfig(v)
		for i := range NumEvents {
			assert.NotEmpty(t, c.Sources[i], "vendor %q event %s", v, Event(i))
		}
	}
	c := DefaultConfig(cpuinfo.VendorUnknown)
	assert.Empty(t, c.Sources[EventL2Miss], "unknown vendors have no portable L2 event")
	assert.Len(t, c.Sources[EventLoadStore], 2)
}

func TestConfigOverride(t *testing.T) {
	c := DefaultConfig(cpuinfo.VendorUnknown)
	require.NoError(t, c.Override("l2=raw:0x3f24"))
	require.NoError(t, c.Override("lst=raw:0x81d0+raw:0x82d0"))
	assert.Equal(t, []Source{Raw(0x3f24)}, c.Sources[EventL2Miss])
	assert.Equal(t, []Source{Raw(0x81d0), Raw(0x82d0)}, c.Sources[EventLoadStore])
	assert.Contains(t, c.Describe(), "L2_DCM=raw:0x3f24")

	assert.Error(t, c.Override("l2"))
	assert.Error(t, c.Override("l9=raw:1"))
	assert.Error(t, c.Override("l2=raw:1+bogus"))
}

func TestDisabled(t *testing.T) {
	var g Gateway = Disabled{}
	require.NoError(t, g.Start())
	require.NoError(t, g.Reset())
	v, err := g.Read()
	require.NoError(t, err)
	assert.Equal(t, Values{}, v)
	require.NoError(t, g.Stop())
}
