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

//go:build linux

package cpuinfo

import "github.com/prometheus/procfs"

// readCPUInfo reads the vendor and the first model name from the cpuinfo
// file of the proc filesystem mounted at dir.
func readCPUInfo(dir string) (Vendor, string) {
	fs, err := procfs.NewFS(dir)
	if err != nil {
		return VendorUnknown, ""
	}
	cpus, err := fs.CPUInfo()
	if err != nil {
		return VendorUnknown, ""
	}
	var vendor Vendor
	var model string
	for _, c := range cpus {
		if vendor == VendorUnknown {
			vendor = vendorFromID(c.VendorID)
		}
		if model == "" {
			model = c.ModelName
		}
	}
	return vendor, model
}
