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

package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ajroetker/go-mmbench/bench"
	"github.com/ajroetker/go-mmbench/internal/counters"
)

// Header identifies the run a table belongs to.
type Header struct {
	N         int
	BlockSize int
	CPU       string // optional one-line CPU description
	Flush     string // optional cache flush method
}

const (
	nameWidth  = 18
	timeWidth  = 14
	valueWidth = 16
	tableWidth = nameWidth + timeWidth + 4*valueWidth
)

var (
	doubleRule = strings.Repeat("=", tableWidth)
	singleRule = strings.Repeat("-", tableWidth)
)

// Render writes the banner, the run configuration, the column header and one
// row per kernel.
func Render(w io.Writer, h Header, rows []Metrics) error {
	var b strings.Builder
	b.WriteString(doubleRule + "\n")
	fmt.Fprintf(&b, "\tMatrix Multiplication: A[%d][%d] * B[%d][%d] = C[%d][%d], bsize: %d\n",
		h.N, h.N, h.N, h.N, h.N, h.N, h.BlockSize)
	if h.CPU != "" {
		fmt.Fprintf(&b, "\tCPU: %s\n", h.CPU)
	}
	if h.Flush != "" {
		fmt.Fprintf(&b, "\tCache flush: %s\n", h.Flush)
	}
	b.WriteString(singleRule + "\n")
	fmt.Fprintf(&b, "%-*s%*s%*s%*s%*s%*s\n",
		nameWidth, "Performance:",
		timeWidth, "Runtime(ms)",
		valueWidth, "MFLOPS",
		valueWidth, "L1_DMissRate",
		valueWidth, "L2_DMissRate",
		valueWidth, "L3_DMissRate")
	b.WriteString(singleRule + "\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%-*s%*.3f%s%s%s%s\n",
			nameWidth, r.Kernel+":",
			timeWidth, r.RuntimeMS,
			cell(r.MFLOPS, 2),
			cell(r.L1, 4),
			cell(r.L2, 4),
			cell(r.L3, 4))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// cell formats v right-aligned with prec decimals, or "n/a" when v is not finite.
func cell(v float64, prec int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("%*s", valueWidth, "n/a")
	}
	return fmt.Sprintf("%*.*f", valueWidth, prec, v)
}

// RenderRaw writes the raw counter deltas per kernel with thousands
// separators.
func RenderRaw(w io.Writer, records []bench.Record) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder
	p.Fprintf(&b, "%-*s", nameWidth, "Raw counters:")
	for i := range counters.NumEvents {
		p.Fprintf(&b, "%*s", valueWidth+2, counters.Event(i).Label())
	}
	b.WriteString("\n")
	for _, r := range records {
		p.Fprintf(&b, "%-*s", nameWidth, r.Kernel+":")
		for _, v := range r.Counters {
			p.Fprintf(&b, "%*d", valueWidth+2, v)
		}
		b.WriteString("\n")
	}
	b.WriteString(doubleRule + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}
