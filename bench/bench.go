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

// Package bench runs every selected kernel once against the same pair of
// random matrices and records its wall-clock time and counter deltas.
//
// Each measurement follows the same sequence: flush A, B and C from the
// caches, take the start time, reset the counters, run the kernel, read the
// counters, take the end time. Kernels run strictly one after another on the
// calling goroutine.
package bench

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ajroetker/go-mmbench/internal/counters"
	"github.com/ajroetker/go-mmbench/matmul"
)

// ErrConfig marks errors caused by invalid configuration.
var ErrConfig = errors.New("bench: invalid configuration")

const (
	DefaultN    = 512
	DefaultSeed = 1 << 12
)

// Config describes one benchmark run.
type Config struct {
	N         int      // matrix side length
	BlockSize int      // tile side for mm_ijk_blocking
	Seed      uint64   // seed for A and B
	Kernels   []string // kernel names to run; empty means all
}

// DefaultConfig returns N=512, block size 32, seed 4096, all kernels.
func DefaultConfig() Config {
	return Config{
		N:         DefaultN,
		BlockSize: matmul.DefaultBlockSize,
		Seed:      DefaultSeed,
	}
}

// Validate rejects sizes the kernels cannot run with.
func (c Config) Validate() error {
	if c.N < 1 {
		return fmt.Errorf("%w: matrix size N must be a positive integer, got %d", ErrConfig, c.N)
	}
	if c.BlockSize < 1 {
		return fmt.Errorf("%w: block size must be a positive integer, got %d", ErrConfig, c.BlockSize)
	}
	return nil
}

// EffectiveBlockSize is the block size clamped to N.
func (c Config) EffectiveBlockSize() int {
	return min(c.BlockSize, c.N)
}

// Flusher evicts matrices from the caches before a timed run.
type Flusher interface {
	Flush(regions ...[]float32)
}

// Record is the raw measurement of one kernel run.
type Record struct {
	Kernel   string
	Elapsed  time.Duration
	Counters counters.Values
}

// Driver owns the three matrices and measures kernels against them.
type Driver struct {
	cfg     Config
	gw      counters.Gateway
	flusher Flusher
	log     logrus.FieldLogger
	kernels []matmul.Kernel

	a, b, c *matmul.Matrix
}

// New validates cfg, allocates A, B and C and fills A then B from cfg.Seed.
func New(cfg Config, gw counters.Gateway, flusher Flusher, log logrus.FieldLogger) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.BlockSize > cfg.N {
		log.WithFields(logrus.Fields{
			"bsize": cfg.BlockSize,
			"n":     cfg.N,
		}).Warn("block size exceeds matrix size; using a single tile")
	}
	kernels, err := matmul.Select(matmul.Kernels(cfg.EffectiveBlockSize()), cfg.Kernels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	d := &Driver{cfg: cfg, gw: gw, flusher: flusher, log: log, kernels: kernels}
	for _, m := range []**matmul.Matrix{&d.a, &d.b, &d.c} {
		if *m, err = matmul.NewMatrix(cfg.N); err != nil {
			return nil, fmt.Errorf("bench: allocate matrices: %w", err)
		}
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, 0))
	d.a.Randomize(rng)
	d.b.Randomize(rng)
	return d, nil
}

// Kernels returns the kernels Run measures by default, in order.
func (d *Driver) Kernels() []matmul.Kernel {
	return d.kernels
}

// Matrices exposes A, B and C. C holds the last kernel's output.
func (d *Driver) Matrices() (a, b, c *matmul.Matrix) {
	return d.a, d.b, d.c
}

// Run measures each kernel in order and returns one Record per kernel.
// Counters are started once before the first kernel and stopped after the
// last. Any counter error aborts the run.
func (d *Driver) Run(kernels []matmul.Kernel) ([]Record, error) {
	if err := d.gw.Start(); err != nil {
		return nil, fmt.Errorf("bench: start counters: %w", err)
	}
	records := make([]Record, 0, len(kernels))
	for _, k := range kernels {
		rec, err := d.measure(k)
		if err != nil {
			_ = d.gw.Stop()
			return nil, err
		}
		d.log.WithFields(logrus.Fields{
			"kernel":  rec.Kernel,
			"elapsed": rec.Elapsed,
			"lst":     rec.Counters[counters.EventLoadStore],
			"l1_dcm":  rec.Counters[counters.EventL1Miss],
		}).Debug("kernel measured")
		records = append(records, rec)
	}
	if err := d.gw.Stop(); err != nil {
		return nil, fmt.Errorf("bench: stop counters: %w", err)
	}
	return records, nil
}

func (d *Driver) measure(k matmul.Kernel) (Record, error) {
	n := d.cfg.N
	d.flusher.Flush(d.a.Data, d.b.Data, d.c.Data)

	start := time.Now()
	if err := d.gw.Reset(); err != nil {
		return Record{}, fmt.Errorf("bench: %s: reset counters: %w", k.Name, err)
	}
	k.Run(d.a.Data, d.b.Data, d.c.Data, n)
	vals, err := d.gw.Read()
	elapsed := time.Since(start)
	if err != nil {
		return Record{}, fmt.Errorf("bench: %s: read counters: %w", k.Name, err)
	}
	return Record{Kernel: k.Name, Elapsed: elapsed, Counters: vals}, nil
}
