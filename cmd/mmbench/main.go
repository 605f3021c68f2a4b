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

// Command mmbench measures how loop order, blocking and cache-oblivious
// recursion affect square float32 matrix multiplication, using hardware
// cache-miss counters.
//
// Usage:
//
//	mmbench [N] [bsize] [flags]
//
// With no arguments N=512 and bsize=32. Counters come from perf_event_open
// and require a permissive /proc/sys/kernel/perf_event_paranoid; pass
// --counters=off to time kernels without them.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"

	"github.com/ajroetker/go-mmbench/bench"
	"github.com/ajroetker/go-mmbench/internal/cacheflush"
	"github.com/ajroetker/go-mmbench/internal/counters"
	"github.com/ajroetker/go-mmbench/internal/cpuinfo"
	"github.com/ajroetker/go-mmbench/report"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const (
	envCounters = "MMBENCH_COUNTERS"
	envLogLevel = "MMBENCH_LOG_LEVEL"
)

func main() {
	atexit.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and maps its error to an exit code.
func run(args []string, stdout, stderr io.Writer) int {
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	// Fatal must still release the perf descriptors registered below.
	log.ExitFunc = atexit.Exit

	cmd := newRootCmd(stdout, stderr, log)
	cmd.SetArgs(args)
	err := cmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, bench.ErrConfig):
		log.Error(err)
		return exitUsage
	default:
		log.Error(err)
		return exitFailure
	}
}

type options struct {
	size     int
	bsize    int
	seed     uint64
	kernels  []string
	flush    string
	counters string
	events   []string
	cpu      int
	raw      bool
	textfile string
	logLevel string
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func newRootCmd(stdout, stderr io.Writer, log *logrus.Logger) *cobra.Command {
	o := options{}
	cmd := &cobra.Command{
		Use:   "mmbench [N] [bsize]",
		Short: "Compare matrix multiplication loop orders against hardware cache-miss counters",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(2)(cmd, args); err != nil {
				return fmt.Errorf("%w: %w", bench.ErrConfig, err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, hint, err := buildConfig(cmd.Flags(), args, o)
			if err != nil {
				return err
			}
			if hint {
				fmt.Fprintf(stderr, "Usage: mmbench <N> <bsize>, default N: %d, bsize: %d\n", cfg.N, cfg.BlockSize)
			}
			level, err := logrus.ParseLevel(o.logLevel)
			if err != nil {
				return fmt.Errorf("%w: %w", bench.ErrConfig, err)
			}
			log.SetLevel(level)
			return benchmark(stdout, log, cfg, o)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", bench.ErrConfig, err)
	})

	def := bench.DefaultConfig()
	f := cmd.Flags()
	f.IntVarP(&o.size, "size", "n", def.N, "matrix side length N (overrides the first argument)")
	f.IntVarP(&o.bsize, "bsize", "b", def.BlockSize, "tile side for mm_ijk_blocking (overrides the second argument)")
	f.Uint64Var(&o.seed, "seed", def.Seed, "seed for the random input matrices")
	f.StringSliceVarP(&o.kernels, "kernels", "k", nil, "kernels to run, e.g. ijk,kij,cb (default all)")
	f.StringVar(&o.flush, "flush", "", "cache flush before each kernel: auto, sweep or off (default $"+cacheflush.EnvMode+" or auto)")
	f.StringVar(&o.counters, "counters", envOr(envCounters, "perf"), "hardware counters: perf or off")
	f.StringArrayVar(&o.events, "event", nil, "override an event source, e.g. l2=raw:0x3f24 (repeatable)")
	f.IntVar(&o.cpu, "cpu", -1, "pin the benchmark thread to this CPU (-1 leaves it unpinned)")
	f.BoolVar(&o.raw, "raw", false, "also print raw counter values")
	f.StringVar(&o.textfile, "textfile", "", "write metrics in Prometheus text format to this file")
	f.StringVar(&o.logLevel, "log-level", envOr(envLogLevel, "info"), "log level: debug, info, warn or error")
	return cmd
}

// buildConfig merges the positional arguments and flags. hint reports that
// the defaults are in use and a usage line should be printed.
func buildConfig(flags *pflag.FlagSet, args []string, o options) (cfg bench.Config, hint bool, err error) {
	cfg = bench.DefaultConfig()
	cfg.Seed = o.seed
	cfg.Kernels = o.kernels

	if len(args) > 0 {
		if cfg.N, err = parsePositive("N", args[0]); err != nil {
			return cfg, false, err
		}
	}
	if len(args) > 1 {
		if cfg.BlockSize, err = parsePositive("bsize", args[1]); err != nil {
			return cfg, false, err
		}
	}
	if flags.Changed("size") {
		cfg.N = o.size
	}
	if flags.Changed("bsize") {
		cfg.BlockSize = o.bsize
	}
	hint = len(args) == 0 && !flags.Changed("size") && !flags.Changed("bsize")
	return cfg, hint, cfg.Validate()
}

func parsePositive(name, s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", bench.ErrConfig, name, s)
	}
	if v < 1 {
		return 0, fmt.Errorf("%w: %s must be positive, got %d", bench.ErrConfig, name, v)
	}
	return v, nil
}

func benchmark(stdout io.Writer, log *logrus.Logger, cfg bench.Config, o options) error {
	info := cpuinfo.Detect()
	mode, err := flushMode(o.flush)
	if err != nil {
		return fmt.Errorf("%w: %w", bench.ErrConfig, err)
	}
	flusher := cacheflush.New(mode, info.LastLevelCacheBytes())

	// perf counts the thread that opened the events, so everything from here
	// on stays on this OS thread.
	unlock, err := counters.LockThread(o.cpu)
	if err != nil {
		return err
	}
	defer unlock()

	gw, closeGateway, err := openGateway(o, info, log)
	if err != nil {
		return err
	}
	defer closeGateway()

	d, err := bench.New(cfg, gw, flusher, log)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"n":       cfg.N,
		"bsize":   cfg.EffectiveBlockSize(),
		"kernels": len(d.Kernels()),
		"flush":   flusher.Method(),
		"cpu":     info.Model,
	}).Info("starting benchmark")

	records, err := d.Run(d.Kernels())
	if err != nil {
		return err
	}

	h := report.Header{
		N:         cfg.N,
		BlockSize: cfg.EffectiveBlockSize(),
		CPU:       info.String(),
		Flush:     flusher.Method(),
	}
	rows := report.DeriveAll(records, cfg.N)
	if err := report.Render(stdout, h, rows); err != nil {
		return err
	}
	if o.raw {
		if err := report.RenderRaw(stdout, records); err != nil {
			return err
		}
	}
	if o.textfile != "" {
		if err := report.WriteTextfile(o.textfile, h, rows); err != nil {
			return err
		}
		log.WithField("path", o.textfile).Info("wrote Prometheus textfile")
	}
	return nil
}

// flushMode parses the --flush value, falling back to the environment when
// the flag is unset.
func flushMode(s string) (cacheflush.Mode, error) {
	if s == "" {
		return cacheflush.ModeFromEnv()
	}
	return cacheflush.ParseMode(s)
}

// openGateway opens the counter session selected by o. Failing to open perf
// counters is fatal; only an explicit --counters=off runs without them.
func openGateway(o options, info cpuinfo.Info, log *logrus.Logger) (counters.Gateway, func(), error) {
	switch strings.ToLower(o.counters) {
	case "off", "none":
		log.Warn("hardware counters disabled; miss rates will be reported as n/a")
		return counters.Disabled{}, func() {}, nil
	case "perf", "":
	default:
		return nil, nil, fmt.Errorf("%w: unknown counters mode %q (want perf or off)", bench.ErrConfig, o.counters)
	}

	cfg := counters.DefaultConfig(info.Vendor)
	for _, ov := range o.events {
		if err := cfg.Override(ov); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", bench.ErrConfig, err)
		}
	}
	s, err := counters.Open(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open hardware counters (use --counters=off to run without them): %w", err)
	}
	log.WithField("events", cfg.Describe()).Info("hardware counters ready")
	closeFn, _ := closeAtExit(func() {
		if err := s.Close(); err != nil {
			log.WithError(err).Warn("closing hardware counters")
		}
	})
	return s, closeFn, nil
}

// closeAtExit registers closeFn to run from atexit.Exit, which covers the
// logrus Fatal path. The returned function drops the registration and runs
// closeFn immediately.
func closeAtExit(closeFn func()) (func(), atexit.HandlerID) {
	id := atexit.Register(closeFn)
	return func() {
		_ = id.Cancel()
		closeFn()
	}, id
}
