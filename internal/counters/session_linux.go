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

package counters

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Session is an open perf_event group counting the four Events on the
// calling thread. It is not safe for concurrent use.
type Session struct {
	leader int
	fds    []int
	owner  []Event // owner[i] is the Event that fds[i] contributes to
	buf    []uint64
	base   groupTimes // times at the last Reset
	log    logrus.FieldLogger
}

// Open registers every source in cfg as one event group on the calling
// thread. The group starts disabled. Failing to register any source is an
// error; there is no partial event set.
func Open(cfg Config, log logrus.FieldLogger) (*Session, error) {
	s := &Session{leader: -1, log: log}
	for i := range NumEvents {
		ev := Event(i)
		if len(cfg.Sources[ev]) == 0 {
			s.Close()
			return nil, fmt.Errorf("counters: no source configured for %s (set one with --event %s=raw:0xCODE)",
				ev.Label(), ev.Label())
		}
		for _, src := range cfg.Sources[ev] {
			if err := s.add(ev, src); err != nil {
				s.Close()
				return nil, err
			}
		}
	}
	// nr, time_enabled, time_running, then one value per fd.
	s.buf = make([]uint64, 3+len(s.fds))
	log.WithField("events", cfg.Describe()).Debug("perf event group opened")
	return s, nil
}

func (s *Session) add(ev Event, src Source) error {
	attr := &unix.PerfEventAttr{
		Size:        uint32(unsafe.Sizeof(unix.PerfEventAttr{})),
		Bits:        unix.PerfBitExcludeKernel | unix.PerfBitExcludeHv,
		Read_format: unix.PERF_FORMAT_GROUP | unix.PERF_FORMAT_TOTAL_TIME_ENABLED | unix.PERF_FORMAT_TOTAL_TIME_RUNNING,
	}
	switch src.Kind {
	case KindRaw:
		attr.Type = unix.PERF_TYPE_RAW
		attr.Config = src.Code
	case KindCache:
		attr.Type = unix.PERF_TYPE_HW_CACHE
		attr.Config = cacheConfig(src)
	default:
		return fmt.Errorf("counters: unknown source kind %d", src.Kind)
	}
	if s.leader == -1 {
		attr.Bits |= unix.PerfBitDisabled
	}

	fd, err := unix.PerfEventOpen(attr, 0, -1, s.leader, unix.PERF_FLAG_FD_CLOEXEC)
	if err != nil {
		if errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) {
			err = fmt.Errorf("%w (check /proc/sys/kernel/perf_event_paranoid)", err)
		}
		return fmt.Errorf("counters: register %s from %s: %w", ev.Label(), src, err)
	}
	if s.leader == -1 {
		s.leader = fd
	}
	s.fds = append(s.fds, fd)
	s.owner = append(s.owner, ev)
	return nil
}

func cacheConfig(src Source) uint64 {
	var id, op, result uint64
	switch src.Level {
	case CacheL1D:
		id = unix.PERF_COUNT_HW_CACHE_L1D
	case CacheLL:
		id = unix.PERF_COUNT_HW_CACHE_LL
	}
	switch src.Op {
	case OpRead:
		op = unix.PERF_COUNT_HW_CACHE_OP_READ
	case OpWrite:
		op = unix.PERF_COUNT_HW_CACHE_OP_WRITE
	}
	switch src.Result {
	case ResultAccess:
		result = unix.PERF_COUNT_HW_CACHE_RESULT_ACCESS
	case ResultMiss:
		result = unix.PERF_COUNT_HW_CACHE_RESULT_MISS
	}
	return id | op<<8 | result<<16
}

func (s *Session) groupIoctl(req uint, what string) error {
	if err := unix.IoctlSetInt(s.leader, req, unix.PERF_IOC_FLAG_GROUP); err != nil {
		return fmt.Errorf("counters: %s: %w", what, err)
	}
	return nil
}

// Start zeroes and enables the group.
func (s *Session) Start() error {
	if err := s.groupIoctl(unix.PERF_EVENT_IOC_RESET, "reset"); err != nil {
		return err
	}
	if err := s.groupIoctl(unix.PERF_EVENT_IOC_ENABLE, "enable"); err != nil {
		return err
	}
	return s.mark()
}

// Reset zeroes every counter in the group without disabling it and starts a
// new measurement window.
func (s *Session) Reset() error {
	if err := s.groupIoctl(unix.PERF_EVENT_IOC_RESET, "reset"); err != nil {
		return err
	}
	return s.mark()
}

// mark records the group's enabled and running times as the window start.
func (s *Session) mark() error {
	t, err := s.readGroup()
	if err != nil {
		return err
	}
	s.base = t
	return nil
}

// readGroup fills s.buf with one group read and returns its times.
func (s *Session) readGroup() (groupTimes, error) {
	raw := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s.buf))), len(s.buf)*8)
	n, err := unix.Read(s.leader, raw)
	if err != nil {
		return groupTimes{}, fmt.Errorf("counters: read: %w", err)
	}
	if n != len(raw) || int(s.buf[0]) != len(s.fds) {
		return groupTimes{}, fmt.Errorf("counters: short read: %d bytes, %d events", n, s.buf[0])
	}
	return groupTimes{enabled: s.buf[1], running: s.buf[2]}, nil
}

// Read returns the counts accumulated since the last Reset. It fails if the
// kernel did not schedule the group on the PMU at any point in that window,
// rather than reporting zeros.
func (s *Session) Read() (Values, error) {
	t, err := s.readGroup()
	if err != nil {
		return Values{}, err
	}
	window := t.since(s.base)
	if window.multiplexed() {
		s.log.WithFields(logrus.Fields{
			"enabled_ns": window.enabled,
			"running_ns": window.running,
		}).Warn("perf counters were multiplexed; counts are scaled estimates")
	}
	return scaleCounts(s.buf[3:], s.owner, window)
}

// Stop disables the group. Counts remain readable until Close.
func (s *Session) Stop() error {
	return s.groupIoctl(unix.PERF_EVENT_IOC_DISABLE, "disable")
}

// Close releases all counter file descriptors. It is safe to call more than once.
func (s *Session) Close() error {
	var errs []error
	// Members before the leader.
	for i := len(s.fds) - 1; i >= 0; i-- {
		if err := unix.Close(s.fds[i]); err != nil {
			errs = append(errs, err)
		}
	}
	s.fds, s.owner, s.leader = nil, nil, -1
	return errors.Join(errs...)
}

// LockThread wires the calling goroutine to its OS thread, which perf counts
// with pid 0, and pins that thread to cpu when cpu >= 0. The returned
// function undoes the lock.
func LockThread(cpu int) (func(), error) {
	runtime.LockOSThread()
	if cpu >= 0 {
		var set unix.CPUSet
		set.Zero()
		set.Set(cpu)
		if err := unix.SchedSetaffinity(0, &set); err != nil {
			runtime.UnlockOSThread()
			return nil, fmt.Errorf("counters: pin thread to CPU %d: %w", cpu, err)
		}
	}
	return runtime.UnlockOSThread, nil
}
