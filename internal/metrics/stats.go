package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// Phase names a timed part of the frame loop tick
type Phase int

const (
	PhaseProcess Phase = iota
	PhaseUpload
	PhaseRender
	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseProcess:
		return "process"
	case PhaseUpload:
		return "upload"
	case PhaseRender:
		return "render"
	}
	return "unknown"
}

type durationStat struct {
	total time.Duration
	max   time.Duration
	count int
}

func (d *durationStat) add(v time.Duration) {
	d.total += v
	d.count++
	if v > d.max {
		d.max = v
	}
}

func (d durationStat) mean() time.Duration {
	if d.count == 0 {
		return 0
	}
	return d.total / time.Duration(d.count)
}

// LoopStats accumulates per-tick counters for the frame loop. It is owned by
// the loop thread and not safe for concurrent use.
type LoopStats struct {
	Ticks       uint64
	EmptyFrames uint64
	Uploads     uint64

	phases      [phaseCount]durationStat
	quality     map[string]float64
	windowStart time.Time
	windowTicks uint64
	now         func() time.Time
}

// Report is a point-in-time view of the statistics window
type Report struct {
	Ticks       uint64
	EmptyFrames uint64
	Uploads     uint64
	FPS         float64
	Mean        map[string]time.Duration
	Max         map[string]time.Duration
	Quality     map[string]float64
}

func NewLoopStats() *LoopStats {
	return newLoopStats(time.Now)
}

func newLoopStats(now func() time.Time) *LoopStats {
	return &LoopStats{
		quality:     make(map[string]float64),
		windowStart: now(),
		now:         now,
	}
}

func (s *LoopStats) RecordTick() {
	s.Ticks++
	s.windowTicks++
}

func (s *LoopStats) RecordEmptyFrame() {
	s.EmptyFrames++
}

func (s *LoopStats) RecordUpload() {
	s.Uploads++
}

// Observe records how long a phase took
func (s *LoopStats) Observe(p Phase, d time.Duration) {
	if p < 0 || p >= phaseCount {
		return
	}
	s.phases[p].add(d)
}

// Time runs fn and records its duration under p
func (s *LoopStats) Time(p Phase, fn func() error) error {
	start := s.now()
	err := fn()
	s.Observe(p, s.now().Sub(start))
	return err
}

// RecordQuality stores the latest metric values of a CPU pass
func (s *LoopStats) RecordQuality(values map[string]float64) {
	for k, v := range values {
		s.quality[k] = v
	}
}

// Due reports whether a report should be emitted this tick
func (s *LoopStats) Due(interval uint64) bool {
	return interval > 0 && s.Ticks > 0 && s.Ticks%interval == 0
}

// Report returns the current window without resetting it
func (s *LoopStats) Report() Report {
	r := Report{
		Ticks:       s.Ticks,
		EmptyFrames: s.EmptyFrames,
		Uploads:     s.Uploads,
		Mean:        make(map[string]time.Duration),
		Max:         make(map[string]time.Duration),
		Quality:     make(map[string]float64),
	}

	if elapsed := s.now().Sub(s.windowStart).Seconds(); elapsed > 0 {
		r.FPS = float64(s.windowTicks) / elapsed
	}
	for p := Phase(0); p < phaseCount; p++ {
		r.Mean[p.String()] = s.phases[p].mean()
		r.Max[p.String()] = s.phases[p].max
	}
	for k, v := range s.quality {
		r.Quality[k] = v
	}
	return r
}

// Flush logs the current window and starts a new one
func (s *LoopStats) Flush(logger *logrus.Logger) Report {
	r := s.Report()

	fields := logrus.Fields{
		"ticks":        r.Ticks,
		"empty_frames": r.EmptyFrames,
		"uploads":      r.Uploads,
		"fps":          r.FPS,
	}
	for name, d := range r.Mean {
		fields[name+"_ms"] = float64(d.Microseconds()) / 1000
	}
	for name, v := range r.Quality {
		// identical frames give an infinite PSNR, which JSON cannot encode
		if math.IsInf(v, 0) || math.IsNaN(v) {
			fields[name] = fmt.Sprint(v)
			continue
		}
		fields[name] = v
	}
	logger.WithFields(fields).Info("Loop stats")

	s.phases = [phaseCount]durationStat{}
	s.quality = make(map[string]float64)
	s.windowStart = s.now()
	s.windowTicks = 0
	return r
}
