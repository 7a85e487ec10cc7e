package telemetry

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Sampler periodically refreshes the process-wide gauges (CPU,
// goroutine count) the way MetricsCollector.collect did on a ticker.
type Sampler struct {
	metrics  *Metrics
	interval time.Duration
	proc     *process.Process
}

// NewSampler builds a Sampler for the current process.
func NewSampler(metrics *Metrics, interval time.Duration) (*Sampler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Sampler{metrics: metrics, interval: interval, proc: proc}, nil
}

// Run samples on Sampler's interval until ctx is done.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sample()
		}
	}
}

func (s *Sampler) sample() {
	if pct, err := s.proc.CPUPercent(); err == nil {
		s.metrics.CPUUsagePercent.Set(pct)
	}
	s.metrics.GoroutinesActive.Set(float64(runtime.NumGoroutine()))
}
