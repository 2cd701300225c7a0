package infra

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// SelfStats samples the current process's resource usage, so a user can
// verify what the tick loop costs.
type SelfStats struct {
	proc *process.Process
}

// NewSelfStats creates a sampler for the current process.
func NewSelfStats() (*SelfStats, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &SelfStats{proc: p}, nil
}

// Sample returns CPU percent and resident memory in bytes.
func (s *SelfStats) Sample() (cpuPercent float64, rssBytes uint64, err error) {
	cpuPercent, err = s.proc.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	mem, err := s.proc.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	return cpuPercent, mem.RSS, nil
}
