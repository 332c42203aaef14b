//go:build linux

package proc

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/vietanhduong/debugfind/pkg/logging/logfields"
)

// Stat is a snapshot of a process: its identity and the root directory
// through which its mapped files are reachable.
type Stat struct {
	pid      int
	exePath  string
	commPath string
	rootPath string
	info     *PidInfo
}

func ProcStat(pid int) (*Stat, error) {
	stat := &Stat{
		pid:      pid,
		exePath:  HostProcPath(fmt.Sprintf("%d/exe", pid)),
		commPath: HostProcPath(fmt.Sprintf("%d/comm", pid)),
		rootPath: HostProcRoot(pid),
	}
	if _, err := os.Stat(HostProcPath(fmt.Sprintf("%d", pid))); err != nil {
		return nil, fmt.Errorf("process %d: %w", pid, err)
	}
	if err := stat.buildPidInfo(); err != nil {
		log.WithFields(logrus.Fields{
			logfields.PID: pid,
		}).Debugf("Failed to build PID Info: %v", err)
	}
	return stat, nil
}

func (s *Stat) buildPidInfo() error {
	exePath, err := os.Readlink(s.exePath)
	if err != nil {
		return fmt.Errorf("read link %s: %w", s.exePath, err)
	}

	comm, err := os.ReadFile(s.commPath)
	if err != nil {
		return fmt.Errorf("read file %s: %w", s.commPath, err)
	}
	if len(comm) > 0 && comm[len(comm)-1] == '\n' {
		comm = comm[:len(comm)-1]
	}
	starttime, err := getProcStartTime(s.pid)
	if err != nil {
		return fmt.Errorf("get proc %d start time: %w", s.pid, err)
	}
	s.info = &PidInfo{
		Pid:       s.pid,
		Exe:       filepath.Base(exePath),
		Comm:      string(comm),
		StartTime: starttime,
	}
	return nil
}

// PidInfo returns nil if the process details could not be read.
func (s *Stat) PidInfo() *PidInfo { return s.info }

// ModulePath returns the host path of the file backing m. In-memory files
// are already reachable through procfs.
func (s *Stat) ModulePath(m *Map) string {
	if m.InMem {
		return m.Pathname
	}
	return filepath.Join(s.rootPath, m.Pathname)
}
