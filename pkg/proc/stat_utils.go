//go:build linux

package proc

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tklauser/go-sysconf"
)

func getProcStartTime(pid int) (time.Time, error) {
	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		return time.Time{}, fmt.Errorf("get sysconf SC_CLK_TCK: %w", err)
	}
	statfile := HostProcPath(fmt.Sprintf("%d/stat", pid))
	stat, err := os.ReadFile(statfile)
	if err != nil {
		return time.Time{}, fmt.Errorf("read file %s: %w", statfile, err)
	}
	uptimefile := HostProcPath("uptime")
	uptime, err := os.ReadFile(uptimefile)
	if err != nil {
		return time.Time{}, fmt.Errorf("read file %s: %w", uptimefile, err)
	}
	since, err := sinceBoot(stat, uptime, clktck)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", statfile, err)
	}
	return time.Now().Add(-since), nil
}

// sinceBoot returns how long ago the process described by a
// /proc/<pid>/stat line started, given /proc/uptime and the clock tick rate.
func sinceBoot(stat, uptime []byte, clktck int64) (time.Duration, error) {
	// comm may contain spaces; fields are counted after its closing paren.
	s := string(stat)
	if i := strings.LastIndexByte(s, ')'); i >= 0 {
		s = s[i+1:]
	}
	fields := strings.Fields(s)
	// starttime is field 22 (man 5 proc), the 20th after comm.
	if len(fields) < 20 {
		return 0, fmt.Errorf("stat has %d fields after comm, expected at least 20", len(fields))
	}
	ticks, err := strconv.ParseUint(fields[19], 10, 64)
	if err != nil || ticks == 0 {
		return 0, fmt.Errorf("invalid starttime column (%s)", fields[19])
	}
	up := strings.Fields(string(uptime))
	if len(up) != 2 {
		return 0, fmt.Errorf("invalid uptime file expected 2 columns but got %d", len(up))
	}
	secs, _ := strconv.ParseFloat(up[0], 64)
	if secs == 0 {
		return 0, fmt.Errorf("invalid uptime value (%s)", up[0])
	}
	started := float64(ticks) / float64(clktck)
	return time.Duration((secs - started) * float64(time.Second)), nil
}
