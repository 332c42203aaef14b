//go:build linux

// Package proc reads process information from procfs.
package proc

import (
	"fmt"
	"path"

	"github.com/sirupsen/logrus"
	"github.com/vietanhduong/debugfind/pkg/logging"
	"github.com/vietanhduong/debugfind/pkg/logging/logfields"
	"github.com/vietanhduong/debugfind/pkg/utils"
)

var log = logging.DefaultLogger.WithFields(logrus.Fields{logfields.LogSubsys: "proc"})

var (
	procPath = utils.GetEnvOrDefault("PROC_PATH", "/proc")
	hostPath = utils.GetEnvOrDefault("HOST_PATH", "/")
)

// SetPaths overrides the procfs mount point and the host root directory.
// Empty values keep the current setting. It must be called before any other
// function of this package.
func SetPaths(proc, host string) {
	if proc != "" {
		procPath = proc
	}
	if host != "" {
		hostPath = host
	}
}

func ProcPath(paths ...string) string {
	p := append([]string{procPath}, paths...)
	return path.Join(p...)
}

func HostProcPath(paths ...string) string {
	if hostPath == "" || hostPath == "/" {
		return ProcPath(paths...)
	}
	p := append([]string{hostPath, procPath}, paths...)
	return path.Join(p...)
}

func HostPath(paths ...string) string {
	p := append([]string{hostPath}, paths...)
	return path.Join(p...)
}

func ProcRoot(pid int) string {
	return ProcPath(fmt.Sprintf("%d/root", pid))
}

func HostProcRoot(pid int) string {
	return HostProcPath(fmt.Sprintf("%d/root", pid))
}
