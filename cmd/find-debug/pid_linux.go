//go:build linux

package main

import (
	"fmt"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/sirupsen/logrus"
	"github.com/vietanhduong/debugfind/pkg/cache"
	"github.com/vietanhduong/debugfind/pkg/config"
	"github.com/vietanhduong/debugfind/pkg/locate"
	"github.com/vietanhduong/debugfind/pkg/logging"
	"github.com/vietanhduong/debugfind/pkg/logging/logfields"
	"github.com/vietanhduong/debugfind/pkg/proc"
)

const moduleCacheSize = 4096

type module struct {
	pid  int
	name string
	file proc.File
}

func (m module) key() string { return fmt.Sprintf("%d:%s", m.pid, m.name) }

// resolvePids resolves every module mapped by pids. A file mapped by several
// processes is resolved once.
func resolvePids(loc *locate.Locator, cfg *config.Config, pids []int) ([]entry, error) {
	log := logging.DefaultLogger.WithField(logfields.LogComponent, "pid")
	proc.SetPaths(cfg.ProcPath, cfg.HostPath)

	var modules []module
	hostPaths := make(map[proc.File]string)
	for _, pid := range pids {
		stat, err := proc.ProcStat(pid)
		if err != nil {
			return nil, err
		}
		maps, err := proc.ParseProcMaps(pid)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			logfields.PID: pid,
		}).Debugf("Resolving %s", stat.PidInfo())
		for _, m := range proc.Modules(maps) {
			f := m.File()
			if _, ok := hostPaths[f]; !ok {
				hostPaths[f] = stat.ModulePath(m)
			}
			modules = append(modules, module{pid: pid, name: m.Pathname, file: f})
			log.WithField(logfields.PID, pid).Tracef("Module %s", m)
		}
	}

	memo, err := cache.New(func(f proc.File) entry {
		return resolve(loc, hostPaths[f])
	}, moduleCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create module cache: %w", err)
	}

	results := cmap.New[entry]()
	queue := make(chan module)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range queue {
				res := memo.Lookup(m.file)
				e := res.Value
				e.Pid, e.Binary = m.pid, m.name
				results.Set(m.key(), e)
				log.WithFields(logrus.Fields{
					logfields.PID:  m.pid,
					logfields.File: m.name,
				}).Tracef("Resolved module (cached: %t)", res.Hit)
			}
		}()
	}
	for _, m := range modules {
		queue <- m
	}
	close(queue)
	wg.Wait()
	log.WithFields(logrus.Fields{
		"cached":  memo.Len(),
		"evicted": memo.TotalEvicted(),
	}).Debugf("Resolved %d modules", len(modules))

	out := make([]entry, 0, len(modules))
	for _, m := range modules {
		if e, ok := results.Get(m.key()); ok {
			out = append(out, e)
		}
	}
	return out, nil
}
