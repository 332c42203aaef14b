//go:build !linux

package main

import (
	"errors"

	"github.com/vietanhduong/debugfind/pkg/config"
	"github.com/vietanhduong/debugfind/pkg/locate"
)

func resolvePids(*locate.Locator, *config.Config, []int) ([]entry, error) {
	return nil, errors.New("--pid is only supported on linux")
}
