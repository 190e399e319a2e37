//go:build !((darwin || windows || freebsd || linux) && !android && !ios)

package main

import (
	"errors"

	"github.com/gogpu/glcanvas/driver"
)

func runWindow(*scene, driver.Config, int, int) error {
	return errors.New("windows are not supported on this platform")
}
