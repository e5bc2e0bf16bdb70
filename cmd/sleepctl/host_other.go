//go:build !linux

package main

import (
	"github.com/sirupsen/logrus"

	"tinygo.org/x/sleep"
	"tinygo.org/x/sleep/internal/config"
)

func newHostDriver(cfg *config.Config, log logrus.FieldLogger) sleep.Driver {
	log.Warn("no host sleep driver for this platform, every operation will fail")
	return sleep.DefaultDriver
}
