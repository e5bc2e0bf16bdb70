//go:build linux

package main

import (
	"github.com/sirupsen/logrus"

	"tinygo.org/x/sleep"
	"tinygo.org/x/sleep/internal/config"
)

func newHostDriver(cfg *config.Config, log logrus.FieldLogger) sleep.Driver {
	return sleep.NewLogindDriver(sleep.LogindConfig{
		RTC:         cfg.RTC,
		Interactive: cfg.Interactive,
		BootState:   cfg.BootState,
		Logger:      log,
	})
}
