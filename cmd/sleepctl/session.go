package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"tinygo.org/x/sleep"
	"tinygo.org/x/sleep/internal/config"
)

// session is one boot of the binding. Deep sleep on the sim driver ends the
// session and starts the next one on the same chip.
type session struct {
	cfg *config.Config
	log logrus.FieldLogger
	sim *sleep.Simulator
	drv sleep.Driver
	mem sleep.Memory

	b     *sleep.Binding
	boots int
}

func newSession(cfg *config.Config, log logrus.FieldLogger) (*session, error) {
	s := &session{cfg: cfg, log: log.WithField("driver", cfg.Driver)}
	switch cfg.Driver {
	case config.DriverSim:
		s.sim = sleep.NewSimulator(cfg.ColdBootStatus)
		s.drv = s.sim
		s.mem = s.sim.Memory()
	default:
		s.drv = newHostDriver(cfg, log)
		s.mem = sleep.NewFileMemory(cfg.Retained)
	}
	if err := s.boot(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) boot() error {
	b, err := sleep.New(s.drv, s.mem, s.cfg.ColdBootStatus)
	if err != nil {
		return fmt.Errorf("failed to load retained status: %w", err)
	}
	s.b = b
	s.boots++
	s.log.WithFields(logrus.Fields{
		"boot":  s.boots,
		"cause": b.WakeupCause(),
	}).Debug("booted")
	return nil
}

func (s *session) natives() sleep.Natives {
	return s.b.Natives(s.cfg.ArityMode())
}

// deepSleep runs fn, which enters deep sleep. On the host it does not come
// back. On the sim driver it returns after the simulated chip has reset and
// the session has booted again. An error returned by fn means deep sleep was
// never entered.
func (s *session) deepSleep(fn func() error) error {
	type result struct {
		returned bool
		err      error
	}
	s.log.Info("entering deep sleep")
	done := make(chan result, 1)
	go func() {
		var res result
		defer func() {
			if r := recover(); r != nil {
				res = result{returned: true, err: fmt.Errorf("deep sleep failed: %v", r)}
			}
			done <- res
		}()
		res.err = fn()
		res.returned = true
	}()
	if res := <-done; res.returned {
		return res.err
	}
	return s.boot()
}
