package sleep

import (
	"runtime"
	"sync"
)

// SimCall is one driver call recorded by the Simulator.
type SimCall struct {
	Name string
	Args []int64
}

// rtcGPIO lists the ESP32 pins that can act as ext0/ext1 wake sources.
var rtcGPIO = MaskOf(0, 2, 4, 12, 13, 14, 15, 25, 26, 27, 32, 33, 34, 35, 36, 37, 38, 39)

// Simulator models the ESP32 sleep subsystem in memory. It implements Driver
// and provides the retained memory through Memory.
//
// Deep sleep is modelled as a reset: DeepSleepStart records the wake cause
// and ends the calling goroutine with runtime.Goexit, so code after it never
// runs. A new Binding created afterwards on the same Simulator observes the
// wake, like a program that has just booted.
type Simulator struct {
	mu sync.Mutex

	calls []SimCall

	timer     *uint64
	ext0      *[2]int32
	ext1      *uint64
	pd        map[int32]int32
	pdFailure Error

	pending     WakeupCause
	pendingPins PinMask

	cause     WakeupCause
	wakePins  PinMask
	boots     int
	retained  int32
	powerLoss int32
	powerOn   bool
}

// NewSimulator returns a Simulator in the state following a power-on reset.
// powerOnValue is what the retained memory holds before anything is written,
// the way real SRAM powers up with arbitrary contents.
func NewSimulator(powerOnValue int32) *Simulator {
	return &Simulator{
		pd:        make(map[int32]int32),
		retained:  powerOnValue,
		powerLoss: powerOnValue,
		powerOn:   true,
		cause:     WakeupUndefined,
	}
}

func (s *Simulator) record(name string, args ...int64) {
	s.calls = append(s.calls, SimCall{Name: name, Args: args})
}

// Calls returns the driver calls made since the last reset of the log.
func (s *Simulator) Calls() []SimCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SimCall(nil), s.calls...)
}

// ResetCalls clears the call log.
func (s *Simulator) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// FailPowerDomainConfig makes every following PowerDomainConfig call fail
// with code. Pass 0 to clear.
func (s *Simulator) FailPowerDomainConfig(code Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pdFailure = code
}

// Fire chooses the wake source that ends the next sleep. Without it the
// first armed source wins in the order timer, ext0, ext1. pins is the ext1
// status to report and is ignored for other causes.
func (s *Simulator) Fire(cause WakeupCause, pins PinMask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = cause
	s.pendingPins = pins
}

// PowerCycle models a loss of power: retained memory is lost and the next
// boot reports WakeupUndefined and a power-on reset.
func (s *Simulator) PowerCycle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retained = s.powerLoss
	s.restart(WakeupUndefined, 0)
	s.powerOn = true
}

// Reset models a software, watchdog or reset pin restart. The next boot
// reports WakeupUndefined, and retained memory keeps its content.
func (s *Simulator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restart(WakeupUndefined, 0)
}

// Boots returns the number of resets since the Simulator was created.
func (s *Simulator) Boots() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boots
}

// PowerDomain returns the option last set for domain, and whether it was set.
func (s *Simulator) PowerDomain(domain int32) (int32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.pd[domain]
	return o, ok
}

func (s *Simulator) restart(cause WakeupCause, pins PinMask) {
	s.powerOn = false
	s.cause = cause
	s.wakePins = pins
	s.timer = nil
	s.ext0 = nil
	s.ext1 = nil
	s.pd = make(map[int32]int32)
	s.pending = WakeupUndefined
	s.pendingPins = 0
	s.boots++
}

// wake picks the cause that ends a sleep. It returns WakeupUndefined when no
// source is armed.
func (s *Simulator) wake() (WakeupCause, PinMask) {
	if s.pending != WakeupUndefined {
		return s.pending, s.pendingPins
	}
	switch {
	case s.timer != nil:
		return WakeupTimer, 0
	case s.ext0 != nil:
		return WakeupExt0, 0
	case s.ext1 != nil:
		// Report the lowest armed pin as the one that fired.
		mask := *s.ext1
		return WakeupExt1, PinMask(mask & -mask)
	}
	return WakeupUndefined, 0
}

func (s *Simulator) EnableTimerWakeup(us uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("EnableTimerWakeup", int64(us))
	s.timer = &us
	return nil
}

func (s *Simulator) EnableExt0Wakeup(pin int32, level int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("EnableExt0Wakeup", int64(pin), int64(level))
	if pin < 0 || pin > maxPin || !rtcGPIO.Has(Pin(pin)) || (level != 0 && level != 1) {
		return errInvalidArg
	}
	s.ext0 = &[2]int32{pin, level}
	return nil
}

func (s *Simulator) EnableExt1Wakeup(mask uint64, mode int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("EnableExt1Wakeup", int64(mask), int64(mode))
	if mask&^uint64(rtcGPIO) != 0 || (mode != 0 && mode != 1) {
		return errInvalidArg
	}
	s.ext1 = &mask
	return nil
}

func (s *Simulator) PowerDomainConfig(domain int32, option int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("PowerDomainConfig", int64(domain), int64(option))
	if s.pdFailure != 0 {
		return s.pdFailure
	}
	if domain < 0 || domain > 2 || option < 0 || option > 2 {
		return errInvalidArg
	}
	s.pd[domain] = option
	return nil
}

func (s *Simulator) WakeupCause() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int32(s.cause)
}

// PowerOnReset is true from NewSimulator or PowerCycle until the next reset.
func (s *Simulator) PowerOnReset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.powerOn
}

func (s *Simulator) Ext1WakeupStatus() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cause != WakeupExt1 {
		return 0
	}
	return uint64(s.wakePins)
}

// LightSleepStart returns immediately with the chosen wake source recorded.
// Armed sources stay armed, as on the chip.
func (s *Simulator) LightSleepStart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("LightSleepStart")
	cause, pins := s.wake()
	if cause == WakeupUndefined {
		// Nothing could ever wake the chip.
		return errInvalidState
	}
	s.cause = cause
	s.wakePins = pins
	s.pending = WakeupUndefined
	return nil
}

// DeepSleepStart resets the simulated chip and ends the calling goroutine.
func (s *Simulator) DeepSleepStart() {
	s.mu.Lock()
	s.record("DeepSleepStart")
	cause, pins := s.wake()
	s.restart(cause, pins)
	s.mu.Unlock()

	runtime.Goexit()
}

// Memory returns the simulated RTC memory. It keeps its content across deep
// sleep and loses it in PowerCycle.
func (s *Simulator) Memory() Memory {
	return simMemory{s}
}

type simMemory struct {
	s *Simulator
}

func (m simMemory) Load() (int32, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.s.retained, nil
}

func (m simMemory) Store(v int32) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.retained = v
	return nil
}
