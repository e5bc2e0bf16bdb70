package sleep

import (
	"errors"
	"time"
)

// NoTimeout disables the timer wake source in EnterDeepSleep and
// EnterLightSleep.
const NoTimeout time.Duration = -1

var errDeepSleepReturned = errors.New("sleep: driver returned from deep sleep")

// Binding forwards sleep requests to a Driver and owns the retained status.
type Binding struct {
	drv    Driver
	status *Retained
}

// New returns a binding for drv that keeps the retained status in mem. The
// retained status is reset to coldBoot when drv reports a power-on reset.
func New(drv Driver, mem Memory, coldBoot int32) (*Binding, error) {
	b := &Binding{
		drv:    drv,
		status: NewRetained(mem, coldBoot),
	}
	if err := b.status.Boot(drv.PowerOnReset()); err != nil {
		return nil, err
	}
	return b, nil
}

// CanDeepSleep returns ErrNotSupported if the driver is known to be unable to
// enter deep sleep, and nil otherwise.
func (b *Binding) CanDeepSleep() error {
	if c, ok := b.drv.(deepSleepChecker); ok {
		return c.checkDeepSleep()
	}
	return nil
}

// EnterDeepSleep arms a timer wake source after timeout, unless timeout is
// NoTimeout, and enters deep sleep. It does not return: the program restarts
// from the beginning when a wake source fires, and WakeupCause reports which.
// It panics if the driver cannot sleep; see CanDeepSleep.
func (b *Binding) EnterDeepSleep(timeout time.Duration) {
	if timeout >= 0 {
		// The vendor call has no result worth surfacing here; deep sleep is
		// entered regardless.
		_ = b.drv.EnableTimerWakeup(micros(timeout))
	}
	b.drv.DeepSleepStart()
	panic(errDeepSleepReturned)
}

// EnterLightSleep arms a timer wake source after timeout, unless timeout is
// NoTimeout, and enters light sleep. It returns once a wake source fires.
func (b *Binding) EnterLightSleep(timeout time.Duration) error {
	if timeout >= 0 {
		if err := b.drv.EnableTimerWakeup(micros(timeout)); err != nil {
			return err
		}
	}
	return b.drv.LightSleepStart()
}

// EnableExt0Wakeup wakes the chip when pin reaches level.
func (b *Binding) EnableExt0Wakeup(pin Pin, level Level) error {
	if !pin.valid() {
		return &RangeError{Param: "pin", Value: int64(pin)}
	}
	code, err := level.code()
	if err != nil {
		return err
	}
	return b.drv.EnableExt0Wakeup(int32(pin), code)
}

// EnableExt1Wakeup wakes the chip when the pins in mask match mode.
func (b *Binding) EnableExt1Wakeup(mask PinMask, mode Ext1Mode) error {
	code, err := mode.code()
	if err != nil {
		return err
	}
	return b.drv.EnableExt1Wakeup(uint64(mask), code)
}

// WakeupCause returns why the chip left its last sleep state.
func (b *Binding) WakeupCause() WakeupCause {
	return WakeupCause(b.drv.WakeupCause())
}

// WakeupPins returns the pins that caused an ext1 wake. It is empty for any
// other wake cause.
func (b *Binding) WakeupPins() PinMask {
	if b.WakeupCause() != WakeupExt1 {
		return 0
	}
	return PinMask(b.drv.Ext1WakeupStatus())
}

// SetPowerDomainConfig selects whether domain is kept powered during sleep.
// A vendor failure is returned as an Error holding the vendor code.
func (b *Binding) SetPowerDomainConfig(domain PowerDomain, option PowerOption) error {
	d, err := domain.code()
	if err != nil {
		return err
	}
	o, err := option.code()
	if err != nil {
		return err
	}
	return b.drv.PowerDomainConfig(d, o)
}

// Status returns the retained status.
func (b *Binding) Status() (int32, error) {
	return b.status.Get()
}

// SetStatus overwrites the retained status.
func (b *Binding) SetStatus(v int32) error {
	return b.status.Set(v)
}

// micros converts a timeout to the vendor's microsecond unit.
func micros(d time.Duration) uint64 {
	return uint64(d / time.Microsecond)
}
