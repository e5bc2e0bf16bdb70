//go:build !esp32 && (!linux || baremetal)

package sleep

// DefaultDriver has no sleep support on this platform. Use a Simulator to
// run code written against this package.
var DefaultDriver Driver = unsupportedDriver{}

type unsupportedDriver struct{}

func (unsupportedDriver) EnableTimerWakeup(us uint64) error {
	return ErrNotSupported
}

func (unsupportedDriver) EnableExt0Wakeup(pin int32, level int32) error {
	return ErrNotSupported
}

func (unsupportedDriver) EnableExt1Wakeup(mask uint64, mode int32) error {
	return ErrNotSupported
}

func (unsupportedDriver) PowerDomainConfig(domain, option int32) error {
	return ErrNotSupported
}

func (unsupportedDriver) WakeupCause() int32 {
	return int32(WakeupUndefined)
}

// PowerOnReset reports whether DefaultMemory loses its content on every
// start, which makes every start look like a power-on.
func (unsupportedDriver) PowerOnReset() bool {
	return memoryLostOnReset
}

func (unsupportedDriver) Ext1WakeupStatus() uint64 {
	return 0
}

func (unsupportedDriver) LightSleepStart() error {
	return ErrNotSupported
}

func (unsupportedDriver) checkDeepSleep() error {
	return ErrNotSupported
}

func (unsupportedDriver) DeepSleepStart() {
	panic(ErrNotSupported)
}
