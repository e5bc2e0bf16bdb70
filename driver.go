package sleep

// Driver is the vendor sleep subsystem. All parameters are the vendor's raw
// numeric codes; translation from the typed API happens in Binding.
//
// Implementations exist for the ESP32 (ESP-IDF), for hosted Linux
// (systemd-logind and the RTC) and as a Simulator.
type Driver interface {
	// EnableTimerWakeup arms a timer wake source, in microseconds.
	EnableTimerWakeup(us uint64) error

	// EnableExt0Wakeup arms a single RTC GPIO wake source on the given level.
	EnableExt0Wakeup(pin int32, level int32) error

	// EnableExt1Wakeup arms a wake source on a set of RTC GPIOs.
	EnableExt1Wakeup(mask uint64, mode int32) error

	// PowerDomainConfig sets the retention option of a power domain.
	PowerDomainConfig(domain int32, option int32) error

	// WakeupCause returns the esp_sleep_wakeup_cause_t of the last wake.
	WakeupCause() int32

	// PowerOnReset reports whether the current boot followed a loss of
	// power, which also clears retained memory. It is false after a wake
	// from sleep and after a software, watchdog or reset pin restart.
	PowerOnReset() bool

	// Ext1WakeupStatus returns the pins that caused an ext1 wake.
	Ext1WakeupStatus() uint64

	// LightSleepStart enters light sleep and returns after a wake source
	// fires.
	LightSleepStart() error

	// DeepSleepStart enters deep sleep. It does not return: execution
	// continues at the next boot.
	DeepSleepStart()
}

// deepSleepChecker is implemented by drivers that know up front that
// DeepSleepStart cannot succeed.
type deepSleepChecker interface {
	checkDeepSleep() error
}
