package sleep

import (
	"sort"
	"time"
)

// Native is a function in the script host's native call table. Arguments and
// the result are script integers.
type Native func(args ...int32) (int32, error)

// Natives maps native function names to their implementation.
type Natives map[string]Native

// ArityMode selects how natives treat a call with the wrong number of
// arguments.
type ArityMode uint8

const (
	// Strict reports every malformed call with an *ArgCountError.
	Strict ArityMode = iota

	// Lenient matches the deployed firmware: the wakeup arming natives
	// silently ignore a call with the wrong number of arguments, and sleep
	// entry ignores extra arguments. set_pd_config and set_status still
	// report.
	Lenient
)

// Names of the native functions.
const (
	NativeDeepSleepEnter   = "deep_sleep_enter"
	NativeLightSleepEnter  = "light_sleep_enter"
	NativeEnableExt0Wakeup = "enable_ext0_wakeup"
	NativeEnableExt1Wakeup = "enable_ext1_wakeup"
	NativeGetResetCause    = "get_reset_cause"
	NativeGetWakeupPin     = "get_wakeup_pin"
	NativeGetWakeupPinHigh = "get_wakeup_pin_high"
	NativeSetPDConfig      = "set_pd_config"
	NativeGetStatus        = "get_status"
	NativeSetStatus        = "set_status"
)

// Natives returns the native call table for b.
func (b *Binding) Natives(mode ArityMode) Natives {
	n := natives{b: b, mode: mode}
	return Natives{
		NativeDeepSleepEnter:   n.deepSleepEnter,
		NativeLightSleepEnter:  n.lightSleepEnter,
		NativeEnableExt0Wakeup: n.enableExt0Wakeup,
		NativeEnableExt1Wakeup: n.enableExt1Wakeup,
		NativeGetResetCause:    n.getResetCause,
		NativeGetWakeupPin:     n.getWakeupPin,
		NativeGetWakeupPinHigh: n.getWakeupPinHigh,
		NativeSetPDConfig:      n.setPDConfig,
		NativeGetStatus:        n.getStatus,
		NativeSetStatus:        n.setStatus,
	}
}

// Call invokes the named native.
func (t Natives) Call(name string, args ...int32) (int32, error) {
	fn, ok := t[name]
	if !ok {
		return 0, ErrUnknownNative
	}
	return fn(args...)
}

// Names returns the names in the table, sorted.
func (t Natives) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type natives struct {
	b    *Binding
	mode ArityMode
}

// timeout decodes the optional millisecond argument of the sleep natives.
func (n natives) timeout(name string, args []int32) (time.Duration, error) {
	if len(args) > 1 && n.mode == Strict {
		return 0, &ArgCountError{Func: name, Want: "0 or 1", Got: len(args)}
	}
	if len(args) == 0 {
		return NoTimeout, nil
	}
	if args[0] < 0 {
		return 0, &RangeError{Param: "timeout", Value: int64(args[0])}
	}
	return time.Duration(args[0]) * time.Millisecond, nil
}

func (n natives) deepSleepEnter(args ...int32) (int32, error) {
	timeout, err := n.timeout(NativeDeepSleepEnter, args)
	if err != nil {
		return 0, err
	}
	if err := n.b.CanDeepSleep(); err != nil {
		return 0, err
	}
	n.b.EnterDeepSleep(timeout)
	return 0, nil // unreachable
}

func (n natives) lightSleepEnter(args ...int32) (int32, error) {
	timeout, err := n.timeout(NativeLightSleepEnter, args)
	if err != nil {
		return 0, err
	}
	return 0, n.b.EnterLightSleep(timeout)
}

// pair checks the arity of the two-argument wakeup arming natives. It returns
// false without an error when the call must be dropped silently.
func (n natives) pair(name string, args []int32) (bool, error) {
	if len(args) == 2 {
		return true, nil
	}
	if n.mode == Lenient {
		return false, nil
	}
	return false, &ArgCountError{Func: name, Want: "2", Got: len(args)}
}

func (n natives) enableExt0Wakeup(args ...int32) (int32, error) {
	ok, err := n.pair(NativeEnableExt0Wakeup, args)
	if !ok {
		return 0, err
	}
	if args[0] < 0 || args[0] > maxPin {
		return 0, &RangeError{Param: "pin", Value: int64(args[0])}
	}
	level, err := ParseLevel(args[1])
	if err != nil {
		return 0, err
	}
	return 0, n.b.EnableExt0Wakeup(Pin(args[0]), level)
}

func (n natives) enableExt1Wakeup(args ...int32) (int32, error) {
	ok, err := n.pair(NativeEnableExt1Wakeup, args)
	if !ok {
		return 0, err
	}
	mode, err := ParseExt1Mode(args[1])
	if err != nil {
		return 0, err
	}
	// The mask arrives as a script integer; reinterpret its bits so that
	// pin 31 remains addressable.
	return 0, n.b.EnableExt1Wakeup(PinMask(uint32(args[0])), mode)
}

func (n natives) getResetCause(args ...int32) (int32, error) {
	if len(args) != 0 && n.mode == Strict {
		return 0, &ArgCountError{Func: NativeGetResetCause, Want: "0", Got: len(args)}
	}
	return int32(n.b.WakeupCause()), nil
}

// getWakeupPin returns pins 0-31 of the ext1 wake mask. Script integers are
// 32 bits wide, so pins 32-63 come from getWakeupPinHigh.
func (n natives) getWakeupPin(args ...int32) (int32, error) {
	if len(args) != 0 && n.mode == Strict {
		return 0, &ArgCountError{Func: NativeGetWakeupPin, Want: "0", Got: len(args)}
	}
	return int32(uint32(n.b.WakeupPins())), nil
}

func (n natives) getWakeupPinHigh(args ...int32) (int32, error) {
	if len(args) != 0 && n.mode == Strict {
		return 0, &ArgCountError{Func: NativeGetWakeupPinHigh, Want: "0", Got: len(args)}
	}
	return int32(uint32(n.b.WakeupPins() >> 32)), nil
}

func (n natives) setPDConfig(args ...int32) (int32, error) {
	if len(args) != 2 {
		return 0, &ArgCountError{Func: NativeSetPDConfig, Want: "2", Got: len(args)}
	}
	domain, err := ParsePowerDomain(args[0])
	if err != nil {
		return 0, err
	}
	option, err := ParsePowerOption(args[1])
	if err != nil {
		return 0, err
	}
	return 0, n.b.SetPowerDomainConfig(domain, option)
}

func (n natives) getStatus(args ...int32) (int32, error) {
	if len(args) != 0 && n.mode == Strict {
		return 0, &ArgCountError{Func: NativeGetStatus, Want: "0", Got: len(args)}
	}
	return n.b.Status()
}

func (n natives) setStatus(args ...int32) (int32, error) {
	if len(args) == 0 || (len(args) > 1 && n.mode == Strict) {
		return 0, &ArgCountError{Func: NativeSetStatus, Want: "1", Got: len(args)}
	}
	return 0, n.b.SetStatus(args[0])
}
