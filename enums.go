package sleep

import "strconv"

// Pin is a GPIO number as used by the vendor SDK.
type Pin int8

// maxPin bounds Pin so that every pin has a bit in a PinMask.
const maxPin = 63

func (p Pin) valid() bool {
	return p >= 0 && p <= maxPin
}

// PinMask is a set of GPIO pins, one bit per pin number.
type PinMask uint64

// Has reports whether pin is in the mask.
func (m PinMask) Has(pin Pin) bool {
	return pin.valid() && m&(1<<uint(pin)) != 0
}

// Pins returns the pins in the mask in ascending order.
func (m PinMask) Pins() []Pin {
	var pins []Pin
	for p := Pin(0); p <= maxPin; p++ {
		if m.Has(p) {
			pins = append(pins, p)
		}
	}
	return pins
}

// MaskOf returns a mask holding the given pins.
func MaskOf(pins ...Pin) PinMask {
	var m PinMask
	for _, p := range pins {
		if p.valid() {
			m |= 1 << uint(p)
		}
	}
	return m
}

// Level is the trigger level of a single-pin (ext0) wake source.
type Level uint8

const (
	Low Level = iota
	High
)

var levelCodes = [...]int32{
	Low:  0,
	High: 1,
}

// ParseLevel converts a raw script integer into a Level.
func ParseLevel(v int32) (Level, error) {
	for l, code := range levelCodes {
		if code == v {
			return Level(l), nil
		}
	}
	return 0, &RangeError{Param: "level", Value: int64(v)}
}

func (l Level) code() (int32, error) {
	if int(l) >= len(levelCodes) {
		return 0, &RangeError{Param: "level", Value: int64(l)}
	}
	return levelCodes[l], nil
}

func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case High:
		return "high"
	}
	return "Level(" + strconv.Itoa(int(l)) + ")"
}

// Ext1Mode is the trigger mode of a multi-pin (ext1) wake source.
type Ext1Mode uint8

const (
	// AllLow wakes when all selected pins are low.
	AllLow Ext1Mode = iota
	// AnyHigh wakes when any selected pin is high.
	AnyHigh
)

// ESP_EXT1_WAKEUP_ALL_LOW and ESP_EXT1_WAKEUP_ANY_HIGH.
var ext1ModeCodes = [...]int32{
	AllLow:  0,
	AnyHigh: 1,
}

// ParseExt1Mode converts a raw script integer into an Ext1Mode.
func ParseExt1Mode(v int32) (Ext1Mode, error) {
	for m, code := range ext1ModeCodes {
		if code == v {
			return Ext1Mode(m), nil
		}
	}
	return 0, &RangeError{Param: "ext1 mode", Value: int64(v)}
}

func (m Ext1Mode) code() (int32, error) {
	if int(m) >= len(ext1ModeCodes) {
		return 0, &RangeError{Param: "ext1 mode", Value: int64(m)}
	}
	return ext1ModeCodes[m], nil
}

func (m Ext1Mode) String() string {
	switch m {
	case AllLow:
		return "all-low"
	case AnyHigh:
		return "any-high"
	}
	return "Ext1Mode(" + strconv.Itoa(int(m)) + ")"
}

// PowerDomain is a chip power domain whose state can be kept during sleep.
type PowerDomain uint8

const (
	RTCPeriph PowerDomain = iota
	RTCSlowMem
	RTCFastMem
)

// esp_sleep_pd_domain_t.
var powerDomainCodes = [...]int32{
	RTCPeriph:  0,
	RTCSlowMem: 1,
	RTCFastMem: 2,
}

// ParsePowerDomain converts a raw script integer into a PowerDomain.
func ParsePowerDomain(v int32) (PowerDomain, error) {
	for d, code := range powerDomainCodes {
		if code == v {
			return PowerDomain(d), nil
		}
	}
	return 0, &RangeError{Param: "power domain", Value: int64(v)}
}

func (d PowerDomain) code() (int32, error) {
	if int(d) >= len(powerDomainCodes) {
		return 0, &RangeError{Param: "power domain", Value: int64(d)}
	}
	return powerDomainCodes[d], nil
}

func (d PowerDomain) String() string {
	switch d {
	case RTCPeriph:
		return "rtc-periph"
	case RTCSlowMem:
		return "rtc-slow-mem"
	case RTCFastMem:
		return "rtc-fast-mem"
	}
	return "PowerDomain(" + strconv.Itoa(int(d)) + ")"
}

// PowerOption selects whether a power domain is retained during sleep.
type PowerOption uint8

const (
	Off PowerOption = iota
	On
	// Auto keeps the domain powered only if a wake source needs it.
	Auto
)

// esp_sleep_pd_option_t.
var powerOptionCodes = [...]int32{
	Off:  0,
	On:   1,
	Auto: 2,
}

// ParsePowerOption converts a raw script integer into a PowerOption.
func ParsePowerOption(v int32) (PowerOption, error) {
	for o, code := range powerOptionCodes {
		if code == v {
			return PowerOption(o), nil
		}
	}
	return 0, &RangeError{Param: "power option", Value: int64(v)}
}

func (o PowerOption) code() (int32, error) {
	if int(o) >= len(powerOptionCodes) {
		return 0, &RangeError{Param: "power option", Value: int64(o)}
	}
	return powerOptionCodes[o], nil
}

func (o PowerOption) String() string {
	switch o {
	case Off:
		return "off"
	case On:
		return "on"
	case Auto:
		return "auto"
	}
	return "PowerOption(" + strconv.Itoa(int(o)) + ")"
}

// WakeupCause is the reason the chip left its most recent sleep state, using
// the esp_sleep_wakeup_cause_t numbering.
type WakeupCause int32

const (
	// WakeupUndefined means there was no sleep: a power-on or other reset.
	WakeupUndefined WakeupCause = 0
	WakeupAll       WakeupCause = 1
	WakeupExt0      WakeupCause = 2
	WakeupExt1      WakeupCause = 3
	WakeupTimer     WakeupCause = 4
	WakeupTouchpad  WakeupCause = 5
	WakeupULP       WakeupCause = 6
	WakeupGPIO      WakeupCause = 7
	WakeupUART      WakeupCause = 8
)

func (c WakeupCause) String() string {
	switch c {
	case WakeupUndefined:
		return "undefined"
	case WakeupAll:
		return "all"
	case WakeupExt0:
		return "ext0"
	case WakeupExt1:
		return "ext1"
	case WakeupTimer:
		return "timer"
	case WakeupTouchpad:
		return "touchpad"
	case WakeupULP:
		return "ulp"
	case WakeupGPIO:
		return "gpio"
	case WakeupUART:
		return "uart"
	}
	return "WakeupCause(" + strconv.Itoa(int(c)) + ")"
}
