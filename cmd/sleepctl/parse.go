package main

import (
	"fmt"
	"strconv"
	"strings"

	"tinygo.org/x/sleep"
)

// parseInt32 accepts decimal, 0x hex and 0b binary.
func parseInt32(name, arg string) (int32, error) {
	n, err := strconv.ParseInt(arg, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, arg, err)
	}
	return int32(n), nil
}

// parseNamed resolves arg by the value names in order, or as a raw code.
func parseNamed(name, arg string, names ...fmt.Stringer) (int32, error) {
	for i, n := range names {
		if strings.EqualFold(arg, n.String()) {
			return int32(i), nil
		}
	}
	return parseInt32(name, arg)
}

func parseLevel(arg string) (sleep.Level, error) {
	v, err := parseNamed("level", arg, sleep.Low, sleep.High)
	if err != nil {
		return 0, err
	}
	return sleep.ParseLevel(v)
}

func parseExt1Mode(arg string) (sleep.Ext1Mode, error) {
	v, err := parseNamed("mode", arg, sleep.AllLow, sleep.AnyHigh)
	if err != nil {
		return 0, err
	}
	return sleep.ParseExt1Mode(v)
}

func parsePowerDomain(arg string) (sleep.PowerDomain, error) {
	v, err := parseNamed("domain", arg, sleep.RTCPeriph, sleep.RTCSlowMem, sleep.RTCFastMem)
	if err != nil {
		return 0, err
	}
	return sleep.ParsePowerDomain(v)
}

func parsePowerOption(arg string) (sleep.PowerOption, error) {
	v, err := parseNamed("option", arg, sleep.Off, sleep.On, sleep.Auto)
	if err != nil {
		return 0, err
	}
	return sleep.ParsePowerOption(v)
}

// parsePinMask accepts a 0x or 0b prefixed mask, or a comma separated pin
// list.
func parsePinMask(arg string) (sleep.PinMask, error) {
	if strings.HasPrefix(arg, "0x") || strings.HasPrefix(arg, "0b") {
		m, err := strconv.ParseUint(arg, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid pin mask %q: %w", arg, err)
		}
		return sleep.PinMask(m), nil
	}
	var pins []sleep.Pin
	for _, s := range strings.Split(arg, ",") {
		p, err := strconv.ParseUint(strings.TrimSpace(s), 10, 6)
		if err != nil {
			return 0, fmt.Errorf("invalid pin list %q: %w", arg, err)
		}
		pins = append(pins, sleep.Pin(p))
	}
	return sleep.MaskOf(pins...), nil
}

func formatPins(m sleep.PinMask) string {
	pins := m.Pins()
	if len(pins) == 0 {
		return "none"
	}
	s := make([]string, len(pins))
	for i, p := range pins {
		s[i] = strconv.Itoa(int(p))
	}
	return strings.Join(s, ",")
}
