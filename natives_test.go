package sleep

import (
	"errors"
	"testing"
)

func TestNativesDeepSleepEnter(t *testing.T) {
	sim := NewSimulator(0)
	natives := newTestBinding(t, sim).Natives(Strict)

	deepSleep(t, func() { natives.Call(NativeDeepSleepEnter, 500) })

	checkCalls(t, sim, []SimCall{
		{Name: "EnableTimerWakeup", Args: []int64{500000}},
		{Name: "DeepSleepStart"},
	})
}

func TestNativesSleepEnterArity(t *testing.T) {
	sim := NewSimulator(0)
	b := newTestBinding(t, sim)

	for _, name := range []string{NativeDeepSleepEnter, NativeLightSleepEnter} {
		_, err := b.Natives(Strict).Call(name, 1, 2)
		if !errors.Is(err, ErrArgCount) {
			t.Errorf("%s: expected ErrArgCount, got %v", name, err)
		}
		_, err = b.Natives(Lenient).Call(name, -5)
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("%s: expected ErrOutOfRange for a negative timeout, got %v", name, err)
		}
	}
	checkCalls(t, sim, nil)

	// Lenient mode uses the first argument and ignores the rest.
	if _, err := b.Natives(Lenient).Call(NativeLightSleepEnter, 3, 99); err != nil {
		t.Fatalf("light_sleep_enter err=%v", err)
	}
	checkCalls(t, sim, []SimCall{
		{Name: "EnableTimerWakeup", Args: []int64{3000}},
		{Name: "LightSleepStart"},
	})
}

func TestNativesWakeupArmingArity(t *testing.T) {
	type testCase struct {
		name string
		args []int32
	}
	var tests []testCase
	for _, name := range []string{NativeEnableExt0Wakeup, NativeEnableExt1Wakeup} {
		tests = append(tests,
			testCase{name, nil},
			testCase{name, []int32{4}},
			testCase{name, []int32{4, 1, 0}},
		)
	}

	for _, tc := range tests {
		sim := NewSimulator(0)
		b := newTestBinding(t, sim)

		// Lenient: dropped without an error and without a vendor call.
		if _, err := b.Natives(Lenient).Call(tc.name, tc.args...); err != nil {
			t.Errorf("lenient %s%v: expected no error, got %v", tc.name, tc.args, err)
		}
		// Strict: reported, still without a vendor call.
		if _, err := b.Natives(Strict).Call(tc.name, tc.args...); !errors.Is(err, ErrArgCount) {
			t.Errorf("strict %s%v: expected ErrArgCount, got %v", tc.name, tc.args, err)
		}
		checkCalls(t, sim, nil)
	}
}

func TestNativesWakeupArming(t *testing.T) {
	sim := NewSimulator(0)
	natives := newTestBinding(t, sim).Natives(Strict)

	if _, err := natives.Call(NativeEnableExt0Wakeup, 25, 0); err != nil {
		t.Fatalf("enable_ext0_wakeup err=%v", err)
	}
	if _, err := natives.Call(NativeEnableExt1Wakeup, 1<<4|1<<2, 1); err != nil {
		t.Fatalf("enable_ext1_wakeup err=%v", err)
	}
	if _, err := natives.Call(NativeEnableExt0Wakeup, 25, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for level 2, got %v", err)
	}
	if _, err := natives.Call(NativeEnableExt1Wakeup, 1<<4, -1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for mode -1, got %v", err)
	}
	if _, err := natives.Call(NativeEnableExt0Wakeup, 64, 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for pin 64, got %v", err)
	}
	checkCalls(t, sim, []SimCall{
		{Name: "EnableExt0Wakeup", Args: []int64{25, 0}},
		{Name: "EnableExt1Wakeup", Args: []int64{0x14, 1}},
	})
}

func TestNativesSetPDConfig(t *testing.T) {
	for _, mode := range []ArityMode{Strict, Lenient} {
		sim := NewSimulator(0)
		natives := newTestBinding(t, sim).Natives(mode)

		for _, args := range [][]int32{nil, {1}, {1, 1, 1}} {
			_, err := natives.Call(NativeSetPDConfig, args...)
			var argErr *ArgCountError
			if !errors.As(err, &argErr) {
				t.Errorf("mode %d args %v: expected *ArgCountError, got %v", mode, args, err)
				continue
			}
			if argErr.Got != len(args) {
				t.Errorf("expected Got=%d, got %d", len(args), argErr.Got)
			}
		}
		checkCalls(t, sim, nil)

		if _, err := natives.Call(NativeSetPDConfig, 2, 1); err != nil {
			t.Errorf("set_pd_config(2, 1) err=%v", err)
		}
		if o, ok := sim.PowerDomain(2); !ok || o != 1 {
			t.Errorf("expected rtc-fast-mem on, got %d (set=%v)", o, ok)
		}

		sim.FailPowerDomainConfig(Error(0x102))
		_, err := natives.Call(NativeSetPDConfig, 0, 0)
		var vendorErr Error
		if !errors.As(err, &vendorErr) || vendorErr.Code() != 0x102 {
			t.Errorf("expected vendor error 0x102, got %v", err)
		}
		if errors.Is(err, ErrArgCount) {
			t.Error("vendor failure reported as an argument count error")
		}

		if _, err := natives.Call(NativeSetPDConfig, 3, 0); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("expected ErrOutOfRange for domain 3, got %v", err)
		}
	}
}

func TestNativesStatus(t *testing.T) {
	b := newTestBinding(t, NewSimulator(0))
	natives := b.Natives(Strict)

	if v, err := natives.Call(NativeGetStatus); err != nil || v != coldBootStatus {
		t.Fatalf("expected cold boot status %#x, got %#x (err=%v)", coldBootStatus, v, err)
	}
	if _, err := natives.Call(NativeSetStatus, -3); err != nil {
		t.Fatalf("set_status err=%v", err)
	}
	if v, _ := natives.Call(NativeGetStatus); v != -3 {
		t.Errorf("expected -3, got %d", v)
	}

	for _, mode := range []ArityMode{Strict, Lenient} {
		if _, err := b.Natives(mode).Call(NativeSetStatus); !errors.Is(err, ErrArgCount) {
			t.Errorf("mode %d: expected ErrArgCount for set_status(), got %v", mode, err)
		}
	}
	if v, _ := natives.Call(NativeGetStatus); v != -3 {
		t.Errorf("set_status() must not change the status, got %d", v)
	}
}

func TestNativesResetCause(t *testing.T) {
	sim := NewSimulator(0)
	b := newTestBinding(t, sim)

	if v, err := b.Natives(Strict).Call(NativeGetResetCause); err != nil || v != 0 {
		t.Fatalf("expected cause 0, got %d (err=%v)", v, err)
	}
	deepSleep(t, func() { b.Natives(Strict).Call(NativeDeepSleepEnter, 1) })

	b = newTestBinding(t, sim)
	if v, _ := b.Natives(Strict).Call(NativeGetResetCause); v != int32(WakeupTimer) {
		t.Errorf("expected cause %d, got %d", WakeupTimer, v)
	}
	if v, _ := b.Natives(Strict).Call(NativeGetWakeupPin); v != 0 {
		t.Errorf("expected no wakeup pins, got %#x", v)
	}
}

func TestNativesUnknown(t *testing.T) {
	natives := newTestBinding(t, NewSimulator(0)).Natives(Strict)
	if _, err := natives.Call("hibernate"); err != ErrUnknownNative {
		t.Errorf("expected ErrUnknownNative, got %v", err)
	}
	names := natives.Names()
	if len(names) != 10 || names[0] != NativeDeepSleepEnter {
		t.Errorf("unexpected native names: %v", names)
	}
}

func TestNativesWakeupPinWords(t *testing.T) {
	tests := []struct {
		pins PinMask
		low  int32
		high int32
	}{
		{MaskOf(4), 1 << 4, 0},
		{MaskOf(33), 0, 1 << 1},
		{MaskOf(31), -1 << 31, 0},
		{MaskOf(2, 39), 1 << 2, 1 << 7},
	}
	for _, tc := range tests {
		sim := NewSimulator(0)
		b := newTestBinding(t, sim)
		sim.Fire(WakeupExt1, tc.pins)
		deepSleep(t, func() { b.EnterDeepSleep(NoTimeout) })

		natives := newTestBinding(t, sim).Natives(Strict)
		if v, err := natives.Call(NativeGetWakeupPin); err != nil || v != tc.low {
			t.Errorf("pins %v: get_wakeup_pin = %#x (err=%v), expected %#x", tc.pins.Pins(), v, err, tc.low)
		}
		if v, err := natives.Call(NativeGetWakeupPinHigh); err != nil || v != tc.high {
			t.Errorf("pins %v: get_wakeup_pin_high = %#x (err=%v), expected %#x", tc.pins.Pins(), v, err, tc.high)
		}
		if _, err := natives.Call(NativeGetWakeupPinHigh, 1); !errors.Is(err, ErrArgCount) {
			t.Errorf("expected ErrArgCount, got %v", err)
		}
	}
}

// refusingDriver cannot enter deep sleep and says so up front.
type refusingDriver struct {
	nopDriver
	slept bool
}

func (d *refusingDriver) checkDeepSleep() error {
	return ErrNotSupported
}

func (d *refusingDriver) DeepSleepStart() {
	d.slept = true
	panic(ErrNotSupported)
}

func TestNativesDeepSleepNotSupported(t *testing.T) {
	drv := &refusingDriver{}
	b, err := New(drv, NewSimulator(0).Memory(), 0)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if err := b.CanDeepSleep(); err != ErrNotSupported {
		t.Errorf("CanDeepSleep: expected ErrNotSupported, got %v", err)
	}
	for _, mode := range []ArityMode{Strict, Lenient} {
		if _, err := b.Natives(mode).Call(NativeDeepSleepEnter, 100); err != ErrNotSupported {
			t.Errorf("mode %d: expected ErrNotSupported, got %v", mode, err)
		}
	}
	if drv.slept {
		t.Error("deep sleep entered on a driver that cannot sleep")
	}
	if err := newTestBinding(t, NewSimulator(0)).CanDeepSleep(); err != nil {
		t.Errorf("simulator: expected deep sleep support, got %v", err)
	}
}
