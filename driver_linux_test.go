//go:build linux && !baremetal

package sleep

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
)

func TestRTCTimeConversion(t *testing.T) {
	at := time.Date(2024, time.February, 29, 23, 59, 58, 0, time.UTC)
	rtc := timeToRTC(at)
	if rtc.Year != 124 || rtc.Mon != 1 || rtc.Mday != 29 || rtc.Yday != 59 {
		t.Errorf("unexpected RTC time %+v", rtc)
	}
	if back := rtcToTime(rtc); !back.Equal(at) {
		t.Errorf("expected %v, got %v", at, back)
	}
	if next := rtcToTime(timeToRTC(at.Add(rtcTimeout(1500 * time.Millisecond)))); !next.Equal(at.Add(2 * time.Second)) {
		t.Errorf("unexpected alarm time %v", next)
	}
}

func TestRTCTimeout(t *testing.T) {
	tests := map[time.Duration]time.Duration{
		0:                       0,
		time.Millisecond:        time.Second,
		time.Second:             time.Second,
		1001 * time.Millisecond: 2 * time.Second,
	}
	for in, expected := range tests {
		if actual := rtcTimeout(in); actual != expected {
			t.Errorf("rtcTimeout(%v) = %v, expected %v", in, actual, expected)
		}
	}
}

func TestIsResume(t *testing.T) {
	name := login1Manager + "." + prepareForSleep
	tests := []struct {
		sig    *dbus.Signal
		resume bool
	}{
		{&dbus.Signal{Name: name, Body: []interface{}{false}}, true},
		{&dbus.Signal{Name: name, Body: []interface{}{true}}, false},
		{&dbus.Signal{Name: name}, false},
		{&dbus.Signal{Name: login1Manager + ".PrepareForShutdown", Body: []interface{}{false}}, false},
	}
	for _, tc := range tests {
		if actual := isResume(tc.sig); actual != tc.resume {
			t.Errorf("isResume(%s %v) = %v", tc.sig.Name, tc.sig.Body, actual)
		}
	}
}

func TestLogindDriverUnsupported(t *testing.T) {
	d := NewLogindDriver(LogindConfig{RTC: filepath.Join(t.TempDir(), "rtc")})
	if err := d.EnableExt0Wakeup(4, 1); err != ErrNotSupported {
		t.Errorf("EnableExt0Wakeup: expected ErrNotSupported, got %v", err)
	}
	if err := d.EnableExt1Wakeup(1<<4, 1); err != ErrNotSupported {
		t.Errorf("EnableExt1Wakeup: expected ErrNotSupported, got %v", err)
	}
	if err := d.PowerDomainConfig(0, 1); err != ErrNotSupported {
		t.Errorf("PowerDomainConfig: expected ErrNotSupported, got %v", err)
	}
	// Without an RTC the cause cannot be known.
	if cause := d.WakeupCause(); cause != int32(WakeupUndefined) {
		t.Errorf("expected undefined wake cause, got %d", cause)
	}
	if err := d.EnableTimerWakeup(2500000); err != nil || *d.timer != 2500*time.Millisecond {
		t.Errorf("EnableTimerWakeup err=%v timer=%v", err, d.timer)
	}
}

// bootDir returns a driver config whose boot ID file holds id, with no RTC.
func bootDir(t *testing.T, id string) (string, LogindConfig) {
	t.Helper()
	dir := t.TempDir()
	cfg := LogindConfig{
		RTC:       filepath.Join(dir, "rtc"),
		BootState: filepath.Join(dir, "boot.yaml"),
		BootID:    filepath.Join(dir, "boot_id"),
	}
	setBootID(t, cfg, id)
	return dir, cfg
}

func setBootID(t *testing.T, cfg LogindConfig, id string) {
	t.Helper()
	if err := os.WriteFile(cfg.BootID, []byte(id+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLogindDriverPowerOnReset(t *testing.T) {
	_, cfg := bootDir(t, "4d1f0a1c-first")

	d := NewLogindDriver(cfg)
	if !d.PowerOnReset() {
		t.Error("first start without boot state must be a power-on")
	}
	if !d.PowerOnReset() {
		t.Error("result must not change within one process")
	}
	if NewLogindDriver(cfg).PowerOnReset() {
		t.Error("restart on the same boot must not be a power-on")
	}

	setBootID(t, cfg, "4d1f0a1c-second")
	if !NewLogindDriver(cfg).PowerOnReset() {
		t.Error("new boot must be a power-on")
	}
	data, err := os.ReadFile(cfg.BootState)
	if err != nil {
		t.Fatalf("ReadFile() err=%v", err)
	}
	if string(data) != "boot_id: 4d1f0a1c-second\n" {
		t.Errorf("unexpected boot state %q", data)
	}

	// An unreadable boot ID keeps the value.
	cfg.BootID = filepath.Join(t.TempDir(), "missing")
	if NewLogindDriver(cfg).PowerOnReset() {
		t.Error("unknown boot must not be a power-on")
	}
}

func TestLogindDriverRetainedAcrossRestart(t *testing.T) {
	dir, cfg := bootDir(t, "b007")
	path := filepath.Join(dir, "retained.yaml")

	b, err := New(NewLogindDriver(cfg), NewFileMemory(path), 5)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if v, _ := b.Status(); v != 5 {
		t.Fatalf("expected cold boot status 5, got %d", v)
	}
	if err := b.SetStatus(42); err != nil {
		t.Fatalf("SetStatus() err=%v", err)
	}

	// The process exits and starts again without the machine rebooting.
	b, err = New(NewLogindDriver(cfg), NewFileMemory(path), 5)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if v, _ := b.Status(); v != 42 {
		t.Errorf("expected 42 after restart, got %d", v)
	}

	setBootID(t, cfg, "b008")
	b, err = New(NewLogindDriver(cfg), NewFileMemory(path), 5)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if v, _ := b.Status(); v != 5 {
		t.Errorf("expected cold boot status 5 after reboot, got %d", v)
	}
}
