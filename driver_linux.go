//go:build linux && !baremetal

// Some documentation for the logind D-Bus interface:
// https://www.freedesktop.org/software/systemd/man/org.freedesktop.login1.html

package sleep

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"gopkg.in/yaml.v3"
)

const (
	login1Dest    = "org.freedesktop.login1"
	login1Path    = dbus.ObjectPath("/org/freedesktop/login1")
	login1Manager = "org.freedesktop.login1.Manager"

	prepareForSleep = "PrepareForSleep"
)

// DefaultRTC is the real time clock used for timer wakeups.
const DefaultRTC = "/dev/rtc0"

// DefaultBootState is where the boot ID of the last start is recorded.
const DefaultBootState = "/var/lib/sleep/boot.yaml"

const bootIDPath = "/proc/sys/kernel/random/boot_id"

// DefaultDriver is the sleep subsystem of the host: systemd-logind for sleep
// entry and DefaultRTC for timer wakeups.
var DefaultDriver Driver = NewLogindDriver(LogindConfig{})

// LogindConfig configures a LogindDriver.
type LogindConfig struct {
	// RTC is the RTC device node. Defaults to DefaultRTC.
	RTC string

	// Interactive lets polkit ask the user for authorization.
	Interactive bool

	// BootState records the boot ID of the last start, to tell a new boot
	// from a restarted process. Defaults to DefaultBootState.
	BootState string

	// BootID holds the ID of the current boot. Defaults to the kernel's
	// random boot_id.
	BootID string

	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

// LogindDriver implements Driver on a hosted Linux system. Light sleep is a
// suspend to RAM. Deep sleep powers the machine off, and a timer wake source
// boots it again through the RTC alarm.
//
// External pin wake sources and power domains have no hosted equivalent and
// return ErrNotSupported.
type LogindDriver struct {
	mu          sync.Mutex
	rtc         string
	interactive bool
	log         logrus.FieldLogger
	conn        *dbus.Conn
	bootState   string
	bootID      string

	timer   *time.Duration
	powerOn *bool
}

type bootRecord struct {
	BootID string `yaml:"boot_id"`
}

// NewLogindDriver returns a driver that connects to the system bus on first
// use.
func NewLogindDriver(cfg LogindConfig) *LogindDriver {
	if cfg.RTC == "" {
		cfg.RTC = DefaultRTC
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.BootState == "" {
		cfg.BootState = DefaultBootState
	}
	if cfg.BootID == "" {
		cfg.BootID = bootIDPath
	}
	return &LogindDriver{
		rtc:         cfg.RTC,
		interactive: cfg.Interactive,
		bootState:   cfg.BootState,
		bootID:      cfg.BootID,
		log:         cfg.Logger.WithField("driver", "logind"),
	}
}

// EnableTimerWakeup stores the timeout. The RTC alarm is programmed when
// sleep is entered, so the timeout counts from sleep entry.
func (d *LogindDriver) EnableTimerWakeup(us uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := time.Duration(us) * time.Microsecond
	d.timer = &t
	d.log.WithField("timeout", t).Debug("timer wakeup enabled")
	return nil
}

func (d *LogindDriver) EnableExt0Wakeup(pin int32, level int32) error {
	return ErrNotSupported
}

func (d *LogindDriver) EnableExt1Wakeup(mask uint64, mode int32) error {
	return ErrNotSupported
}

func (d *LogindDriver) PowerDomainConfig(domain int32, option int32) error {
	return ErrNotSupported
}

// WakeupCause reports WakeupTimer if the RTC alarm has fired since it was
// last programmed and WakeupUndefined otherwise.
func (d *LogindDriver) WakeupCause() int32 {
	fd, err := unix.Open(d.rtc, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		d.log.WithError(err).Debug("cannot open RTC")
		return int32(WakeupUndefined)
	}
	defer unix.Close(fd)

	alarm, err := unix.IoctlGetRTCWkAlrm(fd)
	if err != nil {
		d.log.WithError(err).Debug("cannot read RTC alarm")
		return int32(WakeupUndefined)
	}
	if alarm.Pending != 0 {
		return int32(WakeupTimer)
	}
	return int32(WakeupUndefined)
}

// PowerOnReset is true when the machine has booted since the last start and
// the boot was not the RTC alarm ending a deep sleep. A start with no
// recorded boot counts as a power-on. The result is fixed by the first call.
func (d *LogindDriver) PowerOnReset() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.powerOn == nil {
		v := d.detectPowerOn()
		d.powerOn = &v
	}
	return *d.powerOn
}

func (d *LogindDriver) detectPowerOn() bool {
	data, err := os.ReadFile(d.bootID)
	if err != nil {
		// Without a boot ID a new boot cannot be told apart, keep the value.
		d.log.WithError(err).Debug("cannot read boot ID")
		return false
	}
	id := strings.TrimSpace(string(data))

	var last bootRecord
	data, err = os.ReadFile(d.bootState)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &last); err != nil {
			d.log.WithError(err).Warn("ignoring invalid boot state")
		}
	case !errors.Is(err, fs.ErrNotExist):
		d.log.WithError(err).Warn("cannot read boot state")
		return false
	}
	if last.BootID == id {
		return false
	}

	data, err = yaml.Marshal(bootRecord{BootID: id})
	if err == nil {
		err = writeFileAtomic(d.bootState, data)
	}
	if err != nil {
		d.log.WithError(err).Warn("cannot record boot state")
	}
	if WakeupCause(d.WakeupCause()) == WakeupTimer {
		d.log.WithField("boot", id).Debug("booted by RTC alarm")
		return false
	}
	d.log.WithField("boot", id).Debug("new boot")
	return true
}

func (d *LogindDriver) checkDeepSleep() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.bus()
	return err
}

func (d *LogindDriver) Ext1WakeupStatus() uint64 {
	return 0
}

// LightSleepStart suspends the machine and returns after it has resumed.
func (d *LogindDriver) LightSleepStart() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	conn, err := d.bus()
	if err != nil {
		return err
	}
	if err := d.armTimer(); err != nil {
		return err
	}

	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(login1Path),
		dbus.WithMatchInterface(login1Manager),
		dbus.WithMatchMember(prepareForSleep),
	}
	if err := conn.AddMatchSignal(match...); err != nil {
		return fmt.Errorf("sleep: watch %s: %w", prepareForSleep, err)
	}
	defer conn.RemoveMatchSignal(match...)

	signals := make(chan *dbus.Signal, 4)
	conn.Signal(signals)
	defer conn.RemoveSignal(signals)

	d.log.Debug("suspending")
	if err := d.call(conn, "Suspend"); err != nil {
		return err
	}

	// we will receive a nil if the connection is closed, if so the resume
	// can no longer be observed
	for sig := range signals {
		if sig == nil {
			break
		}
		if isResume(sig) {
			d.log.Debug("resumed")
			return nil
		}
	}
	return fmt.Errorf("sleep: system bus closed while suspended")
}

// DeepSleepStart powers the machine off. It does not return.
func (d *LogindDriver) DeepSleepStart() {
	d.mu.Lock()

	conn, err := d.bus()
	if err == nil {
		err = d.armTimer()
	}
	if err == nil {
		d.log.Debug("powering off")
		err = d.call(conn, "PowerOff")
	}
	if err != nil {
		d.mu.Unlock()
		panic(fmt.Errorf("sleep: cannot enter deep sleep: %w", err))
	}

	// Wait for the shutdown to stop this process.
	select {}
}

func (d *LogindDriver) bus() (*dbus.Conn, error) {
	if d.conn != nil {
		return d.conn, nil
	}
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("sleep: connect to system bus: %w", err)
	}
	d.conn = conn
	return conn, nil
}

func (d *LogindDriver) call(conn *dbus.Conn, method string) error {
	obj := conn.Object(login1Dest, login1Path)
	if err := obj.Call(login1Manager+"."+method, 0, d.interactive).Err; err != nil {
		return fmt.Errorf("sleep: logind %s: %w", method, err)
	}
	return nil
}

// armTimer programs the RTC alarm for a pending timer wakeup.
func (d *LogindDriver) armTimer() error {
	if d.timer == nil {
		return nil
	}
	fd, err := unix.Open(d.rtc, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("sleep: open %s: %w", d.rtc, err)
	}
	defer unix.Close(fd)

	now, err := unix.IoctlGetRTCTime(fd)
	if err != nil {
		return fmt.Errorf("sleep: read %s: %w", d.rtc, err)
	}
	at := rtcToTime(*now).Add(rtcTimeout(*d.timer))
	alarm := unix.RTCWkAlrm{Enabled: 1, Time: timeToRTC(at)}
	if err := unix.IoctlSetRTCWkAlrm(fd, &alarm); err != nil {
		return fmt.Errorf("sleep: set alarm on %s: %w", d.rtc, err)
	}
	d.log.WithField("at", at).Debug("RTC alarm set")
	return nil
}

// isResume reports whether sig is PrepareForSleep(false), sent after the
// machine woke up.
func isResume(sig *dbus.Signal) bool {
	if sig.Name != login1Manager+"."+prepareForSleep || len(sig.Body) != 1 {
		return false
	}
	start, ok := sig.Body[0].(bool)
	return ok && !start
}

// rtcTimeout rounds d up to the one second resolution of the RTC alarm.
func rtcTimeout(d time.Duration) time.Duration {
	if r := d % time.Second; r != 0 {
		d += time.Second - r
	}
	return d
}

// The RTC keeps UTC.
func rtcToTime(t unix.RTCTime) time.Time {
	return time.Date(int(t.Year)+1900, time.Month(t.Mon+1), int(t.Mday),
		int(t.Hour), int(t.Min), int(t.Sec), 0, time.UTC)
}

func timeToRTC(t time.Time) unix.RTCTime {
	t = t.UTC()
	return unix.RTCTime{
		Sec:   int32(t.Second()),
		Min:   int32(t.Minute()),
		Hour:  int32(t.Hour()),
		Mday:  int32(t.Day()),
		Mon:   int32(t.Month()) - 1,
		Year:  int32(t.Year()) - 1900,
		Wday:  int32(t.Weekday()),
		Yday:  int32(t.YearDay()) - 1,
		Isdst: -1,
	}
}
