package sleep

import (
	"errors"
	"strconv"
)

// Error is an esp_err_t returned by the vendor sleep subsystem. Drivers that
// are not backed by ESP-IDF use the same codes so callers can inspect them
// uniformly.
type Error int32

// Vendor error codes used by this package.
const (
	errFail         Error = -1
	errNoMem        Error = 0x101
	errInvalidArg   Error = 0x102
	errInvalidState Error = 0x103
	errNotSupported Error = 0x106
	errTimeout      Error = 0x107
)

// ErrNotSupported is returned by drivers that cannot arm the requested wake
// source or configure the requested power domain on this platform.
var ErrNotSupported error = errNotSupported

var (
	// ErrArgCount is matched by every *ArgCountError.
	ErrArgCount = errors.New("sleep: invalid arg")

	// ErrOutOfRange is matched by every *RangeError.
	ErrOutOfRange = errors.New("sleep: argument out of range")

	// ErrUnknownNative is returned by Natives.Call for a name that is not in
	// the table.
	ErrUnknownNative = errors.New("sleep: unknown native function")
)

func (e Error) Error() string {
	return "sleep: " + e.text() + " (err: " + strconv.Itoa(int(e)) + ")"
}

// Code returns the raw vendor error code.
func (e Error) Code() int32 {
	return int32(e)
}

func (e Error) text() string {
	switch {
	case e == 0:
		return "no error"
	case e == errFail:
		return "generic failure"
	case e >= 0x100 && e < 0x3000:
		// Common errors.
		switch e {
		case errNoMem:
			return "out of memory"
		case errInvalidArg:
			return "invalid argument"
		case errInvalidState:
			return "invalid state"
		case 0x104:
			return "invalid size"
		case 0x105:
			return "requested resource not found"
		case errNotSupported:
			return "operation or feature not supported"
		case errTimeout:
			return "operation timed out"
		case 0x108:
			return "received response was invalid"
		case 0x109:
			return "CRC or checksum was invalid"
		case 0x10A:
			return "version was invalid"
		case 0x10B:
			return "MAC address was invalid"
		case 0x10C:
			return "operation has not fully completed"
		default:
			return "other common error"
		}
	case e >= 0x3000 && e < 0x4000:
		return "other WiFi error"
	case e >= 0x4000 && e < 0x6000:
		return "other mesh error"
	case e >= 0x6000 && e < 0x7000:
		return "other flash error"
	default:
		return "other error"
	}
}

// makeError returns an error (using the Error type) if the error code is
// non-zero, otherwise it returns nil. It is used with driver calls.
func makeError(code int32) error {
	if code != 0 {
		return Error(code)
	}
	return nil
}

// ArgCountError reports a native call with the wrong number of arguments.
type ArgCountError struct {
	Func string
	Want string // e.g. "2" or "0 or 1"
	Got  int
}

func (e *ArgCountError) Error() string {
	return "sleep: invalid arg: " + e.Func + " expects " + e.Want + " argument(s), got " + strconv.Itoa(e.Got)
}

func (e *ArgCountError) Is(target error) bool {
	return target == ErrArgCount
}

// RangeError reports a value outside the closed set accepted for a parameter.
type RangeError struct {
	Param string
	Value int64
}

func (e *RangeError) Error() string {
	return "sleep: " + e.Param + " out of range: " + strconv.FormatInt(e.Value, 10)
}

func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
