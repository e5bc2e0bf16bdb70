package sleep

import "sync"

// Memory is storage that survives deep sleep but not a loss of power, such as
// the RTC slow memory of the ESP32.
type Memory interface {
	Load() (int32, error)
	Store(v int32) error
}

// Retained is the retained status cell. Its value is opaque: it is stored and
// returned verbatim.
//
// Boot must run once per process before the first Get. After a power-on reset
// the cell is set to the configured default. Any other start keeps the stored
// value.
type Retained struct {
	mu       sync.Mutex
	mem      Memory
	coldBoot int32
	booted   bool
}

// NewRetained returns a cell backed by mem that is set to coldBoot whenever
// the chip starts from a loss of power.
func NewRetained(mem Memory, coldBoot int32) *Retained {
	return &Retained{mem: mem, coldBoot: coldBoot}
}

// Boot applies the boot rule. powerOn is the driver's PowerOnReset. Only the
// first call in a process has an effect.
func (r *Retained) Boot(powerOn bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.booted {
		return nil
	}
	if powerOn {
		if err := r.mem.Store(r.coldBoot); err != nil {
			return err
		}
	}
	r.booted = true
	return nil
}

// Get returns the retained value.
func (r *Retained) Get() (int32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mem.Load()
}

// Set overwrites the retained value.
func (r *Retained) Set(v int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mem.Store(v)
}
