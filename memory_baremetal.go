//go:build baremetal && !esp32

package sleep

import "runtime/volatile"

// DefaultMemory is ordinary RAM on chips without a retained memory binding:
// it holds the value until the next reset of any kind.
var DefaultMemory Memory = &ramMemory{}

const memoryLostOnReset = true

type ramMemory struct {
	v volatile.Register32
}

func (m *ramMemory) Load() (int32, error) {
	return int32(m.v.Get()), nil
}

func (m *ramMemory) Store(v int32) error {
	m.v.Set(uint32(v))
	return nil
}
