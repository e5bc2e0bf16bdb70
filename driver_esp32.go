//go:build esp32

package sleep

// The ESP-IDF headers are not part of this module. Point the C compiler at
// them through the environment, for example:
//
//	CGO_CFLAGS="-I$IDF_PATH/components/esp_common/include -I$IDF_PATH/components/esp_hw_support/include -I$IDF_PATH/components/esp_system/include"

/*
#include <stdint.h>
#include <stdbool.h>
#include "esp_err.h"
#include "esp_attr.h"
#include "esp_sleep.h"
#include "esp_system.h"

// Lives in RTC slow memory. RTC_NOINIT_ATTR keeps it across deep sleep and
// across software, watchdog and reset pin restarts; its content is undefined
// after a power-on, which is handled by power_on_reset.
static RTC_NOINIT_ATTR int32_t retained_status;

static bool power_on_reset(void) {
	esp_reset_reason_t r = esp_reset_reason();
	return r == ESP_RST_POWERON || r == ESP_RST_BROWNOUT;
}

static int32_t retained_status_get(void) { return retained_status; }
static void retained_status_set(int32_t v) { retained_status = v; }
*/
import "C"

// DefaultDriver is the sleep subsystem of the chip the program runs on.
var DefaultDriver Driver = espDriver{}

// DefaultMemory is the RTC slow memory of the chip.
var DefaultMemory Memory = rtcMemory{}

type espDriver struct{}

func (espDriver) EnableTimerWakeup(us uint64) error {
	return makeError(int32(C.esp_sleep_enable_timer_wakeup(C.uint64_t(us))))
}

func (espDriver) EnableExt0Wakeup(pin int32, level int32) error {
	return makeError(int32(C.esp_sleep_enable_ext0_wakeup(C.gpio_num_t(pin), C.int(level))))
}

func (espDriver) EnableExt1Wakeup(mask uint64, mode int32) error {
	return makeError(int32(C.esp_sleep_enable_ext1_wakeup(C.uint64_t(mask), C.esp_sleep_ext1_wakeup_mode_t(mode))))
}

func (espDriver) PowerDomainConfig(domain int32, option int32) error {
	errCode := C.esp_sleep_pd_config(C.esp_sleep_pd_domain_t(domain), C.esp_sleep_pd_option_t(option))
	return makeError(int32(errCode))
}

func (espDriver) WakeupCause() int32 {
	return int32(C.esp_sleep_get_wakeup_cause())
}

// PowerOnReset is true after a power-on or brownout reset. RTC memory does
// not survive a brownout reliably.
func (espDriver) PowerOnReset() bool {
	return bool(C.power_on_reset())
}

func (espDriver) Ext1WakeupStatus() uint64 {
	return uint64(C.esp_sleep_get_ext1_wakeup_status())
}

func (espDriver) LightSleepStart() error {
	return makeError(int32(C.esp_light_sleep_start()))
}

func (espDriver) DeepSleepStart() {
	C.esp_deep_sleep_start()
}

type rtcMemory struct{}

func (rtcMemory) Load() (int32, error) {
	return int32(C.retained_status_get()), nil
}

func (rtcMemory) Store(v int32) error {
	C.retained_status_set(C.int32_t(v))
	return nil
}
