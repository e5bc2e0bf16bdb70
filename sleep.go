// Package sleep exposes the deep sleep, light sleep and wakeup source APIs of
// a microcontroller to Go programs and to the native call table of an
// embedded script host.
//
// On the ESP32 it forwards into the esp_sleep API of ESP-IDF. On Linux it
// drives systemd-logind and the RTC wake alarm, and a Simulator is available
// everywhere for testing.
//
// A single integer, the retained status, survives deep sleep and resets, and
// is set to a default after a loss of power.
package sleep // import "tinygo.org/x/sleep"
