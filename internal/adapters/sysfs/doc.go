// Package sysfs implements ports.DisplayLocator on Linux DRM sysfs.
//
// Displays are the connectors under /sys/class/drm (card0-DP-1,
// card0-HDMI-A-1, ...) whose status is "connected". A connector's DDC bus
// is its "ddc" link or, for DisplayPort, the AUX channel's i2c-N child.
// Built-in panels (eDP, LVDS, DSI) are reported without a bus.
//
// The locator keeps no cache: every call re-reads sysfs, so a display
// unplugged after enumeration is reported as not found at dispatch time.
package sysfs
