// Package i2c implements ports.Bus on Linux I2C character devices
// (/dev/i2c-N, provided by the i2c-dev kernel module).
//
// Each connection addresses the DDC/CI slave (0x37) on the bus and writes a
// frame payload as one I2C transaction. Kernel errnos are mapped onto the
// transport errors in package ports so the writer can decide whether to retry.
package i2c
