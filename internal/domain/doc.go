// Package domain contains the core entities and value objects for ddcswitch.
//
// This package is the innermost layer. It has no dependencies on
// infrastructure concerns (I2C devices, sysfs, logging) and contains only the
// DDC/CI protocol rules.
//
// # Entities
//
//   - [Command]: a VCP Set request (control code + value)
//   - [Frame]: the DDC/CI wire frame produced by [Encode]
//   - [Display]: a monitor known to the host, with an optional [BusHandle]
//   - [WriteOutcome]: the per-display result of a dispatch
//
// # Design Principles
//
// Domain values are:
//   - Immutable after construction
//   - Free of infrastructure dependencies
//   - Testable without mocks or hardware
package domain
