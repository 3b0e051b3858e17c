// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// Ports are the boundaries between the protocol engine and the outside
// world: the host's display subsystem, the I2C bus, the clock and the log.
//
// # Port Interfaces
//
//   - [DisplayLocator]: Enumerates displays and resolves them to bus handles
//   - [Bus]: Opens a connection to a display's DDC/CI slave
//   - [FrameWriter]: Transmits an encoded frame with pacing and retries
//   - [Clock]: Time source and interruptible sleep for bus pacing
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them against sysfs,
// /dev/i2c-N and zerolog. Tests substitute fakes without touching hardware.
package ports
