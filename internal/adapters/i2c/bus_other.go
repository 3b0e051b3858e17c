//go:build !linux

package i2c

import (
	"fmt"

	"github.com/bft-labs/ddcswitch/internal/domain"
	"github.com/bft-labs/ddcswitch/internal/ports"
)

// Bus is a placeholder for platforms without i2c-dev.
type Bus struct{}

// NewBus returns a Bus whose Open always fails on this platform.
func NewBus() *Bus {
	return &Bus{}
}

// Open reports the bus as unavailable.
func (b *Bus) Open(handle domain.BusHandle) (ports.BusConn, error) {
	return nil, fmt.Errorf("%w: %s: I2C devices are only available on Linux", ports.ErrBusUnavailable, handle.Path)
}
