//go:build linux

package i2c

import (
	"errors"
	"fmt"
	"io"
	"os"

	devi2c "golang.org/x/exp/io/i2c"
	"golang.org/x/sys/unix"

	"github.com/bft-labs/ddcswitch/internal/domain"
	"github.com/bft-labs/ddcswitch/internal/ports"
)

// device is the subset of *devi2c.Device used by the bus.
type device interface {
	Write(buf []byte) error
	Close() error
}

// Bus opens DDC/CI connections through the i2c-dev interface.
type Bus struct {
	open func(path string, addr int) (device, error)
}

// NewBus returns a Bus backed by /dev/i2c-N devices.
func NewBus() *Bus {
	return &Bus{open: openDevfs}
}

func openDevfs(path string, addr int) (device, error) {
	d, err := devi2c.Open(&devi2c.Devfs{Dev: path}, addr)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Open connects to the DDC/CI slave on handle's bus. A missing or
// unopenable device node is reported as ports.ErrBusUnavailable.
func (b *Bus) Open(handle domain.BusHandle) (ports.BusConn, error) {
	if _, err := os.Stat(handle.Path); err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrBusUnavailable, err)
	}

	dev, err := b.open(handle.Path, domain.SlaveAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ports.ErrBusUnavailable, handle.Path, err)
	}
	return &conn{dev: dev, path: handle.Path}, nil
}

type conn struct {
	dev  device
	path string
}

// Transmit writes payload in a single I2C write transaction.
func (c *conn) Transmit(payload []byte) error {
	if err := c.dev.Write(payload); err != nil {
		return classify(c.path, err)
	}
	return nil
}

func (c *conn) Close() error {
	return c.dev.Close()
}

// classify maps a kernel error to a ports transport error.
func classify(path string, err error) error {
	switch {
	case errors.Is(err, unix.ENXIO),
		errors.Is(err, unix.EREMOTEIO),
		errors.Is(err, unix.EIO),
		errors.Is(err, io.ErrShortWrite):
		return fmt.Errorf("%w: %s: %w", ports.ErrNak, path, err)
	case errors.Is(err, unix.ETIMEDOUT),
		errors.Is(err, unix.EAGAIN),
		errors.Is(err, unix.EBUSY):
		return fmt.Errorf("%w: %s: %w", ports.ErrTimeout, path, err)
	default:
		// ENODEV, ENOENT, EBADF and anything unexpected: the handle is unusable.
		return fmt.Errorf("%w: %s: %w", ports.ErrBusUnavailable, path, err)
	}
}
