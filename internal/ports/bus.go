package ports

import (
	"errors"

	"github.com/bft-labs/ddcswitch/internal/domain"
)

// Transport errors reported by Bus implementations. The writer retries
// ErrNak and ErrTimeout; ErrBusUnavailable is final.
var (
	// ErrNak indicates the slave did not acknowledge the transfer.
	ErrNak = errors.New("bus: no acknowledgement")

	// ErrTimeout indicates the transfer did not complete in time.
	ErrTimeout = errors.New("bus: timeout")

	// ErrBusUnavailable indicates the handle is malformed or the bus went away.
	ErrBusUnavailable = errors.New("bus: unavailable")
)

// Bus opens DDC/CI connections on display control buses.
type Bus interface {
	// Open connects to the DDC/CI slave on the bus named by handle.
	Open(handle domain.BusHandle) (BusConn, error)
}

// BusConn is an open connection to one display's DDC/CI slave.
type BusConn interface {
	// Transmit writes one frame payload as a single bus transaction.
	Transmit(payload []byte) error

	// Close releases the connection.
	Close() error
}
