package domain

import "fmt"

// DisplayID is an opaque identifier assigned by the host display subsystem.
// It is only stable within a session.
type DisplayID string

// BusHandle identifies the control bus of a display's embedded controller.
type BusHandle struct {
	// Path is the device node, e.g. /dev/i2c-5. Pacing is keyed on it.
	Path string

	// Number is the bus number parsed from the device name, or -1.
	Number int
}

func (h BusHandle) String() string {
	return h.Path
}

// Display is one monitor reported by the host.
type Display struct {
	ID    DisplayID
	Label string

	// Bus is nil when the display cannot carry DDC/CI traffic.
	Bus *BusHandle
}

// DDCCapable reports whether the display has a control bus.
func (d Display) DDCCapable() bool {
	return d.Bus != nil
}

func (d Display) String() string {
	if d.Label == "" {
		return string(d.ID)
	}
	return fmt.Sprintf("%s (%s)", d.Label, d.ID)
}
