package domain

import "fmt"

// VCP feature codes used by the CLI. The encoder itself accepts any 8-bit code.
const (
	// VCPInputSource selects the active video input (MCCS 0x60).
	VCPInputSource = 0x60

	// VCPPowerMode sets the display power state (MCCS 0xD6).
	VCPPowerMode = 0xD6
)

// Command is a VCP Set request. Use NewCommand to build a validated one.
type Command struct {
	// ControlCode is the VCP feature identifier.
	ControlCode int

	// NewValue is the value the feature is set to.
	NewValue int
}

// NewCommand returns a Command after checking both fields fit in 8 bits.
func NewCommand(controlCode, newValue int) (Command, error) {
	c := Command{ControlCode: controlCode, NewValue: newValue}
	if err := c.Validate(); err != nil {
		return Command{}, err
	}
	return c, nil
}

// Validate rejects a control code or value outside 0..255. It never clamps.
func (c Command) Validate() error {
	if c.ControlCode < 0 || c.ControlCode > 0xFF {
		return &OpError{
			Op:   "validate",
			Kind: KindInvalidCommand,
			Err:  fmt.Errorf("%w: control code %d out of range 0..255", ErrInvalidCommand, c.ControlCode),
		}
	}
	if c.NewValue < 0 || c.NewValue > 0xFF {
		return &OpError{
			Op:   "validate",
			Kind: KindInvalidCommand,
			Err:  fmt.Errorf("%w: value %d out of range 0..255", ErrInvalidCommand, c.NewValue),
		}
	}
	return nil
}

func (c Command) String() string {
	return fmt.Sprintf("VCP 0x%02X=0x%02X", c.ControlCode, c.NewValue)
}
