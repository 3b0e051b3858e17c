package domain

import "fmt"

// DDC/CI framing constants (VESA DDC/CI 1.1).
const (
	// DestAddress is the display's DDC/CI address, already shifted for write.
	DestAddress byte = 0x6E

	// SourceAddress is the host address.
	SourceAddress byte = 0x51

	// SlaveAddress is DestAddress as a 7-bit I2C address.
	SlaveAddress = int(DestAddress >> 1)

	// OpcodeVCPSet is the VCP Feature Set command.
	OpcodeVCPSet byte = 0x03

	lengthMarker byte = 0x80

	// opcode, control code, value high, value low
	setPayloadLen = 4
)

// FrameSize is the number of bytes in a VCP Set frame including the destination address.
const FrameSize = 8

// Frame is a VCP Set frame as it appears on the bus:
//
//	[dest, source, 0x80|n, opcode, control, value-hi, value-lo, checksum]
//
// The checksum is the XOR of every preceding byte, so the XOR of the
// whole frame is zero.
type Frame [FrameSize]byte

// Encode builds the wire frame for cmd. Out-of-range input is rejected.
func Encode(cmd Command) (Frame, error) {
	if err := cmd.Validate(); err != nil {
		return Frame{}, err
	}

	value := uint16(cmd.NewValue)
	f := Frame{
		DestAddress,
		SourceAddress,
		lengthMarker | setPayloadLen,
		OpcodeVCPSet,
		byte(cmd.ControlCode),
		byte(value >> 8),
		byte(value),
	}
	f[FrameSize-1] = checksum(f[:FrameSize-1])

	// Round-trip self-check.
	got, err := Decode(f)
	if err != nil {
		return Frame{}, fmt.Errorf("encode self-check: %w", err)
	}
	if got != cmd {
		return Frame{}, fmt.Errorf("encode self-check: %w: decoded %s, want %s", ErrMalformedFrame, got, cmd)
	}
	return f, nil
}

// Decode validates f and recovers the command it carries.
func Decode(f Frame) (Command, error) {
	switch {
	case f[0] != DestAddress:
		return Command{}, fmt.Errorf("%w: destination 0x%02X", ErrMalformedFrame, f[0])
	case f[1] != SourceAddress:
		return Command{}, fmt.Errorf("%w: source 0x%02X", ErrMalformedFrame, f[1])
	case f[2] != lengthMarker|setPayloadLen:
		return Command{}, fmt.Errorf("%w: length byte 0x%02X", ErrMalformedFrame, f[2])
	case f[3] != OpcodeVCPSet:
		return Command{}, fmt.Errorf("%w: opcode 0x%02X", ErrMalformedFrame, f[3])
	case checksum(f[:]) != 0:
		return Command{}, fmt.Errorf("%w: checksum 0x%02X", ErrMalformedFrame, f[FrameSize-1])
	}

	value := int(f[5])<<8 | int(f[6])
	cmd := Command{ControlCode: int(f[4]), NewValue: value}
	if err := cmd.Validate(); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return cmd, nil
}

// Payload returns the bytes written to the I2C slave. The destination
// address is carried by the I2C address phase, not the data.
func (f Frame) Payload() []byte {
	p := make([]byte, FrameSize-1)
	copy(p, f[1:])
	return p
}

func (f Frame) String() string {
	return fmt.Sprintf("% X", f[:])
}

func checksum(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum ^= v
	}
	return sum
}
