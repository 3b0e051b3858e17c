package sysfs

import (
	"bytes"
	"strings"
)

var edidHeader = []byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}

const (
	edidBlockLen      = 128
	descriptorLen     = 18
	firstDescriptor   = 54
	descriptorCount   = 4
	tagMonitorName    = 0xFC
	descriptorTextOff = 5
)

// MonitorName returns the monitor name descriptor of an EDID base block,
// or "" if there is none.
func MonitorName(edid []byte) string {
	if len(edid) < edidBlockLen || !bytes.Equal(edid[:len(edidHeader)], edidHeader) {
		return ""
	}

	for i := 0; i < descriptorCount; i++ {
		d := edid[firstDescriptor+i*descriptorLen : firstDescriptor+(i+1)*descriptorLen]
		// Display descriptors start with a zero pixel clock.
		if d[0] != 0 || d[1] != 0 || d[3] != tagMonitorName {
			continue
		}
		text := d[descriptorTextOff:]
		if j := bytes.IndexByte(text, 0x0A); j >= 0 {
			text = text[:j]
		}
		return strings.TrimSpace(string(text))
	}
	return ""
}
