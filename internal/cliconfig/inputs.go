package cliconfig

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultInputs returns the MCCS input source (VCP 0x60) values by name.
func DefaultInputs() map[string]int {
	return map[string]int{
		"vga1":       0x01,
		"vga2":       0x02,
		"dvi1":       0x03,
		"dvi2":       0x04,
		"composite1": 0x05,
		"composite2": 0x06,
		"svideo1":    0x07,
		"svideo2":    0x08,
		"component1": 0x0C,
		"component2": 0x0D,
		"dp1":        0x0F,
		"dp2":        0x10,
		"hdmi1":      0x11,
		"hdmi2":      0x12,
		"usbc":       0x1B,
	}
}

// ResolveInput looks up an input name, ignoring case.
func ResolveInput(inputs map[string]int, name string) (int, error) {
	if v, ok := inputs[strings.ToLower(strings.TrimSpace(name))]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("unknown input %q (known: %s)", name, strings.Join(InputNames(inputs), ", "))
}

// InputNames returns the input names in sorted order.
func InputNames(inputs map[string]int) []string {
	names := make([]string, 0, len(inputs))
	for n := range inputs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// mergeInputs copies extra over dst with lowercased names.
func mergeInputs(dst map[string]int, extra map[string]int) map[string]int {
	if dst == nil {
		dst = make(map[string]int, len(extra))
	}
	for n, v := range extra {
		dst[strings.ToLower(strings.TrimSpace(n))] = v
	}
	return dst
}
