package sysfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bft-labs/ddcswitch/internal/ports"
)

type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// connector describes one fake DRM connector directory.
type connector struct {
	name   string
	status string
	edid   []byte
	ddc    string // adapter name for the ddc symlink
	aux    string // adapter name for a DP AUX child directory
}

// fakeSysfs builds a DRM sysfs tree and returns its root and device dir.
func fakeSysfs(t *testing.T, connectors ...connector) (string, string) {
	t.Helper()
	base := t.TempDir()
	root := filepath.Join(base, "drm")
	dev := filepath.Join(base, "dev")
	adapters := filepath.Join(base, "i2c-adapters")

	for _, dir := range []string{root, dev, adapters, filepath.Join(root, "card0")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "version"), []byte("drm 1.1.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, c := range connectors {
		dir := filepath.Join(root, c.name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		writeFile(t, filepath.Join(dir, "status"), []byte(c.status+"\n"))
		if c.edid != nil {
			writeFile(t, filepath.Join(dir, "edid"), c.edid)
		}
		if c.ddc != "" {
			target := filepath.Join(adapters, c.ddc)
			if err := os.MkdirAll(target, 0o755); err != nil {
				t.Fatal(err)
			}
			if err := os.Symlink(target, filepath.Join(dir, "ddc")); err != nil {
				t.Fatal(err)
			}
		}
		if c.aux != "" {
			if err := os.MkdirAll(filepath.Join(dir, c.aux), 0o755); err != nil {
				t.Fatal(err)
			}
		}
	}
	return root, dev
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// testEDID builds a minimal EDID base block carrying a monitor name descriptor.
func testEDID(name string) []byte {
	b := make([]byte, edidBlockLen)
	copy(b, edidHeader)

	// First descriptor: detailed timing (non-zero pixel clock).
	b[firstDescriptor] = 0x01
	b[firstDescriptor+1] = 0x1D

	d := b[firstDescriptor+descriptorLen : firstDescriptor+2*descriptorLen]
	d[3] = tagMonitorName
	text := d[descriptorTextOff:]
	for i := range text {
		text[i] = ' '
	}
	n := copy(text, name)
	if n < len(text) {
		text[n] = 0x0A
	}
	return b
}
