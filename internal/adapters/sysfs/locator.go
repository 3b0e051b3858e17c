package sysfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bft-labs/ddcswitch/internal/domain"
)

// Default locations on a Linux host.
const (
	DefaultRoot   = "/sys/class/drm"
	DefaultDevDir = "/dev"
)

var (
	connectorRe = regexp.MustCompile(`^card\d+-(.+)$`)
	i2cNameRe   = regexp.MustCompile(`^i2c-(\d+)$`)
)

// internalPanels are connector types driving built-in panels that do not
// expose DDC/CI.
var internalPanels = []string{"eDP-", "LVDS-", "DSI-"}

// Locator implements ports.DisplayLocator over a DRM sysfs tree.
type Locator struct {
	root   string
	devDir string
}

// NewLocator returns a locator reading connectors under root and resolving
// I2C bus nodes under devDir. Empty arguments select the defaults.
func NewLocator(root, devDir string) *Locator {
	if root == "" {
		root = DefaultRoot
	}
	if devDir == "" {
		devDir = DefaultDevDir
	}
	return &Locator{root: root, devDir: devDir}
}

// DevDir returns the directory holding i2c-N device nodes.
func (l *Locator) DevDir() string {
	return l.devDir
}

// Displays returns connected displays in connector name order.
func (l *Locator) Displays(ctx context.Context) ([]domain.Display, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", l.root, err)
	}

	var out []domain.Display
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !connectorRe.MatchString(e.Name()) {
			continue
		}
		if d, ok := l.readConnector(e.Name()); ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// Locate re-reads the connector named by id.
func (l *Locator) Locate(ctx context.Context, id domain.DisplayID) (domain.BusHandle, error) {
	name := string(id)
	if strings.ContainsRune(name, filepath.Separator) || !connectorRe.MatchString(name) {
		return domain.BusHandle{}, fmt.Errorf("%w: %q is not a connector", domain.ErrDisplayNotFound, name)
	}

	d, ok := l.readConnector(name)
	if !ok {
		return domain.BusHandle{}, fmt.Errorf("%w: %s is not connected", domain.ErrDisplayNotFound, name)
	}
	if d.Bus == nil {
		return domain.BusHandle{}, fmt.Errorf("%w: %s has no DDC bus", domain.ErrNotDDCCapable, name)
	}
	return *d.Bus, nil
}

func (l *Locator) readConnector(name string) (domain.Display, bool) {
	dir := filepath.Join(l.root, name)

	status, err := os.ReadFile(filepath.Join(dir, "status"))
	if err != nil || strings.TrimSpace(string(status)) != "connected" {
		return domain.Display{}, false
	}

	d := domain.Display{ID: domain.DisplayID(name)}
	if edid, err := os.ReadFile(filepath.Join(dir, "edid")); err == nil {
		d.Label = MonitorName(edid)
	}
	if d.Label == "" {
		d.Label = connectorRe.FindStringSubmatch(name)[1]
	}
	if h, ok := l.busFor(dir, name); ok {
		d.Bus = &h
	}
	return d, true
}

// busFor finds the DDC bus of a connector.
func (l *Locator) busFor(dir, name string) (domain.BusHandle, bool) {
	kind := connectorRe.FindStringSubmatch(name)[1]
	for _, p := range internalPanels {
		if strings.HasPrefix(kind, p) {
			return domain.BusHandle{}, false
		}
	}

	if target, err := os.Readlink(filepath.Join(dir, "ddc")); err == nil {
		if h, ok := l.handle(filepath.Base(target)); ok {
			return h, true
		}
	}

	// DisplayPort exposes DDC through the AUX channel adapter.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return domain.BusHandle{}, false
	}
	for _, e := range entries {
		if h, ok := l.handle(e.Name()); ok {
			return h, true
		}
	}
	return domain.BusHandle{}, false
}

func (l *Locator) handle(adapter string) (domain.BusHandle, bool) {
	m := i2cNameRe.FindStringSubmatch(adapter)
	if m == nil {
		return domain.BusHandle{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return domain.BusHandle{}, false
	}
	return domain.BusHandle{Path: filepath.Join(l.devDir, adapter), Number: n}, true
}
