package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bft-labs/ddcswitch/pkg/ddcswitch"
)

func TestReport(t *testing.T) {
	tests := []struct {
		name    string
		res     ddcswitch.Result
		wantErr bool
		want    []string
	}{
		{
			name: "success and skip",
			res: ddcswitch.Result{
				"card0-DP-1":  {Display: "card0-DP-1", Kind: ddcswitch.OutcomeSuccess, Attempts: 1},
				"card0-eDP-1": {Display: "card0-eDP-1", Kind: ddcswitch.OutcomeSkipped, Err: ddcswitch.ErrNotDDCCapable},
			},
			want: []string{"card0-DP-1", "success", "card0-eDP-1", "skipped"},
		},
		{
			name: "transport failure",
			res: ddcswitch.Result{
				"card0-DP-1": {Display: "card0-DP-1", Kind: ddcswitch.OutcomeTransportFailure, Attempts: 3, Err: ddcswitch.ErrNak},
			},
			wantErr: true,
			want:    []string{"transport_failure"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := report(&buf, tt.res)
			if tt.wantErr != errors.Is(err, errDisplaysFailed) {
				t.Errorf("report() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output %q missing %q", buf.String(), w)
				}
			}
		})
	}
}

func TestReport_SortedOutput(t *testing.T) {
	res := ddcswitch.Result{
		"card1-HDMI-A-1": {Kind: ddcswitch.OutcomeSuccess},
		"card0-DP-2":     {Kind: ddcswitch.OutcomeSuccess},
	}
	var buf bytes.Buffer
	if err := report(&buf, res); err != nil {
		t.Fatalf("report() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "card0-DP-2") {
		t.Errorf("lines = %q, want card0-DP-2 first", lines)
	}
}

func TestPrintDisplays(t *testing.T) {
	var buf bytes.Buffer
	printDisplays(&buf, nil)
	if !strings.Contains(buf.String(), "no displays") {
		t.Errorf("empty output = %q", buf.String())
	}

	buf.Reset()
	printDisplays(&buf, []ddcswitch.Display{
		{ID: "card0-DP-1", Label: "DELL U2720Q", Bus: &ddcswitch.BusHandle{Path: "/dev/i2c-5", Number: 5}},
		{ID: "card0-eDP-1", Label: "eDP"},
	})
	out := buf.String()
	for _, w := range []string{"0\tcard0-DP-1", "/dev/i2c-5", "DELL U2720Q", "1\tcard0-eDP-1"} {
		if !strings.Contains(out, w) {
			t.Errorf("output %q missing %q", out, w)
		}
	}
}
