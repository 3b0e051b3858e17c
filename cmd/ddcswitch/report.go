package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/bft-labs/ddcswitch/pkg/ddcswitch"
)

func printDisplays(out io.Writer, displays []ddcswitch.Display) {
	if len(displays) == 0 {
		fmt.Fprintln(out, "no displays connected")
		return
	}
	for i, d := range displays {
		bus := "-"
		if d.Bus != nil {
			bus = d.Bus.Path
		}
		fmt.Fprintf(out, "%d\t%-20s %-14s %s\n", i, d.ID, bus, d.Label)
	}
}

// report prints one line per display and fails when any display failed.
func report(out io.Writer, res ddcswitch.Result) error {
	for _, id := range sortedIDs(res) {
		o := res[id]
		if o.Err != nil {
			fmt.Fprintf(out, "%-20s %s: %v\n", id, o.Kind, o.Err)
			continue
		}
		fmt.Fprintf(out, "%-20s %s\n", id, o.Kind)
	}
	if len(res.Failed()) > 0 {
		return errDisplaysFailed
	}
	return nil
}

func sortedIDs(res ddcswitch.Result) []ddcswitch.DisplayID {
	ids := make([]ddcswitch.DisplayID, 0, len(res))
	for id := range res {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
