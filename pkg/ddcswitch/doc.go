// Package ddcswitch switches monitor inputs over DDC/CI.
//
// A [Switcher] enumerates attached displays, encodes a VCP Set command and
// writes it to each display's control bus with the pacing and retry rules
// DDC/CI requires. It can be used from the ddcswitch CLI or embedded in
// another program, such as a tray or menu application.
//
// # Basic Usage
//
//	sw, err := ddcswitch.New(ddcswitch.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Select DisplayPort 1 on every display.
//	res, err := sw.SwitchAll(ctx, ddcswitch.VCPInputSource, 0x0F)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, o := range res.Failed() {
//	    log.Printf("%s: %v", o.Display, o.Err)
//	}
//
// # Outcomes
//
// Per-display problems never fail the call. Each display gets a [WriteOutcome]
// in the returned [Result]: success, skipped (no DDC/CI channel), display not
// found (unplugged since enumeration), transport failure or canceled. Only an
// out-of-range command ([ErrInvalidCommand]) or a bad index passed to
// [Switcher.SwitchOne] ([ErrIndexOutOfRange]) return an error, and both are
// detected before any bus traffic.
//
// # Event Handling
//
// Implement [EventHandler] and pass it via [WithEventHandler] to be notified
// as each display completes. Handlers are called from the dispatch
// goroutines and should return quickly.
//
// # Dependency Injection
//
// For testing, or for platforms other than Linux, the display locator, bus
// transport, clock and logger can be replaced:
//
//	sw, err := ddcswitch.New(cfg,
//	    ddcswitch.WithLocator(myLocator),
//	    ddcswitch.WithBus(myBus),
//	    ddcswitch.WithLogger(myLogger),
//	)
package ddcswitch
