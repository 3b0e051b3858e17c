package app

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/bft-labs/ddcswitch/internal/domain"
	"github.com/bft-labs/ddcswitch/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

type logEntry struct {
	level  string
	msg    string
	fields map[string]interface{}
}

// recordingLogger keeps every entry so tests can assert on fields.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, fields []ports.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: m})
}

func (l *recordingLogger) Debug(msg string, fields ...ports.Field) { l.record("debug", msg, fields) }
func (l *recordingLogger) Info(msg string, fields ...ports.Field)  { l.record("info", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields ...ports.Field)  { l.record("warn", msg, fields) }
func (l *recordingLogger) Error(msg string, fields ...ports.Field) { l.record("error", msg, fields) }

// find returns the first entry logged with msg.
func (l *recordingLogger) find(msg string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

// fakeClock advances virtual time on Sleep and records every wait.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration{}, c.sleeps...)
}

// fakeBus replays a scripted error per transmission on each bus path.
// Once a script is exhausted every transmission succeeds.
type fakeBus struct {
	mu       sync.Mutex
	scripts  map[string][]error
	openErrs map[string]error
	sent     map[string][][]byte
	opens    int

	// onTransmit runs after each transmission is recorded.
	onTransmit func(path string)
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		scripts:  make(map[string][]error),
		openErrs: make(map[string]error),
		sent:     make(map[string][][]byte),
	}
}

func (b *fakeBus) Script(path string, errs ...error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scripts[path] = errs
}

func (b *fakeBus) Open(handle domain.BusHandle) (ports.BusConn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opens++
	if err := b.openErrs[handle.Path]; err != nil {
		return nil, err
	}
	return &fakeConn{bus: b, path: handle.Path}, nil
}

func (b *fakeBus) Transmissions(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sent[path])
}

func (b *fakeBus) TotalTransmissions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, s := range b.sent {
		n += len(s)
	}
	return n
}

type fakeConn struct {
	bus  *fakeBus
	path string
}

func (c *fakeConn) Transmit(payload []byte) error {
	err := c.next(payload)
	if c.bus.onTransmit != nil {
		c.bus.onTransmit(c.path)
	}
	return err
}

func (c *fakeConn) next(payload []byte) error {
	c.bus.mu.Lock()
	defer c.bus.mu.Unlock()
	c.bus.sent[c.path] = append(c.bus.sent[c.path], append([]byte{}, payload...))

	script := c.bus.scripts[c.path]
	if len(script) == 0 {
		return nil
	}
	err := script[0]
	c.bus.scripts[c.path] = script[1:]
	return err
}

func (c *fakeConn) Close() error { return nil }

// fakeLocator serves a fixed display list. Removed displays are reported
// by Displays but no longer resolve, as after a hot unplug.
type fakeLocator struct {
	mu       sync.Mutex
	displays []domain.Display
	removed  map[domain.DisplayID]bool
	enumErr  error
	locates  int
}

func newFakeLocator(displays ...domain.Display) *fakeLocator {
	return &fakeLocator{displays: displays, removed: make(map[domain.DisplayID]bool)}
}

func (l *fakeLocator) Remove(id domain.DisplayID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removed[id] = true
}

func (l *fakeLocator) Locates() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locates
}

func (l *fakeLocator) Displays(ctx context.Context) ([]domain.Display, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.enumErr != nil {
		return nil, l.enumErr
	}
	return append([]domain.Display{}, l.displays...), nil
}

func (l *fakeLocator) Locate(ctx context.Context, id domain.DisplayID) (domain.BusHandle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locates++
	if l.removed[id] {
		return domain.BusHandle{}, domain.ErrDisplayNotFound
	}
	for _, d := range l.displays {
		if d.ID != id {
			continue
		}
		if d.Bus == nil {
			return domain.BusHandle{}, domain.ErrNotDDCCapable
		}
		return *d.Bus, nil
	}
	return domain.BusHandle{}, domain.ErrDisplayNotFound
}

// mockEmitter tracks outcome events for testing.
type mockEmitter struct {
	mu        sync.Mutex
	outcomes  []domain.WriteOutcome
	durations map[domain.DisplayID]time.Duration
}

func (m *mockEmitter) OnOutcome(outcome domain.WriteOutcome, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
	if m.durations == nil {
		m.durations = make(map[domain.DisplayID]time.Duration)
	}
	m.durations[outcome.Display] = duration
}

func (m *mockEmitter) Duration(id domain.DisplayID) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.durations[id]
}

func (m *mockEmitter) Outcomes() []domain.WriteOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.WriteOutcome{}, m.outcomes...)
}

// transmitTimes records the clock reading of each transmission per bus.
type transmitTimes struct {
	mu    sync.Mutex
	clock ports.Clock
	times map[string][]time.Time
}

func newTransmitTimes(clock ports.Clock) *transmitTimes {
	return &transmitTimes{clock: clock, times: make(map[string][]time.Time)}
}

func (r *transmitTimes) record(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.times[path] = append(r.times[path], r.clock.Now())
}

// minGap returns the smallest interval between consecutive transmissions on
// path and how many transmissions were seen.
func (r *transmitTimes) minGap(path string) (time.Duration, int) {
	r.mu.Lock()
	ts := append([]time.Time{}, r.times[path]...)
	r.mu.Unlock()

	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
	gap := time.Duration(-1)
	for i := 1; i < len(ts); i++ {
		if d := ts[i].Sub(ts[i-1]); gap < 0 || d < gap {
			gap = d
		}
	}
	return gap, len(ts)
}

func ddcDisplay(id string, bus int) domain.Display {
	return domain.Display{
		ID:    domain.DisplayID(id),
		Label: "Monitor " + id,
		Bus:   &domain.BusHandle{Path: busPath(bus), Number: bus},
	}
}

func plainDisplay(id string) domain.Display {
	return domain.Display{ID: domain.DisplayID(id), Label: "Panel " + id}
}

func busPath(n int) string {
	return "/dev/i2c-" + strconv.Itoa(n)
}
