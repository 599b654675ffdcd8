// Package daq implements the cooperative acquisition core of the wind
// practicum power logger: a race-free sub-millisecond clock over a
// free-running hardware counter, a polled line-command protocol, the
// multi-channel sensor aggregator with its conversion pipelining, and the
// run/idle scheduler that ties them together in a single loop.
//
// Hardware access is injected as small capability interfaces (TickSource,
// Channel, StatusIndicator) so the whole core runs and tests on a standard
// Go build; board entrypoints supply the real implementations.
package daq

// TickSource exposes the raw counters behind the millisecond clock.
//
// The model is a Cortex-M style SysTick: a down-counter reloads from
// Reload() once per millisecond, and the wrap interrupt increments the
// Millis() counter. RolloverPending reports a wrap that is latched but not
// yet serviced by the interrupt handler. All four reads must be cheap and
// non-blocking; none may mask interrupts.
type TickSource interface {
	Ticks() uint32          // current down-counter value, Reload()..0
	Reload() uint32         // reload value; one period = Reload()+1 ticks = 1 ms
	RolloverPending() bool  // wrap latched, interrupt not yet run
	Millis() uint32         // interrupt-maintained millisecond counter
}

// Timestamp is a monotonic (modulo rollover) instant with sub-millisecond
// resolution. Millis wraps after the full uint32 range (about 49.7 days);
// consumers must treat the wrap as expected, not as an error.
type Timestamp struct {
	Millis uint32
	Micros uint16 // fractional part within the millisecond, 0..999
}

// Sub returns t-start component-wise, borrowing from the millisecond
// difference when the fractional part of t is smaller than start's.
// The subtraction is modulo 2^32, so it stays correct across a millisecond
// counter rollover between start and t.
func (t Timestamp) Sub(start Timestamp) Timestamp {
	ms := t.Millis - start.Millis
	us := int32(t.Micros) - int32(start.Micros)
	if us < 0 {
		ms--
		us += 1000
	}
	return Timestamp{Millis: ms, Micros: uint16(us)}
}

// Clock derives timestamps from a TickSource.
type Clock struct {
	src TickSource
}

func NewClock(src TickSource) *Clock { return &Clock{src: src} }

// Now samples the tick counters and returns a consistent timestamp.
//
// A single pass over (down-counter, pending flag, millisecond counter) can
// observe a torn triple around the wrap: the millisecond counter already
// incremented with the down-counter not yet reloaded, or the reverse. Now
// therefore takes two consecutive sample triples and only accepts them when
// the pending flag and millisecond counter agree and the down-counter did
// not wrap in between (second sample numerically larger than the first).
// Inconsistent pairs are discarded and resampled; the inconsistency window
// is bounded by interrupt latency, so the loop terminates quickly and never
// needs to mask interrupts.
func (c *Clock) Now() Timestamp {
	s := c.src
	for {
		t1 := s.Ticks()
		p1 := s.RolloverPending()
		m1 := s.Millis()

		t2 := s.Ticks()
		p2 := s.RolloverPending()
		m2 := s.Millis()

		if p1 != p2 || m1 != m2 || t2 > t1 {
			continue
		}

		ms := m1
		if p1 {
			// Wrap latched but not serviced: the down-counter already
			// restarted its next period, so account the missing tick here.
			ms++
		}
		reload := s.Reload()
		elapsed := reload - t2
		us := (uint64(elapsed) * 1000) / uint64(reload+1)
		return Timestamp{Millis: ms, Micros: uint16(us)}
	}
}
