package daq

import (
	"time"

	"github.com/chewxy/math32"
)

// Simulated collaborators: a wall-clock TickSource and a wind-turbine-like
// power channel. They back the host build of the firmware entrypoint and
// the scheduler tests, so the whole control loop runs without hardware.

// WallTicks adapts the Go wall clock to the TickSource shape. The pending
// flag never fires — there is no interrupt to race against — but the
// down-counter geometry matches a 120 MHz SysTick so the fractional
// microsecond math is exercised for real.
type WallTicks struct {
	start  time.Time
	reload uint32
}

func NewWallTicks() *WallTicks {
	return &WallTicks{start: time.Now(), reload: 119_999}
}

func (w *WallTicks) Ticks() uint32 {
	us := uint32(time.Since(w.start).Microseconds() % 1000)
	return w.reload - us*(w.reload+1)/1000
}

func (w *WallTicks) Reload() uint32        { return w.reload }
func (w *WallTicks) RolloverPending() bool { return false }

func (w *WallTicks) Millis() uint32 {
	return uint32(time.Since(w.start).Milliseconds())
}

// SimTicks is a hand-driven TickSource for tests: the fields are set
// directly or advanced with Advance/Service, emulating the hardware
// counter, its latched wrap flag and the (possibly delayed) interrupt.
type SimTicks struct {
	TickReload uint32
	Tick       uint32
	Ms         uint32
	Pending    bool
}

func NewSimTicks(reload uint32) *SimTicks {
	return &SimTicks{TickReload: reload, Tick: reload}
}

func (s *SimTicks) Ticks() uint32         { return s.Tick }
func (s *SimTicks) Reload() uint32        { return s.TickReload }
func (s *SimTicks) RolloverPending() bool { return s.Pending }
func (s *SimTicks) Millis() uint32        { return s.Ms }

// Advance moves the down-counter by n ticks. A wrap latches the pending
// flag; the "interrupt" runs only when Service is called, so tests control
// how long the inconsistency window stays open.
func (s *SimTicks) Advance(n uint32) {
	for n > 0 {
		step := n
		if step > s.Tick {
			step = s.Tick
		}
		if step == 0 { // at zero: reload and latch the wrap
			s.Tick = s.TickReload
			s.Pending = true
			n--
			continue
		}
		s.Tick -= step
		n -= step
	}
}

// Service emulates the tick interrupt: consume the pending flag and
// increment the millisecond counter.
func (s *SimTicks) Service() {
	if s.Pending {
		s.Pending = false
		s.Ms++
	}
}

// AdvanceMillis advances whole milliseconds with the interrupt serviced
// promptly, for tests that only care about coarse time.
func (s *SimTicks) AdvanceMillis(ms uint32) {
	for i := uint32(0); i < ms; i++ {
		s.Advance(s.TickReload + 1)
		s.Service()
	}
}

// SimChannel models a toy wind turbine feeding a shunt-monitored load: the
// bus voltage follows a slow sinusoidal gust profile, the current is the
// bus voltage across a fixed load, and energy integrates continuously like
// the sensor's hardware accumulator.
type SimChannel struct {
	nowMillis func() uint32

	convMillis  uint32
	triggeredAt uint32
	lastIntgr   uint32
	energyJ     float32
}

const (
	simGustPeriodMillis = 8000
	simLoadOhms         = 47.0
	simShuntOhms        = 0.015
)

// NewSimChannel starts with a conversion already in flight, like the real
// sensor after bring-up.
func NewSimChannel(nowMillis func() uint32, convMillis uint32) *SimChannel {
	if convMillis == 0 {
		convMillis = 1
	}
	now := nowMillis()
	return &SimChannel{
		nowMillis:   nowMillis,
		convMillis:  convMillis,
		triggeredAt: now,
		lastIntgr:   now,
	}
}

func (c *SimChannel) TriggerNext() error {
	c.triggeredAt = c.nowMillis()
	return nil
}

func (c *SimChannel) ConversionReady() (bool, error) {
	return c.nowMillis()-c.triggeredAt >= c.convMillis, nil
}

func (c *SimChannel) ReadLast(out *Reading) error {
	now := c.nowMillis()

	phase := 2 * math32.Pi * float32(now%simGustPeriodMillis) / simGustPeriodMillis
	busMV := 2600 + 900*math32.Sin(phase)
	currentMA := busMV / simLoadOhms
	shuntMV := currentMA * simShuntOhms

	powerW := (currentMA / 1000) * (busMV / 1000)
	c.energyJ += powerW * float32(now-c.lastIntgr) / 1000
	c.lastIntgr = now

	out.CurrentMilliAmps = currentMA
	out.BusMilliVolts = busMV
	out.ShuntMilliVolts = shuntMV
	out.EnergyJoules = c.energyJ
	return nil
}

func (c *SimChannel) ResetAccumulators() error {
	c.energyJ = 0
	c.lastIntgr = c.nowMillis()
	return nil
}
