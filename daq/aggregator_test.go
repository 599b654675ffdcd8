package daq

import (
	"bytes"
	"errors"
	"testing"
)

// fakeChannel records the call order so the conversion pipelining can be
// asserted, and serves a fixed reading.
type fakeChannel struct {
	reading  Reading
	ready    bool
	readyErr error
	log      *[]string
	name     string
	resets   int
	resetErr error
}

var _ Channel = (*fakeChannel)(nil)

func (f *fakeChannel) TriggerNext() error {
	if f.log != nil {
		*f.log = append(*f.log, "trigger:"+f.name)
	}
	return nil
}

func (f *fakeChannel) ConversionReady() (bool, error) { return f.ready, f.readyErr }

func (f *fakeChannel) ReadLast(out *Reading) error {
	if f.log != nil {
		*f.log = append(*f.log, "read:"+f.name)
	}
	*out = f.reading
	return nil
}

func (f *fakeChannel) ResetAccumulators() error {
	f.resets++
	return f.resetErr
}

func TestNewAggregatorRequiresChannels(t *testing.T) {
	if _, err := NewAggregator(); err == nil {
		t.Fatal("NewAggregator() accepted zero channels")
	}
}

func TestAggregatorSingleChannelFrame(t *testing.T) {
	ch := &fakeChannel{reading: Reading{
		CurrentMilliAmps: 55.25,
		BusMilliVolts:    2600.5,
		ShuntMilliVolts:  0.8125,
		EnergyJoules:     1.5,
	}}
	agg, err := NewAggregator(ch)
	if err != nil {
		t.Fatal(err)
	}

	frame, err := agg.Sample(Timestamp{Millis: 1234, Micros: 567})
	if err != nil {
		t.Fatal(err)
	}
	want := "1234\t567\t55.25\t2600.50\t0.8125\t1.50000\n"
	if string(frame) != want {
		t.Errorf("frame = %q, want %q", frame, want)
	}
}

func TestAggregatorMultiChannelFrameDropsShunt(t *testing.T) {
	ch1 := &fakeChannel{reading: Reading{
		CurrentMilliAmps: 10.5, BusMilliVolts: 2500.25,
		ShuntMilliVolts: 0.5, EnergyJoules: 0.25,
	}}
	ch2 := &fakeChannel{reading: Reading{
		CurrentMilliAmps: -3.25, BusMilliVolts: 1800.75,
		ShuntMilliVolts: 0.75, EnergyJoules: 2.5,
	}}
	agg, err := NewAggregator(ch1, ch2)
	if err != nil {
		t.Fatal(err)
	}

	frame, err := agg.Sample(Timestamp{Millis: 50, Micros: 3})
	if err != nil {
		t.Fatal(err)
	}
	want := "50\t3\t10.50\t2500.25\t0.25000\t-3.25\t1800.75\t2.50000\n"
	if string(frame) != want {
		t.Errorf("frame = %q, want %q", frame, want)
	}
	if n := bytes.Count(frame, []byte{'\t'}); n != 7 {
		t.Errorf("frame has %d tabs, want 7 (2+3N fields)", n)
	}
}

func TestAggregatorTriggersBeforeReading(t *testing.T) {
	var log []string
	ch1 := &fakeChannel{name: "1", log: &log}
	ch2 := &fakeChannel{name: "2", log: &log}
	agg, err := NewAggregator(ch1, ch2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := agg.Sample(Timestamp{}); err != nil {
		t.Fatal(err)
	}

	want := []string{"trigger:1", "trigger:2", "read:1", "read:2"}
	if len(log) != len(want) {
		t.Fatalf("call log %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("call log %v, want %v", log, want)
		}
	}
}

func TestAggregatorReadyGatesOnPrimaryChannel(t *testing.T) {
	ch1 := &fakeChannel{ready: false}
	ch2 := &fakeChannel{ready: true}
	agg, err := NewAggregator(ch1, ch2)
	if err != nil {
		t.Fatal(err)
	}

	ready, err := agg.Ready()
	if err != nil {
		t.Fatal(err)
	}
	if ready {
		t.Error("Ready() = true while the primary channel is still converting")
	}

	ch1.ready = true
	ch2.ready = false // secondary channels are never consulted
	ready, err = agg.Ready()
	if err != nil {
		t.Fatal(err)
	}
	if !ready {
		t.Error("Ready() = false with the primary channel done")
	}
}

func TestAggregatorResetAllResetsEveryChannel(t *testing.T) {
	errBus := errors.New("bus stuck")
	ch1 := &fakeChannel{resetErr: errBus}
	ch2 := &fakeChannel{}
	agg, err := NewAggregator(ch1, ch2)
	if err != nil {
		t.Fatal(err)
	}

	if err := agg.ResetAll(); !errors.Is(err, errBus) {
		t.Errorf("ResetAll error = %v, want %v", err, errBus)
	}
	if ch1.resets != 1 || ch2.resets != 1 {
		t.Errorf("resets = %d,%d, want 1,1 (failure must not skip channels)",
			ch1.resets, ch2.resets)
	}
}

func TestAggregatorBufferReuse(t *testing.T) {
	ch := &fakeChannel{reading: Reading{
		CurrentMilliAmps: 1, BusMilliVolts: 2, ShuntMilliVolts: 3, EnergyJoules: 4,
	}}
	agg, err := NewAggregator(ch)
	if err != nil {
		t.Fatal(err)
	}

	f1, err := agg.Sample(Timestamp{Millis: 1, Micros: 1})
	if err != nil {
		t.Fatal(err)
	}
	c1 := cap(f1)
	for i := 0; i < 100; i++ {
		if _, err := agg.Sample(Timestamp{Millis: uint32(i), Micros: 999}); err != nil {
			t.Fatal(err)
		}
	}
	f2, err := agg.Sample(Timestamp{Millis: 4_000_000_000, Micros: 999})
	if err != nil {
		t.Fatal(err)
	}
	if cap(f2) != c1 {
		t.Errorf("buffer grew from %d to %d; sizing must cover the worst case", c1, cap(f2))
	}
}
