package daq

import (
	"errors"

	"github.com/Dennis-van-Gils/project-windfarm-practicum/x/strconvx"
)

// Frame buffer sizing. A record is the two timestamp fields plus, per
// channel, three or four fixed-precision floats; the widths below leave
// margin so appends never grow past the initial capacity.
const (
	frameBaseWidth       = 24 // "millis\tmicros" worst case plus terminator
	framePerChannelWidth = 56
)

var errNoChannels = errors.New("daq: aggregator needs at least one channel")

// Aggregator drives 1..N channels in lock-step and formats one
// tab-delimited record per acquisition cycle into a reused buffer.
//
// Channel 0 is the sole gate for the ready check: all channels share the
// same conversion configuration, so its cadence is representative.
type Aggregator struct {
	channels []Channel
	buf      []byte
}

func NewAggregator(channels ...Channel) (*Aggregator, error) {
	if len(channels) == 0 {
		return nil, errNoChannels
	}
	return &Aggregator{
		channels: channels,
		buf:      make([]byte, 0, frameBaseWidth+len(channels)*framePerChannelWidth),
	}, nil
}

func (a *Aggregator) Channels() int { return len(a.channels) }

// Ready reports whether the primary channel has a completed conversion.
func (a *Aggregator) Ready() (bool, error) {
	return a.channels[0].ConversionReady()
}

// Sample runs one acquisition cycle and returns the formatted frame. The
// returned slice aliases the aggregator's internal buffer and is valid
// until the next call.
//
// The next conversion is triggered on every channel before the completed
// values are read back: the sensor's digital engine integrates in the
// background, and with the conversion time and averaging configured longer
// than the read latency the values read below still belong to the
// conversion that just finished. Trigger and read always walk the channels
// in the same fixed order.
func (a *Aggregator) Sample(ts Timestamp) ([]byte, error) {
	for _, ch := range a.channels {
		if err := ch.TriggerNext(); err != nil {
			return nil, err
		}
	}

	b := a.buf[:0]
	b = strconvx.AppendUint(b, uint64(ts.Millis))
	b = append(b, '\t')
	b = strconvx.AppendUint(b, uint64(ts.Micros))

	// The single-channel record carries the shunt voltage as well; the
	// multi-channel record drops it to keep the line compact.
	single := len(a.channels) == 1
	var rd Reading
	for _, ch := range a.channels {
		if err := ch.ReadLast(&rd); err != nil {
			return nil, err
		}
		b = append(b, '\t')
		b = strconvx.AppendFloat(b, float64(rd.CurrentMilliAmps), 2)
		b = append(b, '\t')
		b = strconvx.AppendFloat(b, float64(rd.BusMilliVolts), 2)
		if single {
			b = append(b, '\t')
			b = strconvx.AppendFloat(b, float64(rd.ShuntMilliVolts), 4)
		}
		b = append(b, '\t')
		b = strconvx.AppendFloat(b, float64(rd.EnergyJoules), 5)
	}
	b = append(b, '\n')
	a.buf = b
	return b, nil
}

// ResetAll requests an accumulator reset on every channel. The first error
// is returned but the remaining channels are still reset, so one failing
// sensor does not leave the others accumulating stale energy.
func (a *Aggregator) ResetAll() error {
	var first error
	for _, ch := range a.channels {
		if err := ch.ResetAccumulators(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
