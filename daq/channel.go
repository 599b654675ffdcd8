package daq

// Reading holds the values of one completed conversion on one channel.
// Energy is the sensor's hardware accumulator: it survives run/idle
// transitions and is cleared only by an explicit reset request.
type Reading struct {
	CurrentMilliAmps float32
	BusMilliVolts    float32
	ShuntMilliVolts  float32
	EnergyJoules     float32
}

// Channel is one power sensor on the shared bus. The aggregator drives all
// channels in lock-step: TriggerNext starts the sensor integrating its next
// sample in the background while ReadLast fetches the values of the
// conversion that just completed.
type Channel interface {
	TriggerNext() error
	ConversionReady() (bool, error)
	ReadLast(out *Reading) error
	ResetAccumulators() error
}

// Status of the acquisition loop, for an optional indicator (LED).
type Status uint8

const (
	StatusInitializing Status = iota
	StatusIdle
	StatusRunning
)

// StatusIndicator is an optional capability the scheduler drives on state
// changes. Boards without an indicator use the no-op default.
type StatusIndicator interface {
	SetStatus(Status)
}

type nopIndicator struct{}

func (nopIndicator) SetStatus(Status) {}
