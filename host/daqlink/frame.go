package daqlink

import (
	"fmt"
	"strconv"
	"strings"
)

// Reading is one channel's slice of a frame. ShuntMilliVolts is only
// present in single-channel frames; multi-channel frames drop it.
type Reading struct {
	CurrentMilliAmps float64
	BusMilliVolts    float64
	ShuntMilliVolts  float64
	EnergyJoules     float64
}

// PowerMilliWatts derives the electrical power, like the Python host does.
func (r Reading) PowerMilliWatts() float64 {
	return r.CurrentMilliAmps * r.BusMilliVolts / 1000
}

// Frame is one parsed measurement record.
type Frame struct {
	Millis uint32
	Micros uint16
	// HasShunt marks the single-channel layout (shunt voltage included).
	HasShunt bool
	Readings []Reading
}

// Seconds returns the run-relative timestamp as fractional seconds.
func (f Frame) Seconds() float64 {
	return float64(f.Millis)/1e3 + float64(f.Micros)/1e6
}

// ParseFrame parses one tab-delimited device line. Two layouts exist:
//
//	millis  micros  I  V  Vshunt  E            (single channel, 6 fields)
//	millis  micros  (I  V  E) x N              (wind farm, 2+3N fields)
//
// Note the single-channel layout is ambiguous only on paper: 6 fields
// never satisfies 2+3N, so the field count decides.
func ParseFrame(line string) (Frame, error) {
	parts := strings.Split(strings.TrimRight(line, "\r\n"), "\t")

	var f Frame
	if len(parts) < 5 {
		return f, fmt.Errorf("daqlink: frame has %d fields", len(parts))
	}

	millis, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return f, fmt.Errorf("daqlink: bad millis field: %w", err)
	}
	micros, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || micros > 999 {
		return f, fmt.Errorf("daqlink: bad micros field %q", parts[1])
	}
	f.Millis = uint32(millis)
	f.Micros = uint16(micros)

	vals := parts[2:]
	switch {
	case len(vals) == 4:
		f.HasShunt = true
		rd := Reading{}
		fields := []*float64{&rd.CurrentMilliAmps, &rd.BusMilliVolts, &rd.ShuntMilliVolts, &rd.EnergyJoules}
		for i, p := range fields {
			if *p, err = strconv.ParseFloat(vals[i], 64); err != nil {
				return f, fmt.Errorf("daqlink: bad value %q: %w", vals[i], err)
			}
		}
		f.Readings = []Reading{rd}
	case len(vals)%3 == 0:
		n := len(vals) / 3
		f.Readings = make([]Reading, n)
		for i := 0; i < n; i++ {
			rd := &f.Readings[i]
			fields := []*float64{&rd.CurrentMilliAmps, &rd.BusMilliVolts, &rd.EnergyJoules}
			for j, p := range fields {
				if *p, err = strconv.ParseFloat(vals[i*3+j], 64); err != nil {
					return f, fmt.Errorf("daqlink: bad value %q: %w", vals[i*3+j], err)
				}
			}
		}
	default:
		return f, fmt.Errorf("daqlink: frame has %d value fields", len(vals))
	}
	return f, nil
}
