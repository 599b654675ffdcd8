package daqlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrameSingleChannel(t *testing.T) {
	f, err := ParseFrame("1024\t512\t63.20\t2971.19\t0.9480\t0.01234\n")
	require.NoError(t, err)

	assert.Equal(t, uint32(1024), f.Millis)
	assert.Equal(t, uint16(512), f.Micros)
	assert.True(t, f.HasShunt)
	require.Len(t, f.Readings, 1)

	rd := f.Readings[0]
	assert.InDelta(t, 63.20, rd.CurrentMilliAmps, 1e-9)
	assert.InDelta(t, 2971.19, rd.BusMilliVolts, 1e-9)
	assert.InDelta(t, 0.9480, rd.ShuntMilliVolts, 1e-9)
	assert.InDelta(t, 0.01234, rd.EnergyJoules, 1e-9)
	assert.InDelta(t, 63.20*2971.19/1000, rd.PowerMilliWatts(), 1e-9)
}

func TestParseFrameMultiChannel(t *testing.T) {
	f, err := ParseFrame("7\t999\t1.00\t2.00\t3.00000\t4.00\t5.00\t6.00000\t7.00\t8.00\t9.00000")
	require.NoError(t, err)

	assert.False(t, f.HasShunt)
	require.Len(t, f.Readings, 3)
	assert.Equal(t, 4.0, f.Readings[1].CurrentMilliAmps)
	assert.Equal(t, 5.0, f.Readings[1].BusMilliVolts)
	assert.Equal(t, 6.0, f.Readings[1].EnergyJoules)
}

func TestParseFrameSeconds(t *testing.T) {
	f, err := ParseFrame("1500\t250\t0.00\t0.00\t0.0000\t0.00000")
	require.NoError(t, err)
	assert.InDelta(t, 1.50025, f.Seconds(), 1e-9)
}

func TestParseFrameRejectsGarbage(t *testing.T) {
	for _, line := range []string{
		"",
		"Arduino, Wind Turbine",
		"Found INA228 chip",
		"1\t2",
		"1\t2\t3.0",                     // 1 value field
		"1\t2\tx\t4.0\t5.0\t6.0",        // non-numeric value
		"abc\t2\t3.0\t4.0\t5.0\t6.0",    // non-numeric millis
		"1\t1000\t3.0\t4.0\t5.0\t6.0",   // micros out of range
		"1\t2\t3.0\t4.0\t5.0\t6.0\t7.0", // 5 value fields
	} {
		_, err := ParseFrame(line)
		assert.Error(t, err, "line %q", line)
	}
}
