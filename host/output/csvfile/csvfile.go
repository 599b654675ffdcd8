// Package csvfile writes frames to a tab-separated file ready for the
// practicum's analysis notebooks.
package csvfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Dennis-van-Gils/project-windfarm-practicum/host/daqlink"
	"github.com/Dennis-van-Gils/project-windfarm-practicum/host/output"
)

type CSVOutput struct {
	f          *os.File
	w          *bufio.Writer
	hdrWritten bool
}

func New(path string) (output.Output, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csvfile: create %s: %w", path, err)
	}
	return &CSVOutput{f: f, w: bufio.NewWriter(f)}, nil
}

func (c *CSVOutput) Publish(fr daqlink.Frame) error {
	if !c.hdrWritten {
		c.writeHeader(fr)
		c.hdrWritten = true
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%.6f", fr.Seconds())
	for _, rd := range fr.Readings {
		fmt.Fprintf(&b, "\t%.2f\t%.2f", rd.CurrentMilliAmps, rd.BusMilliVolts)
		if fr.HasShunt {
			fmt.Fprintf(&b, "\t%.4f", rd.ShuntMilliVolts)
		}
		fmt.Fprintf(&b, "\t%.5f\t%.2f", rd.EnergyJoules, rd.PowerMilliWatts())
	}
	b.WriteByte('\n')
	_, err := c.w.WriteString(b.String())
	return err
}

func (c *CSVOutput) writeHeader(fr daqlink.Frame) {
	cols := []string{"time_s"}
	for i := range fr.Readings {
		n := i + 1
		cols = append(cols, fmt.Sprintf("I_%d_mA", n), fmt.Sprintf("V_%d_mV", n))
		if fr.HasShunt {
			cols = append(cols, fmt.Sprintf("Vshunt_%d_mV", n))
		}
		cols = append(cols, fmt.Sprintf("E_%d_J", n), fmt.Sprintf("P_%d_mW", n))
	}
	c.w.WriteString(strings.Join(cols, "\t") + "\n")
}

func (c *CSVOutput) Close() error {
	if err := c.w.Flush(); err != nil {
		c.f.Close()
		return err
	}
	return c.f.Close()
}
