package console

import (
	"fmt"

	"github.com/Dennis-van-Gils/project-windfarm-practicum/host/daqlink"
	"github.com/Dennis-van-Gils/project-windfarm-practicum/host/output"
)

type ConsoleOutput struct{}

func New() output.Output { return &ConsoleOutput{} }

func (c *ConsoleOutput) Publish(f daqlink.Frame) error {
	for i, rd := range f.Readings {
		fmt.Printf("t=%.6f ch=%d I=%.2fmA V=%.2fmV P=%.2fmW E=%.5fJ\n",
			f.Seconds(), i, rd.CurrentMilliAmps, rd.BusMilliVolts,
			rd.PowerMilliWatts(), rd.EnergyJoules)
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }
