package daq

import (
	"github.com/Dennis-van-Gils/project-windfarm-practicum/drivers/ina228"
)

// INA228Channel adapts an ina228.Device to the Channel shape the
// aggregator drives.
type INA228Channel struct {
	dev *ina228.Device
	m   ina228.Measurement
}

var _ Channel = (*INA228Channel)(nil)

func NewINA228Channel(dev *ina228.Device) *INA228Channel {
	return &INA228Channel{dev: dev}
}

func (c *INA228Channel) TriggerNext() error { return c.dev.Trigger() }

func (c *INA228Channel) ConversionReady() (bool, error) { return c.dev.ConversionReady() }

func (c *INA228Channel) ReadLast(out *Reading) error {
	if err := c.dev.ReadMeasurement(&c.m); err != nil {
		return err
	}
	out.CurrentMilliAmps = c.m.CurrentMilliAmps
	out.BusMilliVolts = c.m.BusMilliVolts
	out.ShuntMilliVolts = c.m.ShuntMilliVolts
	out.EnergyJoules = c.m.EnergyJoules
	return nil
}

func (c *INA228Channel) ResetAccumulators() error { return c.dev.ResetEnergyAccumulator() }
