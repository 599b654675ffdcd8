//go:build rp2040 || rp2350

// Wind practicum power logger firmware for RP2 boards: an INA228 power
// monitor on i2c0 streams tab-delimited frames over UART0 and takes ASCII
// commands (id?, r, on, off) on the same link.
package main

import (
	"machine"
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"github.com/Dennis-van-Gils/project-windfarm-practicum/daq"
	"github.com/Dennis-van-Gils/project-windfarm-practicum/drivers/ina228"
)

const identity = "Arduino, Wind Turbine"

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	uart := uartx.UART0
	if err := uart.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       uartx.UART0_TX_PIN,
		RX:       uartx.UART0_RX_PIN,
	}); err != nil {
		println("uart configure error")
		halt()
	}

	led := &statusLED{pin: machine.LED}
	led.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	}); err != nil {
		println("i2c configure error")
		halt()
	}

	dev := ina228.New(i2c)
	err := dev.Configure(ina228.Config{
		Address:        ina228.AddressDefault,
		ShuntOhms:      0.015,
		MaxCurrentAmps: 0.2,
		Range:          ina228.Range40mV,
		Averaging:      ina228.Avg4,
		CurrentTime:    ina228.Time150us,
		VoltageTime:    ina228.Time150us,
		TempTime:       ina228.Time50us,
		SkipReset:      true,
	})
	if err != nil {
		// Fail-safe stop: one diagnostic line, then halt until manual reset.
		uart.Write([]byte("Couldn't find INA228 chip\r\n"))
		println("Couldn't find INA228 chip")
		halt()
	}
	uart.Write([]byte("Found INA228 chip\r\n"))
	reportSettings(dev)

	clock := daq.NewClock(daq.EnableSysTick(uint32(machine.CPUFrequency())))
	agg, err := daq.NewAggregator(daq.NewINA228Channel(dev))
	if err != nil {
		println("daq:", err.Error())
		halt()
	}
	cmds := daq.NewCommandReader(64)
	sched := daq.NewScheduler(clock, agg, cmds, daq.SchedulerConfig{
		Identity: identity,
		Out:      uart,
		Status:   led,
	})

	rx := make([]byte, 64)
	for {
		for {
			n := uart.TryRead(rx)
			if n <= 0 {
				break
			}
			cmds.FeedBytes(rx[:n])
		}
		if err := sched.Step(); err != nil {
			println("daq:", err.Error())
		}
	}
}

func reportSettings(dev *ina228.Device) {
	if r, err := dev.ADCRange(); err == nil {
		println("ADC range      :", int(r))
	}
	if m, err := dev.Mode(); err == nil {
		println("Mode           :", int(m))
	}
	if a, err := dev.Averaging(); err == nil {
		println("Averaging count:", int(a.Samples()))
	}
	if t, err := dev.CurrentConversionTime(); err == nil {
		println("Current     conversion time:", int(t.Micros()), "us")
	}
	if t, err := dev.VoltageConversionTime(); err == nil {
		println("Voltage     conversion time:", int(t.Micros()), "us")
	}
	if t, err := dev.TempConversionTime(); err == nil {
		println("Temperature conversion time:", int(t.Micros()), "us")
	}
}

type statusLED struct {
	pin machine.Pin
}

func (l *statusLED) SetStatus(s daq.Status) {
	l.pin.Set(s == daq.StatusRunning)
}

func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
