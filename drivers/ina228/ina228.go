// Package ina228 provides a TinyGo driver for the TI INA228 20-bit I2C
// power monitor with an on-chip energy accumulator.
//
// The driver exposes a two-phase acquisition API built for pipelined use:
//
//	d.Trigger()                  // start the next one-shot conversion (fast)
//	ok, _ := d.ConversionReady() // true once integration has finished
//	d.ReadMeasurement(&m)        // values of the last completed conversion
//
// Trigger may be issued before ReadMeasurement: the ADC integrates in the
// background and the measurement registers keep holding the previous
// conversion until the new one lands.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when
// both w and r are provided, without releasing the bus.
package ina228

import (
	"errors"

	"tinygo.org/x/drivers"
)

// AddressDefault is the 7-bit address with A0/A1 grounded.
const AddressDefault = 0x40

// Errors returned by the driver.
var (
	ErrNoDevice = errors.New("ina228: no device found")
	ErrNotReady = errors.New("ina228: conversion not ready")
)

// Config controls bring-up. Zero values select the documented defaults.
type Config struct {
	// Address defaults to AddressDefault if zero.
	Address uint16
	// ShuntOhms is the shunt resistance. Defaults to 0.015 (the resistor
	// fitted on the Adafruit breakout).
	ShuntOhms float32
	// MaxCurrentAmps scales the CURRENT register LSB. Defaults to 0.2.
	MaxCurrentAmps float32
	// Range selects the shunt full-scale ADC range.
	Range ADCRange
	// Averaging, CurrentTime, VoltageTime, TempTime select the digital
	// filter; longer settings make pipelined reads safer.
	Averaging   AveragingCount
	CurrentTime ConversionTime
	VoltageTime ConversionTime
	TempTime    ConversionTime
	// SkipReset leaves CONFIG untouched apart from the ADC range, so the
	// energy accumulator survives an MCU-only reboot.
	SkipReset bool
}

// Measurement holds the values of one completed conversion.
type Measurement struct {
	CurrentMilliAmps float32
	BusMilliVolts    float32
	ShuntMilliVolts  float32
	EnergyJoules     float32
}

// Device wraps an I2C connection to an INA228.
type Device struct {
	bus  drivers.I2C
	addr uint16

	currentLSB float32 // amps per CURRENT register bit
	shuntLSBnV float32 // nanovolts per VSHUNT register bit
	adcConfig  uint16  // cached triggered-mode word rewritten by Trigger

	// Fixed buffers to avoid per-call heap allocations.
	w [3]byte
	r [5]byte
}

// New creates an INA228 connection. The I2C bus must already be
// configured; the device is not touched until Configure.
func New(bus drivers.I2C) *Device {
	return &Device{bus: bus, addr: AddressDefault}
}

// Connected reports whether an INA228 answers at the configured address.
func (d *Device) Connected() bool {
	mfg, err := d.readReg16(regMfgID)
	if err != nil || mfg != mfgIDTI {
		return false
	}
	dev, err := d.readReg16(regDeviceID)
	return err == nil && dev>>4 == deviceIDVal
}

// Configure probes the device, programs the shunt calibration and ADC
// settings, and starts the first conversion. It returns ErrNoDevice when
// nothing identifying as an INA228 answers on the bus.
func (d *Device) Configure(cfg Config) error {
	if cfg.Address != 0 {
		d.addr = cfg.Address
	}
	if cfg.ShuntOhms == 0 {
		cfg.ShuntOhms = 0.015
	}
	if cfg.MaxCurrentAmps == 0 {
		cfg.MaxCurrentAmps = 0.2
	}
	if !d.Connected() {
		return ErrNoDevice
	}

	if !cfg.SkipReset {
		if err := d.writeReg16(regConfig, cfgRST); err != nil {
			return err
		}
	}

	// ADC range lives in CONFIG; preserve the accumulator (no RSTACC here).
	var config uint16
	if cfg.Range == Range40mV {
		config |= cfgADCRANGE
	}
	if err := d.writeReg16(regConfig, config); err != nil {
		return err
	}

	// CURRENT_LSB = Imax / 2^19; SHUNT_CAL = 13107.2e6 * CURRENT_LSB * Rshunt,
	// scaled by 4 on the ±40.96 mV range (datasheet §8.1.2).
	d.currentLSB = cfg.MaxCurrentAmps / (1 << 19)
	cal := 13107.2e6 * d.currentLSB * cfg.ShuntOhms
	d.shuntLSBnV = 312.5
	if cfg.Range == Range40mV {
		cal *= 4
		d.shuntLSBnV = 78.125
	}
	if err := d.writeReg16(regShuntCal, uint16(cal)); err != nil {
		return err
	}

	d.adcConfig = uint16(ModeTriggered)<<12 |
		uint16(cfg.VoltageTime&7)<<9 |
		uint16(cfg.CurrentTime&7)<<6 |
		uint16(cfg.TempTime&7)<<3 |
		uint16(cfg.Averaging&7)
	// Writing ADC_CONFIG in a triggered mode starts the first conversion.
	return d.writeReg16(regADCConfig, d.adcConfig)
}

// Trigger starts the next one-shot conversion. It is a single register
// write and returns immediately; the measurement registers keep the
// previous conversion until the new one completes.
func (d *Device) Trigger() error {
	return d.writeReg16(regADCConfig, d.adcConfig)
}

// ConversionReady reports whether a conversion has completed since the
// flag was last read. Reading DIAG_ALRT clears the flag.
func (d *Device) ConversionReady() (bool, error) {
	diag, err := d.readReg16(regDiagAlert)
	if err != nil {
		return false, err
	}
	return diag&diagCnvrF != 0, nil
}

// ReadMeasurement fetches current, bus voltage, shunt voltage and the
// energy accumulator of the last completed conversion.
func (d *Device) ReadMeasurement(out *Measurement) error {
	raw, err := d.readReg24(regCurrent)
	if err != nil {
		return err
	}
	out.CurrentMilliAmps = float32(signExtend20(raw)) * d.currentLSB * 1000

	raw, err = d.readReg24(regVBus)
	if err != nil {
		return err
	}
	// 195.3125 µV/LSB.
	out.BusMilliVolts = float32(raw>>4) * 0.1953125

	raw, err = d.readReg24(regVShunt)
	if err != nil {
		return err
	}
	out.ShuntMilliVolts = float32(signExtend20(raw)) * d.shuntLSBnV * 1e-6

	energy, err := d.readReg40(regEnergy)
	if err != nil {
		return err
	}
	// ENERGY LSB = 16 * 3.2 * CURRENT_LSB joules.
	out.EnergyJoules = float32(energy) * 51.2 * d.currentLSB
	return nil
}

// ReadDieTemp returns the die temperature in degrees Celsius.
func (d *Device) ReadDieTemp() (float32, error) {
	raw, err := d.readReg16(regDieTemp)
	if err != nil {
		return 0, err
	}
	return float32(int16(raw)) * 0.0078125, nil
}

// ResetEnergyAccumulator clears the ENERGY and CHARGE registers by pulsing
// CONFIG.RSTACC, preserving the other CONFIG bits.
func (d *Device) ResetEnergyAccumulator() error {
	config, err := d.readReg16(regConfig)
	if err != nil {
		return err
	}
	return d.writeReg16(regConfig, config|cfgRSTACC)
}

// Reset issues a full device reset. All registers return to defaults and
// the accumulators clear; Configure must be called again afterwards.
func (d *Device) Reset() error {
	return d.writeReg16(regConfig, cfgRST)
}

// Settings accessors for the bring-up report.

func (d *Device) ADCRange() (ADCRange, error) {
	config, err := d.readReg16(regConfig)
	if err != nil {
		return 0, err
	}
	if config&cfgADCRANGE != 0 {
		return Range40mV, nil
	}
	return Range163mV, nil
}

func (d *Device) Mode() (Mode, error) {
	adc, err := d.readReg16(regADCConfig)
	return Mode(adc >> 12), err
}

func (d *Device) Averaging() (AveragingCount, error) {
	adc, err := d.readReg16(regADCConfig)
	return AveragingCount(adc & 7), err
}

func (d *Device) CurrentConversionTime() (ConversionTime, error) {
	adc, err := d.readReg16(regADCConfig)
	return ConversionTime(adc >> 6 & 7), err
}

func (d *Device) VoltageConversionTime() (ConversionTime, error) {
	adc, err := d.readReg16(regADCConfig)
	return ConversionTime(adc >> 9 & 7), err
}

func (d *Device) TempConversionTime() (ConversionTime, error) {
	adc, err := d.readReg16(regADCConfig)
	return ConversionTime(adc >> 3 & 7), err
}

// ---------------- Low-level register access ----------------

func (d *Device) readReg16(reg byte) (uint16, error) {
	d.w[0] = reg
	if err := d.bus.Tx(d.addr, d.w[:1], d.r[:2]); err != nil {
		return 0, err
	}
	return uint16(d.r[0])<<8 | uint16(d.r[1]), nil
}

func (d *Device) readReg24(reg byte) (uint32, error) {
	d.w[0] = reg
	if err := d.bus.Tx(d.addr, d.w[:1], d.r[:3]); err != nil {
		return 0, err
	}
	return uint32(d.r[0])<<16 | uint32(d.r[1])<<8 | uint32(d.r[2]), nil
}

func (d *Device) readReg40(reg byte) (uint64, error) {
	d.w[0] = reg
	if err := d.bus.Tx(d.addr, d.w[:1], d.r[:5]); err != nil {
		return 0, err
	}
	return uint64(d.r[0])<<32 | uint64(d.r[1])<<24 | uint64(d.r[2])<<16 |
		uint64(d.r[3])<<8 | uint64(d.r[4]), nil
}

func (d *Device) writeReg16(reg byte, val uint16) error {
	d.w[0] = reg
	d.w[1] = byte(val >> 8)
	d.w[2] = byte(val)
	return d.bus.Tx(d.addr, d.w[:3], nil)
}

// signExtend20 interprets the top 20 bits of a 24-bit register read as a
// signed two's-complement value.
func signExtend20(raw uint32) int32 {
	return int32(raw<<8) >> 12
}
