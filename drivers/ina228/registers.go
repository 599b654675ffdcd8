package ina228

// Register map (datasheet §7.6). All registers are 16-bit except where
// noted; multi-byte reads are big-endian, high byte first.
const (
	regConfig    = 0x00 // RST[15] RSTACC[14] CONVDLY[13:6] TEMPCOMP[5] ADCRANGE[4]
	regADCConfig = 0x01 // MODE[15:12] VBUSCT[11:9] VSHCT[8:6] VTCT[5:3] AVG[2:0]
	regShuntCal  = 0x02
	regVShunt    = 0x04 // 24-bit, signed 20-bit value in [23:4]
	regVBus      = 0x05 // 24-bit, unsigned 20-bit value in [23:4]
	regDieTemp   = 0x06 // 16-bit signed
	regCurrent   = 0x07 // 24-bit, signed 20-bit value in [23:4]
	regPower     = 0x08 // 24-bit unsigned
	regEnergy    = 0x09 // 40-bit unsigned
	regCharge    = 0x0A // 40-bit signed
	regDiagAlert = 0x0B
	regMfgID     = 0x3E // always 0x5449 ("TI")
	regDeviceID  = 0x3F // 0x228 in [15:4], die revision in [3:0]
)

// CONFIG bits.
const (
	cfgRST      = 1 << 15
	cfgRSTACC   = 1 << 14
	cfgADCRANGE = 1 << 4
)

// DIAG_ALRT bits (subset).
const (
	diagMemStat = 1 << 0
	diagCnvrF   = 1 << 1 // conversion-ready flag, cleared on DIAG_ALRT read
)

// Expected identity values.
const (
	mfgIDTI     = 0x5449
	deviceIDVal = 0x228
)

// Mode selects what the ADC converts and whether it free-runs.
type Mode uint8

const (
	ModeShutdown           Mode = 0x0
	ModeTriggered          Mode = 0x7 // single-shot bus+shunt+temperature
	ModeContinuous         Mode = 0xF // continuous bus+shunt+temperature
	ModeContinuousBusShunt Mode = 0xB
)

// ADCRange selects the shunt full-scale range.
type ADCRange uint8

const (
	Range163mV ADCRange = iota // ±163.84 mV, 312.5 nV/LSB
	Range40mV                  // ±40.96 mV, 78.125 nV/LSB
)

// AveragingCount is the number of samples averaged per conversion.
type AveragingCount uint8

const (
	Avg1 AveragingCount = iota
	Avg4
	Avg16
	Avg64
	Avg128
	Avg256
	Avg512
	Avg1024
)

// Samples returns the averaging count as a plain number.
func (a AveragingCount) Samples() uint16 {
	counts := [8]uint16{1, 4, 16, 64, 128, 256, 512, 1024}
	return counts[a&7]
}

// ConversionTime selects the per-measurement conversion time.
type ConversionTime uint8

const (
	Time50us ConversionTime = iota
	Time84us
	Time150us
	Time280us
	Time540us
	Time1052us
	Time2074us
	Time4120us
)

// Micros returns the conversion time in microseconds.
func (t ConversionTime) Micros() uint32 {
	times := [8]uint32{50, 84, 150, 280, 540, 1052, 2074, 4120}
	return times[t&7]
}
