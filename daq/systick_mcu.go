//go:build rp2040 || rp2350

package daq

import (
	"device/arm"
	"runtime/volatile"
)

// SysTick-backed TickSource. The TinyGo rp2 runtime keeps its own time on
// the TIMER peripheral, leaving SysTick free for the acquisition clock.

var sysTickMillis volatile.Register32

//go:export SysTick_Handler
func sysTickHandler() {
	sysTickMillis.Set(sysTickMillis.Get() + 1)
}

type sysTickSource struct{}

func (sysTickSource) Ticks() uint32  { return arm.SYST.SYST_CVR.Get() & 0x00FFFFFF }
func (sysTickSource) Reload() uint32 { return arm.SYST.SYST_RVR.Get() & 0x00FFFFFF }

func (sysTickSource) RolloverPending() bool {
	return arm.SCB.ICSR.HasBits(arm.SCB_ICSR_PENDSTSET_Msk)
}

func (sysTickSource) Millis() uint32 { return sysTickMillis.Get() }

// EnableSysTick starts the millisecond tick from the CPU clock and returns
// the TickSource for NewClock. cpuHz must be the core frequency the
// counter runs from (machine.CPUFrequency() on rp2 boards).
func EnableSysTick(cpuHz uint32) TickSource {
	reload := cpuHz/1000 - 1
	arm.SYST.SYST_RVR.Set(reload)
	arm.SYST.SYST_CVR.Set(0)
	arm.SYST.SYST_CSR.Set(arm.SYST_CSR_ENABLE_Msk |
		arm.SYST_CSR_TICKINT_Msk |
		arm.SYST_CSR_CLKSOURCE_Msk)
	return sysTickSource{}
}
