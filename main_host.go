//go:build !(rp2040 || rp2350)

// Host build: runs the acquisition core against a simulated wind turbine,
// stdin for commands and stdout for frames. Useful for exercising the host
// tooling without a board attached.
package main

import (
	"bufio"
	"os"
	"time"

	"github.com/Dennis-van-Gils/project-windfarm-practicum/daq"
)

const identity = "Arduino, Wind Turbine"

func main() {
	ticks := daq.NewWallTicks()
	clock := daq.NewClock(ticks)

	ch := daq.NewSimChannel(ticks.Millis, 25)
	agg, err := daq.NewAggregator(ch)
	if err != nil {
		println("daq:", err.Error())
		os.Exit(1)
	}
	cmds := daq.NewCommandReader(64)
	sched := daq.NewScheduler(clock, agg, cmds, daq.SchedulerConfig{
		Identity: identity,
		Out:      os.Stdout,
	})

	// Stdin lines arrive on a channel so the control loop stays the sole
	// owner of the command reader.
	lines := make(chan string, 4)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	println("Found INA228 chip (simulated)")
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return
			}
			cmds.FeedBytes(append([]byte(line), '\n'))
		default:
		}
		if err := sched.Step(); err != nil {
			println("daq:", err.Error())
		}
		time.Sleep(500 * time.Microsecond)
	}
}
