// Package daqlink manages serial communication with a board running the
// wind practicum DAQ firmware: port discovery, the id? identity handshake,
// the on/off/reset commands and the tab-delimited frame stream.
package daqlink

import (
	"bufio"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate matches the firmware UART.
	DefaultBaudRate = 115200
	// DefaultLineBuffer is the capacity of the inbound line channel.
	DefaultLineBuffer = 100
)

// Device is a connection to one DAQ board. Lines received from the board
// are delivered on a channel; command writes go straight to the port.
type Device struct {
	name string
	port serial.Port

	lines chan string

	mu     sync.Mutex
	closed bool
}

// ListPorts returns the serial port names present on this host.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("daqlink: list serial ports: %w", err)
	}
	return ports, nil
}

// Open connects to a port and starts the reader. baud 0 selects the
// default rate.
func Open(name string, baud int) (*Device, error) {
	if baud == 0 {
		baud = DefaultBaudRate
	}
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("daqlink: open %s: %w", name, err)
	}
	d := &Device{
		name:  name,
		port:  port,
		lines: make(chan string, DefaultLineBuffer),
	}
	go d.readLines()
	return d, nil
}

// Find scans all serial ports for a device whose identity line contains
// wantID (e.g. "Wind Turbine"), mirroring the Python host's
// connect-to-specific-ID behaviour. The matched identity is returned.
func Find(wantID string, timeout time.Duration) (*Device, string, error) {
	ports, err := ListPorts()
	if err != nil {
		return nil, "", err
	}
	for _, name := range ports {
		d, err := Open(name, 0)
		if err != nil {
			continue
		}
		id, err := d.Identify(timeout)
		if err == nil && strings.Contains(id, wantID) {
			return d, id, nil
		}
		d.Close()
	}
	return nil, "", fmt.Errorf("daqlink: no device answering to %q found", wantID)
}

func (d *Device) Name() string { return d.name }

// Lines returns the inbound line channel. It closes when the port closes
// or the read loop fails.
func (d *Device) Lines() <-chan string { return d.lines }

// Identify sends id? and waits for the identity line. Data frames still in
// flight are skipped; the command also forces the board to idle, so the
// stream drains quickly.
func (d *Device) Identify(timeout time.Duration) (string, error) {
	if err := d.send("id?"); err != nil {
		return "", err
	}
	deadline := time.After(timeout)
	for {
		select {
		case line, ok := <-d.lines:
			if !ok {
				return "", fmt.Errorf("daqlink: %s closed during identify", d.name)
			}
			if line == "" {
				continue
			}
			if _, err := ParseFrame(line); err == nil {
				continue // stale data frame
			}
			return line, nil
		case <-deadline:
			return "", fmt.Errorf("daqlink: %s did not identify within %v", d.name, timeout)
		}
	}
}

// StartAcquisition turns frame streaming on. The firmware rebases its
// timestamps to zero at this instant.
func (d *Device) StartAcquisition() error { return d.send("on") }

// StopAcquisition turns frame streaming off.
func (d *Device) StopAcquisition() error { return d.send("off") }

// ResetAccumulators clears the energy accumulator on every channel. The
// run-relative timestamps are unaffected.
func (d *Device) ResetAccumulators() error { return d.send("r") }

// Close stops the reader and releases the port.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.port.Close()
}

func (d *Device) send(cmd string) error {
	if _, err := d.port.Write([]byte(cmd + "\n")); err != nil {
		return fmt.Errorf("daqlink: send %q: %w", cmd, err)
	}
	return nil
}

func (d *Device) readLines() {
	defer close(d.lines)
	sc := bufio.NewScanner(d.port)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		select {
		case d.lines <- line:
		default:
			// Drop when the consumer is slow; frames are a stream, not a log.
		}
	}
}
