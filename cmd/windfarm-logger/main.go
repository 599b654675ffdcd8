// Command windfarm-logger connects to a board running the wind practicum
// DAQ firmware, starts acquisition and fans the frame stream out to the
// configured outputs (console, TSV file, MQTT).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dennis-van-Gils/project-windfarm-practicum/host/config"
	"github.com/Dennis-van-Gils/project-windfarm-practicum/host/daqlink"
	"github.com/Dennis-van-Gils/project-windfarm-practicum/host/output"
	"github.com/Dennis-van-Gils/project-windfarm-practicum/host/output/console"
	"github.com/Dennis-van-Gils/project-windfarm-practicum/host/output/csvfile"
	"github.com/Dennis-van-Gils/project-windfarm-practicum/host/output/mqtt"
)

const identifyTimeout = 3 * time.Second

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		portName   = flag.String("port", "", "serial port (overrides config; empty scans all ports)")
		csvPath    = flag.String("csv", "", "TSV output file (overrides config)")
		listPorts  = flag.Bool("list", false, "list serial ports and exit")
		noReset    = flag.Bool("no-reset", false, "keep the energy accumulators across runs")
	)
	flag.Parse()

	log.SetFlags(log.Ltime)

	if *listPorts {
		ports, err := daqlink.ListPorts()
		if err != nil {
			log.Fatal(err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *portName != "" {
		cfg.Serial.Port = *portName
	}
	if *csvPath != "" {
		cfg.Outputs.CSVPath = *csvPath
	}
	if *noReset {
		cfg.Device.ResetEnergyOnStart = false
	}

	dev, identity, err := connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer dev.Close()
	log.Printf("connected to %s: %s", dev.Name(), identity)

	outs, err := buildOutputs(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		for _, o := range outs {
			o.Close()
		}
	}()

	if cfg.Device.ResetEnergyOnStart {
		if err := dev.ResetAccumulators(); err != nil {
			log.Fatal(err)
		}
	}
	if err := dev.StartAcquisition(); err != nil {
		log.Fatal(err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	frames, dropped := 0, 0
	for {
		select {
		case line, ok := <-dev.Lines():
			if !ok {
				log.Printf("port closed after %d frames (%d unparseable)", frames, dropped)
				return
			}
			if line == "" {
				continue
			}
			frame, err := daqlink.ParseFrame(line)
			if err != nil {
				dropped++
				continue
			}
			frames++
			for _, o := range outs {
				if err := o.Publish(frame); err != nil {
					log.Printf("output: %v", err)
				}
			}
		case <-sig:
			log.Printf("stopping after %d frames (%d unparseable)", frames, dropped)
			if err := dev.StopAcquisition(); err != nil {
				log.Printf("stop: %v", err)
			}
			return
		}
	}
}

func connect(cfg *config.Config) (*daqlink.Device, string, error) {
	if cfg.Serial.Port != "" {
		dev, err := daqlink.Open(cfg.Serial.Port, cfg.Serial.Baud)
		if err != nil {
			return nil, "", err
		}
		identity, err := dev.Identify(identifyTimeout)
		if err != nil {
			dev.Close()
			return nil, "", err
		}
		return dev, identity, nil
	}
	return daqlink.Find(cfg.Device.ID, identifyTimeout)
}

func buildOutputs(cfg *config.Config) ([]output.Output, error) {
	var outs []output.Output
	if cfg.Outputs.Console {
		outs = append(outs, console.New())
	}
	if cfg.Outputs.CSVPath != "" {
		o, err := csvfile.New(cfg.Outputs.CSVPath)
		if err != nil {
			return nil, err
		}
		outs = append(outs, o)
	}
	if cfg.Outputs.MQTT.Enabled {
		o, err := mqtt.New(cfg.Outputs.MQTT)
		if err != nil {
			return nil, err
		}
		outs = append(outs, o)
	}
	if len(outs) == 0 {
		outs = append(outs, console.New())
	}
	return outs, nil
}
