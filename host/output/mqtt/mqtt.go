// Package mqtt republishes frames to an MQTT broker, one JSON message per
// channel, for dashboards watching the practicum rigs.
package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/Dennis-van-Gils/project-windfarm-practicum/host/config"
	"github.com/Dennis-van-Gils/project-windfarm-practicum/host/daqlink"
	"github.com/Dennis-van-Gils/project-windfarm-practicum/host/output"
)

type MQTTOutput struct {
	client paho.Client
	topic  string // contains %d → per-channel topics
}

type channelPayload struct {
	TimeSeconds      float64 `json:"t"`
	Channel          int     `json:"channel"`
	CurrentMilliAmps float64 `json:"i_ma"`
	BusMilliVolts    float64 `json:"v_mv"`
	PowerMilliWatts  float64 `json:"p_mw"`
	EnergyJoules     float64 `json:"e_j"`
}

func New(cfg config.MQTTConfig) (output.Output, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Server).SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	client := paho.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	topic := cfg.Topic
	if topic == "" {
		topic = "windfarm/channel/%d"
	}
	return &MQTTOutput{client: client, topic: topic}, nil
}

func (m *MQTTOutput) Publish(f daqlink.Frame) error {
	for i, rd := range f.Readings {
		topic := m.topic
		if strings.Contains(topic, "%d") {
			topic = fmt.Sprintf(m.topic, i)
		}
		b, err := json.Marshal(channelPayload{
			TimeSeconds:      f.Seconds(),
			Channel:          i,
			CurrentMilliAmps: rd.CurrentMilliAmps,
			BusMilliVolts:    rd.BusMilliVolts,
			PowerMilliWatts:  rd.PowerMilliWatts(),
			EnergyJoules:     rd.EnergyJoules,
		})
		if err != nil {
			return err
		}
		token := m.client.Publish(topic, 0, false, b)
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
	}
	return nil
}

func (m *MQTTOutput) Close() error {
	if m.client != nil {
		m.client.Disconnect(250)
	}
	return nil
}
