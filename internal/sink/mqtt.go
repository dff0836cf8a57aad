// internal/sink/mqtt.go
package sink

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/tamzrod/modmon/internal/config"
	"github.com/tamzrod/modmon/internal/poller"
)

const mqttWait = 5 * time.Second

// MQTT publishes each observation to <prefix>/<device>/<label> as a
// small JSON document. Sentinel readings publish a null value so
// subscribers can tell "no data" from "no message".
type MQTT struct {
	c      mqtt.Client
	prefix string
	qos    byte
	retain bool
}

func NewMQTT(cfg config.MQTTSinkConfig) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	c := mqtt.NewClient(opts)
	tok := c.Connect()
	if !tok.WaitTimeout(mqttWait) {
		return nil, errors.New("mqtt sink: connect timeout")
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt sink: %w", err)
	}

	return &MQTT{
		c:      c,
		prefix: cfg.TopicPrefix,
		qos:    cfg.QoS,
		retain: cfg.Retain,
	}, nil
}

func (s *MQTT) Write(o poller.Observation) error {
	payload, err := json.Marshal(mqttMessage(o))
	if err != nil {
		return fmt.Errorf("mqtt sink: %w", err)
	}

	topic := s.prefix + "/" + o.Device + "/" + o.Label
	tok := s.c.Publish(topic, s.qos, s.retain, payload)
	if !tok.WaitTimeout(mqttWait) {
		return errors.New("mqtt sink: publish timeout")
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt sink: %w", err)
	}
	return nil
}

func (s *MQTT) Close() error {
	s.c.Disconnect(250)
	return nil
}

// mqttMessage is the wire document. NaN cannot travel through JSON,
// so a sentinel reading becomes an explicit null.
func mqttMessage(o poller.Observation) map[string]interface{} {
	m := map[string]interface{}{
		"time": o.At.Format(time.RFC3339),
	}
	if math.IsNaN(o.Value) {
		m["value"] = nil
	} else {
		m["value"] = o.Value
	}
	if o.Unit != "" {
		m["unit"] = o.Unit
	}
	return m
}
