// internal/sink/mqtt_test.go
package sink

import (
	"encoding/json"
	"math"
	"testing"
)

func TestMQTTMessage(t *testing.T) {
	payload, err := json.Marshal(mqttMessage(sampleObs("ac_power")))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(payload, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["value"] != 230.5 {
		t.Fatalf("value=%v, want 230.5", m["value"])
	}
	if m["unit"] != "W" {
		t.Fatalf("unit=%v, want W", m["unit"])
	}
	if m["time"] != "2026-08-25T10:30:00Z" {
		t.Fatalf("time=%v", m["time"])
	}
}

func TestMQTTMessage_SentinelIsNull(t *testing.T) {
	o := sampleObs("dc_power")
	o.Value = math.NaN()

	payload, err := json.Marshal(mqttMessage(o))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(payload, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	v, present := m["value"]
	if !present || v != nil {
		t.Fatalf("value=%v present=%v, want explicit null", v, present)
	}
}
