// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/westphae/quaternion"

	"github.com/mechbanana/slimevr-tracker/internal/imu"
)

// Topics names the MQTT topics a sink publishes to. Each message goes to
// "<topic>/<sensorID>".
type Topics struct {
	Orientation string
	Temperature string
	RawSample   string
	Calibration string
}

// MQTTSink publishes telemetry as JSON over MQTT.
type MQTTSink struct {
	client mqtt.Client
	topics Topics
}

// NewMQTTSink connects to the broker and returns a ready sink.
func NewMQTTSink(broker, clientID string, topics Topics) (*MQTTSink, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	log.Printf("telemetry: connected to MQTT broker at %s", broker)
	return &MQTTSink{client: client, topics: topics}, nil
}

// Close disconnects from the broker.
func (m *MQTTSink) Close() {
	m.client.Disconnect(250)
}

func (m *MQTTSink) publish(topic string, sensorID int, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("telemetry: marshal error (%s): %v", topic, err)
		return
	}
	full := fmt.Sprintf("%s/%d", topic, sensorID)
	if token := m.client.Publish(full, 0, true, payload); token.Wait() && token.Error() != nil {
		log.Printf("telemetry: publish error (%s): %v", full, token.Error())
	}
}

type orientationMsg struct {
	Sensor int     `json:"sensor"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	W      float64 `json:"w"`
	Time   string  `json:"time"`
}

func (m *MQTTSink) SendOrientation(sensorID int, q quaternion.Quaternion) {
	m.publish(m.topics.Orientation, sensorID, orientationMsg{
		Sensor: sensorID,
		X:      q.X,
		Y:      q.Y,
		Z:      q.Z,
		W:      q.W,
		Time:   time.Now().Format(time.RFC3339),
	})
}

func (m *MQTTSink) SendTemperature(sensorID int, celsius float64) {
	m.publish(m.topics.Temperature, sensorID, struct {
		Sensor int     `json:"sensor"`
		TempC  float64 `json:"temp_c"`
	}{sensorID, celsius})
}

func (m *MQTTSink) SendRawSample(sensorID int, s imu.RawSample) {
	m.publish(m.topics.RawSample, sensorID, s)
}

func (m *MQTTSink) SendCalibrationSample(sensorID int, phase string, v [3]float64) {
	m.publish(m.topics.Calibration, sensorID, struct {
		Sensor int     `json:"sensor"`
		Phase  string  `json:"phase"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Z      float64 `json:"z"`
	}{sensorID, phase, v[0], v[1], v[2]})
}

func (m *MQTTSink) SendCalibrationFinished(sensorID int) {
	m.publish(m.topics.Calibration, sensorID, struct {
		Sensor int    `json:"sensor"`
		Phase  string `json:"phase"`
	}{sensorID, "finished"})
}
