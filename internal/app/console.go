// Copyright (c) 2026 mechbanana
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/mechbanana/slimevr-tracker/internal/config"
)

// RunConsole subscribes to the tracker's MQTT topics and prints each message
// to stdout until interrupted.
func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	orientToken := client.Subscribe(cfg.TopicOrientation+"/#", 0, func(_ mqtt.Client, msg mqtt.Message) {
		var m struct {
			Sensor int     `json:"sensor"`
			X      float64 `json:"x"`
			Y      float64 `json:"y"`
			Z      float64 `json:"z"`
			W      float64 `json:"w"`
		}
		if err := json.Unmarshal(msg.Payload(), &m); err != nil {
			log.Printf("console: orientation unmarshal error: %v", err)
			return
		}
		fmt.Printf("[ORIENT %d]  X=%7.4f  Y=%7.4f  Z=%7.4f  W=%7.4f\n", m.Sensor, m.X, m.Y, m.Z, m.W)
	})
	orientToken.Wait()
	if orientToken.Error() != nil {
		return orientToken.Error()
	}
	log.Printf("console: subscribed to %s/#", cfg.TopicOrientation)

	tempToken := client.Subscribe(cfg.TopicTemperature+"/#", 0, func(_ mqtt.Client, msg mqtt.Message) {
		var m struct {
			Sensor int     `json:"sensor"`
			TempC  float64 `json:"temp_c"`
		}
		if err := json.Unmarshal(msg.Payload(), &m); err != nil {
			log.Printf("console: temperature unmarshal error: %v", err)
			return
		}
		fmt.Printf("[TEMP   %d]  %.2f C\n", m.Sensor, m.TempC)
	})
	tempToken.Wait()
	if tempToken.Error() != nil {
		return tempToken.Error()
	}
	log.Printf("console: subscribed to %s/#", cfg.TopicTemperature)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("console: shutting down")
	return nil
}
