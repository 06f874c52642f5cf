// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package remote

import (
	"encoding/json"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/gesture_grid/internal/trial"
)

// Link relays the run flag between the paired devices. Delivery is
// best-effort in both directions: a Send with the peer unreachable is
// dropped, and callers must not assume delivery.
type Link interface {
	Send(running bool)
	Close()
}

// Signal is the MQTT-backed Link. It is an explicit instance owned by the
// composition root and passed by handle to whoever needs it; there is no
// package-level connection state.
type Signal struct {
	client      mqtt.Client
	runTopic    string
	statusTopic string
}

// Dial connects to the broker and subscribes to the run topic. Every decoded
// run-flag value is forwarded to onRun from the MQTT receive goroutine;
// malformed or incomplete payloads are ignored with no state change.
func Dial(broker, clientID, runTopic, statusTopic string, onRun func(bool)) (*Signal, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	log.Printf("remote: connected to MQTT broker at %s", broker)

	token := client.Subscribe(runTopic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		running, ok := DecodeRun(msg.Payload())
		if !ok {
			log.Printf("remote: ignoring malformed run payload %q", msg.Payload())
			return
		}
		onRun(running)
	})
	token.Wait()
	if token.Error() != nil {
		client.Disconnect(250)
		return nil, token.Error()
	}
	log.Printf("remote: subscribed to %s", runTopic)

	return &Signal{
		client:      client,
		runTopic:    runTopic,
		statusTopic: statusTopic,
	}, nil
}

// DecodeRun extracts the run flag from an inbound message. A payload without
// a boolean "isRunning" key is not a run message.
func DecodeRun(payload []byte) (bool, bool) {
	var p struct {
		IsRunning *bool `json:"isRunning"`
	}
	if err := json.Unmarshal(payload, &p); err != nil || p.IsRunning == nil {
		return false, false
	}
	return *p.IsRunning, true
}

// EncodeRun renders the run flag as the wire payload.
func EncodeRun(running bool) []byte {
	payload, _ := json.Marshal(struct {
		IsRunning bool `json:"isRunning"`
	}{IsRunning: running})
	return payload
}

// Send publishes the local run flag, fire-and-forget at QoS 0. A failed
// publish is logged and dropped; there is no retry or queueing.
func (s *Signal) Send(running bool) {
	token := s.client.Publish(s.runTopic, 0, false, EncodeRun(running))
	token.Wait()
	if token.Error() != nil {
		log.Printf("remote: run publish dropped: %v", token.Error())
	}
}

// PublishStatus mirrors a sequencer snapshot onto the status topic for the
// controller UI and the debug console. Failures are dropped like Send.
func (s *Signal) PublishStatus(st trial.Status) {
	payload, err := json.Marshal(st)
	if err != nil {
		log.Printf("remote: status marshal error: %v", err)
		return
	}
	token := s.client.Publish(s.statusTopic, 0, true, payload)
	token.Wait()
	if token.Error() != nil {
		log.Printf("remote: status publish dropped: %v", token.Error())
	}
}

func (s *Signal) Close() {
	s.client.Disconnect(250)
}
