package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/gesture_grid/internal/config"
	"github.com/relabs-tech/gesture_grid/internal/remote"
	"github.com/relabs-tech/gesture_grid/internal/trial"
)

// RunConsole tails the run and status topics and prints every message. Useful
// when checking a session without the web page.
func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	runToken := client.Subscribe(cfg.TopicRun, 0, func(_ mqtt.Client, msg mqtt.Message) {
		v, ok := remote.DecodeRun(msg.Payload())
		if !ok {
			log.Printf("console: malformed run payload: %s", msg.Payload())
			return
		}
		fmt.Printf("[RUN ]  isRunning=%t\n", v)
	})
	runToken.Wait()
	if runToken.Error() != nil {
		return runToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicRun)

	statusToken := client.Subscribe(cfg.TopicStatus, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var st trial.Status
		if err := json.Unmarshal(msg.Payload(), &st); err != nil {
			log.Printf("console: status unmarshal error: %v", err)
			return
		}

		highlight := "-"
		if st.Highlight != nil {
			highlight = fmt.Sprintf("(%d,%d)", st.Highlight.Row, st.Highlight.Col)
		}
		fmt.Printf(
			"[STAT]  state=%-14s shape=%s trial=%2d cell=%-6s code=%s\n",
			st.State, st.Shape, st.Iteration, highlight, st.Code,
		)
	})
	statusToken.Wait()
	if statusToken.Error() != nil {
		return statusToken.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicStatus)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
