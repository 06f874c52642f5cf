package app

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/gesture_grid/internal/config"
	"github.com/relabs-tech/gesture_grid/internal/remote"
)

// RunController serves the remote-control page: a start/stop toggle that
// publishes the run flag, and a WebSocket mirroring the wearable's status.
func RunController() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDController)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("controller: connected to MQTT broker at %s", cfg.MQTTBroker)

	var (
		mu         sync.RWMutex
		lastStatus []byte
		running    bool
	)
	hub := newWSHub()

	// Mirror the wearable's status stream to the browser.
	statusToken := client.Subscribe(cfg.TopicStatus, 0, func(_ mqtt.Client, msg mqtt.Message) {
		payload := append([]byte(nil), msg.Payload()...)
		mu.Lock()
		lastStatus = payload
		mu.Unlock()
		hub.broadcast(payload)
	})
	statusToken.Wait()
	if statusToken.Error() != nil {
		return statusToken.Error()
	}
	log.Printf("controller: subscribed to %s", cfg.TopicStatus)

	// Track the run flag, including toggles issued by other controllers.
	runToken := client.Subscribe(cfg.TopicRun, 0, func(_ mqtt.Client, msg mqtt.Message) {
		v, ok := remote.DecodeRun(msg.Payload())
		if !ok {
			return
		}
		mu.Lock()
		running = v
		mu.Unlock()
	})
	runToken.Wait()
	if runToken.Error() != nil {
		return runToken.Error()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/api/run", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			IsRunning *bool `json:"isRunning"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsRunning == nil {
			http.Error(w, "body must be {\"isRunning\": bool}", http.StatusBadRequest)
			return
		}

		// Fire-and-forget, like every run-flag send.
		token := client.Publish(cfg.TopicRun, 0, false, remote.EncodeRun(*req.IsRunning))
		token.Wait()
		if token.Error() != nil {
			log.Printf("controller: run publish dropped: %v", token.Error())
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		payload := lastStatus
		isRunning := running
		mu.RUnlock()

		if payload == nil {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		var st json.RawMessage = payload
		if err := json.NewEncoder(w).Encode(struct {
			IsRunning bool            `json:"isRunning"`
			Status    json.RawMessage `json:"status"`
		}{IsRunning: isRunning, Status: st}); err != nil {
			log.Printf("controller: json encode error: %v", err)
		}
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		payload := lastStatus
		mu.RUnlock()
		hub.serve(w, r, payload)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(indexHTML))
	})

	log.Printf("controller: web server listening on %s", cfg.ControllerAddr)
	return http.ListenAndServe(cfg.ControllerAddr, mux)
}

// wsHub pushes status payloads to every connected browser.
type wsHub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]bool
	upgrader websocket.Upgrader
}

func newWSHub() *wsHub {
	return &wsHub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			// The controller serves a single operator on a lab network.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *wsHub) serve(w http.ResponseWriter, r *http.Request, initial []byte) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("controller: websocket upgrade error: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	if initial != nil {
		if err := conn.WriteMessage(websocket.TextMessage, initial); err != nil {
			h.dropLocked(conn)
		}
	}
	h.mu.Unlock()

	// Drain inbound frames so pings/closes are handled.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.mu.Lock()
				h.dropLocked(conn)
				h.mu.Unlock()
				return
			}
		}
	}()
}

func (h *wsHub) broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.dropLocked(conn)
		}
	}
}

func (h *wsHub) dropLocked(conn *websocket.Conn) {
	if h.clients[conn] {
		delete(h.clients, conn)
		conn.Close()
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Gesture Grid Controller</title>
<style>
  body { font-family: sans-serif; max-width: 28em; margin: 3em auto; }
  button { font-size: 1.4em; padding: 0.6em 2em; }
  #status { margin-top: 1.5em; color: #444; white-space: pre; }
</style>
</head>
<body>
<h1>Gesture Grid</h1>
<button id="toggle">Start</button>
<div id="status">waiting for wearable...</div>
<script>
let running = false;
const btn = document.getElementById('toggle');
const status = document.getElementById('status');

btn.onclick = async () => {
  running = !running;
  btn.textContent = running ? 'Stop' : 'Start';
  await fetch('/api/run', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({isRunning: running}),
  });
};

const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
ws.onmessage = (ev) => {
  const st = JSON.parse(ev.data);
  status.textContent = 'state: ' + st.state +
    '\nshape: ' + st.shape.rows + 'x' + st.shape.cols +
    '\ntrial: ' + st.iteration +
    '\ncode: ' + st.code;
};
</script>
</body>
</html>
`
