package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/copypastelearn/cpl/log"
)

// observed lists the properties mpv reports changes of.
var observed = []string{
	"time-pos",
	"duration",
	"pause",
	"paused-for-cache",
	"seeking",
	"speed",
	"eof-reached",
}

// EventListener keeps a connection open to mpv and forwards every message it receives.
type EventListener struct {
	socketPath string
	conn       net.Conn
	handle     func(ipcMessage)
	mu         sync.Mutex
	listening  bool
}

type messageHandler interface {
	handle(ipcMessage)
}

// NewEventListener returns a listener for the mpv socket at socketPath.
func NewEventListener(socketPath string, h messageHandler) *EventListener {
	return &EventListener{socketPath: socketPath, handle: h.handle}
}

// Start subscribes to property changes and starts the read loop.
// Observations are bound to the connection, so they are requested on the one that is read.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		if err := writeCommand(conn, requestIDs.Add(1), []any{"observe_property", i + 1, name}); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true
	go el.readLoop(conn)

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the connection, ending the read loop.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}
	el.listening = false
	_ = el.conn.Close()
}

func (el *EventListener) readLoop(conn net.Conn) {
	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				log.Warnf("event listener read error: %v", err)
			}
			return
		}

		var msg ipcMessage
		if err := json.Unmarshal(line, &msg); err != nil || msg.Event == "" {
			continue
		}
		el.handle(msg)
	}
}
