package player

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/lectern-cli/lectern/log"
	"github.com/lectern-cli/lectern/playback"
	"github.com/samber/mo"
)

// EventCallback is the function signature for mpv event notifications.
// Property changes pass the property name and value; other events pass the
// event name and the whole decoded message.
type EventCallback func(name string, data interface{})

// observed are the properties the listener subscribes to.
var observed = []string{"time-pos", "duration", "eof-reached"}

// EventListener provides real-time mpv event monitoring via observe_property.
type EventListener struct {
	socketPath string
	conn       net.Conn
	callback   EventCallback
	stopCh     chan struct{}
	mu         sync.Mutex
	listening  bool
}

// NewEventListener creates a new event listener for the given socket.
func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
		stopCh:     make(chan struct{}),
	}
}

// Start subscribes to the observed properties and starts the read loop.
// Subscriptions are made on the listening connection so that mpv delivers
// the notifications there.
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
		payload, err := json.Marshal(ipcCommand{Command: []interface{}{"observe_property", i + 1, name}})
		if err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	el.listening = true

	go el.readLoop()

	log.Infof("mpv event listener started on %s (observing: %s)", el.socketPath, strings.Join(observed, ", "))
	return nil
}

// Stop terminates the event listener.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	close(el.stopCh)
	if el.conn != nil {
		el.conn.Close()
	}
	el.listening = false
}

// readLoop reads newline-delimited JSON events from the persistent connection.
func (el *EventListener) readLoop() {
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	buf := make([]byte, 4096)
	var remainder []byte

	for {
		select {
		case <-el.stopCh:
			return
		default:
		}

		if err := el.conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}

		n, err := el.conn.Read(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			log.Warnf("event listener read error: %v", err)
			return
		}

		data := append(remainder, buf[:n]...)
		remainder = nil

		lines := strings.Split(string(data), "\n")
		for i, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			// last incomplete line waits for the next read
			if i == len(lines)-1 && !strings.HasSuffix(string(data), "\n") {
				remainder = []byte(line)
				continue
			}

			el.processEvent(line)
		}
	}
}

// processEvent parses and dispatches a single mpv event JSON line.
// Command replies carry no "event" key and are skipped.
func (el *EventListener) processEvent(line string) {
	var event map[string]interface{}
	if err := json.Unmarshal([]byte(line), &event); err != nil {
		return
	}

	eventType, ok := event["event"].(string)
	if !ok || el.callback == nil {
		return
	}

	switch eventType {
	case "property-change":
		name, _ := event["name"].(string)
		if name != "" {
			el.callback(name, event["data"])
		}
	default:
		el.callback(eventType, event)
	}
}

// handle turns raw mpv notifications into tagged playback events.
// It runs on the listener goroutine.
func (m *MPV) handle(name string, data interface{}) {
	switch name {
	case "start-file":
		id, ok := entryID(data)
		if !ok {
			return
		}
		m.stateMu.Lock()
		m.current = id
		e := m.entry(id)
		if e.tag.IsAbsent() {
			if tag, ok := m.pending.Get(); ok {
				e.tag = mo.Some(tag)
				m.pending = mo.None[playback.Tag]()
			}
		}
		m.stateMu.Unlock()

	case "file-loaded":
		m.stateMu.Lock()
		e := m.entry(m.current)
		e.loaded = true
		tag, ok := e.tag.Get()
		announce := ok && !e.announced
		e.announced = e.announced || announce
		m.stateMu.Unlock()

		if announce {
			m.emit(playback.Ready(tag))
		}

	case "duration":
		if d, ok := data.(float64); ok {
			m.stateMu.Lock()
			m.duration = d
			m.stateMu.Unlock()
		}

	case "time-pos":
		pos, ok := data.(float64)
		if !ok {
			return
		}
		tag, ok := m.currentTag()
		if !ok {
			return
		}
		m.stateMu.Lock()
		duration := m.duration
		m.stateMu.Unlock()
		m.emit(playback.Progress(tag, pos, duration))

	case "eof-reached":
		if reached, _ := data.(bool); !reached {
			return
		}
		if tag, ok := m.currentTag(); ok {
			m.emit(playback.Ended(tag))
		}

	case "end-file":
		event, _ := data.(map[string]interface{})
		id, ok := entryID(event)
		if !ok {
			return
		}

		m.stateMu.Lock()
		e := m.entries[id]
		delete(m.entries, id)
		m.stateMu.Unlock()

		if e == nil {
			return
		}
		tag, ok := e.tag.Get()
		if !ok {
			return
		}

		reason, _ := event["reason"].(string)
		fileErr, _ := event["file_error"].(string)
		switch reason {
		case "eof":
			m.emit(playback.Ended(tag))
		case "error":
			m.emit(playback.Failed(tag, classifyFileError(fileErr), errors.New(fileErr)))
		default:
			m.emit(playback.Failed(tag, playback.KindAborted, nil))
		}
	}
}

// classifyFileError maps mpv's end-file error strings onto playback kinds.
func classifyFileError(msg string) playback.Kind {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "unrecognized file format"),
		strings.Contains(msg, "unsupported"):
		return playback.KindUnsupportedFormat
	case strings.Contains(msg, "audio output"):
		return playback.KindDevice
	case strings.Contains(msg, "no audio or video data"),
		strings.Contains(msg, "demux"),
		strings.Contains(msg, "decod"):
		return playback.KindDecode
	default:
		return playback.KindNetwork
	}
}

// entryID extracts playlist_entry_id from a loadfile reply or an event.
func entryID(data interface{}) (int64, bool) {
	fields, ok := data.(map[string]interface{})
	if !ok {
		return 0, false
	}
	id, ok := fields["playlist_entry_id"].(float64)
	if !ok {
		return 0, false
	}
	return int64(id), true
}
