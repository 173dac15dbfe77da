package player

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lectern-cli/lectern/constant"
	"github.com/lectern-cli/lectern/log"
	"github.com/lectern-cli/lectern/playback"
	"github.com/lectern-cli/lectern/where"
	"github.com/samber/mo"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	eventBuffer       = 64
)

// entry tracks one playlist entry mpv reported, keyed by playlist_entry_id.
type entry struct {
	tag       mo.Option[playback.Tag]
	loaded    bool
	announced bool
}

// MPV is a playback.Output backed by a single headless mpv process.
// The process is started on the first Load and reused for every later one.
type MPV struct {
	binary     string
	rate       float64
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	done       chan struct{} // closed by Close
	mu         sync.Mutex    // protects socket writes

	listener *EventListener
	events   chan playback.Event

	// guarded by stateMu; written by Load and by the listener goroutine
	stateMu  sync.Mutex
	entries  map[int64]*entry
	current  int64
	pending  mo.Option[playback.Tag]
	duration float64
}

// NewMPV creates an output that runs binary (defaults to "mpv" from PATH).
// Nothing is started until the first Load.
func NewMPV(binary string) *MPV {
	if binary == "" {
		binary = "mpv"
	}
	return &MPV{
		binary:  binary,
		exited:  make(chan struct{}),
		done:    make(chan struct{}),
		events:  make(chan playback.Event, eventBuffer),
		entries: make(map[int64]*entry),
	}
}

// Events returns the tagged event stream.
func (m *MPV) Events() <-chan playback.Event {
	return m.events
}

// Load replaces whatever is playing with the tag's locator. Playback stays
// paused until Play.
func (m *MPV) Load(tag playback.Tag) error {
	target, err := sanitizeMediaTarget(tag.Locator)
	if err != nil {
		return playback.NewError(playback.KindUnsupportedFormat, tag.Locator, err)
	}

	if !m.IsRunning() {
		if err := m.start(); err != nil {
			return playback.NewError(playback.KindDevice, tag.Locator, err)
		}
	}

	m.stateMu.Lock()
	m.pending = mo.Some(tag)
	m.duration = 0
	m.stateMu.Unlock()

	if err := m.set("pause", true); err != nil {
		log.Warnf("mpv: pause before load: %v", err)
	}

	data, err := m.sendCommand([]interface{}{"loadfile", target, "replace"})
	if err != nil {
		return playback.NewError(playback.KindDevice, tag.Locator, err)
	}

	if id, ok := entryID(data); ok {
		m.bind(id, tag)
	}

	return nil
}

// Play resumes output.
func (m *MPV) Play() error {
	return m.set("pause", false)
}

// Pause suspends output.
func (m *MPV) Pause() error {
	return m.set("pause", true)
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand([]interface{}{"seek", seconds, "absolute"})
	return err
}

// SetRate changes the playback speed. mpv keeps the pitch by default.
// A rate set before the first Load is passed on the command line.
func (m *MPV) SetRate(rate float64) error {
	m.rate = rate
	if !m.IsRunning() {
		return nil
	}
	return m.set("speed", rate)
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" || m.cmd == nil {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]interface{}{"get_property", "pid"})
	return err == nil
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	select {
	case <-m.done:
		return nil
	default:
		close(m.done)
	}

	if m.listener != nil {
		m.listener.Stop()
	}

	if m.socketPath == "" || m.cmd == nil {
		return nil
	}

	_, _ = m.sendCommand([]interface{}{"quit"})

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)

	return nil
}

func (m *MPV) start() error {
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("%s-%x.sock", constant.Lectern, randomBytes))
	}

	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--no-video",
		"--idle=yes",
		"--keep-open=yes",
		"--pause=yes",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
	}

	if m.rate > 0 {
		args = append(args, fmt.Sprintf("--speed=%g", m.rate))
	}

	m.cmd = exec.Command(m.binary, args...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	m.exited = make(chan struct{})
	go func(cmd *exec.Cmd, exited chan struct{}) {
		_ = cmd.Wait()
		close(exited)
	}(m.cmd, m.exited)

	if err := m.waitForSocket(); err != nil {
		if m.cmd.Process != nil {
			select {
			case <-m.exited:
			default:
				log.Warnf("killing mpv: socket never became ready")
				_ = m.cmd.Process.Kill()
			}
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.listener = NewEventListener(m.socketPath, m.handle)
	if err := m.listener.Start(); err != nil {
		return err
	}

	go m.watchExit(m.exited)
	return nil
}

// watchExit reports an unexpected mpv exit as a device failure of whatever was playing.
func (m *MPV) watchExit(exited <-chan struct{}) {
	select {
	case <-m.done:
		return
	case <-exited:
	}

	if tag, ok := m.currentTag(); ok {
		m.emit(playback.Failed(tag, playback.KindDevice, errors.New("mpv exited")))
	}
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

func (m *MPV) set(property string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// bind attaches tag to a playlist entry once loadfile reports its id.
func (m *MPV) bind(id int64, tag playback.Tag) {
	m.stateMu.Lock()
	e := m.entry(id)
	e.tag = mo.Some(tag)
	if m.pending.OrEmpty() == tag {
		m.pending = mo.None[playback.Tag]()
	}
	announce := e.loaded && !e.announced
	e.announced = e.announced || announce
	m.stateMu.Unlock()

	if announce {
		m.emit(playback.Ready(tag))
	}
}

// entry returns the entry for id, creating it. stateMu must be held.
func (m *MPV) entry(id int64) *entry {
	e, ok := m.entries[id]
	if !ok {
		e = &entry{}
		m.entries[id] = e
	}
	return e
}

func (m *MPV) currentTag() (playback.Tag, bool) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	e, ok := m.entries[m.current]
	if !ok {
		return playback.Tag{}, false
	}
	return e.tag.Get()
}

// emit forwards ev to the host. Progress is dropped when the host falls
// behind; every other event waits for room.
func (m *MPV) emit(ev playback.Event) {
	if ev.Kind == playback.EventProgress {
		select {
		case m.events <- ev:
		default:
		}
		return
	}

	select {
	case m.events <- ev:
	case <-m.done:
	}
}

// sanitizeMediaTarget validates that a locator is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// URLs must not start with - or mpv reads them as flags
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "file":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}
