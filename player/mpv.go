package player

import (
	"crypto/rand"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/copypastelearn/cpl/constant"
	"github.com/copypastelearn/cpl/log"
	"github.com/copypastelearn/cpl/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV is an Engine backed by an mpv process.
type MPV struct {
	binary     string
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	mu         sync.Mutex
	events     *EventListener
}

// NewMPV returns an MPV that runs binary. Nothing is started until Launch.
func NewMPV(binary string) *MPV {
	if binary == "" {
		binary = "mpv"
	}
	return &MPV{
		binary: binary,
		exited: make(chan struct{}),
	}
}

// Launch starts an idle mpv window and begins delivering events to l.
func (m *MPV) Launch(l Listener) error {
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("%s-%x.sock", constant.App, randomBytes))
	}

	// Only what playback control needs; the user's mpv.conf decides the rest.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--input-ipc-server=" + m.socketPath,
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=yes",
		"--title=" + constant.App,
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
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	return m.listen(l)
}

func (m *MPV) listen(l Listener) error {
	m.events = NewEventListener(m.socketPath, newTracker(l))
	if err := m.events.Start(); err != nil {
		return err
	}

	if l.OnExit != nil {
		go func() {
			<-m.exited
			m.events.Stop()
			l.OnExit()
		}()
	}
	return nil
}

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

// Load implements Engine.
func (m *MPV) Load(uri, title string, start float64) error {
	target, err := sanitizeMediaTarget(uri)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if err := m.Set("start", strconv.FormatFloat(start, 'f', 3, 64)); err != nil {
		return err
	}
	if err := m.Set("force-media-title", sanitizeTitle(title)); err != nil {
		return err
	}
	if _, err := m.sendCommand("loadfile", target, "replace"); err != nil {
		return err
	}
	return m.SetPaused(false)
}

// SetPaused implements Engine.
func (m *MPV) SetPaused(paused bool) error {
	return m.Set("pause", paused)
}

// Seek implements Engine.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand("seek", seconds, "absolute")
	return err
}

// SetRate implements Engine.
func (m *MPV) SetRate(rate float64) error {
	return m.Set("speed", rate)
}

// Stop implements Engine.
func (m *MPV) Stop() error {
	_, err := m.sendCommand("stop")
	return err
}

// SetKeepAwake toggles mpv's screensaver inhibition.
func (m *MPV) SetKeepAwake(on bool) error {
	return m.Set("stop-screensaver", on)
}

// SetFullscreen toggles the fullscreen (landscape) presentation.
func (m *MPV) SetFullscreen(on bool) error {
	return m.Set("fullscreen", on)
}

// Running reports whether the process is alive and answering.
func (m *MPV) Running() bool {
	if m.socketPath == "" {
		return false
	}
	select {
	case <-m.exited:
		return false
	default:
	}
	_, err := m.sendCommand("get_property", "pid")
	return err == nil
}

// Wait returns a channel closed when mpv exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// Set assigns an mpv property.
func (m *MPV) Set(property string, value any) error {
	_, err := m.sendCommand("set_property", property, value)
	return err
}

// Close quits mpv, killing it if it does not exit promptly.
func (m *MPV) Close() error {
	if m.events != nil {
		m.events.Stop()
	}
	if m.socketPath == "" {
		return nil
	}

	if m.cmd != nil {
		_, _ = m.sendCommand("quit")
		select {
		case <-m.exited:
		case <-time.After(3 * time.Second):
			_ = killProcess(m.cmd)
		}
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// sanitizeMediaTarget keeps anything that could be read as a flag away from mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}
	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	u, err := url.Parse(l)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return l, nil
	default:
		return "", fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
