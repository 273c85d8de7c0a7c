// Package ui holds small bubbletea helpers shared by screens.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/copypastelearn/cpl/style"
)

// NoticeLifetime is how long a notice stays on screen.
const NoticeLifetime = 3 * time.Second

// Notice displays one short-lived message under the main content.
type Notice struct {
	text string
	seq  int
}

type noticeMsg struct {
	text string
}

type clearNoticeMsg struct {
	seq int
}

// Notify returns a command that shows text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg{text: text}
	}
}

// Text returns the notice currently shown.
func (n *Notice) Text() string {
	return n.text
}

// Update handles notice messages and ignores everything else.
func (n *Notice) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case noticeMsg:
		n.text = msg.text
		n.seq++
		seq := n.seq
		return tea.Tick(NoticeLifetime, func(time.Time) tea.Msg {
			return clearNoticeMsg{seq: seq}
		})
	case clearNoticeMsg:
		if msg.seq == n.seq {
			n.text = ""
		}
	}
	return nil
}

// View appends the notice to content.
func (n *Notice) View(content string) string {
	if n.text == "" {
		return content
	}
	return content + "\n" + style.Faint(n.text)
}
