package tui

import (
	"github.com/copypastelearn/cpl/api"
	"github.com/copypastelearn/cpl/player"
)

// runMsg carries a scheduler callback onto the loop.
type runMsg func()

type statusMsg player.Status

type engineErrorMsg struct {
	err error
}

type engineExitMsg struct{}

type courseLoadedMsg struct {
	course api.CourseDetail
	err    error
}
