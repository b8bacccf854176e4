package screens

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/comicenc/pkg/app/components"
	"github.com/kerbaras/comicenc/pkg/services"
)

// ErrInterrupted is returned when the user stops the screen before the job is done.
var ErrInterrupted = errors.New("comicenc: interrupted")

// ProgressMsg carries the progress of one volume into the screen.
type ProgressMsg services.VolumeProgress

// DoneMsg ends the screen with the result of the job.
type DoneMsg struct {
	Err error
}

// EncodeScreen draws the volumes being built until the job is done.
type EncodeScreen struct {
	tracker *components.ProgressTracker
	width   int
	err     error
	done    bool
}

func NewEncodeScreen() *EncodeScreen {
	return &EncodeScreen{
		tracker: components.NewProgressTracker(barWidth(80)),
		width:   80,
	}
}

func (s *EncodeScreen) Init() tea.Cmd {
	return nil
}

func (s *EncodeScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.tracker.SetWidth(barWidth(s.width))

	case ProgressMsg:
		s.tracker.Update(services.VolumeProgress(msg))

	case DoneMsg:
		s.err = msg.Err
		s.done = true
		s.tracker.Clear()
		return s, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			s.err = ErrInterrupted
			s.done = true
			return s, tea.Quit
		}
	}

	return s, nil
}

func (s *EncodeScreen) View() string {
	if s.done {
		return ""
	}
	return s.tracker.Line()
}

// Err returns the error the job ended with, or ErrInterrupted if it never ended.
func (s *EncodeScreen) Err() error {
	if !s.done {
		return ErrInterrupted
	}
	return s.err
}

// barWidth keeps the bar within the terminal, leaving room for the labels.
func barWidth(termWidth int) int {
	return max(termWidth-60, 10)
}
