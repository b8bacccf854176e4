package app

import (
	"bytes"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/comicenc/pkg/app/screens"
	"github.com/kerbaras/comicenc/pkg/services"
)

// App draws the progress of an encoding job on a terminal while the job runs.
type App struct {
	screen  *screens.EncodeScreen
	program *tea.Program
}

func NewApp(output io.Writer) *App {
	screen := screens.NewEncodeScreen()
	return &App{
		screen:  screen,
		program: tea.NewProgram(screen, tea.WithOutput(output), tea.WithInput(nil)),
	}
}

// Progress forwards volume progress to the screen. It blocks until the screen takes it.
func (a *App) Progress(p services.VolumeProgress) {
	a.program.Send(screens.ProgressMsg(p))
}

// LogWriter returns a writer whose lines are printed above the progress bar.
func (a *App) LogWriter() io.Writer {
	return &logWriter{program: a.program}
}

// Run starts job and draws its progress until it returns.
func (a *App) Run(job func() error) error {
	go func() {
		err := job()
		a.program.Send(screens.DoneMsg{Err: err})
	}()

	if _, err := a.program.Run(); err != nil {
		return err
	}
	return a.screen.Err()
}

type logWriter struct {
	program *tea.Program
}

func (w *logWriter) Write(p []byte) (int, error) {
	for _, line := range bytes.Split(bytes.TrimRight(p, "\n"), []byte("\n")) {
		w.program.Println(string(line))
	}
	return len(p), nil
}
