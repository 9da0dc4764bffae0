package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"quill/internal/diag"
	"quill/internal/driver"
	"quill/internal/pipeline"
	"quill/internal/ui"
)

type generateOutcome struct {
	program driver.Program
	bag     *diag.Bag
	err     error
}

// runGenerateWithUI гонит конвейер в горутине, а события прогресса — в
// Bubble Tea модель. Закрытие канала событий завершает интерфейс.
func runGenerateWithUI(title string, names []string, run func(sink pipeline.ProgressSink) generateOutcome) generateOutcome {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan generateOutcome, 1)

	go func() {
		outcomeCh <- run(pipeline.ChannelSink{Ch: events})
		close(events)
	}()

	model := ui.NewProgressModel(title, names, events)
	prog := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := prog.Run()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		outcome.err = uiErr
	}
	return outcome
}
