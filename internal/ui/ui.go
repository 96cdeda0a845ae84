// Package ui implements the live terminal view for watched queries.
package ui

import (
	"github.com/Cyclone1070/mdq/internal/config"
	"github.com/Cyclone1070/mdq/internal/mdquery"
	"github.com/Cyclone1070/mdq/internal/ui/models"
	tea "github.com/charmbracelet/bubbletea"
)

// UICommand is a request from the UI to the program driving the query.
type UICommand struct {
	Type string // "rerun"
}

// WatchUI shows a live result set using Bubble Tea.
type WatchUI struct {
	program *tea.Program

	// Query -> UI channels
	resultsChan chan []mdquery.Item
	updateChan  chan updateMsg
	statusChan  chan statusMsg

	// UI -> Query
	commandChan chan UICommand

	readyChan chan struct{}
	doneChan  chan struct{}
}

type updateMsg struct {
	updateType mdquery.UpdateType
	items      []mdquery.Item
}

type statusMsg struct {
	phase   string
	message string
}

// Channels holds the channels connecting the model to its driver.
type Channels struct {
	Results  chan []mdquery.Item
	Updates  chan updateMsg
	Status   chan statusMsg
	Commands chan UICommand
	Ready    chan struct{}
	Done     chan struct{}
}

// NewChannels creates the channels with default buffers.
func NewChannels() *Channels {
	return &Channels{
		Results:  make(chan []mdquery.Item, 1),
		Updates:  make(chan updateMsg, 64),
		Status:   make(chan statusMsg, 10),
		Commands: make(chan UICommand, 10),
		Ready:    make(chan struct{}),
		Done:     make(chan struct{}),
	}
}

// NewWatchUI creates the UI for expression.
func NewWatchUI(channels *Channels, cfg *config.Config, expression string, spinnerFactory SpinnerFactory) *WatchUI {
	u := &WatchUI{
		resultsChan: channels.Results,
		updateChan:  channels.Updates,
		statusChan:  channels.Status,
		commandChan: channels.Commands,
		readyChan:   channels.Ready,
		doneChan:    channels.Done,
	}
	model := newWatchModel(channels, cfg.UI, expression, spinnerFactory)
	u.program = tea.NewProgram(model, tea.WithAltScreen())
	return u
}

// Start runs the program until the user quits.
func (u *WatchUI) Start() error {
	defer close(u.doneChan)
	_, err := u.program.Run()
	return err
}

// droppedMessage is shown once updates arrive faster than the UI drains them.
const droppedMessage = "updates dropped, press r to rerun"

// Listener returns an update listener that forwards updates to the UI. It
// never blocks: when the update buffer is full the batch is dropped and the
// status bar asks for a rerun. Updates are ignored once the UI has exited.
func (u *WatchUI) Listener() mdquery.UpdateListener {
	return func(updateType mdquery.UpdateType, items []mdquery.Item) {
		select {
		case <-u.doneChan:
			return
		default:
		}
		select {
		case u.updateChan <- updateMsg{updateType: updateType, items: items}:
		default:
			u.WriteStatus(models.PhaseWatching, droppedMessage)
		}
	}
}

// WriteResults replaces the displayed result set.
func (u *WatchUI) WriteResults(items []mdquery.Item) {
	select {
	case u.resultsChan <- items:
	case <-u.doneChan:
	}
}

// WriteStatus updates the status bar
func (u *WatchUI) WriteStatus(phase string, message string) {
	select {
	case u.statusChan <- statusMsg{phase: phase, message: message}:
	default:
		// Drop if channel is full
	}
}

// Commands returns the command channel
func (u *WatchUI) Commands() <-chan UICommand {
	return u.commandChan
}

// Ready returns a channel that is closed when the UI is ready to accept updates
func (u *WatchUI) Ready() <-chan struct{} {
	return u.readyChan
}

// Done returns a channel that is closed once the UI has exited.
func (u *WatchUI) Done() <-chan struct{} {
	return u.doneChan
}
