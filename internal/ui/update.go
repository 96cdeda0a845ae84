package ui

import (
	"time"

	"github.com/Cyclone1070/mdq/internal/config"
	"github.com/Cyclone1070/mdq/internal/mdquery"
	"github.com/Cyclone1070/mdq/internal/ui/models"
	"github.com/Cyclone1070/mdq/internal/ui/views"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// SpinnerFactory creates a new spinner
type SpinnerFactory func() spinner.Model

// watchModel implements tea.Model
type watchModel struct {
	state  models.State
	styles views.Styles

	resultsChan <-chan []mdquery.Item
	updateChan  <-chan updateMsg
	statusChan  <-chan statusMsg
	commandChan chan<- UICommand
	readyChan   chan<- struct{}

	now func() time.Time
}

func newWatchModel(channels *Channels, cfg config.UIConfig, expression string, spinnerFactory SpinnerFactory) watchModel {
	return watchModel{
		state: models.State{
			Expression:      expression,
			StatusPhase:     models.PhaseRunning,
			Spinner:         spinnerFactory(),
			MaxVisibleItems: cfg.MaxVisibleItems,
			MaxEvents:       cfg.MaxEvents,
		},
		styles:      views.NewStyles(cfg),
		resultsChan: channels.Results,
		updateChan:  channels.Updates,
		statusChan:  channels.Status,
		commandChan: channels.Commands,
		readyChan:   channels.Ready,
		now:         time.Now,
	}
}

// Internal messages
type resultsReceivedMsg []mdquery.Item
type updateReceivedMsg updateMsg
type statusUpdateMsg statusMsg

// Init initializes the model
func (m watchModel) Init() tea.Cmd {
	if m.readyChan != nil {
		close(m.readyChan)
	}
	return tea.Batch(
		m.state.Spinner.Tick,
		listenForResults(m.resultsChan),
		listenForUpdates(m.updateChan),
		listenForStatus(m.statusChan),
	)
}

// Update handles messages
func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		if rows := msg.Height - m.state.MaxEvents - 6; rows > 0 && rows < m.state.MaxVisibleItems {
			m.state.MaxVisibleItems = rows
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, cmd

	case resultsReceivedMsg:
		m.state.SetItems(msg)
		m.state.Events = nil
		m.state.StatusPhase = models.PhaseWatching
		m.state.StatusMessage = ""
		return m, listenForResults(m.resultsChan)

	case updateReceivedMsg:
		m.state.Apply(msg.updateType, msg.items, m.now())
		return m, listenForUpdates(m.updateChan)

	case statusUpdateMsg:
		m.state.StatusPhase = msg.phase
		m.state.StatusMessage = msg.message
		return m, listenForStatus(m.statusChan)
	}

	return m, nil
}

// View renders the UI
func (m watchModel) View() string {
	return views.RenderRoot(m.state, m.styles)
}

func (m watchModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "r":
		select {
		case m.commandChan <- UICommand{Type: "rerun"}:
			m.state.StatusPhase = models.PhaseRunning
			m.state.StatusMessage = "Rerunning"
			return m, m.state.Spinner.Tick
		default:
		}
	case "c":
		m.state.Events = nil
	}
	return m, nil
}

func listenForResults(ch <-chan []mdquery.Item) tea.Cmd {
	return func() tea.Msg {
		return resultsReceivedMsg(<-ch)
	}
}

func listenForUpdates(ch <-chan updateMsg) tea.Cmd {
	return func() tea.Msg {
		return updateReceivedMsg(<-ch)
	}
}

func listenForStatus(ch <-chan statusMsg) tea.Cmd {
	return func() tea.Msg {
		return statusUpdateMsg(<-ch)
	}
}
