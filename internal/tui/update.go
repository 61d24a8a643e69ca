package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tubegrab/tubegrab/internal/catalog"
	"github.com/tubegrab/tubegrab/internal/events"
	"github.com/tubegrab/tubegrab/internal/orchestrator"
	"github.com/tubegrab/tubegrab/internal/worker"
)

// Update handles messages and updates the model
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = msg.Width - ProgressBarWidthOffset
		return m, nil

	case events.CatalogMsg:
		if m.state != FetchingState {
			// A stale fetch finished after the user moved on.
			return m, nil
		}
		if msg.Err != nil {
			m.state = InputState
			m.urlInput.Focus()
			m.setStatus(msg.Err.Error(), StatusError)
			return m, nil
		}
		m.options = msg.Options
		m.cursor = 0
		m.state = SelectState
		m.setStatus(fmt.Sprintf("%d formats available", len(msg.Options)), StatusInfo)
		return m, nil

	case events.DownloadStartedMsg:
		m.runID = msg.RunID
		m.percent = 0
		m.stage = events.StageDownloading
		m.setStatus("downloading", StatusInfo)
		cmds = append(cmds, m.spin.Tick)

	case events.ProgressMsg:
		if msg.RunID != m.runID {
			return m, nil
		}
		m.stage = msg.Stage
		if msg.Stage == events.StageDownloading {
			m.percent = msg.Percent
			cmds = append(cmds, m.bar.SetPercent(msg.Percent/100))
		} else {
			m.setStatus("postprocessing: "+msg.Message, StatusInfo)
		}

	case events.DownloadSucceededMsg:
		if msg.RunID != m.runID {
			return m, nil
		}
		m.state = InputState
		m.urlInput.SetValue("")
		m.urlInput.Focus()
		m.setStatus(fmt.Sprintf("saved %s (%s)", msg.Title, msg.FormatLabel), StatusSuccess)
		cmds = append(cmds, loadHistory(m.orch))

	case events.DownloadFailedMsg:
		if msg.RunID != m.runID {
			return m, nil
		}
		m.state = InputState
		m.urlInput.Focus()
		m.setStatus(fmt.Sprintf("failed: %s (%v)", msg.Reason, msg.Err), StatusError)

	case events.DownloadCancelledMsg:
		if msg.RunID != m.runID {
			return m, nil
		}
		m.state = InputState
		m.urlInput.Focus()
		m.setStatus("download cancelled", StatusWarning)

	case events.HistoryWarnMsg:
		m.setStatus(fmt.Sprintf("download saved but history not recorded: %v", msg.Err), StatusWarning)

	case historyLoadedMsg:
		if msg.err == nil {
			m.records = msg.records
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Propagate to child components
	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(msg)
	cmds = append(cmds, cmd)

	newBar, cmd := m.bar.Update(msg)
	if b, ok := newBar.(progress.Model); ok {
		m.bar = b
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m RootModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.orch.Cancel()
		return m, tea.Quit
	}

	switch m.state {
	case InputState:
		switch key {
		case "enter":
			url := strings.TrimSpace(m.urlInput.Value())
			if url == "" {
				m.setStatus("enter a URL first", StatusWarning)
				return m, nil
			}
			m.state = FetchingState
			m.urlInput.Blur()
			m.setStatus("fetching formats", StatusInfo)
			return m, tea.Batch(m.spin.Tick, fetchCatalog(m.orch, url))
		case "ctrl+v":
			if text, err := clipboard.ReadAll(); err == nil {
				m.urlInput.SetValue(strings.TrimSpace(text))
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.urlInput, cmd = m.urlInput.Update(msg)
		return m, cmd

	case FetchingState:
		if key == "esc" {
			m.state = InputState
			m.urlInput.Focus()
			m.setStatus("", StatusInfo)
		}
		return m, nil

	case SelectState:
		switch key {
		case "esc", "q":
			m.state = InputState
			m.urlInput.Focus()
			return m, nil
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case "enter":
			return m.startDownload()
		}
		return m, nil

	case DownloadState:
		if key == "x" || key == "esc" {
			m.orch.Cancel()
			m.setStatus("cancelling", StatusWarning)
		}
		return m, nil
	}

	return m, nil
}

func (m RootModel) startDownload() (tea.Model, tea.Cmd) {
	if len(m.options) == 0 {
		return m, nil
	}
	chosen := m.options[m.cursor]

	req := worker.Request{
		URL:         strings.TrimSpace(m.urlInput.Value()),
		Selector:    catalog.Selector(chosen),
		FormatLabel: chosen.Label,
		Dir:         m.downloadDir,
	}

	if _, err := m.orch.Start(req); err != nil {
		if err == orchestrator.ErrBusy {
			m.setStatus("another download is still running", StatusWarning)
		} else {
			m.setStatus(err.Error(), StatusError)
		}
		return m, nil
	}

	m.state = DownloadState
	m.percent = 0
	return m, tea.Batch(m.spin.Tick, m.bar.SetPercent(0))
}

func (m *RootModel) setStatus(text string, kind StatusKind) {
	m.status = text
	m.statusStyle = kind
}
