package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tubegrab/tubegrab/internal/catalog"
	"github.com/tubegrab/tubegrab/internal/events"
	"github.com/tubegrab/tubegrab/internal/history"
	"github.com/tubegrab/tubegrab/internal/orchestrator"
)

type UIState int

const (
	InputState UIState = iota // entering a URL
	FetchingState             // waiting for the format catalog
	SelectState               // picking a format
	DownloadState             // a run is live
)

// historyLoadedMsg carries a refreshed history listing into the model.
type historyLoadedMsg struct {
	records []history.CompletedDownload
	err     error
}

// RootModel is the single-screen TUI: URL entry, format selection, live
// progress and the completed-downloads list. All download work happens in
// the orchestrator; the model only renders its event stream.
type RootModel struct {
	orch        *orchestrator.Orchestrator
	downloadDir string

	state  UIState
	width  int
	height int

	urlInput textinput.Model
	spin     spinner.Model
	bar      progress.Model

	options []catalog.Format
	cursor  int

	runID   string
	percent float64
	stage   events.Stage

	status      string
	statusStyle StatusKind

	records []history.CompletedDownload
}

// StatusKind selects the rendering of the status line.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusError
	StatusWarning
)

// InitialRootModel builds the model around an orchestrator and the directory
// downloads are written to.
func InitialRootModel(orch *orchestrator.Orchestrator, downloadDir string) RootModel {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://www.youtube.com/watch?v=..."
	urlInput.Focus()
	urlInput.Width = InputWidth
	urlInput.Prompt = ""

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = SelectedItemStyle

	return RootModel{
		orch:        orch,
		downloadDir: downloadDir,
		state:       InputState,
		urlInput:    urlInput,
		spin:        spin,
		bar:         progress.New(progress.WithDefaultGradient()),
	}
}

func (m RootModel) Init() tea.Cmd {
	return loadHistory(m.orch)
}

// fetchCatalog runs the catalog fetch off the interactive loop; the result
// comes back as an events.CatalogMsg.
func fetchCatalog(orch *orchestrator.Orchestrator, url string) tea.Cmd {
	return func() tea.Msg {
		options, err := orch.FetchCatalog(context.Background(), url)
		return events.CatalogMsg{URL: url, Options: options, Err: err}
	}
}

func loadHistory(orch *orchestrator.Orchestrator) tea.Cmd {
	return func() tea.Msg {
		records, err := orch.History(context.Background())
		return historyLoadedMsg{records: records, err: err}
	}
}
