package tui

import (
	"fmt"
	"strings"

	"github.com/tubegrab/tubegrab/internal/events"
)

// View renders the current screen
func (m RootModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("tubegrab"))
	b.WriteString("\n\n")

	switch m.state {
	case InputState:
		b.WriteString(m.viewInput())
	case FetchingState:
		b.WriteString(m.viewFetching())
	case SelectState:
		b.WriteString(m.viewSelect())
	case DownloadState:
		b.WriteString(m.viewDownload())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.statusLine())
		b.WriteString("\n")
	}

	if m.state == InputState && len(m.records) > 0 {
		b.WriteString("\n")
		b.WriteString(m.viewHistory())
	}

	b.WriteString("\n")
	b.WriteString(m.helpLine())

	return AppStyle.Render(b.String())
}

func (m RootModel) viewInput() string {
	var b strings.Builder
	b.WriteString(LabelStyle.Render("Video URL"))
	b.WriteString("\n")
	b.WriteString(PanelStyle.Render(m.urlInput.View()))
	b.WriteString("\n")
	return b.String()
}

func (m RootModel) viewFetching() string {
	return fmt.Sprintf("%s fetching available formats...\n", m.spin.View())
}

func (m RootModel) viewSelect() string {
	var b strings.Builder
	b.WriteString(LabelStyle.Render("Select a format"))
	b.WriteString("\n\n")

	// Keep the cursor visible inside a fixed-height window.
	start := 0
	if m.cursor >= MaxVisibleOptions {
		start = m.cursor - MaxVisibleOptions + 1
	}
	end := start + MaxVisibleOptions
	if end > len(m.options) {
		end = len(m.options)
	}

	for i := start; i < end; i++ {
		opt := m.options[i]
		line := opt.Label
		if i == m.cursor {
			b.WriteString(SelectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(ItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if end < len(m.options) {
		b.WriteString(HelpStyle.Render(fmt.Sprintf("  ... %d more", len(m.options)-end)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m RootModel) viewDownload() string {
	var b strings.Builder

	switch m.stage {
	case events.StagePostprocessing:
		b.WriteString(fmt.Sprintf("%s postprocessing...\n", m.spin.View()))
	default:
		b.WriteString(fmt.Sprintf("%s downloading  %.1f%%\n\n", m.spin.View(), m.percent))
		b.WriteString(m.bar.View())
		b.WriteString("\n")
	}

	return b.String()
}

func (m RootModel) viewHistory() string {
	var b strings.Builder
	b.WriteString(LabelStyle.Render("Recent downloads"))
	b.WriteString("\n")

	// Newest first, capped.
	shown := 0
	for i := len(m.records) - 1; i >= 0 && shown < MaxVisibleHistory; i-- {
		rec := m.records[i]
		b.WriteString(ItemStyle.Render(fmt.Sprintf("  %s  %s", rec.CompletedAt.Format("2006-01-02 15:04"), rec.Title)))
		b.WriteString("\n")
		shown++
	}

	return b.String()
}

func (m RootModel) statusLine() string {
	switch m.statusStyle {
	case StatusSuccess:
		return SuccessStyle.Render(m.status)
	case StatusError:
		return ErrorStyle.Render(m.status)
	case StatusWarning:
		return WarningStyle.Render(m.status)
	default:
		return LabelStyle.Render(m.status)
	}
}

func (m RootModel) helpLine() string {
	var keys string
	switch m.state {
	case InputState:
		keys = "enter: fetch formats • ctrl+v: paste • ctrl+c: quit"
	case FetchingState:
		keys = "esc: back • ctrl+c: quit"
	case SelectState:
		keys = "↑/↓: move • enter: download • esc: back • ctrl+c: quit"
	case DownloadState:
		keys = "x: cancel • ctrl+c: quit"
	}
	return HelpStyle.Render(keys)
}
