package events

import (
	"time"

	"github.com/tubegrab/tubegrab/internal/catalog"
)

// Stage identifies which phase of a run a ProgressMsg belongs to.
type Stage int

const (
	StageDownloading Stage = iota
	StagePostprocessing
)

func (s Stage) String() string {
	switch s {
	case StageDownloading:
		return "downloading"
	case StagePostprocessing:
		return "postprocessing"
	default:
		return "unknown"
	}
}

// Reason categorizes a failed run so the UI can show an actionable message.
type Reason int

const (
	ReasonUnknown Reason = iota
	ReasonNetwork
	ReasonInvalidURL
	ReasonInvalidSelector
	ReasonDisk
	ReasonMissingOutput
)

func (r Reason) String() string {
	switch r {
	case ReasonNetwork:
		return "network failure"
	case ReasonInvalidURL:
		return "invalid or unsupported URL"
	case ReasonInvalidSelector:
		return "requested format not available"
	case ReasonDisk:
		return "disk write failure"
	case ReasonMissingOutput:
		return "tool reported success but output file is missing"
	default:
		return "unknown error"
	}
}

// ProgressMsg is a non-terminal progress update from the worker.
// Percent is only meaningful during StageDownloading; the single
// StagePostprocessing event carries no fraction.
type ProgressMsg struct {
	RunID   string
	Stage   Stage
	Percent float64
	Message string
}

// DownloadStartedMsg is sent once when the worker begins a run.
type DownloadStartedMsg struct {
	RunID string
	URL   string
}

// DownloadSucceededMsg is the terminal event of a successful run. The
// referenced file existed and was non-empty at the moment of emission.
type DownloadSucceededMsg struct {
	RunID       string
	Title       string
	Path        string
	FormatLabel string
	MediaType   string // sniffed MIME, empty when unrecognized
	Elapsed     time.Duration
}

// DownloadFailedMsg is the terminal event of a failed run.
type DownloadFailedMsg struct {
	RunID  string
	Reason Reason
	Err    error
}

// DownloadCancelledMsg is the terminal event of a cancelled run.
type DownloadCancelledMsg struct {
	RunID string
}

// HistoryWarnMsg reports a non-fatal history persistence failure. The run it
// follows still counts as succeeded; the record was simply not saved.
type HistoryWarnMsg struct {
	RunID string
	Err   error
}

// CatalogMsg carries the parsed format catalog for a URL, or the error that
// prevented fetching it.
type CatalogMsg struct {
	URL     string
	Options []catalog.Format
	Err     error
}
