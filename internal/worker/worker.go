package worker

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/h2non/filetype"

	"github.com/tubegrab/tubegrab/internal/events"
	"github.com/tubegrab/tubegrab/internal/provider"
	"github.com/tubegrab/tubegrab/internal/utils"
)

// Status is the lifecycle state of one worker run.
type Status int32

const (
	StatusIdle Status = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
	StatusCancelled
)

func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusCancelled
}

// Request describes one download. Immutable for the life of a run.
type Request struct {
	URL         string
	Selector    string
	FormatLabel string
	Dir         string
}

var (
	ErrInvalidURL      = errors.New("invalid URL")
	ErrInvalidSelector = errors.New("empty format selector")
)

// Validate rejects requests that must not start a run at all.
func (r Request) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return ErrInvalidURL
	}
	parsed, err := url.Parse(r.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ErrInvalidURL
	}
	if strings.TrimSpace(r.Selector) == "" {
		return ErrInvalidSelector
	}
	return nil
}

// FetchTool is the provider boundary the worker drives. provider.Tool
// implements it; tests substitute fakes.
type FetchTool interface {
	ListFormats(ctx context.Context, url string) (string, error)
	Fetch(ctx context.Context, spec provider.FetchSpec, onUpdate func(provider.Update)) (provider.Result, error)
}

// Worker owns one download lifecycle end to end: it drives the fetch tool,
// streams progress events, verifies the output on disk and emits exactly one
// terminal event (Succeeded, Failed or Cancelled).
type Worker struct {
	ID  string
	Req Request

	tool     FetchTool
	eventsCh chan<- any
	status   atomic.Int32
}

// New creates a worker for one request. Events are emitted into eventsCh;
// the channel is owned by the caller and is not closed by the worker.
func New(id string, req Request, tool FetchTool, eventsCh chan<- any) *Worker {
	return &Worker{ID: id, Req: req, tool: tool, eventsCh: eventsCh}
}

// Status returns the current lifecycle state.
func (w *Worker) Status() Status {
	return Status(w.status.Load())
}

// Run executes the request to completion, failure or cancellation. It blocks
// and is intended to run on its own goroutine so that provider I/O never
// stalls the interactive surface. Exactly one terminal event is emitted; no
// event follows it.
func (w *Worker) Run(ctx context.Context) {
	if !w.status.CompareAndSwap(int32(StatusIdle), int32(StatusRunning)) {
		// A worker runs once; a new request needs a new worker.
		return
	}

	started := time.Now()
	w.emit(events.DownloadStartedMsg{RunID: w.ID, URL: w.Req.URL})

	lastPercent := -1.0
	postprocSent := false

	result, err := w.tool.Fetch(ctx, provider.FetchSpec{
		URL:      w.Req.URL,
		Selector: w.Req.Selector,
		Dir:      w.Req.Dir,
	}, func(u provider.Update) {
		switch u.Kind {
		case provider.UpdateDownloading:
			// Percent comes straight from the tool; we only guard the
			// non-decreasing contract against odd tool output.
			if u.Percent < lastPercent {
				return
			}
			lastPercent = u.Percent
			w.emit(events.ProgressMsg{
				RunID:   w.ID,
				Stage:   events.StageDownloading,
				Percent: u.Percent,
			})
		case provider.UpdatePostprocessing:
			if postprocSent {
				return
			}
			postprocSent = true
			w.emit(events.ProgressMsg{
				RunID:   w.ID,
				Stage:   events.StagePostprocessing,
				Message: "merging streams",
			})
		}
	})

	if err != nil {
		if errors.Is(err, context.Canceled) {
			w.finish(StatusCancelled, events.DownloadCancelledMsg{RunID: w.ID})
			return
		}
		reason := provider.Classify(err)
		if errors.Is(err, context.DeadlineExceeded) {
			reason = events.ReasonNetwork
			err = fmt.Errorf("fetch timed out: %w", err)
		}
		w.finish(StatusFailed, events.DownloadFailedMsg{RunID: w.ID, Reason: reason, Err: err})
		return
	}

	// Tool-reported success is not trusted: the record is only committed for
	// files that actually landed on disk.
	path, mediaType, verr := verifyOutput(result.Path)
	if verr != nil {
		w.finish(StatusFailed, events.DownloadFailedMsg{
			RunID:  w.ID,
			Reason: events.ReasonMissingOutput,
			Err:    verr,
		})
		return
	}

	if !postprocSent {
		w.emit(events.ProgressMsg{
			RunID:   w.ID,
			Stage:   events.StagePostprocessing,
			Message: "finalizing",
		})
	}

	w.finish(StatusSucceeded, events.DownloadSucceededMsg{
		RunID:       w.ID,
		Title:       utils.TitleFromPath(path),
		Path:        path,
		FormatLabel: w.Req.FormatLabel,
		MediaType:   mediaType,
		Elapsed:     time.Since(started),
	})
}

func (w *Worker) finish(status Status, terminal any) {
	if !w.status.CompareAndSwap(int32(StatusRunning), int32(status)) {
		return
	}
	w.emit(terminal)
}

func (w *Worker) emit(msg any) {
	if w.eventsCh != nil {
		w.eventsCh <- msg
	}
}

// verifyOutput confirms the reported output file exists and is non-empty,
// returning its absolute path and sniffed media type.
func verifyOutput(path string) (string, string, error) {
	if path == "" {
		return "", "", errors.New("tool reported success without an output path")
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", "", fmt.Errorf("output file not found: %w", err)
	}
	if info.IsDir() || info.Size() == 0 {
		return "", "", fmt.Errorf("output file %s is empty", path)
	}
	return utils.EnsureAbsPath(path), sniffMediaType(path), nil
}

func sniffMediaType(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	head := make([]byte, 261)
	n, err := f.Read(head)
	if err != nil || n == 0 {
		return ""
	}
	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.MIME.Value
}
