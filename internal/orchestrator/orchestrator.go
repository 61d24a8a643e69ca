package orchestrator

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/tubegrab/tubegrab/internal/catalog"
	"github.com/tubegrab/tubegrab/internal/events"
	"github.com/tubegrab/tubegrab/internal/history"
	"github.com/tubegrab/tubegrab/internal/utils"
	"github.com/tubegrab/tubegrab/internal/worker"
)

const eventBuffer = 100

var (
	// ErrBusy rejects a start while another download is running. Requests
	// are never queued.
	ErrBusy = errors.New("a download is already running")

	// ErrCatalogUnavailable means the provider listing yielded zero
	// selectable formats.
	ErrCatalogUnavailable = errors.New("no selectable formats found for this URL")
)

// Orchestrator wires catalog fetches, the single live worker slot and the
// completion store together, and forwards every worker event to its
// consumers unchanged.
type Orchestrator struct {
	tool  worker.FetchTool
	store *history.Store

	eventsCh chan any

	mu     sync.Mutex
	active *run
}

type run struct {
	worker *worker.Worker
	cancel context.CancelFunc
}

// New creates an orchestrator around a fetch tool and an open history store.
func New(tool worker.FetchTool, store *history.Store) *Orchestrator {
	return &Orchestrator{
		tool:     tool,
		store:    store,
		eventsCh: make(chan any, eventBuffer),
	}
}

// Events is the stream the presentation layer consumes. Progress events for
// one run arrive in order and are always followed by exactly one terminal
// event.
func (o *Orchestrator) Events() <-chan any {
	return o.eventsCh
}

// FetchCatalog lists and parses the selectable formats for a URL. It blocks
// until the provider responds; callers drive it off the interactive context.
func (o *Orchestrator) FetchCatalog(ctx context.Context, url string) ([]catalog.Format, error) {
	raw, err := o.tool.ListFormats(ctx, url)
	if err != nil {
		return nil, err
	}
	options := catalog.Parse(raw)
	if len(options) == 0 {
		return nil, ErrCatalogUnavailable
	}
	return options, nil
}

// Start launches one worker for the request and returns its run ID. A
// second Start while a run is live returns ErrBusy; invalid requests are
// rejected before any run begins.
func (o *Orchestrator) Start(req worker.Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	o.mu.Lock()
	if o.active != nil {
		o.mu.Unlock()
		return "", ErrBusy
	}

	id := uuid.New().String()
	runCh := make(chan any, eventBuffer)
	ctx, cancel := context.WithCancel(context.Background())
	w := worker.New(id, req, o.tool, runCh)
	o.active = &run{worker: w, cancel: cancel}
	o.mu.Unlock()

	go func() {
		w.Run(ctx)
		close(runCh)
	}()
	go o.forward(runCh, cancel)

	utils.Debug("orchestrator: started run %s for %s", id, req.URL)
	return id, nil
}

// forward copies the run's events to the shared stream, committing the
// history record when the run succeeds. The slot is freed only after the
// terminal event has been forwarded.
func (o *Orchestrator) forward(runCh <-chan any, cancel context.CancelFunc) {
	defer cancel()

	for msg := range runCh {
		o.eventsCh <- msg

		if s, ok := msg.(events.DownloadSucceededMsg); ok {
			rec := history.CompletedDownload{
				Title:       s.Title,
				FilePath:    s.Path,
				FormatLabel: s.FormatLabel,
			}
			if err := o.store.Insert(context.Background(), &rec); err != nil {
				// The file is on disk; a lost history row must not demote
				// the run's outcome.
				utils.Debug("orchestrator: history insert failed: %v", err)
				o.eventsCh <- events.HistoryWarnMsg{RunID: s.RunID, Err: err}
			}
		}
	}

	o.mu.Lock()
	o.active = nil
	o.mu.Unlock()
}

// Cancel signals the live run, if any, to stop. The run still emits its own
// single Cancelled terminal event.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active != nil {
		o.active.cancel()
	}
}

// Busy reports whether a run currently occupies the slot.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active != nil
}

// History returns all completed downloads, oldest first.
func (o *Orchestrator) History(ctx context.Context) ([]history.CompletedDownload, error) {
	return o.store.ListAll(ctx)
}
