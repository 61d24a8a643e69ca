package provider

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/tubegrab/tubegrab/internal/config"
	"github.com/tubegrab/tubegrab/internal/events"
	"github.com/tubegrab/tubegrab/internal/utils"
)

// Tool invokes yt-dlp as a subprocess. The rest of the application depends
// only on the listing/fetch contract, not on yt-dlp specifics.
type Tool struct {
	Binary         string
	CatalogTimeout time.Duration
	FetchTimeout   time.Duration
}

// New creates a Tool from provider settings.
func New(cfg config.ProviderSettings) *Tool {
	return &Tool{
		Binary:         cfg.BinaryPath,
		CatalogTimeout: cfg.CatalogTimeout,
		FetchTimeout:   cfg.FetchTimeout,
	}
}

// FetchSpec describes one fetch invocation.
type FetchSpec struct {
	URL      string
	Selector string
	Dir      string
}

// Result is what a completed fetch reports. Path is the tool's claimed final
// output file; callers must verify it on disk before trusting it.
type Result struct {
	Path string
}

// UpdateKind tags a parsed progress line.
type UpdateKind int

const (
	UpdateDownloading UpdateKind = iota
	UpdatePostprocessing
	UpdateDestination
)

// Update is one parsed line of the tool's progress output.
type Update struct {
	Kind    UpdateKind
	Percent float64
	Path    string
}

// ListFormats asks the tool to enumerate available formats for a URL and
// returns the raw textual listing.
func (t *Tool) ListFormats(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.CatalogTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.Binary, url, "-F", "--no-warnings")
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("format listing failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("format listing failed: %w", err)
	}
	return string(output), nil
}

// Fetch runs one download, streaming parsed progress updates to onUpdate as
// they arrive. For playlist URLs only the first entry in the tool's own
// ordering is fetched; that is requested explicitly rather than relying on
// default behavior. Fetch blocks until the tool exits.
func (t *Tool) Fetch(ctx context.Context, spec FetchSpec, onUpdate func(Update)) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, t.FetchTimeout)
	defer cancel()

	args := []string{
		spec.URL,
		"--newline",
		"--no-warnings",
		"--playlist-items", "1",
		"-f", spec.Selector,
		"-o", filepath.Join(spec.Dir, "%(title)s.%(ext)s"),
	}

	utils.Debug("provider: %s %s", t.Binary, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, t.Binary, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, fmt.Errorf("failed to get stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("failed to start %s: %w", t.Binary, err)
	}

	var stderrOut strings.Builder
	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			stderrOut.WriteString(scanner.Text() + "\n")
		}
	}()

	var result Result
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		update, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		if update.Path != "" {
			// The last reported path wins: merge/extract steps supersede
			// the per-stream destinations.
			result.Path = update.Path
		}
		if onUpdate != nil {
			onUpdate(update)
		}
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		msg := strings.TrimSpace(stderrOut.String())
		if msg == "" {
			return Result{}, fmt.Errorf("%s failed: %w", t.Binary, err)
		}
		return Result{}, fmt.Errorf("%s failed: %s", t.Binary, msg)
	}

	return result, nil
}

// ParseLine interprets one line of the tool's progress output. The output
// shape is not under our control and varies across tool versions, so
// anything unrecognized is skipped rather than treated as an error.
func ParseLine(line string) (Update, bool) {
	line = strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(line, "[download] Destination: "):
		return Update{
			Kind: UpdateDestination,
			Path: strings.TrimPrefix(line, "[download] Destination: "),
		}, true

	case strings.HasPrefix(line, "[download] "):
		rest := strings.TrimSpace(strings.TrimPrefix(line, "[download] "))
		idx := strings.Index(rest, "%")
		if idx <= 0 {
			return Update{}, false
		}
		var percent float64
		if _, err := fmt.Sscanf(rest[:idx], "%f", &percent); err != nil {
			return Update{}, false
		}
		if percent < 0 || percent > 100 {
			return Update{}, false
		}
		return Update{Kind: UpdateDownloading, Percent: percent}, true

	case strings.HasPrefix(line, "[Merger] Merging formats into "):
		path := strings.TrimPrefix(line, "[Merger] Merging formats into ")
		path = strings.Trim(path, `"`)
		return Update{Kind: UpdatePostprocessing, Path: path}, true

	case strings.HasPrefix(line, "[ExtractAudio] Destination: "):
		return Update{
			Kind: UpdatePostprocessing,
			Path: strings.TrimPrefix(line, "[ExtractAudio] Destination: "),
		}, true
	}

	return Update{}, false
}

// Classify maps a fetch error onto the failure taxonomy by inspecting the
// tool's error text.
func Classify(err error) events.Reason {
	if err == nil {
		return events.ReasonUnknown
	}
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "is not a valid url"),
		strings.Contains(msg, "unsupported url"),
		strings.Contains(msg, "video unavailable"):
		return events.ReasonInvalidURL

	case strings.Contains(msg, "requested format is not available"),
		strings.Contains(msg, "format is not available"):
		return events.ReasonInvalidSelector

	case strings.Contains(msg, "no space left"),
		strings.Contains(msg, "permission denied"),
		strings.Contains(msg, "unable to write"),
		strings.Contains(msg, "unable to open for writing"):
		return events.ReasonDisk

	case strings.Contains(msg, "unable to download"),
		strings.Contains(msg, "connection"),
		strings.Contains(msg, "timed out"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "network"),
		strings.Contains(msg, "http error"),
		strings.Contains(msg, "getaddrinfo"),
		strings.Contains(msg, "name or service not known"):
		return events.ReasonNetwork
	}

	return events.ReasonUnknown
}
