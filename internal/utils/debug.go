package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

var (
	debugFile *os.File
	debugMu   sync.Mutex
	logsDir   string
)

// ConfigureDebug sets the directory debug logs are written to. Must be
// called before the first Debug call to take effect; each process run gets
// its own timestamped file.
func ConfigureDebug(dir string) {
	debugMu.Lock()
	defer debugMu.Unlock()
	logsDir = dir
}

// Debug writes a timestamped message to the current debug log file.
func Debug(format string, args ...any) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	debugMu.Lock()
	defer debugMu.Unlock()
	if debugFile == nil {
		name := fmt.Sprintf("debug-%s.log", time.Now().Format("20060102-150405"))
		if logsDir == "" {
			debugFile, _ = os.Create(name)
		} else {
			debugFile, _ = os.Create(filepath.Join(logsDir, name))
		}
	}
	if debugFile != nil {
		fmt.Fprintf(debugFile, "[%s] %s\n", timestamp, fmt.Sprintf(format, args...))
		debugFile.Sync() // Flush immediately
	}
}

// CleanupLogs deletes old debug logs, keeping the most recent `keep` files.
func CleanupLogs(keep int) {
	debugMu.Lock()
	dir := logsDir
	debugMu.Unlock()
	if dir == "" || keep <= 0 {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var logs []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".log" {
			logs = append(logs, e.Name())
		}
	}
	if len(logs) <= keep {
		return
	}

	// Timestamped names sort chronologically
	sort.Strings(logs)
	for _, name := range logs[:len(logs)-keep] {
		os.Remove(filepath.Join(dir, name))
	}
}
