package config

import (
	"os"
	"path/filepath"
)

// GetAppDir returns the tubegrab home directory (~/.tubegrab). Falls back to
// a relative directory when the home directory cannot be resolved.
func GetAppDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".tubegrab"
	}
	return filepath.Join(homeDir, ".tubegrab")
}

// GetStateDir returns the directory holding persistent state (history db).
func GetStateDir() string {
	return filepath.Join(GetAppDir(), "state")
}

// GetLogsDir returns the directory holding debug logs.
func GetLogsDir() string {
	return filepath.Join(GetAppDir(), "logs")
}

// GetHistoryDBPath returns the path of the completed-downloads database.
func GetHistoryDBPath() string {
	return filepath.Join(GetStateDir(), "history.db")
}
