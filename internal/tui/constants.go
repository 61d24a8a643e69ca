package tui

const (
	// Input Dimensions
	InputWidth = 60

	// Layout
	ProgressBarWidthOffset = 8
	MaxVisibleOptions      = 8
	MaxVisibleHistory      = 6
)
