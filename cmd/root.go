package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tubegrab/tubegrab/internal/config"
	"github.com/tubegrab/tubegrab/internal/history"
	"github.com/tubegrab/tubegrab/internal/orchestrator"
	"github.com/tubegrab/tubegrab/internal/provider"
	"github.com/tubegrab/tubegrab/internal/tui"
	"github.com/tubegrab/tubegrab/internal/utils"
)

// Version information - set via ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "tubegrab",
	Short:   "A terminal video downloader built on yt-dlp",
	Long:    `Tubegrab is a terminal (TUI) video downloader: paste a URL, pick a format, watch it land in your downloads folder.`,
	Version: Version,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		initializeGlobalState()

		locked, err := AcquireLock()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error acquiring lock: %v\n", err)
			os.Exit(1)
		}
		if !locked {
			fmt.Fprintln(os.Stderr, "Error: tubegrab is already running.")
			os.Exit(1)
		}
		defer ReleaseLock()

		settings, err := config.LoadSettings()
		if err != nil {
			settings = config.DefaultSettings()
		}

		outputDir, _ := cmd.Flags().GetString("output")
		if outputDir == "" {
			outputDir = settings.General.DefaultDownloadDir
		}
		if binary, _ := cmd.Flags().GetString("ytdlp"); binary != "" {
			settings.Provider.BinaryPath = binary
		}

		store, err := history.Open(config.GetHistoryDBPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		orch := orchestrator.New(provider.New(settings.Provider), store)
		startTUI(orch, outputDir)
	},
}

// startTUI initializes and runs the TUI program
func startTUI(orch *orchestrator.Orchestrator, outputDir string) {
	m := tui.InitialRootModel(orch, outputDir)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Background listener for progress events
	go func() {
		for msg := range orch.Events() {
			p.Send(msg)
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringP("output", "o", "", "Directory downloads are written to")
	rootCmd.Flags().String("ytdlp", "", "Path to the yt-dlp binary")
	rootCmd.SetVersionTemplate("tubegrab version {{.Version}}\n")
}

// initializeGlobalState sets up the environment and configures logging
func initializeGlobalState() {
	stateDir := config.GetStateDir()
	logsDir := config.GetLogsDir()

	os.MkdirAll(stateDir, 0755)
	os.MkdirAll(logsDir, 0755)

	utils.ConfigureDebug(logsDir)

	settings, err := config.LoadSettings()
	retention := config.DefaultSettings().General.LogRetentionCount
	if err == nil {
		retention = settings.General.LogRetentionCount
	}
	utils.CleanupLogs(retention)
}
