package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tubegrab/tubegrab/internal/config"
	"github.com/tubegrab/tubegrab/internal/history"
)

// historyCmd lists completed downloads without starting the TUI.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed downloads",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store, err := history.Open(config.GetHistoryDBPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		records, err := store.ListAll(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading history: %v\n", err)
			os.Exit(1)
		}

		if len(records) == 0 {
			fmt.Println("No completed downloads.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "COMPLETED\tTITLE\tFORMAT\tPATH")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				rec.CompletedAt.Format("2006-01-02 15:04"), rec.Title, rec.FormatLabel, rec.FilePath)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
