package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/kerbaras/comicenc/pkg/app/components"
	"github.com/spf13/cobra"
)

var historyFlags struct {
	limit     int
	fullNames bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the volumes built so far",
	Long:  "Display the volumes recorded in the history database, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if repo == nil {
			fmt.Printf("📚 No history database. Use --history or set %s to record built volumes.\n", historyEnv)
			return nil
		}

		records, err := newController(os.Stderr).History(historyFlags.limit)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("📚 No volume built yet.")
			return nil
		}

		fmt.Printf("\n📚 History (%d volumes)\n\n", len(records))
		fmt.Println(components.HistoryTable(records, historyFlags.fullNames, time.Now()))
		return nil
	},
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Forget volumes from the history",
	Long:  "Remove volumes from the history database. The archives themselves are kept.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if repo == nil {
			return fmt.Errorf("no history database, use --history or set %s", historyEnv)
		}

		controller := newController(os.Stderr)
		for _, id := range args {
			v, err := controller.ForgetVolume(id)
			if err != nil {
				return fmt.Errorf("failed to forget volume: %w", err)
			}
			if !silent {
				fmt.Printf("🗑  Forgot %s\n", v.Path)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyRmCmd)
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "Number of volumes to display")
	historyCmd.Flags().BoolVar(&historyFlags.fullNames, "display-full-names", false, "Do not shorten long file names")
}
