package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/kerbaras/comicenc/pkg/data"
	"github.com/kerbaras/comicenc/pkg/services"
	"github.com/kerbaras/comicenc/pkg/utils"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const historyEnv = "COMICENC_HISTORY"

var (
	silent      bool
	verbose     bool
	debug       bool
	historyPath string

	repo *data.Repository
)

var rootCmd = &cobra.Command{
	Use:   "comicenc",
	Short: "Turn directories of scanned chapters into comic book archives",
	Long: `Encode directories of pictures into CBZ volumes, decode ZIP, CBZ and PDF
archives back into pictures, and rebuild existing archives into normalized ones.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if historyPath == "" {
			return nil
		}
		r, err := data.NewDuckDBRepository(historyPath)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		repo = r
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&silent, "silent", false, "Only display errors")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Display debug messages")
	flags.BoolVar(&debug, "debug", false, "Display debug messages with their source location")
	flags.StringVar(&historyPath, "history", os.Getenv(historyEnv), "Record built volumes in this database (env "+historyEnv+")")
	rootCmd.MarkFlagsMutuallyExclusive("silent", "verbose", "debug")

	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(historyCmd)
}

func Execute() {
	err := rootCmd.Execute()
	if repo != nil {
		repo.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

func verbosity() utils.Verbosity {
	return utils.VerbosityFromFlags(silent, verbose, debug)
}

// newController returns a controller logging to w at the requested verbosity.
func newController(w io.Writer) *services.Controller {
	return services.NewController(utils.NewLogger(w, verbosity()), repo)
}

// interactive reports whether live progress can be drawn on stderr.
func interactive() bool {
	return verbosity() == utils.VerbosityNormal && term.IsTerminal(int(os.Stderr.Fd()))
}
