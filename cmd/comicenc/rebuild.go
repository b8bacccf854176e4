package cmd

import (
	"fmt"
	"os"

	"github.com/kerbaras/comicenc/pkg/natsort"
	"github.com/kerbaras/comicenc/pkg/services"
	"github.com/spf13/cobra"
)

var rebuildFlags struct {
	output        string
	overwrite     bool
	tempDir       string
	imagesOnly    bool
	extended      bool
	simpleSorting bool
	compress      bool
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild <archive>",
	Short: "Re-pack an archive into a normalized CBZ",
	Long: `Extract the pictures of a ZIP, CBZ or PDF archive, then encode them back
into a single CBZ volume with normalized names.

Examples:
  comicenc rebuild scan.pdf
  comicenc rebuild Volume-01.cbz --overwrite --compress-losslessly`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := newController(os.Stderr).Rebuild(args[0], services.RebuildOptions{
			Output:         rebuildFlags.output,
			TempDir:        rebuildFlags.tempDir,
			Overwrite:      rebuildFlags.overwrite,
			ImagesOnly:     rebuildFlags.imagesOnly,
			ExtendedImages: rebuildFlags.extended,
			Order:          natsort.OrderFor(rebuildFlags.simpleSorting),
			Compress:       rebuildFlags.compress,
		})
		if err != nil {
			return err
		}

		if !silent {
			fmt.Printf("📖 Rebuilt volume: %s\n", output)
		}
		return nil
	},
}

func init() {
	flags := rebuildCmd.Flags()
	flags.StringVarP(&rebuildFlags.output, "output", "o", "", "Output file, defaults to the archive path with a .cbz extension")
	flags.BoolVar(&rebuildFlags.overwrite, "overwrite", false, "Replace the output file if it exists")
	flags.StringVar(&rebuildFlags.tempDir, "temporary-dir", "", "Extract pictures under this directory instead of next to the archive")
	flags.BoolVarP(&rebuildFlags.imagesOnly, "extract-images-only", "e", false, "Skip archive entries that are not pictures")
	flags.BoolVarP(&rebuildFlags.extended, "accept-extended-image-formats", "a", false, "Also keep less common picture formats")
	flags.BoolVarP(&rebuildFlags.simpleSorting, "simple-sorting", "s", false, "Sort entries byte by byte instead of naturally")
	flags.BoolVar(&rebuildFlags.compress, "compress-losslessly", false, "Deflate pictures inside the archive")
}
