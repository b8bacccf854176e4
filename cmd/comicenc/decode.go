package cmd

import (
	"fmt"
	"os"

	"github.com/kerbaras/comicenc/pkg/natsort"
	"github.com/kerbaras/comicenc/pkg/services"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var decodeFlags struct {
	output          string
	createOutputDir bool
	imagesOnly      bool
	extended        bool
	simpleSorting   bool
	skipBadPages    bool
}

var decodeCmd = &cobra.Command{
	Use:   "decode <archive>",
	Short: "Extract the pictures of a ZIP, CBZ or PDF archive",
	Long: `Extract the pictures of an archive into a directory, renamed 1, 2, 3...
in reading order and zero-padded to the same width.

Examples:
  comicenc decode Volume-01.cbz
  comicenc decode scan.pdf -o ./scan --create-output-dir --skip-bad-pdf-pages`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := services.DecodeOptions{
			Output:          decodeFlags.output,
			CreateOutputDir: decodeFlags.createOutputDir,
			ImagesOnly:      decodeFlags.imagesOnly,
			ExtendedImages:  decodeFlags.extended,
			Order:           natsort.OrderFor(decodeFlags.simpleSorting),
			SkipBadPages:    decodeFlags.skipBadPages,
		}

		var progress func(done, total int)
		if interactive() {
			var bar *progressbar.ProgressBar
			progress = func(done, total int) {
				if bar == nil {
					bar = progressbar.NewOptions(total,
						progressbar.OptionSetWriter(os.Stderr),
						progressbar.OptionSetDescription("Extracting"),
						progressbar.OptionSetPredictTime(true),
						progressbar.OptionShowCount(),
						progressbar.OptionClearOnFinish(),
						progressbar.OptionSetTheme(progressbar.Theme{
							Saucer: "█", SaucerHead: "█", SaucerPadding: "░",
							BarStart: "[", BarEnd: "]",
						}),
					)
				}
				bar.Set(done)
			}
		}

		output, files, err := newController(os.Stderr).Decode(args[0], opts, progress)
		if err != nil {
			return err
		}

		if !silent {
			fmt.Printf("📂 %d pictures extracted to %s\n", len(files), output)
		}
		return nil
	},
}

func init() {
	flags := decodeCmd.Flags()
	flags.StringVarP(&decodeFlags.output, "output", "o", "", "Output directory, defaults to the archive path without its extension")
	flags.BoolVar(&decodeFlags.createOutputDir, "create-output-dir", false, "Create the output directory if missing")
	flags.BoolVarP(&decodeFlags.imagesOnly, "extract-images-only", "e", false, "Skip archive entries that are not pictures")
	flags.BoolVarP(&decodeFlags.extended, "accept-extended-image-formats", "a", false, "Also keep less common picture formats")
	flags.BoolVarP(&decodeFlags.simpleSorting, "simple-sorting", "s", false, "Sort entries byte by byte instead of naturally")
	flags.BoolVar(&decodeFlags.skipBadPages, "skip-bad-pdf-pages", false, "Skip PDF pages whose pictures cannot be read")
}
