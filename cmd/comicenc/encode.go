package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/kerbaras/comicenc/pkg/app"
	"github.com/kerbaras/comicenc/pkg/app/components"
	"github.com/kerbaras/comicenc/pkg/data"
	"github.com/kerbaras/comicenc/pkg/integrations"
	"github.com/kerbaras/comicenc/pkg/natsort"
	"github.com/kerbaras/comicenc/pkg/services"
	"github.com/spf13/cobra"
)

var encodeFlags struct {
	output          string
	overwrite       bool
	appendPages     bool
	extended        bool
	simpleSorting   bool
	compress        bool
	format          string
	verify          bool
	createOutputDir bool
	dirsPrefix      string
	startChapter    int
	endChapter      int
	dryRun          bool
	fullNames       bool

	// compile
	showRange    bool
	chaptersPath bool
	skipExisting bool

	// single
	rootChapter bool
}

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode chapter directories into volumes",
	Long: `Encode the chapter directories found in a directory into comic book archives.

Examples:
  comicenc encode compile ./One-Piece 10 --append-chapters-range
  comicenc encode each ./One-Piece -o ./volumes --create-output-dir
  comicenc encode single ./Oneshot -o Oneshot.cbz --root-chapter`,
}

var compileCmd = &cobra.Command{
	Use:   "compile <chapters-dir> <chapters-per-volume>",
	Short: "Pack a fixed number of chapters into each volume",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		perVolume, err := strconv.Atoi(args[1])
		if err != nil {
			return &data.ConfigError{Option: "chapters-per-volume", Value: args[1], Err: err}
		}

		req, err := encodeRequest(cmd, args[0], data.Compile{
			ChaptersPerVolume: perVolume,
			ShowRange:         encodeFlags.showRange,
			SkipExisting:      encodeFlags.skipExisting,
		})
		if err != nil {
			return err
		}
		return runEncode(req)
	},
}

var eachCmd = &cobra.Command{
	Use:   "each <chapters-dir>",
	Short: "Write one volume per chapter, named after the chapter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := encodeRequest(cmd, args[0], data.Each{SkipExisting: encodeFlags.skipExisting})
		if err != nil {
			return err
		}
		return runEncode(req)
	},
}

var singleCmd = &cobra.Command{
	Use:   "single <chapters-dir>",
	Short: "Write every chapter into a single volume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := encodeRequest(cmd, args[0], data.Single{Output: encodeFlags.output})
		if err != nil {
			return err
		}
		req.Options.OutputDir = ""
		req.Discovery.RootChapter = encodeFlags.rootChapter
		return runEncode(req)
	},
}

func init() {
	flags := encodeCmd.PersistentFlags()
	flags.StringVarP(&encodeFlags.output, "output", "o", "", "Output directory, or output file for 'single'")
	flags.BoolVar(&encodeFlags.overwrite, "overwrite", false, "Replace existing volumes")
	flags.BoolVar(&encodeFlags.appendPages, "append-pages-count", false, "Append the number of pages to volume names")
	flags.BoolVarP(&encodeFlags.extended, "accept-extended-image-formats", "a", false, "Also pick up less common picture formats")
	flags.BoolVarP(&encodeFlags.simpleSorting, "simple-sorting", "s", false, "Sort names byte by byte instead of naturally")
	flags.BoolVar(&encodeFlags.compress, "compress-losslessly", false, "Deflate pictures inside the archive")
	flags.StringVar(&encodeFlags.format, "format", string(integrations.FormatCBZ), "Volume format: cbz or epub")
	flags.BoolVar(&encodeFlags.verify, "verify-images", false, "Check every picture header before writing it")
	flags.BoolVar(&encodeFlags.createOutputDir, "create-output-dir", false, "Create the output directory if missing")
	flags.StringVarP(&encodeFlags.dirsPrefix, "dirs-prefix", "d", "", "Only use chapter directories starting with this prefix")
	flags.IntVar(&encodeFlags.startChapter, "start-chapter", 1, "First chapter to encode, 1-based")
	flags.IntVar(&encodeFlags.endChapter, "end-chapter", 0, "Last chapter to encode, defaults to the last one")
	flags.BoolVar(&encodeFlags.dryRun, "dry-run", false, "Display the volumes that would be built and exit")
	flags.BoolVar(&encodeFlags.fullNames, "display-full-names", false, "Do not shorten long names in the console")

	compileCmd.Flags().BoolVar(&encodeFlags.showRange, "append-chapters-range", false, "Append the chapters range to volume names")
	compileCmd.Flags().BoolVar(&encodeFlags.chaptersPath, "debug-chapters-path", false, "Display the directory of every chapter")
	compileCmd.Flags().BoolVar(&encodeFlags.skipExisting, "skip-existing", false, "Leave volumes that already exist untouched")
	eachCmd.Flags().BoolVar(&encodeFlags.skipExisting, "skip-existing", false, "Leave volumes that already exist untouched")
	singleCmd.Flags().BoolVar(&encodeFlags.rootChapter, "root-chapter", false, "Treat the directory itself as the only chapter")

	encodeCmd.AddCommand(compileCmd)
	encodeCmd.AddCommand(eachCmd)
	encodeCmd.AddCommand(singleCmd)
}

// encodeRequest binds the flags of cmd into a request. Range bounds are only
// set when given on the command line.
func encodeRequest(cmd *cobra.Command, input string, m data.Method) (*services.EncodeRequest, error) {
	format, err := integrations.ParseFormat(encodeFlags.format)
	if err != nil {
		return nil, err
	}

	var r data.Range
	if cmd.Flags().Changed("start-chapter") {
		start := encodeFlags.startChapter
		r.Start = &start
	}
	if cmd.Flags().Changed("end-chapter") {
		end := encodeFlags.endChapter
		r.End = &end
	}

	order := natsort.OrderFor(encodeFlags.simpleSorting)
	return &services.EncodeRequest{
		Input:  input,
		Method: m,
		Range:  r,
		Discovery: services.DiscoveryOptions{
			Prefix: encodeFlags.dirsPrefix,
			Order:  order,
		},
		Options: services.EncodeOptions{
			OutputDir:        encodeFlags.output,
			Format:           format,
			Overwrite:        encodeFlags.overwrite,
			AppendPageCount:  encodeFlags.appendPages,
			ExtendedImages:   encodeFlags.extended,
			Order:            order,
			Compress:         encodeFlags.compress,
			VerifyImages:     encodeFlags.verify,
			ShowChapterPaths: encodeFlags.chaptersPath,
			FullNames:        encodeFlags.fullNames,
		},
		CreateOutputDir: encodeFlags.createOutputDir,
	}, nil
}

func runEncode(req *services.EncodeRequest) error {
	if encodeFlags.dryRun {
		plan, err := newController(os.Stderr).Plan(req)
		if err != nil {
			return err
		}
		view := components.NewPlanView(plan, req.Options.Format.Ext())
		view.FullNames = req.Options.FullNames
		fmt.Print(view.View())
		return nil
	}

	if !interactive() || req.Options.ShowChapterPaths {
		_, err := newController(os.Stderr).Encode(req)
		return err
	}

	ui := app.NewApp(os.Stderr)
	controller := newController(ui.LogWriter())
	controller.OnProgress(ui.Progress)

	return ui.Run(func() error {
		_, err := controller.Encode(req)
		return err
	})
}
