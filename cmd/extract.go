package cmd

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/qcheck/internal/extract"
	"github.com/abhisek/qcheck/internal/report"
	"github.com/abhisek/qcheck/internal/table"
)

var extractCmd = &cobra.Command{
	Use:   "extract FILE...",
	Short: "Extract question candidates from spreadsheet files",
	Long: `Extract question candidates from CSV, TSV or XLSX exports.

Nothing is stored. Files are processed concurrently and reported in the
order given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().Bool("keep-duplicates", false, "Keep questions that repeat an earlier one")
}

func runExtract(cmd *cobra.Command, args []string) error {
	keep, _ := cmd.Flags().GetBool("keep-duplicates")
	opts := extract.Options{KeepDuplicates: keep}

	results := make([]report.Extraction, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.Extract.Workers)
	for i, path := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			grid, err := table.LoadFile(path)
			if err != nil {
				return err
			}
			res := extract.Extract(grid, opts)
			logger.Debug("file extracted",
				zap.String("file", path),
				zap.String("mode", string(res.Mode)),
				zap.Int("blocks", len(res.Blocks)),
				zap.Int("records", len(res.Records)))
			results[i] = report.Extraction{File: path, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return render(cmd, results, func(w io.Writer) error {
		return report.Extractions(w, results)
	})
}
