package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/qcheck/internal/checker"
	"github.com/abhisek/qcheck/internal/report"
	"github.com/abhisek/qcheck/internal/table"
)

var importCmd = &cobra.Command{
	Use:   "import --name NAME FILE",
	Short: "Import a past paper into the question corpus",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().String("name", "", "Assessment name (required)")
	_ = importCmd.MarkFlagRequired("name")
}

func runImport(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")

	grid, err := table.LoadFile(args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	res, err := checker.NewService(st, logger).Import(cmd.Context(), name, grid)
	if err != nil {
		return err
	}
	return render(cmd, res, func(w io.Writer) error {
		return report.Import(w, res)
	})
}
