package cmd

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/qcheck/internal/checker"
	"github.com/abhisek/qcheck/internal/extract"
	"github.com/abhisek/qcheck/internal/master"
	"github.com/abhisek/qcheck/internal/report"
	"github.com/abhisek/qcheck/internal/sheets"
	"github.com/abhisek/qcheck/internal/table"
)

var masterCmd = &cobra.Command{
	Use:   "master FILE",
	Short: "File a paper's questions into the unit spreadsheets of a master sheet",
	Long: `Extract questions from FILE and file each one into the Google Sheet of its
unit, as listed in the master sheet tab. New questions go to the marks tab,
reframed ones to "Reframed Questions", duplicates are skipped.

Requires a service account credentials file with access to every sheet.`,
	Args: cobra.ExactArgs(1),
	RunE: runMaster,
}

func init() {
	masterCmd.Flags().String("sheet-url", "", "Master sheet URL (overrides sheets.master_url)")
	masterCmd.Flags().String("tab", "", "Master sheet tab (overrides sheets.master_tab)")
	masterCmd.Flags().String("credentials", "", "Service account credentials file (overrides sheets.credentials_file)")
	masterCmd.Flags().Bool("dry-run", false, "Classify without writing to any sheet")
}

func runMaster(cmd *cobra.Command, args []string) error {
	sc := cfg.Sheets
	if v, _ := cmd.Flags().GetString("sheet-url"); v != "" {
		sc.MasterURL = v
	}
	if v, _ := cmd.Flags().GetString("tab"); v != "" {
		sc.MasterTab = v
	}
	if v, _ := cmd.Flags().GetString("credentials"); v != "" {
		sc.CredentialsFile = v
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	switch {
	case sc.MasterURL == "":
		return errors.New("master sheet URL is required (--sheet-url or sheets.master_url)")
	case sc.CredentialsFile == "":
		return errors.New("credentials file is required (--credentials or sheets.credentials_file)")
	}

	grid, err := table.LoadFile(args[0])
	if err != nil {
		return err
	}
	records := extract.Extract(grid, extract.Options{}).Records
	if len(records) == 0 {
		return checker.ErrNoQuestions
	}

	ctx := cmd.Context()
	google, err := sheets.NewGoogle(ctx, sc.CredentialsFile)
	if err != nil {
		return err
	}
	svc := sheets.WithRetry(google, sheets.RetryConfig{
		MaxAttempts: sc.Retry.MaxAttempts,
		InitialWait: sc.Retry.InitialWait,
		MaxWait:     sc.Retry.MaxWait,
		Multiplier:  sc.Retry.Multiplier,
	})

	sum, err := master.NewSyncer(svc,
		master.WithLogger(logger),
		master.WithDryRun(dryRun),
	).Run(ctx, records, sc.MasterURL, sc.MasterTab)
	if err != nil {
		return err
	}
	return render(cmd, sum, func(w io.Writer) error {
		return report.Master(w, sum)
	})
}
