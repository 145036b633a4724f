package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/qcheck/internal/checker"
	"github.com/abhisek/qcheck/internal/extract"
	"github.com/abhisek/qcheck/internal/report"
	"github.com/abhisek/qcheck/internal/similarity"
	"github.com/abhisek/qcheck/internal/table"
)

var checkCmd = &cobra.Command{
	Use:   "check --name NAME FILE",
	Short: "Check a new paper against previously imported questions",
	Long: `Extract the questions of a new paper and compare each one with the stored
corpus, or with a JSON corpus given by --corpus. Nothing is stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

var classifyCmd = &cobra.Command{
	Use:   "classify --questions FILE",
	Short: "Classify questions given as JSON against the corpus",
	Args:  cobra.NoArgs,
	RunE:  runClassify,
}

func init() {
	checkCmd.Flags().String("name", "", "Assessment name shown in the report")
	checkCmd.Flags().String("corpus", "", "JSON corpus to compare against instead of the database")

	classifyCmd.Flags().String("name", "", "Assessment name shown in the report")
	classifyCmd.Flags().String("questions", "", "JSON file of questions (required)")
	classifyCmd.Flags().String("corpus", "", "JSON corpus to compare against instead of the database")
	_ = classifyCmd.MarkFlagRequired("questions")
}

func runCheck(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")

	grid, err := table.LoadFile(args[0])
	if err != nil {
		return err
	}
	corpus, err := corpusFlag(cmd)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	svc := checker.NewService(st, logger)

	var rep checker.Report
	if corpus == nil {
		rep, err = svc.Check(cmd.Context(), name, grid)
	} else {
		records := extract.Extract(grid, extract.Options{KeepDuplicates: true}).Records
		rep, err = svc.Classify(cmd.Context(), name, records, corpus)
	}
	if err != nil {
		return err
	}
	return render(cmd, rep, func(w io.Writer) error {
		return report.Check(w, rep)
	})
}

func runClassify(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	path, _ := cmd.Flags().GetString("questions")

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open questions: %w", err)
	}
	defer f.Close()
	records, err := checker.LoadQuestions(f)
	if err != nil {
		return err
	}
	corpus, err := corpusFlag(cmd)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	rep, err := checker.NewService(st, logger).Classify(cmd.Context(), name, records, corpus)
	if err != nil {
		return err
	}
	return render(cmd, rep, func(w io.Writer) error {
		return report.Check(w, rep)
	})
}

// corpusFlag loads the --corpus file, or returns nil when the flag is unset.
func corpusFlag(cmd *cobra.Command) ([]similarity.Entry, error) {
	path, _ := cmd.Flags().GetString("corpus")
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()
	return checker.LoadCorpus(f)
}
