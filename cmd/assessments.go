package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/qcheck/internal/report"
	"github.com/abhisek/qcheck/internal/store"
)

var assessmentsCmd = &cobra.Command{
	Use:   "assessments",
	Short: "Inspect imported assessments",
}

var assessmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported assessments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		list, err := st.Assessments().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list assessments: %w", err)
		}
		return render(cmd, list, func(w io.Writer) error {
			return report.Assessments(w, list)
		})
	},
}

var assessmentsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an assessment and its questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		a, err := st.Assessments().Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("assessment %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("get assessment: %w", err)
		}
		qs, err := st.Questions().ByAssessment(ctx, id)
		if err != nil {
			return fmt.Errorf("list questions: %w", err)
		}

		detail := report.AssessmentDetail{Assessment: a, Questions: qs}
		return render(cmd, detail, func(w io.Writer) error {
			return report.Assessment(w, detail)
		})
	},
}

var assessmentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an assessment and its questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		err = st.Assessments().Delete(cmd.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("assessment %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("delete assessment: %w", err)
		}
		logger.Info("assessment deleted", zap.Int64("id", id))
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted assessment %d.\n", id)
		return nil
	},
}

func init() {
	assessmentsCmd.AddCommand(assessmentsListCmd)
	assessmentsCmd.AddCommand(assessmentsShowCmd)
	assessmentsCmd.AddCommand(assessmentsDeleteCmd)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", s)
	}
	return id, nil
}
