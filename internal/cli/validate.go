package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quiz-session-engine/internal/infra/memory"
)

// NewValidateCmd checks a YAML catalog without touching any store.
func NewValidateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a YAML quiz catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			quizzes, err := memory.ParseCatalog(data)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s is invalid:\n%v\n", file, err)
				return fmt.Errorf("catalog %s failed validation", file)
			}
			for _, q := range quizzes {
				fmt.Fprintf(cmd.OutOrStdout(), "ok  %-12s %-32s %d questions\n", q.ID, q.Title, len(q.Questions))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML catalog to validate")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
