package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/satprep/internal/store"
	"github.com/abhisek/satprep/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recorded audit runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		runID, _ := cmd.Flags().GetString("run")

		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		s, err := store.OpenDSN(ctx, cfg.Store.DSN)
		if err != nil {
			return fmt.Errorf("open audit history: %w", err)
		}
		defer s.Close()

		if runID != "" {
			return showRun(cmd, s, runID)
		}

		runs, err := s.Runs().List(ctx, limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No recorded audit runs. Use `satprep validate --record`.")
			return nil
		}

		// Header.
		fmt.Println(theme.Paint(theme.Header, fmt.Sprintf("%-36s  %-19s  %6s  %6s  %6s  %s",
			"Run", "Recorded", "Total", "Warn", "Error", "Source")))
		fmt.Println(strings.Repeat("─", 100))

		for _, r := range runs {
			errCol := fmt.Sprintf("%6d", r.Errors)
			if r.Errors > 0 {
				errCol = theme.Paint(theme.Fail, errCol)
			}
			fmt.Printf("%-36s  %-19s  %6d  %6d  %s  %s\n",
				r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				r.Total, r.Warnings, errCol, r.Source)
		}

		fmt.Printf("\n%d runs\n", len(runs))
		return nil
	},
}

func showRun(cmd *cobra.Command, s *store.Store, runID string) error {
	ctx := cmd.Context()
	issues, err := s.Runs().Issues(ctx, runID)
	if err != nil {
		return err
	}
	rows, err := s.Runs().Rows(ctx, runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 && len(issues) == 0 {
		return fmt.Errorf("no recorded run %q", runID)
	}

	invalid := 0
	for _, r := range rows {
		if !r.Valid {
			invalid++
		}
	}
	fmt.Println(theme.Paint(theme.Title, "Run "+runID))
	fmt.Printf("%d questions, %d malformed, %d issues\n\n", len(rows), invalid, len(issues))
	for _, is := range issues {
		fmt.Println(theme.Paint(theme.Level(string(is.Level)), is.String()))
	}
	return nil
}

func init() {
	statsCmd.Flags().Int("limit", 20, "Maximum runs to show (0 = all)")
	statsCmd.Flags().String("run", "", "Show the issues of one run")
}
