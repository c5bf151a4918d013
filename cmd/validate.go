package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/satprep/internal/audit"
	"github.com/abhisek/satprep/internal/bank"
	"github.com/abhisek/satprep/internal/config"
	"github.com/abhisek/satprep/internal/store"
	"github.com/abhisek/satprep/internal/ui/theme"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Audit a question list and write the issue report and matrix",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, func(cfg *config.Config) error {
			stringFlag(cmd, "in", &cfg.Validate.In)
			stringFlag(cmd, "issues", &cfg.Validate.Issues)
			stringFlag(cmd, "matrix", &cfg.Validate.Matrix)
			intFlag(cmd, "target", &cfg.Validate.TargetPerBucket)
			stringFlag(cmd, "policy", &cfg.Validate.Policy)
			boolFlag(cmd, "fail-on-error", &cfg.Validate.FailOnError)
			boolFlag(cmd, "record", &cfg.Store.Record)
			if cmd.Flags().Changed("tolerance") {
				cfg.Validate.Tolerance, _ = cmd.Flags().GetFloat64("tolerance")
			}
			return nil
		})
		if err != nil {
			return err
		}

		doc, err := bank.ReadFile(cfg.Validate.In)
		if err != nil {
			return err
		}

		opts := cfg.AuditOptions()
		if catalog, _ := cmd.Flags().GetBool("catalog"); catalog {
			opts.ExpectBuckets = bank.AllBuckets()
		}
		res := audit.RunDocument(doc, opts)

		if err := audit.WriteReport(cfg.Validate.Issues, audit.NewReport(res, opts, time.Now())); err != nil {
			return err
		}
		if err := audit.WriteCSVFile(cfg.Validate.Matrix, res.Rows); err != nil {
			return err
		}

		warns, errs := bank.CountLevels(res.Issues)
		printAuditSummary(res, warns, errs)
		fmt.Printf("\nReport: %s\nMatrix: %s\n", cfg.Validate.Issues, cfg.Validate.Matrix)

		if cfg.Store.Record {
			id, err := recordRun(cmd, cfg, res, warns, errs)
			if err != nil {
				return err
			}
			fmt.Printf("Recorded run %s\n", id)
		}

		if cfg.Validate.FailOnError && errs > 0 {
			return fmt.Errorf("%d error-level issues", errs)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().String("in", config.DefaultQuestionsPath, "Question list to audit")
	validateCmd.Flags().String("issues", config.DefaultIssuesPath, "Issue report output (JSON)")
	validateCmd.Flags().String("matrix", config.DefaultMatrixPath, "Per-question matrix output (CSV)")
	validateCmd.Flags().Int("target", 40, "Expected questions per bucket (0 disables the check)")
	validateCmd.Flags().String("policy", string(bank.PolicyStrict), "Visual policy: strict or legacy")
	validateCmd.Flags().Float64("tolerance", audit.DefaultTolerance, "Absolute tolerance for numeric answers")
	validateCmd.Flags().Bool("catalog", false, "Also warn about catalog buckets with no questions")
	validateCmd.Flags().Bool("record", false, "Save the run to the audit history database")
	validateCmd.Flags().Bool("fail-on-error", false, "Exit non-zero when error-level issues are found")
}

// printAuditSummary prints issue counts by code, then the first issues.
func printAuditSummary(res *audit.Result, warns, errs int) {
	fmt.Println(theme.Paint(theme.Title, "Audit summary"))
	fmt.Printf("%d questions, %s, %s\n", res.Total(),
		theme.Paint(theme.Fail, fmt.Sprintf("%d errors", errs)),
		theme.Paint(theme.Warn, fmt.Sprintf("%d warnings", warns)))

	if len(res.Issues) == 0 {
		fmt.Println(theme.Paint(theme.Ok, "No issues found."))
		return
	}

	type key struct {
		level bank.Level
		code  string
	}
	counts := map[key]int{}
	for _, is := range res.Issues {
		counts[key{is.Level, is.Code}]++
	}
	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].level != keys[j].level {
			return keys[i].level == bank.LevelError
		}
		return keys[i].code < keys[j].code
	})

	fmt.Println()
	fmt.Println(theme.Paint(theme.Header, fmt.Sprintf("%-6s  %-24s  %6s", "Level", "Code", "Count")))
	fmt.Println(strings.Repeat("─", 40))
	for _, k := range keys {
		fmt.Printf("%s  %-24s  %6d\n", theme.Paint(theme.Level(string(k.level)), fmt.Sprintf("%-6s", k.level)), k.code, counts[k])
	}

	const shown = 10
	fmt.Println()
	for i, is := range res.Issues {
		if i == shown {
			fmt.Println(theme.Paint(theme.Hint, fmt.Sprintf("... %d more in the report", len(res.Issues)-shown)))
			break
		}
		fmt.Println(theme.Paint(theme.Level(string(is.Level)), is.String()))
	}
}

func recordRun(cmd *cobra.Command, cfg config.Config, res *audit.Result, warns, errs int) (string, error) {
	ctx := cmd.Context()
	st, err := store.OpenDSN(ctx, cfg.Store.DSN)
	if err != nil {
		return "", fmt.Errorf("open audit history: %w", err)
	}
	defer st.Close()

	rec := &store.RunRecord{
		Run: store.Run{
			Source:          cfg.Validate.In,
			TargetPerBucket: cfg.Validate.TargetPerBucket,
			Total:           res.Total(),
			Warnings:        warns,
			Errors:          errs,
		},
		Issues: res.Issues,
		Rows:   res.Rows,
	}
	runs := st.Runs()
	if err := runs.Save(ctx, rec); err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	if cfg.Store.Keep > 0 {
		if err := runs.Prune(ctx, cfg.Store.Keep); err != nil {
			fmt.Fprintf(os.Stderr, "warning: prune audit history: %v\n", err)
		}
	}
	return rec.Run.ID, nil
}
