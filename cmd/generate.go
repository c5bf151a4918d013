package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/satprep/internal/bank"
	"github.com/abhisek/satprep/internal/config"
	"github.com/abhisek/satprep/internal/problemgen"
	"github.com/abhisek/satprep/internal/ui/theme"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the seeded question list",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, func(cfg *config.Config) error {
			if cmd.Flags().Changed("seed") {
				seed, _ := cmd.Flags().GetUint32("seed")
				cfg.Generate.Seed = seed
			}
			intFlag(cmd, "target", &cfg.Generate.TargetPerBucket)
			intFlag(cmd, "max-attempts", &cfg.Generate.MaxAttempts)
			stringFlag(cmd, "out", &cfg.Generate.Out)
			return nil
		})
		if err != nil {
			return err
		}

		res, err := problemgen.Generate(cfg.Generator())
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		if err := bank.WriteFile(cfg.Generate.Out, res.Questions); err != nil {
			return err
		}

		for _, s := range res.Shortfalls {
			fmt.Fprintf(os.Stderr, "warning: %s: generated %d of %d (%d short)\n",
				s.Bucket, s.Produced, s.Target, s.Missing())
		}

		status := theme.Paint(theme.Ok, "ok")
		if len(res.Shortfalls) > 0 {
			status = theme.Paint(theme.Warn, fmt.Sprintf("%d buckets short", len(res.Shortfalls)))
		}
		fmt.Printf("%s %d questions in %d buckets (seed %d, %d draws) -> %s\n",
			status, len(res.Questions), len(bank.AllBuckets()), cfg.Generate.Seed, res.Attempts, cfg.Generate.Out)
		return nil
	},
}

func init() {
	generateCmd.Flags().Uint32("seed", problemgen.DefaultSeed, "Generator seed")
	generateCmd.Flags().Int("target", 40, "Questions per section/topic/difficulty bucket")
	generateCmd.Flags().Int("max-attempts", 2000, "Template draws allowed per bucket")
	generateCmd.Flags().String("out", config.DefaultQuestionsPath, "Output question list")
}
