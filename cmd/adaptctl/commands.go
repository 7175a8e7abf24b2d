package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"adaptcoach/internal/adaptive"
	"adaptcoach/internal/excel"
	"adaptcoach/internal/i18n"
	"adaptcoach/internal/models"
	"adaptcoach/internal/rules"
	"adaptcoach/internal/service"
)

func newPrescribeCmd(opts *rootOptions) *cobra.Command {
	var (
		profilePath string
		sets, reps  int
		series      int
		load        float64
		ruleList    string
	)

	cmd := &cobra.Command{
		Use:   "prescribe",
		Short: "Adapt one exercise baseline to a profile",
		Example: `  adaptctl prescribe --profile ana.yaml --sets 4 --reps 8 --load 80
  adaptctl prescribe --profile ana.yaml --sets 4 --series 3 --reps 8 --load 80 --rules 0,1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readProfile(profilePath)
			if err != nil {
				return err
			}
			ruleIDs := []int{adaptive.MasterRule}
			if ruleList != "" {
				if ruleIDs, err = service.ParseRuleIDs(ruleList); err != nil {
					return err
				}
			}

			base := adaptive.Baseline{Sets: sets, Reps: reps, LoadKg: load}
			if cmd.Flags().Changed("series") {
				base.Series = &series
			}
			if err := service.ValidateBaseline(base); err != nil {
				return err
			}

			engine, err := opts.engine()
			if err != nil {
				return err
			}
			result := engine.ReconstructPrescription(base, p.profile(), ruleIDs...)
			opts.logger.Debug("prescription computed",
				zap.Float64("factor_peso_total", result.LoadFactor),
				zap.Float64("factor_series_total", result.SeriesFactor),
				zap.Float64("factor_reps_total", result.RepsFactor))
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "Athlete profile YAML")
	cmd.Flags().IntVar(&sets, "sets", 0, "Baseline sets")
	cmd.Flags().IntVar(&series, "series", 0, "Baseline series (defaults to sets)")
	cmd.Flags().IntVar(&reps, "reps", 0, "Baseline reps")
	cmd.Flags().Float64Var(&load, "load", 0, "Baseline load in kg")
	cmd.Flags().StringVar(&ruleList, "rules", "", "Comma separated rule ids (default 0, all rules)")
	_ = cmd.MarkFlagRequired("sets")
	_ = cmd.MarkFlagRequired("reps")
	return cmd
}

func newNutritionCmd(opts *rootOptions) *cobra.Command {
	var profilePath, intensity string

	cmd := &cobra.Command{
		Use:   "nutrition",
		Short: "Compute nutrition factors for a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readProfile(profilePath)
			if err != nil {
				return err
			}
			profile := p.profile()
			if err := service.ValidateProfile(profile); err != nil {
				return err
			}
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), engine.ReconstructNutrition(profile, adaptive.ParseIntensity(intensity)))
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "Athlete profile YAML")
	cmd.Flags().StringVar(&intensity, "intensity", string(adaptive.Intermedio), "Leve, Intermedio or Alto")
	return cmd
}

func newIngredientCmd(opts *rootOptions) *cobra.Command {
	var (
		factor    float64
		intensity string
	)

	cmd := &cobra.Command{
		Use:   "ingredient <cantidad> <unidad>",
		Short: "Scale one ingredient quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			q := engine.AdjustIngredientManual(args[0], args[1], factor, adaptive.ParseIntensity(intensity))
			return printJSON(cmd.OutOrStdout(), q)
		},
	}

	cmd.Flags().Float64Var(&factor, "factor", 1, "Total factor for the ingredient's macro")
	cmd.Flags().StringVar(&intensity, "intensity", string(adaptive.Intermedio), "Leve, Intermedio or Alto")
	return cmd
}

func newTablesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Print the effective lookup tables as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			data, err := rules.Marshal(engine.Tables())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var profilePath, baselinesPath, out, lang string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the adapted plan of a baselines file to an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if baselinesPath == "" {
				return errors.New("--baselines is required")
			}
			p, err := readProfile(profilePath)
			if err != nil {
				return err
			}
			baselines, err := readBaselines(baselinesPath)
			if err != nil {
				return err
			}
			engine, err := opts.engine()
			if err != nil {
				return err
			}

			prescriptions, err := prescribeAll(engine, p.profile(), baselines, time.Now())
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := excel.WritePrescriptions(f, p.Name, prescriptions, i18n.ParseLanguage(lang)); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}
			opts.logger.Info("workbook written", zap.String("path", out), zap.Int("exercises", len(prescriptions)))
			return printJSON(cmd.OutOrStdout(), prescriptions)
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "Athlete profile YAML")
	cmd.Flags().StringVar(&baselinesPath, "baselines", "", "Exercise baselines YAML")
	cmd.Flags().StringVar(&out, "out", "plan.xlsx", "Output workbook")
	cmd.Flags().StringVar(&lang, "lang", string(i18n.DefaultLang), "Workbook language (es, en)")
	return cmd
}

// prescribeAll runs every baseline through the engine with the master rule.
func prescribeAll(engine *adaptive.Engine, profile adaptive.AthleteProfile, baselines []baselineFile, now time.Time) ([]models.Prescription, error) {
	prescriptions := make([]models.Prescription, 0, len(baselines))
	for i, b := range baselines {
		base := b.baseline()
		if err := service.ValidateBaseline(base); err != nil {
			return nil, fmt.Errorf("baseline %d (%s): %w", i+1, b.Exercise, err)
		}
		prescriptions = append(prescriptions, models.Prescription{
			ID:         uuid.New(),
			Exercise:   b.Exercise,
			RuleIDs:    []int{adaptive.MasterRule},
			Result:     engine.ReconstructPrescription(base, profile, adaptive.MasterRule),
			ComputedAt: now,
		})
	}
	return prescriptions, nil
}
