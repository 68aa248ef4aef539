package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/finquest/internal/breakeven"
	"github.com/rgehrsitz/finquest/internal/compare"
	"github.com/rgehrsitz/finquest/internal/config"
	"github.com/rgehrsitz/finquest/internal/domain"
	"github.com/rgehrsitz/finquest/internal/output"
	"github.com/rgehrsitz/finquest/internal/transform"
)

// loadOptionalProfile reads the profile file when one is given; nil means the
// user's saved profile
func loadOptionalProfile(args []string) (*domain.FinancialProfile, error) {
	if len(args) == 0 {
		return nil, nil
	}
	p, err := config.NewInputParser().LoadProfile(args[0])
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func whatifCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatif [profile-file]",
		Short: "Compare budget scenarios against a profile",
		Long: "Score built-in templates and custom transforms against a profile, or against the last saved " +
			"profile when no file is given. Nothing is recorded.\n\n" +
			transform.GetTemplateHelp(transform.CreateBuiltInTemplates()),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list, _ := cmd.Flags().GetBool("list-templates"); list {
				fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
				return nil
			}

			with, _ := cmd.Flags().GetString("with")
			specs, _ := cmd.Flags().GetStringArray("transform")
			if with == "" && len(specs) == 0 {
				return fmt.Errorf("nothing to compare: pass --with templates or --transform specs (see --list-templates)")
			}

			ce := compare.NewCompareEngine(nil)
			scenarios, err := ce.ScenariosFromTemplates(transform.ParseTemplateList(with))
			if err != nil {
				return err
			}
			if len(specs) > 0 {
				registry := transform.NewTransformRegistry()
				custom := compare.Scenario{Name: "custom"}
				for _, spec := range specs {
					t, err := registry.ParseTransformSpec(spec)
					if err != nil {
						return fmt.Errorf("--transform %q: %w", spec, err)
					}
					custom.Transforms = append(custom.Transforms, t)
				}
				scenarios = append(scenarios, custom)
			}

			profile, err := loadOptionalProfile(args)
			if err != nil {
				return err
			}
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			set, err := a.svc.WhatIf(context.Background(), a.user, profile, scenarios)
			if err != nil {
				return err
			}
			report := output.NewReport("What-If Scenarios", time.Now())
			report.UserID = a.user
			report.Scenarios = set
			return opts.render(cmd, report)
		},
	}
	cmd.Flags().String("with", "", "Comma-separated template names")
	cmd.Flags().StringArray("transform", nil, "Custom transform as name:key=value,... (repeatable, combined into one scenario)")
	cmd.Flags().Bool("list-templates", false, "List the built-in templates and exit")
	return cmd
}

func goalCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal [profile-file]",
		Short: "Find the smallest budget change that reaches a goal",
		Long: "Solve for the smallest cut or raise that reaches a score, savings rate, monthly savings or " +
			"future balance, e.g.\n" +
			"  finquest goal profile.yaml --target score --value 70 --lever category --category food\n" +
			"  finquest goal profile.yaml --target future_value --value 500000 --years 10 --rate 7 --all-levers",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targetName, _ := cmd.Flags().GetString("target")
			target, err := breakeven.ParseTarget(targetName)
			if err != nil {
				return err
			}
			value, err := decimalFlag(cmd, "value")
			if err != nil {
				return err
			}
			rate, err := decimalFlag(cmd, "rate")
			if err != nil {
				return err
			}
			years, _ := cmd.Flags().GetInt("years")
			category, _ := cmd.Flags().GetString("category")
			all, _ := cmd.Flags().GetBool("all-levers")

			req := breakeven.GoalRequest{
				Target:     target,
				Value:      value,
				Category:   domain.Category(category),
				Years:      years,
				AnnualRate: rate,
			}
			if !all {
				leverName, _ := cmd.Flags().GetString("lever")
				if req.Lever, err = breakeven.ParseLever(leverName); err != nil {
					return err
				}
			}

			profile, err := loadOptionalProfile(args)
			if err != nil {
				return err
			}
			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()
			report := output.NewReport("Goal", time.Now())
			report.UserID = a.user
			if all {
				levers, err := a.svc.CompareLevers(ctx, a.user, profile, req)
				if err != nil {
					return err
				}
				report.Levers = levers
			} else {
				result, err := a.svc.SolveGoal(ctx, a.user, profile, req)
				if err != nil {
					return err
				}
				report.Goal = result
			}
			return opts.render(cmd, report)
		},
	}
	cmd.Flags().String("target", "score", "Goal kind: score, savings_rate, savings or future_value")
	cmd.Flags().String("value", "", "Goal value (required)")
	cmd.Flags().String("lever", "discretionary", "What to change: discretionary, category or income")
	cmd.Flags().String("category", "", "Category to cut with --lever category")
	cmd.Flags().Int("years", 10, "Horizon in years for future_value")
	cmd.Flags().String("rate", "0", "Expected annual return in percent for future_value")
	cmd.Flags().Bool("all-levers", false, "Try every lever and rank them")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}
