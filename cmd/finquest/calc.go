package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/finquest/internal/calculation"
	"github.com/rgehrsitz/finquest/internal/config"
	"github.com/rgehrsitz/finquest/internal/output"
)

func scoreCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [profile-file]",
		Short: "Score a monthly budget profile",
		Long: "Compute the 0-100 financial health score, the spending analysis and tips for a YAML profile. " +
			"With --save the result is added to the user's score history and may unlock badges.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			save, _ := cmd.Flags().GetBool("save")

			profile, err := config.NewInputParser().LoadProfile(args[0])
			if err != nil {
				return err
			}

			a, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := context.Background()
			report := output.NewReport("Financial Health Score", time.Now())
			report.UserID = a.user
			if save {
				res, err := a.svc.SubmitProfile(ctx, a.user, profile)
				if err != nil {
					return err
				}
				report.Snapshot = &res.Snapshot
				report.NewBadges = res.NewBadges
			} else {
				b, err := a.svc.Evaluate(ctx, a.user, profile)
				if err != nil {
					return err
				}
				report.Breakdown = &b
			}
			return opts.render(cmd, report)
		},
	}
	cmd.Flags().Bool("save", false, "Record the score in the user's history")
	return cmd
}

func validateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [profile-file]",
		Short: "Validate a profile file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ip := config.NewInputParser()
			profile, err := ip.LoadProfile(args[0])
			if err != nil {
				return err
			}

			spending := decimal.Zero
			for _, amount := range profile.Categories {
				spending = spending.Add(amount)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Profile is valid")
			fmt.Fprintf(out, "  Monthly income: %s\n", output.FormatCurrency(profile.MonthlyIncome))
			fmt.Fprintf(out, "  Total spending: %s\n", output.FormatCurrency(spending))

			if catalogPath, _ := cmd.Flags().GetString("catalog"); catalogPath != "" {
				catalog, err := ip.LoadCatalog(catalogPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Catalog is valid: %d challenges, %d badges\n", len(catalog.Challenges), len(catalog.Badges))
			}
			return nil
		},
	}
	cmd.Flags().String("catalog", "", "Also validate a challenge and badge catalog file")
	return cmd
}

func emiCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emi",
		Short: "Calculate the monthly installment of a loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			principal, err := decimalFlag(cmd, "principal")
			if err != nil {
				return err
			}
			rate, err := decimalFlag(cmd, "rate")
			if err != nil {
				return err
			}
			months, _ := cmd.Flags().GetInt("months")

			loan, err := calculation.ComputeEMI(principal, rate, months)
			if err != nil {
				return err
			}
			report := output.NewReport("Loan EMI", time.Now())
			report.Loan = &loan
			return opts.render(cmd, report)
		},
	}
	cmd.Flags().String("principal", "", "Loan amount (required)")
	cmd.Flags().String("rate", "0", "Annual interest rate in percent")
	cmd.Flags().Int("months", 0, "Tenure in months (required)")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("months")
	return cmd
}

func projectCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project the future value of a monthly saving",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			monthly, err := decimalFlag(cmd, "monthly")
			if err != nil {
				return err
			}
			rate, err := decimalFlag(cmd, "rate")
			if err != nil {
				return err
			}
			yearsStr, _ := cmd.Flags().GetString("years")
			years, err := parseYears(yearsStr)
			if err != nil {
				return err
			}

			projections, err := calculation.ProjectSavingsSchedule(monthly, rate, years...)
			if err != nil {
				return err
			}
			report := output.NewReport("Savings Projection", time.Now())
			report.Projections = projections

			if runs, _ := cmd.Flags().GetInt("simulations"); runs > 0 {
				cfg := calculation.SimulationConfig{
					MonthlyContribution: monthly,
					MeanReturn:          rate,
					Years:               slices.Max(years),
					Simulations:         runs,
				}
				if cfg.Volatility, err = decimalFlag(cmd, "volatility"); err != nil {
					return err
				}
				cfg.Seed, _ = cmd.Flags().GetInt64("seed")
				if raw, _ := cmd.Flags().GetString("target"); raw != "" {
					target, err := decimalFlag(cmd, "target")
					if err != nil {
						return err
					}
					cfg.Target = &target
				}
				sim, err := calculation.SimulateSavings(context.Background(), cfg)
				if err != nil {
					return err
				}
				report.Simulation = &sim
			}
			return opts.render(cmd, report)
		},
	}
	cmd.Flags().String("monthly", "", "Monthly contribution (required)")
	cmd.Flags().String("rate", "0", "Expected annual return in percent")
	cmd.Flags().String("years", "1,5,10", "Comma-separated projection horizons in years")
	cmd.Flags().Int("simulations", 0, "Also run this many Monte Carlo simulations over the longest horizon")
	cmd.Flags().String("volatility", "15", "Yearly return standard deviation in percent for simulations")
	cmd.Flags().Int64("seed", 0, "Random seed for simulations (0 picks one)")
	cmd.Flags().String("target", "", "Balance whose odds the simulations should report")
	_ = cmd.MarkFlagRequired("monthly")
	return cmd
}

func emergencyCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emergency",
		Short: "Size an emergency fund",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			expenses, err := decimalFlag(cmd, "expenses")
			if err != nil {
				return err
			}
			months, _ := cmd.Flags().GetInt("months")

			plan, err := calculation.EmergencyFundTarget(expenses, months)
			if err != nil {
				return err
			}
			report := output.NewReport("Emergency Fund", time.Now())
			report.EmergencyFund = &plan
			return opts.render(cmd, report)
		},
	}
	cmd.Flags().String("expenses", "", "Monthly expenses (required)")
	cmd.Flags().Int("months", 6, "Months of expenses to cover")
	_ = cmd.MarkFlagRequired("expenses")
	return cmd
}

func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: not a number", name, raw)
	}
	return d, nil
}

func parseYears(s string) ([]int, error) {
	var years []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		y, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q in --years", part)
		}
		years = append(years, y)
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("--years needs at least one horizon")
	}
	return years, nil
}
